// Package urlparam converts route parameters and query strings to Go values.
//
// Matched route parameters arrive as strings. This package converts them
// to typed values, either one at a time:
//
//	id, err := urlparam.Int(m.Params, "id")
//
// or by binding a tagged struct:
//
//	type ListQuery struct {
//	    Page int      `url:"page"`
//	    Tags []string `url:"tags"`
//	}
//	var q ListQuery
//	err := urlparam.BindQuery(r.URL.Query(), &q)
//
// Struct fields use the `url` tag for the parameter key, falling back to
// the lowercased field name. A tag of "-" skips the field. Slice fields
// read comma-separated values: ?tags=go,web,api.
package urlparam

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// String returns the value for key, or fallback when absent.
func String(params map[string]string, key, fallback string) string {
	if v, ok := params[key]; ok {
		return v
	}
	return fallback
}

// Int parses the value for key as an int.
func Int(params map[string]string, key string) (int, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("urlparam: no value for %q", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("urlparam: %s: %w", key, err)
	}
	return n, nil
}

// Int64 parses the value for key as an int64.
func Int64(params map[string]string, key string) (int64, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("urlparam: no value for %q", key)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("urlparam: %s: %w", key, err)
	}
	return n, nil
}

// Bool parses the value for key as a bool.
func Bool(params map[string]string, key string) (bool, error) {
	v, ok := params[key]
	if !ok {
		return false, fmt.Errorf("urlparam: no value for %q", key)
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("urlparam: %s: %w", key, err)
	}
	return b, nil
}

// Float64 parses the value for key as a float64.
func Float64(params map[string]string, key string) (float64, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("urlparam: no value for %q", key)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("urlparam: %s: %w", key, err)
	}
	return f, nil
}

// Bind sets the fields of the struct pointed to by dst from params.
// Keys missing from params leave the field untouched.
func Bind(params map[string]string, dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("urlparam: Bind requires a non-nil pointer, got %T", dst)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("urlparam: Bind requires a pointer to struct, got %T", dst)
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !fieldValue.CanSet() {
			continue
		}

		key := fieldKey(field)
		if key == "" {
			continue
		}

		val, ok := params[key]
		if !ok {
			continue
		}

		if err := setValue(fieldValue, val); err != nil {
			return fmt.Errorf("urlparam: %s: %w", key, err)
		}
	}

	return nil
}

// BindQuery binds a parsed query string into the struct pointed to by dst.
// Repeated keys are joined with commas, so ?tags=a&tags=b and ?tags=a,b
// bind the same slice.
func BindQuery(values url.Values, dst any) error {
	flat := make(map[string]string, len(values))
	for key, vals := range values {
		flat[key] = strings.Join(vals, ",")
	}
	return Bind(flat, dst)
}

// Values serializes a struct into a params map, the inverse of Bind.
// Zero-valued fields are skipped.
func Values(src any) (map[string]string, error) {
	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("urlparam: Values requires a non-nil value, got %T", src)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("urlparam: Values requires a struct, got %T", src)
	}

	out := make(map[string]string)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		key := fieldKey(field)
		if key == "" || !field.IsExported() {
			continue
		}

		if fieldValue.IsZero() {
			continue
		}

		out[key] = formatValue(fieldValue)
	}

	return out, nil
}

// fieldKey returns the params key for a struct field, or "" to skip it.
func fieldKey(field reflect.StructField) string {
	key := field.Tag.Get("url")
	if key == "-" {
		return ""
	}
	if key == "" {
		key = strings.ToLower(field.Name)
	}
	return key
}

func setValue(v reflect.Value, s string) error {
	if v.Kind() == reflect.Slice {
		return setSlice(v, s)
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(i)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	default:
		return fmt.Errorf("unsupported type: %v", v.Kind())
	}
	return nil
}

func setSlice(v reflect.Value, s string) error {
	if s == "" {
		v.Set(reflect.MakeSlice(v.Type(), 0, 0))
		return nil
	}

	parts := strings.Split(s, ",")
	slice := reflect.MakeSlice(v.Type(), len(parts), len(parts))
	for i, part := range parts {
		if err := setValue(slice.Index(i), part); err != nil {
			return err
		}
	}
	v.Set(slice)
	return nil
}

func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts[i] = formatValue(v.Index(i))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
