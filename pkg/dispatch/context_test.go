package dispatch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/strata-dev/strata/pkg/router"
)

func newTestCtx(t *testing.T, target string) (*Ctx, *httptest.ResponseRecorder) {
	t.Helper()
	rt, err := router.New(testDecls())
	if err != nil {
		t.Fatalf("router.New() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return &Ctx{
		Writer:  rec,
		Request: req,
		Match:   rt.Match(req.URL.EscapedPath()),
	}, rec
}

func TestCtxParamAndQuery(t *testing.T) {
	ctx, _ := newTestCtx(t, "/files/report.pdf?dl=1")
	if ctx.Match == nil {
		t.Fatal("expected a match")
	}
	if got := ctx.Param("name"); got != "report.pdf" {
		t.Errorf("Param(name) = %q, want %q", got, "report.pdf")
	}
	if got := ctx.Param("missing"); got != "" {
		t.Errorf("Param(missing) = %q, want empty", got)
	}
	if got := ctx.Query("dl"); got != "1" {
		t.Errorf("Query(dl) = %q, want %q", got, "1")
	}
}

func TestCtxRoute(t *testing.T) {
	ctx, _ := newTestCtx(t, "/files/a.txt")
	if route := ctx.Route(); route == nil || route.ID != "files.show" {
		t.Errorf("Route() = %v, want files.show", route)
	}

	empty := &Ctx{}
	if empty.Route() != nil {
		t.Error("Route() on an unmatched ctx should be nil")
	}
	if empty.Param("x") != "" {
		t.Error("Param() on an unmatched ctx should be empty")
	}
}

func TestCtxJSON(t *testing.T) {
	ctx, rec := newTestCtx(t, "/")
	if err := ctx.JSON(http.StatusAccepted, map[string]int{"n": 7}); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["n"] != 7 {
		t.Errorf("body = %q, want {\"n\":7}", rec.Body.String())
	}
}

func TestCtxText(t *testing.T) {
	ctx, rec := newTestCtx(t, "/")
	if err := ctx.Text(http.StatusTeapot, "short and stout"); err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if rec.Body.String() != "short and stout" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestCtxBind(t *testing.T) {
	type fileParams struct {
		Name string `url:"name"`
	}

	ctx, _ := newTestCtx(t, "/files/report.pdf")
	var p fileParams
	if err := ctx.Bind(&p); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if p.Name != "report.pdf" {
		t.Errorf("Name = %q, want %q", p.Name, "report.pdf")
	}

	// Unmatched ctx binds nothing rather than panicking
	empty := &Ctx{}
	var q fileParams
	if err := empty.Bind(&q); err != nil {
		t.Fatalf("Bind() on unmatched ctx error = %v", err)
	}
	if q.Name != "" {
		t.Errorf("Name = %q, want empty", q.Name)
	}
}

func TestCtxBindQuery(t *testing.T) {
	type listQuery struct {
		Page int      `url:"page"`
		Tags []string `url:"tags"`
	}

	ctx, _ := newTestCtx(t, "/files/a.txt?page=2&tags=go,web")
	var q listQuery
	if err := ctx.BindQuery(&q); err != nil {
		t.Fatalf("BindQuery() error = %v", err)
	}
	if q.Page != 2 {
		t.Errorf("Page = %d, want 2", q.Page)
	}
	if len(q.Tags) != 2 || q.Tags[0] != "go" {
		t.Errorf("Tags = %v, want [go web]", q.Tags)
	}
}

func TestCtxLoggerNeverNil(t *testing.T) {
	ctx := &Ctx{}
	if ctx.Logger() == nil {
		t.Error("Logger() should fall back to the default logger")
	}
}
