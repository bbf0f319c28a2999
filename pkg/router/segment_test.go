package router

import (
	"reflect"
	"testing"
)

func TestNormalizePattern(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "root",
			input: "/",
			want:  "/",
		},
		{
			name:  "empty is root",
			input: "",
			want:  "/",
		},
		{
			name:  "trailing slash stripped",
			input: "/users/",
			want:  "/users",
		},
		{
			name:  "no trailing slash unchanged",
			input: "/users",
			want:  "/users",
		},
		{
			name:  "missing leading slash added",
			input: "users/:id",
			want:  "/users/:id",
		},
		{
			name:  "only one trailing slash stripped",
			input: "/users//",
			want:  "/users/",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizePattern(tc.input); got != tc.want {
				t.Errorf("NormalizePattern(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestCompilePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    []Segment
	}{
		{
			name:    "root is empty list",
			pattern: "/",
			want:    nil,
		},
		{
			name:    "single static",
			pattern: "/about",
			want:    []Segment{{Kind: SegmentStatic, Text: "about"}},
		},
		{
			name:    "nested static",
			pattern: "/docs/guide/intro",
			want: []Segment{
				{Kind: SegmentStatic, Text: "docs"},
				{Kind: SegmentStatic, Text: "guide"},
				{Kind: SegmentStatic, Text: "intro"},
			},
		},
		{
			name:    "named parameter",
			pattern: "/users/:id",
			want: []Segment{
				{Kind: SegmentStatic, Text: "users"},
				{Kind: SegmentParam, Name: "id"},
			},
		},
		{
			name:    "multiple parameters",
			pattern: "/users/:userId/posts/:postId",
			want: []Segment{
				{Kind: SegmentStatic, Text: "users"},
				{Kind: SegmentParam, Name: "userId"},
				{Kind: SegmentStatic, Text: "posts"},
				{Kind: SegmentParam, Name: "postId"},
			},
		},
		{
			name:    "anonymous wildcard",
			pattern: "/files/*",
			want: []Segment{
				{Kind: SegmentStatic, Text: "files"},
				{Kind: SegmentWildcard},
			},
		},
		{
			name:    "named wildcard",
			pattern: "/files/:path*",
			want: []Segment{
				{Kind: SegmentStatic, Text: "files"},
				{Kind: SegmentWildcard, Name: "path"},
			},
		},
		{
			name:    "optional named wildcard",
			pattern: "/docs/:path*?",
			want: []Segment{
				{Kind: SegmentStatic, Text: "docs"},
				{Kind: SegmentWildcard, Name: "path", Optional: true},
			},
		},
		{
			name:    "trailing slash ignored",
			pattern: "/users/:id/",
			want: []Segment{
				{Kind: SegmentStatic, Text: "users"},
				{Kind: SegmentParam, Name: "id"},
			},
		},
		{
			name:    "bare colon is literal",
			pattern: "/users/:",
			want: []Segment{
				{Kind: SegmentStatic, Text: "users"},
				{Kind: SegmentStatic, Text: ":"},
			},
		},
		{
			name:    "colon star is literal",
			pattern: "/users/:*",
			want: []Segment{
				{Kind: SegmentStatic, Text: "users"},
				{Kind: SegmentStatic, Text: ":*"},
			},
		},
		{
			name:    "star question mark alone is literal",
			pattern: "/files/*?",
			want: []Segment{
				{Kind: SegmentStatic, Text: "files"},
				{Kind: SegmentStatic, Text: "*?"},
			},
		},
		{
			name:    "star inside name is literal",
			pattern: "/a/:x*y",
			want: []Segment{
				{Kind: SegmentStatic, Text: "a"},
				{Kind: SegmentStatic, Text: ":x*y"},
			},
		},
		{
			name:    "question mark inside name is literal",
			pattern: "/a/:x?",
			want: []Segment{
				{Kind: SegmentStatic, Text: "a"},
				{Kind: SegmentStatic, Text: ":x?"},
			},
		},
		{
			name:    "wildcard position is not the compiler's problem",
			pattern: "/a/*/b",
			want: []Segment{
				{Kind: SegmentStatic, Text: "a"},
				{Kind: SegmentWildcard},
				{Kind: SegmentStatic, Text: "b"},
			},
		},
		{
			name:    "interior empty segment is a literal",
			pattern: "/a//b",
			want: []Segment{
				{Kind: SegmentStatic, Text: "a"},
				{Kind: SegmentStatic, Text: ""},
				{Kind: SegmentStatic, Text: "b"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CompilePattern(tc.pattern)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("CompilePattern(%q) = %+v, want %+v", tc.pattern, got, tc.want)
			}
		})
	}
}

func TestCompilePatternDeterministic(t *testing.T) {
	pattern := "/users/:id/files/:path*"
	first := CompilePattern(pattern)
	for i := 0; i < 10; i++ {
		if got := CompilePattern(pattern); !reflect.DeepEqual(got, first) {
			t.Fatalf("CompilePattern(%q) not deterministic: %+v vs %+v", pattern, got, first)
		}
	}
}

func TestSegmentString(t *testing.T) {
	tests := []struct {
		seg  Segment
		want string
	}{
		{Segment{Kind: SegmentStatic, Text: "users"}, "users"},
		{Segment{Kind: SegmentParam, Name: "id"}, ":id"},
		{Segment{Kind: SegmentWildcard}, "*"},
		{Segment{Kind: SegmentWildcard, Name: "path"}, ":path*"},
		{Segment{Kind: SegmentWildcard, Name: "path", Optional: true}, ":path*?"},
	}

	for _, tc := range tests {
		if got := tc.seg.String(); got != tc.want {
			t.Errorf("Segment%+v.String() = %q, want %q", tc.seg, got, tc.want)
		}
	}
}
