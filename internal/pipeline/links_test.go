package pipeline

import (
	"strings"
	"testing"
)

func TestRewriteHref(t *testing.T) {
	t.Parallel()

	tests := []struct {
		href string
		want string
	}{
		{"Guide.md", "Guide.html"},
		{"Guide.MD", "Guide.html"},
		{"Notes.readme", "Notes.html"},
		{"Guide", "Guide.html"},
		{"Guide.md#setup", "Guide.html#setup"},
		{"Guide#setup", "Guide.html#setup"},
		{"Guide.md?raw=1", "Guide.html?raw=1"},
		{"sub/Page.md", "sub/Page.html"},
		{"Page.html", "Page.html"},
		{"Page.html#top", "Page.html#top"},
		{".", "./index.html"},
		{"./", "./index.html"},
		{"#anchor", "#anchor"},
		{"", ""},
		{"http://example.com/a.md", "http://example.com/a.md"},
		{"HTTPS://example.com", "HTTPS://example.com"},
		{"mailto:someone@example.com", "mailto:someone@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			t.Parallel()

			if got := RewriteHref(tt.href); got != tt.want {
				t.Errorf("RewriteHref(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestRewriteLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantNot      []string
	}{
		{
			name:         "anchor to sibling page",
			input:        `<p><a href="Guide.md">Guide</a></p>`,
			wantContains: []string{`<a href="Guide.html">Guide</a>`},
			wantNot:      []string{"Guide.md"},
		},
		{
			name:  "several links in one page",
			input: `<a href="A.md">A</a> <a href="https://x.org">x</a> <a href=".">home</a>`,
			wantContains: []string{
				`<a href="A.html">A</a>`,
				`<a href="https://x.org">x</a>`,
				`<a href="./index.html">home</a>`,
			},
		},
		{
			name:         "href on non-anchor element",
			input:        `<div><area href="Map"/></div>`,
			wantContains: []string{`href="Map.html"`},
		},
		{
			name:         "src attributes untouched",
			input:        `<img src="diagram.png"/>`,
			wantContains: []string{`src="diagram.png"`},
			wantNot:      []string{"diagram.png.html"},
		},
		{
			name:         "full document keeps its shell",
			input:        `<!DOCTYPE html><html><head></head><body><a href="B.md">B</a></body></html>`,
			wantContains: []string{"<!DOCTYPE html>", "<body>", `<a href="B.html">B</a>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteLinks(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\ngot: %s", want, got)
				}
			}
			for _, not := range tt.wantNot {
				if strings.Contains(got, not) {
					t.Errorf("output should not contain %q\ngot: %s", not, got)
				}
			}
		})
	}
}
