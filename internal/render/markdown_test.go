package render

import (
	"strings"
	"testing"
)

func TestMarkdownToHTMLHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"h1", "# Title", `<h1 class="text-3xl font-bold mt-8 mb-4">Title</h1>`},
		{"h2", "## Section", `<h2 class="text-2xl font-bold mt-6 mb-3">Section</h2>`},
		{"h3", "### Sub", `<h3 class="text-xl font-bold mt-4 mb-2">Sub</h3>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarkdownToHTML(tt.in); got != tt.want {
				t.Errorf("MarkdownToHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMarkdownToHTMLBullets(t *testing.T) {
	got := MarkdownToHTML("- first\n- second\n* third")

	if strings.Count(got, "<ul") != 1 {
		t.Errorf("want one list, got %q", got)
	}
	if strings.Count(got, "<li") != 3 {
		t.Errorf("want three items, got %q", got)
	}
	if !strings.Contains(got, `<li class="ml-4 mb-1">first</li>`) {
		t.Errorf("item markup wrong: %q", got)
	}
}

func TestMarkdownToHTMLSeparateLists(t *testing.T) {
	got := MarkdownToHTML("- a\n\ntext between\n\n- b")
	if strings.Count(got, "<ul") != 2 {
		t.Errorf("bullet runs split by text must become two lists: %q", got)
	}
}

func TestMarkdownToHTMLBoldAndBreaks(t *testing.T) {
	got := MarkdownToHTML("some **important** point")
	want := "some <strong>important</strong> point<br>"
	if got != want {
		t.Errorf("MarkdownToHTML() = %q, want %q", got, want)
	}
}

func TestMarkdownToHTMLUnsupportedSyntaxPassesThrough(t *testing.T) {
	got := MarkdownToHTML("a [link](http://example.com) and `code`")
	if !strings.Contains(got, "[link](http://example.com)") || !strings.Contains(got, "`code`") {
		t.Errorf("unsupported markdown must pass through literally: %q", got)
	}
}

func TestMarkdownToHTMLIdempotentListWrap(t *testing.T) {
	once := MarkdownToHTML("- first\n- second")
	twice := MarkdownToHTML(once)

	if strings.Count(twice, "<ul") != strings.Count(once, "<ul") {
		t.Errorf("second render double-wrapped the list:\nonce  %q\ntwice %q", once, twice)
	}
	if strings.Count(twice, "<li") != strings.Count(once, "<li") {
		t.Errorf("second render altered list items:\nonce  %q\ntwice %q", once, twice)
	}
}

func TestMarkdownToHTMLFullSection(t *testing.T) {
	in := "### Main Topics\n- **Budget** was approved\n- Timeline moved\n\nNotable details follow."
	got := MarkdownToHTML(in)

	for _, want := range []string{
		`<h3 class="text-xl font-bold mt-4 mb-2">Main Topics</h3>`,
		`<li class="ml-4 mb-1"><strong>Budget</strong> was approved</li>`,
		"Notable details follow.<br>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%q", want, got)
		}
	}
}
