package render

import (
	"regexp"
	"strings"
)

var boldSpan = regexp.MustCompile(`\*\*(.*?)\*\*`)

// MarkdownToHTML renders the restricted markdown subset the summary prompt
// asks for: level 1-3 headers, unordered bullets, bold spans and line
// breaks. Anything else passes through as literal text. Lines that already
// start with markup are left alone, so feeding rendered output back in never
// wraps a list twice.
func MarkdownToHTML(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	inList := false

	closeList := func() {
		if inList {
			out = append(out, "</ul>")
			inList = false
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "### "):
			closeList()
			out = append(out, `<h3 class="text-xl font-bold mt-4 mb-2">`+bold(trimmed[4:])+`</h3>`)
		case strings.HasPrefix(trimmed, "## "):
			closeList()
			out = append(out, `<h2 class="text-2xl font-bold mt-6 mb-3">`+bold(trimmed[3:])+`</h2>`)
		case strings.HasPrefix(trimmed, "# "):
			closeList()
			out = append(out, `<h1 class="text-3xl font-bold mt-8 mb-4">`+bold(trimmed[2:])+`</h1>`)
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			if !inList {
				out = append(out, `<ul class="list-disc ml-6 mb-4">`)
				inList = true
			}
			out = append(out, `<li class="ml-4 mb-1">`+bold(trimmed[2:])+`</li>`)
		case trimmed == "":
			closeList()
			out = append(out, "<br>")
		case strings.HasPrefix(trimmed, "<"):
			// Already rendered markup.
			closeList()
			out = append(out, line)
		default:
			closeList()
			out = append(out, bold(line)+"<br>")
		}
	}
	closeList()

	return strings.Join(out, "\n")
}

func bold(s string) string {
	return boldSpan.ReplaceAllString(s, "<strong>$1</strong>")
}
