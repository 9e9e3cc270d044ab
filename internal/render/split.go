package render

import (
	"regexp"
	"strings"
)

// The two fixed section markers the summary prompt asks every provider to
// emit. Splitting is best effort: provider output is free text.
var (
	englishSection = regexp.MustCompile(`(?s)\*\*ENGLISH VERSION:\*\*(.*?)(?:\*\*TURKISH|$)`)
	turkishSection = regexp.MustCompile(`(?s)\*\*TURKISH VERSION.*?:\*\*(.*)$`)
)

// SplitBilingual extracts the English and Turkish sections from a raw
// summary. When neither marker is present both outputs carry the full raw
// text; a one-language summary is more useful than a failed request.
func SplitBilingual(raw string) (english, turkish string) {
	if m := englishSection.FindStringSubmatch(raw); m != nil {
		english = strings.TrimSpace(m[1])
	}
	if m := turkishSection.FindStringSubmatch(raw); m != nil {
		turkish = strings.TrimSpace(m[1])
	}

	if english == "" && turkish == "" {
		english = raw
		turkish = raw
	}

	return english, turkish
}
