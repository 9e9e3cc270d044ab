package summarizer

import "context"

// Summarizer turns a transcript into a bilingual structured summary.
// The returned text is the provider's raw markdown, section markers included.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}
