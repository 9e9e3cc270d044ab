package processor

import (
	"context"
	"io"
)

// Request is one inbound upload: the caller's address for rate limiting and
// the audio stream with what the client declared about it.
type Request struct {
	SourceAddr   string
	Filename     string
	DeclaredMime string
	File         io.Reader
}

// Result is the finished pipeline output returned to the caller.
type Result struct {
	Transcription  string
	EnglishSummary string
	TurkishSummary string
}

// Processor runs the full transcribe-and-summarize pipeline for one upload.
type Processor interface {
	Process(ctx context.Context, req Request) (*Result, error)
}
