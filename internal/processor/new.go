package processor

import (
	"errors"

	"github.com/ekaraca/voicebrief/internal/audio"
	"github.com/ekaraca/voicebrief/internal/logger"
	"github.com/ekaraca/voicebrief/internal/ratelimit"
	"github.com/ekaraca/voicebrief/internal/scratch"
	"github.com/ekaraca/voicebrief/internal/summarizer"
	"github.com/ekaraca/voicebrief/internal/transcriber"
)

// ErrRateLimited is returned before any pipeline stage runs when the source
// address spent its hourly request budget.
var ErrRateLimited = errors.New("too many requests from this address")

type implProcessor struct {
	limiter     ratelimit.Limiter
	validator   audio.Validator
	store       scratch.Store
	transcriber transcriber.Client
	summarizer  summarizer.Summarizer
	logger      logger.Logger
	slots       chan struct{}
}

// New creates a Processor. maxConcurrent bounds how many pipelines may run
// at once; a transcription can hold its slot for up to an hour.
func New(
	limiter ratelimit.Limiter,
	validator audio.Validator,
	store scratch.Store,
	tc transcriber.Client,
	sm summarizer.Summarizer,
	log logger.Logger,
	maxConcurrent int,
) Processor {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &implProcessor{
		limiter:     limiter,
		validator:   validator,
		store:       store,
		transcriber: tc,
		summarizer:  sm,
		logger:      log,
		slots:       make(chan struct{}, maxConcurrent),
	}
}
