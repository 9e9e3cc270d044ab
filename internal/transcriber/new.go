package transcriber

import (
	"time"

	"github.com/ekaraca/voicebrief/internal/config"
	"github.com/ekaraca/voicebrief/internal/logger"
	"github.com/ekaraca/voicebrief/pkg/httpclient"
)

type implClient struct {
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	maxAttempts  int
	caller       httpclient.Caller
	logger       logger.Logger
}

// New creates a transcription Client from the provider config.
func New(cfg config.AssemblyAIConfig, caller httpclient.Caller, log logger.Logger) Client {
	return &implClient{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		pollInterval: time.Duration(cfg.PollIntervalSeconds) * time.Second,
		maxAttempts:  cfg.MaxPollAttempts,
		caller:       caller,
		logger:       log,
	}
}
