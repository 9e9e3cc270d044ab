package summarizer

import (
	"fmt"

	"github.com/ekaraca/voicebrief/internal/config"
	"github.com/ekaraca/voicebrief/internal/logger"
	"github.com/ekaraca/voicebrief/pkg/httpclient"
)

// Error is a failed summary call. HTTPStatus is zero for transport and
// configuration failures.
type Error struct {
	Message    string
	HTTPStatus int
}

func (e *Error) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("summary failed (HTTP %d): %s", e.HTTPStatus, e.Message)
	}
	return "summary failed: " + e.Message
}

// New selects the configured summary provider. An unknown service name or a
// missing API key fails here, before any network call is made.
func New(cfg config.SummaryConfig, caller httpclient.Caller, log logger.Logger) (Summarizer, error) {
	switch cfg.Service {
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("summary.gemini.api_key is not configured")
		}
		return &implGemini{cfg: cfg.Gemini, logger: log}, nil
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("summary.openai.api_key is not configured")
		}
		return &implOpenAI{cfg: cfg.OpenAI, caller: caller, logger: log}, nil
	case "claude":
		if cfg.Claude.APIKey == "" {
			return nil, fmt.Errorf("summary.claude.api_key is not configured")
		}
		return &implClaude{cfg: cfg.Claude, caller: caller, logger: log}, nil
	default:
		return nil, fmt.Errorf("unknown summary service: %q", cfg.Service)
	}
}
