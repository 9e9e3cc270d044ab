package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ekaraca/voicebrief/internal/config"
	"github.com/ekaraca/voicebrief/internal/logger"
	"github.com/ekaraca/voicebrief/pkg/httpclient"
)

const anthropicVersion = "2023-06-01"

type implClaude struct {
	cfg    config.ClaudeConfig
	caller httpclient.Caller
	logger logger.Logger
}

func (s *implClaude) Summarize(ctx context.Context, transcript string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"model":      s.cfg.Model,
		"max_tokens": 4096,
		"messages": []map[string]string{
			{"role": "user", "content": buildPrompt(transcript)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode Claude payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.BaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create Claude request: %w", err)
	}
	req.Header.Set("x-api-key", s.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	status, body, err := s.caller.Do(req)
	if err != nil {
		return "", &Error{Message: "failed to get summary from Claude API: " + err.Error()}
	}
	if status != http.StatusOK {
		s.logger.Error(ctx, "Claude API error: HTTP %d, body: %s", status, logger.Truncate(string(body), 500))
		return "", &Error{
			Message:    extractProviderMessage(body, "failed to get summary from Claude API"),
			HTTPStatus: status,
		}
	}

	var parsed struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return "", &Error{Message: "invalid response from Claude API"}
	}

	return parsed.Content[0].Text, nil
}
