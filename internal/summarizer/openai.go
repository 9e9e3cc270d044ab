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

type implOpenAI struct {
	cfg    config.OpenAIConfig
	caller httpclient.Caller
	logger logger.Logger
}

func (s *implOpenAI) Summarize(ctx context.Context, transcript string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"model": s.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": buildPrompt(transcript)},
		},
		"max_tokens": 2000,
	})
	if err != nil {
		return "", fmt.Errorf("encode OpenAI payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create OpenAI request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("content-type", "application/json")

	status, body, err := s.caller.Do(req)
	if err != nil {
		return "", &Error{Message: "failed to get summary from OpenAI API: " + err.Error()}
	}
	if status != http.StatusOK {
		s.logger.Error(ctx, "OpenAI API error: HTTP %d, body: %s", status, logger.Truncate(string(body), 500))
		return "", &Error{
			Message:    extractProviderMessage(body, "failed to get summary from OpenAI API"),
			HTTPStatus: status,
		}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &Error{Message: "invalid response from OpenAI API"}
	}

	return parsed.Choices[0].Message.Content, nil
}

// extractProviderMessage appends the provider's error.message field to the
// fallback text when the error body is parseable JSON.
func extractProviderMessage(body []byte, fallback string) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return fallback + ": " + parsed.Error.Message
	}
	return fallback
}
