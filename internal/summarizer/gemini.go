package summarizer

import (
	"context"

	"google.golang.org/genai"

	"github.com/ekaraca/voicebrief/internal/config"
	"github.com/ekaraca/voicebrief/internal/logger"
)

type implGemini struct {
	cfg    config.GeminiConfig
	logger logger.Logger
}

func (s *implGemini) Summarize(ctx context.Context, transcript string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: s.cfg.BaseURL,
		},
	})
	if err != nil {
		return "", &Error{Message: "create Gemini client: " + err.Error()}
	}

	result, err := client.Models.GenerateContent(ctx, s.cfg.Model, genai.Text(buildPrompt(transcript)), nil)
	if err != nil {
		s.logger.Error(ctx, "Gemini API error: %s", logger.Truncate(err.Error(), 500))
		return "", &Error{Message: "failed to get summary from Gemini API: " + err.Error()}
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", &Error{Message: "invalid response from Gemini API: no candidates"}
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return "", &Error{Message: "invalid response from Gemini API: empty content"}
	}

	return text, nil
}
