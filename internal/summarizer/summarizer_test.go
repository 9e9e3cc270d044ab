package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ekaraca/voicebrief/internal/config"
	"github.com/ekaraca/voicebrief/internal/logger"
	"github.com/ekaraca/voicebrief/pkg/httpclient"
)

func testCaller() httpclient.Caller {
	return httpclient.New(5 * time.Second)
}

func TestNewSelection(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SummaryConfig
		wantErr bool
	}{
		{
			name:    "gemini configured",
			cfg:     config.SummaryConfig{Service: "gemini", Gemini: config.GeminiConfig{APIKey: "k"}},
			wantErr: false,
		},
		{
			name:    "openai configured",
			cfg:     config.SummaryConfig{Service: "openai", OpenAI: config.OpenAIConfig{APIKey: "k"}},
			wantErr: false,
		},
		{
			name:    "claude configured",
			cfg:     config.SummaryConfig{Service: "claude", Claude: config.ClaudeConfig{APIKey: "k"}},
			wantErr: false,
		},
		{
			name:    "gemini without key",
			cfg:     config.SummaryConfig{Service: "gemini"},
			wantErr: true,
		},
		{
			name:    "unknown service",
			cfg:     config.SummaryConfig{Service: "llama"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, testCaller(), logger.New("error"))
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPromptCarriesTranscriptAndMarkers(t *testing.T) {
	p := buildPrompt("the quarterly numbers were discussed")

	if !strings.Contains(p, "the quarterly numbers were discussed") {
		t.Error("prompt does not contain the transcript verbatim")
	}
	if !strings.Contains(p, "**ENGLISH VERSION:**") {
		t.Error("prompt missing English section marker")
	}
	if !strings.Contains(p, "**TURKISH VERSION (TÜRKÇE):**") {
		t.Error("prompt missing Turkish section marker")
	}
	if !strings.Contains(p, "5-7 main topics") {
		t.Error("prompt missing topic budget")
	}
}

func TestGeminiSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]string{
							{"text": "**ENGLISH VERSION:**\nA\n"},
							{"text": "**TURKISH VERSION (TÜRKÇE):**\nB"},
						},
					},
				},
			},
		})
	}))
	defer srv.Close()

	s := &implGemini{
		cfg:    config.GeminiConfig{APIKey: "k", Model: "gemini-2.5-flash", BaseURL: srv.URL},
		logger: logger.New("error"),
	}

	got, err := s.Summarize(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if !strings.Contains(got, "**ENGLISH VERSION:**\nA") || !strings.Contains(got, "**TURKISH VERSION (TÜRKÇE):**\nB") {
		t.Errorf("Summarize() = %q, parts not concatenated", got)
	}
}

func TestGeminiEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer srv.Close()

	s := &implGemini{
		cfg:    config.GeminiConfig{APIKey: "k", Model: "gemini-2.5-flash", BaseURL: srv.URL},
		logger: logger.New("error"),
	}

	_, err := s.Summarize(context.Background(), "transcript")
	var serr *Error
	if !errors.As(err, &serr) {
		t.Errorf("Summarize() error = %v, want *Error", err)
	}
}

func TestOpenAISummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer ok" {
			t.Errorf("Authorization = %q", got)
		}

		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if len(payload.Messages) != 1 || !strings.Contains(payload.Messages[0].Content, "meeting transcript") {
			t.Error("prompt with transcript not sent")
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "summary text"}},
			},
		})
	}))
	defer srv.Close()

	s := &implOpenAI{
		cfg:    config.OpenAIConfig{APIKey: "ok", Model: "gpt-3.5-turbo", BaseURL: srv.URL},
		caller: testCaller(),
		logger: logger.New("error"),
	}

	got, err := s.Summarize(context.Background(), "meeting transcript")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "summary text" {
		t.Errorf("Summarize() = %q", got)
	}
}

func TestOpenAIErrorMessageSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "rate limit reached"},
		})
	}))
	defer srv.Close()

	s := &implOpenAI{
		cfg:    config.OpenAIConfig{APIKey: "ok", Model: "gpt-3.5-turbo", BaseURL: srv.URL},
		caller: testCaller(),
		logger: logger.New("error"),
	}

	_, err := s.Summarize(context.Background(), "t")

	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("Summarize() error = %v, want *Error", err)
	}
	if serr.HTTPStatus != http.StatusTooManyRequests {
		t.Errorf("HTTPStatus = %d", serr.HTTPStatus)
	}
	if !strings.Contains(serr.Message, "rate limit reached") {
		t.Errorf("provider message not surfaced: %q", serr.Message)
	}
}

func TestClaudeSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "ck" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": "claude summary"}},
		})
	}))
	defer srv.Close()

	s := &implClaude{
		cfg:    config.ClaudeConfig{APIKey: "ck", Model: "claude-3-5-sonnet-20241022", BaseURL: srv.URL},
		caller: testCaller(),
		logger: logger.New("error"),
	}

	got, err := s.Summarize(context.Background(), "t")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "claude summary" {
		t.Errorf("Summarize() = %q", got)
	}
}

func TestClaudeMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"content": []interface{}{}})
	}))
	defer srv.Close()

	s := &implClaude{
		cfg:    config.ClaudeConfig{APIKey: "ck", Model: "claude-3-5-sonnet-20241022", BaseURL: srv.URL},
		caller: testCaller(),
		logger: logger.New("error"),
	}

	_, err := s.Summarize(context.Background(), "t")
	var serr *Error
	if !errors.As(err, &serr) {
		t.Errorf("Summarize() error = %v, want *Error", err)
	}
}
