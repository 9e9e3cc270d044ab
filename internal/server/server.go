package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/ekaraca/voicebrief/internal/logger"
	"github.com/ekaraca/voicebrief/internal/processor"
)

// Server exposes the pipeline over HTTP.
type Server struct {
	proc    processor.Processor
	maxBody int64
	logger  logger.Logger
}

// New creates a Server. maxBody is the audio size ceiling in bytes; the
// request body limit adds headroom for the multipart framing.
func New(proc processor.Processor, maxBody int64, log logger.Logger) *Server {
	return &Server{
		proc:    proc,
		maxBody: maxBody,
		logger:  log,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/process", s.handleProcess)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// respondJSON writes v without escaping unicode or HTML, the summaries are
// Turkish text with embedded markup.
func (s *Server) respondJSON(ctx context.Context, w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.logger.Error(ctx, "JSON encoding error: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to encode response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) respondError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	s.respondJSON(ctx, w, status, map[string]string{"error": msg})
}
