package server

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/ekaraca/voicebrief/internal/audio"
	"github.com/ekaraca/voicebrief/internal/processor"
)

type processResponse struct {
	Success        bool   `json:"success"`
	Transcription  string `json:"transcription"`
	EnglishSummary string `json:"englishSummary"`
	TurkishSummary string `json:"turkishSummary"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		s.respondError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Headroom for the multipart framing around the audio payload.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody+(1<<20))

	file, header, err := r.FormFile("audioFile")
	if err != nil {
		s.logger.Info(ctx, "Upload rejected: %v", err)
		s.respondError(ctx, w, http.StatusBadRequest, "File upload failed")
		return
	}
	defer file.Close()

	result, err := s.proc.Process(ctx, processor.Request{
		SourceAddr:   clientIP(r),
		Filename:     header.Filename,
		DeclaredMime: header.Header.Get("Content-Type"),
		File:         file,
	})
	if err != nil {
		s.writeProcessError(w, r, err)
		return
	}

	s.respondJSON(ctx, w, http.StatusOK, processResponse{
		Success:        true,
		Transcription:  result.Transcription,
		EnglishSummary: result.EnglishSummary,
		TurkishSummary: result.TurkishSummary,
	})
}

func (s *Server) writeProcessError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	switch {
	case errors.Is(err, processor.ErrRateLimited):
		s.respondError(ctx, w, http.StatusTooManyRequests, "Too many requests. Please wait before uploading again.")
	case audio.IsInvalidFile(err):
		s.respondError(ctx, w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error(ctx, "Pipeline failed for %s: %v", clientIP(r), err)
		s.respondError(ctx, w, http.StatusInternalServerError, err.Error())
	}
}

// clientIP resolves the caller's source address, trusting proxy headers
// first: Client-Ip, then the first hop in X-Forwarded-For, then the socket.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("Client-Ip"); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
