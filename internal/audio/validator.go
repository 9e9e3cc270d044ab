package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ekaraca/voicebrief/internal/logger"
)

// InvalidFileError rejects an upload before it reaches the transcription
// provider. The HTTP layer maps it to a 400.
type InvalidFileError struct {
	Reason string
}

func (e *InvalidFileError) Error() string {
	return "invalid audio file: " + e.Reason
}

// IsInvalidFile reports whether err is a client-input validation failure.
func IsInvalidFile(err error) bool {
	var ie *InvalidFileError
	return errors.As(err, &ie)
}

var allowedExtensions = map[string]bool{
	"m4a":  true,
	"mp3":  true,
	"wav":  true,
	"mp4":  true,
	"webm": true,
}

var allowedMimeTypes = map[string]bool{
	"audio/mp4":   true,
	"audio/mpeg":  true,
	"audio/wav":   true,
	"audio/x-m4a": true,
	"audio/webm":  true,
	"video/mp4":   true,
	"video/webm":  true,
}

// extensionMime is the canonical extension to MIME table. MP4 maps to
// audio/mp4: the transcription provider wants audio content tagged as audio
// even when the container is a video one.
var extensionMime = map[string]string{
	"m4a":  "audio/mp4",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"mp4":  "audio/mp4",
	"webm": "audio/webm",
}

// Validator checks an uploaded file's extension, size and leading bytes
// before the pipeline spends money on it.
type Validator interface {
	Validate(ctx context.Context, path, filename, declaredMime string) (detectedMime string, err error)
}

type implValidator struct {
	maxSize int64
	logger  logger.Logger
}

// New creates a Validator with the given size ceiling in bytes.
func New(maxSize int64, log logger.Logger) Validator {
	return &implValidator{
		maxSize: maxSize,
		logger:  log,
	}
}

// AllowedExtension reports whether ext (without dot, any case) is accepted.
func AllowedExtension(ext string) bool {
	return allowedExtensions[strings.ToLower(ext)]
}

func (v *implValidator) Validate(ctx context.Context, path, filename, declaredMime string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedExtensions[ext] {
		return "", &InvalidFileError{Reason: fmt.Sprintf("extension %q is not supported (.m4a, .mp3, .wav, .mp4, .webm)", ext)}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat uploaded file: %w", err)
	}
	if info.Size() == 0 {
		return "", &InvalidFileError{Reason: "file is empty"}
	}
	if info.Size() > v.maxSize {
		return "", &InvalidFileError{Reason: fmt.Sprintf("file size %d exceeds the %d byte limit", info.Size(), v.maxSize)}
	}

	header, err := readHeader(path)
	if err != nil {
		return "", fmt.Errorf("read file header: %w", err)
	}

	if !signatureMatches(ext, header) {
		// MP4 containers come in too many box layouts to reject on the
		// header alone; the transcription provider does the final check.
		if ext == "m4a" || ext == "mp4" {
			v.logger.Warn(ctx, "mp4/m4a header check failed for %s, proceeding", filename)
		} else {
			v.logger.Info(ctx, "rejecting %s: header does not match .%s signature", filename, ext)
			return "", &InvalidFileError{Reason: "file content does not match its extension"}
		}
	}

	return resolveMime(header, ext, declaredMime)
}

// readHeader returns up to the first 512 bytes, enough for both the
// signature table (12 bytes) and content sniffing.
func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return nil, err
	}
	return buf[:n], nil
}

func signatureMatches(ext string, header []byte) bool {
	switch ext {
	case "m4a", "mp4":
		// 'ftyp' box at offset 4, some writers place it at 0;
		// a plausible first byte is accepted as a last resort.
		if len(header) >= 8 && bytes.Equal(header[4:8], []byte("ftyp")) {
			return true
		}
		if len(header) >= 4 && bytes.Equal(header[0:4], []byte("ftyp")) {
			return true
		}
		return len(header) >= 1 && header[0] > 0x00 && header[0] < 0xFF
	case "mp3":
		if len(header) >= 3 && bytes.Equal(header[0:3], []byte("ID3")) {
			return true
		}
		// MPEG frame sync: 11 set bits.
		return len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0
	case "wav":
		return len(header) >= 4 && bytes.Equal(header[0:4], []byte("RIFF"))
	case "webm":
		return len(header) >= 4 && bytes.Equal(header[0:4], []byte{0x1A, 0x45, 0xDF, 0xA3})
	default:
		return true
	}
}

// resolveMime picks the MIME type sent to the transcription provider:
// content sniff when it lands in the allowed set, else the canonical
// extension mapping, else the caller's declared type if that is allowed.
func resolveMime(header []byte, ext, declaredMime string) (string, error) {
	sniffed := strings.ToLower(http.DetectContentType(header))
	if i := strings.Index(sniffed, ";"); i >= 0 {
		sniffed = strings.TrimSpace(sniffed[:i])
	}
	if allowedMimeTypes[sniffed] {
		return sniffed, nil
	}

	if m, ok := extensionMime[ext]; ok {
		return m, nil
	}

	if allowedMimeTypes[declaredMime] {
		return declaredMime, nil
	}

	return "", &InvalidFileError{Reason: "could not determine an accepted audio MIME type"}
}
