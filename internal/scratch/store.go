package scratch

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"lukechampine.com/blake3"

	"github.com/ekaraca/voicebrief/internal/logger"
)

// filePrefix marks files this service owns inside the scratch directory.
const filePrefix = "audio_"

// Store holds in-flight audio files on disk for the duration of one request.
type Store interface {
	// Save streams r into the scratch directory and returns the file path.
	// The name embeds a content hash, so concurrent uploads never collide.
	Save(r io.Reader, ext string) (string, error)
	// Remove deletes a scratch file; failures are logged, not returned,
	// because no caller can do anything about them mid-cleanup.
	Remove(ctx context.Context, path string)
}

type implStore struct {
	dir    string
	logger logger.Logger
}

// NewStore creates a Store rooted at dir, creating it if needed.
func NewStore(dir string, log logger.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &implStore{dir: dir, logger: log}, nil
}

func (s *implStore) Save(r io.Reader, ext string) (string, error) {
	tmp, err := os.CreateTemp(s.dir, filePrefix+"*.part")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}

	h := blake3.New(32, nil)
	if _, err := io.Copy(io.MultiWriter(tmp, h), r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close scratch file: %w", err)
	}

	hash := hex.EncodeToString(h.Sum(nil))
	final := filepath.Join(s.dir, fmt.Sprintf("%s%s_%d.%s", filePrefix, hash[:12], time.Now().UnixNano(), ext))
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("finalize scratch file: %w", err)
	}

	return final, nil
}

func (s *implStore) Remove(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil {
		s.logger.Warn(ctx, "Failed to cleanup scratch file %s: %v", path, err)
	} else {
		s.logger.Debug(ctx, "Cleaned up scratch file: %s", path)
	}
}
