package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"github.com/ekaraca/voicebrief/internal/logger"
)

// uploadMime normalizes container MIME types: the provider expects audio
// content tagged audio/*, never video/mp4.
func uploadMime(mimeType string) string {
	switch mimeType {
	case "video/mp4":
		return "audio/mp4"
	case "video/webm":
		return "audio/webm"
	case "":
		return "application/octet-stream"
	default:
		return mimeType
	}
}

// Upload streams the audio file to the provider as a multipart body and
// returns the provider-hosted URL for it.
func (c *implClient) Upload(ctx context.Context, path, mimeType string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	errCh := make(chan error, 1)
	go func() {
		defer pw.Close()
		defer mw.Close()

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filepath.Base(path)))
		h.Set("Content-Type", uploadMime(mimeType))

		part, err := mw.CreatePart(h)
		if err != nil {
			errCh <- err
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	status, body, err := c.caller.Do(req)
	if err != nil {
		return "", &Error{Op: "upload", Message: err.Error()}
	}
	if writeErr := <-errCh; writeErr != nil {
		return "", &Error{Op: "upload", Message: "multipart write: " + writeErr.Error()}
	}
	if status != http.StatusOK {
		c.logger.Error(ctx, "upload rejected: HTTP %d, body: %s", status, logger.Truncate(string(body), 500))
		return "", &Error{
			Op:         "upload",
			Message:    providerError(body, "failed to upload file to transcription service"),
			HTTPStatus: status,
		}
	}

	var parsed struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.UploadURL == "" {
		return "", &Error{Op: "upload", Message: "invalid response from transcription service"}
	}

	return parsed.UploadURL, nil
}

// Submit creates the transcription job for an already uploaded file.
func (c *implClient) Submit(ctx context.Context, uploadURL string) (string, error) {
	payload, err := json.Marshal(map[string]string{"audio_url": uploadURL})
	if err != nil {
		return "", fmt.Errorf("encode submit payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create submit request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/json")

	status, body, err := c.caller.Do(req)
	if err != nil {
		return "", &Error{Op: "submit", Message: err.Error()}
	}
	if status != http.StatusOK {
		c.logger.Error(ctx, "submit rejected: HTTP %d, body: %s", status, logger.Truncate(string(body), 500))
		return "", &Error{
			Op:         "submit",
			Message:    providerError(body, "failed to submit transcription job"),
			HTTPStatus: status,
		}
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.ID == "" {
		return "", &Error{Op: "submit", Message: "invalid response from transcription service"}
	}

	return parsed.ID, nil
}

// PollUntilDone sleeps, checks the job status and repeats until the job
// completes, errors out, the context is cancelled or the attempt budget is
// spent. Transcription of long recordings can legitimately take the whole
// budget, so the interval is deliberately coarse.
func (c *implClient) PollUntilDone(ctx context.Context, jobID string) (string, error) {
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if err := sleep(ctx, c.pollInterval); err != nil {
			return "", err
		}

		result, err := c.getTranscription(ctx, jobID)
		if err != nil {
			return "", err
		}

		switch result.Status {
		case "completed":
			return result.Text, nil
		case "error":
			msg := "transcription failed"
			if result.Error != "" {
				msg += ": " + result.Error
			}
			return "", &Error{Op: "transcription", Message: msg}
		case "queued", "processing":
			c.logger.Debug(ctx, "transcript %s still %s (attempt %d/%d)", jobID, result.Status, attempt+1, c.maxAttempts)
		default:
			c.logger.Warn(ctx, "transcript %s reported unknown status %q", jobID, result.Status)
		}
	}

	return "", ErrTimeout
}

type transcriptionResult struct {
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

func (c *implClient) getTranscription(ctx context.Context, jobID string) (*transcriptionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("create status request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)

	status, body, err := c.caller.Do(req)
	if err != nil {
		return nil, &Error{Op: "transcription", Message: err.Error()}
	}
	if status != http.StatusOK {
		c.logger.Error(ctx, "status check rejected: HTTP %d, body: %s", status, logger.Truncate(string(body), 500))
		return nil, &Error{
			Op:         "transcription",
			Message:    providerError(body, "failed to get transcription"),
			HTTPStatus: status,
		}
	}

	var result transcriptionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &Error{Op: "transcription", Message: "invalid response from transcription service"}
	}

	return &result, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
