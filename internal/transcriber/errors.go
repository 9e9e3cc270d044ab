package transcriber

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrTimeout means the poll budget ran out before the job completed.
var ErrTimeout = errors.New("transcription timed out")

// Error is a failed call to the transcription provider.
type Error struct {
	Op         string // upload, submit, transcription
	Message    string
	HTTPStatus int
}

func (e *Error) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("%s failed (HTTP %d): %s", e.Op, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

// providerError pulls the provider's own error text out of an error body,
// falling back to fallback when the body is not the expected JSON.
func providerError(body []byte, fallback string) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return fallback + ": " + parsed.Error
	}
	return fallback
}
