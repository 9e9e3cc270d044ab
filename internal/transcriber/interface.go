package transcriber

import "context"

// Client drives one transcription job at the speech-to-text provider:
// upload the audio bytes, submit the job, then poll until it finishes.
type Client interface {
	Upload(ctx context.Context, path, mimeType string) (uploadURL string, err error)
	Submit(ctx context.Context, uploadURL string) (jobID string, err error)
	PollUntilDone(ctx context.Context, jobID string) (transcript string, err error)
}
