package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ekaraca/voicebrief/internal/render"
)

// Process runs the pipeline stages strictly in order: rate limit, save,
// validate, upload, submit, poll, summarize, split and render. The scratch
// file is removed on every exit path.
func (p *implProcessor) Process(ctx context.Context, req Request) (*Result, error) {
	allowed, err := p.limiter.CheckAndRecord(ctx, req.SourceAddr)
	if err != nil {
		// The limiter is fail-open: it already decided, this is for the log.
		p.logger.Warn(ctx, "Rate limit store error for %s: %v", req.SourceAddr, err)
	}
	if !allowed {
		p.logger.Info(ctx, "Rate limited: %s", req.SourceAddr)
		return nil, ErrRateLimited
	}

	if err := p.acquire(ctx); err != nil {
		return nil, err
	}
	defer p.release()

	startTime := time.Now()
	p.logger.Info(ctx, "Starting pipeline for %s (source: %s)", req.Filename, req.SourceAddr)

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.Filename), "."))
	path, err := p.store.Save(req.File, ext)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	defer p.store.Remove(ctx, path)

	mimeType, err := p.validator.Validate(ctx, path, req.Filename, req.DeclaredMime)
	if err != nil {
		return nil, err
	}
	p.logger.Debug(ctx, "Validated %s as %s", req.Filename, mimeType)

	uploadURL, err := p.transcriber.Upload(ctx, path, mimeType)
	if err != nil {
		return nil, err
	}

	jobID, err := p.transcriber.Submit(ctx, uploadURL)
	if err != nil {
		return nil, err
	}
	p.logger.Info(ctx, "Transcription job %s submitted for %s", jobID, req.Filename)

	transcript, err := p.transcriber.PollUntilDone(ctx, jobID)
	if err != nil {
		return nil, err
	}
	p.logger.Info(ctx, "Transcription %s completed (%d chars)", jobID, len(transcript))

	rawSummary, err := p.summarizer.Summarize(ctx, transcript)
	if err != nil {
		return nil, err
	}

	english, turkish := render.SplitBilingual(rawSummary)

	result := &Result{
		Transcription:  transcript,
		EnglishSummary: render.MarkdownToHTML(english),
		TurkishSummary: render.MarkdownToHTML(turkish),
	}

	p.logger.Info(ctx, "Pipeline completed for %s in %s", req.Filename, time.Since(startTime))
	return result, nil
}

func (p *implProcessor) acquire(ctx context.Context) error {
	select {
	case p.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *implProcessor) release() {
	<-p.slots
}
