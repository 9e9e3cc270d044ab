package ratelimit

import "context"

// Window is how far back requests count against the limit.
const Window = 3600 // seconds

// Limiter bounds requests per source address inside a rolling hour window.
type Limiter interface {
	// CheckAndRecord prunes expired entries, counts the remaining requests
	// from sourceAddr and, if the limit is not reached, records the current
	// request. It returns false when the request must be rejected.
	CheckAndRecord(ctx context.Context, sourceAddr string) (bool, error)
}
