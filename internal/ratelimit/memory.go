package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	sourceAddr string
	timestamp  time.Time
}

type implMemory struct {
	mu      sync.Mutex
	entries []entry
	limit   int
	now     func() time.Time
}

// NewMemory creates an in-process Limiter for single-instance deployments.
func NewMemory(limit int) Limiter {
	return &implMemory{
		limit: limit,
		now:   time.Now,
	}
}

func (m *implMemory) CheckAndRecord(ctx context.Context, sourceAddr string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-Window * time.Second)

	kept := m.entries[:0]
	count := 0
	for _, e := range m.entries {
		if !e.timestamp.After(cutoff) {
			continue
		}
		kept = append(kept, e)
		if e.sourceAddr == sourceAddr {
			count++
		}
	}
	m.entries = kept

	if count >= m.limit {
		return false, nil
	}

	m.entries = append(m.entries, entry{sourceAddr: sourceAddr, timestamp: now})
	return true, nil
}
