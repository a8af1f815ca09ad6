// Package ratelimit implements the process-wide token bucket that paces all
// generation, and the admission gate requests use to draw from it.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/logger"
)

// RefillInterval is how often the bucket is reset to full capacity.
const RefillInterval = time.Second

// Bucket is a shared token bucket with window-reset semantics: Refill
// overwrites the available count with the configured capacity instead of
// adding to it, so unused tokens never roll over into the next window.
// This makes it a strict per-second quota rather than an accumulating
// bucket, which is why golang.org/x/time/rate is not used here.
//
// A single Bucket is created at startup and handed to every request; there
// is no global instance.
type Bucket struct {
	mu        sync.Mutex
	capacity  int
	available int
}

// NewBucket returns an empty bucket. Nothing can be consumed until the first
// Refill, so callers admitted at boot wait out at most one refill interval.
func NewBucket(capacity int) *Bucket {
	return &Bucket{capacity: capacity}
}

// Refill resets the available count to full capacity.
func (b *Bucket) Refill() {
	b.mu.Lock()
	b.available = b.capacity
	b.mu.Unlock()
}

// TryConsume takes n tokens if at least n are available and reports whether
// it did. On failure the bucket is left untouched.
func (b *Bucket) TryConsume(n int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.available < n {
		return false
	}
	b.available -= n
	return true
}

// Available reports the current token count.
func (b *Bucket) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.available
}

// Capacity reports the configured refill amount.
func (b *Bucket) Capacity() int {
	return b.capacity
}

// RunRefiller refills the bucket once per interval until ctx is canceled.
// In the server this runs as a goroutine for the whole process lifetime;
// the ctx is there so tests can stop it.
func (b *Bucket) RunRefiller(ctx context.Context, interval time.Duration) {
	logger.Log.Infow("[ratelimit] refiller started", "capacity", b.capacity, "interval", interval)

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Infow("[ratelimit] refiller stopped")
			return
		case <-t.C:
			b.Refill()
		}
	}
}
