package ratelimit

import "time"

// DefaultPollInterval is how long Consume sleeps between failed attempts.
const DefaultPollInterval = 10 * time.Millisecond

// Gate is the blocking admission primitive on top of a Bucket. Consume spins
// in a sleep-poll loop until the bucket can satisfy the request: no timeout,
// no queueing, no fairness among waiters. Under sustained overload a caller
// can wait arbitrarily long; that is the documented contract, not a bug.
type Gate struct {
	bucket *Bucket
	poll   time.Duration
}

func NewGate(bucket *Bucket) *Gate {
	return &Gate{bucket: bucket, poll: DefaultPollInterval}
}

// Consume blocks until n tokens have been taken from the bucket.
func (g *Gate) Consume(n int) {
	for {
		if g.bucket.TryConsume(n) {
			return
		}
		time.Sleep(g.poll)
	}
}
