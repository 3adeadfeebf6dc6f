// Package limiter implements sliding-window rate limiting for question
// requests, keyed by client identity.
package limiter

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

const (
	// DefaultMaxRequests is the number of questions a client may ask per window.
	DefaultMaxRequests = 10
	// DefaultWindow is the trailing duration over which requests are counted.
	DefaultWindow = 24 * time.Hour
)

// Table tracks per-client request timestamps. The prune, check, and append
// steps of TryAcquire form one atomic unit under the table lock, so
// concurrent requests can never push a client past the limit.
type Table struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	usage       map[string][]time.Time
}

// New creates a Table. Non-positive arguments fall back to the defaults.
func New(maxRequests int, window time.Duration) *Table {
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Table{
		maxRequests: maxRequests,
		window:      window,
		usage:       make(map[string][]time.Time),
	}
}

// Identify derives a client key from connection-level identity combined
// with a request fingerprint. The same underlying client always maps to the
// same key within one process lifetime.
func Identify(remoteIP, userAgent string) string {
	h := fnv.New64a()
	h.Write([]byte(userAgent))
	return fmt.Sprintf("%s_%x", remoteIP, h.Sum64())
}

// TryAcquire records one request for clientKey if the client is under the
// limit. It returns whether the request is allowed and how many requests
// remain in the window. Rejected attempts record no timestamp.
func (t *Table) TryAcquire(clientKey string, now time.Time) (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	recent := t.prune(clientKey, now)
	if len(recent) >= t.maxRequests {
		return false, 0
	}

	t.usage[clientKey] = append(recent, now)
	return true, t.maxRequests - (len(recent) + 1)
}

// Remaining returns how many requests clientKey may still make at now.
// It is read-only apart from pruning expired timestamps and returns the
// full limit for clients with no record.
func (t *Table) Remaining(clientKey string, now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	recent := t.prune(clientKey, now)
	remaining := t.maxRequests - len(recent)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Reset drops the usage record for clientKey. Test support only.
func (t *Table) Reset(clientKey string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.usage, clientKey)
}

// Limit returns the configured per-window request limit.
func (t *Table) Limit() int {
	return t.maxRequests
}

// prune drops timestamps older than now minus the window and stores the
// surviving slice back. Caller must hold the lock.
func (t *Table) prune(clientKey string, now time.Time) []time.Time {
	record, ok := t.usage[clientKey]
	if !ok {
		return nil
	}

	cutoff := now.Add(-t.window)
	kept := record[:0]
	for _, ts := range record {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) == 0 {
		delete(t.usage, clientKey)
		return nil
	}
	t.usage[clientKey] = kept
	return kept
}
