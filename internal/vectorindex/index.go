// Package vectorindex provides an in-memory exact nearest-neighbor index
// over embedded document chunks. Search is a linear scan by squared
// Euclidean distance, which is adequate for the session-scoped scale this
// service targets (hundreds to low thousands of chunks).
package vectorindex

import (
	"sort"
	"sync"

	"github.com/docqa-labs/docqa/internal/domain"
)

// entry pairs a chunk with its embedding. The ordinal is the entry's
// position in insertion order and is never reused or reassigned.
type entry struct {
	chunk   domain.Chunk
	vector  []float32
	ordinal int
}

// Index is an append-only in-memory vector index. Inserts take the write
// lock; searches run concurrently under the read lock, so an entry is never
// visible half-written.
type Index struct {
	mu        sync.RWMutex
	dimension int
	entries   []entry
}

// New creates an empty Index. A positive dimension fixes the expected
// vector length up front; zero defers it to the first inserted vector.
func New(dimension int) *Index {
	return &Index{dimension: dimension}
}

// Insert appends one (chunk, vector) pair and returns its ordinal.
// Ordinals are strictly monotonic. Returns ErrDimensionMismatch when the
// vector length does not match the index dimension; the entry count is
// unchanged on failure.
func (idx *Index) Insert(chunk domain.Chunk, vector []float32) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dimension == 0 {
		if len(vector) == 0 {
			return 0, domain.ErrDimensionMismatch
		}
		idx.dimension = len(vector)
	}
	if len(vector) != idx.dimension {
		return 0, domain.ErrDimensionMismatch
	}

	ordinal := len(idx.entries)
	stored := make([]float32, len(vector))
	copy(stored, vector)
	idx.entries = append(idx.entries, entry{chunk: chunk, vector: stored, ordinal: ordinal})
	return ordinal, nil
}

// Search returns the chunks of the at most min(k, Len()) entries nearest to
// query, ordered by ascending squared Euclidean distance with ties broken
// by ascending ordinal. An empty index yields an empty result, not an
// error; callers should gate on IsInitialized instead.
func (idx *Index) Search(query []float32, k int) ([]domain.Chunk, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.entries) == 0 {
		return nil, nil
	}
	if len(query) != idx.dimension {
		return nil, domain.ErrDimensionMismatch
	}
	if k <= 0 {
		return nil, nil
	}

	type scored struct {
		distance float32
		ordinal  int
	}
	candidates := make([]scored, len(idx.entries))
	for i, e := range idx.entries {
		candidates[i] = scored{distance: squaredDistance(query, e.vector), ordinal: e.ordinal}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].ordinal < candidates[j].ordinal
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	results := make([]domain.Chunk, k)
	for i := 0; i < k; i++ {
		results[i] = idx.entries[candidates[i].ordinal].chunk
	}
	return results, nil
}

// IsInitialized reports whether at least one entry has been inserted.
func (idx *Index) IsInitialized() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries) > 0
}

// Len returns the number of stored entries.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Dimension returns the configured or inferred vector dimension.
func (idx *Index) Dimension() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dimension
}

// squaredDistance computes the squared Euclidean distance in the native
// precision of the vectors. Lengths are validated by the callers.
func squaredDistance(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
