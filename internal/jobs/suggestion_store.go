package jobs

import (
	"sync"
	"time"

	"github.com/docqa-labs/docqa/internal/domain"
	"github.com/google/uuid"
)

// SuggestionJob asks for follow-up questions about one ingested source.
type SuggestionJob struct {
	ID        string
	Source    string
	Chunks    []domain.Chunk
	CreatedAt time.Time
}

// SuggestionStore is the in-memory queue and result cache for follow-up
// question generation. Ingestion enqueues; the suggestion worker claims
// pending jobs and publishes results keyed by source label.
type SuggestionStore struct {
	mu      sync.Mutex
	pending []SuggestionJob
	results map[string][]string
}

// NewSuggestionStore creates an empty SuggestionStore.
func NewSuggestionStore() *SuggestionStore {
	return &SuggestionStore{
		results: make(map[string][]string),
	}
}

// Enqueue records a suggestion job for source. It never blocks and never
// fails, so it is safe to call from the ingestion path. Only the leading
// chunks are retained since the summary uses just the head of the document.
func (s *SuggestionStore) Enqueue(source string, chunks []domain.Chunk) {
	head := chunks
	if len(head) > SummaryChunks {
		head = head[:SummaryChunks]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, SuggestionJob{
		ID:        uuid.NewString(),
		Source:    source,
		Chunks:    head,
		CreatedAt: time.Now().UTC(),
	})
}

// ClaimPending removes and returns all queued jobs.
func (s *SuggestionStore) ClaimPending() []SuggestionJob {
	s.mu.Lock()
	defer s.mu.Unlock()

	claimed := s.pending
	s.pending = nil
	return claimed
}

// SetQuestions publishes the suggested questions for a source, replacing
// any earlier set.
func (s *SuggestionStore) SetQuestions(source string, questions []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[source] = questions
}

// Questions returns the suggested questions for a source, if computed yet.
func (s *SuggestionStore) Questions(source string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions, ok := s.results[source]
	return questions, ok
}
