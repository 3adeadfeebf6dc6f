package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/docqa-labs/docqa/internal/chunker"
	"github.com/docqa-labs/docqa/internal/domain"
	"github.com/docqa-labs/docqa/internal/limiter"
	"github.com/docqa-labs/docqa/internal/telemetry"
	"github.com/docqa-labs/docqa/internal/vectorindex"
)

const (
	// DefaultTopK is how many chunks retrieval feeds to the generator.
	DefaultTopK = 3
	// ExcerptChars bounds the per-chunk excerpt returned for citation.
	ExcerptChars = 200

	noRelevantInfoAnswer = "I couldn't find any relevant information in the uploaded documents to answer your question."
)

// Embedder defines the embedding gateway contract
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Generator defines the answer generation contract
type Generator interface {
	GenerateAnswer(ctx context.Context, question, contextText string) (string, error)
}

// SuggestionQueue accepts ingested sources for asynchronous follow-up
// question generation. Enqueue must never block or fail.
type SuggestionQueue interface {
	Enqueue(source string, chunks []domain.Chunk)
}

// AnswerResult carries a generated answer plus citation excerpts and the
// client's remaining question quota.
type AnswerResult struct {
	Answer         string
	SourceExcerpts []string
	Remaining      int
}

// RetrievalService composes chunking, embedding, the vector index, and the
// rate limiter for document ingestion and question answering.
type RetrievalService struct {
	embedder    Embedder
	generator   Generator
	index       *vectorindex.Index
	limits      *limiter.Table
	suggestions SuggestionQueue
	chunkCfg    chunker.Config
	topK        int
	now         func() time.Time
}

// NewRetrievalService creates a RetrievalService around shared process-wide
// state. suggestions may be nil to disable follow-up question generation.
func NewRetrievalService(
	embedder Embedder,
	generator Generator,
	index *vectorindex.Index,
	limits *limiter.Table,
	suggestions SuggestionQueue,
	chunkCfg chunker.Config,
	topK int,
) *RetrievalService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &RetrievalService{
		embedder:    embedder,
		generator:   generator,
		index:       index,
		limits:      limits,
		suggestions: suggestions,
		chunkCfg:    chunkCfg,
		topK:        topK,
		now:         time.Now,
	}
}

// Ingest chunks text, embeds every chunk, and inserts the results into the
// vector index. The call is all-or-nothing: an embedding failure on any
// chunk aborts the whole ingestion and nothing from this call is inserted.
// Returns the number of chunks indexed.
func (s *RetrievalService) Ingest(ctx context.Context, text, sourceLabel string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "RetrievalService.Ingest", telemetry.SpanAttributes{
		Source:    sourceLabel,
		Operation: "ingest",
	})
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return 0, domain.ErrEmptyDocument
	}

	chunks, err := chunker.Chunk(text, sourceLabel, s.chunkCfg)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, domain.ErrEmptyDocument
	}

	// Embed everything before touching the index so a provider failure
	// leaves prior ingestions untouched and this one fully rolled back.
	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		vector, err := s.embedder.GenerateEmbedding(ctx, chunk.Text)
		if err != nil {
			log.Printf("ingest aborted: embedding chunk %d of %s failed: %v", i, sourceLabel, err)
			span.SetError(err)
			return 0, domain.NewProviderError("embedding", err)
		}
		vectors[i] = vector
	}

	for i, chunk := range chunks {
		if _, err := s.index.Insert(chunk, vectors[i]); err != nil {
			return 0, err
		}
	}

	log.Printf("ingested %d chunks from %s", len(chunks), sourceLabel)

	if s.suggestions != nil {
		s.suggestions.Enqueue(sourceLabel, chunks)
	}

	return len(chunks), nil
}

// Answer applies the rate limiter, retrieves the chunks nearest the
// question, and delegates answer generation to the external provider.
// A quota-exhausted client gets ErrRateLimited before any retrieval or
// generation work happens.
func (s *RetrievalService) Answer(ctx context.Context, question, clientKey string) (*AnswerResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "RetrievalService.Answer", telemetry.SpanAttributes{
		ClientKey: clientKey,
		Operation: "answer",
	})
	defer span.End()

	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrEmptyQuestion
	}

	allowed, remaining := s.limits.TryAcquire(clientKey, s.now())
	if !allowed {
		log.Printf("question rejected for client %s: quota exhausted", clientKey)
		return nil, domain.ErrRateLimited
	}

	if !s.index.IsInitialized() {
		return nil, domain.ErrNotInitialized
	}

	queryVector, err := s.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		log.Printf("question embedding failed for client %s: %v", clientKey, err)
		span.SetError(err)
		return nil, domain.NewProviderError("question embedding", err)
	}

	matches, err := s.index.Search(queryVector, s.topK)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return &AnswerResult{
			Answer:    noRelevantInfoAnswer,
			Remaining: remaining,
		}, nil
	}

	texts := make([]string, len(matches))
	excerpts := make([]string, len(matches))
	for i, chunk := range matches {
		texts[i] = chunk.Text
		excerpts[i] = chunk.Excerpt(ExcerptChars)
	}

	answer, err := s.generator.GenerateAnswer(ctx, question, strings.Join(texts, "\n\n"))
	if err != nil {
		log.Printf("answer generation failed for client %s: %v", clientKey, err)
		span.SetError(err)
		return nil, domain.NewProviderError("answer generation", err)
	}

	return &AnswerResult{
		Answer:         answer,
		SourceExcerpts: excerpts,
		Remaining:      remaining,
	}, nil
}

// Remaining reports how many questions clientKey may still ask.
func (s *RetrievalService) Remaining(clientKey string) int {
	return s.limits.Remaining(clientKey, s.now())
}
