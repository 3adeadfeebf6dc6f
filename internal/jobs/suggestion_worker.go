package jobs

import (
	"context"
	"log"
	"strings"
)

const (
	// QuestionCount is how many follow-up questions each source gets.
	QuestionCount = 3
	// SummaryChunks is how many leading chunks feed the document summary.
	SummaryChunks = 3

	summaryPrompt = "Briefly summarize the key topics and concepts in this document"
)

// QuestionGenerator defines the provider calls the suggestion worker needs
type QuestionGenerator interface {
	GenerateAnswer(ctx context.Context, question, contextText string) (string, error)
	ProposeQuestions(ctx context.Context, summary string, count int) ([]string, error)
}

// FallbackQuestions returns the generic question set used when the
// provider cannot produce content-specific ones.
func FallbackQuestions() []string {
	return []string{
		"What are the main ideas presented in this document?",
		"Can you explain the key concepts mentioned in this document?",
		"What conclusions or insights can be drawn from this document?",
	}
}

// SuggestionWorker turns queued ingestion jobs into content-specific
// follow-up questions. Provider failures degrade to the generic fallback
// set and are never surfaced.
type SuggestionWorker struct {
	store     *SuggestionStore
	generator QuestionGenerator
}

// NewSuggestionWorker creates a new SuggestionWorker instance
func NewSuggestionWorker(store *SuggestionStore, generator QuestionGenerator) *SuggestionWorker {
	return &SuggestionWorker{
		store:     store,
		generator: generator,
	}
}

// ProcessJobs implements the JobProcessor interface
func (w *SuggestionWorker) ProcessJobs(ctx context.Context) error {
	jobs := w.store.ClaimPending()
	if len(jobs) == 0 {
		return nil
	}

	log.Printf("processing %d pending question suggestion jobs", len(jobs))

	for _, job := range jobs {
		w.store.SetQuestions(job.Source, w.suggest(ctx, job))
	}

	return nil
}

func (w *SuggestionWorker) suggest(ctx context.Context, job SuggestionJob) []string {
	texts := make([]string, 0, len(job.Chunks))
	for _, chunk := range job.Chunks {
		texts = append(texts, chunk.Text)
	}

	summary, err := w.generator.GenerateAnswer(ctx, summaryPrompt, strings.Join(texts, "\n\n"))
	if err != nil {
		log.Printf("suggestion job %s: summary failed, using fallback questions: %v", job.ID, err)
		return FallbackQuestions()
	}

	questions, err := w.generator.ProposeQuestions(ctx, summary, QuestionCount)
	if err != nil {
		log.Printf("suggestion job %s: question proposal failed, using fallback questions: %v", job.ID, err)
		return FallbackQuestions()
	}

	return questions
}
