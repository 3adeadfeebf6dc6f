package domain

import "fmt"

// Chunk represents a bounded, source-attributed span of document text used
// as the unit of retrieval. Chunks are immutable once created.
type Chunk struct {
	Text          string
	Source        string
	SequenceIndex int
}

// NewChunk creates a new Chunk instance
func NewChunk(text, source string, sequenceIndex int) Chunk {
	return Chunk{
		Text:          text,
		Source:        source,
		SequenceIndex: sequenceIndex,
	}
}

// ValidateChunk validates a Chunk instance
func ValidateChunk(c Chunk) error {
	if c.Text == "" {
		return fmt.Errorf("chunk text is required")
	}

	if c.Source == "" {
		return fmt.Errorf("chunk source is required")
	}

	if c.SequenceIndex < 0 {
		return fmt.Errorf("chunk sequence index cannot be negative")
	}

	return nil
}

// Excerpt returns at most maxChars characters of the chunk text, suffixed
// with an ellipsis marker when truncated.
func (c Chunk) Excerpt(maxChars int) string {
	runes := []rune(c.Text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return c.Text
	}
	return string(runes[:maxChars]) + "..."
}
