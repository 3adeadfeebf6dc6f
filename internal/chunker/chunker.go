// Package chunker splits raw document text into overlapping fixed-size
// segments stamped with their source label and reading order.
package chunker

import (
	"unicode"

	"github.com/docqa-labs/docqa/internal/domain"
)

// Config controls chunking of ingested documents.
type Config struct {
	// Size is the maximum chunk length in runes.
	Size int
	// Overlap is how many runes consecutive chunks share at the boundary.
	Overlap int
}

// DefaultConfig provides sane defaults for chunking.
func DefaultConfig() Config {
	return Config{
		Size:    1000,
		Overlap: 200,
	}
}

// Validate checks the chunking constraints: Size > Overlap >= 0.
func (c Config) Validate() error {
	if c.Size <= 0 || c.Overlap < 0 || c.Size <= c.Overlap {
		return domain.ErrInvalidChunkParams
	}
	return nil
}

// Chunk splits text into ordered, overlapping chunks of at most cfg.Size
// runes. The window start advances by the cut position minus cfg.Overlap, so
// consecutive chunks share cfg.Overlap runes at each boundary. Cuts prefer
// paragraph, sentence, and word boundaries near the target size and fall
// back to hard cuts when no boundary exists within the lookback window.
// Empty text produces an empty result. Pure function of its inputs.
func Chunk(text, sourceLabel string, cfg Config) ([]domain.Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, 1+len(runes)/(cfg.Size-cfg.Overlap))
	start := 0
	for seq := 0; start < len(runes); seq++ {
		end := start + cfg.Size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = cutPoint(runes, start, end, cfg)
		}

		chunks = append(chunks, domain.NewChunk(string(runes[start:end]), sourceLabel, seq))

		if end >= len(runes) {
			break
		}

		next := end - cfg.Overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks, nil
}

// cutPoint picks where to end the chunk starting at start with a hard limit
// of end. It scans backward through the lookback window for the best natural
// boundary, preferring paragraph breaks, then sentence ends, then spaces.
// Returns end unchanged when no boundary is found.
func cutPoint(runes []rune, start, end int, cfg Config) int {
	lookback := cfg.Overlap
	if lookback == 0 {
		lookback = cfg.Size / 5
	}
	minCut := end - lookback
	if minCut <= start {
		minCut = start + 1
	}

	paragraphCut, sentenceCut, wordCut := 0, 0, 0
	for i := end; i > minCut; i-- {
		prev := runes[i-1]
		if paragraphCut == 0 && prev == '\n' && i >= 2 && runes[i-2] == '\n' {
			paragraphCut = i
			break
		}
		if sentenceCut == 0 && unicode.IsSpace(prev) && i >= 2 && isSentenceEnd(runes[i-2]) {
			sentenceCut = i
		}
		if wordCut == 0 && unicode.IsSpace(prev) {
			wordCut = i
		}
	}

	switch {
	case paragraphCut > 0:
		return paragraphCut
	case sentenceCut > 0:
		return sentenceCut
	case wordCut > 0:
		return wordCut
	default:
		return end
	}
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?':
		return true
	}
	return false
}
