package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChunk(t *testing.T) {
	chunk := NewChunk("some text", "report.txt", 2)

	assert.Equal(t, "some text", chunk.Text)
	assert.Equal(t, "report.txt", chunk.Source)
	assert.Equal(t, 2, chunk.SequenceIndex)
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   Chunk
		wantErr bool
	}{
		{
			name:    "valid chunk",
			chunk:   Chunk{Text: "content", Source: "doc.txt", SequenceIndex: 0},
			wantErr: false,
		},
		{
			name:    "missing text",
			chunk:   Chunk{Source: "doc.txt", SequenceIndex: 0},
			wantErr: true,
		},
		{
			name:    "missing source",
			chunk:   Chunk{Text: "content", SequenceIndex: 0},
			wantErr: true,
		},
		{
			name:    "negative sequence index",
			chunk:   Chunk{Text: "content", Source: "doc.txt", SequenceIndex: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChunkExcerpt(t *testing.T) {
	short := NewChunk("short text", "doc.txt", 0)
	assert.Equal(t, "short text", short.Excerpt(200))

	long := NewChunk(strings.Repeat("a", 300), "doc.txt", 0)
	excerpt := long.Excerpt(200)
	assert.Len(t, excerpt, 203)
	assert.True(t, strings.HasSuffix(excerpt, "..."))
	assert.Equal(t, strings.Repeat("a", 200), excerpt[:200])
}

func TestDomainErrorCodes(t *testing.T) {
	assert.True(t, IsCode(ErrRateLimited, ErrCodeRateLimited))
	assert.True(t, IsCode(ErrNotInitialized, ErrCodeNotInitialized))
	assert.False(t, IsCode(ErrNotInitialized, ErrCodeRateLimited))

	wrapped := NewProviderError("embedding", assert.AnError)
	assert.True(t, IsCode(wrapped, ErrCodeProvider))
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.Contains(t, wrapped.Error(), "PROVIDER_ERROR")
}
