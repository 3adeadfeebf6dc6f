//go:build e2e

package e2e

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ingestResult struct {
	Source          string   `json:"source"`
	ChunksCount     int      `json:"chunks_count"`
	Message         string   `json:"message"`
	SampleQuestions []string `json:"sample_questions"`
}

type askResult struct {
	Answer            string   `json:"answer"`
	SourceChunks      []string `json:"source_chunks"`
	RemainingRequests int      `json:"remaining_requests"`
}

func TestE2E_UploadAndAsk(t *testing.T) {
	env := SetupE2EEnv(t)

	doc := strings.Repeat("The quarterly report covers revenue growth across all regions. ", 40)

	t.Run("upload document", func(t *testing.T) {
		resp, status, err := env.Upload("report.txt", doc)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status)

		var result ingestResult
		require.NoError(t, json.Unmarshal(resp.Data, &result))
		assert.Equal(t, "report.txt", result.Source)
		assert.Greater(t, result.ChunksCount, 0)
		assert.Len(t, result.SampleQuestions, 3)
	})

	t.Run("ask question", func(t *testing.T) {
		resp, status, err := env.Post("/ask", map[string]string{"question": "What does the report cover?"})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status)

		var result askResult
		require.NoError(t, json.Unmarshal(resp.Data, &result))
		assert.NotEmpty(t, result.Answer)
		assert.NotEmpty(t, result.SourceChunks)
		assert.Equal(t, 9, result.RemainingRequests)
	})

	t.Run("remaining requests reflect usage", func(t *testing.T) {
		resp, status, err := env.Get("/remaining-requests")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status)

		var result struct {
			RemainingRequests int `json:"remaining_requests"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &result))
		assert.Equal(t, 9, result.RemainingRequests)
	})

	t.Run("suggested questions appear after processing", func(t *testing.T) {
		_, status, err := env.Get("/questions?source=report.txt")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, status)

		require.NoError(t, env.DrainSuggestions())

		resp, status, err := env.Get("/questions?source=report.txt")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status)

		var result struct {
			Source    string   `json:"source"`
			Questions []string `json:"questions"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &result))
		assert.Equal(t, "report.txt", result.Source)
		assert.Len(t, result.Questions, 3)
	})
}

func TestE2E_AskBeforeUpload(t *testing.T) {
	env := SetupE2EEnv(t)

	resp, status, err := env.Post("/ask", map[string]string{"question": "Anything there?"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Error, "no documents")
}

func TestE2E_RateLimit(t *testing.T) {
	env := SetupE2EEnv(t)

	_, status, err := env.Upload("doc.txt", "A short document about rate limiting behavior in the API.")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	for i := 0; i < 10; i++ {
		_, status, err := env.Post("/ask", map[string]string{"question": "Still allowed?"})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, status)
	}

	resp, status, err := env.Post("/ask", map[string]string{"question": "One more?"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.True(t, resp.LimitReached)

	// Rejection spends nothing
	remResp, status, err := env.Get("/remaining-requests")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	var rem struct {
		RemainingRequests int `json:"remaining_requests"`
	}
	require.NoError(t, json.Unmarshal(remResp.Data, &rem))
	assert.Equal(t, 0, rem.RemainingRequests)
}

func TestE2E_InvalidInputs(t *testing.T) {
	env := SetupE2EEnv(t)

	t.Run("empty upload", func(t *testing.T) {
		_, status, err := env.Upload("blank.txt", "   \n ")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unsupported file type", func(t *testing.T) {
		_, status, err := env.Upload("doc.pdf", "%PDF-1.4")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("malformed url", func(t *testing.T) {
		resp, status, err := env.Post("/process-url", map[string]string{"url": "not a real url"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, resp.Error, "URL")
	})

	t.Run("empty question", func(t *testing.T) {
		_, status, err := env.Post("/ask", map[string]string{"question": "  "})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestE2E_Health(t *testing.T) {
	env := SetupE2EEnv(t)

	resp, status, err := env.Get("/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	var health map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &health))
	assert.Equal(t, "ok", health["status"])
}
