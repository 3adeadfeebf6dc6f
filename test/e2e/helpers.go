//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/docqa-labs/docqa/internal/api/handlers"
	"github.com/docqa-labs/docqa/internal/chunker"
	"github.com/docqa-labs/docqa/internal/jobs"
	"github.com/docqa-labs/docqa/internal/limiter"
	"github.com/docqa-labs/docqa/internal/openai"
	"github.com/docqa-labs/docqa/internal/server"
	"github.com/docqa-labs/docqa/internal/service"
	"github.com/docqa-labs/docqa/internal/vectorindex"
)

const embeddingDims = 1536

// stubCompletionAPI replaces the upstream model with deterministic behavior
// so the full HTTP stack can run without network access.
type stubCompletionAPI struct{}

// CreateEmbeddings derives a repeatable vector from the text so similar
// inputs map to identical embeddings.
func (s *stubCompletionAPI) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	vector := make([]float32, embeddingDims)
	for i := range vector {
		vector[i] = float32(sum[i%len(sum)]) / 255
	}
	return vector, nil
}

func (s *stubCompletionAPI) CreateCompletion(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error) {
	if strings.Contains(systemPrompt, "generates insightful questions") {
		return "What is the main topic?\nWho is the intended audience?\nWhat conclusions are drawn?", nil
	}
	return "The documents describe the uploaded content.", nil
}

// E2ETestEnv holds the in-process server and its shared state.
type E2ETestEnv struct {
	T          *testing.T
	Server     *httptest.Server
	Store      *jobs.SuggestionStore
	Worker     *jobs.SuggestionWorker
	HTTPClient *http.Client
	userAgent  string
}

// SetupE2EEnv builds the full router around a stubbed model provider.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	index := vectorindex.New(embeddingDims)
	limits := limiter.New(10, 24*time.Hour)
	store := jobs.NewSuggestionStore()

	client := openai.NewClientWithAPI(&stubCompletionAPI{}, embeddingDims)
	svc := service.NewRetrievalService(client, client, index, limits, store, chunker.DefaultConfig(), service.DefaultTopK)

	router := server.NewRouter(server.RouterConfig{
		IngestHandler: handlers.NewIngestHandler(svc),
		AskHandler:    handlers.NewAskHandler(svc, store),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &E2ETestEnv{
		T:          t,
		Server:     srv,
		Store:      store,
		Worker:     jobs.NewSuggestionWorker(store, client),
		HTTPClient: srv.Client(),
		userAgent:  "docqa-e2e/" + t.Name(),
	}
}

// APIResponse mirrors the server's response envelope.
type APIResponse struct {
	Data         json.RawMessage `json:"data,omitempty"`
	Error        string          `json:"error,omitempty"`
	LimitReached bool            `json:"limit_reached,omitempty"`
}

// Post sends a JSON POST and returns the parsed envelope plus status code.
func (env *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequest(http.MethodPost, env.Server.URL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", env.userAgent)

	return env.roundTrip(req)
}

// Get sends a GET and returns the parsed envelope plus status code.
func (env *E2ETestEnv) Get(path string) (*APIResponse, int, error) {
	req, err := http.NewRequest(http.MethodGet, env.Server.URL+path, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", env.userAgent)

	return env.roundTrip(req)
}

// Upload posts content as a multipart file named filename.
func (env *E2ETestEnv) Upload(filename, content string) (*APIResponse, int, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, 0, err
	}
	if _, err := part.Write([]byte(content)); err != nil {
		return nil, 0, err
	}
	if err := writer.Close(); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequest(http.MethodPost, env.Server.URL+"/upload", &buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", env.userAgent)

	return env.roundTrip(req)
}

// DrainSuggestions processes pending suggestion jobs synchronously instead of
// waiting on the poll loop.
func (env *E2ETestEnv) DrainSuggestions() error {
	return env.Worker.ProcessJobs(context.Background())
}

func (env *E2ETestEnv) roundTrip(req *http.Request) (*APIResponse, int, error) {
	resp, err := env.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("unparseable response %q: %w", raw, err)
	}

	return &apiResp, resp.StatusCode, nil
}
