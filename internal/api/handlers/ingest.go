package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/docqa-labs/docqa/internal/api"
	"github.com/docqa-labs/docqa/internal/domain"
	"github.com/docqa-labs/docqa/internal/extract"
	"github.com/docqa-labs/docqa/internal/jobs"
)

// maxUploadBytes caps the multipart form held in memory before spilling to disk.
const maxUploadBytes = 10 << 20

type IngestService interface {
	Ingest(ctx context.Context, text, sourceLabel string) (int, error)
}

type IngestHandler struct {
	svc IngestService
}

func NewIngestHandler(svc IngestService) *IngestHandler {
	return &IngestHandler{svc: svc}
}

type ProcessURLRequest struct {
	URL string `json:"url"`
}

type IngestResponse struct {
	Source          string   `json:"source"`
	ChunksCount     int      `json:"chunks_count"`
	Message         string   `json:"message"`
	SampleQuestions []string `json:"sample_questions"`
}

func (h *IngestHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "docqa-upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		api.Error(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	tmp.Close()

	text, ok, err := extract.FromFile(tmp.Name(), header.Filename)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if !ok {
		api.HandleError(w, domain.ErrNoExtractableContent)
		return
	}

	h.ingest(w, r, text, header.Filename)
}

func (h *IngestHandler) ProcessURL(w http.ResponseWriter, r *http.Request) {
	var req ProcessURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.URL == "" {
		api.Error(w, http.StatusBadRequest, "url is required")
		return
	}

	url := extract.NormalizeURL(req.URL)
	if !extract.IsValidURL(url) {
		api.HandleError(w, domain.ErrInvalidURL)
		return
	}

	text, ok, err := extract.FromURL(r.Context(), url)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if !ok {
		api.HandleError(w, domain.ErrNoExtractableContent)
		return
	}

	h.ingest(w, r, text, url)
}

func (h *IngestHandler) ingest(w http.ResponseWriter, r *http.Request, text, source string) {
	count, err := h.svc.Ingest(r.Context(), text, source)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	// Content-specific questions are produced in the background; hand the
	// caller generic ones so the response never waits on a model call.
	api.Success(w, http.StatusOK, IngestResponse{
		Source:          source,
		ChunksCount:     count,
		Message:         "Document processed successfully",
		SampleQuestions: jobs.FallbackQuestions(),
	})
}
