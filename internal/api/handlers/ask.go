package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/docqa-labs/docqa/internal/api"
	"github.com/docqa-labs/docqa/internal/api/middleware"
	"github.com/docqa-labs/docqa/internal/domain"
	"github.com/docqa-labs/docqa/internal/service"
)

type AnswerService interface {
	Answer(ctx context.Context, question, clientKey string) (*service.AnswerResult, error)
	Remaining(clientKey string) int
}

type SuggestionReader interface {
	Questions(source string) ([]string, bool)
}

type AskHandler struct {
	svc         AnswerService
	suggestions SuggestionReader
}

func NewAskHandler(svc AnswerService, suggestions SuggestionReader) *AskHandler {
	return &AskHandler{svc: svc, suggestions: suggestions}
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer            string   `json:"answer"`
	SourceChunks      []string `json:"source_chunks"`
	RemainingRequests int      `json:"remaining_requests"`
}

type RemainingResponse struct {
	RemainingRequests int `json:"remaining_requests"`
}

type QuestionsResponse struct {
	Source    string   `json:"source"`
	Questions []string `json:"questions"`
}

func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	clientKey := middleware.GetClientKey(r.Context())

	result, err := h.svc.Answer(r.Context(), req.Question, clientKey)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, AskResponse{
		Answer:            result.Answer,
		SourceChunks:      result.SourceExcerpts,
		RemainingRequests: result.Remaining,
	})
}

func (h *AskHandler) Remaining(w http.ResponseWriter, r *http.Request) {
	clientKey := middleware.GetClientKey(r.Context())

	api.Success(w, http.StatusOK, RemainingResponse{
		RemainingRequests: h.svc.Remaining(clientKey),
	})
}

func (h *AskHandler) Questions(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" {
		api.Error(w, http.StatusBadRequest, "source query parameter is required")
		return
	}

	questions, ok := h.suggestions.Questions(source)
	if !ok {
		api.HandleError(w, domain.ErrSuggestionsNotReady)
		return
	}

	api.Success(w, http.StatusOK, QuestionsResponse{
		Source:    source,
		Questions: questions,
	})
}
