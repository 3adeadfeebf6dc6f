package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docqa-labs/docqa/internal/api"
	"github.com/docqa-labs/docqa/internal/api/middleware"
	"github.com/docqa-labs/docqa/internal/domain"
	"github.com/docqa-labs/docqa/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAnswerService struct {
	mock.Mock
}

func (m *MockAnswerService) Answer(ctx context.Context, question, clientKey string) (*service.AnswerResult, error) {
	args := m.Called(ctx, question, clientKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnswerResult), args.Error(1)
}

func (m *MockAnswerService) Remaining(clientKey string) int {
	args := m.Called(clientKey)
	return args.Int(0)
}

type MockSuggestionReader struct {
	mock.Mock
}

func (m *MockSuggestionReader) Questions(source string) ([]string, bool) {
	args := m.Called(source)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]string), args.Bool(1)
}

func askRequest(t *testing.T, question string) *http.Request {
	t.Helper()
	body, err := json.Marshal(AskRequest{Question: question})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), middleware.ClientKeyKey, "ip_abc123")
	return req.WithContext(ctx)
}

func TestAskHandler_Ask(t *testing.T) {
	svc := new(MockAnswerService)
	handler := NewAskHandler(svc, new(MockSuggestionReader))

	svc.On("Answer", mock.Anything, "What is this about?", "ip_abc123").Return(&service.AnswerResult{
		Answer:         "It is about testing.",
		SourceExcerpts: []string{"excerpt one...", "excerpt two..."},
		Remaining:      7,
	}, nil)

	w := httptest.NewRecorder()
	handler.Ask(w, askRequest(t, "What is this about?"))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data AskResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "It is about testing.", resp.Data.Answer)
	assert.Equal(t, []string{"excerpt one...", "excerpt two..."}, resp.Data.SourceChunks)
	assert.Equal(t, 7, resp.Data.RemainingRequests)
	svc.AssertExpectations(t)
}

func TestAskHandler_Ask_InvalidBody(t *testing.T) {
	handler := NewAskHandler(new(MockAnswerService), new(MockSuggestionReader))

	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	handler.Ask(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskHandler_Ask_EmptyQuestion(t *testing.T) {
	svc := new(MockAnswerService)
	handler := NewAskHandler(svc, new(MockSuggestionReader))

	svc.On("Answer", mock.Anything, "", "ip_abc123").Return(nil, domain.ErrEmptyQuestion)

	w := httptest.NewRecorder()
	handler.Ask(w, askRequest(t, ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskHandler_Ask_RateLimited(t *testing.T) {
	svc := new(MockAnswerService)
	handler := NewAskHandler(svc, new(MockSuggestionReader))

	svc.On("Answer", mock.Anything, "anything left?", "ip_abc123").Return(nil, domain.ErrRateLimited)

	w := httptest.NewRecorder()
	handler.Ask(w, askRequest(t, "anything left?"))

	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.LimitReached)
}

func TestAskHandler_Ask_NotInitialized(t *testing.T) {
	svc := new(MockAnswerService)
	handler := NewAskHandler(svc, new(MockSuggestionReader))

	svc.On("Answer", mock.Anything, "hello?", "ip_abc123").Return(nil, domain.ErrNotInitialized)

	w := httptest.NewRecorder()
	handler.Ask(w, askRequest(t, "hello?"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskHandler_Remaining(t *testing.T) {
	svc := new(MockAnswerService)
	handler := NewAskHandler(svc, new(MockSuggestionReader))

	svc.On("Remaining", "ip_abc123").Return(4)

	req := httptest.NewRequest(http.MethodGet, "/remaining-requests", nil)
	ctx := context.WithValue(req.Context(), middleware.ClientKeyKey, "ip_abc123")
	w := httptest.NewRecorder()
	handler.Remaining(w, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data RemainingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Data.RemainingRequests)
}

func TestAskHandler_Questions(t *testing.T) {
	suggestions := new(MockSuggestionReader)
	handler := NewAskHandler(new(MockAnswerService), suggestions)

	suggestions.On("Questions", "report.txt").Return([]string{"Q1?", "Q2?", "Q3?"}, true)

	req := httptest.NewRequest(http.MethodGet, "/questions?source=report.txt", nil)
	w := httptest.NewRecorder()
	handler.Questions(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data QuestionsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "report.txt", resp.Data.Source)
	assert.Len(t, resp.Data.Questions, 3)
}

func TestAskHandler_Questions_NotReady(t *testing.T) {
	suggestions := new(MockSuggestionReader)
	handler := NewAskHandler(new(MockAnswerService), suggestions)

	suggestions.On("Questions", "missing.txt").Return(nil, false)

	req := httptest.NewRequest(http.MethodGet, "/questions?source=missing.txt", nil)
	w := httptest.NewRecorder()
	handler.Questions(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAskHandler_Questions_MissingSource(t *testing.T) {
	handler := NewAskHandler(new(MockAnswerService), new(MockSuggestionReader))

	req := httptest.NewRequest(http.MethodGet, "/questions", nil)
	w := httptest.NewRecorder()
	handler.Questions(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
