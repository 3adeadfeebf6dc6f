package openai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCompletionAPI is a mock for the OpenAI API
type MockCompletionAPI struct {
	mock.Mock
}

func (m *MockCompletionAPI) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockCompletionAPI) CreateCompletion(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, temperature, maxTokens)
	return args.String(0), args.Error(1)
}

func TestClient_GenerateEmbedding_Success(t *testing.T) {
	mockAPI := new(MockCompletionAPI)
	client := &Client{api: mockAPI, dimensions: 1536}

	ctx := context.Background()
	text := "This is a test document about Go programming."
	expectedEmbedding := make([]float32, 1536)
	for i := range expectedEmbedding {
		expectedEmbedding[i] = float32(i) * 0.001
	}

	mockAPI.On("CreateEmbeddings", ctx, text).Return(expectedEmbedding, nil)

	embedding, err := client.GenerateEmbedding(ctx, text)

	assert.NoError(t, err)
	assert.Len(t, embedding, 1536)
	assert.Equal(t, expectedEmbedding, embedding)
	mockAPI.AssertExpectations(t)
}

func TestClient_GenerateEmbedding_EmptyText(t *testing.T) {
	client := NewClient("")

	_, err := client.GenerateEmbedding(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestClient_GenerateEmbedding_WrongDimensions(t *testing.T) {
	mockAPI := new(MockCompletionAPI)
	client := &Client{api: mockAPI, dimensions: 1536}

	mockAPI.On("CreateEmbeddings", mock.Anything, "short").Return([]float32{1, 2, 3}, nil)

	_, err := client.GenerateEmbedding(context.Background(), "short")
	assert.ErrorIs(t, err, ErrWrongDimensions)
}

func TestClient_GenerateEmbedding_APIError(t *testing.T) {
	mockAPI := new(MockCompletionAPI)
	client := &Client{api: mockAPI, dimensions: 1536}

	apiErr := errors.New("rate limit exceeded")
	mockAPI.On("CreateEmbeddings", mock.Anything, "text").Return(nil, apiErr)

	_, err := client.GenerateEmbedding(context.Background(), "text")
	assert.ErrorIs(t, err, apiErr)
}

func TestClient_GenerateAnswer_Success(t *testing.T) {
	mockAPI := new(MockCompletionAPI)
	client := &Client{api: mockAPI, dimensions: 1536}

	mockAPI.On("CreateCompletion", mock.Anything, answerSystemPrompt,
		mock.MatchedBy(func(prompt string) bool {
			return strings.Contains(prompt, "What is Go?") &&
				strings.Contains(prompt, "Go is a programming language.")
		}), float32(0.3), 500).Return("Go is a language from Google.", nil)

	answer, err := client.GenerateAnswer(context.Background(), "What is Go?", "Go is a programming language.")

	require.NoError(t, err)
	assert.Equal(t, "Go is a language from Google.", answer)
	mockAPI.AssertExpectations(t)
}

func TestClient_GenerateAnswer_APIError(t *testing.T) {
	mockAPI := new(MockCompletionAPI)
	client := &Client{api: mockAPI, dimensions: 1536}

	mockAPI.On("CreateCompletion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("upstream timeout"))

	_, err := client.GenerateAnswer(context.Background(), "What is Go?", "context")
	assert.Error(t, err)
}

func TestClient_ProposeQuestions_ParsesLines(t *testing.T) {
	mockAPI := new(MockCompletionAPI)
	client := &Client{api: mockAPI, dimensions: 1536}

	raw := "What is the main topic?\n\nHow does chunking work?\nWhy use embeddings?\n"
	mockAPI.On("CreateCompletion", mock.Anything, questionSystemPrompt, mock.Anything, float32(0.7), 300).
		Return(raw, nil)

	questions, err := client.ProposeQuestions(context.Background(), "a summary", 3)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"What is the main topic?",
		"How does chunking work?",
		"Why use embeddings?",
	}, questions)
}

func TestClient_ProposeQuestions_PadsAndTruncates(t *testing.T) {
	mockAPI := new(MockCompletionAPI)
	client := &Client{api: mockAPI, dimensions: 1536}

	mockAPI.On("CreateCompletion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("Only one question?", nil).Once()
	questions, err := client.ProposeQuestions(context.Background(), "a summary", 3)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "Only one question?", questions[0])

	mockAPI.On("CreateCompletion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("q1\nq2\nq3\nq4\nq5", nil).Once()
	questions, err = client.ProposeQuestions(context.Background(), "a summary", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2", "q3"}, questions)
}
