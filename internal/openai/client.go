package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is the OpenAI model used for generating embeddings
	DefaultEmbeddingModel = openai.AdaEmbeddingV2
	// DefaultEmbeddingDimensions is the expected dimension of embeddings from ada-002
	DefaultEmbeddingDimensions = 1536
	// DefaultCompletionModel is the chat model used for answers and questions
	DefaultCompletionModel = openai.GPT4o

	answerSystemPrompt   = "You are a helpful assistant that provides answers based solely on the provided context."
	questionSystemPrompt = "You are a helpful assistant that generates insightful questions based on document content."
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when an embedding has wrong dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
	// ErrNoAPIKey is returned when the OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
)

// CompletionAPI defines the interface for the upstream OpenAI calls
type CompletionAPI interface {
	CreateEmbeddings(ctx context.Context, text string) ([]float32, error)
	CreateCompletion(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error)
}

// Client wraps the OpenAI API client
type Client struct {
	api        CompletionAPI
	dimensions int
}

type OpenAIAdapter struct {
	client         *openai.Client
	embeddingModel openai.EmbeddingModel
	chatModel      string
}

func NewOpenAIAdapter(apiKey string, embeddingModel openai.EmbeddingModel, chatModel string) *OpenAIAdapter {
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	if chatModel == "" {
		chatModel = DefaultCompletionModel
	}
	return &OpenAIAdapter{
		client:         openai.NewClient(apiKey),
		embeddingModel: embeddingModel,
		chatModel:      chatModel,
	}
}

// CreateEmbeddings calls the OpenAI API to create embeddings
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: a.embeddingModel,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

// CreateCompletion calls the OpenAI chat completion API
func (a *OpenAIAdapter) CreateCompletion(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.chatModel,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type Config struct {
	APIKey              string
	EmbeddingModel      openai.EmbeddingModel
	CompletionModel     string
	EmbeddingDimensions int
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	return &Client{
		api:        NewOpenAIAdapter(cfg.APIKey, cfg.EmbeddingModel, cfg.CompletionModel),
		dimensions: dimensions,
	}
}

// NewClientWithAPI creates a Client over a caller-supplied CompletionAPI.
func NewClientWithAPI(api CompletionAPI, dimensions int) *Client {
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	return &Client{api: api, dimensions: dimensions}
}

// NewClientFromEnv creates a new OpenAI client using OPENAI_API_KEY environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// GenerateEmbedding generates an embedding for the given text
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	embedding, err := c.api.CreateEmbeddings(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	expected := c.dimensions
	if expected <= 0 {
		expected = DefaultEmbeddingDimensions
	}
	if len(embedding) != expected {
		return nil, ErrWrongDimensions
	}

	return embedding, nil
}

// GenerateAnswer answers the question strictly from the supplied context,
// stating uncertainty when the context does not contain the answer.
func (c *Client) GenerateAnswer(ctx context.Context, question, contextText string) (string, error) {
	if question == "" {
		return "", ErrEmptyText
	}

	prompt := fmt.Sprintf(`Answer the following question based on the provided context only.
If you don't know the answer or the answer is not in the context, just say so.

Context:
%s

Question: %s

Answer:`, contextText, question)

	answer, err := c.api.CreateCompletion(ctx, answerSystemPrompt, prompt, 0.3, 500)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	return answer, nil
}

// ProposeQuestions generates exactly count follow-up questions from a short
// document summary.
func (c *Client) ProposeQuestions(ctx context.Context, summary string, count int) ([]string, error) {
	if summary == "" {
		return nil, ErrEmptyText
	}
	if count <= 0 {
		return nil, nil
	}

	prompt := fmt.Sprintf(`Based on the following document summary, generate %d specific,
insightful questions that could be asked about this content. Make the questions
specific to the unique concepts, ideas, or information in this document:

Document Summary:
%s

Return exactly %d questions, separated by newlines.
Don't prefix with numbers or bullet points.`, count, summary, count)

	raw, err := c.api.CreateCompletion(ctx, questionSystemPrompt, prompt, 0.7, 300)
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}

	questions := make([]string, 0, count)
	for _, line := range strings.Split(raw, "\n") {
		if q := strings.TrimSpace(line); q != "" {
			questions = append(questions, q)
		}
	}
	for len(questions) < count {
		questions = append(questions, "What else can you tell me about this document?")
	}
	return questions[:count], nil
}
