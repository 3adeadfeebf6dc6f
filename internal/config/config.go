package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	EmbeddingDimensions int `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`

	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"1000"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"200"`

	SearchTopK int `envconfig:"SEARCH_TOP_K" default:"3"`

	MaxQuestionsPerDay int           `envconfig:"MAX_QUESTIONS_PER_DAY" default:"10"`
	QuestionWindow     time.Duration `envconfig:"QUESTION_WINDOW" default:"24h"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("DOCQA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.ChunkSize <= cfg.ChunkOverlap {
		return nil, fmt.Errorf("chunk size (%d) must be greater than chunk overlap (%d)", cfg.ChunkSize, cfg.ChunkOverlap)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
