package server

import (
	"net/http"

	"github.com/docqa-labs/docqa/internal/api"
	"github.com/docqa-labs/docqa/internal/api/handlers"
	"github.com/docqa-labs/docqa/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	IngestHandler *handlers.IngestHandler
	AskHandler    *handlers.AskHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 12 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.ClientKey)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/upload", cfg.IngestHandler.Upload)
	r.Post("/process-url", cfg.IngestHandler.ProcessURL)

	r.Post("/ask", cfg.AskHandler.Ask)
	r.Get("/remaining-requests", cfg.AskHandler.Remaining)
	r.Get("/questions", cfg.AskHandler.Questions)

	return r
}
