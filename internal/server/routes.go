package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/flashcardquiz/internal/handler/health"
)

// Deps are the collaborators the HTTP layer is wired to.
type Deps struct {
	Store     Store
	Hasher    TokenHasher
	Checks    map[string]health.Checker
	PublicURL string
	SPADir    string
}

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	broker := NewBroker()
	in := &intents{store: deps.Store, broker: broker, logger: logger}

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", handleSwaggerUI())
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Route("/api", func(r chi.Router) {
		r.Post("/validate", handleValidate())
		r.Get("/drafts", handleDrafts())
		r.Get("/grid", handleGrid())

		r.Post("/sessions", handleCreateSession(logger, deps.Store, deps.Hasher))

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(sessionMiddleware(deps.Store, deps.Hasher))

			r.Get("/", handleSessionState(logger))
			r.Put("/config", handleInstallConfig(in))
			r.Post("/start", handleStart(in))
			r.Post("/cards/{index}/activate", handleActivate(in))
			r.Post("/deactivate", handleDeactivate(in))
			r.Post("/answer", handleAnswer(in))
			r.Post("/reveal", handleReveal(in))
			r.Post("/reset", handleReset(in))

			r.Get("/events", handleEvents(broker))
			r.Get("/stream", handleStream(logger, deps.Store, broker))
			r.Get("/qr.png", handleQR(deps.PublicURL))
		})
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}

// NewHandler builds the full router without a listening server.
func NewHandler(logger *slog.Logger, deps Deps) http.Handler {
	return newRouter(logger, deps)
}
