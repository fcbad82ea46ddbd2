package api

import (
	"net/http"
	"time"

	chatapi "github.com/futig/fundfacts/internal/api/chat"
	"github.com/futig/fundfacts/internal/api/docs"
	"github.com/futig/fundfacts/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(chatHandler *chatapi.Handler, requestTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:       []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:       []string{"X-Request-ID"},
		MaxAge:               600,
		OptionsSuccessStatus: http.StatusNoContent,
	}))
	r.Use(chimiddleware.Timeout(requestTimeout))

	docs.RegisterRoutes(r)
	chatapi.RegisterRoutes(r, chatHandler)

	return r
}
