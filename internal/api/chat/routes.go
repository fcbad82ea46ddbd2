package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat, index and health routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/health", h.Health)
	r.Post("/chat", h.Chat)
	r.Get("/index/stats", h.IndexStats)
}
