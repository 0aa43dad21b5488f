package bot

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/models", h.Models)
		r.Get("/status", h.Status)

		r.Get("/config", h.GetConfig)
		r.Post("/config", h.UpdateConfig)

		r.Get("/conversations", h.ListConversations)
		r.Delete("/conversations", h.DeleteAllConversations)
		r.Get("/conversations/{chatID}", h.GetConversation)
		r.Delete("/conversations/{chatID}", h.DeleteConversation)

		r.Post("/takeover/{chatID}", h.Takeover)
		r.Post("/release/{chatID}", h.Release)
		r.Post("/send-message", h.SendManual)

		r.Post("/webhook/message", h.WebhookMessage)
		r.Post("/webhook/status", h.WebhookStatus)

		r.Post("/test-ai", h.TestAI)
		r.Get("/ws", h.WS)
	})
}
