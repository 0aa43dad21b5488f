package bot

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/XxLosHermanosxX/Sushibot/internal/ai"
	"github.com/XxLosHermanosxX/Sushibot/internal/config"
	"github.com/XxLosHermanosxX/Sushibot/internal/events"
)

type Handler struct {
	svc        Service
	cfg        *config.Manager
	dispatcher *ai.Dispatcher
	status     *StatusRegistry
	hub        *events.Broadcaster
}

func NewHandler(svc Service, cfg *config.Manager, dispatcher *ai.Dispatcher, status *StatusRegistry, hub *events.Broadcaster) *Handler {
	return &Handler{
		svc:        svc,
		cfg:        cfg,
		dispatcher: dispatcher,
		status:     status,
		hub:        hub,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) Models(w http.ResponseWriter, _ *http.Request) {
	cfg := h.cfg.Get()
	writeJSON(w, http.StatusOK, map[string]any{
		"models":           ai.Catalog,
		"current_provider": cfg.Provider,
		"current_model":    cfg.SelectedModel,
	})
}

func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	cfg := h.cfg.Get()
	writeJSON(w, http.StatusOK, map[string]any{
		"whatsapp": h.status.Get(),
		"bot_config": map[string]any{
			"auto_reply":             cfg.AutoReply,
			"human_takeover_minutes": cfg.HumanTakeoverMinutes,
		},
		"active_conversations": h.svc.Count(),
		"ai_configured":        cfg.ActiveAPIKey() != "",
		"provider":             cfg.Provider,
		"model":                cfg.SelectedModel,
	})
}

func (h *Handler) GetConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.cfg.Get().Redacted())
}

func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var p config.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cfg, changed, err := h.cfg.Update(p)
	if err != nil {
		http.Error(w, "failed to persist config", http.StatusInternalServerError)
		return
	}
	if changed {
		h.hub.Broadcast(events.Event{Type: events.TypeConfigUpdated})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"config":  cfg.Redacted(),
	})
}

func (h *Handler) ListConversations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"conversations": h.svc.List()})
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	view, err := h.svc.Get(chatID)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	if err := h.svc.Delete(chatID); errors.Is(err, ErrNotFound) {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) DeleteAllConversations(w http.ResponseWriter, _ *http.Request) {
	h.svc.DeleteAll()
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) Takeover(w http.ResponseWriter, r *http.Request) {
	h.svc.Takeover(chi.URLParam(r, "chatID"))
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	h.svc.Release(chi.URLParam(r, "chatID"))
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) SendManual(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ChatID  string `json:"chat_id"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if payload.ChatID == "" || payload.Message == "" {
		http.Error(w, "missing chat_id or message", http.StatusBadRequest)
		return
	}

	msg := h.svc.SendManual(payload.ChatID, payload.Message)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}

// WebhookMessage is the inbound entry from the messaging transport.
func (h *Handler) WebhookMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ChatID  string `json:"chat_id"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if payload.ChatID == "" || payload.Message == "" {
		http.Error(w, "missing chat_id or message", http.StatusBadRequest)
		return
	}

	reply, reason := h.svc.OnCustomerMessage(r.Context(), payload.ChatID, payload.Message)
	if reason != "" {
		writeJSON(w, http.StatusOK, map[string]any{"response": nil, "reason": reason})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"response": reply})
}

// WebhookStatus receives channel connection updates from the transport.
func (h *Handler) WebhookStatus(w http.ResponseWriter, r *http.Request) {
	var p StatusPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "invalid json"})
		return
	}

	st := h.status.Apply(p)
	h.hub.Broadcast(events.Event{Type: events.TypeStatusUpdate, Status: st})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// TestAI probes the configured provider directly. Unlike the message flow,
// configuration and dispatch errors surface to the caller here.
func (h *Handler) TestAI(w http.ResponseWriter, r *http.Request) {
	out, err := h.dispatcher.Test(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	cfg := h.cfg.Get()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"response": out,
		"provider": cfg.Provider,
		"model":    cfg.SelectedModel,
	})
}
