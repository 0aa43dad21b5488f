package bot

import (
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
)

var pongPayload = []byte(`{"type":"pong"}`)

// WS upgrades the connection and attaches it to the event hub as an
// observer: an init snapshot first, then the event stream. The client may
// send {"type":"ping"} for liveness; anything else is ignored.
func (h *Handler) WS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	cfg := h.cfg.Get()
	init, err := json.Marshal(map[string]any{
		"type":   "init",
		"status": h.status.Get(),
		"config": map[string]any{
			"auto_reply":             cfg.AutoReply,
			"human_takeover_minutes": cfg.HumanTakeoverMinutes,
		},
		"conversations": h.svc.List(),
	})
	if err != nil {
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, init); err != nil {
		return
	}

	client := h.hub.Register()
	defer h.hub.Unregister(client)

	pings := make(chan struct{}, 4)
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			var cmd struct {
				Type string `json:"type"`
			}
			if json.Unmarshal(data, &cmd) == nil && cmd.Type == "ping" {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	// Single writer: event stream and pong replies share the connection.
	for {
		select {
		case <-readDone:
			return
		case <-pings:
			if err := conn.Write(ctx, websocket.MessageText, pongPayload); err != nil {
				return
			}
		case payload, ok := <-client.Events():
			if !ok {
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
				return
			}
		}
	}
}
