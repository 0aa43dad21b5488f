// Package events fans conversation state changes out to live observers. A
// single hub goroutine owns the observer registry, so producers never
// iterate it themselves and membership can change while a broadcast is in
// flight.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Event types delivered to observers.
const (
	TypeMessageReceived = "message_received"
	TypeMessageSent     = "message_sent"
	TypeHumanTakeover   = "human_takeover"
	TypeBotResumed      = "bot_resumed"
	TypeStatusUpdate    = "status_update"
	TypeConfigUpdated   = "config_updated"
)

// Event is one state-change notification. Message and Status carry
// type-specific payloads and marshal as-is.
type Event struct {
	Type    string `json:"type"`
	ChatID  string `json:"chat_id,omitempty"`
	Message any    `json:"message,omitempty"`
	Status  any    `json:"status,omitempty"`
}

// Sink receives a copy of every broadcast event, best-effort. Used to
// mirror the stream to an external broker.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

const clientBuffer = 32

// Client is one registered observer. The hub writes marshaled events to
// its queue; the transport handler drains it. A client that stops draining
// loses events but never blocks the hub or other observers.
type Client struct {
	send chan []byte
	once sync.Once
}

// Events returns the client's delivery queue. It is closed when the client
// is unregistered or the hub shuts down.
func (c *Client) Events() <-chan []byte { return c.send }

func (c *Client) close() {
	c.once.Do(func() { close(c.send) })
}

// Broadcaster is the hub. Run must be started before any Register or
// Broadcast call.
type Broadcaster struct {
	log        *slog.Logger
	sinks      []Sink
	register   chan *Client
	unregister chan *Client
	events     chan Event
	done       chan struct{}
}

func New(log *slog.Logger, sinks ...Sink) *Broadcaster {
	return &Broadcaster{
		log:        log,
		sinks:      sinks,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan Event, 256),
		done:       make(chan struct{}),
	}
}

// Register adds an observer and returns its client handle. After the hub
// has stopped the handle comes back with its queue already closed.
func (b *Broadcaster) Register() *Client {
	c := &Client{send: make(chan []byte, clientBuffer)}
	select {
	case b.register <- c:
	case <-b.done:
		c.close()
	}
	return c
}

// Unregister removes an observer and closes its queue. Safe to call after
// the hub has stopped.
func (b *Broadcaster) Unregister(c *Client) {
	select {
	case b.unregister <- c:
	case <-b.done:
		c.close()
	}
}

// Broadcast queues an event for fan-out. It never blocks the caller: if
// the hub is saturated the event is dropped and logged.
func (b *Broadcaster) Broadcast(ev Event) {
	select {
	case b.events <- ev:
	default:
		b.log.Warn("event queue full, dropping event", "type", ev.Type)
	}
}

// Run owns the registry until ctx is canceled. Events are delivered to
// every observer in the order Broadcast was called; a full observer queue
// drops the event for that observer only.
func (b *Broadcaster) Run(ctx context.Context) {
	clients := make(map[*Client]struct{})
	defer func() {
		close(b.done)
		for c := range clients {
			c.close()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-b.register:
			clients[c] = struct{}{}
			b.log.Info("observer connected", "total", len(clients))

		case c := <-b.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				c.close()
				b.log.Info("observer disconnected", "total", len(clients))
			}

		case ev := <-b.events:
			payload, err := json.Marshal(ev)
			if err != nil {
				b.log.Error("event marshal failed", "type", ev.Type, "err", err)
				continue
			}
			for c := range clients {
				select {
				case c.send <- payload:
				default:
					b.log.Warn("observer queue full, dropping event", "type", ev.Type)
				}
			}
			for _, s := range b.sinks {
				pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				if err := s.Publish(pubCtx, ev); err != nil {
					b.log.Warn("event sink publish failed", "type", ev.Type, "err", err)
				}
				cancel()
			}
		}
	}
}
