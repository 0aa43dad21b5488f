package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/XxLosHermanosxX/Sushibot/internal/ai"
	"github.com/XxLosHermanosxX/Sushibot/internal/config"
	"github.com/XxLosHermanosxX/Sushibot/internal/events"
	"github.com/XxLosHermanosxX/Sushibot/internal/prompt"
)

type service struct {
	store *Store
	cfg   *config.Manager
	ai    Replier
	bus   Publisher
	log   *slog.Logger
	now   func() time.Time
}

func NewService(store *Store, cfg *config.Manager, aiClient Replier, bus Publisher, log *slog.Logger) Service {
	return &service{
		store: store,
		cfg:   cfg,
		ai:    aiClient,
		bus:   bus,
		log:   log,
		now:   time.Now,
	}
}

// OnCustomerMessage is the per-message state machine. The conversation lock
// is held for the whole call, including the AI round trip, so concurrent
// messages for the same chat cannot interleave the objection check or the
// history window; other conversations proceed in parallel.
func (s *service) OnCustomerMessage(ctx context.Context, chatID, text string) (string, Reason) {
	cfg := s.cfg.Get()
	c := s.store.GetOrCreate(chatID)

	c.mu.Lock()
	defer c.mu.Unlock()

	in := s.record(c, SenderCustomer, text)
	s.bus.Broadcast(events.Event{Type: events.TypeMessageReceived, ChatID: chatID, Message: in})

	// Handoff guard. A human owns the conversation until the takeover
	// timeout elapses; the reclaim runs here so the same call can carry
	// on and answer.
	if c.HumanActive && c.LastHumanAction != nil {
		if s.now().Sub(*c.LastHumanAction) <= cfg.TakeoverTimeout() {
			return "", ReasonHumanActive
		}
		c.HumanActive = false
		s.log.Info("takeover timeout elapsed, bot reclaimed", "chat_id", chatID)
	}

	if !cfg.AutoReply {
		return "", ReasonAutoReplyDisabled
	}

	var reply string
	switch {
	case !c.GreetingSent:
		// The greeting wins even over a distrust keyword in the first
		// message; it already carries the legitimacy pitch.
		reply = prompt.Welcome(cfg)
		c.GreetingSent = true

	case prompt.DetectsDistrust(text) && !c.hasObjection(prompt.ObjectionDistrust):
		c.recordObjection(prompt.ObjectionDistrust)
		reply = prompt.DistrustReply(cfg)

	default:
		history := make([]ai.Message, len(c.History))
		copy(history, c.History)
		reply = s.ai.Reply(ctx, history, text)
		c.pushTurns(text, reply)
	}

	out := s.record(c, SenderBot, reply)
	s.bus.Broadcast(events.Event{Type: events.TypeMessageSent, ChatID: chatID, Message: out})
	return reply, ""
}

// Takeover hands the conversation to a human operator. Repeating it just
// refreshes the timestamp.
func (s *service) Takeover(chatID string) {
	c := s.store.GetOrCreate(chatID)
	c.mu.Lock()
	c.HumanActive = true
	now := s.now()
	c.LastHumanAction = &now
	c.mu.Unlock()

	s.bus.Broadcast(events.Event{Type: events.TypeHumanTakeover, ChatID: chatID})
}

// Release hands the conversation back to the bot. Releasing an already
// bot-controlled conversation is a state no-op but still broadcasts.
func (s *service) Release(chatID string) {
	c := s.store.GetOrCreate(chatID)
	c.mu.Lock()
	c.HumanActive = false
	c.mu.Unlock()

	s.bus.Broadcast(events.Event{Type: events.TypeBotResumed, ChatID: chatID})
}

// SendManual records an operator message. Sending implies takeover.
func (s *service) SendManual(chatID, text string) Message {
	c := s.store.GetOrCreate(chatID)
	c.mu.Lock()
	m := s.record(c, SenderHuman, text)
	c.HumanActive = true
	ts := m.Timestamp
	c.LastHumanAction = &ts
	c.mu.Unlock()

	s.bus.Broadcast(events.Event{Type: events.TypeMessageSent, ChatID: chatID, Message: m})
	return m
}

func (s *service) List() []ConversationView {
	return s.store.List()
}

func (s *service) Get(chatID string) (ConversationView, error) {
	c, ok := s.store.Get(chatID)
	if !ok {
		return ConversationView{}, ErrNotFound
	}
	return c.snapshot(), nil
}

func (s *service) Delete(chatID string) error {
	if !s.store.Delete(chatID) {
		return ErrNotFound
	}
	return nil
}

func (s *service) DeleteAll() {
	s.store.DeleteAll()
}

func (s *service) Count() int {
	return s.store.Count()
}

// record appends a log entry. Callers hold the conversation lock.
func (s *service) record(c *Conversation, from Sender, text string) Message {
	m := Message{
		ID:        uuid.NewString(),
		From:      from,
		Text:      text,
		Timestamp: s.now(),
	}
	c.Messages = append(c.Messages, m)
	return m
}
