package bot

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/XxLosHermanosxX/Sushibot/internal/ai"
)

// historyLimit caps the AI dialogue window per conversation. Turns are
// appended as user/assistant pairs, so eviction always removes whole
// exchanges.
const historyLimit = 20

// Conversation is the mutable per-chat state. Callers lock mu for every
// read-modify-write sequence; operations on different conversations never
// serialize against each other.
type Conversation struct {
	mu sync.Mutex

	ChatID            string
	CustomerName      string
	Messages          []Message
	HumanActive       bool
	LastHumanAction   *time.Time
	GreetingSent      bool
	HandledObjections []string
	History           []ai.Message
	CreatedAt         time.Time
}

func (c *Conversation) hasObjection(category string) bool {
	for _, o := range c.HandledObjections {
		if o == category {
			return true
		}
	}
	return false
}

func (c *Conversation) recordObjection(category string) {
	c.HandledObjections = append(c.HandledObjections, category)
}

// pushTurns appends a user/assistant pair and evicts the oldest entries
// when the window exceeds historyLimit. Callers hold mu.
func (c *Conversation) pushTurns(userText, assistantText string) {
	c.History = append(c.History,
		ai.Message{Role: ai.RoleUser, Text: userText},
		ai.Message{Role: ai.RoleAssistant, Text: assistantText},
	)
	if n := len(c.History); n > historyLimit {
		c.History = append(c.History[:0:0], c.History[n-historyLimit:]...)
	}
}

// ConversationView is an immutable snapshot safe to marshal or hand to
// observers while the conversation keeps mutating.
type ConversationView struct {
	ChatID            string       `json:"chat_id"`
	CustomerName      string       `json:"customer_name"`
	Messages          []Message    `json:"messages"`
	HumanActive       bool         `json:"human_active"`
	LastHumanAction   *time.Time   `json:"last_human_action"`
	GreetingSent      bool         `json:"greeting_sent"`
	HandledObjections []string     `json:"handled_objections"`
	History           []ai.Message `json:"ai_history"`
	CreatedAt         time.Time    `json:"created_at"`
}

func (c *Conversation) snapshot() ConversationView {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := ConversationView{
		ChatID:            c.ChatID,
		CustomerName:      c.CustomerName,
		Messages:          append([]Message(nil), c.Messages...),
		HumanActive:       c.HumanActive,
		GreetingSent:      c.GreetingSent,
		HandledObjections: append([]string(nil), c.HandledObjections...),
		History:           append([]ai.Message(nil), c.History...),
		CreatedAt:         c.CreatedAt,
	}
	if c.LastHumanAction != nil {
		t := *c.LastHumanAction
		v.LastHumanAction = &t
	}
	return v
}

// Store is the in-memory conversation registry, the single source of truth
// for handoff state, history, and the message log. State lives for the
// process lifetime; there is no persistence.
type Store struct {
	mu    sync.RWMutex
	convs map[string]*Conversation
}

func NewStore() *Store {
	return &Store{convs: make(map[string]*Conversation)}
}

// GetOrCreate returns the conversation for chatID, creating it with
// defaults on first reference.
func (s *Store) GetOrCreate(chatID string) *Conversation {
	s.mu.RLock()
	c, ok := s.convs[chatID]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.convs[chatID]; ok {
		return c
	}
	c = &Conversation{
		ChatID:       chatID,
		CustomerName: customerName(chatID),
		CreatedAt:    time.Now(),
	}
	s.convs[chatID] = c
	return c
}

func (s *Store) Get(chatID string) (*Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.convs[chatID]
	return c, ok
}

func (s *Store) Delete(chatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.convs[chatID]; !ok {
		return false
	}
	delete(s.convs, chatID)
	return true
}

func (s *Store) DeleteAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs = make(map[string]*Conversation)
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.convs)
}

// List snapshots every conversation, oldest first.
func (s *Store) List() []ConversationView {
	s.mu.RLock()
	convs := make([]*Conversation, 0, len(s.convs))
	for _, c := range s.convs {
		convs = append(convs, c)
	}
	s.mu.RUnlock()

	out := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		out = append(out, c.snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ChatID < out[j].ChatID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// customerName derives a display name from the chat id, e.g.
// "5511999@c.us" -> "5511999".
func customerName(chatID string) string {
	if i := strings.Index(chatID, "@"); i >= 0 {
		return chatID[:i]
	}
	return chatID
}
