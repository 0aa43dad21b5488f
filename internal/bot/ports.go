// Package bot is the conversation orchestration engine: the per-chat
// bot/human handoff state machine, the in-memory conversation store, and
// the HTTP surface that drives them.
package bot

import (
	"context"
	"errors"
	"time"

	"github.com/XxLosHermanosxX/Sushibot/internal/ai"
	"github.com/XxLosHermanosxX/Sushibot/internal/events"
)

type Sender string

const (
	SenderCustomer Sender = "customer"
	SenderBot      Sender = "bot"
	SenderHuman    Sender = "human"
)

// Message is one entry of a conversation's append-only log.
type Message struct {
	ID        string    `json:"id"`
	From      Sender    `json:"from"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Reason explains why no automated reply was produced.
type Reason string

const (
	ReasonHumanActive       Reason = "human_active"
	ReasonAutoReplyDisabled Reason = "auto_reply_disabled"
)

// ErrNotFound marks a lookup of an unknown conversation on a path that
// does not auto-create.
var ErrNotFound = errors.New("conversation not found")

// Replier produces the bot's answer for an inbound text given the stored
// dialogue turns. It never fails: generation errors degrade to a fallback
// inside the implementation.
type Replier interface {
	Reply(ctx context.Context, history []ai.Message, text string) string
}

// Publisher fans a state-change event out to observers without blocking
// the caller.
type Publisher interface {
	Broadcast(ev events.Event)
}

// Service is the orchestration engine as consumed by the HTTP layer.
type Service interface {
	// OnCustomerMessage runs the per-message state machine and returns
	// the reply text, or an empty reply with a reason when the bot stays
	// silent.
	OnCustomerMessage(ctx context.Context, chatID, text string) (string, Reason)

	Takeover(chatID string)
	Release(chatID string)
	SendManual(chatID, text string) Message

	List() []ConversationView
	Get(chatID string) (ConversationView, error)
	Delete(chatID string) error
	DeleteAll()
	Count() int
}
