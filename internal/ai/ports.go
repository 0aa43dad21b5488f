// Package ai is the reply-generation layer: interchangeable providers
// behind one capability interface, selected at call time from the live
// configuration, with every failure degrading to a canned fallback.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Dialogue roles as stored in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// requestTimeout bounds a single provider round trip. Exceeding it is
// treated like any other dispatch failure.
const requestTimeout = 30 * time.Second

// Message is one dialogue turn exchanged with a provider.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Request carries everything a provider needs for one generation call.
// System is kept apart from History because Gemini takes the instruction
// out of band instead of as a leading turn.
type Request struct {
	Model   string
	APIKey  string
	System  string
	History []Message // prior turns, oldest first
	Current string    // the new inbound text, sent as the final user turn
	Referer string    // attribution headers, OpenRouter only
	Title   string
}

// Provider generates a reply for a request. Implementations fail fast with
// ErrMissingAPIKey before any network I/O when the credential is empty, and
// wrap every round-trip failure in a DispatchError.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// ErrMissingAPIKey marks a configuration error: no credential for the
// selected provider.
var ErrMissingAPIKey = errors.New("api key not configured")

// DispatchError marks a provider round-trip failure: non-2xx status,
// malformed response, transport error, or timeout.
type DispatchError struct {
	Provider string
	Cause    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s dispatch failed: %v", e.Provider, e.Cause)
}

func (e *DispatchError) Unwrap() error { return e.Cause }
