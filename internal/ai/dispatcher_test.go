package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XxLosHermanosxX/Sushibot/internal/config"
	"github.com/XxLosHermanosxX/Sushibot/internal/prompt"
)

type fakeProvider struct {
	reply   string
	err     error
	lastReq Request
	calls   int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, req Request) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *fakeProvider, *config.Manager) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg := config.Load(filepath.Join(t.TempDir(), "config.json"))
	key := "test-key"
	_, _, err := cfg.Update(config.Patch{OpenRouterAPIKey: &key})
	require.NoError(t, err)

	d := NewDispatcher(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	fake := &fakeProvider{reply: "gerado"}
	d.providers[config.ProviderOpenRouter] = fake
	return d, fake, cfg
}

func TestReplyPassesPromptAndWindow(t *testing.T) {
	d, fake, cfg := newTestDispatcher(t)

	history := make([]Message, 0, 14)
	for i := 0; i < 7; i++ {
		history = append(history,
			Message{Role: RoleUser, Text: fmt.Sprintf("u%d", i)},
			Message{Role: RoleAssistant, Text: fmt.Sprintf("a%d", i)},
		)
	}

	out := d.Reply(context.Background(), history, "qual o cardápio?")

	assert.Equal(t, "gerado", out)
	snap := cfg.Get()
	assert.Equal(t, prompt.System(snap), fake.lastReq.System)
	assert.Equal(t, "qual o cardápio?", fake.lastReq.Current)
	assert.Equal(t, snap.SelectedModel, fake.lastReq.Model)
	assert.Equal(t, "test-key", fake.lastReq.APIKey)
	assert.Equal(t, snap.SiteURL, fake.lastReq.Referer)
	assert.Equal(t, snap.BusinessName, fake.lastReq.Title)

	// Only the 10 most recent turns travel with the request.
	require.Len(t, fake.lastReq.History, 10)
	assert.Equal(t, history[4:], fake.lastReq.History)
}

func TestReplyFallsBackOnDispatchFailure(t *testing.T) {
	d, fake, cfg := newTestDispatcher(t)
	fake.err = &DispatchError{Provider: "fake", Cause: errors.New("boom")}

	out := d.Reply(context.Background(), nil, "oi")

	assert.Equal(t, prompt.Fallback(cfg.Get()), out)
	assert.Contains(t, out, cfg.Get().SiteURL)
}

func TestReplyFallsBackOnMissingCredential(t *testing.T) {
	d, fake, cfg := newTestDispatcher(t)
	fake.err = fmt.Errorf("fake: %w", ErrMissingAPIKey)

	out := d.Reply(context.Background(), nil, "oi")
	assert.Equal(t, prompt.Fallback(cfg.Get()), out)
}

func TestReplyFallsBackOnUnknownProvider(t *testing.T) {
	d, fake, cfg := newTestDispatcher(t)
	bad := "nope"
	_, _, err := cfg.Update(config.Patch{Provider: &bad})
	require.NoError(t, err)

	out := d.Reply(context.Background(), nil, "oi")

	assert.Equal(t, prompt.Fallback(cfg.Get()), out)
	assert.Zero(t, fake.calls)
}

func TestConnectivityTestSurfacesErrors(t *testing.T) {
	d, fake, _ := newTestDispatcher(t)
	fake.err = fmt.Errorf("fake: %w", ErrMissingAPIKey)

	_, err := d.Test(context.Background())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestConnectivityTestTruncatesProbeReply(t *testing.T) {
	d, fake, _ := newTestDispatcher(t)
	long := ""
	for i := 0; i < 40; i++ {
		long += "okok"
	}
	fake.reply = long

	out, err := d.Test(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 100)
	assert.Equal(t, "Responda apenas: OK", fake.lastReq.System)
	assert.Equal(t, "Teste", fake.lastReq.Current)
	assert.Empty(t, fake.lastReq.History)
}
