package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/XxLosHermanosxX/Sushibot/internal/config"
	"github.com/XxLosHermanosxX/Sushibot/internal/prompt"
)

// historyWindow is how many stored dialogue turns (user and assistant
// entries counted separately) are sent as context with each request.
const historyWindow = 10

// Dispatcher selects the active provider from configuration and generates
// replies through it. During normal conversation flow it never fails: any
// backend problem degrades to the fallback text once, with no retry.
type Dispatcher struct {
	cfg       *config.Manager
	providers map[string]Provider
	log       *slog.Logger
}

func NewDispatcher(cfg *config.Manager, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		cfg: cfg,
		providers: map[string]Provider{
			config.ProviderOpenRouter: NewOpenRouter(),
			config.ProviderGemini:     NewGemini(),
		},
		log: log,
	}
}

// Reply generates the bot's answer for the inbound text given the stored
// dialogue history. Errors are logged and converted to the fallback reply;
// they never reach the caller.
func (d *Dispatcher) Reply(ctx context.Context, history []Message, text string) string {
	cfg := d.cfg.Get()
	out, err := d.generate(ctx, cfg, prompt.System(cfg), history, text)
	if err != nil {
		d.log.Error("ai generation failed",
			"provider", cfg.Provider,
			"model", cfg.SelectedModel,
			"err", err,
		)
		return prompt.Fallback(cfg)
	}
	return out
}

// Test probes the active provider directly. Unlike Reply it surfaces
// errors, so a missing credential or dispatch failure reaches the caller.
func (d *Dispatcher) Test(ctx context.Context) (string, error) {
	cfg := d.cfg.Get()
	out, err := d.generate(ctx, cfg, "Responda apenas: OK", nil, "Teste")
	if err != nil {
		return "", err
	}
	if len(out) > 100 {
		out = out[:100]
	}
	return out, nil
}

func (d *Dispatcher) generate(ctx context.Context, cfg config.Config, system string, history []Message, text string) (string, error) {
	p, ok := d.providers[cfg.Provider]
	if !ok {
		return "", fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	return p.Generate(ctx, Request{
		Model:   cfg.SelectedModel,
		APIKey:  cfg.ActiveAPIKey(),
		System:  system,
		History: history,
		Current: text,
		Referer: cfg.SiteURL,
		Title:   cfg.BusinessName,
	})
}
