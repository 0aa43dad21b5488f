// Package config owns the process-wide bot configuration: defaults, env
// seeding, JSON file persistence, and snapshot access for readers.
package config

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// Config is the process-wide bot configuration. It is persisted to a JSON
// file and read by the engine and the AI dispatcher; only the Manager
// mutates it.
type Config struct {
	Provider             string `json:"provider"`
	GeminiAPIKey         string `json:"gemini_api_key"`
	OpenRouterAPIKey     string `json:"openrouter_api_key"`
	SelectedModel        string `json:"selected_model"`
	AutoReply            bool   `json:"auto_reply"`
	HumanTakeoverMinutes int    `json:"human_takeover_minutes"`
	SiteURL              string `json:"site_url"`
	BusinessName         string `json:"business_name"`
}

func Default() Config {
	return Config{
		Provider:             ProviderOpenRouter,
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		OpenRouterAPIKey:     os.Getenv("OPENROUTER_API_KEY"),
		SelectedModel:        "deepseek/deepseek-r1:free",
		AutoReply:            true,
		HumanTakeoverMinutes: 60,
		SiteURL:              "https://sushiakicb.shop",
		BusinessName:         "Sushi Aki",
	}
}

// ActiveAPIKey returns the credential for the currently selected provider.
func (c Config) ActiveAPIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenRouterAPIKey
}

func (c Config) TakeoverTimeout() time.Duration {
	return time.Duration(c.HumanTakeoverMinutes) * time.Minute
}

// Redacted is the API-safe view of Config: credentials are reduced to a
// set-flag and a short preview.
type Redacted struct {
	Provider             string `json:"provider"`
	GeminiKeySet         bool   `json:"gemini_api_key_set"`
	GeminiKeyPreview     string `json:"gemini_api_key_preview"`
	OpenRouterKeySet     bool   `json:"openrouter_api_key_set"`
	OpenRouterKeyPreview string `json:"openrouter_api_key_preview"`
	SelectedModel        string `json:"selected_model"`
	AutoReply            bool   `json:"auto_reply"`
	HumanTakeoverMinutes int    `json:"human_takeover_minutes"`
	SiteURL              string `json:"site_url"`
	BusinessName         string `json:"business_name"`
}

func (c Config) Redacted() Redacted {
	return Redacted{
		Provider:             c.Provider,
		GeminiKeySet:         c.GeminiAPIKey != "",
		GeminiKeyPreview:     preview(c.GeminiAPIKey),
		OpenRouterKeySet:     c.OpenRouterAPIKey != "",
		OpenRouterKeyPreview: preview(c.OpenRouterAPIKey),
		SelectedModel:        c.SelectedModel,
		AutoReply:            c.AutoReply,
		HumanTakeoverMinutes: c.HumanTakeoverMinutes,
		SiteURL:              c.SiteURL,
		BusinessName:         c.BusinessName,
	}
}

func preview(key string) string {
	if key == "" {
		return ""
	}
	if len(key) > 10 {
		key = key[:10]
	}
	return key + "..."
}

// Patch is a partial configuration update; nil fields are left untouched.
type Patch struct {
	Provider             *string `json:"provider"`
	GeminiAPIKey         *string `json:"gemini_api_key"`
	OpenRouterAPIKey     *string `json:"openrouter_api_key"`
	SelectedModel        *string `json:"selected_model"`
	AutoReply            *bool   `json:"auto_reply"`
	HumanTakeoverMinutes *int    `json:"human_takeover_minutes"`
	SiteURL              *string `json:"site_url"`
	BusinessName         *string `json:"business_name"`
}

// Manager owns the mutable configuration and its on-disk copy. Readers get
// value snapshots, so a snapshot stays coherent across a whole request even
// if an update lands mid-flight.
type Manager struct {
	mu   sync.RWMutex
	path string
	cfg  Config
}

// Load reads the configuration file at path, layered over Default().
// A missing or unreadable file is not an error: defaults apply and the
// file is created on the first Update.
func Load(path string) *Manager {
	cfg := Default()
	if b, err := os.ReadFile(path); err == nil {
		// Malformed files fall back to defaults, same as a missing file.
		_ = json.Unmarshal(b, &cfg)
	}
	return &Manager{path: path, cfg: cfg}
}

func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Update applies the patch, persists the result, and reports whether
// anything changed.
func (m *Manager) Update(p Patch) (Config, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := false
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	apply(&m.cfg.Provider, p.Provider)
	apply(&m.cfg.GeminiAPIKey, p.GeminiAPIKey)
	apply(&m.cfg.OpenRouterAPIKey, p.OpenRouterAPIKey)
	apply(&m.cfg.SelectedModel, p.SelectedModel)
	apply(&m.cfg.SiteURL, p.SiteURL)
	apply(&m.cfg.BusinessName, p.BusinessName)
	if p.AutoReply != nil {
		m.cfg.AutoReply = *p.AutoReply
		changed = true
	}
	if p.HumanTakeoverMinutes != nil {
		m.cfg.HumanTakeoverMinutes = *p.HumanTakeoverMinutes
		changed = true
	}

	if !changed {
		return m.cfg, false, nil
	}
	return m.cfg, true, m.save()
}

func (m *Manager) save() error {
	b, err := json.MarshalIndent(m.cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, b, 0o600)
}
