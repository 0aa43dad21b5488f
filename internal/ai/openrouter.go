package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouter talks to the OpenRouter chat-completions endpoint, which is
// OpenAI-compatible, through the go-openai client pointed at a custom base
// URL.
type OpenRouter struct {
	baseURL string
}

func NewOpenRouter() *OpenRouter {
	return &OpenRouter{baseURL: openRouterBaseURL}
}

func (o *OpenRouter) Name() string { return "openrouter" }

func (o *OpenRouter) Generate(ctx context.Context, req Request) (string, error) {
	if req.APIKey == "" {
		return "", fmt.Errorf("openrouter: %w", ErrMissingAPIKey)
	}

	cfg := openai.DefaultConfig(req.APIKey)
	cfg.BaseURL = o.baseURL
	cfg.HTTPClient = &http.Client{
		Timeout:   requestTimeout,
		Transport: &attributionTransport{referer: req.Referer, title: req.Title},
	}
	client := openai.NewClientWithConfig(cfg)

	msgs := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.System,
	})
	for _, m := range req.History {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Text})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Current,
	})

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		return "", &DispatchError{Provider: o.Name(), Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &DispatchError{Provider: o.Name(), Cause: errors.New("empty choices")}
	}
	return resp.Choices[0].Message.Content, nil
}

// attributionTransport sets the optional OpenRouter ranking headers on every
// outgoing request.
type attributionTransport struct {
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if t.referer != "" {
		r.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		r.Header.Set("X-Title", t.title)
	}
	return http.DefaultTransport.RoundTrip(r)
}
