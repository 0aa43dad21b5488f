package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// Gemini talks to the generateContent REST endpoint. Unlike the
// chat-completions shape, the system instruction travels out of band and the
// turn history uses the roles user/model; the new inbound text is appended
// as the final user turn.
type Gemini struct {
	baseURL string
	client  *http.Client
}

func NewGemini() *Gemini {
	return &Gemini{
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

func (g *Gemini) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	if req.APIKey == "" {
		return "", fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}

	payload := geminiRequest{
		Contents: make([]geminiContent, 0, len(req.History)+1),
	}
	if req.System != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	for _, m := range req.History {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		payload.Contents = append(payload.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Text}},
		})
	}
	payload.Contents = append(payload.Contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: req.Current}},
	})

	b, err := json.Marshal(payload)
	if err != nil {
		return "", &DispatchError{Provider: g.Name(), Cause: err}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", &DispatchError{Provider: g.Name(), Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", req.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", &DispatchError{Provider: g.Name(), Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &DispatchError{
			Provider: g.Name(),
			Cause:    fmt.Errorf("status %s body=%s", resp.Status, string(body)),
		}
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &DispatchError{Provider: g.Name(), Cause: err}
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", &DispatchError{Provider: g.Name(), Cause: errors.New("no candidates in response")}
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
