// Package assistant answers one-shot prompts through a text generator and
// coordinates the listen/think/show turn of the dashboard assistant.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Replies shown in place of a generated answer.
const (
	MsgNoAPIKey          = "API Keyが設定されていません。"
	MsgUnavailable       = "申し訳ありません。現在AIサービスに接続できません。"
	MsgNotUnderstood     = "すみません、よく聞き取れませんでした。"
	MsgSpeechUnsupported = "お使いの環境は音声認識をサポートしていません。"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

const systemInstruction = "You are a helpful, concise AI assistant for a smart home display. " +
	"Your answers should be short, friendly, and in Japanese. " +
	"Limit responses to 2-3 sentences unless asked for more detail."

// ErrNoAPIKey is returned when the generator has no credentials.
var ErrNoAPIKey = errors.New("assistant: api key not configured")

// Generator produces reply text for a prompt. No history is kept between
// calls.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini generates replies with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// GeminiOption adjusts client construction.
type GeminiOption func(*genai.ClientConfig)

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) GeminiOption {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = u
	}
}

// NewGemini builds a generator. An empty key yields ErrNoAPIKey.
func NewGemini(ctx context.Context, apiKey, model string, opts ...GeminiOption) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	for _, opt := range opts {
		opt(cfg)
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("assistant: genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("assistant: generate: %w", err)
	}
	var sb strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// Responder turns generator outcomes into displayable text; it never fails.
type Responder struct {
	gen     Generator
	timeout time.Duration
}

// NewResponder wraps gen. A nil gen answers every prompt with MsgNoAPIKey.
func NewResponder(gen Generator, timeout time.Duration) *Responder {
	return &Responder{gen: gen, timeout: timeout}
}

// Reply returns the generated answer or a short failure message.
func (r *Responder) Reply(ctx context.Context, prompt string) string {
	if r == nil || r.gen == nil {
		return MsgNoAPIKey
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	text, err := r.gen.Generate(ctx, prompt)
	switch {
	case errors.Is(err, ErrNoAPIKey):
		return MsgNoAPIKey
	case err != nil:
		slog.Warn("assistant: generation failed", "error", err)
		return MsgUnavailable
	case strings.TrimSpace(text) == "":
		return MsgNotUnderstood
	}
	return text
}

// Available reports whether a generator is configured.
func (r *Responder) Available() bool {
	return r != nil && r.gen != nil
}
