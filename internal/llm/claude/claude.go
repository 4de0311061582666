package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"stock-assistant/internal/store"
	"stock-assistant/internal/trace"
)

// ClaudeGenerator implements the Generator interface using the Anthropic
// messages API.
type ClaudeGenerator struct {
	cfg      *store.Config
	endpoint string
}

// NewClaudeGenerator creates a Claude-backed generator. The endpoint can
// be overridden for proxies via CLAUDE_API_ENDPOINT.
func NewClaudeGenerator(cfg *store.Config) *ClaudeGenerator {
	endpoint := "https://api.anthropic.com/v1/messages"
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &ClaudeGenerator{cfg: cfg, endpoint: endpoint}
}

func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return "", errors.New("ANTHROPIC_API_KEY missing")
	}

	body := map[string]any{
		"model":      g.cfg.LLM.Model,
		"max_tokens": g.cfg.LLM.MaxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": g.cfg.LLM.Temperature,
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", g.endpoint, bytes.NewReader(bb))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("claude http %d: %s", resp.StatusCode, string(b))
	}

	var r struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}

	if len(r.Content) == 0 {
		return "", errors.New("no content")
	}

	return strings.TrimSpace(r.Content[0].Text), nil
}
