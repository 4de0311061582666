package noop

import (
	"context"

	"stock-assistant/internal/logger"
)

// NoopGenerator is the fallback generator used when no LLM provider is
// configured. It always returns the same placeholder reply.
type NoopGenerator struct{}

// NewNoopGenerator returns a generator that never calls out.
func NewNoopGenerator() *NoopGenerator {
	return &NoopGenerator{}
}

// Generate implements the Generator interface with a fixed reply.
func (g *NoopGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	logger.Debug(ctx, "Noop generator called - no LLM provider configured")
	return "目前未設定語言模型，無法產生回覆。", nil
}
