package main

import (
	"context"
	"fmt"
	"os"

	"stock-assistant/internal/llm"
	"stock-assistant/internal/llm/claude"
	"stock-assistant/internal/llm/llmobs"
	"stock-assistant/internal/llm/noop"
	"stock-assistant/internal/llm/openai"
	"stock-assistant/internal/logger"
	"stock-assistant/internal/store"
	"stock-assistant/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads the configuration, falling back to defaults when no
// config.yaml is present
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info(ctx, "No config.yaml found, using defaults")
			return store.DefaultConfig(), nil
		}
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeGenerator initializes and returns the text generator with observability
func initializeGenerator(ctx context.Context, cfg *store.Config) llm.Generator {
	var gen llm.Generator

	switch cfg.LLM.Provider {
	case "OPENAI":
		gen = openai.NewOpenAIGenerator(cfg)
	case "CLAUDE":
		gen = claude.NewClaudeGenerator(cfg)
	default:
		gen = noop.NewNoopGenerator()
		logger.Warn(ctx, "No LLM provider configured - replies will be placeholders")
	}

	// Wrap with observability middleware
	return llmobs.Wrap(gen)
}
