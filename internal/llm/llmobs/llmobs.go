package llmobs

import (
	"context"

	"stock-assistant/internal/llm"
	"stock-assistant/internal/logger"
	"stock-assistant/internal/trace"
)

// observableGenerator wraps a Generator with observability (logging & tracing)
type observableGenerator struct {
	generator llm.Generator
}

// Compile-time interface check
var _ llm.Generator = (*observableGenerator)(nil)

// Wrap wraps a generator with observability middleware
func Wrap(generator llm.Generator) llm.Generator {
	return &observableGenerator{
		generator: generator,
	}
}

// Generate produces a text reply with observability
func (og *observableGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Generate")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting text generation", "prompt_len", len(prompt))

	reply, err := og.generator.Generate(ctx, prompt)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Text generation failed", err, "prompt_len", len(prompt))
		return "", err
	}

	logger.DebugSkip(ctx, 1, "Text generation completed", "reply_len", len(reply))
	return reply, nil
}
