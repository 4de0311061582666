package llm

import "context"

// Generator is the text-generation collaborator: a prompt goes in, an
// unstructured text reply comes out. Callers parse replies by line
// prefix; nothing here inspects the content.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
