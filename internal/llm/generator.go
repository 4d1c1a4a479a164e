// Package llm provides the text-generation client used by pipeline stages.
package llm

import "context"

// Generator is the text-generation service contract. Stages send a system
// prompt plus user content and receive the model's raw text reply, which may
// contain a fenced JSON block.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, system, user string) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}
