// Package ai drafts invoice content with a hosted generative model. Prompt
// rendering and reply parsing are pure functions; the model itself sits
// behind the Model interface.
package ai

import "context"

// Model sends one prompt to a generative text model and returns its reply.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
