package ports

import "context"

// GenerateOptions are the sampling settings of a single generation request.
// A zero MaxOutputTokens leaves the provider default in place.
type GenerateOptions struct {
	Temperature     float64
	MaxOutputTokens int
}

type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
