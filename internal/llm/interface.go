// Package llm wraps the remote generative-language services.
package llm

import "context"

// Client sends a single prompt and returns the generated text.
// Implementations make exactly one request per call.
type Client interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
