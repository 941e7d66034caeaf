package services

import "context"

// AIProvider defines the interface for the narrator's language model. The
// engine only ever passes it a fully rendered prompt string and expects back
// plain text. Retry, rate limiting and circuit breaking are the provider's
// internal concern: implementations return a degraded-but-valid narration on
// failure rather than propagating an error into the core.
type AIProvider interface {
	// GenerateResponse generates narrator text from a rendered prompt
	GenerateResponse(ctx context.Context, prompt string) (string, error)

	// Healthy reports whether the provider is ready to serve requests
	Healthy(ctx context.Context) bool
}
