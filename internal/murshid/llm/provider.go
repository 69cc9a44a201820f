// Package llm provides the generative-model client used for intent
// classification and for all tutoring text generation (titles, paragraphs,
// grammatical parses, exercises, model answers, and answer evaluations).
package llm

import (
	"context"
	"errors"
)

// ErrRateLimit is returned by a Generator when the upstream API reports a
// rate-limiting condition (HTTP 429). Callers should surface a user-visible
// message rather than retrying in a tight loop.
var ErrRateLimit = errors.New("llm: upstream rate limit exceeded")

// ErrEmptyCompletion is returned when the model responds successfully but
// produces no usable text (no candidates, or an empty candidate).
var ErrEmptyCompletion = errors.New("llm: model returned no text")

// Generator produces text from a single prompt.
//
// Implementations must be safe for concurrent use from multiple goroutines.
// Network and API failures are returned as errors; callers are expected to
// degrade to fixed Arabic failure replies, never to propagate raw errors to
// the student.
type Generator interface {
	// Generate sends prompt to the model and returns the generated text
	// with surrounding whitespace trimmed.
	Generate(ctx context.Context, prompt string) (string, error)
}
