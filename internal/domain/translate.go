package domain

import "context"

// Translator is the shared text translation contract between layers.
// Implementations translate between the configured source and target languages.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}
