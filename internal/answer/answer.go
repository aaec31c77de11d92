// Package answer turns retrieved passages into a reply for the user.
package answer

import (
	"context"
	"strings"
)

// NoPassage is returned by the extractive generator when retrieval found nothing.
const NoPassage = "No relevant passage found."

// Generator produces an answer to question grounded in passages.
type Generator interface {
	Generate(ctx context.Context, question string, passages []string) (string, error)
}

// Extractive answers with the best passage verbatim. It is used when no
// language model is configured.
type Extractive struct{}

var _ Generator = Extractive{}

func (Extractive) Generate(_ context.Context, _ string, passages []string) (string, error) {
	for _, p := range passages {
		if s := strings.TrimSpace(p); s != "" {
			return s, nil
		}
	}
	return NoPassage, nil
}
