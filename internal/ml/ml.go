// Package ml talks to the model inference service hosting the
// pretrained sentiment classifier and abstractive summarizer. Both are
// loaded once per process via Client.Init and are safe for concurrent
// use afterwards.
package ml

import (
	"context"

	"reviewlens/internal/types"
)

// Classifier assigns one sentiment label per input text, same order.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]types.SentimentLabel, error)
}

// Summarizer produces a natural-language summary of text within the
// given length bounds.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error)
}

// Truncate keeps the first max runes of text. Classifier inputs over
// the model's limit are head-truncated — a lossy but deterministic
// policy, applied before every classify call.
func Truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
