package keywords

import "strings"

// FindQuotes returns representative sentences containing phrase,
// case-insensitively. Texts are scanned in input order and at most one
// sentence is taken per text, stopping once maxQuotes sentences are
// collected. Pure function of its inputs.
func FindQuotes(texts []string, phrase string, maxQuotes int) []string {
	if phrase == "" || maxQuotes < 1 {
		return nil
	}

	needle := strings.ToLower(phrase)
	var quotes []string

	for _, text := range texts {
		for _, sentence := range SplitSentences(text) {
			if strings.Contains(strings.ToLower(sentence), needle) {
				quotes = append(quotes, sentence)
				break // one example per text
			}
		}
		if len(quotes) >= maxQuotes {
			break
		}
	}
	return quotes
}

// SplitSentences splits text on sentence-ending punctuation and trims
// the pieces. Empty pieces are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start:i]); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
