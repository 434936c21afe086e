package keywords

import (
	"strings"
	"testing"
)

func TestFindQuotesCapAndContainment(t *testing.T) {
	texts := []string{
		"The battery life is great. Charging is slow though.",
		"Battery life lasts forever! Would recommend.",
		"Decent battery life overall. No complaints.",
		"battery life is average.",
	}

	quotes := FindQuotes(texts, "battery life", 2)
	if len(quotes) > 2 {
		t.Fatalf("expected at most 2 quotes, got %d", len(quotes))
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d: %v", len(quotes), quotes)
	}
	for _, q := range quotes {
		if !strings.Contains(strings.ToLower(q), "battery life") {
			t.Errorf("quote %q does not contain the phrase", q)
		}
	}
}

func TestFindQuotesCaseInsensitive(t *testing.T) {
	texts := []string{"BATTERY LIFE IS AMAZING. Truly."}
	quotes := FindQuotes(texts, "battery life", 1)
	if len(quotes) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(quotes))
	}
	if quotes[0] != "BATTERY LIFE IS AMAZING" {
		t.Errorf("unexpected quote %q", quotes[0])
	}
}

func TestFindQuotesOnePerText(t *testing.T) {
	texts := []string{
		"battery life rules. battery life rocks. battery life wins.",
		"no mention here at all",
	}
	quotes := FindQuotes(texts, "battery life", 5)
	if len(quotes) != 1 {
		t.Errorf("expected one quote per text, got %d: %v", len(quotes), quotes)
	}
}

func TestFindQuotesNoMatch(t *testing.T) {
	quotes := FindQuotes([]string{"nothing relevant here."}, "battery life", 2)
	if len(quotes) != 0 {
		t.Errorf("expected no quotes, got %v", quotes)
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"One. Two! Three?", 3},
		{"No terminal punctuation", 1},
		{"", 0},
		{"Trailing dot.", 1},
		{"...", 0},
	}
	for _, tt := range tests {
		got := SplitSentences(tt.input)
		if len(got) != tt.want {
			t.Errorf("SplitSentences(%q): expected %d sentences, got %d (%v)",
				tt.input, tt.want, len(got), got)
		}
	}
}
