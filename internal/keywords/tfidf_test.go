package keywords

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractPhrasesDeterministic(t *testing.T) {
	texts := []string{
		"battery life is amazing and battery life lasts two days",
		"battery life could be better but screen quality is superb",
		"screen quality and battery life are the highlights",
	}

	first := ExtractPhrases(texts, 4)
	if len(first) == 0 {
		t.Fatal("expected phrases, got none")
	}
	for i := 0; i < 10; i++ {
		again := ExtractPhrases(texts, 4)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, first, again)
		}
	}
}

func TestExtractPhrasesMinDocFreq(t *testing.T) {
	texts := []string{
		"battery life is amazing",
		"battery life is solid",
		"unique turbocharged flamingo mode exists here",
	}

	phrases := ExtractPhrases(texts, 10)
	for _, p := range phrases {
		count := 0
		for _, text := range texts {
			if containsPhrase(text, p) {
				count++
			}
		}
		if count < 2 {
			t.Errorf("phrase %q appears in only %d text(s)", p, count)
		}
	}
}

func TestExtractPhrasesDegenerateInputs(t *testing.T) {
	if got := ExtractPhrases(nil, 5); got != nil {
		t.Errorf("nil texts: expected nil, got %v", got)
	}
	if got := ExtractPhrases([]string{"only one review here"}, 5); got != nil {
		t.Errorf("single text: expected nil, got %v", got)
	}
}

func TestExtractPhrasesRespectsK(t *testing.T) {
	texts := []string{
		"battery life screen quality camera focus sound volume",
		"battery life screen quality camera focus sound volume",
		"battery life screen quality camera focus sound volume",
	}
	phrases := ExtractPhrases(texts, 3)
	if len(phrases) > 3 {
		t.Errorf("expected at most 3 phrases, got %d: %v", len(phrases), phrases)
	}
}

func TestExtractPhrasesSkipsBlacklist(t *testing.T) {
	texts := []string{
		"good product overall but battery drains fast",
		"good product though battery drains overnight",
	}
	for _, p := range ExtractPhrases(texts, 10) {
		for _, word := range strings.Fields(p) {
			if word == "good" || word == "product" {
				t.Errorf("blacklisted word leaked into phrase %q", p)
			}
		}
	}
}

// containsPhrase is a loose word-level containment check for tests.
func containsPhrase(text, phrase string) bool {
	tokens := tokenize(text)
	want := tokenize(phrase)
	if len(want) == 0 {
		return false
	}
outer:
	for i := 0; i+len(want) <= len(tokens); i++ {
		for j := range want {
			if tokens[i+j] != want[j] {
				continue outer
			}
		}
		return true
	}
	return false
}
