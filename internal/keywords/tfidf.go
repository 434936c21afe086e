package keywords

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Extraction thresholds. A phrase must appear in at least minDocFreq
// input texts, and in at most maxDocRatio of them, to qualify.
const (
	minDocFreq  = 2
	maxDocRatio = 0.85
)

type phraseStat struct {
	phrase    string
	termFreq  int // total occurrences across all texts
	docFreq   int // number of texts containing the phrase
	firstSeen int // global order of first occurrence, for stable ties
}

// ExtractPhrases returns the top k most distinctive 2-3 word phrases
// across texts, ranked by TF-IDF. Deterministic for a given input:
// equal scores are ordered by first appearance.
//
// Fewer than 2 texts yield no phrases — a single document is a
// degenerate corpus for document-frequency statistics.
func ExtractPhrases(texts []string, k int) []string {
	if len(texts) < minDocFreq || k < 1 {
		return nil
	}

	stats := make(map[string]*phraseStat)
	order := 0

	for _, text := range texts {
		seen := make(map[string]struct{})
		for _, phrase := range ngrams(tokenize(text)) {
			st, ok := stats[phrase]
			if !ok {
				st = &phraseStat{phrase: phrase, firstSeen: order}
				stats[phrase] = st
				order++
			}
			st.termFreq++
			if _, dup := seen[phrase]; !dup {
				seen[phrase] = struct{}{}
				st.docFreq++
			}
		}
	}

	n := len(texts)
	maxDF := int(math.Floor(maxDocRatio * float64(n)))
	if maxDF < minDocFreq {
		maxDF = minDocFreq
	}

	candidates := make([]*phraseStat, 0, len(stats))
	for _, st := range stats {
		if st.docFreq < minDocFreq || st.docFreq > maxDF {
			continue
		}
		candidates = append(candidates, st)
	}

	// Smoothed IDF; the +1 terms keep phrases present in every
	// qualifying document from zeroing out.
	score := func(st *phraseStat) float64 {
		idf := math.Log(float64(1+n)/float64(1+st.docFreq)) + 1
		return float64(st.termFreq) * idf
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := score(candidates[i]), score(candidates[j])
		if si != sj {
			return si > sj
		}
		return candidates[i].firstSeen < candidates[j].firstSeen
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	phrases := make([]string, len(candidates))
	for i, st := range candidates {
		phrases[i] = st.phrase
	}
	return phrases
}

// tokenize lowercases text, splits on non-letter/digit runs, and drops
// stopwords and blacklisted tokens before n-grams are formed.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if isStopword(f) || isBlacklisted(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// ngrams forms the 2- and 3-grams of a token sequence.
func ngrams(tokens []string) []string {
	var out []string
	for size := 2; size <= 3; size++ {
		for i := 0; i+size <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+size], " "))
		}
	}
	return out
}
