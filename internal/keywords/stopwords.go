package keywords

// stopwords is a compact english stopword set. Tokens in this set are
// removed before n-grams are formed, matching the usual TF-IDF
// vectorizer behavior.
var stopwords = map[string]struct{}{}

// blacklist holds generic review vocabulary that scores high on
// frequency but carries no product-specific signal. Phrases containing
// any of these words are discarded.
var blacklist = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "above", "after", "again", "against", "all", "am",
		"an", "and", "any", "are", "as", "at", "be", "because", "been",
		"before", "being", "below", "between", "both", "but", "by",
		"can", "cannot", "could", "did", "do", "does", "doing", "down",
		"during", "each", "few", "for", "from", "further", "had", "has",
		"have", "having", "he", "her", "here", "hers", "herself", "him",
		"himself", "his", "how", "i", "if", "in", "into", "is", "it",
		"its", "itself", "just", "me", "more", "most", "my", "myself",
		"no", "nor", "not", "now", "of", "off", "on", "once", "only",
		"or", "other", "our", "ours", "ourselves", "out", "over", "own",
		"same", "she", "should", "so", "some", "such", "than", "that",
		"the", "their", "theirs", "them", "themselves", "then", "there",
		"these", "they", "this", "those", "through", "to", "too",
		"under", "until", "up", "very", "was", "we", "were", "what",
		"when", "where", "which", "while", "who", "whom", "why", "will",
		"with", "would", "you", "your", "yours", "yourself",
		"yourselves",
	} {
		stopwords[w] = struct{}{}
	}

	for _, w := range []string{
		"good", "product", "buy", "item", "bought", "purchase",
		"purchased", "amazon", "really", "thing", "things",
	} {
		blacklist[w] = struct{}{}
	}
}

func isStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

func isBlacklisted(w string) bool {
	_, ok := blacklist[w]
	return ok
}
