package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"reviewlens/internal/types"
)

// Weight split between the star rating and the sentiment percentage.
// Fixed policy constants, not data-derived.
const (
	ratingWeight    = 0.6
	sentimentWeight = 0.4
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseStarRating extracts the numeric star value from a raw rating
// string such as "4.3 out of 5 stars". Malformed input yields 0.0 and
// ok=false so callers can tell a genuine zero from missing data.
func ParseStarRating(raw string) (float64, bool) {
	m := numberPattern.FindString(raw)
	if m == "" {
		return 0, false
	}
	star, err := strconv.ParseFloat(m, 64)
	if err != nil || star < 0 || star > 5 {
		return 0, false
	}
	return star, true
}

// OverallScore blends a 0-5 star rating with a 0-100 positive-sentiment
// percentage into a single 0-10 score, rounded to one decimal.
func OverallScore(star float64, positivePercent int) float64 {
	score := (star/5)*10*ratingWeight + float64(positivePercent)/10*sentimentWeight
	return math.Round(score*10) / 10
}

// ScoreProduct derives the overall score for a product from its raw
// rating string and analysis. An unparsable rating contributes 0.
func ScoreProduct(p *types.Product, analysis *types.AnalysisResult) *types.ScoredProduct {
	star, _ := ParseStarRating(p.Rating)
	positive := 0
	if analysis != nil && !analysis.NoData {
		positive = analysis.PositivePercent
	}
	return &types.ScoredProduct{
		Product:      *p,
		Analysis:     analysis,
		OverallScore: OverallScore(star, positive),
	}
}

// Compare builds the head-to-head view of two scored products. The
// winner has the strictly higher overall score; equal scores tie.
func Compare(a, b *types.ScoredProduct) *types.ComparisonResult {
	result := &types.ComparisonResult{
		A:         a,
		B:         b,
		Winner:    types.WinnerTie,
		ScoreDiff: round1(a.OverallScore - b.OverallScore),
	}

	switch {
	case a.OverallScore > b.OverallScore:
		result.Winner = types.WinnerA
	case b.OverallScore > a.OverallScore:
		result.Winner = types.WinnerB
	}

	priceA, okA := parsePrice(a.Price)
	priceB, okB := parsePrice(b.Price)
	if okA && okB {
		result.PriceDiff = round1(priceA - priceB)
	}

	starA, _ := ParseStarRating(a.Rating)
	starB, _ := ParseStarRating(b.Rating)
	result.RatingDiff = round1(starA - starB)

	result.KeyDifferences = keyDifferences(a, b, okA && okB, priceA, priceB)
	return result
}

// keyDifferences lists strengths unique to each product (pros phrase
// set difference) plus a price statement when both prices parse.
func keyDifferences(a, b *types.ScoredProduct, pricesKnown bool, priceA, priceB float64) []string {
	prosA := prosSet(a)
	prosB := prosSet(b)

	var diffs []string
	for _, f := range analysisPros(a) {
		if _, shared := prosB[strings.ToLower(f.Phrase)]; !shared {
			diffs = append(diffs, fmt.Sprintf("Only %s is praised for %q", a.Name, f.Phrase))
		}
	}
	for _, f := range analysisPros(b) {
		if _, shared := prosA[strings.ToLower(f.Phrase)]; !shared {
			diffs = append(diffs, fmt.Sprintf("Only %s is praised for %q", b.Name, f.Phrase))
		}
	}

	if pricesKnown && priceA != priceB {
		cheaper, pricier := a.Name, b.Name
		delta := priceB - priceA
		if priceA > priceB {
			cheaper, pricier = b.Name, a.Name
			delta = priceA - priceB
		}
		diffs = append(diffs, fmt.Sprintf("%s is %.2f cheaper than %s", cheaper, delta, pricier))
	}

	if len(diffs) == 0 {
		diffs = []string{"Both products share similar strengths"}
	}
	return diffs
}

func analysisPros(p *types.ScoredProduct) []types.KeywordFinding {
	if p.Analysis == nil {
		return nil
	}
	return p.Analysis.Pros
}

func prosSet(p *types.ScoredProduct) map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range analysisPros(p) {
		set[strings.ToLower(f.Phrase)] = struct{}{}
	}
	return set
}

// parsePrice extracts a numeric price from a scraped price string.
func parsePrice(raw string) (float64, bool) {
	cleaned := strings.NewReplacer(",", "", "₹", "", "$", "", "€", "", "£", "").Replace(raw)
	m := numberPattern.FindString(cleaned)
	if m == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
