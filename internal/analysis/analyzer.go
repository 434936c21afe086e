// Package analysis turns a product's scraped reviews into the
// dashboard payload: sentiment split, keyword-based pros/cons with
// supporting quotes, generated summaries, and review insights.
package analysis

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"reviewlens/internal/config"
	"reviewlens/internal/keywords"
	"reviewlens/internal/ml"
	"reviewlens/internal/types"
)

// Summary fallbacks when the review corpus is too small to feed the
// summarizer meaningfully.
const (
	fullSummaryFallback  = "Not enough review data for a detailed summary."
	quickSummaryFallback = "Not enough review data."

	fullSummaryMinChars  = 200
	quickSummaryMinChars = 100
)

// Analyzer runs the aggregation pipeline. The classifier and
// summarizer collaborators are initialized once per process and shared
// across concurrent Analyze calls.
type Analyzer struct {
	classifier ml.Classifier
	summarizer ml.Summarizer
	cfg        config.AnalysisConfig
	logger     *slog.Logger
	now        func() time.Time
}

// New creates an Analyzer.
func New(classifier ml.Classifier, summarizer ml.Summarizer, cfg config.AnalysisConfig, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		classifier: classifier,
		summarizer: summarizer,
		cfg:        cfg,
		logger:     logger.With("component", "analyzer"),
		now:        time.Now,
	}
}

// Analyze produces the dashboard payload for one review set.
//
// An empty review set yields the explicit no-data result, never an
// error. A classifier failure is terminal (sentiment is the backbone
// of everything downstream) and surfaces as a ModelError. A summarizer
// failure degrades the result instead: sentiment and pros/cons are
// kept, the summaries are omitted, and the reason is recorded.
func (a *Analyzer) Analyze(ctx context.Context, reviews []types.Review) (*types.AnalysisResult, error) {
	if len(reviews) == 0 {
		a.logger.Info("no reviews to analyze")
		return types.NoDataResult(), nil
	}

	texts := types.Texts(reviews)

	labels, err := a.classifier.Classify(ctx, texts)
	if err != nil {
		return nil, err
	}

	var positive, negative []string
	posCount, negCount := 0, 0
	for i, label := range labels {
		switch label {
		case types.SentimentPositive:
			positive = append(positive, texts[i])
			posCount++
		case types.SentimentNegative:
			negative = append(negative, texts[i])
			negCount++
		}
	}

	total := len(reviews)
	positivePercent := roundPercent(posCount, total)
	negativePercent := roundPercent(negCount, total)

	// Neutral is derived by subtraction so the three always sum to
	// exactly 100. Rounding can push the two terms past 100, which
	// makes this negative; reported as-is, not clamped.
	neutralPercent := 100 - positivePercent - negativePercent

	result := &types.AnalysisResult{
		PositivePercent:      positivePercent,
		NegativePercent:      negativePercent,
		NeutralPercent:       neutralPercent,
		TotalReviewsAnalyzed: total,
		Pros:                 a.findings(positive),
		Cons:                 a.findings(negative),
		RatingDistribution:   ratingDistribution(reviews),
		Insights:             a.insights(reviews),
	}

	a.summarize(ctx, texts, result)

	a.logger.Info("analysis complete",
		"reviews", total,
		"positive_percent", result.PositivePercent,
		"negative_percent", result.NegativePercent,
		"pros", len(result.Pros),
		"cons", len(result.Cons),
		"degraded", result.Degraded,
	)
	return result, nil
}

// findings extracts the top phrases of a sentiment subset and attaches
// supporting quotes. Too few texts simply yield an empty panel.
func (a *Analyzer) findings(texts []string) []types.KeywordFinding {
	phrases := keywords.ExtractPhrases(texts, a.cfg.TopPhrases)
	findings := make([]types.KeywordFinding, 0, len(phrases))
	for _, phrase := range phrases {
		quotes := keywords.FindQuotes(texts, phrase, a.cfg.MaxQuotes)
		if quotes == nil {
			quotes = []string{}
		}
		findings = append(findings, types.KeywordFinding{Phrase: phrase, Examples: quotes})
	}
	return findings
}

// summarize fills the quick and full summaries. The full summary uses
// every review; the quick one only the first QuickSummaryTopN. Both
// blobs are capped at the configured character budget before being
// sent to the summarizer.
func (a *Analyzer) summarize(ctx context.Context, texts []string, result *types.AnalysisResult) {
	fullText := capRunes(strings.Join(texts, " "), a.cfg.SummaryCharBudget)

	quickTexts := texts
	if n := a.cfg.QuickSummaryTopN; n > 0 && len(quickTexts) > n {
		quickTexts = quickTexts[:n]
	}
	quickText := capRunes(strings.Join(quickTexts, " "), a.cfg.SummaryCharBudget)

	if len(fullText) <= fullSummaryMinChars {
		result.ReviewSummary = fullSummaryFallback
	} else {
		summary, err := a.summarizer.Summarize(ctx, fullText, 100, 40)
		if err != nil {
			a.degrade(result, err)
			return
		}
		result.ReviewSummary = strings.TrimSpace(summary)
	}

	if len(quickText) <= quickSummaryMinChars {
		result.QuickSummary = quickSummaryFallback
		return
	}
	summary, err := a.summarizer.Summarize(ctx, quickText, 50, 20)
	if err != nil {
		a.degrade(result, err)
		return
	}
	result.QuickSummary = strings.TrimSpace(summary)
}

// degrade records a summarizer failure without failing the analysis.
func (a *Analyzer) degrade(result *types.AnalysisResult, err error) {
	result.Degraded = true
	result.DegradedReason = err.Error()
	result.ReviewSummary = ""
	result.QuickSummary = ""
	a.logger.Warn("summarizer failed, returning degraded result", "error", err)
}

// insights counts verified reviews and reviews within the recency
// window. Dates that fail to parse are never counted as recent.
func (a *Analyzer) insights(reviews []types.Review) types.ReviewInsights {
	cutoff := a.now().Add(-a.cfg.RecentWindow)

	var insights types.ReviewInsights
	for _, r := range reviews {
		if r.Verified {
			insights.VerifiedReviewsCount++
		}
		if when, ok := parseReviewDate(r.Date); ok && when.After(cutoff) {
			insights.RecentReviewCount++
		}
	}
	return insights
}

// reviewDateLayouts covers the date formats review sources emit.
var reviewDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

func parseReviewDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range reviewDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func ratingDistribution(reviews []types.Review) map[string]int {
	dist := map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
	for _, r := range reviews {
		switch r.Rating {
		case 1:
			dist["1"]++
		case 2:
			dist["2"]++
		case 3:
			dist["3"]++
		case 4:
			dist["4"]++
		case 5:
			dist["5"]++
		}
	}
	return dist
}

func roundPercent(part, total int) int {
	return int(math.Round(100 * float64(part) / float64(total)))
}

func capRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
