package types

import "time"

// KeywordFinding is one pros/cons panel entry: a distinctive phrase
// plus up to a couple of supporting sentences quoted from reviews.
type KeywordFinding struct {
	Phrase   string   `json:"keyword"`
	Examples []string `json:"examples"`
}

// ReviewInsights carries the secondary counters shown on the dashboard.
type ReviewInsights struct {
	VerifiedReviewsCount int `json:"verified_reviews_count"`
	RecentReviewCount    int `json:"recent_review_count"`
}

// AnalysisResult is the dashboard payload produced by the aggregation
// pipeline for one product's reviews.
//
// PositivePercent + NegativePercent + NeutralPercent always sum to
// exactly 100 because NeutralPercent is derived by subtraction. The
// two rounded terms can overshoot 100 together, which drives
// NeutralPercent negative; that value is reported as-is, not clamped.
type AnalysisResult struct {
	PositivePercent      int `json:"positive_percent"`
	NegativePercent      int `json:"negative_percent"`
	NeutralPercent       int `json:"neutral_percent"`
	TotalReviewsAnalyzed int `json:"total_reviews_analyzed"`

	QuickSummary  string `json:"quick_summary"`
	ReviewSummary string `json:"review_summary"`

	Pros []KeywordFinding `json:"pros"`
	Cons []KeywordFinding `json:"cons"`

	// RatingDistribution counts reviews per star bucket, keys "1".."5".
	RatingDistribution map[string]int `json:"rating_distribution,omitempty"`

	Insights ReviewInsights `json:"review_insights"`

	// NoData marks the zero-review variant: no percentages were
	// computed and the textual fields are empty.
	NoData bool `json:"no_data,omitempty"`

	// Degraded is set when a non-essential collaborator (the
	// summarizer) failed and its sub-result was omitted.
	Degraded       bool   `json:"degraded,omitempty"`
	DegradedReason string `json:"degraded_reason,omitempty"`
}

// NoDataResult is the explicit marker returned for an empty review set.
func NoDataResult() *AnalysisResult {
	return &AnalysisResult{
		NoData: true,
		Pros:   []KeywordFinding{},
		Cons:   []KeywordFinding{},
	}
}

// ScoredProduct is an AnalysisResult joined with the product details
// and the derived 0-10 overall score.
type ScoredProduct struct {
	Product
	Analysis *AnalysisResult `json:"analysis"`

	// OverallScore blends the star rating and the positive-sentiment
	// percentage. Always derived, never set directly.
	OverallScore float64 `json:"overall_score"`
}

// Comparison winners.
const (
	WinnerA   = "A"
	WinnerB   = "B"
	WinnerTie = "Tie"
)

// ComparisonResult is the head-to-head view of two scored products.
type ComparisonResult struct {
	A *ScoredProduct `json:"product_a"`
	B *ScoredProduct `json:"product_b"`

	Winner     string  `json:"winner"`
	ScoreDiff  float64 `json:"score_diff"`
	PriceDiff  float64 `json:"price_diff"`
	RatingDiff float64 `json:"rating_diff"`

	KeyDifferences []string `json:"key_differences"`
}

// HistoryRecord is one persisted entry of a user's analysis history.
type HistoryRecord struct {
	ID        string            `json:"id" bson:"_id,omitempty"`
	Owner     string            `json:"owner" bson:"owner"`
	Kind      string            `json:"kind" bson:"kind"` // "analysis" or "comparison"
	Product   *ScoredProduct    `json:"product,omitempty" bson:"product,omitempty"`
	Compare   *ComparisonResult `json:"comparison,omitempty" bson:"comparison,omitempty"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
}
