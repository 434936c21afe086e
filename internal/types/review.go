package types

import "strings"

// SentimentLabel is the categorical output of the review classifier.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
)

// Review is a single scraped customer review. Reviews are immutable
// once fetched and live only for the duration of one analysis request.
type Review struct {
	// Text is the review body, composed from title and description.
	Text string `json:"text"`

	// Rating is the star rating (1-5), 0 when the source omitted it.
	Rating int `json:"rating,omitempty"`

	// Date is the raw review date string as reported by the source.
	Date string `json:"date,omitempty"`

	// Verified marks a verified-purchase review.
	Verified bool `json:"verified,omitempty"`
}

// NewReview composes a Review from a title and description, the way
// review sources report them as separate fields.
func NewReview(title, description string) Review {
	text := strings.TrimSpace(strings.TrimSpace(title) + ". " + strings.TrimSpace(description))
	if text == "." {
		text = ""
	}
	return Review{Text: text}
}

// Texts extracts the review bodies in input order.
func Texts(reviews []Review) []string {
	out := make([]string, len(reviews))
	for i, r := range reviews {
		out[i] = r.Text
	}
	return out
}

// Product holds the details scraped from a product page. Fields the
// scraper could not locate carry the "Not found" placeholder rather
// than being empty — partial data is valid data.
type Product struct {
	Name        string   `json:"product_name"`
	Price       string   `json:"price"`
	Rating      string   `json:"rating"`
	Description string   `json:"description"`
	Images      []string `json:"images,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// NotFound is the placeholder for product fields the scraper could not
// locate on the page.
const NotFound = "Not found"

// NewProduct returns a Product with all fields set to the placeholder.
func NewProduct(url string) *Product {
	return &Product{
		Name:        NotFound,
		Price:       NotFound,
		Rating:      NotFound,
		Description: NotFound,
		URL:         url,
	}
}

// Found reports whether the scraper located at least the product name.
func (p *Product) Found() bool {
	return p != nil && p.Name != "" && p.Name != NotFound
}
