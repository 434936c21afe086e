// Package parser extracts product fields from fetched page HTML.
package parser

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"reviewlens/internal/types"
)

// Rule maps one product field to a selector. CSS rules run through
// goquery, XPath rules through htmlquery. Rules for the same field are
// tried in order and the first non-empty match wins.
type Rule struct {
	Field     string `mapstructure:"field" yaml:"field"`
	Type      string `mapstructure:"type" yaml:"type"`
	Selector  string `mapstructure:"selector" yaml:"selector"`
	Attribute string `mapstructure:"attribute" yaml:"attribute"`
	All       bool   `mapstructure:"all" yaml:"all"`
}

// Product field names recognized in rules.
const (
	FieldName        = "name"
	FieldPrice       = "price"
	FieldRating      = "rating"
	FieldDescription = "description"
	FieldImages      = "images"
)

// DefaultRules targets the markup of large retail product pages.
func DefaultRules() []Rule {
	return []Rule{
		{Field: FieldName, Type: "css", Selector: "span#productTitle"},
		{Field: FieldName, Type: "css", Selector: "h1#title"},
		{Field: FieldPrice, Type: "css", Selector: ".a-price .a-offscreen"},
		{Field: FieldPrice, Type: "css", Selector: "span.a-price-whole"},
		{Field: FieldRating, Type: "css", Selector: "span.a-icon-alt"},
		{Field: FieldRating, Type: "xpath", Selector: `//span[@data-hook="rating-out-of-text"]`},
		{Field: FieldDescription, Type: "css", Selector: "#feature-bullets li", All: true},
		{Field: FieldDescription, Type: "css", Selector: "#productDescription p"},
		{Field: FieldImages, Type: "css", Selector: "#imgTagWrapperId img", Attribute: "src", All: true},
		{Field: FieldImages, Type: "css", Selector: "#altImages img", Attribute: "src", All: true},
	}
}

// ProductParser turns raw HTML into a Product. Fields no rule matches
// keep their "Not found" placeholder; the caller decides whether the
// page was a product page at all.
type ProductParser struct {
	rules  []Rule
	logger *slog.Logger
}

// New creates a ProductParser. Nil rules fall back to DefaultRules.
func New(rules []Rule, logger *slog.Logger) *ProductParser {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &ProductParser{
		rules:  rules,
		logger: logger.With("component", "product_parser"),
	}
}

// Parse extracts product fields from body. A body that fails to parse
// as HTML yields a placeholder-only product and an error.
func (p *ProductParser) Parse(body []byte, pageURL string) (*types.Product, error) {
	product := types.NewProduct(pageURL)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return product, &types.FetchError{URL: pageURL, Err: err}
	}

	// XPath rules share one parsed tree, built lazily.
	var xpathDoc *html.Node

	for _, rule := range p.rules {
		var values []string
		switch rule.Type {
		case "", "css":
			values = p.extractCSS(doc, rule)
		case "xpath":
			if xpathDoc == nil {
				xpathDoc, err = html.Parse(strings.NewReader(string(body)))
				if err != nil {
					p.logger.Warn("xpath tree parse failed", "url", pageURL, "error", err)
					continue
				}
			}
			values = p.extractXPath(xpathDoc, rule)
		default:
			p.logger.Warn("unknown rule type", "type", rule.Type, "field", rule.Field)
			continue
		}
		if len(values) == 0 {
			continue
		}
		p.assign(product, rule, values)
	}

	p.logger.Debug("product parsed",
		"url", pageURL,
		"found", product.Found(),
		"images", len(product.Images),
	)
	return product, nil
}

// assign writes matched values into the product, first match per field
// wins. Images accumulate across rules instead.
func (p *ProductParser) assign(product *types.Product, rule Rule, values []string) {
	switch rule.Field {
	case FieldName:
		if product.Name == types.NotFound {
			product.Name = values[0]
		}
	case FieldPrice:
		if product.Price == types.NotFound {
			product.Price = values[0]
		}
	case FieldRating:
		if product.Rating == types.NotFound {
			product.Rating = values[0]
		}
	case FieldDescription:
		if product.Description == types.NotFound {
			product.Description = strings.Join(values, " ")
		}
	case FieldImages:
		product.Images = appendUnique(product.Images, values)
	default:
		p.logger.Warn("rule targets unknown field", "field", rule.Field)
	}
}

// extractCSS applies a CSS rule and returns matched values.
func (p *ProductParser) extractCSS(doc *goquery.Document, rule Rule) []string {
	var values []string
	doc.Find(rule.Selector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		var val string
		switch rule.Attribute {
		case "", "text":
			val = strings.TrimSpace(sel.Text())
		default:
			val, _ = sel.Attr(rule.Attribute)
			val = strings.TrimSpace(val)
		}
		if val != "" {
			values = append(values, val)
		}
		return rule.All || len(values) == 0
	})
	return values
}

// extractXPath applies an XPath rule and returns matched values.
func (p *ProductParser) extractXPath(doc *html.Node, rule Rule) []string {
	nodes, err := htmlquery.QueryAll(doc, rule.Selector)
	if err != nil {
		p.logger.Warn("invalid xpath", "selector", rule.Selector, "error", err)
		return nil
	}

	var values []string
	for _, node := range nodes {
		var val string
		switch rule.Attribute {
		case "", "text":
			val = strings.TrimSpace(htmlquery.InnerText(node))
		default:
			val = strings.TrimSpace(htmlquery.SelectAttr(node, rule.Attribute))
		}
		if val != "" {
			values = append(values, val)
			if !rule.All {
				break
			}
		}
	}
	return values
}

func appendUnique(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v] = true
	}
	for _, v := range extra {
		if !seen[v] {
			seen[v] = true
			existing = append(existing, v)
		}
	}
	return existing
}
