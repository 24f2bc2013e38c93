package httpgateway

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parser wraps a parsed HTML document with the selector helpers adapters
// use to pull fields out of scraped pages. Ported near-verbatim from the
// teacher's pkg/web/parser.go, which is already generic enough to serve any
// adapter in internal/registry.
type Parser struct {
	doc *goquery.Document
}

// NewParserFromString parses an HTML string.
func NewParserFromString(html string) (*Parser, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("httpgateway: failed to parse HTML: %w", err)
	}
	return &Parser{doc: doc}, nil
}

// Find returns a selection for a CSS selector.
func (p *Parser) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// Text returns the trimmed text of the first match.
func (p *Parser) Text(selector string) string {
	return strings.TrimSpace(p.doc.Find(selector).First().Text())
}

// Texts returns the trimmed text of every match.
func (p *Parser) Texts(selector string) []string {
	var out []string
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// Attr returns an attribute value from the first match.
func (p *Parser) Attr(selector, attr string) string {
	val, ok := p.doc.Find(selector).First().Attr(attr)
	if !ok {
		return ""
	}
	return strings.TrimSpace(val)
}

// Attrs returns an attribute value from every match.
func (p *Parser) Attrs(selector, attr string) []string {
	var out []string
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if val, ok := s.Attr(attr); ok {
			if val = strings.TrimSpace(val); val != "" {
				out = append(out, val)
			}
		}
	})
	return out
}

// HasElement reports whether a selector matches anything.
func (p *Parser) HasElement(selector string) bool {
	return p.doc.Find(selector).Length() > 0
}

// Document exposes the underlying goquery document for adapters that need
// more control than the helpers above provide.
func (p *Parser) Document() *goquery.Document {
	return p.doc
}

// NormalizeURL resolves a possibly-relative URL against a base URL.
func NormalizeURL(baseURL, relativeURL string) string {
	switch {
	case strings.HasPrefix(relativeURL, "http"):
		return relativeURL
	case strings.HasPrefix(relativeURL, "//"):
		return "https:" + relativeURL
	case strings.HasPrefix(relativeURL, "/"):
		return strings.TrimSuffix(baseURL, "/") + relativeURL
	default:
		return strings.TrimSuffix(baseURL, "/") + "/" + relativeURL
	}
}
