package registry

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	"mdc-go/internal/mdcerrors"
)

// Javbus adapts javbus.com, queried by Display ID, with actor-thumbnail
// extraction per the documented adapter notes.
type Javbus struct {
	BaseURL string
}

// NewJavbus builds the Javbus adapter with its default base URL.
func NewJavbus() *Javbus {
	return &Javbus{BaseURL: "https://www.javbus.com"}
}

func (a *Javbus) Name() string               { return "javbus" }
func (a *Javbus) PreferredIDFormat() IDFormat { return PreferDisplay }
func (a *Javbus) ImagecutDefault() int        { return 1 }

func (a *Javbus) URLFor(id string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(a.BaseURL, "/"), id)
}

func (a *Javbus) Parse(doc *httpgateway.Parser, sourceURL string) (*datatype.MovieInfo, error) {
	title := doc.Text("h3")
	if title == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "javbus: missing title")
	}

	info := datatype.NewMovieInfo("")
	info.Title = title
	info.Cover = doc.Attr(".bigImage img", "src")

	pairs := extractInfoPairs(doc.Find(".info p"))
	info.Number = pairs["識別碼"]
	info.Release = pairs["發行日期"]
	info.Runtime = pairs["長度"]
	info.Director = firstText(doc, ".info a[href*='/director/']")
	info.Studio = firstText(doc, ".info a[href*='/studio/']")
	info.Label = firstText(doc, ".info a[href*='/label/']")
	info.Series = firstText(doc, ".info a[href*='/series/']")
	info.Tag = doc.Texts(".genre label a")

	doc.Find(".star-name").Each(func(_ int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.Text())
		if name == "" {
			return
		}
		info.Actor = append(info.Actor, name)
		if img, ok := sel.Parent().Find("img").Attr("src"); ok {
			info.ActorPhoto[name] = strings.TrimSpace(img)
		}
	})

	if info.Number == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "javbus: missing identifier field")
	}
	return info, nil
}

// extractInfoPairs walks a Javbus-style "<p>Key: Value</p>" info block and
// returns a key->value map.
func extractInfoPairs(sel *goquery.Selection) map[string]string {
	pairs := make(map[string]string)
	sel.Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if text == "" {
			return
		}
		parts := strings.SplitN(text, ":", 2)
		if len(parts) != 2 {
			return
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key != "" && value != "" {
			pairs[key] = value
		}
	})
	return pairs
}

func firstText(doc *httpgateway.Parser, selector string) string {
	texts := doc.Texts(selector)
	if len(texts) == 0 {
		return ""
	}
	return texts[0]
}
