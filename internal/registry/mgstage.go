package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	"mdc-go/internal/mdcerrors"
	"mdc-go/internal/merger"
)

// Mgstage adapts mgstage.com, the official MGS/Prestige studio site.
// Like Javdb, lookups require a search step, so Scrape implements
// ScrapeOverrider. Every request needs the site's age-verification
// cookie ("adc=1"), which Scrape sets on the client before both the
// search and the detail request.
type Mgstage struct {
	BaseURL string
}

func NewMgstage() *Mgstage {
	return &Mgstage{BaseURL: "https://www.mgstage.com"}
}

func (a *Mgstage) Name() string               { return "mgstage" }
func (a *Mgstage) PreferredIDFormat() IDFormat { return PreferDisplay }
func (a *Mgstage) ImagecutDefault() int        { return 1 }

func (a *Mgstage) URLFor(id string) string {
	return fmt.Sprintf("%s/search/cSearch.php?search_word=%s", a.BaseURL, url.QueryEscape(id))
}

func (a *Mgstage) ensureAgeCookie(client *httpgateway.Client, target string) {
	u, err := url.Parse(target)
	if err != nil {
		return
	}
	client.SetCookie(u, &http.Cookie{Name: "adc", Value: "1"})
}

func (a *Mgstage) Scrape(ctx context.Context, client *httpgateway.Client, id Identifier, specifiedURL string) (*datatype.MovieInfo, error) {
	number := id.DisplayID
	if number == "" {
		return nil, mdcerrors.New(mdcerrors.InvalidIdentifier, "mgstage: display ID required for search")
	}

	detailURL := specifiedURL
	if detailURL == "" {
		searchURL := a.URLFor(number)
		a.ensureAgeCookie(client, searchURL)

		searchBody, err := client.Get(ctx, searchURL)
		if err != nil {
			return nil, err
		}
		searchDoc, err := httpgateway.NewParserFromString(searchBody)
		if err != nil {
			return nil, mdcerrors.Wrap(mdcerrors.ParseFailure, err, "mgstage: failed to parse search results")
		}
		path, err := a.pickSearchResult(searchDoc, number)
		if err != nil {
			return nil, err
		}
		detailURL = a.normalizeDetailURL(path)
	}

	a.ensureAgeCookie(client, detailURL)
	body, err := client.Get(ctx, detailURL)
	if err != nil {
		return nil, err
	}
	doc, err := httpgateway.NewParserFromString(body)
	if err != nil {
		return nil, mdcerrors.Wrap(mdcerrors.ParseFailure, err, "mgstage: failed to parse detail page")
	}

	info, err := a.Parse(doc, detailURL)
	if err != nil {
		return nil, err
	}
	info.Source = a.Name()
	info.Website = detailURL
	info.Imagecut = a.ImagecutDefault()
	merger.NormalizeMetadata(info)
	return info, nil
}

func (a *Mgstage) normalizeDetailURL(path string) string {
	full := path
	if !strings.HasPrefix(full, "http") {
		full = a.BaseURL + path
	}
	if !strings.HasSuffix(full, "/") {
		full += "/"
	}
	return full
}

// pickSearchResult returns the first product-detail link whose path
// contains the queried number (case-insensitively), falling back to
// the first result found.
func (a *Mgstage) pickSearchResult(doc *httpgateway.Parser, number string) (string, error) {
	var paths []string
	lowerNumber := strings.ToLower(number)
	var matched string

	doc.Find("a[href*='/product/product_detail/']").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		paths = append(paths, href)
		if matched == "" && strings.Contains(strings.ToLower(href), lowerNumber) {
			matched = href
		}
	})

	if matched != "" {
		return matched, nil
	}
	if len(paths) > 0 {
		return paths[0], nil
	}
	return "", mdcerrors.New(mdcerrors.NotFound, fmt.Sprintf("mgstage: no search results for %q", number))
}

func (a *Mgstage) Parse(doc *httpgateway.Parser, sourceURL string) (*datatype.MovieInfo, error) {
	title := doc.Text("title")
	if title == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "mgstage: missing title")
	}

	info := datatype.NewMovieInfo("")
	info.Title = strings.TrimSuffix(title, " - Mgstage")
	info.Number = tableValue(doc, "品番：")
	info.Release = tableValue(doc, "配信開始日：")
	info.Runtime = strings.TrimSuffix(tableValue(doc, "収録時間："), "min")
	info.Studio = tableLink(doc, "メーカー：")
	info.Label = tableLink(doc, "レーベル：")
	info.Series = tableLink(doc, "シリーズ：")
	info.Tag = doc.Texts("a[href*='csearch.php?genre']")
	info.Actor = doc.Texts("a[href*='csearch.php?actress']")
	info.Cover = doc.Attr("a.link_magnify", "href")
	info.ExtraFanart = doc.Attrs("a.sample_image", "href")

	if info.Number == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "mgstage: missing identifier field")
	}
	return info, nil
}

// tableValue walks a "<th>label</th><td>value</td>" table row and
// returns the td's trimmed text.
func tableValue(doc *httpgateway.Parser, label string) string {
	var value string
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		if strings.TrimSpace(th.Text()) != label {
			return true
		}
		value = strings.TrimSpace(th.Parent().Find("td").First().Text())
		return false
	})
	return value
}

// tableLink is tableValue, but returns the text of the td's anchor
// instead of the td's own text (for link-only fields like studio/label).
func tableLink(doc *httpgateway.Parser, label string) string {
	var value string
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		if strings.TrimSpace(th.Text()) != label {
			return true
		}
		value = strings.TrimSpace(th.Parent().Find("td a").First().Text())
		return false
	})
	return value
}
