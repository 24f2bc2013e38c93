package registry

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	"mdc-go/internal/mdcerrors"
	"mdc-go/internal/merger"
)

// Javdb adapts javdb.com. Unlike the single-GET adapters, a lookup by
// number requires a search step first: javdb.com has no stable
// per-number URL, so Scrape implements ScrapeOverrider and performs a
// search-then-detail fetch instead of the registry's default
// orchestration.
type Javdb struct {
	BaseURL string
}

func NewJavdb() *Javdb {
	return &Javdb{BaseURL: "https://javdb.com"}
}

func (a *Javdb) Name() string               { return "javdb" }
func (a *Javdb) PreferredIDFormat() IDFormat { return PreferDisplay }
func (a *Javdb) ImagecutDefault() int        { return 1 }

func (a *Javdb) URLFor(id string) string {
	return fmt.Sprintf("%s/search?q=%s&f=all", a.BaseURL, url.QueryEscape(id))
}

// Scrape searches by number, picks the exact-matching (or first) result,
// then fetches and parses the detail page.
func (a *Javdb) Scrape(ctx context.Context, client *httpgateway.Client, id Identifier, specifiedURL string) (*datatype.MovieInfo, error) {
	number := id.DisplayID
	if number == "" {
		return nil, mdcerrors.New(mdcerrors.InvalidIdentifier, "javdb: display ID required for search")
	}

	detailURL := specifiedURL
	if detailURL == "" {
		searchBody, err := client.Get(ctx, a.URLFor(number))
		if err != nil {
			return nil, err
		}
		searchDoc, err := httpgateway.NewParserFromString(searchBody)
		if err != nil {
			return nil, mdcerrors.Wrap(mdcerrors.ParseFailure, err, "javdb: failed to parse search results")
		}
		path, err := a.pickSearchResult(searchDoc, number)
		if err != nil {
			return nil, err
		}
		detailURL = a.BaseURL + path
	}

	body, err := client.Get(ctx, detailURL)
	if err != nil {
		return nil, err
	}
	doc, err := httpgateway.NewParserFromString(body)
	if err != nil {
		return nil, mdcerrors.Wrap(mdcerrors.ParseFailure, err, "javdb: failed to parse detail page")
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

// pickSearchResult returns the detail path of the result whose uid
// exactly matches number (case-insensitively), falling back to the
// first result when no exact match is found.
func (a *Javdb) pickSearchResult(doc *httpgateway.Parser, number string) (string, error) {
	var paths []string
	var exact string

	doc.Find(".movie-list .item a").Each(func(_ int, sel *goquery.Selection) {
		uid := strings.TrimSpace(sel.Find(".uid").Text())
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		paths = append(paths, href)
		if exact == "" && strings.EqualFold(uid, number) {
			exact = href
		}
	})

	if exact != "" {
		return exact, nil
	}
	if len(paths) > 0 {
		return paths[0], nil
	}
	return "", mdcerrors.New(mdcerrors.NotFound, fmt.Sprintf("javdb: no search results for %q", number))
}

func (a *Javdb) Parse(doc *httpgateway.Parser, sourceURL string) (*datatype.MovieInfo, error) {
	title := doc.Text("title")
	parts := strings.Fields(title)

	info := datatype.NewMovieInfo("")
	if len(parts) >= 2 {
		info.Number = parts[0]
		info.Title = strings.TrimSuffix(strings.Join(parts[1:], " "), " - JavDB")
	}
	info.Cover = doc.Attr("img.video-cover", "src")

	doc.Find("span.value").Each(func(i int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		switch {
		case info.Release == "" && len(text) == 10 && text[4] == '-' && text[7] == '-':
			info.Release = text
		case info.Runtime == "" && (strings.Contains(text, "分鍾") || strings.Contains(text, "minute")):
			info.Runtime = strings.Fields(text)[0]
		}
	})

	info.Director = firstText(doc, "a[href*='/directors/']")
	info.Studio = firstText(doc, "a[href*='/makers/']")
	info.Series = firstText(doc, "a[href*='/series/']")
	info.Tag = doc.Texts("a[href*='/tags/']")
	info.Actor = doc.Texts("a[href*='/actors/'] strong")
	info.Trailer = doc.Attr("source[type='video/mp4']", "src")

	if info.Title == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "javdb: missing title")
	}
	if info.Cover == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "javdb: missing cover image")
	}
	return info, nil
}
