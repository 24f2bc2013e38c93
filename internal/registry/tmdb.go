package registry

import (
	"fmt"
	"strings"

	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	"mdc-go/internal/mdcerrors"
)

// TMDb adapts themoviedb.org for English-facing (non-adult) titles,
// queried by Display ID treated as a TMDb numeric movie ID. It reads
// the page's OpenGraph/meta tags rather than a dedicated info table,
// since TMDb's public pages are meta-tag driven.
type TMDb struct {
	BaseURL string
}

func NewTMDb() *TMDb {
	return &TMDb{BaseURL: "https://www.themoviedb.org/movie"}
}

func (a *TMDb) Name() string               { return "tmdb" }
func (a *TMDb) PreferredIDFormat() IDFormat { return PreferDisplay }
func (a *TMDb) ImagecutDefault() int        { return 0 }

func (a *TMDb) URLFor(id string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(a.BaseURL, "/"), id)
}

func (a *TMDb) Parse(doc *httpgateway.Parser, sourceURL string) (*datatype.MovieInfo, error) {
	title := doc.Attr("meta[property='og:title']", "content")
	if title == "" {
		title = doc.Text("h2 a")
	}
	if title == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "tmdb: missing title")
	}

	info := datatype.NewMovieInfo("")
	info.Title = title
	info.Outline = doc.Attr("meta[property='og:description']", "content")
	info.Cover = doc.Attr("meta[property='og:image']", "content")
	info.Release = doc.Text("span.release_date")
	info.Runtime = strings.TrimSuffix(strings.TrimSpace(doc.Text("span.runtime")), " min")
	info.Director = firstText(doc, "ol.people li[class*='director'] a")
	info.Actor = doc.Texts("ol.people.scroller li a.image")
	info.Tag = doc.Texts("span.genres a")

	idFromURL := strings.TrimPrefix(sourceURL, strings.TrimSuffix(a.BaseURL, "/")+"/")
	info.Number = strings.SplitN(idFromURL, "-", 2)[0]

	if info.Number == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "tmdb: missing identifier field")
	}
	return info, nil
}
