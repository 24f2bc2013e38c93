package registry

import (
	"fmt"
	"strings"

	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	"mdc-go/internal/mdcerrors"
)

// IMDb adapts imdb.com for English-facing (non-adult) titles, queried
// by Display ID treated as an IMDb "tt"-prefixed identifier. Like
// TMDb, it reads OpenGraph meta tags rather than a structured table.
type IMDb struct {
	BaseURL string
}

func NewIMDb() *IMDb {
	return &IMDb{BaseURL: "https://www.imdb.com/title"}
}

func (a *IMDb) Name() string               { return "imdb" }
func (a *IMDb) PreferredIDFormat() IDFormat { return PreferDisplay }
func (a *IMDb) ImagecutDefault() int        { return 0 }

func (a *IMDb) URLFor(id string) string {
	return fmt.Sprintf("%s/%s/", strings.TrimSuffix(a.BaseURL, "/"), id)
}

func (a *IMDb) Parse(doc *httpgateway.Parser, sourceURL string) (*datatype.MovieInfo, error) {
	title := doc.Attr("meta[property='og:title']", "content")
	if title == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "imdb: missing title")
	}

	info := datatype.NewMovieInfo("")
	info.Title = title
	info.Outline = doc.Attr("meta[name='description']", "content")
	info.Cover = doc.Attr("meta[property='og:image']", "content")
	info.Director = firstText(doc, "a[data-testid='title-pc-principal-credit'] li a")
	info.Actor = doc.Texts("a[data-testid='title-cast-item__actor']")
	info.Tag = doc.Texts("a[href*='/search/title/?genres=']")

	idFromURL := strings.Trim(strings.TrimPrefix(sourceURL, strings.TrimSuffix(a.BaseURL, "/")), "/")
	info.Number = strings.SplitN(idFromURL, "/", 2)[0]

	if info.Number == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "imdb: missing identifier field")
	}
	return info, nil
}
