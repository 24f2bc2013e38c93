package registry

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	"mdc-go/internal/mdcerrors"
)

// Avmoo adapts avmoo.com, queried by Display ID.
type Avmoo struct {
	BaseURL string
}

func NewAvmoo() *Avmoo {
	return &Avmoo{BaseURL: "https://avmoo.com/ja"}
}

func (a *Avmoo) Name() string               { return "avmoo" }
func (a *Avmoo) PreferredIDFormat() IDFormat { return PreferDisplay }
func (a *Avmoo) ImagecutDefault() int        { return 1 }

func (a *Avmoo) URLFor(id string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(a.BaseURL, "/"), strings.ToLower(id))
}

func (a *Avmoo) Parse(doc *httpgateway.Parser, sourceURL string) (*datatype.MovieInfo, error) {
	title := doc.Text("h3")
	if title == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "avmoo: missing title")
	}

	info := datatype.NewMovieInfo("")
	info.Title = title
	info.Cover = doc.Attr(".bigImage img", "src")

	pairs := extractInfoPairs(doc.Find(".movie-information p"))
	info.Number = pairs["識別碼"]
	info.Release = pairs["發行日期"]
	info.Runtime = pairs["長度"]
	info.Studio = pairs["製作商"]
	info.Label = pairs["發行商"]
	info.Series = pairs["系列"]

	doc.Find(".avatar-box .photo-info span").Each(func(_ int, sel *goquery.Selection) {
		if name := strings.TrimSpace(sel.Text()); name != "" {
			info.Actor = append(info.Actor, name)
		}
	})
	info.Tag = doc.Texts(".genre a")

	if info.Number == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "avmoo: missing identifier field")
	}
	return info, nil
}
