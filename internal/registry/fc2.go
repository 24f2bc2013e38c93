package registry

import (
	"fmt"
	"regexp"
	"strings"

	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	"mdc-go/internal/mdcerrors"
)

// reFC2Number extracts the bare numeric ID from an FC2-PPV-\d+ shaped
// identifier, per the documented adapter rule.
var reFC2Number = regexp.MustCompile(`(?i)FC2-PPV-(\d+)`)

// FC2 adapts the fc2.com adult marketplace. Studio is always forced to
// "FC2" per the documented adapter notes, since FC2 listings have no
// separate studio field of their own.
type FC2 struct {
	BaseURL string
}

func NewFC2() *FC2 {
	return &FC2{BaseURL: "https://adult.contents.fc2.com/article"}
}

func (a *FC2) Name() string               { return "fc2" }
func (a *FC2) PreferredIDFormat() IDFormat { return PreferDisplay }
func (a *FC2) ImagecutDefault() int        { return 0 }

func (a *FC2) URLFor(id string) string {
	m := reFC2Number.FindStringSubmatch(id)
	number := id
	if len(m) == 2 {
		number = m[1]
	}
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(a.BaseURL, "/"), number)
}

func (a *FC2) Parse(doc *httpgateway.Parser, sourceURL string) (*datatype.MovieInfo, error) {
	title := doc.Text("div.items_article_headerInfo h3")
	if title == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "fc2: missing title")
	}

	m := reFC2Number.FindStringSubmatch(sourceURL)
	if m == nil {
		m = reFC2Number.FindStringSubmatch(title)
	}

	info := datatype.NewMovieInfo("")
	info.Title = title
	info.Cover = doc.Attr("div.items_article_MainitemThumb img", "src")
	info.Release = doc.Text("div.items_article_Releasedate")
	info.Studio = "FC2"
	info.Tag = doc.Texts("a.tag")
	info.Actor = doc.Texts("div.items_article_headerInfo a[href*='articles.php?uid=']")

	if m != nil {
		info.Number = "FC2-PPV-" + m[1]
	}
	if info.Number == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "fc2: missing identifier field")
	}
	return info, nil
}
