package registry

import (
	"fmt"
	"strings"

	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	"mdc-go/internal/mdcerrors"
)

// TokyoHot adapts tokyo-hot.com. Studio and label are always forced to
// "Tokyo-Hot" per the documented adapter notes, and every result is
// tagged "Uncensored" since the catalogue is exclusively uncensored.
type TokyoHot struct {
	BaseURL string
}

func NewTokyoHot() *TokyoHot {
	return &TokyoHot{BaseURL: "https://my.tokyo-hot.com/product"}
}

func (a *TokyoHot) Name() string               { return "tokyohot" }
func (a *TokyoHot) PreferredIDFormat() IDFormat { return PreferDisplay }
func (a *TokyoHot) ImagecutDefault() int        { return 0 }

func (a *TokyoHot) URLFor(id string) string {
	return fmt.Sprintf("%s/%s/", strings.TrimSuffix(a.BaseURL, "/"), strings.ToLower(id))
}

func (a *TokyoHot) Parse(doc *httpgateway.Parser, sourceURL string) (*datatype.MovieInfo, error) {
	title := doc.Text("#program_detail h1")
	if title == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "tokyohot: missing title")
	}

	info := datatype.NewMovieInfo("")
	info.Title = title
	info.Cover = doc.Attr("#sample-photo img", "src")

	pairs := extractInfoPairs(doc.Find("#main_info tr"))
	info.Number = pairs["品番"]
	info.Release = pairs["公開日"]
	info.Runtime = pairs["収録時間"]
	info.Actor = doc.Texts("#main_info a[href*='/actress/']")

	info.Studio = "Tokyo-Hot"
	info.Label = "Tokyo-Hot"
	info.Uncensored = true
	info.Tag = append(doc.Texts("#main_info a[href*='/tag/']"), "Uncensored")

	if info.Number == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "tokyohot: missing identifier field")
	}
	return info, nil
}
