package registry

import (
	"fmt"
	"strings"

	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	"mdc-go/internal/mdcerrors"
)

// Javlibrary adapts javlibrary.com, queried by Content ID, parsing its
// Japanese-language info table per the documented adapter notes.
type Javlibrary struct {
	BaseURL string
}

func NewJavlibrary() *Javlibrary {
	return &Javlibrary{BaseURL: "https://www.javlibrary.com/ja"}
}

func (a *Javlibrary) Name() string               { return "javlibrary" }
func (a *Javlibrary) PreferredIDFormat() IDFormat { return PreferContent }
func (a *Javlibrary) ImagecutDefault() int        { return 1 }

func (a *Javlibrary) URLFor(id string) string {
	return fmt.Sprintf("%s/?v=%s", strings.TrimSuffix(a.BaseURL, "/"), id)
}

func (a *Javlibrary) Parse(doc *httpgateway.Parser, sourceURL string) (*datatype.MovieInfo, error) {
	title := doc.Text("#video_title .post-title")
	if title == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "javlibrary: missing title")
	}

	info := datatype.NewMovieInfo("")
	info.Title = title
	info.Cover = doc.Attr("#video_jacket_img", "src")
	info.Number = doc.Text("#video_id .text")
	info.Release = doc.Text("#video_date .text")
	info.Runtime = doc.Text("#video_length .text")
	info.Director = firstText(doc, "#video_director .text a")
	info.Studio = firstText(doc, "#video_maker .text a")
	info.Label = firstText(doc, "#video_label .text a")
	info.UserRating = 0

	info.Actor = doc.Texts("#video_cast .text a")
	info.Tag = doc.Texts("#video_genres .text a")

	if info.Number == "" {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "javlibrary: missing identifier field")
	}
	return info, nil
}
