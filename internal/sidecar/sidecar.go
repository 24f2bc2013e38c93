// Package sidecar implements the Sidecar Emitter collaborator
// (SPEC_FULL.md §4.5): rendering Canonical Metadata into a single
// <movie>-rooted XML document. Grounded on the teacher's
// internal/nfo/generator.go, which renders the same document shape with
// text/template + an xmlEscape funcmap; kept over that file's parallel
// encoding/xml struct path because the field list and ordering here are
// closed and easiest to guarantee literally with a template.
package sidecar

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"
	"text/template"

	"mdc-go/internal/datatype"
)

const movieTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<movie>
{{- if .Title}}
  <title>{{.Title | xmlEscape}}</title>
  <originaltitle>{{.Title | xmlEscape}}</originaltitle>
{{- end}}
{{- if .DisplayID}}
  <sorttitle>{{.DisplayID | xmlEscape}}</sorttitle>
{{- end}}
{{- if .Rating}}
  <rating>{{.Rating}}</rating>
  <criticrating>{{.Rating}}</criticrating>
{{- end}}
{{- if .Votes}}
  <votes>{{.Votes}}</votes>
{{- end}}
{{- if .Outline}}
  <outline>{{.Outline | xmlEscape}}</outline>
  <plot>{{.Outline | xmlEscape}}</plot>
{{- end}}
{{- if .Runtime}}
  <runtime>{{.Runtime}}</runtime>
{{- end}}
{{- if .Release}}
  <releasedate>{{.Release}}</releasedate>
  <premiered>{{.Release}}</premiered>
{{- end}}
{{- if .Year}}
  <year>{{.Year}}</year>
{{- end}}
{{- if .Director}}
  <director>{{.Director | xmlEscape}}</director>
{{- end}}
{{- if .Studio}}
  <studio>{{.Studio | xmlEscape}}</studio>
  <maker>{{.Studio | xmlEscape}}</maker>
{{- end}}
{{- if .Label}}
  <label>{{.Label | xmlEscape}}</label>
{{- end}}
{{- if .Series}}
  <set>{{.Series | xmlEscape}}</set>
{{- end}}
{{- range .Tag}}
  <tag>{{. | xmlEscape}}</tag>
  <genre>{{. | xmlEscape}}</genre>
{{- end}}
{{- range .Actor}}
  <actor>
    <name>{{.Name | xmlEscape}}</name>
    {{- if .Thumb}}
    <thumb>{{.Thumb | xmlEscape}}</thumb>
    {{- end}}
  </actor>
{{- end}}
{{- if .Cover}}
  <thumb>{{.Cover | xmlEscape}}</thumb>
  <fanart>
    <thumb>{{.Cover | xmlEscape}}</thumb>
  </fanart>
{{- end}}
{{- if .Trailer}}
  <trailer>{{.Trailer | xmlEscape}}</trailer>
{{- end}}
{{- if .DisplayID}}
  <num>{{.DisplayID | xmlEscape}}</num>
  <id>{{.DisplayID | xmlEscape}}</id>
{{- end}}
{{- if .Website}}
  <website>{{.Website | xmlEscape}}</website>
{{- end}}
{{- if .Source}}
  <source>{{.Source | xmlEscape}}</source>
{{- end}}
</movie>
`

// actorView and movieView adapt datatype.MovieInfo into the shapes the
// template walks, since Go templates can't range a map keyed by another
// field (actor_photo) in lockstep with a slice (actor).
type actorView struct {
	Name  string
	Thumb string
}

type movieView struct {
	Title     string
	DisplayID string
	Rating    string
	Votes     int
	Outline   string
	Runtime   string
	Release   string
	Year      string
	Director  string
	Studio    string
	Label     string
	Series    string
	Tag       []string
	Actor     []actorView
	Cover     string
	Trailer   string
	Website   string
	Source    string
}

var tmpl = template.Must(template.New("movie").Funcs(template.FuncMap{
	"xmlEscape": html.EscapeString,
}).Parse(movieTemplate))

// Render produces the XML sidecar document for metadata, identified in
// the document by displayID (used for sorttitle/num/id).
func Render(metadata *datatype.MovieInfo, displayID string) (string, error) {
	view := movieView{
		Title:     metadata.Title,
		DisplayID: displayID,
		Votes:     metadata.UserVotes,
		Outline:   metadata.Outline,
		Runtime:   metadata.Runtime,
		Release:   metadata.Release,
		Year:      metadata.Year,
		Director:  metadata.Director,
		Studio:    metadata.Studio,
		Label:     metadata.Label,
		Series:    metadata.Series,
		Tag:       metadata.Tag,
		Cover:     metadata.Cover,
		Trailer:   metadata.Trailer,
		Website:   metadata.Website,
		Source:    metadata.Source,
	}

	if metadata.UserRating > 0 {
		view.Rating = strconv.FormatFloat(metadata.UserRating, 'f', 1, 64)
	}

	for _, name := range metadata.Actor {
		view.Actor = append(view.Actor, actorView{Name: name, Thumb: metadata.ActorPhoto[name]})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("sidecar: failed to render template: %w", err)
	}

	return normalizeBlankLines(buf.String()), nil
}

// normalizeBlankLines collapses the blank lines text/template's
// action-trimming leaves behind into a single tidy document.
func normalizeBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n") + "\n"
}
