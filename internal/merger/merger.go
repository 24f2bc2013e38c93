// Package merger implements the post-parse normalization helper named in
// SPEC_FULL.md's component table. Grounded on the teacher's
// internal/merger/merger.go, which reconciled conflicting fields across
// several scraped sources by quality ranking; that reconciliation is
// superseded by the registry's first-valid-wins dispatch (SPEC_FULL §4.4),
// so this package keeps the teacher's per-field cleanup passes
// (deduplication, trimming, count limits) and narrows them to operate on
// the single metadata record the registry hands it, then delegates the
// canonical-metadata derivation rules (year, runtime, uncensored) to
// datatype.MovieInfo.Normalize.
package merger

import (
	"strings"

	"mdc-go/internal/datatype"
)

// MaxActorCount and MaxTagCount bound the ordered lists a single adapter
// can populate, mirroring the teacher's MaxActressCount/MaxGenreCount caps.
const (
	MaxActorCount = 20
	MaxTagCount   = 30
)

// NormalizeMetadata trims whitespace from the free-text fields, deduplicates
// and caps the Actor/Tag/ExtraFanart lists while preserving first-seen
// order, then applies datatype.MovieInfo.Normalize's derivation rules.
// Adapters and the registry call this once, after Parse, before Validate.
func NormalizeMetadata(m *datatype.MovieInfo) {
	if m == nil {
		return
	}

	m.Title = strings.TrimSpace(m.Title)
	m.Studio = strings.TrimSpace(m.Studio)
	m.Director = strings.TrimSpace(m.Director)
	m.Series = strings.TrimSpace(m.Series)
	m.Label = strings.TrimSpace(m.Label)
	m.Outline = strings.TrimSpace(m.Outline)

	m.Actor = dedupeCapped(m.Actor, MaxActorCount)
	m.Tag = dedupeCapped(m.Tag, MaxTagCount)
	m.ExtraFanart = dedupeCapped(m.ExtraFanart, 0)

	if m.UserRating < 0 {
		m.UserRating = 0
	}
	if m.UserRating > 10 {
		m.UserRating = 10
	}

	m.Normalize()
}

// dedupeCapped removes blank and repeated entries (case-sensitive,
// first-seen wins) and truncates to max when max > 0.
func dedupeCapped(values []string, max int) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}

	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
