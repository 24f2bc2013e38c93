// Package registry implements the Scraper Registry and Adapter collaborator
// surface (SPEC_FULL.md §4.4): ranked, first-valid-wins dispatch across a
// pluggable set of site adapters, each responsible for one upstream source.
// Grounded on the teacher's internal/crawler (interface.go's Crawler
// interface, engine.go's ranked retry loop), generalized from
// merge-across-sources to first-valid-wins per the spec's explicit
// departure from the teacher's own MergeStrategy.
package registry

import (
	"context"
	"strings"

	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	"mdc-go/internal/mdcerrors"
	"mdc-go/internal/merger"
)

// IDFormat is the identifier shape an adapter wants to be queried with.
type IDFormat int

const (
	PreferDisplay IDFormat = iota
	PreferContent
)

// Identifier is the parsed identifier handed to adapters, carrying both
// shapes so the registry can pick whichever an adapter declares it wants.
type Identifier struct {
	DisplayID string
	ContentID string
}

// Adapter is implemented once per upstream metadata source.
type Adapter interface {
	Name() string
	PreferredIDFormat() IDFormat
	ImagecutDefault() int
	URLFor(id string) string
	Parse(doc *httpgateway.Parser, sourceURL string) (*datatype.MovieInfo, error)
}

// ScrapeOverrider is an optional Adapter extension for sources needing
// multi-step navigation (search-then-detail, POST search, JSON response)
// instead of the registry's default GET-then-Parse orchestration.
type ScrapeOverrider interface {
	Scrape(ctx context.Context, client *httpgateway.Client, id Identifier, specifiedURL string) (*datatype.MovieInfo, error)
}

// urlSourceTable infers a source name from a specified URL, checked by
// substring match, per the documented fixed table.
var urlSourceTable = []struct {
	substr string
	source string
}{
	{"themoviedb.org", "tmdb"},
	{"imdb.com", "imdb"},
	{"javlibrary.com", "javlibrary"},
	{"javbus.com", "javbus"},
	{"javsee.com", "javbus"},
	{"avmoo.com", "avmoo"},
	{"avso.pw", "avmoo"},
	{"fc2.com", "fc2"},
	{"fc2club", "fc2"},
	{"tokyo-hot.com", "tokyohot"},
}

// Registry holds the registered adapters and dispatches searches across
// them in ranked order.
type Registry struct {
	adapters map[string]Adapter
	order    []string
	client   *httpgateway.Client
}

// New builds an empty Registry bound to an HTTP Gateway client.
func New(client *httpgateway.Client) *Registry {
	return &Registry{adapters: make(map[string]Adapter), client: client}
}

// Register adds an adapter under its own Name(), appending it to the
// default dispatch order.
func (r *Registry) Register(a Adapter) {
	name := a.Name()
	if _, exists := r.adapters[name]; !exists {
		r.order = append(r.order, name)
	}
	r.adapters[name] = a
}

// InferSource returns the registered source name a specified URL maps to,
// first by substring match against registered adapter names, then against
// the fixed URL table, falling back to "unknown".
func (r *Registry) InferSource(specifiedURL string) string {
	lower := strings.ToLower(specifiedURL)
	for name := range r.adapters {
		if strings.Contains(lower, name) {
			return name
		}
	}
	for _, entry := range urlSourceTable {
		if strings.Contains(lower, entry.substr) {
			return entry.source
		}
	}
	return "unknown"
}

// effectiveSources resolves the dispatch order: specified-URL inference
// first, then the caller-provided list, then the registry's own defaults.
func (r *Registry) effectiveSources(specifiedURL string, callerList []string) []string {
	if specifiedURL != "" {
		if src := r.InferSource(specifiedURL); src != "unknown" {
			return []string{src}
		}
	}
	if len(callerList) > 0 {
		return callerList
	}
	return r.order
}

// Search resolves the effective source list and queries each adapter in
// order, returning the first result that passes Canonical Metadata
// validity. Sources without a registered adapter are skipped. specifiedURL,
// when non-empty, is passed verbatim to every adapter tried (to its Scrape
// override, or to DefaultScrape); it also drives source inference.
func (r *Registry) Search(ctx context.Context, id Identifier, sourceList []string, specifiedURL string) (*datatype.MovieInfo, error) {
	sources := r.effectiveSources(specifiedURL, sourceList)
	if len(sources) == 0 {
		return nil, mdcerrors.New(mdcerrors.AllSourcesExhausted, "registry: no sources configured")
	}

	for _, name := range sources {
		adapter, ok := r.adapters[name]
		if !ok {
			continue
		}

		info, err := r.scrapeOne(ctx, adapter, id, specifiedURL)
		if err != nil {
			continue
		}
		if verr := info.Validate(); verr != nil {
			continue
		}
		return info, nil
	}

	return nil, mdcerrors.New(mdcerrors.AllSourcesExhausted, "registry: no source produced valid metadata")
}

func (r *Registry) scrapeOne(ctx context.Context, adapter Adapter, id Identifier, specifiedURL string) (*datatype.MovieInfo, error) {
	if overrider, ok := adapter.(ScrapeOverrider); ok {
		return overrider.Scrape(ctx, r.client, id, specifiedURL)
	}
	return DefaultScrape(ctx, r.client, adapter, id, specifiedURL)
}

// DefaultScrape implements the documented default orchestration: use the
// specified URL verbatim when present, else build one from the adapter's
// preferred ID format; GET via the gateway; parse; stamp source/website/
// imagecut; normalize the result.
func DefaultScrape(ctx context.Context, client *httpgateway.Client, adapter Adapter, id Identifier, specifiedURL string) (*datatype.MovieInfo, error) {
	targetURL := specifiedURL
	if targetURL == "" {
		queryID := id.DisplayID
		if adapter.PreferredIDFormat() == PreferContent {
			queryID = id.ContentID
		}
		if queryID == "" {
			return nil, mdcerrors.New(mdcerrors.InvalidIdentifier, "registry: no identifier available for adapter's preferred format")
		}
		targetURL = adapter.URLFor(queryID)
	}

	body, err := client.Get(ctx, targetURL)
	if err != nil {
		return nil, err
	}

	parser, err := httpgateway.NewParserFromString(body)
	if err != nil {
		return nil, mdcerrors.Wrap(mdcerrors.ParseFailure, err, "registry: failed to parse response")
	}

	info, err := adapter.Parse(parser, targetURL)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, mdcerrors.New(mdcerrors.ParseFailure, "registry: adapter returned no metadata")
	}

	info.Source = adapter.Name()
	info.Website = targetURL
	info.Imagecut = adapter.ImagecutDefault()
	merger.NormalizeMetadata(info)

	return info, nil
}
