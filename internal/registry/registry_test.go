package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mdc-go/internal/config"
	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	"mdc-go/internal/mdcerrors"
)

func testClient(t *testing.T) *httpgateway.Client {
	t.Helper()
	cfg := &config.NetworkConfig{Timeout: 2 * time.Second, Retries: 2, VerifySSL: true}
	c, err := httpgateway.New(cfg, 0)
	if err != nil {
		t.Fatalf("httpgateway.New returned error: %v", err)
	}
	return c
}

// stubAdapter is a minimal in-package Adapter used to exercise dispatch
// order without depending on any particular site's markup.
type stubAdapter struct {
	name     string
	format   IDFormat
	imagecut int
	result   *datatype.MovieInfo
	err      error
}

func (s *stubAdapter) Name() string               { return s.name }
func (s *stubAdapter) PreferredIDFormat() IDFormat { return s.format }
func (s *stubAdapter) ImagecutDefault() int        { return s.imagecut }
func (s *stubAdapter) URLFor(id string) string     { return "http://stub.invalid/" + id }
func (s *stubAdapter) Parse(doc *httpgateway.Parser, sourceURL string) (*datatype.MovieInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func validMovie(number string) *datatype.MovieInfo {
	return &datatype.MovieInfo{Number: number, Title: "Some Title", Cover: "http://example.com/cover.jpg"}
}

func TestSearchWithExplicitSourceListSkipsInvalidAdapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	r := New(testClient(t))
	r.Register(&stubAdapter{name: "first", result: &datatype.MovieInfo{}}) // fails Validate: empty title/number
	r.Register(&stubAdapter{name: "second", result: validMovie("ABC-123")})

	// specifiedURL routes every dispatched adapter's DefaultScrape GET at
	// the same test server, regardless of which adapter is being tried.
	info, err := r.Search(context.Background(), Identifier{DisplayID: "ABC-123"}, []string{"first", "second"}, srv.URL)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if info.Number != "ABC-123" {
		t.Errorf("Number = %q, want ABC-123", info.Number)
	}
	if info.Source != "second" {
		t.Errorf("Source = %q, want second (first adapter's result should fail Validate)", info.Source)
	}
}

func TestSearchReturnsAllSourcesExhaustedWhenEmpty(t *testing.T) {
	r := New(testClient(t))
	_, err := r.Search(context.Background(), Identifier{DisplayID: "ABC-123"}, nil, "")
	if !mdcerrors.Is(err, mdcerrors.AllSourcesExhausted) {
		t.Errorf("expected AllSourcesExhausted, got %v", err)
	}
}

func TestInferSourceMatchesFixedTable(t *testing.T) {
	r := New(testClient(t))
	cases := map[string]string{
		"https://www.themoviedb.org/movie/123": "tmdb",
		"https://www.imdb.com/title/tt123/":     "imdb",
		"https://javlibrary.com/ja/?v=abc":      "javlibrary",
		"https://www.javbus.com/ABC-123":        "javbus",
		"https://avmoo.com/ja/abc-123":          "avmoo",
		"https://fc2.com/article/123":           "fc2",
		"https://tokyo-hot.com/product/n1234/":  "tokyohot",
		"https://unrelated.example.com/":        "unknown",
	}
	for url, want := range cases {
		if got := r.InferSource(url); got != want {
			t.Errorf("InferSource(%q) = %q, want %q", url, got, want)
		}
	}
}

func TestInferSourcePrefersRegisteredAdapterName(t *testing.T) {
	r := New(testClient(t))
	r.Register(&stubAdapter{name: "javbus"})
	if got := r.InferSource("https://www.javbus.com/ABC-123"); got != "javbus" {
		t.Errorf("InferSource = %q, want javbus", got)
	}
}

func TestEffectiveSourcesOrderOfPrecedence(t *testing.T) {
	r := New(testClient(t))
	r.Register(&stubAdapter{name: "javbus"})
	r.Register(&stubAdapter{name: "avmoo"})

	// specified URL wins over caller list.
	got := r.effectiveSources("https://www.javbus.com/ABC-123", []string{"avmoo"})
	if len(got) != 1 || got[0] != "javbus" {
		t.Errorf("effectiveSources = %v, want [javbus]", got)
	}

	// caller list wins over registration order when no specified URL.
	got = r.effectiveSources("", []string{"avmoo"})
	if len(got) != 1 || got[0] != "avmoo" {
		t.Errorf("effectiveSources = %v, want [avmoo]", got)
	}

	// falls back to registration order.
	got = r.effectiveSources("", nil)
	if len(got) != 2 || got[0] != "javbus" || got[1] != "avmoo" {
		t.Errorf("effectiveSources = %v, want [javbus avmoo]", got)
	}
}

func TestDefaultScrapeStampsSourceWebsiteAndImagecut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><h3>Some Title</h3></body></html>"))
	}))
	defer srv.Close()

	adapter := &stubAdapter{name: "stub", imagecut: 3, result: validMovie("ABC-123")}
	info, err := DefaultScrape(context.Background(), testClient(t), adapter, Identifier{DisplayID: "ABC-123"}, srv.URL)
	if err != nil {
		t.Fatalf("DefaultScrape returned error: %v", err)
	}
	if info.Source != "stub" {
		t.Errorf("Source = %q, want stub", info.Source)
	}
	if info.Website != srv.URL {
		t.Errorf("Website = %q, want %q", info.Website, srv.URL)
	}
	if info.Imagecut != 3 {
		t.Errorf("Imagecut = %d, want 3", info.Imagecut)
	}
}

func TestDefaultScrapeUsesPreferredIDFormatWhenNoSpecifiedURL(t *testing.T) {
	adapter := &stubAdapter{name: "stub", format: PreferContent, result: validMovie("ABC-123")}
	id := Identifier{DisplayID: "display-only", ContentID: ""}

	_, err := DefaultScrape(context.Background(), testClient(t), adapter, id, "")
	if !mdcerrors.Is(err, mdcerrors.InvalidIdentifier) {
		t.Errorf("expected InvalidIdentifier when preferred-format ID is empty, got %v", err)
	}
}
