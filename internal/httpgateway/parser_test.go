package httpgateway

import "testing"

const sampleHTML = `
<html>
<body>
  <h1 class="title">SSIS-001 Sample Title</h1>
  <div class="cover"><img src="/images/cover.jpg"></div>
  <ul class="actress">
    <li><a href="/actress/1">Actress One</a></li>
    <li><a href="/actress/2">Actress Two</a></li>
  </ul>
</body>
</html>
`

func TestParserText(t *testing.T) {
	p, err := NewParserFromString(sampleHTML)
	if err != nil {
		t.Fatalf("NewParserFromString returned error: %v", err)
	}
	if got := p.Text(".title"); got != "SSIS-001 Sample Title" {
		t.Errorf("Text(.title) = %q", got)
	}
}

func TestParserTexts(t *testing.T) {
	p, err := NewParserFromString(sampleHTML)
	if err != nil {
		t.Fatalf("NewParserFromString returned error: %v", err)
	}
	got := p.Texts(".actress a")
	if len(got) != 2 || got[0] != "Actress One" || got[1] != "Actress Two" {
		t.Errorf("Texts(.actress a) = %v", got)
	}
}

func TestParserAttr(t *testing.T) {
	p, err := NewParserFromString(sampleHTML)
	if err != nil {
		t.Fatalf("NewParserFromString returned error: %v", err)
	}
	if got := p.Attr(".cover img", "src"); got != "/images/cover.jpg" {
		t.Errorf("Attr(.cover img, src) = %q", got)
	}
}

func TestParserHasElement(t *testing.T) {
	p, err := NewParserFromString(sampleHTML)
	if err != nil {
		t.Fatalf("NewParserFromString returned error: %v", err)
	}
	if !p.HasElement(".title") {
		t.Error("expected .title to exist")
	}
	if p.HasElement(".nonexistent") {
		t.Error("expected .nonexistent to not exist")
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		base, rel, want string
	}{
		{"https://example.com", "/path/to/page", "https://example.com/path/to/page"},
		{"https://example.com/", "/path", "https://example.com/path"},
		{"https://example.com", "//cdn.example.com/img.jpg", "https://cdn.example.com/img.jpg"},
		{"https://example.com", "https://other.com/x", "https://other.com/x"},
		{"https://example.com", "relative/path", "https://example.com/relative/path"},
	}
	for _, c := range cases {
		if got := NormalizeURL(c.base, c.rel); got != c.want {
			t.Errorf("NormalizeURL(%q, %q) = %q, want %q", c.base, c.rel, got, c.want)
		}
	}
}
