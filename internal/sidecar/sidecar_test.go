package sidecar

import (
	"strings"
	"testing"

	"mdc-go/internal/datatype"
)

func sampleMovie() *datatype.MovieInfo {
	m := datatype.NewMovieInfo("TEST-123")
	m.Title = "Test Movie TEST-123"
	m.Studio = "Test Studio"
	m.Label = "Test Label"
	m.Series = "Test Series"
	m.Release = "2024-01-15"
	m.Year = "2024"
	m.Runtime = "120"
	m.Director = "Test Director"
	m.Outline = "A test & <summary>"
	m.Actor = []string{"Actor One", "Actor Two"}
	m.ActorPhoto = map[string]string{"Actor One": "https://example.com/a1.jpg"}
	m.Cover = "https://example.com/cover.jpg"
	m.Trailer = "https://example.com/trailer.mp4"
	m.Tag = []string{"Drama", "Romance"}
	m.UserRating = 7.456
	m.UserVotes = 42
	m.Website = "https://example.com/TEST-123"
	m.Source = "javbus"
	return m
}

func TestRenderIncludesCoreFields(t *testing.T) {
	xml, err := Render(sampleMovie(), "TEST-123")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	mustContain := []string{
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`,
		"<title>Test Movie TEST-123</title>",
		"<originaltitle>Test Movie TEST-123</originaltitle>",
		"<sorttitle>TEST-123</sorttitle>",
		"<rating>7.5</rating>",
		"<criticrating>7.5</criticrating>",
		"<votes>42</votes>",
		"<runtime>120</runtime>",
		"<releasedate>2024-01-15</releasedate>",
		"<premiered>2024-01-15</premiered>",
		"<year>2024</year>",
		"<director>Test Director</director>",
		"<studio>Test Studio</studio>",
		"<maker>Test Studio</maker>",
		"<label>Test Label</label>",
		"<set>Test Series</set>",
		"<tag>Drama</tag>",
		"<genre>Drama</genre>",
		"<name>Actor One</name>",
		"<thumb>https://example.com/a1.jpg</thumb>",
		"<name>Actor Two</name>",
		"<trailer>https://example.com/trailer.mp4</trailer>",
		"<num>TEST-123</num>",
		"<id>TEST-123</id>",
		"<website>https://example.com/TEST-123</website>",
		"<source>javbus</source>",
	}
	for _, want := range mustContain {
		if !strings.Contains(xml, want) {
			t.Errorf("rendered XML missing %q\n---\n%s", want, xml)
		}
	}
}

func TestRenderXMLEscapesSpecialCharacters(t *testing.T) {
	xml, err := Render(sampleMovie(), "TEST-123")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(xml, "<summary>") {
		t.Errorf("outline should be XML-escaped, got unescaped tag in: %s", xml)
	}
	if !strings.Contains(xml, "A test &amp; &lt;summary&gt;") {
		t.Errorf("expected escaped outline text, got: %s", xml)
	}
}

func TestRenderOmitsEmptyFields(t *testing.T) {
	m := datatype.NewMovieInfo("TEST-001")
	m.Title = "Minimal"
	m.Cover = "https://example.com/c.jpg"

	xml, err := Render(m, "TEST-001")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	for _, absent := range []string{"<director>", "<label>", "<set>", "<tag>", "<trailer>", "<votes>", "<rating>"} {
		if strings.Contains(xml, absent) {
			t.Errorf("expected %q to be omitted, got: %s", absent, xml)
		}
	}
}

func TestRenderEndsWithTrailingNewline(t *testing.T) {
	xml, err := Render(sampleMovie(), "TEST-123")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.HasSuffix(xml, "\n") {
		t.Errorf("expected trailing newline, got suffix %q", xml[len(xml)-10:])
	}
	if strings.HasSuffix(xml, "\n\n") {
		t.Errorf("expected exactly one trailing newline, got extra blank line")
	}
}
