package datatype

import "testing"

func TestMovieInfoValidate(t *testing.T) {
	cases := []struct {
		name    string
		info    *MovieInfo
		wantErr bool
	}{
		{"valid with cover", &MovieInfo{Number: "TEST-001", Title: "Test", Cover: "http://x/c.jpg"}, false},
		{"valid with cover_small only", &MovieInfo{Number: "TEST-001", Title: "Test", CoverSmall: "http://x/c.jpg"}, false},
		{"missing title", &MovieInfo{Number: "TEST-001", Cover: "http://x/c.jpg"}, true},
		{"missing number", &MovieInfo{Title: "Test", Cover: "http://x/c.jpg"}, true},
		{"missing cover", &MovieInfo{Number: "TEST-001", Title: "Test"}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.info.Validate()
			if (err != nil) != c.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestMovieInfoNormalizeYear(t *testing.T) {
	m := NewMovieInfo("TEST-001")
	m.Release = "2024-05-01"
	m.Normalize()
	if m.Year != "2024" {
		t.Errorf("Year = %q, want 2024", m.Year)
	}
}

func TestMovieInfoNormalizeRuntime(t *testing.T) {
	m := NewMovieInfo("TEST-001")
	m.Runtime = "120 min"
	m.Normalize()
	if m.Runtime != "120" {
		t.Errorf("Runtime = %q, want 120", m.Runtime)
	}
}

func TestMovieInfoNormalizeUncensored(t *testing.T) {
	m := NewMovieInfo("TEST-001")
	m.Title = "Some Title Uncensored"
	m.Normalize()
	if !m.Uncensored {
		t.Errorf("expected Uncensored=true from title marker")
	}

	m2 := NewMovieInfo("TEST-002")
	m2.Tag = []string{"無码"}
	m2.Normalize()
	if !m2.Uncensored {
		t.Errorf("expected Uncensored=true from tag marker")
	}
}

func TestMovieInfoCloneIndependence(t *testing.T) {
	m := NewMovieInfo("TEST-001")
	m.Actor = []string{"A"}
	clone := m.Clone()
	clone.Actor[0] = "B"
	if m.Actor[0] != "A" {
		t.Errorf("clone mutation leaked into original: %v", m.Actor)
	}
}

func TestMovieInfoJSONRoundTrip(t *testing.T) {
	m := NewMovieInfo("TEST-001")
	m.Title = "Test"
	m.Cover = "http://x/c.jpg"
	m.Actor = []string{"A", "B"}

	js, err := m.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	back, err := FromJSON(js)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if back.Number != m.Number || back.Title != m.Title || len(back.Actor) != 2 {
		t.Errorf("round trip mismatch: %+v", back)
	}
}
