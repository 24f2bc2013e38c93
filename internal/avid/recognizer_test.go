package avid

import "testing"

func TestRecognizeStandardShapes(t *testing.T) {
	r := NewRecognizer()

	cases := []struct {
		name     string
		filename string
		display  string
		content  string
	}{
		{"plain", "ABC-123.mp4", "ABC-123", "abc00123"},
		{"underscore separator", "SSIS_001.mp4", "SSIS-001", "ssis00001"},
		{"no separator", "STARS123.mp4", "STARS-123", "stars00123"},
		{"bracket tag stripped", "[JavBus] STARS-123.mp4", "STARS-123", "stars00123"},
		{"quality marker stripped", "ABC-123-1080P.mkv", "ABC-123", "abc00123"},
		{"cjk suffix stripped", "STARS-123 女優名 タイトル.mp4", "STARS-123", "stars00123"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := r.Recognize(c.filename)
			if err != nil {
				t.Fatalf("Recognize(%q) error: %v", c.filename, err)
			}
			if got.DisplayID != c.display {
				t.Errorf("DisplayID = %q, want %q", got.DisplayID, c.display)
			}
			if got.ContentID != c.content {
				t.Errorf("ContentID = %q, want %q", got.ContentID, c.content)
			}
		})
	}
}

func TestRecognizeAttributeSuffixes(t *testing.T) {
	r := NewRecognizer()

	cSub, err := r.Recognize("TEST-001-C.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cSub.CnSub || cSub.Uncensored {
		t.Errorf("expected CnSub only, got %+v", cSub)
	}

	uc, err := r.Recognize("TEST-001-UC.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !uc.CnSub || !uc.Uncensored {
		t.Errorf("expected both CnSub and Uncensored, got %+v", uc)
	}
}

func TestRecognizeDiscPartNumber(t *testing.T) {
	r := NewRecognizer()

	id, err := r.Recognize("MOVIE-001-A.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.PartNumber != 1 {
		t.Errorf("PartNumber = %d, want 1", id.PartNumber)
	}

	// C, U and Z are reserved and must never be read as part letters.
	cSuffix, err := r.Recognize("MOVIE-001-C.mp4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cSuffix.PartNumber != 0 {
		t.Errorf("expected no part number for reserved letter C, got %d", cSuffix.PartNumber)
	}
}

func TestRecognizeSpecialSites(t *testing.T) {
	r := NewRecognizer()

	cases := []struct {
		filename string
		site     string
	}{
		{"carib-101515-001.mp4", "carib"},
		{"caribpr-101515-001.mp4", "caribpr"},
		{"1pondo-092318_001.mp4", "1pondo"},
		{"heyzo-1234.mp4", "heyzo"},
		{"heyzo1234.mp4", "heyzo"},
	}

	for _, c := range cases {
		t.Run(c.filename, func(t *testing.T) {
			got, err := r.Recognize(c.filename)
			if err != nil {
				t.Fatalf("Recognize(%q) error: %v", c.filename, err)
			}
			if got.SpecialSite != c.site {
				t.Errorf("SpecialSite = %q, want %q", got.SpecialSite, c.site)
			}
		})
	}
}

func TestRecognizeInvalid(t *testing.T) {
	r := NewRecognizer()

	invalid := []string{
		"",
		"纯中文文件名.mp4",
		"random_video_file.mp4",
		"1234.mp4",
	}

	for _, f := range invalid {
		t.Run(f, func(t *testing.T) {
			if _, err := r.Recognize(f); err == nil {
				t.Errorf("expected error for %q, got none", f)
			}
		})
	}
}

func TestToDisplayIsInverseOfGetCID(t *testing.T) {
	ids := []string{"ABC-123", "STAR-999", "SSIS-001", "IPX-177"}
	for _, id := range ids {
		content := GetCID(id)
		back := ToDisplay(content)
		if back != id {
			t.Errorf("ToDisplay(GetCID(%q)) = %q, want %q", id, back, id)
		}
	}
}

func TestGetCIDPadsToFiveDigits(t *testing.T) {
	cases := map[string]string{
		"ABC-123":  "abc00123",
		"STAR-999": "star00999",
		"SSIS-001": "ssis00001",
	}
	for id, want := range cases {
		if got := GetCID(id); got != want {
			t.Errorf("GetCID(%q) = %q, want %q", id, got, want)
		}
	}
}
