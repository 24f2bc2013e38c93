package placer

import (
	"os"
	"path/filepath"
	"testing"

	"mdc-go/internal/avid"
	"mdc-go/internal/config"
	"mdc-go/internal/datatype"
)

func baseCfg(root string) *config.ProcessorConfig {
	return &config.ProcessorConfig{
		DestinationRoot: root,
		LocationRule:    "{number}",
		NamingRule:      "{number}",
		MaxTitleLength:  200,
		SkipExisting:    true,
		LinkMode:        config.LinkMove,
	}
}

func touch(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestDestinationFolderUsesLocationRule(t *testing.T) {
	cfg := baseCfg("/dest")
	cfg.LocationRule = "{studio}/{number}"
	p := New(cfg)

	id := avid.ParsedIdentifier{DisplayID: "ABC-123"}
	m := &datatype.MovieInfo{Studio: "Some Studio"}

	got := p.DestinationFolder(id, m)
	want := filepath.Join("/dest", "Some Studio", "ABC-123")
	if got != want {
		t.Errorf("DestinationFolder = %q, want %q", got, want)
	}
}

func TestDestinationFolderFallsBackToNumberWhenEmpty(t *testing.T) {
	cfg := baseCfg("/dest")
	cfg.LocationRule = "{studio}"
	p := New(cfg)

	id := avid.ParsedIdentifier{DisplayID: "ABC-123"}
	m := &datatype.MovieInfo{}

	got := p.DestinationFolder(id, m)
	want := filepath.Join("/dest", "ABC-123")
	if got != want {
		t.Errorf("DestinationFolder = %q, want %q", got, want)
	}
}

func TestDestinationBaseNameAppliesSuffixes(t *testing.T) {
	cfg := baseCfg("/dest")
	p := New(cfg)

	cases := []struct {
		name string
		id   avid.ParsedIdentifier
		m    *datatype.MovieInfo
		want string
	}{
		{"plain", avid.ParsedIdentifier{DisplayID: "ABC-123"}, &datatype.MovieInfo{}, "ABC-123"},
		{"uncensored", avid.ParsedIdentifier{DisplayID: "ABC-123"}, &datatype.MovieInfo{Uncensored: true}, "ABC-123-U"},
		{"cnsub", avid.ParsedIdentifier{DisplayID: "ABC-123", CnSub: true}, &datatype.MovieInfo{}, "ABC-123-C"},
		{"uncensored+cnsub", avid.ParsedIdentifier{DisplayID: "ABC-123", CnSub: true}, &datatype.MovieInfo{Uncensored: true}, "ABC-123-UC"},
		{"disc", avid.ParsedIdentifier{DisplayID: "ABC-123", PartNumber: 2}, &datatype.MovieInfo{}, "ABC-123-CD2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.DestinationBaseName(tc.id, tc.m)
			if got != tc.want {
				t.Errorf("DestinationBaseName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSanitizeReplacesUnsafeCharacters(t *testing.T) {
	got := sanitize(`a<b>c:d"e/f\g|h?i*j. `)
	want := "a_b_c_d_e_f_g_h_i_j"
	if got != want {
		t.Errorf("sanitize = %q, want %q", got, want)
	}
}

func TestPlaceMovesFile(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := filepath.Join(srcDir, "video.mp4")
	touch(t, src, "data")

	cfg := baseCfg(destDir)
	p := New(cfg)
	dest := filepath.Join(destDir, "ABC-123", "ABC-123.mp4")

	if err := p.Place(src, dest); err != nil {
		t.Fatalf("Place returned error: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("destination missing: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source should no longer exist after Move")
	}
}

func TestPlaceSkipsExistingDestination(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := filepath.Join(srcDir, "video.mp4")
	touch(t, src, "new")
	dest := filepath.Join(destDir, "video.mp4")
	touch(t, dest, "existing")

	cfg := baseCfg(destDir)
	cfg.SkipExisting = true
	p := New(cfg)

	if err := p.Place(src, dest); err != nil {
		t.Fatalf("Place returned error: %v", err)
	}
	data, _ := os.ReadFile(dest)
	if string(data) != "existing" {
		t.Errorf("destination should be untouched, got %q", data)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source should still exist when skipped")
	}
}

func TestPlaceSoftLinkCreatesSymlink(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := filepath.Join(srcDir, "video.mp4")
	touch(t, src, "data")

	cfg := baseCfg(destDir)
	cfg.LinkMode = config.LinkSoftLink
	p := New(cfg)
	dest := filepath.Join(destDir, "video.mp4")

	if err := p.Place(src, dest); err != nil {
		t.Fatalf("Place returned error: %v", err)
	}
	info, err := os.Lstat(dest)
	if err != nil {
		t.Fatalf("Lstat failed: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Errorf("expected destination to be a symlink")
	}
}

func TestPlaceSubtitlesCoPlacesMatchingFiles(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	video := filepath.Join(srcDir, "ABC-123.mp4")
	srt := filepath.Join(srcDir, "ABC-123.srt")
	unrelated := filepath.Join(srcDir, "other.srt")
	touch(t, video, "v")
	touch(t, srt, "s")
	touch(t, unrelated, "o")

	cfg := baseCfg(destDir)
	p := New(cfg)
	destBase := filepath.Join(destDir, "ABC-123")

	if err := p.PlaceSubtitles(video, destBase); err != nil {
		t.Fatalf("PlaceSubtitles returned error: %v", err)
	}
	if _, err := os.Stat(destBase + ".srt"); err != nil {
		t.Errorf("expected co-placed subtitle at %s.srt: %v", destBase, err)
	}
	if _, err := os.Stat(filepath.Join(destDir, "other.srt")); !os.IsNotExist(err) {
		t.Errorf("unrelated subtitle should not be co-placed")
	}
}
