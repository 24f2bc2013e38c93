package config

import "testing"

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := validate(cfg); err != nil {
		t.Fatalf("Default() failed validation: %v", err)
	}
}

func TestDefaultExtensionsIncludeCommonFormats(t *testing.T) {
	cfg := Default()
	want := map[string]bool{".mp4": false, ".mkv": false, ".avi": false}
	for _, ext := range cfg.Scanner.Extensions {
		if _, ok := want[ext]; ok {
			want[ext] = true
		}
	}
	for ext, found := range want {
		if !found {
			t.Errorf("expected default extensions to include %s", ext)
		}
	}
}

func TestMainModeString(t *testing.T) {
	cases := map[MainMode]string{
		ModeScraping:   "Scraping",
		ModeOrganizing: "Organizing",
		ModeAnalysis:   "Analysis",
		MainMode(99):   "Unknown",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("MainMode(%d).String() = %q, want %q", mode, got, want)
		}
	}
}

func TestLinkModeString(t *testing.T) {
	cases := map[LinkMode]string{
		LinkMove:     "Move",
		LinkSoftLink: "SoftLink",
		LinkHardLink: "HardLink",
		LinkMode(99): "Unknown",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("LinkMode(%d).String() = %q, want %q", mode, got, want)
		}
	}
}

func TestValidateRejectsBadConcurrency(t *testing.T) {
	cfg := Default()
	cfg.Other.MaxConcurrent = 0
	if err := validate(cfg); err == nil {
		t.Error("expected validation error for non-positive max_concurrent")
	}
}

func TestValidateRejectsNegativeRetries(t *testing.T) {
	cfg := Default()
	cfg.Network.Retries = -1
	if err := validate(cfg); err == nil {
		t.Error("expected validation error for negative retries")
	}
}

func TestApplyFlagsOverridesMode(t *testing.T) {
	cfg := Default()
	flags := &CLIFlags{Mode: "organizing", LinkModeName: "hardlink"}
	if err := ApplyFlags(cfg, flags); err != nil {
		t.Fatalf("ApplyFlags returned error: %v", err)
	}
	if cfg.Scanner.MainMode != ModeOrganizing {
		t.Errorf("MainMode = %v, want Organizing", cfg.Scanner.MainMode)
	}
	if cfg.Processor.LinkMode != LinkHardLink {
		t.Errorf("LinkMode = %v, want HardLink", cfg.Processor.LinkMode)
	}
}

func TestApplyFlagsRejectsUnknownMode(t *testing.T) {
	cfg := Default()
	flags := &CLIFlags{Mode: "bogus"}
	if err := ApplyFlags(cfg, flags); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestGetReturnsDefaultWhenUnloaded(t *testing.T) {
	Reset()
	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Other.MaxConcurrent != Default().Other.MaxConcurrent {
		t.Errorf("Get() without Load() should match Default()")
	}
}
