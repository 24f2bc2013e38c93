// Package inifile implements the documented INI configuration-file
// collaborator (SPEC_FULL.md §6): the legacy-style config.ini surface,
// loaded with gopkg.in/ini.v1 and resolved through a fixed search order
// before falling back to internal/config's YAML-driven defaults.
package inifile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"mdc-go/internal/config"
)

// CommonSection mirrors the [common] section fields.
type CommonSection struct {
	MainMode           string
	SourceFolder       string
	FailedOutputFolder string
	SuccessOutputFolder string
	LinkMode           string
	ScanHardlink       bool
	FailedMove         bool
	AutoExit           bool
	NfoSkipDays        int
}

// File is the parsed representation of a config.ini document.
type File struct {
	Common    CommonSection
	DebugMode bool
	Priority  []string
	MediaType string
	SubType   []string
	// Cookies maps a domain to its name=value pairs, keyed as in the file.
	Cookies map[string]map[string]string
}

// SearchPaths returns the documented resolution order: an explicit path (if
// non-empty) takes precedence, then ./config.ini, then four $HOME-rooted
// fallbacks, most to least conventional.
func SearchPaths(explicit string) []string {
	paths := []string{}
	if explicit != "" {
		paths = append(paths, explicit)
	}
	paths = append(paths, "config.ini")

	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths,
			filepath.Join(home, "mdc.ini"),
			filepath.Join(home, ".mdc.ini"),
			filepath.Join(home, ".mdc", "config.ini"),
			filepath.Join(home, ".config", "mdc", "config.ini"),
		)
	}
	return paths
}

// Resolve walks SearchPaths(explicit) and returns the first path that
// exists, or "" if none do.
func Resolve(explicit string) string {
	for _, p := range SearchPaths(explicit) {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load parses the INI file at path into a File.
func Load(path string) (*File, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("inifile: failed to load %s: %w", path, err)
	}
	return fromINI(cfg), nil
}

func fromINI(cfg *ini.File) *File {
	f := &File{Cookies: map[string]map[string]string{}}

	common := cfg.Section("common")
	f.Common = CommonSection{
		MainMode:            common.Key("main_mode").String(),
		SourceFolder:        common.Key("source_folder").String(),
		FailedOutputFolder:  common.Key("failed_output_folder").String(),
		SuccessOutputFolder: common.Key("success_output_folder").String(),
		LinkMode:            common.Key("link_mode").String(),
		ScanHardlink:        common.Key("scan_hardlink").MustBool(false),
		FailedMove:          common.Key("failed_move").MustBool(false),
		AutoExit:            common.Key("auto_exit").MustBool(false),
		NfoSkipDays:         common.Key("nfo_skip_days").MustInt(0),
	}

	f.DebugMode = cfg.Section("debug_mode").Key("switch").MustBool(false)

	if raw := cfg.Section("priority").Key("website").String(); raw != "" {
		f.Priority = splitTrim(raw)
	}

	media := cfg.Section("media")
	f.MediaType = media.Key("media_type").String()
	if raw := media.Key("sub_type").String(); raw != "" {
		f.SubType = splitTrim(raw)
	}

	for _, sec := range cfg.Section("cookies").Keys() {
		pairs := map[string]string{}
		for _, kv := range splitTrim(sec.String()) {
			name, value, ok := strings.Cut(kv, "=")
			if !ok {
				continue
			}
			pairs[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
		f.Cookies[sec.Name()] = pairs
	}

	return f
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ApplyTo overlays the INI file's values onto an already-loaded Config,
// following the documented precedence: the INI collaborator surface takes
// effect only for fields it actually sets (non-empty/non-zero).
func (f *File) ApplyTo(cfg *config.Config) error {
	if f.Common.SourceFolder != "" {
		cfg.Scanner.SourceRoot = f.Common.SourceFolder
	}
	if f.Common.FailedOutputFolder != "" {
		cfg.Scanner.FailedList = f.Common.FailedOutputFolder
	}
	if f.Common.SuccessOutputFolder != "" {
		cfg.Scanner.SuccessFolder = f.Common.SuccessOutputFolder
	}
	if f.Common.ScanHardlink {
		cfg.Scanner.ScanHardlink = true
	}
	if f.Common.NfoSkipDays != 0 {
		cfg.Scanner.NfoSkipDays = f.Common.NfoSkipDays
	}
	cfg.Scanner.Debug = cfg.Scanner.Debug || f.DebugMode

	if f.Common.MainMode != "" {
		mode, err := parseMode(f.Common.MainMode)
		if err != nil {
			return err
		}
		cfg.Scanner.MainMode = mode
		cfg.Processor.MainMode = mode
	}
	if f.Common.LinkMode != "" {
		mode, err := parseLinkMode(f.Common.LinkMode)
		if err != nil {
			return err
		}
		cfg.Scanner.LinkMode = mode
		cfg.Processor.LinkMode = mode
	}
	if len(f.Priority) > 0 {
		cfg.Network.PreferredSources = f.Priority
	}
	if len(f.SubType) > 0 {
		cfg.Scanner.Extensions = f.SubType
	}
	return nil
}

func parseMode(s string) (config.MainMode, error) {
	switch strings.ToLower(s) {
	case "scraping", "scrape", "0":
		return config.ModeScraping, nil
	case "organizing", "organize", "1":
		return config.ModeOrganizing, nil
	case "analysis", "2":
		return config.ModeAnalysis, nil
	default:
		return 0, fmt.Errorf("inifile: unknown main_mode %q", s)
	}
}

func parseLinkMode(s string) (config.LinkMode, error) {
	switch strings.ToLower(s) {
	case "move", "0":
		return config.LinkMove, nil
	case "softlink", "symlink", "1":
		return config.LinkSoftLink, nil
	case "hardlink", "2":
		return config.LinkHardLink, nil
	default:
		return 0, fmt.Errorf("inifile: unknown link_mode %q", s)
	}
}

// mustAtoi is kept for call sites that need a zero-on-error int parse of a
// raw INI value not already covered by ini.Key helpers.
func mustAtoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
