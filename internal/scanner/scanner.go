// Package scanner implements the Scanner collaborator (SPEC_FULL.md §4.2):
// a depth-first, non-symlink-following walk of a source root that applies
// the documented skip-rule chain and reports per-reason statistics.
// Grounded on the teacher's internal/scanner/scanner.go, generalized to the
// new rule order and wired onto internal/avid and internal/mdcerrors.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"mdc-go/internal/avid"
	"mdc-go/internal/config"
	"mdc-go/internal/mdcerrors"
)

// Stats reports, per the documented contract, how many candidate files were
// accepted versus skipped for each named reason.
type Stats struct {
	Total          int
	Accepted       int
	SkipFailed     int
	SkipNfoDays    int
	SkipSuccessNfo int
}

// Scanner walks a source root and yields accepted video file paths.
type Scanner struct {
	cfg        *config.ScannerConfig
	recognizer *avid.Recognizer
	extSet     map[string]bool
	escapeSet  map[string]bool
	filterRe   *regexp.Regexp
}

// New builds a Scanner from a ScannerConfig.
func New(cfg *config.ScannerConfig) (*Scanner, error) {
	s := &Scanner{
		cfg:        cfg,
		recognizer: avid.NewRecognizer(),
		extSet:     extensionSet(cfg.Extensions),
		escapeSet:  buildEscapeSet(cfg.EscapeFolders),
	}
	if cfg.FilterRegex != "" {
		re, err := regexp.Compile(cfg.FilterRegex)
		if err != nil {
			return nil, mdcerrors.Wrap(mdcerrors.InvalidIdentifier, err, "invalid filter regex")
		}
		s.filterRe = re
	}
	return s, nil
}

// Scan walks cfg.SourceRoot depth-first, without following symlinks to
// directories, and returns the accepted paths plus skip statistics.
func (s *Scanner) Scan() ([]string, *Stats, error) {
	if s.cfg.SourceRoot == "" {
		return nil, nil, mdcerrors.New(mdcerrors.Filesystem, "scanner: source root not configured")
	}
	if _, err := os.Stat(s.cfg.SourceRoot); err != nil {
		return nil, nil, mdcerrors.Wrap(mdcerrors.Filesystem, err, "scanner: source root unreadable")
	}

	failedSet, err := s.loadFailedList()
	if err != nil {
		return nil, nil, err
	}
	successIdentifiers := s.loadSuccessFolderIdentifiers()

	stats := &Stats{}
	var accepted []string

	walkErr := filepath.WalkDir(s.cfg.SourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != s.cfg.SourceRoot && s.escapeSet[strings.ToLower(d.Name())] && s.cfg.MainMode != config.ModeAnalysis {
				return filepath.SkipDir
			}
			return nil
		}

		stats.Total++
		if s.skip(path, d, failedSet, successIdentifiers, stats) {
			return nil
		}

		accepted = append(accepted, path)
		stats.Accepted++
		return nil
	})
	if walkErr != nil {
		return nil, nil, mdcerrors.Wrap(mdcerrors.Filesystem, walkErr, "scanner: walk failed")
	}

	return accepted, stats, nil
}

// skip applies the documented rule chain in order and returns true the
// moment any rule excludes path, bumping the matching stats counter.
func (s *Scanner) skip(path string, d fs.DirEntry, failedSet map[string]bool, successIDs map[string]bool, stats *Stats) bool {
	info, err := d.Info()
	if err != nil {
		return true
	}

	if !info.Mode().IsRegular() && info.Mode()&os.ModeSymlink == 0 {
		return true
	}

	if s.cfg.MainMode != config.ModeAnalysis && pathHasEscapedComponent(s.cfg.SourceRoot, path, s.escapeSet) {
		return true
	}

	if !hasExtension(path, s.extSet) {
		return true
	}

	linkingChosen := s.cfg.MainMode == config.ModeAnalysis || s.cfg.LinkMode == config.LinkMove ||
		s.cfg.LinkMode == config.LinkSoftLink || s.cfg.LinkMode == config.LinkHardLink
	if linkingChosen && len(failedSet) > 0 && failedSet[path] {
		stats.SkipFailed++
		return true
	}

	if s.cfg.MainMode != config.ModeAnalysis && !s.cfg.ScanHardlink {
		if isSymlinkOrHardlinked(info) {
			return true
		}
	}

	if s.filterRe != nil && !s.filterRe.MatchString(path) {
		return true
	}

	if isTrailer(path) {
		return true
	}

	if s.cfg.MainMode == config.ModeAnalysis && s.cfg.NfoSkipDays > 0 {
		if nfoWithinWindow(stemNfoPath(path), s.cfg.NfoSkipDays) {
			stats.SkipNfoDays++
			return true
		}
	}

	if linkingChosen && s.cfg.NfoSkipDays > 0 && s.cfg.SuccessFolder != "" && len(successIDs) > 0 {
		id, err := s.recognizer.Recognize(filepath.Base(path))
		if err == nil && successIDs[strings.ToLower(id.DisplayID)] {
			stats.SkipSuccessNfo++
			return true
		}
	}

	return false
}

func (s *Scanner) loadFailedList() (map[string]bool, error) {
	set := make(map[string]bool)
	if s.cfg.FailedList == "" {
		return set, nil
	}
	data, err := os.ReadFile(s.cfg.FailedList)
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}
		return nil, mdcerrors.Wrap(mdcerrors.Filesystem, err, "scanner: failed to read failed list")
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			set[line] = true
		}
	}
	return set, nil
}

func (s *Scanner) loadSuccessFolderIdentifiers() map[string]bool {
	ids := make(map[string]bool)
	if s.cfg.SuccessFolder == "" || s.cfg.NfoSkipDays <= 0 {
		return ids
	}
	entries, err := os.ReadDir(s.cfg.SuccessFolder)
	if err != nil {
		return ids
	}
	cutoff := time.Now().AddDate(0, 0, -s.cfg.NfoSkipDays)
	for _, entry := range entries {
		if entry.IsDir() || strings.ToLower(filepath.Ext(entry.Name())) != ".nfo" {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().Before(cutoff) {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		ids[strings.ToLower(stem)] = true
	}
	return ids
}

func stemNfoPath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + ".nfo"
}

func nfoWithinWindow(nfoPath string, days int) bool {
	info, err := os.Stat(nfoPath)
	if err != nil {
		return false
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	return info.ModTime().After(cutoff)
}
