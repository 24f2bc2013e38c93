// Package placer implements the File Placer collaborator (SPEC_FULL.md
// §4.6): template-driven destination rendering, sanitization, and the
// Move/SoftLink/HardLink placement operations plus subtitle co-placement.
// Generalized from the teacher's internal/organizer/organizer.go
// (Operation/OperationType, generateDestinationPath placeholder
// substitution, cleanFilename sanitization, rename-then-copy+delete
// cross-device fallback); SoftLink/HardLink are new relative to the
// teacher, which only offered Move/Copy/Rename/Delete.
package placer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mdc-go/internal/avid"
	"mdc-go/internal/config"
	"mdc-go/internal/datatype"
	"mdc-go/internal/mdcerrors"
)

// SubtitleExtensions is the closed set of subtitle extensions that
// PlaceSubtitles co-places alongside a video.
var SubtitleExtensions = []string{
	"smi", "srt", "idx", "sub", "sup", "psb", "ssa", "ass",
	"usf", "xss", "ssf", "rt", "lrc", "sbv", "vtt", "ttml",
}

var reTemplateVar = regexp.MustCompile(`\{(number|title|actor|studio|director|series|year|label)\}`)

// sanitizeRe matches the filesystem-unsafe characters the spec calls out.
var sanitizeRe = regexp.MustCompile(`[<>:"/\\|?*]`)

// Placer executes destination rendering and placement operations for
// one processed file.
type Placer struct {
	cfg *config.ProcessorConfig
}

// New builds a Placer bound to the processor configuration.
func New(cfg *config.ProcessorConfig) *Placer {
	return &Placer{cfg: cfg}
}

// renderTemplate substitutes {number,title,actor,studio,director,series,
// year,label} placeholders (arrays render as their first element), then
// strips the cosmetic "+", quote and space characters the grammar allows
// around variable names, per the documented template grammar.
func renderTemplate(tpl string, id avid.ParsedIdentifier, metadata *datatype.MovieInfo) string {
	values := map[string]string{
		"number":   id.DisplayID,
		"title":    metadata.Title,
		"studio":   metadata.Studio,
		"director": metadata.Director,
		"series":   metadata.Series,
		"year":     metadata.Year,
		"label":    metadata.Label,
	}
	if len(metadata.Actor) > 0 {
		values["actor"] = metadata.Actor[0]
	}

	rendered := reTemplateVar.ReplaceAllStringFunc(tpl, func(match string) string {
		name := match[1 : len(match)-1]
		return values[name]
	})

	rendered = strings.NewReplacer(" + ", "", "+", "", "\"", "", "'", "").Replace(rendered)
	return strings.TrimSpace(rendered)
}

// sanitize applies the documented filename-safety rules.
func sanitize(s string) string {
	s = sanitizeRe.ReplaceAllString(s, "_")
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".")
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// DestinationFolder renders the location_rule template (split on "/",
// each segment rendered and sanitized independently) under the
// destination root.
func (p *Placer) DestinationFolder(id avid.ParsedIdentifier, metadata *datatype.MovieInfo) string {
	segments := strings.Split(p.cfg.LocationRule, "/")
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, p.cfg.DestinationRoot)
	for _, seg := range segments {
		rendered := renderTemplate(seg, id, metadata)
		if rendered == "" || rendered == "/" {
			rendered = id.DisplayID
		}
		parts = append(parts, sanitize(rendered))
	}
	return filepath.Join(parts...)
}

// DestinationBaseName renders the naming_rule template, applies the
// attribute and disc suffixes, then sanitizes the whole name.
func (p *Placer) DestinationBaseName(id avid.ParsedIdentifier, metadata *datatype.MovieInfo) string {
	rendered := renderTemplate(p.cfg.NamingRule, id, metadata)
	if rendered == "" || rendered == "/" {
		rendered = id.DisplayID
	}

	switch {
	case metadata.Uncensored && id.CnSub:
		rendered += "-UC"
	case metadata.Uncensored:
		rendered += "-U"
	case id.CnSub:
		rendered += "-C"
	}

	if id.PartNumber > 0 {
		rendered += fmt.Sprintf("-CD%d", id.PartNumber)
	}

	return sanitize(rendered)
}

// Place executes the configured link-mode operation from sourcePath to
// destPath, honoring skip_existing and the per-mode pre-conditions.
func (p *Placer) Place(sourcePath, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return mdcerrors.Wrap(mdcerrors.Filesystem, err, "placer: failed to create destination directory")
	}

	if _, err := os.Lstat(destPath); err == nil {
		if p.cfg.SkipExisting {
			return nil
		}
		if err := os.RemoveAll(destPath); err != nil {
			return mdcerrors.Wrap(mdcerrors.Filesystem, err, "placer: failed to remove existing destination")
		}
	}

	switch p.cfg.LinkMode {
	case config.LinkMove:
		return move(sourcePath, destPath)
	case config.LinkSoftLink:
		return softLink(sourcePath, destPath)
	case config.LinkHardLink:
		if err := os.Link(sourcePath, destPath); err != nil {
			return softLink(sourcePath, destPath)
		}
		return nil
	default:
		return mdcerrors.New(mdcerrors.Filesystem, fmt.Sprintf("placer: unknown link mode %v", p.cfg.LinkMode))
	}
}

// PlaceSubtitles co-places every matching subtitle file found alongside
// sourcePath, applying the same link-mode operation used for the video.
func (p *Placer) PlaceSubtitles(sourcePath, destBasePath string) error {
	dir := filepath.Dir(sourcePath)
	stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return mdcerrors.Wrap(mdcerrors.Filesystem, err, "placer: failed to list source directory for subtitles")
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, stem) {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if !isSubtitleExt(ext) {
			continue
		}

		subSource := filepath.Join(dir, name)
		subDest := destBasePath + "." + ext
		if err := p.Place(subSource, subDest); err != nil {
			return err
		}
	}
	return nil
}

func isSubtitleExt(ext string) bool {
	for _, e := range SubtitleExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func move(source, dest string) error {
	if err := os.Rename(source, dest); err == nil {
		return nil
	}
	if err := copyFile(source, dest); err != nil {
		return mdcerrors.Wrap(mdcerrors.Filesystem, err, "placer: copy failed during cross-device move")
	}
	if err := os.Remove(source); err != nil {
		os.Remove(dest)
		return mdcerrors.Wrap(mdcerrors.Filesystem, err, "placer: failed to remove source after copy")
	}
	return nil
}

func softLink(source, dest string) error {
	if err := os.Symlink(source, dest); err != nil {
		return mdcerrors.Wrap(mdcerrors.Filesystem, err, "placer: failed to create symbolic link")
	}
	return nil
}

func copyFile(source, dest string) error {
	src, err := os.Open(source)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dest)
		return err
	}
	return dst.Sync()
}
