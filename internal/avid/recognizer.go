// Package avid derives a canonical pair of movie identifiers from a video
// file's name: a human-facing display ID (e.g. "SSIS-123") and an
// API-facing content ID (e.g. "ssis00123"), plus any disc-part number and
// attributes (Chinese-subtitle / uncensored markers, special-site tag)
// encoded in the filename.
package avid

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

func mustCompile(pattern string) *regexp.Regexp {
	return regexp.MustCompile(pattern)
}

func compileRegex(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(pattern)
}

// ParsedIdentifier is the immutable result of recognizing one filename.
type ParsedIdentifier struct {
	DisplayID   string
	ContentID   string
	PartNumber  int // 0 means absent
	CnSub       bool
	Uncensored  bool
	SpecialSite string // empty unless a special-site rule matched
}

// CustomPattern lets a caller supply a regex tried before the built-in
// pipeline; Group selects the identifier capture and PartGroup (if >0)
// selects the part-number capture.
type CustomPattern struct {
	Pattern   string
	Group     int
	PartGroup int
}

// Config controls optional recognizer behavior.
type Config struct {
	RemovalStrings []string
	CustomPatterns []CustomPattern
	Strict         bool // explicit strict-mode flag; ORed with auto-detection
}

// Recognizer holds precompiled regex tables so repeated calls to Recognize
// do not pay recompilation cost.
type Recognizer struct {
	cfg           *Config
	specialSites  []specialSitePattern
	customRegexes []compiledCustom
}

type compiledCustom struct {
	re        *regexp.Regexp
	group     int
	partGroup int
}

// NewRecognizer returns a recognizer with default (empty) configuration.
func NewRecognizer() *Recognizer {
	return NewRecognizerWithConfig(&Config{})
}

// NewRecognizerWithConfig returns a recognizer honoring cfg's removal
// strings, custom patterns and explicit strict flag.
func NewRecognizerWithConfig(cfg *Config) *Recognizer {
	if cfg == nil {
		cfg = &Config{}
	}
	r := &Recognizer{
		cfg:          cfg,
		specialSites: newSpecialSitePatterns(),
	}
	for _, cp := range cfg.CustomPatterns {
		re, err := compileRegex(cp.Pattern)
		if err != nil {
			continue
		}
		r.customRegexes = append(r.customRegexes, compiledCustom{re: re, group: cp.Group, partGroup: cp.PartGroup})
	}
	return r
}

// Recognize parses a filename (or full path) and returns its ParsedIdentifier.
// It never panics; on failure it returns a nil identifier and an
// InvalidIdentifier-shaped error.
func (r *Recognizer) Recognize(nameOrPath string) (*ParsedIdentifier, error) {
	base := filepath.Base(nameOrPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if id, ok := r.tryCustomPatterns(stem); ok {
		return id, nil
	}

	cleaned := r.clean(stem)
	if cleaned == "" {
		return nil, errInvalid(stem)
	}

	if id, ok := r.matchSpecialSite(cleaned); ok {
		return id, nil
	}

	residue := genericExtract(cleaned)
	if residue == "" {
		return nil, errInvalid(stem)
	}

	core, part, cnSub, uncensored := suffixAnalysis(residue)

	display, content, ok := finalShape(core)
	if !ok {
		return nil, errInvalid(stem)
	}

	strict := r.cfg.Strict || !reStandardShapeLoose.MatchString(cleaned)
	if strict && !isStrictAccepted(display) {
		return nil, errInvalid(stem)
	}

	return &ParsedIdentifier{
		DisplayID:  display,
		ContentID:  content,
		PartNumber: part,
		CnSub:      cnSub,
		Uncensored: uncensored,
	}, nil
}

func errInvalid(stem string) error {
	return fmt.Errorf("InvalidIdentifier: no recognizable identifier in %q", stem)
}

// tryCustomPatterns tries caller-supplied regexes before the built-in
// pipeline; the first one to match wins.
func (r *Recognizer) tryCustomPatterns(stem string) (*ParsedIdentifier, bool) {
	for _, c := range r.customRegexes {
		m := c.re.FindStringSubmatch(stem)
		if m == nil || c.group >= len(m) {
			continue
		}
		id := m[c.group]
		display, content, ok := finalShape(id)
		if !ok {
			continue
		}
		part := 0
		if c.partGroup > 0 && c.partGroup < len(m) {
			if n, err := strconv.Atoi(m[c.partGroup]); err == nil {
				part = n
			}
		}
		return &ParsedIdentifier{DisplayID: display, ContentID: content, PartNumber: part}, true
	}
	return nil, false
}

// clean implements step 1 of the algorithm: an ordered sequence of
// stripping passes. Order matters and is specified, not incidental — see
// DESIGN.md's Open Question (a).
func (r *Recognizer) clean(stem string) string {
	s := stem

	for _, removal := range r.cfg.RemovalStrings {
		if removal == "" {
			continue
		}
		s = strings.ReplaceAll(s, removal, "")
	}

	s = reBracketTag.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	s = reWatermarkHost.ReplaceAllString(s, "")
	s = reDatePrefix.ReplaceAllString(s, "")
	s = reTokyoHotPrefix.ReplaceAllString(s, "")
	s = reLeadingQuality.ReplaceAllString(s, "")

	if m := reT28Variant.FindStringSubmatch(s); m != nil {
		s = "T28-" + padLeft(m[1], 5)
	} else if m := reR18Variant.FindStringSubmatch(s); m != nil {
		s = "R18-" + padLeft(m[1], 5)
	}

	for _, marker := range qualityMarkers {
		s = stripQualityMarker(s, marker)
	}

	if reDiscMarker.MatchString(s) {
		if trimmed := reDiscMarker.ReplaceAllString(s, ""); identifierShaped(trimmed) {
			s = trimmed
		}
	}
	if reTrailingDigits.MatchString(s) {
		if trimmed := reTrailingDigits.ReplaceAllString(s, ""); identifierShaped(trimmed) {
			s = trimmed
		}
	}

	s = reTrailingCJK.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "-_ ")

	return s
}

// identifierShaped is a loose check used by the disc-marker/trailing-digit
// stripping rules to decide whether at least one identifier-shaped residue
// remains after stripping.
func identifierShaped(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 3 && strings.ContainsAny(s, "0123456789") && strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
}

// stripQualityMarker removes an embedded/trailing quality marker from s,
// but never consumes a leading "HD-" that prefixes an otherwise valid code
// (e.g. "HD-STARS-123" keeps its "HD-" because it is a studio-style prefix,
// not a trailing quality tag).
func stripQualityMarker(s, marker string) string {
	upper := strings.ToUpper(s)
	idx := strings.LastIndex(upper, marker)
	if idx < 0 {
		return s
	}
	if marker == "HD" && idx == 0 {
		return s
	}
	before := s[:idx]
	after := s[idx+len(marker):]
	before = strings.TrimRight(before, "-_. ")
	return before + after
}

func padLeft(digits string, width int) string {
	for len(digits) < width {
		digits = "0" + digits
	}
	return digits
}

// genericExtract implements step 3: pull the first token-shaped residue out
// of the cleaned filename.
func genericExtract(cleaned string) string {
	if strings.ContainsAny(cleaned, "-_") {
		s := cleaned
		s = regexpStripDateStamp(s)
		s = normalizeFC2(s)
		s = regexpStripCDSuffix(s)
		return firstToken(s)
	}

	if m := reWesternDate.FindStringSubmatch(cleaned); m != nil {
		return m[0]
	}

	return strings.ReplaceAll(filepath.Base(cleaned), "_", "-")
}

var (
	reDateStampPrefix = mustCompile(`^\[\d{4}-\d{2}-\d{2}\]\s*-\s*`)
	reFC2Loose        = mustCompile(`(?i)fc2[-_\s]*(?:ppv)?[-_\s]*(\d{5,8})`)
	reCDSuffix        = mustCompile(`(?i)-CD\d+$`)
	reFirstToken      = mustCompile(`^[\w\-]+`)
	reWesternDate     = mustCompile(`^[A-Za-z]+\.\d{2}\.\d{2}\.\d{2}`)
)

func regexpStripDateStamp(s string) string {
	return reDateStampPrefix.ReplaceAllString(s, "")
}

func normalizeFC2(s string) string {
	if m := reFC2Loose.FindStringSubmatch(s); m != nil {
		return "FC2-PPV-" + m[1]
	}
	return s
}

func regexpStripCDSuffix(s string) string {
	return reCDSuffix.ReplaceAllString(s, "")
}

func firstToken(s string) string {
	idx := strings.Index(s, ".")
	if idx >= 0 {
		s = s[:idx]
	}
	m := reFirstToken.FindString(s)
	return m
}

// suffixAnalysis implements step 4: detect CN-sub / uncensored suffixes and
// a disc-part letter, then apply the truncation cleanup.
func suffixAnalysis(residue string) (core string, part int, cnSub, uncensored bool) {
	core = residue

	if m := reCUSuffix.FindStringSubmatch(core); m != nil {
		switch strings.ToUpper(m[1]) {
		case "UC":
			uncensored, cnSub = true, true
		case "U":
			uncensored = true
		case "C":
			cnSub = true
		}
		core = core[:len(core)-len(m[0])]
	}

	if m := reDiscLetterA.FindStringSubmatch(core); m != nil {
		letter := strings.ToUpper(m[1])[0]
		if !reservedDiscLetters[letter] {
			part = int(letter-'A') + 1
			core = core[:len(core)-len(m[0])]
		}
	} else if m := reDiscLetterB.FindStringSubmatch(core); m != nil {
		letter := strings.ToUpper(m[2])[0]
		if !reservedDiscLetters[letter] {
			part = int(letter-'A') + 1
			core = m[1]
		}
	}

	if m := reCleanupTrunc.FindStringSubmatch(core); m != nil {
		core = m[1]
	}

	return core, part, cnSub, uncensored
}

// finalShape implements step 5: normalize separators/case and derive the
// content ID from the display ID.
func finalShape(core string) (display, content string, ok bool) {
	core = strings.Trim(core, "-_ ")
	if core == "" {
		return "", "", false
	}

	if reTokyoHotShortCode.MatchString(core) {
		lower := strings.ToLower(core)
		return lower, lower, true
	}

	s := core
	if m := reAlphaDigit.FindStringSubmatch(s); m != nil {
		s = m[1] + "-" + m[2]
	}
	s = strings.ReplaceAll(s, "_", "-")

	display = strings.ToUpper(s)
	content = deriveContentID(display)
	if display == "" || content == "" {
		return "", "", false
	}
	return display, content, true
}

// deriveContentID lowercases and strips separators, zero-padding the
// trailing numeric run to 5 digits per the documented per-prefix rules.
func deriveContentID(display string) string {
	if m := reFC2Shape.FindStringSubmatch(display); m != nil {
		return "fc2-ppv-" + m[1]
	}
	if m := reHeyzoShape.FindStringSubmatch(display); m != nil {
		return "heyzo-" + padLeft(m[1], 5)
	}
	if strings.HasPrefix(display, "T28-") {
		return "T28-" + padLeft(strings.TrimPrefix(display, "T28-"), 5)
	}
	if strings.HasPrefix(display, "R18-") {
		return "R18-" + padLeft(strings.TrimPrefix(display, "R18-"), 5)
	}

	m := reAlphaNumSplit.FindStringSubmatch(display)
	if m == nil {
		return strings.ToLower(strings.ReplaceAll(display, "-", ""))
	}
	prefix := strings.ToLower(m[1])
	digits := m[2]
	suffix := m[3]
	return prefix + padLeft(digits, 5) + strings.ToLower(suffix)
}

var reAlphaNumSplit = mustCompile(`^([A-Z]{2,5})-(\d{2,5})([A-Z]?)$`)

// isStrictAccepted implements step 6's accepted-shape list.
func isStrictAccepted(display string) bool {
	if reStrictStandard.MatchString(display) {
		return true
	}
	if reStrictT28.MatchString(display) || reStrictR18.MatchString(display) {
		return true
	}
	if reTokyoHotShortCode.MatchString(display) {
		return true
	}
	if reStrictPureDigit.MatchString(display) {
		return true
	}
	return false
}

// matchSpecialSite implements step 2: try the ordered special-site table.
func (r *Recognizer) matchSpecialSite(cleaned string) (*ParsedIdentifier, bool) {
	for _, p := range r.specialSites {
		m := p.re.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		display, content := p.build(m)
		return &ParsedIdentifier{
			DisplayID:   display,
			ContentID:   content,
			SpecialSite: p.site,
		}, true
	}
	return nil, false
}

// GetCID derives the API-facing content ID from a display ID, for callers
// that already have a validated display ID in hand (e.g. a config override
// supplied via "-n/--number").
func GetCID(displayID string) string {
	if displayID == "" {
		return ""
	}
	return deriveContentID(strings.ToUpper(displayID))
}

// ToDisplay reconstructs a display ID from a standard-shape content ID by
// stripping the numeric run's leading zeros and re-padding it to three
// digits. It undoes GetCID for `[A-Z]{2,5}-\d{2,5}` IDs whose number is
// exactly three digits, or longer without a leading zero; other IDs do not
// round-trip (e.g. "AB-12" comes back as "AB-012").
func ToDisplay(contentID string) string {
	m := reContentIDSplit.FindStringSubmatch(contentID)
	if m == nil {
		return strings.ToUpper(contentID)
	}
	prefix := strings.ToUpper(m[1])
	digits := strings.TrimLeft(m[2], "0")
	if digits == "" {
		digits = "0"
	}
	return prefix + "-" + padLeft(digits, 3)
}

var reContentIDSplit = mustCompile(`^([a-zA-Z]{2,5})(\d{2,5})$`)
