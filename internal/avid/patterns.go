package avid

import (
	"regexp"
	"strings"
)

// specialSitePattern pairs a detection regex with the canonicalization logic
// for one special-site family. Patterns are tried in table order; the first
// match wins.
type specialSitePattern struct {
	site  string
	re    *regexp.Regexp
	build func(m []string) (display, content string)
}

// disc letters A-Y are valid part-number markers; C, U and Z are reserved
// (censorship/uncensored suffixes and an unused tail) and must never be
// consumed as part numbers.
var reservedDiscLetters = map[byte]bool{'C': true, 'U': true, 'Z': true}

// qualityMarkers are embedded/trailing resolution or codec tags stripped
// during cleanup. Order matters only in that longer markers are listed
// before shorter ones that could be a substring of them.
var qualityMarkers = []string{
	"FULLHD", "H265", "H264", "X264", "X265", "HEVC", "FHD",
	"1080P", "720P", "480P", "4K", "UHD", "HQ", "HD",
}

var (
	reBracketTag     = regexp.MustCompile(`\[[^\[\]]*\]|【[^【】]*】`)
	reWatermarkHost  = regexp.MustCompile(`(?i)^[\w\-]+\.(?:com|net|tv|me|xyz|cc)[@_\-: ]+`)
	reDatePrefix     = regexp.MustCompile(`^\d{4,8}[-_]`)
	reTokyoHotPrefix = regexp.MustCompile(`(?i)^(?:1tok[-_]|tokyo[-_]?hot[-_])`)
	reLeadingQuality = regexp.MustCompile(`(?i)^\(?(?:HD|FHD|4K|1080P|720P|480P|UHD)\)?[-_\s]*`)
	reT28Variant     = regexp.MustCompile(`(?i)^t[-_]?28[-_](\d+)`)
	reR18Variant     = regexp.MustCompile(`(?i)^r[-_]?18[-_](\d+)`)
	reDiscMarker     = regexp.MustCompile(`(?i)[-_](?:cd|part|pt|disk|disc)[-_]?(\d{1,3})\b`)
	reTrailingDigits = regexp.MustCompile(`[-_](\d{1,2})$`)
	reTrailingCJK    = regexp.MustCompile(`\s+[\p{Han}\p{Hiragana}\p{Katakana}]+.*$`)

	reCUSuffix     = regexp.MustCompile(`(?i)-(UC|U|C)$`)
	reDiscLetterA  = regexp.MustCompile(`(?i)[-_]([A-Y])$`)
	reDiscLetterB  = regexp.MustCompile(`(?i)^([A-Za-z]{2,5}-?\d{2,5})([A-Y])$`)
	reCleanupTrunc = regexp.MustCompile(`^([A-Za-z]{2,5}-\d{2,5})(?:[\p{Han}\p{Hiragana}\p{Katakana}]+|[a-z]{2,})$`)

	reStandardShapeLoose = regexp.MustCompile(`(?i)[A-Z]{2,5}[-_]\d{2,5}`)
	reAlphaDigit    = regexp.MustCompile(`^([A-Za-z]{2,5})(\d{2,5})$`)

	reStrictStandard  = regexp.MustCompile(`^[A-Z]{2,5}-?\d{2,5}[A-Z]?$`)
	reStrictT28       = regexp.MustCompile(`^T28-\d+$`)
	reStrictR18       = regexp.MustCompile(`^R18-\d+$`)
	reStrictPureDigit = regexp.MustCompile(`^\d{5,}$`)

	reTokyoHotShortCode = regexp.MustCompile(`(?i)^(cz|gedo|k|n|red|se)(\d+)$`)
	reFC2Shape          = regexp.MustCompile(`(?i)^FC2-PPV-(\d+)$`)
	reHeyzoShape        = regexp.MustCompile(`(?i)^HEYZO-(\d+)$`)
)

// newSpecialSitePatterns builds the ordered special-site recognizer table.
// Sites are distinguished by an explicit name prefix surviving the generic
// watermark-stripping step (e.g. "1pondo-", "caribpr-"), matching the
// convention these sites' own filenames use.
func newSpecialSitePatterns() []specialSitePattern {
	return []specialSitePattern{
		{
			site: "tokyohot",
			re:   regexp.MustCompile(`(?i)^(n\d{4,5}|k\d{4,5}|se\d{4,5}|red\d{3,4}|gedo\d{3,4}|cz\d{3,4})$`),
			build: func(m []string) (string, string) {
				code := strings.ToLower(m[1])
				return code, code
			},
		},
		{
			// must precede "carib" since "caribpr" contains "carib".
			site: "caribpr",
			re:   regexp.MustCompile(`(?i)^caribpr[-_](\d{6})[-_](\d{3})$`),
			build: func(m []string) (string, string) {
				num := m[1] + "-" + m[2]
				return "caribpr-" + num, "caribpr" + m[1] + m[2]
			},
		},
		{
			site: "carib",
			re:   regexp.MustCompile(`(?i)^carib[-_](\d{6})[-_](\d{3})$`),
			build: func(m []string) (string, string) {
				num := m[1] + "-" + m[2]
				return "carib-" + num, "carib" + m[1] + m[2]
			},
		},
		{
			site: "1pondo",
			re:   regexp.MustCompile(`(?i)^1pon(?:do)?[-_](\d{6})[-_](\d{2,3})$`),
			build: func(m []string) (string, string) {
				num := m[1] + "_" + m[2]
				return "1pondo-" + num, "1pondo" + m[1] + m[2]
			},
		},
		{
			site: "muramura",
			re:   regexp.MustCompile(`(?i)^mura(?:mura)?[-_](\d{6})[-_](\d{2,3})$`),
			build: func(m []string) (string, string) {
				num := m[1] + "_" + m[2]
				return "muramura-" + num, "mura" + m[1] + m[2]
			},
		},
		{
			site: "pacopacomama",
			re:   regexp.MustCompile(`(?i)^paco(?:pacomama)?[-_](\d{6})[-_](\d{2,3})$`),
			build: func(m []string) (string, string) {
				num := m[1] + "_" + m[2]
				return "pacopacomama-" + num, "paco" + m[1] + m[2]
			},
		},
		{
			site: "10musume",
			re:   regexp.MustCompile(`(?i)^10mu(?:sume)?[-_](\d{6})[-_](\d{2,3})$`),
			build: func(m []string) (string, string) {
				num := m[1] + "_" + m[2]
				return "10musume-" + num, "10mu" + m[1] + m[2]
			},
		},
		{
			site: "xxxav",
			re:   regexp.MustCompile(`(?i)^xxx-?av[-_](\d{4,6})$`),
			build: func(m []string) (string, string) {
				return "XXX-AV-" + m[1], "xxxav" + m[1]
			},
		},
		{
			site: "x-art",
			re:   regexp.MustCompile(`(?i)^x-?art[-_.](\d{2})[-_.](\d{2})[-_.](\d{2})$`),
			build: func(m []string) (string, string) {
				date := m[1] + "." + m[2] + "." + m[3]
				return "x-art." + date, "xart" + m[1] + m[2] + m[3]
			},
		},
		{
			site: "heydouga",
			re:   regexp.MustCompile(`(?i)^heydouga[-_](\d{4})[-_](\d{3,4})$`),
			build: func(m []string) (string, string) {
				return "HEYDOUGA-" + m[1] + "-" + m[2], "heydouga" + m[1] + m[2]
			},
		},
		{
			site: "heyzo",
			re:   regexp.MustCompile(`(?i)^heyzo[-_]?(\d{4})$`),
			build: func(m []string) (string, string) {
				return "HEYZO-" + m[1], "heyzo" + padLeft(m[1], 5)
			},
		},
		{
			site: "mdbk",
			re:   regexp.MustCompile(`(?i)^mdbk[-_](\d{3,4})$`),
			build: func(m []string) (string, string) {
				return "MDBK-" + m[1], "mdbk" + m[1]
			},
		},
		{
			site: "mdtm",
			re:   regexp.MustCompile(`(?i)^mdtm[-_](\d{3,4})$`),
			build: func(m []string) (string, string) {
				return "MDTM-" + m[1], "mdtm" + m[1]
			},
		},
	}
}
