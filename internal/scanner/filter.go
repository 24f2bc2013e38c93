package scanner

import (
	"path/filepath"
	"regexp"
	"strings"
)

// reTrailer matches the documented trailer-file exclusion, applied
// case-insensitively against the filename only.
var reTrailer = regexp.MustCompile(`(?i)-trailer\.`)

// extensionSet builds a lowercase, dot-prefixed lookup set from a
// configured extension list, normalizing entries that omit the dot.
func extensionSet(extensions []string) map[string]bool {
	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}

// hasExtension reports whether path's extension (lowercased) is in set.
func hasExtension(path string, set map[string]bool) bool {
	return set[strings.ToLower(filepath.Ext(path))]
}

// isTrailer reports whether a filename matches the trailer exclusion.
func isTrailer(path string) bool {
	return reTrailer.MatchString(filepath.Base(path))
}

// pathHasEscapedComponent reports whether any directory component between
// root and path (exclusive of the final file name) matches the configured
// escape-folder set, case-insensitively.
func pathHasEscapedComponent(root, path string, escapeSet map[string]bool) bool {
	if len(escapeSet) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	dir := filepath.Dir(rel)
	if dir == "." {
		return false
	}
	for _, component := range strings.Split(dir, string(filepath.Separator)) {
		if escapeSet[strings.ToLower(component)] {
			return true
		}
	}
	return false
}

func buildEscapeSet(folders []string) map[string]bool {
	set := make(map[string]bool, len(folders))
	for _, f := range folders {
		set[strings.ToLower(f)] = true
	}
	return set
}
