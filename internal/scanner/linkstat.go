package scanner

import (
	"io/fs"
	"os"
	"syscall"
)

// isSymlinkOrHardlinked reports whether info describes a symbolic link or a
// file with more than one hard link, per the documented hardlink-inclusion
// rule. Falls back to false on platforms where the raw stat isn't
// available rather than erroring the whole walk.
func isSymlinkOrHardlinked(info fs.FileInfo) bool {
	if info.Mode()&os.ModeSymlink != 0 {
		return true
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	return uint64(stat.Nlink) > 1
}
