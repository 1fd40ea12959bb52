package types

import (
	"path"
	"strings"
)

// PluginExtensions are the two file extensions recognized as activatable
// game plugin binaries. Matching is case-insensitive.
var PluginExtensions = []string{".esp", ".esm"}

// NormalizePath folds a game-tree relative path to its canonical form:
// backslashes become forward slashes, redundant separators and dot segments
// are collapsed, leading separators are stripped, and the whole path is
// lowercased. Two paths naming the same file always normalize identically.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		p = ""
	}
	return strings.ToLower(p)
}

// IsPluginFile reports whether the path names a plugin binary by extension.
func IsPluginFile(p string) bool {
	lower := strings.ToLower(p)
	for _, ext := range PluginExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
