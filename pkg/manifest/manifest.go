// Package manifest resolves folder listings against a mod package. A mod
// package is an already-extracted directory whose contents are immutable
// for the duration of a transaction, so the file list is walked once,
// lazily, and cached for every later lookup.
package manifest

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/types"
)

// Manifest is a case-insensitive index of every file in a mod package.
type Manifest struct {
	fs   types.FS
	root string

	once     sync.Once
	entries  []entry
	buildErr error
}

// entry pairs a file's canonical lookup form with the package-relative
// path as it actually appears on disk.
type entry struct {
	norm   string
	actual string
}

// New creates a manifest over the package rooted at root. The directory is
// not touched until the first lookup.
func New(fs types.FS, root string) *Manifest {
	return &Manifest{fs: fs, root: root}
}

// Files returns every package-relative path, sorted by canonical form.
func (m *Manifest) Files() ([]string, error) {
	if err := m.build(); err != nil {
		return nil, err
	}
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.actual
	}
	return out, nil
}

// FilesUnder returns the package-relative paths of every file below the
// given folder. The match is a case-insensitive prefix check with unified
// separators; passing an empty folder returns every file in the package.
func (m *Manifest) FilesUnder(folder string) ([]string, error) {
	if err := m.build(); err != nil {
		return nil, err
	}

	prefix := types.NormalizePath(folder)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var out []string
	for _, e := range m.entries {
		if strings.HasPrefix(e.norm, prefix) {
			out = append(out, e.actual)
		}
	}
	return out, nil
}

// Contains reports whether the package holds a file at the given
// package-relative path, case-insensitively.
func (m *Manifest) Contains(path string) (bool, error) {
	if err := m.build(); err != nil {
		return false, err
	}
	norm := types.NormalizePath(path)
	i := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].norm >= norm })
	return i < len(m.entries) && m.entries[i].norm == norm, nil
}

// Relative converts a package-relative path into the part below a folder,
// preserving the on-disk spelling. It is used when installing a folder to
// rebuild the same layout under the destination.
func Relative(folder, path string) string {
	normFolder := types.NormalizePath(folder)
	if normFolder == "" {
		return path
	}
	// The prefix was already matched case-insensitively; cut the same
	// number of characters from the actual path.
	slashed := strings.ReplaceAll(path, `\`, "/")
	if len(slashed) <= len(normFolder) {
		return ""
	}
	return strings.TrimPrefix(slashed[len(normFolder):], "/")
}

func (m *Manifest) build() error {
	m.once.Do(func() {
		m.buildErr = m.walk("")
		sort.Slice(m.entries, func(i, j int) bool { return m.entries[i].norm < m.entries[j].norm })
	})
	if m.buildErr != nil {
		return errors.Wrapf(m.buildErr, errors.ErrFileAccess, "failed to index package %s", m.root)
	}
	return nil
}

func (m *Manifest) walk(rel string) error {
	entries, err := m.fs.ReadDir(filepath.Join(m.root, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	for _, e := range entries {
		child := e.Name()
		if rel != "" {
			child = rel + "/" + child
		}
		if e.IsDir() {
			if err := m.walk(child); err != nil {
				return err
			}
			continue
		}
		m.entries = append(m.entries, entry{norm: types.NormalizePath(child), actual: child})
	}
	return nil
}
