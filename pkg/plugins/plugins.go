// Package plugins manages the plugin activation list: a plain text file,
// one game-tree relative path per line, naming the plugin binaries the game
// should load. Toggles are idempotent and preserve the order in which
// plugins were first activated.
package plugins

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/types"
)

// Activator implements types.PluginManager over an activation list file.
type Activator struct {
	fs   types.FS
	path string
}

var _ types.PluginManager = (*Activator)(nil)

// New creates an Activator over the activation list at path. A missing
// file means no plugins are active.
func New(fs types.FS, path string) *Activator {
	return &Activator{fs: fs, path: path}
}

// SetPluginActivation implements types.PluginManager.
func (a *Activator) SetPluginActivation(path string, active bool) error {
	norm := types.NormalizePath(path)
	if norm == "" {
		return errors.New(errors.ErrInvalidInput, "empty plugin path")
	}

	lines, err := a.load()
	if err != nil {
		return err
	}

	idx := -1
	for i, line := range lines {
		if line == norm {
			idx = i
			break
		}
	}

	switch {
	case active && idx == -1:
		lines = append(lines, norm)
	case !active && idx != -1:
		lines = append(lines[:idx], lines[idx+1:]...)
	default:
		// Already in the requested state.
		return nil
	}

	return a.save(lines)
}

// IsPluginActive implements types.PluginManager.
func (a *Activator) IsPluginActive(path string) (bool, error) {
	lines, err := a.load()
	if err != nil {
		return false, err
	}
	norm := types.NormalizePath(path)
	for _, line := range lines {
		if line == norm {
			return true, nil
		}
	}
	return false, nil
}

// ActivePlugins returns the activation list in load order.
func (a *Activator) ActivePlugins() ([]string, error) {
	return a.load()
}

func (a *Activator) load() ([]string, error) {
	data, err := a.fs.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrActivation, "failed to read activation list %s", a.path)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, types.NormalizePath(line))
	}
	return lines, nil
}

func (a *Activator) save(lines []string) error {
	if err := a.fs.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrActivation, "failed to create directory for %s", a.path)
	}
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := a.fs.WriteFile(a.path, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrActivation, "failed to write activation list %s", a.path)
	}
	return nil
}
