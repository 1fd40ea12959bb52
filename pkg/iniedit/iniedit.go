// Package iniedit reads and writes keys in INI files under the game tree.
// Section and key lookups are case-insensitive, matching the identity rules
// the change ledger uses for INI edits.
package iniedit

import (
	"bytes"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/types"
)

// Editor implements types.IniEditor for INI files addressed by game-tree
// relative paths.
type Editor struct {
	fs       types.FS
	gameRoot string
}

var _ types.IniEditor = (*Editor)(nil)

// New creates an Editor over the game tree rooted at gameRoot.
func New(fs types.FS, gameRoot string) *Editor {
	return &Editor{fs: fs, gameRoot: gameRoot}
}

// Value implements types.IniEditor.
func (e *Editor) Value(file, section, key string) (string, bool, error) {
	f, err := e.load(file)
	if err != nil {
		return "", false, err
	}
	if f == nil {
		return "", false, nil
	}

	sec, err := f.GetSection(section)
	if err != nil {
		return "", false, nil
	}
	if !sec.HasKey(key) {
		return "", false, nil
	}
	return sec.Key(key).String(), true, nil
}

// SetValue implements types.IniEditor. The file and section are created if
// they do not exist yet.
func (e *Editor) SetValue(file, section, key, value string) error {
	f, err := e.load(file)
	if err != nil {
		return err
	}
	if f == nil {
		f = ini.Empty(loadOptions())
	}

	f.Section(section).Key(key).SetValue(value)
	return e.save(file, f)
}

// DeleteValue implements types.IniEditor. Deleting a key that does not
// exist is a no-op.
func (e *Editor) DeleteValue(file, section, key string) error {
	f, err := e.load(file)
	if err != nil {
		return err
	}
	if f == nil {
		return nil
	}

	sec, err := f.GetSection(section)
	if err != nil {
		return nil
	}
	if !sec.HasKey(key) {
		return nil
	}
	sec.DeleteKey(key)
	return e.save(file, f)
}

func loadOptions() ini.LoadOptions {
	return ini.LoadOptions{Insensitive: true}
}

func (e *Editor) filePath(file string) string {
	return filepath.Join(e.gameRoot, filepath.FromSlash(types.NormalizePath(file)))
}

// load parses an INI file, returning (nil, nil) when the file is missing.
func (e *Editor) load(file string) (*ini.File, error) {
	data, err := e.fs.ReadFile(e.filePath(file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIniEdit, "failed to read %s", file)
	}

	f, err := ini.LoadSources(loadOptions(), data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIniEdit, "failed to parse %s", file)
	}
	return f, nil
}

func (e *Editor) save(file string, f *ini.File) error {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return errors.Wrapf(err, errors.ErrIniEdit, "failed to serialize %s", file)
	}

	target := e.filePath(file)
	if err := e.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIniEdit, "failed to create directories for %s", file)
	}
	if err := e.fs.WriteFile(target, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIniEdit, "failed to write %s", file)
	}
	return nil
}
