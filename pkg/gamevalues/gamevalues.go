// Package gamevalues persists keyed opaque binary settings, the registry
// style values some games keep outside their file tree. Keys are folded to
// lowercase; payloads are stored base64-encoded in a single JSON file.
package gamevalues

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/types"
)

// Store implements types.GameValueStore over a JSON file.
type Store struct {
	fs   types.FS
	path string
}

var _ types.GameValueStore = (*Store)(nil)

// New creates a Store backed by the JSON file at path. A missing file
// means no values are set.
func New(fs types.FS, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Value implements types.GameValueStore.
func (s *Store) Value(key string) ([]byte, bool, error) {
	values, err := s.load()
	if err != nil {
		return nil, false, err
	}
	data, ok := values[fold(key)]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// SetValue implements types.GameValueStore.
func (s *Store) SetValue(key string, data []byte) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	if values == nil {
		values = make(map[string][]byte)
	}
	values[fold(key)] = append([]byte(nil), data...)
	return s.save(values)
}

// DeleteValue implements types.GameValueStore. Deleting a missing key is a
// no-op.
func (s *Store) DeleteValue(key string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	k := fold(key)
	if _, ok := values[k]; !ok {
		return nil
	}
	delete(values, k)
	return s.save(values)
}

func fold(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (s *Store) load() (map[string][]byte, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrGameValue, "failed to read %s", s.path)
	}

	var values map[string][]byte
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrapf(err, errors.ErrGameValue, "failed to parse %s", s.path)
	}
	return values, nil
}

func (s *Store) save(values map[string][]byte) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrGameValue, "failed to serialize game values")
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrGameValue, "failed to create directory for %s", s.path)
	}
	if err := s.fs.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrGameValue, "failed to write %s", s.path)
	}
	return nil
}
