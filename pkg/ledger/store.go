package ledger

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/paths"
	"github.com/modtide/modtide/pkg/types"
)

// Meta is the per-mod metadata sidecar written next to the ledger.
type Meta struct {
	Name        string    `yaml:"name"`
	Version     string    `yaml:"version,omitempty"`
	Author      string    `yaml:"author,omitempty"`
	InstalledAt time.Time `yaml:"installed_at"`
}

// Store persists ledgers on the filesystem, one directory per installed
// mod under the data dir: ledger.json, meta.yaml and a backups/ tree.
type Store struct {
	fs    types.FS
	paths paths.Paths
}

// NewStore creates a Store over the given filesystem and path layout.
func NewStore(fs types.FS, p paths.Paths) *Store {
	return &Store{fs: fs, paths: p}
}

// Save writes a mod's ledger and metadata. An existing ledger for the same
// mod is overwritten; backups already on disk are left alone.
func (s *Store) Save(meta Meta, l *Ledger) error {
	if meta.Name == "" {
		return errors.New(errors.ErrInvalidInput, "mod name is required")
	}

	dir := s.paths.ModDir(meta.Name)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrLedgerSave, "failed to create mod state dir %s", dir)
	}

	data, err := l.Encode()
	if err != nil {
		return err
	}
	if err := s.fs.WriteFile(s.paths.LedgerPath(meta.Name), data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrLedgerSave, "failed to write ledger for %s", meta.Name)
	}

	metaData, err := yaml.Marshal(&meta)
	if err != nil {
		return errors.Wrapf(err, errors.ErrLedgerSave, "failed to encode metadata for %s", meta.Name)
	}
	if err := s.fs.WriteFile(s.paths.ModMetaPath(meta.Name), metaData, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrLedgerSave, "failed to write metadata for %s", meta.Name)
	}

	return nil
}

// Load reads a mod's ledger and metadata back.
func (s *Store) Load(name string) (*Ledger, Meta, error) {
	var meta Meta

	data, err := s.fs.ReadFile(s.paths.LedgerPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, meta, errors.Newf(errors.ErrModNotInstalled, "mod %q is not installed", name)
		}
		return nil, meta, errors.Wrapf(err, errors.ErrLedgerLoad, "failed to read ledger for %s", name)
	}

	l, err := Decode(data)
	if err != nil {
		return nil, meta, err
	}

	metaData, err := s.fs.ReadFile(s.paths.ModMetaPath(name))
	if err == nil {
		if err := yaml.Unmarshal(metaData, &meta); err != nil {
			return nil, meta, errors.Wrapf(err, errors.ErrLedgerLoad, "failed to decode metadata for %s", name)
		}
	} else if !os.IsNotExist(err) {
		return nil, meta, errors.Wrapf(err, errors.ErrLedgerLoad, "failed to read metadata for %s", name)
	}

	return l, meta, nil
}

// IsInstalled reports whether a ledger exists for the mod.
func (s *Store) IsInstalled(name string) (bool, error) {
	_, err := s.fs.Stat(s.paths.LedgerPath(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, errors.ErrLedgerLoad, "failed to check ledger for %s", name)
}

// Delete removes a mod's entire state directory: ledger, metadata and
// backups. Deleting a mod that has no state is not an error.
func (s *Store) Delete(name string) error {
	dir := s.paths.ModDir(name)
	if _, err := s.fs.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, errors.ErrLedgerSave, "failed to remove state for %s", name)
	}
	return nil
}

// List returns metadata for every installed mod, in directory order.
func (s *Store) List() ([]Meta, error) {
	entries, err := s.fs.ReadDir(s.paths.ModsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrLedgerLoad, "failed to read mods dir")
	}

	var metas []Meta
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		_, meta, err := s.Load(entry.Name())
		if err != nil {
			// A directory without a readable ledger is stale state, not a
			// reason to fail the whole listing.
			continue
		}
		if meta.Name == "" {
			meta.Name = entry.Name()
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

// FileClaimedByOther reports whether any installed mod other than exclude
// records the given game-tree path as one of its installed files. Uninstall
// uses this to avoid deleting a file another mod still owns.
func (s *Store) FileClaimedByOther(path, exclude string) (bool, error) {
	entries, err := s.fs.ReadDir(s.paths.ModsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrLedgerLoad, "failed to read mods dir")
	}

	excludeKey := paths.ModKey(exclude)
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == excludeKey {
			continue
		}
		l, _, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		if l.ContainsFile(path) {
			return true, nil
		}
	}
	return false, nil
}
