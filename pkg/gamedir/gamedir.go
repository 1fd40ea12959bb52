// Package gamedir is the file-side collaborator of the install driver: it
// copies package files into the managed game tree and keeps per-mod
// backups of whatever those copies displace.
//
// Game-tree destinations are canonicalized (lowercase, forward slashes)
// before they touch the disk, so the ledger's case-folded identities always
// name real on-disk paths, including on case-sensitive filesystems.
package gamedir

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/types"
)

// Manager implements types.GameFiles for one install transaction.
type Manager struct {
	fs          types.FS
	gameRoot    string
	packageRoot string
	backupsDir  string
}

var _ types.GameFiles = (*Manager)(nil)

// New creates a Manager copying from the package rooted at packageRoot
// into the game tree rooted at gameRoot, with displaced originals
// preserved under backupsDir.
func New(fs types.FS, gameRoot, packageRoot, backupsDir string) *Manager {
	return &Manager{
		fs:          fs,
		gameRoot:    gameRoot,
		packageRoot: packageRoot,
		backupsDir:  backupsDir,
	}
}

// CopyDataFile implements types.GameFiles.
func (m *Manager) CopyDataFile(source, dest string) error {
	data, err := m.fs.ReadFile(m.sourcePath(source))
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to read package file %s", source)
	}

	target := m.targetPath(dest)
	if err := m.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to create directories for %s", dest)
	}
	if err := m.fs.WriteFile(target, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to write %s", dest)
	}
	return nil
}

// TargetExists implements types.GameFiles.
func (m *Manager) TargetExists(dest string) (bool, error) {
	_, err := m.fs.Stat(m.targetPath(dest))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", dest)
}

// BackupTarget implements types.GameFiles.
func (m *Manager) BackupTarget(dest string) error {
	data, err := m.fs.ReadFile(m.targetPath(dest))
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileBackup, "failed to read original %s", dest)
	}

	backup := m.backupPath(dest)
	if err := m.fs.MkdirAll(filepath.Dir(backup), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileBackup, "failed to create backup directories for %s", dest)
	}
	if err := m.fs.WriteFile(backup, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileBackup, "failed to write backup of %s", dest)
	}
	return nil
}

// RestoreTarget implements types.GameFiles.
func (m *Manager) RestoreTarget(dest string) error {
	data, err := m.fs.ReadFile(m.backupPath(dest))
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRestore, "failed to read backup of %s", dest)
	}

	target := m.targetPath(dest)
	if err := m.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileRestore, "failed to create directories for %s", dest)
	}
	if err := m.fs.WriteFile(target, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileRestore, "failed to restore %s", dest)
	}
	return nil
}

// RemoveTarget implements types.GameFiles. Directories left empty by the
// removal are pruned up to the game root.
func (m *Manager) RemoveTarget(dest string) error {
	target := m.targetPath(dest)
	if err := m.fs.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", dest)
	}
	m.pruneEmptyDirs(filepath.Dir(target))
	return nil
}

// sourcePath keeps the package file's on-disk spelling: the package is not
// a managed tree, only its separators are unified.
func (m *Manager) sourcePath(source string) string {
	return filepath.Join(m.packageRoot, filepath.FromSlash(strings.ReplaceAll(source, `\`, "/")))
}

func (m *Manager) targetPath(dest string) string {
	return filepath.Join(m.gameRoot, filepath.FromSlash(types.NormalizePath(dest)))
}

func (m *Manager) backupPath(dest string) string {
	return filepath.Join(m.backupsDir, filepath.FromSlash(types.NormalizePath(dest)))
}

// pruneEmptyDirs removes empty directories from dir upward, stopping at
// the game root or the first non-empty directory.
func (m *Manager) pruneEmptyDirs(dir string) {
	root := filepath.Clean(m.gameRoot)
	for dir != root && len(dir) > len(root) {
		entries, err := m.fs.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := m.fs.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
