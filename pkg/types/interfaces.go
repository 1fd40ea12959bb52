package types

import (
	"io/fs"
)

// FS is the filesystem interface required for modtide operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Rename(oldpath, newpath string) error
	Remove(name string) error
	RemoveAll(path string) error
}

// Script is the parsed install script the driver consumes. Parsing itself
// lives in pkg/script; the driver only sees this contract.
type Script interface {
	// Header returns the script's descriptive metadata.
	Header() HeaderInfo

	// ModDependency returns the mod's overall requirement, or nil when the
	// mod has none. An unsatisfied requirement aborts the transaction
	// before anything is touched.
	ModDependency() Dependency

	// InstallSteps returns the ordered, dependency-gated steps.
	InstallSteps() []InstallStep

	// RequiredFiles returns the files installed unconditionally.
	RequiredFiles() []PluginFile

	// RequiredIniEdits returns the INI changes applied unconditionally.
	RequiredIniEdits() []IniEdit

	// ConditionalPatterns returns the file patterns whose dependency is
	// re-evaluated after required and chosen files are in place.
	ConditionalPatterns() []ConditionalInstallPattern
}

// FileActivationState describes what a file dependency sees for one path.
type FileActivationState int

const (
	// FileMissing means the file is not present in the game tree.
	FileMissing FileActivationState = iota

	// FileInactive means the file is present but not activated.
	FileInactive

	// FileActive means the file is present and activated.
	FileActive
)

// DependencyState is the live view a dependency expression is evaluated
// against. Mid-transaction it reflects files and flags applied so far.
type DependencyState interface {
	FileState(path string) FileActivationState
	FlagValue(name string) (string, bool)
}

// Dependency is a parsed dependency expression.
type Dependency interface {
	// Satisfied evaluates the expression against the given state.
	Satisfied(state DependencyState) bool

	// Describe renders the expression for failure messages.
	Describe() string
}

// Chooser resolves install steps into concrete selections. A chooser
// signals user rejection with an error the driver recognizes; see
// pkg/errors ErrInstallRejected.
type Chooser interface {
	Choose(header HeaderInfo, steps []InstallStep, state DependencyState) (*InstallSelections, error)
}

// GameFiles is the file-side collaborator: it copies package files into the
// managed game tree and keeps per-mod backups of whatever they displace.
type GameFiles interface {
	// CopyDataFile copies a package file to a game-tree relative
	// destination, creating intermediate directories as needed. The copy
	// is idempotent.
	CopyDataFile(source, dest string) error

	// TargetExists reports whether a game-tree relative path exists.
	TargetExists(dest string) (bool, error)

	// BackupTarget preserves the current content of a game-tree file in
	// the mod's backup area.
	BackupTarget(dest string) error

	// RestoreTarget puts the backed-up content of a game-tree file back.
	RestoreTarget(dest string) error

	// RemoveTarget deletes a game-tree file.
	RemoveTarget(dest string) error
}

// PluginManager toggles whether a plugin binary is active, independent of
// whether it was just installed.
type PluginManager interface {
	SetPluginActivation(path string, active bool) error
	IsPluginActive(path string) (bool, error)
}

// IniEditor reads and writes keys in INI files under the game tree.
type IniEditor interface {
	// Value returns the current value of a key and whether it exists.
	Value(file, section, key string) (string, bool, error)
	SetValue(file, section, key, value string) error
	DeleteValue(file, section, key string) error
}

// GameValueStore holds keyed opaque binary settings (registry-like values).
type GameValueStore interface {
	// Value returns the current payload of a key and whether it exists.
	Value(key string) ([]byte, bool, error)
	SetValue(key string, data []byte) error
	DeleteValue(key string) error
}
