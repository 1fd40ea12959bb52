// Package paths provides centralized path handling for modtide.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/modtide/modtide/pkg/errors"
)

// Environment variable names
const (
	// EnvGameDir is the primary environment variable for the managed game tree
	EnvGameDir = "MODTIDE_GAME_DIR"

	// EnvDataDir overrides the XDG data directory for modtide
	EnvDataDir = "MODTIDE_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for modtide
	EnvConfigDir = "MODTIDE_CONFIG_DIR"

	// EnvCacheDir overrides the XDG cache directory for modtide
	EnvCacheDir = "MODTIDE_CACHE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// IMPORTANT: These constants define modtide's internal datastore structure
// and are NOT user-configurable. They must remain consistent across all
// modtide installations so that ledgers written by one version can be read
// back by another. User-configurable paths belong in pkg/config instead.
const (
	// ModtideDirName is the directory name for modtide-specific files
	ModtideDirName = "modtide"

	// ModsDirName is the subdirectory holding per-mod state
	ModsDirName = "mods"

	// LedgerFileName is the per-mod change ledger file
	LedgerFileName = "ledger.json"

	// ModMetaFileName is the per-mod metadata sidecar file
	ModMetaFileName = "meta.yaml"

	// BackupsDirName is the per-mod backup tree for displaced originals
	BackupsDirName = "backups"

	// PluginsFileName is the default plugin activation list file
	PluginsFileName = "plugins.txt"

	// LogFileName is the name of the log file
	LogFileName = "modtide.log"
)

// Paths provides centralized path management for modtide
type Paths interface {
	GameDir() string
	DataDir() string
	ConfigDir() string
	CacheDir() string
	ModsDir() string
	ModDir(modKey string) string
	LedgerPath(modKey string) string
	ModMetaPath(modKey string) string
	BackupsDir(modKey string) string
	PluginsFilePath() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
}

type paths struct {
	// gameDir is the root of the managed game tree
	gameDir string

	// pluginsFile is the plugin activation list location
	pluginsFile string

	xdgData   string
	xdgConfig string
	xdgCache  string
	xdgState  string
}

// Options overrides path resolution; zero values fall back to environment
// variables and XDG defaults.
type Options struct {
	GameDir     string
	DataDir     string
	PluginsFile string
}

// New creates a new Paths instance. The game directory is resolved from the
// options, then the MODTIDE_GAME_DIR environment variable; it is required.
func New(opts Options) (Paths, error) {
	p := &paths{}

	gameDir := opts.GameDir
	if gameDir == "" {
		gameDir = os.Getenv(EnvGameDir)
	}
	if gameDir == "" {
		return nil, errors.New(errors.ErrInvalidInput,
			"game directory not set (configure game_dir or set "+EnvGameDir+")")
	}

	absGame, err := filepath.Abs(expandHome(gameDir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for game dir")
	}
	p.gameDir = absGame

	if err := p.setupXDGDirs(opts.DataDir); err != nil {
		return nil, err
	}

	if opts.PluginsFile != "" {
		p.pluginsFile = expandHome(opts.PluginsFile)
	} else {
		p.pluginsFile = filepath.Join(p.gameDir, PluginsFileName)
	}

	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs(dataDirOverride string) error {
	switch {
	case dataDirOverride != "":
		p.xdgData = expandHome(dataDirOverride)
	case os.Getenv(EnvDataDir) != "":
		p.xdgData = expandHome(os.Getenv(EnvDataDir))
	default:
		p.xdgData = filepath.Join(xdg.DataHome, ModtideDirName)
	}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, ModtideDirName)
	}

	if cacheDir := os.Getenv(EnvCacheDir); cacheDir != "" {
		p.xdgCache = expandHome(cacheDir)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, ModtideDirName)
	}

	// XDG doesn't provide StateHome on every platform, so check manually
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, ModtideDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", ModtideDirName)
	}

	return nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// GameDir returns the root of the managed game tree
func (p *paths) GameDir() string {
	return p.gameDir
}

// DataDir returns the XDG data directory for modtide
func (p *paths) DataDir() string {
	return p.xdgData
}

// ConfigDir returns the XDG config directory for modtide
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// CacheDir returns the XDG cache directory for modtide
func (p *paths) CacheDir() string {
	return p.xdgCache
}

// ModsDir returns the directory holding every installed mod's state
func (p *paths) ModsDir() string {
	return filepath.Join(p.xdgData, ModsDirName)
}

// ModDir returns the state directory for one installed mod
func (p *paths) ModDir(modKey string) string {
	return filepath.Join(p.ModsDir(), ModKey(modKey))
}

// LedgerPath returns the path to a mod's change ledger
func (p *paths) LedgerPath(modKey string) string {
	return filepath.Join(p.ModDir(modKey), LedgerFileName)
}

// ModMetaPath returns the path to a mod's metadata sidecar
func (p *paths) ModMetaPath(modKey string) string {
	return filepath.Join(p.ModDir(modKey), ModMetaFileName)
}

// BackupsDir returns a mod's backup tree for displaced original files
func (p *paths) BackupsDir(modKey string) string {
	return filepath.Join(p.ModDir(modKey), BackupsDirName)
}

// PluginsFilePath returns the plugin activation list location
func (p *paths) PluginsFilePath() string {
	return p.pluginsFile
}

// LogFilePath returns the path to the modtide log file
// Respects XDG_STATE_HOME if set
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded := expandHome(path)

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}

	return filepath.Clean(abs), nil
}

// ModKey folds a mod identity into a filesystem-safe directory name.
// Keys differing only in case or surrounding whitespace collide on purpose.
func ModKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "unnamed"
	}
	return b.String()
}
