// Package config loads modtide configuration by layering sources with
// koanf: embedded defaults, then the user's config file from the XDG config
// directory (TOML or YAML), then MODTIDE_* environment variables.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/modtide/modtide/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// GetDefaultsContent returns the embedded defaults file, used by the
// gen-config command as a starting template.
func GetDefaultsContent() string {
	return string(defaultConfig)
}

// Config is the resolved configuration the CLI hands to the rest of the
// program.
type Config struct {
	GameDir     string `koanf:"game_dir" toml:"game_dir"`
	DataDir     string `koanf:"data_dir" toml:"data_dir"`
	PluginsFile string `koanf:"plugins_file" toml:"plugins_file"`

	Install struct {
		ActivatePlugins bool `koanf:"activate_plugins" toml:"activate_plugins"`
	} `koanf:"install" toml:"install"`

	Output struct {
		Color string `koanf:"color" toml:"color"`
	} `koanf:"output" toml:"output"`
}

// candidateFiles are the config file names tried in the config directory,
// first hit wins.
var candidateFiles = []struct {
	name   string
	parser koanf.Parser
}{
	{"modtide.toml", toml.Parser()},
	{"modtide.yaml", yaml.Parser()},
	{"modtide.yml", yaml.Parser()},
}

// rawBytesProvider implements the koanf provider contract for raw bytes.
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "not implemented")
}

// Load resolves the configuration. configDir is the directory searched for
// the user's config file; pass "" to skip the file layer.
func Load(configDir string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config file, if present
	if configDir != "" {
		for _, cand := range candidateFiles {
			path := filepath.Join(configDir, cand.name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := k.Load(file.Provider(path), cand.parser); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
			}
			break
		}
	}

	// 3. Environment overrides: MODTIDE_GAME_DIR -> game_dir, and
	// MODTIDE_INSTALL__ACTIVATE_PLUGINS -> install.activate_plugins.
	envProvider := env.Provider("MODTIDE_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "MODTIDE_"))
		return strings.ReplaceAll(key, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}
