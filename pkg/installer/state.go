package installer

import (
	"github.com/rs/zerolog"

	"github.com/modtide/modtide/pkg/types"
)

// txState is the live dependency state of one transaction. File queries see
// the game tree as it is right now, including files this transaction has
// already applied; flag queries see the flags raised by the user's
// selections.
type txState struct {
	gameFiles types.GameFiles
	plugins   types.PluginManager
	flags     map[string]string
	log       zerolog.Logger
}

var _ types.DependencyState = (*txState)(nil)

func (s *txState) FileState(path string) types.FileActivationState {
	exists, err := s.gameFiles.TargetExists(path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("file existence query failed, treating as missing")
		return types.FileMissing
	}
	if !exists {
		return types.FileMissing
	}
	active, err := s.plugins.IsPluginActive(path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("plugin activation query failed, treating as inactive")
		return types.FileInactive
	}
	if active {
		return types.FileActive
	}
	return types.FileInactive
}

func (s *txState) FlagValue(name string) (string, bool) {
	v, ok := s.flags[name]
	return v, ok
}

func (s *txState) setFlags(flags map[string]string) {
	for k, v := range flags {
		s.flags[k] = v
	}
}
