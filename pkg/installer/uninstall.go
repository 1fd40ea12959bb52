package installer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/ledger"
	"github.com/modtide/modtide/pkg/logging"
	"github.com/modtide/modtide/pkg/types"
)

// UninstallOptions wires one uninstall transaction. Store, GameFiles and
// Plugins are required; Ini and GameValues only when the mod's ledger
// recorded such edits.
type UninstallOptions struct {
	Store      *ledger.Store
	GameFiles  types.GameFiles
	Plugins    types.PluginManager
	Ini        types.IniEditor
	GameValues types.GameValueStore
	Progress   *Progress
}

// Uninstaller replays a mod's ledger in reverse: installed files are
// restored from backup or removed, INI and game-specific values are
// reverted, and the mod's recorded state is deleted.
type Uninstaller struct {
	opts UninstallOptions
	log  zerolog.Logger
}

// NewUninstaller validates the wiring.
func NewUninstaller(opts UninstallOptions) (*Uninstaller, error) {
	switch {
	case opts.Store == nil:
		return nil, errors.New(errors.ErrInvalidInput, "uninstaller requires a ledger store")
	case opts.GameFiles == nil:
		return nil, errors.New(errors.ErrInvalidInput, "uninstaller requires a game-dir collaborator")
	case opts.Plugins == nil:
		return nil, errors.New(errors.ErrInvalidInput, "uninstaller requires a plugin manager")
	}
	return &Uninstaller{opts: opts, log: logging.GetLogger("uninstaller")}, nil
}

// Run uninstalls the named mod. Cancellation is polled between entries;
// a cancelled uninstall leaves the remaining ledger in the store so the
// operation can be re-run to completion.
func (u *Uninstaller) Run(ctx context.Context, name string) error {
	l, meta, err := u.opts.Store.Load(name)
	if err != nil {
		return err
	}
	u.log.Info().Str("mod", meta.Name).Int("files", l.FileCount()).Msg("starting uninstall")

	files := l.Files()
	u.opts.Progress.StartPhase("removing files", len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := u.removeFile(l, name, file); err != nil {
			return err
		}
		u.opts.Progress.Advance()
	}

	edits := l.IniEdits()
	u.opts.Progress.StartPhase("reverting edits", len(edits)+len(l.GameValueEdits()))
	for _, edit := range edits {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := u.revertIniEdit(l, edit); err != nil {
			return err
		}
		u.opts.Progress.Advance()
	}

	for _, edit := range l.GameValueEdits() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := u.revertGameValue(l, edit); err != nil {
			return err
		}
		u.opts.Progress.Advance()
	}

	if err := u.opts.Store.Delete(name); err != nil {
		return err
	}
	u.log.Info().Str("mod", meta.Name).Msg("uninstall complete")
	return nil
}

// removeFile takes one installed file out of the game tree. A file another
// installed mod also claims stays in place; otherwise the recorded
// original is restored, or the file removed when the mod introduced it.
// Plugin binaries are deactivated before they disappear.
func (u *Uninstaller) removeFile(l *ledger.Ledger, name, file string) error {
	claimed, err := u.opts.Store.FileClaimedByOther(file, name)
	if err != nil {
		return err
	}
	if claimed {
		u.log.Debug().Str("file", file).Msg("left in place, claimed by another mod")
		return nil
	}

	if types.IsPluginFile(file) {
		if err := u.opts.Plugins.SetPluginActivation(file, false); err != nil {
			return err
		}
	}

	if l.HasOriginalFile(file) {
		return u.opts.GameFiles.RestoreTarget(file)
	}
	return u.opts.GameFiles.RemoveTarget(file)
}

func (u *Uninstaller) revertIniEdit(l *ledger.Ledger, edit types.IniEdit) error {
	if u.opts.Ini == nil {
		return errors.New(errors.ErrInvalidInput, "ledger has INI edits but no INI collaborator is wired")
	}
	if orig, ok := l.OriginalIniValue(edit.File, edit.Section, edit.Key); ok {
		return u.opts.Ini.SetValue(edit.File, edit.Section, edit.Key, orig)
	}
	return u.opts.Ini.DeleteValue(edit.File, edit.Section, edit.Key)
}

func (u *Uninstaller) revertGameValue(l *ledger.Ledger, edit types.GameValueEdit) error {
	if u.opts.GameValues == nil {
		return errors.New(errors.ErrInvalidInput, "ledger has game-value edits but no game-value collaborator is wired")
	}
	if orig, ok := l.OriginalGameValue(edit.Key); ok {
		return u.opts.GameValues.SetValue(edit.Key, orig)
	}
	return u.opts.GameValues.DeleteValue(edit.Key)
}
