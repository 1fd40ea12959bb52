package installer

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/ledger"
	"github.com/modtide/modtide/pkg/logging"
	"github.com/modtide/modtide/pkg/manifest"
	"github.com/modtide/modtide/pkg/types"
)

// Options wires one install transaction. Script, GameFiles, Plugins and
// Manifest are required; a nil Chooser falls back to the AutoChooser, and
// Ini/GameValues may be nil when the script requests no such edits.
type Options struct {
	Script     types.Script
	Chooser    types.Chooser
	GameFiles  types.GameFiles
	Plugins    types.PluginManager
	Ini        types.IniEditor
	GameValues types.GameValueStore
	Manifest   *manifest.Manifest
	Progress   *Progress
}

// Installer drives one mod install transaction.
type Installer struct {
	opts   Options
	ledger *ledger.Ledger
	state  *txState
	log    zerolog.Logger

	// Per-transaction backup suppression: backup collaborators are called
	// at most once per key, keeping the first-write-wins originals honest.
	backedUpFiles map[string]struct{}
	touchedIni    map[ledger.IniKey]struct{}
	touchedValues map[string]struct{}
}

// New validates the wiring and prepares a transaction with an empty ledger.
func New(opts Options) (*Installer, error) {
	switch {
	case opts.Script == nil:
		return nil, errors.New(errors.ErrInvalidInput, "installer requires a script")
	case opts.GameFiles == nil:
		return nil, errors.New(errors.ErrInvalidInput, "installer requires a game-dir collaborator")
	case opts.Plugins == nil:
		return nil, errors.New(errors.ErrInvalidInput, "installer requires a plugin manager")
	case opts.Manifest == nil:
		return nil, errors.New(errors.ErrInvalidInput, "installer requires a package manifest")
	}
	if opts.Chooser == nil {
		opts.Chooser = &AutoChooser{}
	}

	log := logging.GetLogger("installer")
	return &Installer{
		opts:   opts,
		ledger: ledger.New(),
		state: &txState{
			gameFiles: opts.GameFiles,
			plugins:   opts.Plugins,
			flags:     make(map[string]string),
			log:       log,
		},
		log:           log,
		backedUpFiles: make(map[string]struct{}),
		touchedIni:    make(map[ledger.IniKey]struct{}),
		touchedValues: make(map[string]struct{}),
	}, nil
}

// Ledger returns the transaction's change ledger. After a cancelled Run it
// holds the changes applied up to the cancellation point.
func (in *Installer) Ledger() *ledger.Ledger {
	return in.ledger
}

// Run executes the transaction. It returns the populated ledger on
// success; on cancellation it returns ctx.Err() and the partial ledger
// remains available through Ledger(). A dependency failure or chooser
// rejection returns before anything is touched.
func (in *Installer) Run(ctx context.Context) (*ledger.Ledger, error) {
	header := in.opts.Script.Header()
	in.log.Info().Str("mod", header.Name).Str("version", header.Version).Msg("starting install")

	// Phase 1: the mod's overall requirement gates the whole transaction.
	if dep := in.opts.Script.ModDependency(); dep != nil && !dep.Satisfied(in.state) {
		return nil, errors.Newf(errors.ErrDependencyUnsatisfied,
			"mod requires %s", dep.Describe())
	}

	// Phase 2: resolve steps into selections. Zero steps means there is
	// nothing to choose; the chooser is skipped entirely.
	selections := types.NewInstallSelections()
	if steps := in.opts.Script.InstallSteps(); len(steps) > 0 {
		chosen, err := in.opts.Chooser.Choose(header, steps, in.state)
		if err != nil {
			return nil, err
		}
		selections = chosen
	}
	in.state.setFlags(selections.Flags)

	// Phase 3: required files, activation forced on.
	required := in.opts.Script.RequiredFiles()
	in.opts.Progress.StartPhase("required files", len(required))
	for _, pf := range required {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := in.installPluginFile(ctx, pf, activateAlways); err != nil {
			return nil, err
		}
		in.opts.Progress.Advance()
	}

	// Required INI edits ride along with the required phase.
	for _, edit := range in.opts.Script.RequiredIniEdits() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := in.EditIni(edit.File, edit.Section, edit.Key, edit.Value); err != nil {
			return nil, err
		}
	}

	// Phase 4: chosen files, activated only on explicit selection.
	in.opts.Progress.StartPhase("selected files", len(selections.Files))
	for _, pf := range selections.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := in.installPluginFile(ctx, pf, selections.ActivationRequested); err != nil {
			return nil, err
		}
		in.opts.Progress.Advance()
	}

	// Phase 5: conditional patterns, evaluated against the state the
	// earlier phases produced, activation forced on.
	patterns := in.opts.Script.ConditionalPatterns()
	in.opts.Progress.StartPhase("conditional files", len(patterns))
	for _, pattern := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pattern.Dependency != nil && !pattern.Dependency.Satisfied(in.state) {
			in.opts.Progress.Advance()
			continue
		}
		for _, pf := range pattern.Files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := in.installPluginFile(ctx, pf, activateAlways); err != nil {
				return nil, err
			}
		}
		in.opts.Progress.Advance()
	}

	in.log.Info().Str("mod", header.Name).
		Int("files", in.ledger.FileCount()).
		Int("edits", in.ledger.EditCount()).
		Msg("install complete")
	return in.ledger, nil
}

// EditIni applies one INI change: the pre-existing value is backed up on
// the first touch of the key, then the edit is recorded and applied.
func (in *Installer) EditIni(file, section, key, value string) error {
	if in.opts.Ini == nil {
		return errors.New(errors.ErrInvalidInput, "no INI collaborator wired")
	}

	id := ledger.NewIniKey(file, section, key)
	if _, touched := in.touchedIni[id]; !touched {
		in.touchedIni[id] = struct{}{}
		orig, found, err := in.opts.Ini.Value(file, section, key)
		if err != nil {
			return err
		}
		if found {
			in.ledger.BackupOriginalIniValue(file, section, key, orig)
		}
	}

	in.ledger.AddIniEdit(file, section, key, value)
	return in.opts.Ini.SetValue(file, section, key, value)
}

// EditGameValue applies one game-specific value change with the same
// backup-on-first-touch rule as EditIni.
func (in *Installer) EditGameValue(key string, data []byte) error {
	if in.opts.GameValues == nil {
		return errors.New(errors.ErrInvalidInput, "no game-value collaborator wired")
	}

	// Game-value identity is case-folded; the suppression set must fold
	// too, or a re-edit in different case records the mod's own first
	// value as the original.
	folded := strings.ToLower(key)
	if _, touched := in.touchedValues[folded]; !touched {
		in.touchedValues[folded] = struct{}{}
		orig, found, err := in.opts.GameValues.Value(key)
		if err != nil {
			return err
		}
		if found {
			in.ledger.BackupOriginalGameValue(key, orig)
		}
	}

	in.ledger.AddGameValueEdit(key, data)
	return in.opts.GameValues.SetValue(key, data)
}

// activateAlways is the activation policy of the required and conditional
// phases: every plugin-binary file is activated.
func activateAlways(string) bool { return true }
