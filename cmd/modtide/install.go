package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/filesystem"
	"github.com/modtide/modtide/pkg/gamedir"
	"github.com/modtide/modtide/pkg/gamevalues"
	"github.com/modtide/modtide/pkg/iniedit"
	"github.com/modtide/modtide/pkg/installer"
	"github.com/modtide/modtide/pkg/ledger"
	"github.com/modtide/modtide/pkg/logging"
	"github.com/modtide/modtide/pkg/manifest"
	"github.com/modtide/modtide/pkg/plugins"
	"github.com/modtide/modtide/pkg/script"
	"github.com/modtide/modtide/pkg/style"
	"github.com/modtide/modtide/pkg/types"
)

var (
	installName string
	installAuto bool
)

var installCmd = &cobra.Command{
	Use:   "install <package-dir>",
	Short: "Install a mod package into the game tree",
	Long: `Install copies a mod package's files into the game directory, driven by
the package's install script (modtide.xml) when present. Every change is
recorded in a per-mod ledger so the install can be exactly reversed.

A package without an install script is installed whole, file for file.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installName, "name", "", "Install under this mod name instead of the script's")
	installCmd.Flags().BoolVar(&installAuto, "auto", false, "Resolve install choices without prompting")
}

func runInstall(cmd *cobra.Command, args []string) error {
	logger := logging.GetLogger("cmd.install")

	p, err := newPaths()
	if err != nil {
		return err
	}

	pkgRoot, err := filepath.Abs(args[0])
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "bad package path %s", args[0])
	}
	info, err := os.Stat(pkgRoot)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrInvalidInput, "package %s is not a directory", pkgRoot)
	}

	fs := filesystem.NewOS()

	scr, err := loadScript(fs, pkgRoot)
	if err != nil {
		return err
	}

	name := installName
	if name == "" {
		name = scr.Header().Name
	}
	if name == "" {
		name = filepath.Base(pkgRoot)
	}

	store := ledger.NewStore(fs, p)
	installed, err := store.IsInstalled(name)
	if err != nil {
		return err
	}
	if installed {
		return errors.Newf(errors.ErrModAlreadyInstalled, "mod %q is already installed", name)
	}

	var chooser types.Chooser
	if !installAuto && style.Interactive() {
		chooser = &interactiveChooser{}
	}

	progress := &installer.Progress{}
	in, err := installer.New(installer.Options{
		Script:     scr,
		Chooser:    chooser,
		GameFiles:  gamedir.New(fs, p.GameDir(), pkgRoot, p.BackupsDir(name)),
		Plugins:    plugins.New(fs, p.PluginsFilePath()),
		Ini:        iniedit.New(fs, p.GameDir()),
		GameValues: gamevalues.New(fs, filepath.Join(p.DataDir(), "gamevalues.json")),
		Manifest:   manifest.New(fs, pkgRoot),
		Progress:   progress,
	})
	if err != nil {
		return err
	}

	// The install worker runs on its own goroutine; this goroutine owns the
	// display and the signal-driven cancellation.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() {
		_, runErr := in.Run(ctx)
		done <- runErr
	}()
	runErr := watchProgress(progress, done)

	meta := ledger.Meta{
		Name:        name,
		Version:     scr.Header().Version,
		Author:      scr.Header().Author,
		InstalledAt: time.Now(),
	}

	switch {
	case runErr == nil:
		if err := store.Save(meta, in.Ledger()); err != nil {
			return err
		}
		logger.Info().Str("mod", name).Msg("install finished")
		fmt.Println(style.Render(style.SuccessStyle,
			fmt.Sprintf("Installed %s (%d files, %d edits)", name, in.Ledger().FileCount(), in.Ledger().EditCount())))
		return nil

	case errors.IsErrorCode(runErr, errors.ErrInstallRejected):
		fmt.Println(style.Render(style.MutedStyle, "Installation cancelled, nothing changed."))
		return nil

	case ctx.Err() != nil && !in.Ledger().Empty():
		// Interrupted mid-transaction: keep the partial ledger so the mod
		// can be uninstalled or the install retried.
		if err := store.Save(meta, in.Ledger()); err != nil {
			return err
		}
		fmt.Println(style.Render(style.WarnStyle,
			fmt.Sprintf("Install interrupted; %d files recorded. Run 'modtide uninstall %s' to revert.",
				in.Ledger().FileCount(), name)))
		return nil

	case ctx.Err() != nil:
		fmt.Println(style.Render(style.MutedStyle, "Install interrupted before any change."))
		return nil

	default:
		// A mid-transaction failure has already mutated the game tree; the
		// partial ledger is the only record that can undo it.
		if !in.Ledger().Empty() {
			if saveErr := store.Save(meta, in.Ledger()); saveErr != nil {
				logger.Error().Err(saveErr).Str("mod", name).Msg("failed to save partial ledger after install error")
			} else {
				fmt.Println(style.Render(style.WarnStyle,
					fmt.Sprintf("Install failed; %d files recorded. Run 'modtide uninstall %s' to revert.",
						in.Ledger().FileCount(), name)))
			}
		}
		return runErr
	}
}

// loadScript parses the package's install script, falling back to the
// whole-package basic script when none ships.
func loadScript(fs types.FS, pkgRoot string) (types.Script, error) {
	if _, err := fs.Stat(filepath.Join(pkgRoot, script.ScriptFileName)); err != nil {
		if os.IsNotExist(err) {
			return script.Basic(filepath.Base(pkgRoot)), nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to check for install script in %s", pkgRoot)
	}
	return script.ParseFile(fs, pkgRoot)
}

// watchProgress renders a progress bar from the worker's counters until
// the worker finishes. Without a terminal it just waits.
func watchProgress(progress *installer.Progress, done <-chan error) error {
	if !style.Interactive() {
		return <-done
	}

	bar, _ := pterm.DefaultProgressbar.WithTotal(1).WithTitle("preparing").Start()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	shown := 0
	for {
		select {
		case err := <-done:
			if bar != nil {
				_, _ = bar.Stop()
			}
			return err
		case <-ticker.C:
			if bar == nil {
				continue
			}
			phase, doneCount, total := progress.Snapshot()
			if phase != "" {
				bar.UpdateTitle(phase)
			}
			if total > bar.Total {
				bar.Total = total
			}
			if doneCount > shown {
				bar.Add(doneCount - shown)
				shown = doneCount
			}
		}
	}
}
