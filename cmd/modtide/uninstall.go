package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modtide/modtide/pkg/filesystem"
	"github.com/modtide/modtide/pkg/gamedir"
	"github.com/modtide/modtide/pkg/gamevalues"
	"github.com/modtide/modtide/pkg/iniedit"
	"github.com/modtide/modtide/pkg/installer"
	"github.com/modtide/modtide/pkg/ledger"
	"github.com/modtide/modtide/pkg/plugins"
	"github.com/modtide/modtide/pkg/style"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <mod-name>",
	Short: "Uninstall a mod, restoring what it displaced",
	Long: `Uninstall replays a mod's ledger in reverse: its files are removed from
the game tree (or the displaced originals restored), plugin binaries are
deactivated, and INI and game-value edits are reverted. Files another
installed mod still claims are left in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func runUninstall(cmd *cobra.Command, args []string) error {
	name := args[0]

	p, err := newPaths()
	if err != nil {
		return err
	}

	fs := filesystem.NewOS()
	progress := &installer.Progress{}
	u, err := installer.NewUninstaller(installer.UninstallOptions{
		Store:      ledger.NewStore(fs, p),
		GameFiles:  gamedir.New(fs, p.GameDir(), "", p.BackupsDir(name)),
		Plugins:    plugins.New(fs, p.PluginsFilePath()),
		Ini:        iniedit.New(fs, p.GameDir()),
		GameValues: gamevalues.New(fs, filepath.Join(p.DataDir(), "gamevalues.json")),
		Progress:   progress,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- u.Run(ctx, name) }()
	runErr := watchProgress(progress, done)

	if runErr != nil {
		if ctx.Err() != nil {
			fmt.Println(style.Render(style.WarnStyle,
				fmt.Sprintf("Uninstall interrupted; run 'modtide uninstall %s' again to finish.", name)))
			return nil
		}
		return runErr
	}

	fmt.Println(style.Render(style.SuccessStyle, fmt.Sprintf("Uninstalled %s", name)))
	return nil
}
