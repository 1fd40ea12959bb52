package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/modtide/modtide/pkg/config"
	"github.com/modtide/modtide/pkg/logging"
	"github.com/modtide/modtide/pkg/paths"
	"github.com/modtide/modtide/pkg/style"
)

var (
	verbosity int
	gameDir   string
	dataDir   string
	colorMode string

	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "modtide",
		Short: "A transactional game-mod installer",
		Long: `modtide installs mod packages into a game directory while keeping a
per-mod ledger of every file placed, file overwritten, and setting changed,
so any mod can later be uninstalled with the pre-install state restored.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(verbosity)

			loaded, err := config.Load(configDir())
			if err != nil {
				return err
			}
			cfg = loaded

			mode := colorMode
			if mode == "" {
				mode = cfg.Output.Color
			}
			style.SetupColor(mode)

			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command and renders any error.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, style.Render(style.ErrorStyle, "Error: ")+err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&gameDir, "game-dir", "", "Game directory to manage (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for modtide's ledgers and backups")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "", "Color output: auto, always, never")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(genConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

// configDir resolves where the user config file lives; the environment
// override wins so tests and scripts can redirect it.
func configDir() string {
	if dir := os.Getenv(paths.EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, paths.ModtideDirName)
}

// newPaths builds the path layout from flags and config. Flags win over the
// config file; both win over environment defaults inside pkg/paths.
func newPaths() (paths.Paths, error) {
	game := gameDir
	if game == "" {
		game = cfg.GameDir
	}
	data := dataDir
	if data == "" {
		data = cfg.DataDir
	}
	return paths.New(paths.Options{
		GameDir:     game,
		DataDir:     data,
		PluginsFile: cfg.PluginsFile,
	})
}
