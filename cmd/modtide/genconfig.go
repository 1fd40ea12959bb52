package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/style"
)

var genConfigWrite bool

var genConfigCmd = &cobra.Command{
	Use:   "gen-config",
	Short: "Print the effective configuration as TOML",
	Long: `gen-config resolves the configuration the way every command does
(built-in defaults, then the config file, then MODTIDE_* environment
variables) and prints the result as TOML. With -w it is written to the
config directory as a starting point for edits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
		}

		if !genConfigWrite {
			fmt.Print(string(data))
			return nil
		}

		dir := configDir()
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to create config dir %s", dir)
		}
		path := filepath.Join(dir, "modtide.toml")
		if _, err := os.Stat(path); err == nil {
			return errors.Newf(errors.ErrInvalidInput, "%s already exists, refusing to overwrite", path)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", path)
		}
		fmt.Println(style.Render(style.SuccessStyle, "Wrote "+path))
		return nil
	},
}

func init() {
	genConfigCmd.Flags().BoolVarP(&genConfigWrite, "write", "w", false, "Write to the config directory instead of stdout")
}
