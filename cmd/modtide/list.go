package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modtide/modtide/pkg/filesystem"
	"github.com/modtide/modtide/pkg/ledger"
	"github.com/modtide/modtide/pkg/style"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed mods",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPaths()
		if err != nil {
			return err
		}

		store := ledger.NewStore(filesystem.NewOS(), p)
		metas, err := store.List()
		if err != nil {
			return err
		}
		if len(metas) == 0 {
			fmt.Println(style.Render(style.MutedStyle, "No mods installed"))
			return nil
		}

		var out strings.Builder
		out.WriteString(style.Render(style.TitleStyle, "Installed mods") + "\n\n")
		for _, meta := range metas {
			line := style.Render(style.NameStyle, meta.Name)
			if meta.Version != "" {
				line += " " + style.Render(style.MutedStyle, meta.Version)
			}
			out.WriteString(line + "\n")

			var details []string
			if meta.Author != "" {
				details = append(details, "by "+meta.Author)
			}
			if !meta.InstalledAt.IsZero() {
				details = append(details, "installed "+meta.InstalledAt.Format("2006-01-02"))
			}
			if len(details) > 0 {
				out.WriteString(style.Indent(style.Render(style.MutedStyle, strings.Join(details, ", ")), 1) + "\n")
			}
		}
		fmt.Print(out.String())
		return nil
	},
}
