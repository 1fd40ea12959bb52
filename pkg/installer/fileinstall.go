package installer

import (
	"context"
	"strings"

	"github.com/modtide/modtide/pkg/manifest"
	"github.com/modtide/modtide/pkg/types"
)

// installPluginFile applies one script file entry. Folder entries expand
// through the package manifest; the activate policy decides whether a
// classified plugin-binary file is registered for activation.
func (in *Installer) installPluginFile(ctx context.Context, pf types.PluginFile, activate func(string) bool) error {
	if pf.IsFolder {
		return in.installFolder(ctx, pf, activate)
	}

	dest := pf.Destination
	if dest == "" {
		dest = pf.Source
	}
	// Single files always classify on their effective destination; with no
	// destination given that is the source path, so the source extension
	// decides.
	return in.installOne(pf.Source, dest, true, activate)
}

// installFolder copies every file beneath the folder, preserving relative
// layout under the destination. Only a folder landing at the tree root
// (empty destination) classifies its files for activation; files placed
// under a named destination are never auto-activated.
func (in *Installer) installFolder(ctx context.Context, pf types.PluginFile, activate func(string) bool) error {
	files, err := in.opts.Manifest.FilesUnder(pf.Source)
	if err != nil {
		return err
	}
	in.opts.Progress.AddTotal(len(files))

	atRoot := pf.Destination == ""
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := manifest.Relative(pf.Source, file)
		dest := rel
		if !atRoot {
			dest = strings.TrimSuffix(strings.ReplaceAll(pf.Destination, `\`, "/"), "/") + "/" + rel
		}
		if err := in.installOne(file, dest, atRoot, activate); err != nil {
			return err
		}
		in.opts.Progress.Advance()
	}
	return nil
}

// installOne copies a single package file to a game-tree destination,
// backing up a displaced pre-existing file on first touch, and records the
// result in the ledger.
func (in *Installer) installOne(source, dest string, classify bool, activate func(string) bool) error {
	norm := types.NormalizePath(dest)

	// Back up whatever is about to be displaced, once per path. A target
	// this transaction already owns is the mod's own earlier copy, not an
	// original.
	if _, done := in.backedUpFiles[norm]; !done && !in.ledger.ContainsFile(dest) {
		exists, err := in.opts.GameFiles.TargetExists(dest)
		if err != nil {
			return err
		}
		if exists {
			if err := in.opts.GameFiles.BackupTarget(dest); err != nil {
				return err
			}
			in.ledger.BackupOriginalFile(dest)
			in.backedUpFiles[norm] = struct{}{}
		}
	}

	if err := in.opts.GameFiles.CopyDataFile(source, dest); err != nil {
		return err
	}
	in.ledger.AddFile(dest)
	in.log.Debug().Str("source", source).Str("dest", norm).Msg("installed file")

	if classify && types.IsPluginFile(dest) && activate(dest) {
		if err := in.opts.Plugins.SetPluginActivation(dest, true); err != nil {
			return err
		}
		in.log.Debug().Str("plugin", norm).Msg("activated plugin")
	}
	return nil
}
