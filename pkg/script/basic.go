package script

import (
	"github.com/modtide/modtide/pkg/types"
)

// basicScript is the implicit script of a package that ships none: every
// file is installed to its package-relative path, and plugin binaries are
// activated because the whole package lands at the tree root.
type basicScript struct {
	name string
}

var _ types.Script = (*basicScript)(nil)

// Basic returns the fallback script for a scriptless package.
func Basic(name string) types.Script {
	return &basicScript{name: name}
}

func (b *basicScript) Header() types.HeaderInfo {
	return types.HeaderInfo{Name: b.name}
}

func (b *basicScript) ModDependency() types.Dependency   { return nil }
func (b *basicScript) InstallSteps() []types.InstallStep { return nil }

func (b *basicScript) RequiredFiles() []types.PluginFile {
	return []types.PluginFile{{Source: "", IsFolder: true}}
}

func (b *basicScript) RequiredIniEdits() []types.IniEdit { return nil }
func (b *basicScript) ConditionalPatterns() []types.ConditionalInstallPattern {
	return nil
}
