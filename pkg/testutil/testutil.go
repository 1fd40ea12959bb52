// Package testutil provides stub and recording collaborators for driver
// tests. Real filesystem-backed collaborators live in their own packages;
// these exist to script scenarios and observe call sequences.
package testutil

import (
	"sync"

	"github.com/modtide/modtide/pkg/types"
)

// ScriptStub is a canned types.Script.
type ScriptStub struct {
	HeaderInfo types.HeaderInfo
	Dependency types.Dependency
	Steps      []types.InstallStep
	Required   []types.PluginFile
	IniEdits   []types.IniEdit
	Patterns   []types.ConditionalInstallPattern
}

var _ types.Script = (*ScriptStub)(nil)

func (s *ScriptStub) Header() types.HeaderInfo          { return s.HeaderInfo }
func (s *ScriptStub) ModDependency() types.Dependency   { return s.Dependency }
func (s *ScriptStub) InstallSteps() []types.InstallStep { return s.Steps }
func (s *ScriptStub) RequiredFiles() []types.PluginFile { return s.Required }
func (s *ScriptStub) RequiredIniEdits() []types.IniEdit { return s.IniEdits }
func (s *ScriptStub) ConditionalPatterns() []types.ConditionalInstallPattern {
	return s.Patterns
}

// DependencyStub is a dependency with a fixed result.
type DependencyStub struct {
	Result bool
	Desc   string
}

var _ types.Dependency = DependencyStub{}

func (d DependencyStub) Satisfied(types.DependencyState) bool { return d.Result }
func (d DependencyStub) Describe() string                     { return d.Desc }

// ChooserStub returns fixed selections, or a fixed error.
type ChooserStub struct {
	Selections *types.InstallSelections
	Err        error
}

var _ types.Chooser = (*ChooserStub)(nil)

func (c *ChooserStub) Choose(types.HeaderInfo, []types.InstallStep, types.DependencyState) (*types.InstallSelections, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Selections, nil
}

// RecordingGameFiles wraps a real types.GameFiles and records every
// mutating call. The optional AfterCopy hook runs after each completed
// copy, which lets a test cancel a context between files.
type RecordingGameFiles struct {
	Inner     types.GameFiles
	AfterCopy func(dest string)

	mu      sync.Mutex
	Copies  []string
	Backups []string
}

var _ types.GameFiles = (*RecordingGameFiles)(nil)

func (r *RecordingGameFiles) CopyDataFile(source, dest string) error {
	if err := r.Inner.CopyDataFile(source, dest); err != nil {
		return err
	}
	r.mu.Lock()
	r.Copies = append(r.Copies, types.NormalizePath(dest))
	r.mu.Unlock()
	if r.AfterCopy != nil {
		r.AfterCopy(dest)
	}
	return nil
}

func (r *RecordingGameFiles) TargetExists(dest string) (bool, error) {
	return r.Inner.TargetExists(dest)
}

func (r *RecordingGameFiles) BackupTarget(dest string) error {
	if err := r.Inner.BackupTarget(dest); err != nil {
		return err
	}
	r.mu.Lock()
	r.Backups = append(r.Backups, types.NormalizePath(dest))
	r.mu.Unlock()
	return nil
}

func (r *RecordingGameFiles) RestoreTarget(dest string) error {
	return r.Inner.RestoreTarget(dest)
}

func (r *RecordingGameFiles) RemoveTarget(dest string) error {
	return r.Inner.RemoveTarget(dest)
}

// CopyCount returns how many copies completed.
func (r *RecordingGameFiles) CopyCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Copies)
}
