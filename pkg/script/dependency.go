package script

import (
	"fmt"
	"strings"

	"github.com/modtide/modtide/pkg/types"
)

// Operator joins the operands of a composite dependency.
type Operator int

const (
	And Operator = iota
	Or
)

// FileDependency requires a game-tree file to be in a particular
// activation state.
type FileDependency struct {
	Path  string
	State types.FileActivationState
}

// Satisfied implements types.Dependency.
func (d *FileDependency) Satisfied(state types.DependencyState) bool {
	return state.FileState(d.Path) == d.State
}

// Describe implements types.Dependency.
func (d *FileDependency) Describe() string {
	return fmt.Sprintf("file %q is %s", d.Path, fileStateName(d.State))
}

// FlagDependency requires a condition flag, raised by an earlier option
// selection, to hold a particular value.
type FlagDependency struct {
	Flag  string
	Value string
}

// Satisfied implements types.Dependency.
func (d *FlagDependency) Satisfied(state types.DependencyState) bool {
	v, ok := state.FlagValue(d.Flag)
	return ok && v == d.Value
}

// Describe implements types.Dependency.
func (d *FlagDependency) Describe() string {
	return fmt.Sprintf("flag %q equals %q", d.Flag, d.Value)
}

// Composite combines dependencies with And or Or. An empty And is
// satisfied; an empty Or is not.
type Composite struct {
	Op       Operator
	Operands []types.Dependency
}

// Satisfied implements types.Dependency.
func (c *Composite) Satisfied(state types.DependencyState) bool {
	if c.Op == Or {
		for _, d := range c.Operands {
			if d.Satisfied(state) {
				return true
			}
		}
		return false
	}
	for _, d := range c.Operands {
		if !d.Satisfied(state) {
			return false
		}
	}
	return true
}

// Describe implements types.Dependency.
func (c *Composite) Describe() string {
	if len(c.Operands) == 0 {
		if c.Op == Or {
			return "(none of nothing)"
		}
		return "(always)"
	}
	parts := make([]string, len(c.Operands))
	for i, d := range c.Operands {
		parts[i] = d.Describe()
	}
	sep := " and "
	if c.Op == Or {
		sep = " or "
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func fileStateName(s types.FileActivationState) string {
	switch s {
	case types.FileActive:
		return "Active"
	case types.FileInactive:
		return "Inactive"
	default:
		return "Missing"
	}
}
