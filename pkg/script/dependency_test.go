// pkg/script/dependency_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test dependency expression evaluation

package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modtide/modtide/pkg/script"
	"github.com/modtide/modtide/pkg/types"
)

// fakeState is a canned dependency state for evaluation tests.
type fakeState struct {
	files map[string]types.FileActivationState
	flags map[string]string
}

func (s *fakeState) FileState(path string) types.FileActivationState {
	return s.files[types.NormalizePath(path)]
}

func (s *fakeState) FlagValue(name string) (string, bool) {
	v, ok := s.flags[name]
	return v, ok
}

func TestDependencyEvaluation(t *testing.T) {
	state := &fakeState{
		files: map[string]types.FileActivationState{
			"base.esm":  types.FileActive,
			"other.esp": types.FileInactive,
		},
		flags: map[string]string{"hires": "on"},
	}

	tests := []struct {
		name string
		dep  types.Dependency
		want bool
	}{
		{
			name: "file_active",
			dep:  &script.FileDependency{Path: "Base.ESM", State: types.FileActive},
			want: true,
		},
		{
			name: "file_wrong_state",
			dep:  &script.FileDependency{Path: "other.esp", State: types.FileActive},
			want: false,
		},
		{
			name: "file_missing",
			dep:  &script.FileDependency{Path: "gone.esp", State: types.FileMissing},
			want: true,
		},
		{
			name: "flag_match",
			dep:  &script.FlagDependency{Flag: "hires", Value: "on"},
			want: true,
		},
		{
			name: "flag_absent",
			dep:  &script.FlagDependency{Flag: "lowres", Value: "on"},
			want: false,
		},
		{
			name: "and_all_hold",
			dep: &script.Composite{Op: script.And, Operands: []types.Dependency{
				&script.FileDependency{Path: "base.esm", State: types.FileActive},
				&script.FlagDependency{Flag: "hires", Value: "on"},
			}},
			want: true,
		},
		{
			name: "and_one_fails",
			dep: &script.Composite{Op: script.And, Operands: []types.Dependency{
				&script.FileDependency{Path: "base.esm", State: types.FileActive},
				&script.FlagDependency{Flag: "hires", Value: "off"},
			}},
			want: false,
		},
		{
			name: "or_one_holds",
			dep: &script.Composite{Op: script.Or, Operands: []types.Dependency{
				&script.FileDependency{Path: "gone.esp", State: types.FileActive},
				&script.FlagDependency{Flag: "hires", Value: "on"},
			}},
			want: true,
		},
		{
			name: "empty_and_is_satisfied",
			dep:  &script.Composite{Op: script.And},
			want: true,
		},
		{
			name: "empty_or_is_not",
			dep:  &script.Composite{Op: script.Or},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dep.Satisfied(state))
		})
	}
}

func TestDescribe(t *testing.T) {
	dep := &script.Composite{Op: script.Or, Operands: []types.Dependency{
		&script.FileDependency{Path: "base.esm", State: types.FileActive},
		&script.FlagDependency{Flag: "hires", Value: "on"},
	}}

	assert.Equal(t, `(file "base.esm" is Active or flag "hires" equals "on")`, dep.Describe())
}
