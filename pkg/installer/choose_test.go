// pkg/installer/choose_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test non-interactive option selection rules

package installer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modtide/modtide/pkg/installer"
	"github.com/modtide/modtide/pkg/testutil"
	"github.com/modtide/modtide/pkg/types"
)

func opt(name string, kind types.OptionType, files ...string) types.Option {
	o := types.Option{Name: name, Type: kind}
	for _, f := range files {
		o.Files = append(o.Files, types.PluginFile{Source: f})
	}
	return o
}

func choose(t *testing.T, steps ...types.InstallStep) *types.InstallSelections {
	t.Helper()
	sel, err := (&installer.AutoChooser{}).Choose(types.HeaderInfo{}, steps, nil)
	require.NoError(t, err)
	return sel
}

func sources(sel *types.InstallSelections) []string {
	var out []string
	for _, pf := range sel.Files {
		out = append(out, pf.Source)
	}
	return out
}

func TestAutoChooser_GroupRules(t *testing.T) {
	tests := []struct {
		name  string
		group types.OptionGroup
		want  []string
	}{
		{
			name: "select_any_takes_required_and_recommended",
			group: types.OptionGroup{Type: types.SelectAny, Options: []types.Option{
				opt("a", types.OptionRequired, "a.esp"),
				opt("b", types.OptionRecommended, "b.esp"),
				opt("c", types.OptionOptional, "c.esp"),
			}},
			want: []string{"a.esp", "b.esp"},
		},
		{
			name: "select_all_takes_everything_usable",
			group: types.OptionGroup{Type: types.SelectAll, Options: []types.Option{
				opt("a", types.OptionOptional, "a.esp"),
				opt("b", types.OptionNotUsable, "b.esp"),
				opt("c", types.OptionOptional, "c.esp"),
			}},
			want: []string{"a.esp", "c.esp"},
		},
		{
			name: "select_exactly_one_prefers_required",
			group: types.OptionGroup{Type: types.SelectExactlyOne, Options: []types.Option{
				opt("a", types.OptionOptional, "a.esp"),
				opt("b", types.OptionRequired, "b.esp"),
			}},
			want: []string{"b.esp"},
		},
		{
			name: "select_exactly_one_falls_back_to_first_usable",
			group: types.OptionGroup{Type: types.SelectExactlyOne, Options: []types.Option{
				opt("a", types.OptionOptional, "a.esp"),
				opt("b", types.OptionOptional, "b.esp"),
			}},
			want: []string{"a.esp"},
		},
		{
			name: "select_at_least_one_falls_back_when_nothing_preferred",
			group: types.OptionGroup{Type: types.SelectAtLeastOne, Options: []types.Option{
				opt("a", types.OptionOptional, "a.esp"),
			}},
			want: []string{"a.esp"},
		},
		{
			name: "select_at_most_one_may_take_nothing",
			group: types.OptionGroup{Type: types.SelectAtMostOne, Options: []types.Option{
				opt("a", types.OptionOptional, "a.esp"),
			}},
			want: nil,
		},
		{
			name: "select_at_most_one_never_takes_two",
			group: types.OptionGroup{Type: types.SelectAtMostOne, Options: []types.Option{
				opt("a", types.OptionRecommended, "a.esp"),
				opt("b", types.OptionRecommended, "b.esp"),
			}},
			want: []string{"a.esp"},
		},
		{
			name: "select_at_most_one_prefers_required",
			group: types.OptionGroup{Type: types.SelectAtMostOne, Options: []types.Option{
				opt("a", types.OptionRecommended, "a.esp"),
				opt("b", types.OptionRequired, "b.esp"),
			}},
			want: []string{"b.esp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := choose(t, types.InstallStep{Groups: []types.OptionGroup{tt.group}})
			assert.Equal(t, tt.want, sources(sel))
		})
	}
}

func TestAutoChooser_SkipsInvisibleSteps(t *testing.T) {
	sel := choose(t,
		types.InstallStep{
			Visible: testutil.DependencyStub{Result: false},
			Groups: []types.OptionGroup{{Type: types.SelectAll, Options: []types.Option{
				opt("hidden", types.OptionOptional, "hidden.esp"),
			}}},
		},
		types.InstallStep{
			Groups: []types.OptionGroup{{Type: types.SelectAll, Options: []types.Option{
				opt("shown", types.OptionOptional, "shown.esp"),
			}}},
		},
	)
	assert.Equal(t, []string{"shown.esp"}, sources(sel))
}

func TestAutoChooser_RaisesFlagsAndActivation(t *testing.T) {
	option := opt("textures", types.OptionRecommended, "tex.esp")
	option.Flags = []types.FlagSet{{Name: "hires", Value: "on"}}

	sel := choose(t, types.InstallStep{Groups: []types.OptionGroup{
		{Type: types.SelectAny, Options: []types.Option{option}},
	}})

	assert.Equal(t, "on", sel.Flags["hires"])
	assert.True(t, sel.ActivationRequested("tex.esp"))
}

func TestAutoChooser_ExactlyOneWithNoUsableOption(t *testing.T) {
	_, err := (&installer.AutoChooser{}).Choose(types.HeaderInfo{}, []types.InstallStep{{
		Groups: []types.OptionGroup{{
			Name: "broken",
			Type: types.SelectExactlyOne,
			Options: []types.Option{
				opt("a", types.OptionNotUsable, "a.esp"),
			},
		}},
	}}, nil)
	assert.Error(t, err)
}
