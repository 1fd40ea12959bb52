package installer

import (
	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/types"
)

// AutoChooser resolves install steps without user interaction: required
// options are always taken, recommended options are taken by default, and
// groups that demand a choice fall back to their first usable option.
type AutoChooser struct{}

var _ types.Chooser = (*AutoChooser)(nil)

// Choose implements types.Chooser.
func (c *AutoChooser) Choose(_ types.HeaderInfo, steps []types.InstallStep, state types.DependencyState) (*types.InstallSelections, error) {
	sel := types.NewInstallSelections()

	for _, step := range steps {
		if step.Visible != nil && !step.Visible.Satisfied(state) {
			continue
		}
		for _, group := range step.Groups {
			picked, err := pickOptions(group)
			if err != nil {
				return nil, err
			}
			for _, opt := range picked {
				selectOption(sel, opt)
			}
		}
	}
	return sel, nil
}

// pickOptions applies the group's selection rule without user input.
func pickOptions(group types.OptionGroup) ([]types.Option, error) {
	var picked []types.Option

	switch group.Type {
	case types.SelectAll:
		for _, opt := range group.Options {
			if opt.Type != types.OptionNotUsable {
				picked = append(picked, opt)
			}
		}

	case types.SelectExactlyOne:
		if opt, ok := pickSingle(group); ok {
			picked = append(picked, opt)
		} else {
			return nil, errors.Newf(errors.ErrScriptInvalid,
				"group %q requires a choice but has no usable option", group.Name)
		}

	case types.SelectAtLeastOne:
		picked = pickPreferred(group)
		if len(picked) == 0 {
			if opt, ok := pickSingle(group); ok {
				picked = append(picked, opt)
			} else {
				return nil, errors.Newf(errors.ErrScriptInvalid,
					"group %q requires a choice but has no usable option", group.Name)
			}
		}

	case types.SelectAtMostOne:
		// Never more than one, and nothing when no option is required or
		// recommended.
		if opt, ok := pickBest(group, types.OptionRequired, types.OptionRecommended); ok {
			picked = append(picked, opt)
		}

	default: // SelectAny
		picked = pickPreferred(group)
	}

	return picked, nil
}

// pickPreferred returns the required and recommended options of a group.
func pickPreferred(group types.OptionGroup) []types.Option {
	var picked []types.Option
	for _, opt := range group.Options {
		if opt.Type == types.OptionRequired || opt.Type == types.OptionRecommended {
			picked = append(picked, opt)
		}
	}
	return picked
}

// pickSingle returns the best single option: required wins over
// recommended, recommended over the first usable.
func pickSingle(group types.OptionGroup) (types.Option, bool) {
	return pickBest(group, types.OptionRequired, types.OptionRecommended, types.OptionOptional)
}

// pickBest returns the first option matching the given types, tried in
// preference order.
func pickBest(group types.OptionGroup, wants ...types.OptionType) (types.Option, bool) {
	for _, want := range wants {
		for _, opt := range group.Options {
			if opt.Type == want {
				return opt, true
			}
		}
	}
	return types.Option{}, false
}

// selectOption records an option's files and flags into the selections.
// Plugin files are marked for activation by their effective destination.
func selectOption(sel *types.InstallSelections, opt types.Option) {
	for _, pf := range opt.Files {
		dest := pf.Destination
		if dest == "" {
			dest = pf.Source
		}
		activate := !pf.IsFolder && types.IsPluginFile(dest)
		sel.AddFile(pf, activate)
	}
	for _, flag := range opt.Flags {
		sel.Flags[flag.Name] = flag.Value
	}
}
