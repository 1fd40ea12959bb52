package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/style"
	"github.com/modtide/modtide/pkg/types"
)

const noneChoice = "(none)"

// interactiveChooser walks the install steps with pterm prompts. Required
// options are taken without asking; the final confirmation rejects the
// whole install when declined.
type interactiveChooser struct{}

var _ types.Chooser = (*interactiveChooser)(nil)

func (c *interactiveChooser) Choose(header types.HeaderInfo, steps []types.InstallStep, state types.DependencyState) (*types.InstallSelections, error) {
	fmt.Println(style.Render(style.TitleStyle, header.Name))
	if header.Description != "" {
		fmt.Println(style.Indent(style.Render(style.MutedStyle, header.Description), 1))
	}

	sel := types.NewInstallSelections()
	for _, step := range steps {
		if step.Visible != nil && !step.Visible.Satisfied(state) {
			continue
		}
		if step.Name != "" {
			fmt.Println(style.Render(style.NameStyle, step.Name))
		}
		for _, group := range step.Groups {
			chosen, err := promptGroup(group)
			if err != nil {
				return nil, err
			}
			for _, opt := range chosen {
				takeOption(sel, opt)
			}
		}
	}

	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(true).
		Show(fmt.Sprintf("Install %s?", header.Name))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "confirmation prompt failed")
	}
	if !ok {
		return nil, errors.New(errors.ErrInstallRejected, "install cancelled by user")
	}
	return sel, nil
}

// promptGroup resolves one option group through the matching prompt shape.
func promptGroup(group types.OptionGroup) ([]types.Option, error) {
	var chosen []types.Option
	byName := make(map[string]types.Option)
	var names, preselected []string

	for _, opt := range group.Options {
		switch opt.Type {
		case types.OptionRequired:
			chosen = append(chosen, opt)
		case types.OptionNotUsable:
			// Shown nowhere; it cannot be selected anyway.
		default:
			byName[opt.Name] = opt
			names = append(names, opt.Name)
			if opt.Type == types.OptionRecommended {
				preselected = append(preselected, opt.Name)
			}
		}
	}

	if group.Type == types.SelectAll {
		for _, name := range names {
			chosen = append(chosen, byName[name])
		}
		return chosen, nil
	}
	if len(names) == 0 {
		return chosen, nil
	}

	switch group.Type {
	case types.SelectExactlyOne, types.SelectAtMostOne:
		opts := names
		if group.Type == types.SelectAtMostOne {
			opts = append([]string{noneChoice}, names...)
		}
		picked, err := pterm.DefaultInteractiveSelect.
			WithOptions(opts).
			Show(group.Name)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInternal, "prompt for group %q failed", group.Name)
		}
		if picked != noneChoice {
			chosen = append(chosen, byName[picked])
		}

	default: // SelectAny, SelectAtLeastOne
		for {
			picked, err := pterm.DefaultInteractiveMultiselect.
				WithOptions(names).
				WithDefaultOptions(preselected).
				Show(group.Name)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrInternal, "prompt for group %q failed", group.Name)
			}
			if group.Type == types.SelectAtLeastOne && len(picked)+len(chosen) == 0 {
				pterm.Warning.Printfln("Group %q needs at least one selection", group.Name)
				continue
			}
			for _, name := range picked {
				chosen = append(chosen, byName[name])
			}
			break
		}
	}

	return chosen, nil
}

// takeOption records an option's files and flags. Plugin binaries are
// marked for activation by their effective destination.
func takeOption(sel *types.InstallSelections, opt types.Option) {
	for _, pf := range opt.Files {
		dest := pf.Destination
		if dest == "" {
			dest = pf.Source
		}
		sel.AddFile(pf, !pf.IsFolder && types.IsPluginFile(dest))
	}
	for _, flag := range opt.Flags {
		sel.Flags[flag.Name] = flag.Value
	}
}
