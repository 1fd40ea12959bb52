package script

import (
	"path/filepath"

	"github.com/beevik/etree"

	"github.com/modtide/modtide/pkg/errors"
	"github.com/modtide/modtide/pkg/types"
)

// ScriptFileName is where a mod package carries its install script,
// relative to the package root.
const ScriptFileName = "modtide.xml"

// Document is a parsed install script. It implements types.Script.
type Document struct {
	header           types.HeaderInfo
	modDependency    types.Dependency
	installSteps     []types.InstallStep
	requiredFiles    []types.PluginFile
	requiredIniEdits []types.IniEdit
	conditional      []types.ConditionalInstallPattern
}

var _ types.Script = (*Document)(nil)

// Header implements types.Script.
func (d *Document) Header() types.HeaderInfo { return d.header }

// ModDependency implements types.Script.
func (d *Document) ModDependency() types.Dependency { return d.modDependency }

// InstallSteps implements types.Script.
func (d *Document) InstallSteps() []types.InstallStep { return d.installSteps }

// RequiredFiles implements types.Script.
func (d *Document) RequiredFiles() []types.PluginFile { return d.requiredFiles }

// RequiredIniEdits implements types.Script.
func (d *Document) RequiredIniEdits() []types.IniEdit { return d.requiredIniEdits }

// ConditionalPatterns implements types.Script.
func (d *Document) ConditionalPatterns() []types.ConditionalInstallPattern { return d.conditional }

// ParseFile reads and parses the install script of the package rooted at
// packageRoot.
func ParseFile(fs types.FS, packageRoot string) (*Document, error) {
	path := filepath.Join(packageRoot, ScriptFileName)
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrScriptParse, "failed to read install script %s", path)
	}
	return Parse(data)
}

// Parse parses install script XML.
func Parse(data []byte) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrScriptParse, "malformed install script XML")
	}

	root := tree.SelectElement("installScript")
	if root == nil {
		return nil, errors.New(errors.ErrScriptInvalid, "install script has no <installScript> root")
	}

	doc := &Document{}

	if header := root.SelectElement("header"); header != nil {
		doc.header = types.HeaderInfo{
			Name:        header.SelectAttrValue("name", ""),
			Author:      header.SelectAttrValue("author", ""),
			Version:     header.SelectAttrValue("version", ""),
			Website:     header.SelectAttrValue("website", ""),
			Description: elementText(header, "description"),
		}
	}
	if doc.header.Name == "" {
		return nil, errors.New(errors.ErrScriptInvalid, "install script header has no mod name")
	}

	if deps := root.SelectElement("moduleDependencies"); deps != nil {
		dep, err := parseComposite(deps)
		if err != nil {
			return nil, err
		}
		doc.modDependency = dep
	}

	if required := root.SelectElement("requiredInstallFiles"); required != nil {
		files, err := parsePluginFiles(required)
		if err != nil {
			return nil, err
		}
		doc.requiredFiles = files

		for _, edit := range required.SelectElements("iniEdit") {
			ini, err := parseIniEdit(edit)
			if err != nil {
				return nil, err
			}
			doc.requiredIniEdits = append(doc.requiredIniEdits, ini)
		}
	}

	if steps := root.SelectElement("installSteps"); steps != nil {
		for _, stepEl := range steps.SelectElements("installStep") {
			step, err := parseInstallStep(stepEl)
			if err != nil {
				return nil, err
			}
			doc.installSteps = append(doc.installSteps, step)
		}
	}

	if conditionals := root.SelectElement("conditionalFileInstalls"); conditionals != nil {
		for _, patternEl := range conditionals.SelectElements("pattern") {
			pattern, err := parsePattern(patternEl)
			if err != nil {
				return nil, err
			}
			doc.conditional = append(doc.conditional, pattern)
		}
	}

	return doc, nil
}

func parseInstallStep(el *etree.Element) (types.InstallStep, error) {
	step := types.InstallStep{Name: el.SelectAttrValue("name", "")}

	if visible := el.SelectElement("visible"); visible != nil {
		dep, err := parseComposite(visible)
		if err != nil {
			return step, err
		}
		step.Visible = dep
	}

	for _, groupEl := range el.SelectElements("optionGroup") {
		group, err := parseOptionGroup(groupEl)
		if err != nil {
			return step, err
		}
		step.Groups = append(step.Groups, group)
	}

	return step, nil
}

func parseOptionGroup(el *etree.Element) (types.OptionGroup, error) {
	group := types.OptionGroup{Name: el.SelectAttrValue("name", "")}

	groupType, err := parseGroupType(el.SelectAttrValue("type", "SelectAny"))
	if err != nil {
		return group, err
	}
	group.Type = groupType

	for _, optionEl := range el.SelectElements("option") {
		option, err := parseOption(optionEl)
		if err != nil {
			return group, err
		}
		group.Options = append(group.Options, option)
	}

	if len(group.Options) == 0 {
		return group, errors.Newf(errors.ErrScriptInvalid, "option group %q has no options", group.Name)
	}

	return group, nil
}

func parseOption(el *etree.Element) (types.Option, error) {
	option := types.Option{
		Name:        el.SelectAttrValue("name", ""),
		Description: elementText(el, "description"),
	}

	optionType, err := parseOptionType(el.SelectAttrValue("type", "Optional"))
	if err != nil {
		return option, err
	}
	option.Type = optionType

	if files := el.SelectElement("files"); files != nil {
		parsed, err := parsePluginFiles(files)
		if err != nil {
			return option, err
		}
		option.Files = parsed
	}

	if flags := el.SelectElement("flags"); flags != nil {
		for _, flagEl := range flags.SelectElements("flag") {
			name := flagEl.SelectAttrValue("name", "")
			if name == "" {
				return option, errors.Newf(errors.ErrScriptInvalid, "option %q has a flag with no name", option.Name)
			}
			option.Flags = append(option.Flags, types.FlagSet{Name: name, Value: flagEl.Text()})
		}
	}

	return option, nil
}

func parsePattern(el *etree.Element) (types.ConditionalInstallPattern, error) {
	var pattern types.ConditionalInstallPattern

	deps := el.SelectElement("dependencies")
	if deps == nil {
		return pattern, errors.New(errors.ErrScriptInvalid, "conditional pattern has no <dependencies>")
	}
	dep, err := parseComposite(deps)
	if err != nil {
		return pattern, err
	}
	pattern.Dependency = dep

	files := el.SelectElement("files")
	if files == nil {
		return pattern, errors.New(errors.ErrScriptInvalid, "conditional pattern has no <files>")
	}
	pattern.Files, err = parsePluginFiles(files)
	if err != nil {
		return pattern, err
	}

	return pattern, nil
}

// parsePluginFiles collects the <file> and <folder> children of el, in
// document order.
func parsePluginFiles(el *etree.Element) ([]types.PluginFile, error) {
	var out []types.PluginFile
	for _, child := range el.ChildElements() {
		var isFolder bool
		switch child.Tag {
		case "file":
			isFolder = false
		case "folder":
			isFolder = true
		default:
			continue
		}
		source := child.SelectAttrValue("source", "")
		if source == "" {
			return nil, errors.Newf(errors.ErrScriptInvalid, "<%s> element has no source", child.Tag)
		}
		out = append(out, types.PluginFile{
			Source:      source,
			Destination: child.SelectAttrValue("destination", ""),
			IsFolder:    isFolder,
		})
	}
	return out, nil
}

func parseIniEdit(el *etree.Element) (types.IniEdit, error) {
	edit := types.IniEdit{
		File:    el.SelectAttrValue("file", ""),
		Section: el.SelectAttrValue("section", ""),
		Key:     el.SelectAttrValue("key", ""),
		Value:   el.SelectAttrValue("value", ""),
	}
	if edit.File == "" || edit.Section == "" || edit.Key == "" {
		return edit, errors.New(errors.ErrScriptInvalid, "<iniEdit> requires file, section and key")
	}
	return edit, nil
}

// parseComposite parses the dependency children of el into a single
// expression joined by el's operator attribute (And when absent).
func parseComposite(el *etree.Element) (types.Dependency, error) {
	op := And
	switch el.SelectAttrValue("operator", "And") {
	case "And":
		op = And
	case "Or":
		op = Or
	default:
		return nil, errors.Newf(errors.ErrScriptInvalid, "unknown dependency operator %q", el.SelectAttrValue("operator", ""))
	}

	var operands []types.Dependency
	for _, child := range el.ChildElements() {
		dep, err := parseDependency(child)
		if err != nil {
			return nil, err
		}
		operands = append(operands, dep)
	}

	// A single operand needs no composite wrapper.
	if op == And && len(operands) == 1 {
		return operands[0], nil
	}
	return &Composite{Op: op, Operands: operands}, nil
}

func parseDependency(el *etree.Element) (types.Dependency, error) {
	switch el.Tag {
	case "fileDependency":
		path := el.SelectAttrValue("file", "")
		if path == "" {
			return nil, errors.New(errors.ErrScriptInvalid, "<fileDependency> has no file")
		}
		state, err := parseFileState(el.SelectAttrValue("state", "Active"))
		if err != nil {
			return nil, err
		}
		return &FileDependency{Path: path, State: state}, nil

	case "flagDependency":
		flag := el.SelectAttrValue("flag", "")
		if flag == "" {
			return nil, errors.New(errors.ErrScriptInvalid, "<flagDependency> has no flag")
		}
		return &FlagDependency{Flag: flag, Value: el.SelectAttrValue("value", "")}, nil

	case "dependencies":
		return parseComposite(el)

	default:
		return nil, errors.Newf(errors.ErrScriptInvalid, "unknown dependency element <%s>", el.Tag)
	}
}

func parseFileState(s string) (types.FileActivationState, error) {
	switch s {
	case "Active":
		return types.FileActive, nil
	case "Inactive":
		return types.FileInactive, nil
	case "Missing":
		return types.FileMissing, nil
	default:
		return 0, errors.Newf(errors.ErrScriptInvalid, "unknown file dependency state %q", s)
	}
}

func parseGroupType(s string) (types.GroupType, error) {
	switch s {
	case "SelectAny":
		return types.SelectAny, nil
	case "SelectExactlyOne":
		return types.SelectExactlyOne, nil
	case "SelectAtMostOne":
		return types.SelectAtMostOne, nil
	case "SelectAtLeastOne":
		return types.SelectAtLeastOne, nil
	case "SelectAll":
		return types.SelectAll, nil
	default:
		return 0, errors.Newf(errors.ErrScriptInvalid, "unknown option group type %q", s)
	}
}

func parseOptionType(s string) (types.OptionType, error) {
	switch s {
	case "Optional":
		return types.OptionOptional, nil
	case "Recommended":
		return types.OptionRecommended, nil
	case "Required":
		return types.OptionRequired, nil
	case "NotUsable":
		return types.OptionNotUsable, nil
	default:
		return 0, errors.Newf(errors.ErrScriptInvalid, "unknown option type %q", s)
	}
}

func elementText(el *etree.Element, tag string) string {
	if child := el.SelectElement(tag); child != nil {
		return child.Text()
	}
	return ""
}
