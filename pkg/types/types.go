package types

// HeaderInfo carries the descriptive metadata of a mod's install script.
type HeaderInfo struct {
	Name        string
	Author      string
	Version     string
	Description string
	Website     string
}

// PluginFile describes one file or folder the script wants placed into the
// game tree. Source is relative to the mod package root, Destination to the
// game tree root. An empty Destination means "same relative path as Source"
// for single files, and "the game tree root" for folders.
type PluginFile struct {
	Source      string
	Destination string
	IsFolder    bool
}

// GroupType controls how many options may be picked from an OptionGroup.
type GroupType int

const (
	SelectAny GroupType = iota
	SelectExactlyOne
	SelectAtMostOne
	SelectAtLeastOne
	SelectAll
)

// OptionType is the script author's hint about a single option.
type OptionType int

const (
	// OptionOptional options are offered with no default.
	OptionOptional OptionType = iota

	// OptionRecommended options are pre-selected by non-interactive choosers.
	OptionRecommended

	// OptionRequired options are always installed regardless of choice.
	OptionRequired

	// OptionNotUsable options are shown but cannot be selected.
	OptionNotUsable
)

// FlagSet is a condition flag an option raises when it is selected. Flags
// are visible to flag dependencies evaluated later in the transaction.
type FlagSet struct {
	Name  string
	Value string
}

// Option is one choice inside an option group.
type Option struct {
	Name        string
	Description string
	Type        OptionType
	Files       []PluginFile
	Flags       []FlagSet
}

// OptionGroup is a named set of options with a selection rule.
type OptionGroup struct {
	Name    string
	Type    GroupType
	Options []Option
}

// InstallStep is an ordered, dependency-gated group of choices. A step with
// a non-nil Visible dependency is skipped entirely when the dependency is
// unsatisfied at choice time.
type InstallStep struct {
	Name    string
	Visible Dependency
	Groups  []OptionGroup
}

// IniEdit is a single INI key change the script requests.
type IniEdit struct {
	File    string
	Section string
	Key     string
	Value   string
}

// GameValueEdit is a keyed opaque binary setting change (a registry-like
// value outside the file system and INI files).
type GameValueEdit struct {
	Key  string
	Data []byte
}

// ConditionalInstallPattern pairs a dependency expression with the files to
// install when it holds. The expression is evaluated live, after required
// and user-chosen files have already been applied.
type ConditionalInstallPattern struct {
	Dependency Dependency
	Files      []PluginFile
}

// InstallSelections is what a chooser hands back after the user (or an
// auto-selection policy) has resolved the install steps.
type InstallSelections struct {
	// Files to install, in script order.
	Files []PluginFile

	// ActivatePlugins holds the normalized destination paths of plugin
	// files the user explicitly wants activated.
	ActivatePlugins map[string]struct{}

	// Flags raised by the selected options.
	Flags map[string]string
}

// NewInstallSelections returns an empty, fully initialized selection set.
func NewInstallSelections() *InstallSelections {
	return &InstallSelections{
		ActivatePlugins: make(map[string]struct{}),
		Flags:           make(map[string]string),
	}
}

// AddFile appends a file and, when activate is set, marks its effective
// destination (the source path when no destination was given) for
// activation.
func (s *InstallSelections) AddFile(pf PluginFile, activate bool) {
	s.Files = append(s.Files, pf)
	if activate {
		dest := pf.Destination
		if dest == "" {
			dest = pf.Source
		}
		s.ActivatePlugins[NormalizePath(dest)] = struct{}{}
	}
}

// ActivationRequested reports whether the user asked for the given
// destination path to be activated. The check is case-insensitive.
func (s *InstallSelections) ActivationRequested(path string) bool {
	_, ok := s.ActivatePlugins[NormalizePath(path)]
	return ok
}
