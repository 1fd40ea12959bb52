// Package style centralizes terminal styling for modtide's CLI output.
package style

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

var (
	// TitleStyle renders section headings.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

	// NameStyle renders mod names.
	NameStyle = lipgloss.NewStyle().Bold(true)

	// MutedStyle renders secondary details like versions and paths.
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// SuccessStyle renders completed-action messages.
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	// ErrorStyle renders failures.
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	// WarnStyle renders warnings like partial installs.
	WarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

var colorEnabled = true

// SetupColor configures color output. mode is "never", "always" or "auto";
// auto disables color when stdout is not a terminal.
func SetupColor(mode string) {
	switch mode {
	case "never":
		colorEnabled = false
	case "always":
		colorEnabled = true
	default:
		colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	if !colorEnabled {
		pterm.DisableColor()
	}
}

// Render applies a style unless color is disabled.
func Render(st lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return st.Render(s)
}

// Interactive reports whether stdin and stdout are attached to a terminal,
// which gates the interactive chooser and progress display.
func Interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

// Indent prefixes every line with n levels of two-space indent.
func Indent(s string, n int) string {
	pad := strings.Repeat("  ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
