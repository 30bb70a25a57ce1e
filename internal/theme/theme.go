package theme

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme captures the lipgloss styles used across the TUI.
type Theme struct {
	Message    lipgloss.Style
	Header     lipgloss.Style
	Cursor     lipgloss.Style
	Normal     lipgloss.Style
	Dim        lipgloss.Style
	CardBorder lipgloss.Style
	CardTitle  lipgloss.Style
	Label      lipgloss.Style
	Summary    lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
}

// Default is the canonical name of the built-in default theme.
const Default = "default"

var themes = map[string]Theme{
	Default: {
		Message:    lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		Header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Cursor:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Normal:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		CardBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1),
		CardTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		Label:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Summary:    lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Italic(true),
		Status:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	},
	"high_contrast": {
		Message:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		Header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Cursor:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Normal:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		CardBorder: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("15")).Padding(0, 1),
		CardTitle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Label:      lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		Summary:    lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Italic(true),
		Status:     lipgloss.NewStyle().Foreground(lipgloss.Color("118")).Bold(true),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	},
}

// Names returns the sorted list of available theme names.
func Names() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForName returns the theme with the provided name, defaulting if unknown.
func ForName(name string) Theme {
	key := strings.ToLower(strings.TrimSpace(name))
	if theme, ok := themes[key]; ok {
		return theme
	}
	return themes[Default]
}
