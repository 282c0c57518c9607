// Package theme provides theme definitions and management for the TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines all colors used in the application UI. The file-state colors
// mirror the classic git client palette: conflicted files blue-ish, deletions
// red, untracked orange, staged additions green.
type Theme struct {
	Background lipgloss.Color
	Accent     lipgloss.Color
	AccentDim  lipgloss.Color
	Border     lipgloss.Color
	MutedFg    lipgloss.Color
	TextFg     lipgloss.Color
	SuccessFg  lipgloss.Color
	WarnFg     lipgloss.Color
	ErrorFg    lipgloss.Color
	Cyan       lipgloss.Color

	// File-state colors.
	FileConflict  lipgloss.Color
	FileDeleted   lipgloss.Color
	FileUntracked lipgloss.Color
	FileAdded     lipgloss.Color
}

// Theme names.
const (
	DraculaName       = "dracula"
	CleanLightName    = "clean-light"
	SolarizedDarkName = "solarized-dark"
	GruvboxDarkName   = "gruvbox-dark"
	NordName          = "nord"
)

// Dracula returns the Dracula theme (dark background, vibrant colors).
func Dracula() *Theme {
	return &Theme{
		Background:    lipgloss.Color("#282A36"),
		Accent:        lipgloss.Color("#BD93F9"), // Purple
		AccentDim:     lipgloss.Color("#44475A"), // Current line / selection
		Border:        lipgloss.Color("#6272A4"),
		MutedFg:       lipgloss.Color("#6272A4"),
		TextFg:        lipgloss.Color("#F8F8F2"),
		SuccessFg:     lipgloss.Color("#50FA7B"),
		WarnFg:        lipgloss.Color("#FFB86C"),
		ErrorFg:       lipgloss.Color("#FF5555"),
		Cyan:          lipgloss.Color("#8BE9FD"),
		FileConflict:  lipgloss.Color("#8BE9FD"), // Cyan-blue
		FileDeleted:   lipgloss.Color("#FF5555"), // Red
		FileUntracked: lipgloss.Color("#FFB86C"), // Orange
		FileAdded:     lipgloss.Color("#50FA7B"), // Green
	}
}

// CleanLight returns a minimal light theme for bright terminals.
func CleanLight() *Theme {
	return &Theme{
		Background:    lipgloss.Color("#FAFAFA"),
		Accent:        lipgloss.Color("#6C5FC7"),
		AccentDim:     lipgloss.Color("#E4E1F5"),
		Border:        lipgloss.Color("#C8C8C8"),
		MutedFg:       lipgloss.Color("#8A8A8A"),
		TextFg:        lipgloss.Color("#2E2E2E"),
		SuccessFg:     lipgloss.Color("#1F8A3B"),
		WarnFg:        lipgloss.Color("#B85C00"),
		ErrorFg:       lipgloss.Color("#C62828"),
		Cyan:          lipgloss.Color("#0B7285"),
		FileConflict:  lipgloss.Color("#0B7285"),
		FileDeleted:   lipgloss.Color("#C62828"),
		FileUntracked: lipgloss.Color("#B85C00"),
		FileAdded:     lipgloss.Color("#1F8A3B"),
	}
}

// SolarizedDark returns the Solarized Dark theme.
func SolarizedDark() *Theme {
	return &Theme{
		Background:    lipgloss.Color("#002B36"),
		Accent:        lipgloss.Color("#268BD2"),
		AccentDim:     lipgloss.Color("#073642"),
		Border:        lipgloss.Color("#586E75"),
		MutedFg:       lipgloss.Color("#586E75"),
		TextFg:        lipgloss.Color("#839496"),
		SuccessFg:     lipgloss.Color("#859900"),
		WarnFg:        lipgloss.Color("#CB4B16"),
		ErrorFg:       lipgloss.Color("#DC322F"),
		Cyan:          lipgloss.Color("#2AA198"),
		FileConflict:  lipgloss.Color("#2AA198"),
		FileDeleted:   lipgloss.Color("#DC322F"),
		FileUntracked: lipgloss.Color("#CB4B16"),
		FileAdded:     lipgloss.Color("#859900"),
	}
}

// GruvboxDark returns the Gruvbox Dark theme.
func GruvboxDark() *Theme {
	return &Theme{
		Background:    lipgloss.Color("#282828"),
		Accent:        lipgloss.Color("#D3869B"),
		AccentDim:     lipgloss.Color("#3C3836"),
		Border:        lipgloss.Color("#665C54"),
		MutedFg:       lipgloss.Color("#928374"),
		TextFg:        lipgloss.Color("#EBDBB2"),
		SuccessFg:     lipgloss.Color("#B8BB26"),
		WarnFg:        lipgloss.Color("#FE8019"),
		ErrorFg:       lipgloss.Color("#FB4934"),
		Cyan:          lipgloss.Color("#8EC07C"),
		FileConflict:  lipgloss.Color("#83A598"),
		FileDeleted:   lipgloss.Color("#FB4934"),
		FileUntracked: lipgloss.Color("#FE8019"),
		FileAdded:     lipgloss.Color("#B8BB26"),
	}
}

// Nord returns the Nord theme.
func Nord() *Theme {
	return &Theme{
		Background:    lipgloss.Color("#2E3440"),
		Accent:        lipgloss.Color("#88C0D0"),
		AccentDim:     lipgloss.Color("#3B4252"),
		Border:        lipgloss.Color("#4C566A"),
		MutedFg:       lipgloss.Color("#4C566A"),
		TextFg:        lipgloss.Color("#ECEFF4"),
		SuccessFg:     lipgloss.Color("#A3BE8C"),
		WarnFg:        lipgloss.Color("#D08770"),
		ErrorFg:       lipgloss.Color("#BF616A"),
		Cyan:          lipgloss.Color("#8FBCBB"),
		FileConflict:  lipgloss.Color("#81A1C1"),
		FileDeleted:   lipgloss.Color("#BF616A"),
		FileUntracked: lipgloss.Color("#D08770"),
		FileAdded:     lipgloss.Color("#A3BE8C"),
	}
}

// GetTheme returns the theme for the given name, defaulting to Dracula.
func GetTheme(name string) *Theme {
	switch name {
	case CleanLightName:
		return CleanLight()
	case SolarizedDarkName:
		return SolarizedDark()
	case GruvboxDarkName:
		return GruvboxDark()
	case NordName:
		return Nord()
	default:
		return Dracula()
	}
}

// DefaultDark returns the default dark theme name.
func DefaultDark() string { return DraculaName }

// AvailableThemes lists the selectable theme names.
func AvailableThemes() []string {
	return []string{
		DraculaName,
		CleanLightName,
		SolarizedDarkName,
		GruvboxDarkName,
		NordName,
	}
}
