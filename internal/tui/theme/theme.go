// Package theme defines the color themes of the setup wizard and card editor.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps the wizard's color roles to concrete colors.
type Theme struct {
	Name         string
	Background   lipgloss.Color // outside the content column
	Surface      lipgloss.Color // cards, header, step trail
	Border       lipgloss.Color // card borders and separators
	BorderAccent lipgloss.Color // completion and help overlays
	TextDim      lipgloss.Color // hints, excluded items, steps ahead
	TextMuted    lipgloss.Color // labels and secondary values
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color // cursor and selection
	AccentBright lipgloss.Color // title and active step
	Green        lipgloss.Color // included items, completed steps
	Orange       lipgloss.Color // warnings
	Red          lipgloss.Color // errors, allocation over 100%
	Yellow       lipgloss.Color // allocation under 100%
	Cyan         lipgloss.Color // key hints
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Green:        lipgloss.Color("#879A39"),
	Orange:       lipgloss.Color("#DA702C"),
	Red:          lipgloss.Color("#D14D41"),
	Yellow:       lipgloss.Color("#D0A215"),
	Cyan:         lipgloss.Color("#24837B"),
}

// FlexokiLight is the paper-colored variant for light terminals.
var FlexokiLight = Theme{
	Name:         "flexoki-light",
	Background:   lipgloss.Color("#F2F0E5"),
	Surface:      lipgloss.Color("#FFFCF0"),
	Border:       lipgloss.Color("#CECDC3"),
	BorderAccent: lipgloss.Color("#24837B"),
	TextDim:      lipgloss.Color("#B7B5AC"),
	TextMuted:    lipgloss.Color("#6F6E69"),
	TextPrimary:  lipgloss.Color("#100F0F"),
	Accent:       lipgloss.Color("#24837B"),
	AccentBright: lipgloss.Color("#1C6C66"),
	Green:        lipgloss.Color("#66800B"),
	Orange:       lipgloss.Color("#BC5215"),
	Red:          lipgloss.Color("#AF3029"),
	Yellow:       lipgloss.Color("#AD8301"),
	Cyan:         lipgloss.Color("#24837B"),
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Green:        lipgloss.Color("2"),
	Orange:       lipgloss.Color("3"),
	Red:          lipgloss.Color("1"),
	Yellow:       lipgloss.Color("11"),
	Cyan:         lipgloss.Color("6"),
}

// All lists the built-in themes in display order.
var All = []Theme{FlexokiDark, FlexokiLight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// Known reports whether name is one of the built-in themes.
func Known(name string) bool {
	for _, t := range All {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Names lists the built-in theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// SetActive sets the active theme by name. Unknown names select the
// default theme and report false.
func SetActive(name string) bool {
	Active = ByName(name)
	return Known(name)
}

// Status returns the color for an included/excluded or ok/failed marker.
func (t Theme) Status(ok bool) lipgloss.Color {
	if ok {
		return t.Green
	}
	return t.TextDim
}
