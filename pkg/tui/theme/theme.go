package theme

import "github.com/charmbracelet/lipgloss/v2"

// Band is the time-of-day visual treatment.
type Band int

const (
	Night Band = iota
	Morning
	Day
)

func (b Band) String() string {
	switch b {
	case Morning:
		return "morning"
	case Day:
		return "day"
	default:
		return "night"
	}
}

// BandFor maps an hour (0-23) to its band: [5,11) morning, [11,17) day,
// otherwise night.
func BandFor(hour int) Band {
	switch {
	case hour >= 5 && hour < 11:
		return Morning
	case hour >= 11 && hour < 17:
		return Day
	default:
		return Night
	}
}

// Theme centralizes Lip Gloss styles for the dashboard.
type Theme struct {
	Band Band

	Screen lipgloss.Style
	Footer FooterTheme
	Panel  PanelTheme
	Modal  ModalTheme
	Alarm  AlarmTheme
}

// FooterTheme styles the bottom key-hint bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Key    lipgloss.Style
}

// PanelTheme styles framed dashboard widgets.
type PanelTheme struct {
	Frame  lipgloss.Style
	Title  lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style
}

// ModalTheme styles centered overlays.
type ModalTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Body     lipgloss.Style
	Selected lipgloss.Style
}

// AlarmTheme styles the alarm editor and ringing overlay.
type AlarmTheme struct {
	On       lipgloss.Style
	Off      lipgloss.Style
	Selected lipgloss.Style
	Ringing  lipgloss.Style
}

type palette struct {
	bg, fg, muted, accent, border string
}

var palettes = map[Band]palette{
	Morning: {bg: "#0B1E3F", fg: "#E8F0FF", muted: "#8FA6CC", accent: "#FFD27F", border: "#3A5A8C"},
	Day:     {bg: "#2B2F36", fg: "#F2F2F2", muted: "#A0A4AB", accent: "#7FD1FF", border: "#5A606B"},
	Night:   {bg: "#05050A", fg: "#D0D0D8", muted: "#6C6C78", accent: "#B18CFF", border: "#2A2A36"},
}

// Default returns the night theme.
func Default() Theme {
	return ForBand(Night)
}

// ForBand builds the styles for band.
func ForBand(b Band) Theme {
	p, ok := palettes[b]
	if !ok {
		p = palettes[Night]
	}
	bg := lipgloss.Color(p.bg)
	fg := lipgloss.Color(p.fg)
	muted := lipgloss.Color(p.muted)
	accent := lipgloss.Color(p.accent)
	border := lipgloss.Color(p.border)

	base := lipgloss.NewStyle().Foreground(fg)
	return Theme{
		Band:   b,
		Screen: base.Background(bg),
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(muted),
			Status: lipgloss.NewStyle().Foreground(muted).Italic(true),
			Key:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		},
		Panel: PanelTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(border).
				Padding(0, 1),
			Title:  base.Bold(true),
			Body:   base,
			Muted:  lipgloss.NewStyle().Foreground(muted),
			Accent: lipgloss.NewStyle().Foreground(accent),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(1, 2),
			Title:    base.Bold(true),
			Body:     base,
			Selected: lipgloss.NewStyle().Foreground(accent).Bold(true).Underline(true),
		},
		Alarm: AlarmTheme{
			On:       lipgloss.NewStyle().Foreground(accent).Bold(true),
			Off:      lipgloss.NewStyle().Foreground(muted),
			Selected: base.Reverse(true),
			Ringing: lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(lipgloss.Color("#FF5F5F")).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true).
				Padding(1, 4),
		},
	}
}
