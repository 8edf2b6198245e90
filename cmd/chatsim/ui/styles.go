// Package ui provides the visual styling for the chatsim terminal UI.
// Messenger-style palette with light/dark mode support.
package ui

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#F6F7FB")
	LightForeground = lipgloss.Color("#222222")
	LightPrimary    = lipgloss.Color("#007AFF") // Top bar and send button blue
	LightUserBubble = lipgloss.Color("#DCF8C6")
	LightBotBubble  = lipgloss.Color("#E9E9EB")
	LightMuted      = lipgloss.Color("#666666")
	LightBorder     = lipgloss.Color("#E6E6E6")
	LightCard       = lipgloss.Color("#FFFFFF")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#141D2B")
	DarkForeground = lipgloss.Color("#F2F2F2")
	DarkPrimary    = lipgloss.Color("#0A84FF")
	DarkUserBubble = lipgloss.Color("#2E5A37")
	DarkBotBubble  = lipgloss.Color("#2A3850")
	DarkMuted      = lipgloss.Color("#9AA3B0")
	DarkBorder     = lipgloss.Color("#2A3850")
	DarkCard       = lipgloss.Color("#1A2536")

	// Semantic Colors (same in both modes)
	Online = lipgloss.Color("#3BB54A")
	Accent = lipgloss.Color("#FFC107")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	UserBubble lipgloss.Color
	BotBubble  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		UserBubble: LightUserBubble,
		BotBubble:  LightBotBubble,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		UserBubble: DarkUserBubble,
		BotBubble:  DarkBotBubble,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// ThemeFor resolves a ui.theme config value. "auto" detects from the terminal.
func ThemeFor(name string) Theme {
	switch strings.ToLower(name) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme auto-detects based on terminal or returns light mode
func DetectTheme() Theme {
	// Format is usually "foreground;background"
	colorTerm := os.Getenv("COLORFGBG")
	if colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) >= 2 {
			// 0-6 and 8 (dark grey) are dark backgrounds
			if bgIdx, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	if lipgloss.HasDarkBackground() {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Chrome
	TopBar     lipgloss.Style
	Header     lipgloss.Style
	BotName    lipgloss.Style
	Status     lipgloss.Style
	Footer     lipgloss.Style
	InputBox   lipgloss.Style
	InputBlur  lipgloss.Style
	SendButton lipgloss.Style

	// Messages
	UserBubble lipgloss.Style
	BotBubble  lipgloss.Style
	Selected   lipgloss.Style
	Timestamp  lipgloss.Style
	Badge      lipgloss.Style
	Picker     lipgloss.Style
	Typing     lipgloss.Style

	// Misc
	Help  lipgloss.Style
	Hint  lipgloss.Style
	Title lipgloss.Style
	Value lipgloss.Style
}

// NewStyles creates styles for the given theme
func NewStyles(theme Theme) Styles {
	bubble := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(theme.Foreground)

	return Styles{
		Theme: theme,

		TopBar: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(theme.Primary).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.Border).
			Padding(0, 1),
		BotName: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground),
		Status: lipgloss.NewStyle().
			Foreground(Online),
		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Align(lipgloss.Center),
		InputBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary),
		InputBlur: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
		SendButton: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(theme.Primary).
			Padding(0, 1),

		UserBubble: bubble.Background(theme.UserBubble),
		BotBubble:  bubble.Background(theme.BotBubble),
		Selected: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(Accent),
		Timestamp: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Badge: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Picker: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		Typing: bubble.Background(theme.BotBubble),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Hint: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),
		Value: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground),
	}
}

// Fade maps an opacity in [0,1] onto the 24-step ANSI grayscale ramp
// (232-255), towards the background on the dark end. In light mode the ramp
// is reversed so low opacity still means "closer to the background".
func (s Styles) Fade(opacity float64) lipgloss.Color {
	opacity = math.Max(0, math.Min(1, opacity))
	step := int(math.Round(opacity * 23))
	if !s.Theme.IsDark {
		step = 23 - step
	}
	return lipgloss.Color(fmt.Sprintf("%d", 232+step))
}

// Dot renders one typing-indicator dot at the given opacity.
func (s Styles) Dot(opacity float64) string {
	return lipgloss.NewStyle().Foreground(s.Fade(opacity)).Render("●")
}
