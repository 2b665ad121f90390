// Package theme holds the color palettes the TUI can render with.
package theme

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors every component draws from. Colors are adaptive
// so both light and dark terminals stay readable.
type Theme interface {
	Name() string

	Background() lipgloss.AdaptiveColor
	BackgroundPanel() lipgloss.AdaptiveColor

	Border() lipgloss.AdaptiveColor
	BorderActive() lipgloss.AdaptiveColor

	Primary() lipgloss.AdaptiveColor
	Secondary() lipgloss.AdaptiveColor

	Text() lipgloss.AdaptiveColor
	TextMuted() lipgloss.AdaptiveColor

	Error() lipgloss.AdaptiveColor
	Warning() lipgloss.AdaptiveColor
	Success() lipgloss.AdaptiveColor
	Info() lipgloss.AdaptiveColor

	// ChromaStyle names the chroma style used for highlighted commands.
	ChromaStyle() string
}

// BaseTheme implements Theme from plain fields.
type BaseTheme struct {
	name string

	BackgroundColor      lipgloss.AdaptiveColor
	BackgroundPanelColor lipgloss.AdaptiveColor
	BorderColor          lipgloss.AdaptiveColor
	BorderActiveColor    lipgloss.AdaptiveColor
	PrimaryColor         lipgloss.AdaptiveColor
	SecondaryColor       lipgloss.AdaptiveColor
	TextColor            lipgloss.AdaptiveColor
	TextMutedColor       lipgloss.AdaptiveColor
	ErrorColor           lipgloss.AdaptiveColor
	WarningColor         lipgloss.AdaptiveColor
	SuccessColor         lipgloss.AdaptiveColor
	InfoColor            lipgloss.AdaptiveColor
	Chroma               string
}

func (t *BaseTheme) Name() string                            { return t.name }
func (t *BaseTheme) Background() lipgloss.AdaptiveColor      { return t.BackgroundColor }
func (t *BaseTheme) BackgroundPanel() lipgloss.AdaptiveColor { return t.BackgroundPanelColor }
func (t *BaseTheme) Border() lipgloss.AdaptiveColor          { return t.BorderColor }
func (t *BaseTheme) BorderActive() lipgloss.AdaptiveColor    { return t.BorderActiveColor }
func (t *BaseTheme) Primary() lipgloss.AdaptiveColor         { return t.PrimaryColor }
func (t *BaseTheme) Secondary() lipgloss.AdaptiveColor       { return t.SecondaryColor }
func (t *BaseTheme) Text() lipgloss.AdaptiveColor            { return t.TextColor }
func (t *BaseTheme) TextMuted() lipgloss.AdaptiveColor       { return t.TextMutedColor }
func (t *BaseTheme) Error() lipgloss.AdaptiveColor           { return t.ErrorColor }
func (t *BaseTheme) Warning() lipgloss.AdaptiveColor         { return t.WarningColor }
func (t *BaseTheme) Success() lipgloss.AdaptiveColor         { return t.SuccessColor }
func (t *BaseTheme) Info() lipgloss.AdaptiveColor            { return t.InfoColor }
func (t *BaseTheme) ChromaStyle() string                     { return t.Chroma }

func NewStackTheme() Theme {
	return &BaseTheme{
		name:                 "stack",
		BackgroundColor:      lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#09090b"},
		BackgroundPanelColor: lipgloss.AdaptiveColor{Light: "#f4f4f5", Dark: "#18181b"},
		BorderColor:          lipgloss.AdaptiveColor{Light: "#d4d4d8", Dark: "#3f3f46"},
		BorderActiveColor:    lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"},
		PrimaryColor:         lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"},
		SecondaryColor:       lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"},
		TextColor:            lipgloss.AdaptiveColor{Light: "#09090b", Dark: "#fafafa"},
		TextMutedColor:       lipgloss.AdaptiveColor{Light: "#71717a", Dark: "#a1a1aa"},
		ErrorColor:           lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"},
		WarningColor:         lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#fbbf24"},
		SuccessColor:         lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"},
		InfoColor:            lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"},
		Chroma:               "dracula",
	}
}

func NewMonoTheme() Theme {
	gray := func(light, dark string) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: light, Dark: dark}
	}
	return &BaseTheme{
		name:                 "mono",
		BackgroundColor:      gray("#ffffff", "#000000"),
		BackgroundPanelColor: gray("#f5f5f5", "#111111"),
		BorderColor:          gray("#bbbbbb", "#444444"),
		BorderActiveColor:    gray("#000000", "#ffffff"),
		PrimaryColor:         gray("#000000", "#ffffff"),
		SecondaryColor:       gray("#333333", "#cccccc"),
		TextColor:            gray("#000000", "#ffffff"),
		TextMutedColor:       gray("#666666", "#999999"),
		ErrorColor:           gray("#000000", "#ffffff"),
		WarningColor:         gray("#333333", "#cccccc"),
		SuccessColor:         gray("#000000", "#ffffff"),
		InfoColor:            gray("#333333", "#cccccc"),
		Chroma:               "bw",
	}
}

var (
	mu      sync.RWMutex
	current Theme = NewStackTheme()
	themes        = map[string]func() Theme{
		"stack": NewStackTheme,
		"mono":  NewMonoTheme,
	}
)

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetTheme activates the named theme.
func SetTheme(name string) error {
	newTheme, ok := themes[name]
	if !ok {
		return fmt.Errorf("theme %q not found", name)
	}
	mu.Lock()
	current = newTheme()
	mu.Unlock()
	return nil
}

// AvailableThemes lists the registered theme names.
func AvailableThemes() []string {
	return []string{"stack", "mono"}
}
