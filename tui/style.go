package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusEnded = lipgloss.NewStyle().
				Background(lipgloss.Color("52")).
				Foreground(lipgloss.Color("252")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleRoomDesc = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleRoomName = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleOmen = lipgloss.NewStyle().
			Foreground(lipgloss.Color("167"))

	styleBeat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("153")).
			Italic(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleMapPanel = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("238"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindRoomDesc lineKind = iota
	kindRoomName
	kindExits
	kindOmen
	kindSystem
	kindError
	kindTrace
)

// refusals are the engine's stock lines for commands that did nothing.
var refusals = []string{
	"何をすればいいのかわからない。",
	"そちらには行けない。",
	"視界は固定されている。",
	"何も起こらない。",
	"どちらへ?",
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "【") && strings.HasSuffix(line, "】"):
		return kindRoomName
	case strings.HasPrefix(line, "出口:"):
		return kindExits
	case isRefusal(line):
		return kindError
	case strings.HasSuffix(line, "..."):
		return kindOmen
	default:
		return kindRoomDesc
	}
}

func isRefusal(line string) bool {
	for _, r := range refusals {
		if line == r {
			return true
		}
	}
	return strings.HasSuffix(line, "遠すぎて手が届かない。") ||
		strings.HasSuffix(line, "見当たらない")
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
