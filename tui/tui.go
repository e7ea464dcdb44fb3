package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/nathoo/madori/blueprint"
	"github.com/nathoo/madori/engine"
	"github.com/nathoo/madori/types"
)

// frameInterval is how often narrative time is advanced.
const frameInterval = 100 * time.Millisecond

// minNarrativeWidth is the narrowest log that still leaves room for the
// blueprint panel.
const minNarrativeWidth = 40

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
	isBeat   bool // true for timed narrative beats
}

// Model is the Bubble Tea model for the madori TUI.
type Model struct {
	engine *engine.Engine
	rng    *blueprint.RNG

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)
	mapView  string    // last drawn blueprint

	width     int
	height    int
	ready     bool
	showMap   bool
	trace     bool
	quitting  bool
	lastCmd   string
	timeScale float64
	lastFrame time.Time
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
	isBeat   bool     // true for scheduled narrative output
}

// startMsg asks Update to run the engine's opening.
type startMsg struct{}

// frameMsg advances narrative time.
type frameMsg time.Time

// New creates a TUI model wired to the given engine. timeScale is the real
// time taken by one second of narrative time; values <= 0 mean real time.
func New(eng *engine.Engine, rng *blueprint.RNG, timeScale float64) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	if timeScale <= 0 {
		timeScale = 1
	}
	if rng == nil {
		rng = blueprint.NewRNG(time.Now().UnixNano())
	}
	return Model{
		engine:    eng,
		rng:       rng,
		input:     ti,
		history:   NewHistory(100),
		showMap:   true,
		timeScale: timeScale,
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, rng *blueprint.RNG, timeScale float64) error {
	m := New(eng, rng, timeScale)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init starts the cursor, the opening output and the frame clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, start, frame())
}

func start() tea.Msg {
	return startMsg{}
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles messages (key presses, window resize, frames, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "tab":
			m.showMap = !m.showMap
			m.layout()
			m.refreshViewport()
			return m, nil

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case startMsg:
		game := m.engine.Defs.Game
		lines := []string{game.Title + " v" + game.Version + " by " + game.Author, ""}
		lines = append(lines, m.engine.Init().Output...)
		m.redrawMap()
		m = m.appendOutput(gameOutputMsg{lines: lines})

	case frameMsg:
		m = m.advanceFrame(time.Time(msg))
		return m, frame()

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// advanceFrame feeds the elapsed real time, scaled to narrative time, to the
// engine and shows any beats that fired.
func (m Model) advanceFrame(now time.Time) Model {
	if !m.lastFrame.IsZero() {
		elapsed := time.Duration(float64(now.Sub(m.lastFrame)) / m.timeScale)
		if lines := m.engine.Tick(elapsed); len(lines) > 0 {
			m.redrawMap()
			m = m.appendOutput(gameOutputMsg{lines: lines, isBeat: true})
		}
	}
	m.lastFrame = now
	return m
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"繰り返すコマンドがありません。"}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Game command.
	result := m.engine.Step(input)
	output := result.Output
	if m.trace {
		output = append(output, m.formatTrace(result)...)
	}
	m.redrawMap()
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})
	return m, nil
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem, isBeat: msg.isBeat}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// redrawMap draws a fresh blueprint frame. Corruption is re-rolled on every
// redraw.
func (m *Model) redrawMap() {
	plan := blueprint.Draw(m.engine.Snapshot(), m.engine.Defs.Game.Blueprint, m.rng)
	m.mapView = blueprint.Render(plan)
	m.layout()
}

// mapVisible reports whether the blueprint panel fits next to the log.
func (m *Model) mapVisible() bool {
	if !m.showMap || m.mapView == "" {
		return false
	}
	panel := styleMapPanel.Render(m.mapView)
	return m.width-lipgloss.Width(panel) >= minNarrativeWidth
}

// narrativeWidth is the width left for the log.
func (m *Model) narrativeWidth() int {
	if !m.mapVisible() {
		return m.width
	}
	return m.width - lipgloss.Width(styleMapPanel.Render(m.mapView)) - 1
}

// layout sizes the viewport for the current window and panel state.
func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	vpHeight := m.height - 2 // 1 status bar + 1 input line
	if vpHeight < 1 {
		vpHeight = 1
	}
	width := m.narrativeWidth()

	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
		return
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.viewport.Width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		case rl.isBeat:
			styled = append(styled, styleBeat.Render(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindRoomName:
		return styleRoomName.Render(line)
	case kindExits:
		return styleExits.Render(line)
	case kindOmen:
		return styleOmen.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleRoomDesc.Render(line)
	}
}

// wordWrap wraps text to fit within the given display width. Spaced text
// breaks at word boundaries; unspaced Japanese text is broken hard.
func wordWrap(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}
	return wrap.String(wordwrap.String(text, width), width)
}

// View renders the full TUI layout: log (+ blueprint) + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	body := m.viewport.View()
	if m.mapVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", styleMapPanel.Render(m.mapView))
	}
	return body + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"さようなら。"}, true

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/map":
		m.showMap = !m.showMap
		m.redrawMap()
		if m.showMap {
			return []string{"Blueprint shown."}, false
		}
		return []string{"Blueprint hidden."}, false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /map          — Toggle the blueprint panel (or press Tab)",
		"  /state        — Debug: dump current state",
		"  /trace        — Toggle debug trace output",
		"",
		"Game commands:",
		"  look (l)              — Describe the room",
		"  go <dir> [n] (n/s/e/w) — Walk n strides",
		"  up / down (上/下)     — Take the stairs",
		"  examine [room] (x)    — Examine the room in reach, or select another",
		"  inventory (i)         — Check what you're carrying",
		"  time                  — Read the clock",
		"  map (m)               — List the rooms on the blueprint",
		"  again (g)             — Repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m *Model) cmdState() []string {
	snap := m.engine.Snapshot()
	output := []string{
		fmt.Sprintf("Chapter: %d", snap.Chapter),
		fmt.Sprintf("Steps: %d", snap.Steps),
		fmt.Sprintf("Desync: %d", snap.Desync),
		fmt.Sprintf("Room: %s", snap.CurrentRoom),
		fmt.Sprintf("Position: (%.1f, %.1f, %.1f)", snap.Position.X, snap.Position.Y, snap.Position.Z),
		fmt.Sprintf("Clock: %s", snap.Clock),
		fmt.Sprintf("Visited: %v", snap.Visited),
	}
	if m.engine.Pending() {
		output = append(output, "Narrative beats pending.")
	}
	return output
}

func (m *Model) formatTrace(result types.Result) []string {
	var lines []string
	if len(result.Effects) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
