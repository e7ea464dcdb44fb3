// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the madori engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nathoo/madori/blueprint"
	"github.com/nathoo/madori/engine"
	"github.com/nathoo/madori/types"
)

// CLI handles line-oriented interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	RNG       *blueprint.RNG // minimap randomness
	Trace     bool
	EchoInput bool    // echo each input line after the prompt (for script playback)
	TimeScale float64 // real seconds slept per narrative second; 0 settles instantly
	Sleep     func(time.Duration)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, rng *blueprint.RNG) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
		RNG:    rng,
		Sleep:  time.Sleep,
	}
}

// Run starts the game loop. It shows the intro and the starting room, then
// loops: prompt → input → dispatch → output → pending narrative beats.
func (c *CLI) Run() {
	c.printResult(c.Engine.Init())

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printSystem("繰り返すコマンドがありません。")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}
		c.flush()
	}
	c.flush()
}

// flush plays the scheduled narrative beats. With a time scale the real
// delay is slept between beats; otherwise everything fires at once.
func (c *CLI) flush() {
	if c.TimeScale <= 0 {
		for _, line := range c.Engine.Settle() {
			c.printLine(line)
		}
		return
	}
	for {
		next, ok := c.Engine.NextBeat()
		if !ok {
			return
		}
		if c.Sleep != nil {
			c.Sleep(time.Duration(float64(next) * c.TimeScale))
		}
		for _, line := range c.Engine.Tick(next) {
			c.printLine(line)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("さようなら。")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/map":
		c.cmdMap()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /map          — Draw the blueprint",
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
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	snap := c.Engine.Snapshot()
	c.printSystem(fmt.Sprintf("Chapter: %d", snap.Chapter))
	c.printSystem(fmt.Sprintf("Steps: %d", snap.Steps))
	c.printSystem(fmt.Sprintf("Desync: %d", snap.Desync))
	c.printSystem(fmt.Sprintf("Room: %s", snap.CurrentRoom))
	c.printSystem(fmt.Sprintf("Position: (%.1f, %.1f, %.1f)", snap.Position.X, snap.Position.Y, snap.Position.Z))
	c.printSystem(fmt.Sprintf("Clock: %s", snap.Clock))
	c.printSystem(fmt.Sprintf("Visited: %v", snap.Visited))
	c.printSystem(fmt.Sprintf("Fog: %.0f", snap.Fog))
	if snap.GameEnded {
		c.printSystem("Game ended.")
	}
}

func (c *CLI) cmdMap() {
	if c.RNG == nil {
		c.RNG = blueprint.NewRNG(time.Now().UnixNano())
	}
	plan := blueprint.Draw(c.Engine.Snapshot(), c.Engine.Defs.Game.Blueprint, c.RNG)
	c.printLine(blueprint.Render(plan))
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Effects) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Effects: %d", len(result.Effects)))
		for _, e := range result.Effects {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Params))
		}
	}
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
