// Madori is a small-house exploration game whose floor plan drifts out of
// step with the rooms the player walks through.
// Usage: madori [--version] [--plain] [--script <file>] [--trace] [--world <dir>]
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nathoo/madori/blueprint"
	"github.com/nathoo/madori/cli"
	"github.com/nathoo/madori/config"
	"github.com/nathoo/madori/engine"
	"github.com/nathoo/madori/engine/state"
	"github.com/nathoo/madori/loader"
	"github.com/nathoo/madori/logger"
	"github.com/nathoo/madori/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: madori [--version] [--plain] [--script <file>] [--trace] [--world <dir>]\n"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration: %v\n", err)
		os.Exit(1)
	}
	plain := false
	trace := false
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("madori %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		case "--world":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--world requires a directory\n")
				os.Exit(1)
			}
			i++
			cfg.World = args[i]
		case "-h", "--help":
			fmt.Print(usage)
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q\n%s", args[i], usage)
			os.Exit(1)
		}
	}

	useTUI := scriptFile == "" && !plain && isTerminal()

	logOut, closeLog, err := openLog(cfg, useTUI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	log := logger.WithSession(logger.Setup(cfg, logOut), logger.NewSessionID())

	defs, err := loadWorld(cfg.World)
	if err != nil {
		logger.WithError(log, err).Error("loading world failed", "world", cfg.World)
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		os.Exit(1)
	}

	eng, err := engine.New(defs, engine.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting game: %v\n", err)
		os.Exit(1)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := blueprint.NewRNG(seed)
	log.Debug("blueprint seeded", "seed", seed)

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		runPlain(eng, rng, cfg, trace, f, true)
		return
	}

	if !useTUI {
		runPlain(eng, rng, cfg, trace, os.Stdin, false)
		return
	}

	if err := tui.Run(eng, rng, cfg.TimeScale); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runPlain(eng *engine.Engine, rng *blueprint.RNG, cfg *config.Config, trace bool, in io.Reader, echo bool) {
	game := eng.Defs.Game
	fmt.Printf("%s v%s by %s\n\n", game.Title, game.Version, game.Author)
	c := cli.New(eng, rng)
	c.In = in
	c.EchoInput = echo
	c.Trace = trace
	c.TimeScale = cfg.TimeScale
	c.Run()
}

// loadWorld reads a world directory, or the embedded house when dir is empty.
func loadWorld(dir string) (*state.Defs, error) {
	if dir == "" {
		return loader.LoadDefault()
	}
	return loader.Load(dir)
}

// openLog picks the log destination. The TUI owns the terminal, so without a
// log file its records are discarded.
func openLog(cfg *config.Config, useTUI bool) (io.Writer, func(), error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil
	}
	if useTUI {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

