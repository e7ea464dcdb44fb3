package engine

import (
	"time"

	"github.com/nathoo/madori/engine/state"
	"github.com/nathoo/madori/types"
)

// checkEnding schedules the universal ending once the player has wandered
// long enough before reaching the final chapter.
func (e *Engine) checkEnding(result *types.Result) {
	s := e.State
	ending := e.Defs.Game.Ending
	if s.EndingPending || s.GameEnded || s.Chapter > 3 || s.Steps <= ending.AfterSteps {
		return
	}
	s.EndingPending = true
	result.Output = append(result.Output, ending.Notice)
	e.log.Info("ending scheduled", "steps", s.Steps, "delay", ending.Delay)

	e.timeline.Schedule(ending.Delay, func() {
		if e.State.GameEnded {
			return
		}
		var r types.Result
		e.emit(&r, state.ChangeChapter(e.State, state.FinalChapter))
		r2, _ := e.EndGame()
		e.beats = append(e.beats, r.Output...)
		e.beats = append(e.beats, r2.Output...)
	})
}

// EndGame moves the game into its terminal state and schedules the closing
// narrative beats. The beats only produce output.
func (e *Engine) EndGame() (types.Result, error) {
	var result types.Result
	if err := e.locked("end game"); err != nil {
		return result, err
	}
	e.emit(&result, state.EndGame(e.State))

	var offset time.Duration
	for _, beat := range e.Defs.Game.Ending.Beats {
		offset += beat.Delay
		text := beat.Text
		e.timeline.Schedule(offset, func() {
			e.beats = append(e.beats, text)
		})
	}
	return result, nil
}

// Tick advances narrative time by elapsed and returns the output of beats
// that fired.
func (e *Engine) Tick(elapsed time.Duration) []string {
	e.timeline.Advance(elapsed)
	return e.drainBeats()
}

// Settle fires every pending beat, including beats scheduled by beats.
func (e *Engine) Settle() []string {
	for {
		next, ok := e.timeline.Next()
		if !ok {
			break
		}
		e.timeline.Advance(next)
	}
	return e.drainBeats()
}

// Pending reports whether narrative beats are still scheduled.
func (e *Engine) Pending() bool {
	return e.timeline.Len() > 0
}

// NextBeat returns the time until the next scheduled beat.
func (e *Engine) NextBeat() (time.Duration, bool) {
	return e.timeline.Next()
}

func (e *Engine) drainBeats() []string {
	out := e.beats
	e.beats = nil
	return out
}
