// Package simulate bowls random games through the scoring engine.
//
// Two strategies are available. "symbols" draws uniformly over all twelve
// throw values and simply retries whenever the engine refuses one, which
// exercises the engine's validation as much as its scoring. "pins" draws a
// knocked-down count uniformly from the pins still standing and lets
// Game.RecordPins pick the mark, so no throw is ever refused.
//
// Randomness comes from an injected RNG so tests can fix the sequence.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pinsetter/pinsetter/internal/metrics"
	"github.com/pinsetter/pinsetter/pkg/bowling"
)

// Strategy names.
const (
	StrategySymbols = "symbols"
	StrategyPins    = "pins"
)

// ErrTooManyAttempts is returned when no legal throw was drawn within the
// configured number of attempts.
var ErrTooManyAttempts = errors.New("simulate: too many attempts for one throw")

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// IntN returns a non-negative random int in [0, n).
	IntN(n int) int
}

// Options configure a Simulator.
type Options struct {
	Strategy    string
	MaxAttempts int

	// Recorder, when set, receives every accepted and rejected throw and
	// every completed game.
	Recorder *metrics.Recorder
}

// Result describes one simulated game.
type Result struct {
	Game     *bowling.Game
	Final    int
	Throws   []bowling.Throw
	Attempts int // draws made, including rejected ones
	Rejected int
}

// Simulator plays games using a single RNG. It is not safe for concurrent use.
type Simulator struct {
	rng  RNG
	opts Options
}

// New returns a Simulator or an error for an unknown strategy or a
// non-positive attempt limit.
func New(rng RNG, opts Options) (*Simulator, error) {
	switch opts.Strategy {
	case StrategySymbols, StrategyPins:
	default:
		return nil, fmt.Errorf("simulate: unknown strategy %q", opts.Strategy)
	}
	if opts.MaxAttempts <= 0 {
		return nil, fmt.Errorf("simulate: max attempts must be positive, got %d", opts.MaxAttempts)
	}
	return &Simulator{rng: rng, opts: opts}, nil
}

// PlayN plays n games, stopping early if ctx is cancelled.
func (s *Simulator) PlayN(ctx context.Context, n int) ([]*Result, error) {
	results := make([]*Result, 0, n)
	for i := range n {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := s.Play()
		if err != nil {
			return results, fmt.Errorf("game %d: %w", i+1, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Play bowls one complete game.
func (s *Simulator) Play() (*Result, error) {
	res := &Result{Game: bowling.New()}
	for !res.Game.Complete() {
		if err := s.throw(res); err != nil {
			return nil, err
		}
	}

	final, err := res.Game.FinalScore()
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	res.Final = final
	if s.opts.Recorder != nil {
		s.opts.Recorder.ObserveGame(final)
	}
	slog.Debug("simulate: game complete",
		"final", final, "throws", len(res.Throws),
		"attempts", res.Attempts, "rejected", res.Rejected)
	return res, nil
}

func (s *Simulator) throw(res *Result) error {
	for range s.opts.MaxAttempts {
		res.Attempts++
		t, err := s.draw(res.Game)
		if err == nil {
			res.Throws = append(res.Throws, t)
			if s.opts.Recorder != nil {
				s.opts.Recorder.ObserveThrow(t)
			}
			return nil
		}
		if !errors.Is(err, bowling.ErrInvalidThrow) {
			return fmt.Errorf("simulate: %w", err)
		}
		res.Rejected++
		if s.opts.Recorder != nil {
			s.opts.Recorder.ObserveRejected(err)
		}
	}
	return fmt.Errorf("frame %d: %w", res.Game.ActiveFrame(), ErrTooManyAttempts)
}

// draw makes one random throw into g and returns the mark recorded.
func (s *Simulator) draw(g *bowling.Game) (bowling.Throw, error) {
	if s.opts.Strategy == StrategyPins {
		if err := g.RecordPins(s.rng.IntN(g.Standing() + 1)); err != nil {
			return 0, err
		}
		return lastThrow(g), nil
	}

	t := bowling.ThrowValues[s.rng.IntN(len(bowling.ThrowValues))]
	if err := g.RecordThrow(t); err != nil {
		return 0, err
	}
	return lastThrow(g), nil
}

// lastThrow returns the most recent mark in g's active frame. The engine may
// store a rack-clearing pin count as a spare, so this can differ from the
// value passed to RecordThrow.
func lastThrow(g *bowling.Game) bowling.Throw {
	v, _ := g.Frame(g.ActiveFrame())
	return v.Throws[len(v.Throws)-1]
}
