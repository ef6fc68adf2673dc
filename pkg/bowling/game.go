package bowling

import (
	"fmt"
	"log/slog"
)

// MaxScore is the score of a perfect game.
const MaxScore = 300

// FrameView is a read-only copy of one frame and its scoring state.
type FrameView struct {
	Number int     `json:"number"`
	Throws []Throw `json:"throws"`

	// Started is false for frames the game has not reached yet.
	Started bool `json:"started"`

	// Scored is true once the frame's score and the running total through
	// this frame are known. Score and Cumulative are zero until then.
	Scored     bool `json:"scored"`
	Score      int  `json:"score"`
	Cumulative int  `json:"cumulative"`
}

// Game is a single ten-frame game. The zero value is not usable; call New.
type Game struct {
	frames [FrameCount]*Frame
	active int // number of the frame the last throw went into

	// Filled once by FinalScore; a complete game never changes again.
	finalized  bool
	final      int
	cumulative [FrameCount]int
}

// New returns a game positioned at frame 1.
func New() *Game {
	g := &Game{active: 1}
	g.frames[0] = &Frame{number: 1}
	return g
}

// ActiveFrame returns the number of the frame currently receiving throws.
// It never decreases and reaches 10 once the last frame has begun.
func (g *Game) ActiveFrame() int { return g.active }

// Complete reports whether frame 10 has received all of its throws.
func (g *Game) Complete() bool {
	last := g.frames[FrameCount-1]
	return last != nil && last.Full()
}

// RecordThrow records t into the active frame, opening the next frame when
// the active one is full. A rejected throw leaves the game unchanged and
// returns an error wrapping ErrInvalidThrow or ErrThrowsExceeded.
func (g *Game) RecordThrow(t Throw) error {
	cur := g.frames[g.active-1]
	next, err := cur.RecordThrow(t)
	if err != nil {
		return err
	}
	if next != nil {
		g.frames[next.Number()-1] = next
		g.active = next.Number()
	}
	slog.Debug("bowling: throw recorded", "frame", g.active, "throw", t.Symbol())
	return nil
}

// RecordPins records a throw given as a knocked-down pin count. Ten pins on a
// fresh rack become a Strike and clearing the rack on a later throw becomes a
// Spare, so callers never have to pick the symbol themselves.
func (g *Game) RecordPins(n int) error {
	standing := g.Standing()
	if standing == 0 {
		return fmt.Errorf("frame %d: %w", g.active, ErrThrowsExceeded)
	}
	if n < 0 || n > standing {
		return fmt.Errorf("frame %d: %w: %d pins with %d standing",
			g.nextFrame(), ErrInvalidThrow, n, standing)
	}

	t := Throw(n)
	if n == standing && n == PinCount && g.freshRack() {
		t = Strike
	} else if n == standing && n > 0 && !g.freshRack() {
		t = Spare
	}
	return g.RecordThrow(t)
}

// Standing returns how many pins the next throw faces, or 0 when the game is
// complete.
func (g *Game) Standing() int {
	cur := g.frames[g.active-1]
	if cur.Full() {
		if cur.tenth() {
			return 0
		}
		return PinCount
	}
	return cur.Standing()
}

func (g *Game) freshRack() bool {
	cur := g.frames[g.active-1]
	return cur.Full() || cur.freshRack()
}

// nextFrame returns the number of the frame the next throw would land in.
func (g *Game) nextFrame() int {
	if cur := g.frames[g.active-1]; cur.Full() && !cur.tenth() {
		return g.active + 1
	}
	return g.active
}

// following returns the two frames after frame index i, nil where absent.
func (g *Game) following(i int) (next, afterNext *Frame) {
	if i+1 < FrameCount {
		next = g.frames[i+1]
	}
	if i+2 < FrameCount {
		afterNext = g.frames[i+2]
	}
	return next, afterNext
}

// CanScore reports whether frame n (1–10) can be scored yet.
func (g *Game) CanScore(n int) bool {
	if n < 1 || n > FrameCount || g.frames[n-1] == nil {
		return false
	}
	next, afterNext := g.following(n - 1)
	return g.frames[n-1].CanScore(next, afterNext)
}

// FrameScore returns the score of frame n alone.
func (g *Game) FrameScore(n int) (int, error) {
	if n < 1 || n > FrameCount {
		return 0, fmt.Errorf("%w: got %d", ErrFrameOutOfRange, n)
	}
	f := g.frames[n-1]
	if f == nil {
		return 0, fmt.Errorf("frame %d: %w", n, ErrFrameNotStarted)
	}
	next, afterNext := g.following(n - 1)
	return f.Score(next, afterNext)
}

// FinalScore returns the total of all ten frames. It returns an error
// wrapping ErrPrematureScore until the game is complete. The total and the
// per-frame running totals are computed once and cached.
func (g *Game) FinalScore() (int, error) {
	if g.finalized {
		return g.final, nil
	}
	if !g.Complete() {
		return 0, fmt.Errorf("game at frame %d: %w", g.active, ErrPrematureScore)
	}

	var cumulative [FrameCount]int
	total := 0
	for i := range g.frames {
		// Unreachable for a game built through RecordThrow.
		score, err := g.FrameScore(i + 1)
		if err != nil {
			return 0, fmt.Errorf("complete game cannot score: %w", err)
		}
		total += score
		cumulative[i] = total
	}

	g.cumulative = cumulative
	g.final = total
	g.finalized = true
	slog.Debug("bowling: game scored", "final", total)
	return total, nil
}

// Frame returns a view of frame n. It returns ErrFrameOutOfRange for n
// outside 1–10 and ErrFrameNotStarted for frames not reached yet.
func (g *Game) Frame(n int) (FrameView, error) {
	if n < 1 || n > FrameCount {
		return FrameView{}, fmt.Errorf("%w: got %d", ErrFrameOutOfRange, n)
	}
	views := g.Frames()
	if !views[n-1].Started {
		return views[n-1], fmt.Errorf("frame %d: %w", n, ErrFrameNotStarted)
	}
	return views[n-1], nil
}

// Frames returns views of all ten frames in order. Running totals stop at
// the first frame that cannot be scored yet.
func (g *Game) Frames() []FrameView {
	views := make([]FrameView, FrameCount)
	total := 0
	scoring := true
	for i, f := range g.frames {
		views[i].Number = i + 1
		if f == nil {
			views[i].Throws = []Throw{}
			scoring = false
			continue
		}
		views[i].Started = true
		views[i].Throws = f.Throws()

		if !scoring {
			continue
		}
		if g.finalized {
			views[i].Scored = true
			views[i].Cumulative = g.cumulative[i]
			views[i].Score = g.cumulative[i] - total
			total = g.cumulative[i]
			continue
		}
		next, afterNext := g.following(i)
		if !f.CanScore(next, afterNext) {
			scoring = false
			continue
		}
		score, err := f.Score(next, afterNext)
		if err != nil {
			scoring = false
			continue
		}
		total += score
		views[i].Scored = true
		views[i].Score = score
		views[i].Cumulative = total
	}
	return views
}
