package bowling

import (
	"fmt"
	"log/slog"
	"strings"
)

// FrameCount is the number of frames in a game.
const FrameCount = 10

// maxSlots is the slot capacity of the tenth frame; frames 1–9 use two.
const maxSlots = 3

// Frame holds the throws of one frame. Slots fill in order and are never
// rewritten; a throw rejected by Validate leaves the frame untouched.
type Frame struct {
	number int
	slots  [maxSlots]Throw
	n      int // filled slots
}

// NewFrame returns an empty frame numbered 1–10.
func NewFrame(number int) (*Frame, error) {
	if number < 1 || number > FrameCount {
		return nil, fmt.Errorf("%w: got %d", ErrFrameOutOfRange, number)
	}
	return &Frame{number: number}, nil
}

// Number returns the frame number, 1–10.
func (f *Frame) Number() int { return f.number }

// Len returns the number of throws recorded so far.
func (f *Frame) Len() int { return f.n }

// Throws returns a copy of the recorded throws in slot order.
func (f *Frame) Throws() []Throw {
	out := make([]Throw, f.n)
	copy(out, f.slots[:f.n])
	return out
}

// First returns the first slot and whether it is filled.
func (f *Frame) First() (Throw, bool) { return f.slot(0) }

// Second returns the second slot and whether it is filled.
func (f *Frame) Second() (Throw, bool) { return f.slot(1) }

// Third returns the third slot and whether it is filled. Only frame 10 fills it.
func (f *Frame) Third() (Throw, bool) { return f.slot(2) }

func (f *Frame) slot(i int) (Throw, bool) {
	if i >= f.n {
		return 0, false
	}
	return f.slots[i], true
}

// IsStrike reports whether the frame opened with a strike.
func (f *Frame) IsStrike() bool { return f.n > 0 && f.slots[0] == Strike }

// IsSpare reports whether the second slot holds a spare.
func (f *Frame) IsSpare() bool { return f.n > 1 && f.slots[1] == Spare }

func (f *Frame) tenth() bool { return f.number == FrameCount }

// Full reports whether the frame accepts no more throws. Frames 1–9 are full
// after a strike or two throws; frame 10 after three throws, or two when
// neither a strike nor a spare earned the bonus throw.
func (f *Frame) Full() bool {
	if !f.tenth() {
		return f.n == 2 || f.IsStrike()
	}
	return f.n == maxSlots || (f.n == 2 && !f.IsStrike() && !f.IsSpare())
}

// freshRack reports whether the next throw into this frame faces ten pins.
func (f *Frame) freshRack() bool {
	switch f.n {
	case 0:
		return true
	case 1:
		return f.tenth() && f.slots[0] == Strike
	case 2:
		return f.tenth() && (f.slots[1] == Strike || f.slots[1] == Spare)
	}
	return false
}

// Standing returns how many pins the next throw into this frame faces, or 0
// when the frame is full.
func (f *Frame) Standing() int {
	switch {
	case f.Full():
		return 0
	case f.freshRack():
		return PinCount
	}
	return PinCount - f.pins(f.n-1)
}

// pins resolves the pin count of slot i. A Spare knocks down whatever the
// previous throw in the frame left standing.
func (f *Frame) pins(i int) int {
	if f.slots[i] == Spare {
		return PinCount - f.pins(i-1)
	}
	return pinsOf(f.slots[i])
}

// Validate reports whether t may be recorded next. It never modifies f.
// When f is full, frames 1–9 answer for the successor that RecordThrow would
// open; frame 10 returns ErrThrowsExceeded.
func (f *Frame) Validate(t Throw) error {
	if !t.Valid() {
		return f.reject(f.number, t, "unknown throw value")
	}
	if f.Full() {
		if f.tenth() {
			return fmt.Errorf("frame %d: %w", f.number, ErrThrowsExceeded)
		}
		if t == Spare {
			return f.reject(f.number+1, t, "a spare cannot open a frame")
		}
		return nil
	}

	fresh := f.freshRack()
	switch t {
	case Spare:
		if f.n == 0 {
			return f.reject(f.number, t, "a spare cannot open a frame")
		}
		if fresh {
			return f.reject(f.number, t, "a spare cannot follow a strike or spare")
		}
	case Strike:
		if !fresh {
			if f.tenth() {
				return f.reject(f.number, t, "a strike in frame 10 must follow a strike or spare")
			}
			return f.reject(f.number, t, "a strike can only be the first throw of a frame")
		}
	default:
		if standing := f.Standing(); pinsOf(t) > standing {
			return f.reject(f.number, t, fmt.Sprintf("only %d pins standing", standing))
		}
	}
	return nil
}

func (f *Frame) reject(number int, t Throw, reason string) error {
	return fmt.Errorf("frame %d: %w %s: %s", number, ErrInvalidThrow, t, reason)
}

// RecordThrow validates t and writes it into the first empty slot. A second
// throw that clears the rack is stored as Spare whatever value was passed.
//
// When f is already full (frames 1–9 only) a successor frame is created, t is
// recorded into it, and the successor is returned so the caller can install
// it and advance. Otherwise RecordThrow returns a nil frame.
func (f *Frame) RecordThrow(t Throw) (*Frame, error) {
	if err := f.Validate(t); err != nil {
		return nil, err
	}

	if f.Full() {
		next, err := NewFrame(f.number + 1)
		if err != nil {
			return nil, err
		}
		if _, err := next.RecordThrow(t); err != nil {
			return nil, err
		}
		return next, nil
	}

	if f.n == 1 && !f.freshRack() && t.IsPins() && pinsOf(t) == f.Standing() {
		t = Spare
	}
	f.slots[f.n] = t
	f.n++
	return nil, nil
}

// CanScore reports whether every pin count needed to score f is known.
// next and afterNext are the two frames that follow f, nil when not yet
// created; they are only consulted for a strike or spare in frames 1–9.
func (f *Frame) CanScore(next, afterNext *Frame) bool {
	if !f.Full() {
		return false
	}
	switch {
	case f.tenth():
		return true
	case f.IsStrike():
		return len(bonusPins(2, next, afterNext)) == 2
	case f.IsSpare():
		return len(bonusPins(1, next, afterNext)) == 1
	}
	return true
}

// Score returns the points earned by f. It returns ErrPrematureScore while
// CanScore is false.
//
//	frame 10: pins of every slot, bonus throws included
//	strike:   10 + the next two throws
//	spare:    10 + the next throw
//	open:     first + second
func (f *Frame) Score(next, afterNext *Frame) (int, error) {
	if !f.CanScore(next, afterNext) {
		return 0, fmt.Errorf("frame %d: %w", f.number, ErrPrematureScore)
	}

	score := 0
	for i := 0; i < f.n; i++ {
		score += f.pins(i)
	}

	var bonus []int
	switch {
	case f.tenth():
	case f.IsStrike():
		bonus = bonusPins(2, next, afterNext)
	case f.IsSpare():
		bonus = bonusPins(1, next, afterNext)
	}
	for _, p := range bonus {
		score += p
	}

	slog.Debug("bowling: frame scored",
		"frame", f.number, "throws", f.String(), "bonus", bonus, "score", score)
	return score, nil
}

// bonusPins collects up to k pin counts thrown after a frame, walking the
// following frames in order. A frame that is not yet full ends the walk.
func bonusPins(k int, following ...*Frame) []int {
	out := make([]int, 0, k)
	for _, fr := range following {
		if fr == nil {
			break
		}
		for i := 0; i < fr.n && len(out) < k; i++ {
			out = append(out, fr.pins(i))
		}
		if len(out) == k || !fr.Full() {
			break
		}
	}
	return out
}

// String returns the recorded symbols separated by spaces, e.g. "6 /".
func (f *Frame) String() string {
	parts := make([]string, f.n)
	for i := 0; i < f.n; i++ {
		parts[i] = f.slots[i].Symbol()
	}
	return strings.Join(parts, " ")
}
