package bowling

import (
	"fmt"
	"strings"
)

// Throw is the outcome of a single ball.
type Throw int

// Throw values. Gutter through Nine are their own pin counts.
const (
	Gutter Throw = iota
	One
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Strike
	Spare
)

// PinCount is the number of pins racked at the start of a frame.
const PinCount = 10

// ThrowValues lists every Throw in declaration order.
var ThrowValues = []Throw{
	Gutter, One, Two, Three, Four, Five, Six, Seven, Eight, Nine, Strike, Spare,
}

var throwNames = [...]string{
	"Gutter", "One", "Two", "Three", "Four", "Five",
	"Six", "Seven", "Eight", "Nine", "Strike", "Spare",
}

// Valid reports whether t is one of the declared Throw values.
func (t Throw) Valid() bool {
	return t >= Gutter && t <= Spare
}

// String returns the name of t, e.g. "Seven" or "Strike".
func (t Throw) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Throw(%d)", int(t))
	}
	return throwNames[t]
}

// Symbol returns the scorecard mark for t: "0"–"9", "X" or "/".
func (t Throw) Symbol() string {
	switch t {
	case Strike:
		return "X"
	case Spare:
		return "/"
	}
	if !t.Valid() {
		return "?"
	}
	return string(rune('0' + int(t)))
}

// IsPins reports whether t is a plain pin count (Gutter through Nine).
func (t Throw) IsPins() bool {
	return t >= Gutter && t <= Nine
}

// MarshalText encodes t as its scorecard symbol.
func (t Throw) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown value %d", ErrInvalidThrow, int(t))
	}
	return []byte(t.Symbol()), nil
}

// UnmarshalText decodes a symbol or name accepted by ParseThrow.
func (t *Throw) UnmarshalText(text []byte) error {
	v, err := ParseThrow(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseThrow reads a scorecard symbol ("X", "/", "-", "0"–"9") or a Throw name
// such as "Strike" or "seven". Matching is case-insensitive.
func ParseThrow(s string) (Throw, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "X", "x":
		return Strike, nil
	case "/":
		return Spare, nil
	case "-":
		return Gutter, nil
	}
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		return Throw(s[0] - '0'), nil
	}
	for i, name := range throwNames {
		if strings.EqualFold(s, name) {
			return Throw(i), nil
		}
	}
	return 0, fmt.Errorf("%w: cannot parse %q", ErrInvalidThrow, s)
}

// pinsOf returns the pin count of a plain throw or a strike. Spare has no
// pin count of its own and reports -1; callers resolve it from frame context.
func pinsOf(t Throw) int {
	switch {
	case t == Strike:
		return PinCount
	case t.IsPins():
		return int(t)
	default:
		return -1
	}
}
