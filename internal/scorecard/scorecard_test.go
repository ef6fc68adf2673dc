package scorecard

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/pinsetter/pinsetter/pkg/bowling"
)

func play(t *testing.T, card string) *bowling.Game {
	t.Helper()
	g := bowling.New()
	for _, s := range strings.Fields(card) {
		th, err := bowling.ParseThrow(s)
		if err != nil {
			t.Fatalf("ParseThrow(%q): %v", s, err)
		}
		if err := g.RecordThrow(th); err != nil {
			t.Fatalf("RecordThrow(%s): %v", th, err)
		}
	}
	return g
}

func TestRender_NewGame(t *testing.T) {
	got := New(termenv.Ascii, false).Render(bowling.New())
	want := strings.Repeat("[-|-]  ", 9) + "[-|-|-]"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestRender_Perfect(t *testing.T) {
	g := play(t, strings.Repeat("X ", 12))
	got := New(termenv.Ascii, false).Render(g)
	want := strings.Repeat("[X|-]  ", 9) + "[X|X|X]  => Final score: 300"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestRender_InProgress(t *testing.T) {
	g := play(t, "6 / X 9 0 3")
	got := New(termenv.Ascii, false).Render(g)
	if !strings.HasPrefix(got, "[6|/]  [X|-]  [9|0]  [3|-]  [-|-]") {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "Final score") {
		t.Errorf("incomplete game shows a final score: %q", got)
	}
}

func TestRender_TenthSpareBonus(t *testing.T) {
	g := play(t, strings.Repeat("0 0 ", 9)+"7 / X")
	got := New(termenv.Ascii, false).Render(g)
	if !strings.HasSuffix(got, "[7|/|X]  => Final score: 20") {
		t.Errorf("got %q", got)
	}
}

func TestRender_Cumulative(t *testing.T) {
	g := play(t, "X 7 / 9 0")
	lines := strings.Split(New(termenv.Ascii, true).Render(g), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	// 20, 39, 48 right-aligned under 5-wide cells.
	want := "   20     39     48"
	if lines[1] != want {
		t.Errorf("totals: got %q, want %q", lines[1], want)
	}
}

func TestRender_Colour(t *testing.T) {
	g := play(t, "X 4 /")
	got := New(termenv.ANSI256, false).Render(g)
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("ANSI256 output has no escapes: %q", got)
	}
	if plain := New(termenv.Ascii, false).Render(g); strings.Contains(plain, "\x1b[") {
		t.Errorf("Ascii output has escapes: %q", plain)
	}
}

func TestMarks(t *testing.T) {
	tests := []struct {
		view bowling.FrameView
		want string
	}{
		{bowling.FrameView{Number: 1}, "[-|-]"},
		{bowling.FrameView{Number: 3, Throws: []bowling.Throw{bowling.Strike}}, "[X|-]"},
		{bowling.FrameView{Number: 5, Throws: []bowling.Throw{bowling.Gutter, bowling.Spare}}, "[0|/]"},
		{bowling.FrameView{Number: 10, Throws: []bowling.Throw{bowling.Eight, bowling.One}}, "[8|1|-]"},
	}
	for _, tc := range tests {
		if got := Cell(tc.view); got != tc.want {
			t.Errorf("Cell(%+v) = %q, want %q", tc.view, got, tc.want)
		}
	}
}
