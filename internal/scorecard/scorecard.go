// Package scorecard renders bowling games as one-line text scorecards.
//
//	[6|/]  [X|-]  [9|0]  ...  [X|X|X]  => Final score: 187
//
// Frames one through nine show two marks and the tenth shows three; marks not
// thrown yet are drawn as "-". Strikes and spares are coloured when the
// renderer's termenv profile supports it.
package scorecard

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/pinsetter/pinsetter/pkg/bowling"
)

const (
	empty     = "-"
	separator = "  "

	strikeColor = "9"  // bright red
	spareColor  = "11" // bright yellow
)

// Renderer formats games. Use New; the zero value renders in true colour.
type Renderer struct {
	profile    termenv.Profile
	cumulative bool
}

// New returns a Renderer using profile for colour. When cumulative is set,
// Render adds a second line with the running total under each scored frame.
func New(profile termenv.Profile, cumulative bool) *Renderer {
	return &Renderer{profile: profile, cumulative: cumulative}
}

// Render returns the scorecard for g, with the final score appended once the
// game is complete.
func (r *Renderer) Render(g *bowling.Game) string {
	var final *int
	if score, err := g.FinalScore(); err == nil {
		final = &score
	}
	return r.RenderViews(g.Frames(), final)
}

// RenderViews renders frame views taken earlier, appending final when non-nil.
func (r *Renderer) RenderViews(views []bowling.FrameView, final *int) string {
	var b strings.Builder
	b.WriteString(r.Frames(views))
	if final != nil {
		fmt.Fprintf(&b, "%s=> Final score: %d", separator, *final)
	}
	if r.cumulative {
		b.WriteByte('\n')
		b.WriteString(Totals(views))
	}
	return b.String()
}

// Frames renders the frame cells only.
func (r *Renderer) Frames(views []bowling.FrameView) string {
	cells := make([]string, len(views))
	for i, v := range views {
		cells[i] = r.cell(v)
	}
	return strings.Join(cells, separator)
}

func (r *Renderer) cell(v bowling.FrameView) string {
	marks := Marks(v)
	for i, m := range marks {
		marks[i] = r.style(m)
	}
	return "[" + strings.Join(marks, "|") + "]"
}

func (r *Renderer) style(mark string) string {
	if r.profile == termenv.Ascii {
		return mark
	}
	switch mark {
	case bowling.Strike.Symbol():
		return termenv.String(mark).Foreground(r.profile.Color(strikeColor)).String()
	case bowling.Spare.Symbol():
		return termenv.String(mark).Foreground(r.profile.Color(spareColor)).String()
	}
	return mark
}

// Marks returns the symbols for each slot of v, padded with "-": two slots
// for frames 1–9 and three for frame 10.
func Marks(v bowling.FrameView) []string {
	slots := 2
	if v.Number == bowling.FrameCount {
		slots = 3
	}
	marks := make([]string, slots)
	for i := range marks {
		marks[i] = empty
		if i < len(v.Throws) {
			marks[i] = v.Throws[i].Symbol()
		}
	}
	return marks
}

// Cell returns the uncoloured cell for v, e.g. "[7|/]".
func Cell(v bowling.FrameView) string {
	return "[" + strings.Join(Marks(v), "|") + "]"
}

// Totals returns running totals right-aligned under each frame cell. Frames
// without a known total are left blank.
func Totals(views []bowling.FrameView) string {
	cols := make([]string, len(views))
	for i, v := range views {
		width := len(Cell(v))
		total := ""
		if v.Scored {
			total = fmt.Sprint(v.Cumulative)
		}
		cols[i] = fmt.Sprintf("%*s", width, total)
	}
	return strings.TrimRight(strings.Join(cols, separator), " ")
}
