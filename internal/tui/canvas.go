package tui

import (
	"math"
	"strings"

	"StockPulse/internal/chart"

	"github.com/charmbracelet/lipgloss"
)

type cellKind uint8

const (
	kindNone cellKind = iota
	kindText
	kindGrid
	kindUp
	kindDown
	kindUpVol
	kindDownVol
	kindMarker
)

type cell struct {
	r rune
	k cellKind
}

// canvas is a fixed grid of terminal cells.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, k cellKind) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, k: k}
}

func (c *canvas) empty(x, y int) bool {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return false
	}
	k := c.cells[y*c.w+x].k
	return k == kindNone || k == kindGrid
}

func (c *canvas) text(x, y int, s string, k cellKind) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, k)
	}
}

// lines renders each row, styling runs of equal kind with style.
func (c *canvas) lines(style func(cellKind) lipgloss.Style) []string {
	out := make([]string, c.h)
	var b, run strings.Builder
	for y := 0; y < c.h; y++ {
		b.Reset()
		row := c.cells[y*c.w : (y+1)*c.w]
		for x := 0; x < len(row); {
			k := row[x].k
			run.Reset()
			for x < len(row) && row[x].k == k {
				run.WriteRune(row[x].r)
				x++
			}
			if style == nil || k == kindNone {
				b.WriteString(run.String())
			} else {
				b.WriteString(style(k).Render(run.String()))
			}
		}
		out[y] = b.String()
	}
	return out
}

// drawChart paints a layout in terminal cells. Geometry units are cells.
func drawChart(r *chart.Result, tip chart.Tooltip) *canvas {
	g := r.Geometry
	cv := newCanvas(int(g.Width), int(g.Height))
	if r.Empty {
		msg := "no data"
		cv.text((cv.w-len(msg))/2, cv.h/2, msg, kindText)
		return cv
	}

	left, top := g.Margins.Left, g.Margins.Top
	innerW, innerH := g.InnerWidth(), g.InnerHeight()
	col := func(x float64) int { return int(math.Floor(left + x)) }
	row := func(y float64) int { return int(math.Floor(top + y)) }

	for _, t := range r.PriceTicks {
		y := row(t.Pos)
		for x := col(0); x < col(innerW); x++ {
			cv.set(x, y, '┈', kindGrid)
		}
		cv.text(col(innerW)+1, y, t.Label, kindText)
	}

	labelRow := row(innerH) + 1
	nextFree := 0
	for _, t := range r.DateTicks {
		x := col(t.Pos) - len(t.Label)/2
		if x < nextFree {
			continue
		}
		cv.text(x, labelRow, t.Label, kindText)
		nextFree = x + len(t.Label) + 1
	}

	for _, c := range r.Candles {
		volKind, kind := kindDownVol, kindDown
		if c.Up {
			volKind, kind = kindUpVol, kindUp
		}

		x0, x1 := span(left+c.X, left+c.X+c.Width)
		if c.VolumeHeight > 0 {
			for y := row(c.VolumeY); y < row(innerH); y++ {
				for x := x0; x <= x1; x++ {
					if cv.empty(x, y) {
						cv.set(x, y, '░', volKind)
					}
				}
			}
		}

		wx := col(c.WickX)
		for y := row(c.WickTop); y <= row(c.WickBottom); y++ {
			cv.set(wx, y, '│', kind)
		}

		y0, y1 := span(top+c.BodyY, top+c.BodyY+c.BodyHeight)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				cv.set(x, y, '█', kind)
			}
		}
	}

	if tip.Visible {
		cv.set(int(math.Floor(tip.X)), int(math.Floor(tip.Y)), '▼', kindMarker)
	}
	return cv
}

// span returns the first and last cell touched by the interval [a, b).
func span(a, b float64) (int, int) {
	first := int(math.Floor(a))
	last := int(math.Ceil(b)) - 1
	if last < first {
		last = first
	}
	return first, last
}
