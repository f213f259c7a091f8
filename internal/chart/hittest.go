package chart

import (
	"sort"

	"StockPulse/internal/model"
)

// Tooltip describes the hovered candle. The zero value is hidden.
type Tooltip struct {
	Visible bool
	X, Y    float64
	Index   int
	Candle  *model.Candle
}

// Rect is an axis-aligned rectangle in container coordinates.
type Rect struct {
	X, Y, W, H float64
}

// HitIndex resolves pointer positions to candles for one Result. Build a new
// one whenever the layout changes.
type HitIndex struct {
	result *Result
	starts []float64
}

// NewHitIndex indexes the band starts of r. r must not be modified while the
// index is in use.
func NewHitIndex(r *Result) *HitIndex {
	h := &HitIndex{result: r}
	if r == nil || r.Empty {
		return h
	}
	h.starts = make([]float64, len(r.Candles))
	for i, c := range r.Candles {
		h.starts[i] = c.X
	}
	return h
}

// Hit returns the tooltip for the candle whose body contains (px, py).
func (h *HitIndex) Hit(px, py float64) Tooltip {
	if len(h.starts) == 0 {
		return Tooltip{}
	}
	m := h.result.Geometry.Margins
	x, y := px-m.Left, py-m.Top

	i := sort.Search(len(h.starts), func(i int) bool { return h.starts[i] > x }) - 1
	if i < 0 {
		return Tooltip{}
	}
	c := h.result.Candles[i]
	if x > c.X+c.Width || y < c.BodyY || y > c.BodyY+c.BodyHeight {
		return Tooltip{}
	}
	return h.tooltip(i)
}

// HitArea returns the tooltip for the leftmost candle whose body intersects
// rect. Used where the pointer covers an area, such as a terminal cell.
func (h *HitIndex) HitArea(rect Rect) Tooltip {
	if len(h.starts) == 0 || rect.W <= 0 || rect.H <= 0 {
		return Tooltip{}
	}
	m := h.result.Geometry.Margins
	x0, y0 := rect.X-m.Left, rect.Y-m.Top
	x1, y1 := x0+rect.W, y0+rect.H

	bw := h.result.Bandwidth
	first := sort.Search(len(h.starts), func(i int) bool { return h.starts[i]+bw > x0 })
	for i := first; i < len(h.starts) && h.starts[i] < x1; i++ {
		c := h.result.Candles[i]
		if c.BodyY < y1 && y0 < c.BodyY+c.BodyHeight {
			return h.tooltip(i)
		}
	}
	return Tooltip{}
}

func (h *HitIndex) tooltip(i int) Tooltip {
	r := h.result
	c := r.Candles[i]
	return Tooltip{
		Visible: true,
		X:       r.Geometry.Margins.Left + c.X + c.Width/2,
		Y:       r.Geometry.Margins.Top + c.BodyY - r.Geometry.TooltipOffset,
		Index:   i,
		Candle:  &r.Series[i],
	}
}
