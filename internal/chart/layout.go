package chart

import (
	"fmt"
	"math"

	"StockPulse/internal/model"
)

// CandleShape is the drawable geometry of one candle, in plot-area
// coordinates (origin at the top-left of the inner rectangle).
type CandleShape struct {
	Index int
	X     float64
	Width float64

	BodyY      float64
	BodyHeight float64

	WickX      float64
	WickTop    float64
	WickBottom float64

	VolumeY      float64
	VolumeHeight float64

	Up bool
}

// Tick is an axis mark. Pos is y for price ticks and x for date ticks.
type Tick struct {
	Value float64 `json:"value"`
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// Result is everything needed to draw and hit-test one chart.
type Result struct {
	Empty    bool
	Geometry Geometry
	Series   model.Series

	Candles    []CandleShape
	PriceTicks []Tick
	DateTicks  []Tick

	PriceMin, PriceMax float64
	MaxVolume          int64
	Bandwidth          float64
	DateStep           int
}

// Layout computes scales, ticks and candle geometry for series drawn into
// geo. It has no side effects and the same input always yields the same
// Result. The returned Result shares series' backing array.
func Layout(series model.Series, geo Geometry) Result {
	innerW, innerH := geo.InnerWidth(), geo.InnerHeight()
	if len(series) == 0 || innerW <= 0 || innerH <= 0 {
		return Result{Empty: true, Geometry: geo}
	}

	n := len(series)
	band := NewBandScale(n, innerW, bandPadding)

	lo, hi := priceDomain(series)
	price := LinearScale{D0: lo, D1: hi, R0: innerH, R1: 0}

	var maxVol int64
	for _, c := range series {
		if c.Volume > maxVol {
			maxVol = c.Volume
		}
	}
	vol := LinearScale{D0: 0, D1: float64(maxVol), R0: 0, R1: innerH * volumeRatio}

	bw := band.Bandwidth()
	candles := make([]CandleShape, n)
	for i, c := range series {
		x := band.Position(i)
		yOpen, yClose := price.Map(c.Open), price.Map(c.Close)

		var vh float64
		if maxVol > 0 {
			vh = vol.Map(float64(c.Volume))
		}

		candles[i] = CandleShape{
			Index:        i,
			X:            x,
			Width:        bw,
			BodyY:        price.Map(math.Max(c.Open, c.Close)),
			BodyHeight:   math.Max(1, math.Abs(yOpen-yClose)),
			WickX:        x + bw/2,
			WickTop:      price.Map(c.High),
			WickBottom:   price.Map(c.Low),
			VolumeY:      innerH - vh,
			VolumeHeight: vh,
			Up:           c.Up(),
		}
	}

	var priceTicks []Tick
	for _, v := range NiceTicks(lo, hi, targetTicks) {
		priceTicks = append(priceTicks, Tick{Value: v, Pos: price.Map(v), Label: fmt.Sprintf(priceLabelFormat, v)})
	}

	dateStep := (n + targetTicks - 1) / targetTicks
	var dateTicks []Tick
	for i := 0; i < n; i += dateStep {
		dateTicks = append(dateTicks, Tick{
			Value: float64(i),
			Pos:   candles[i].WickX,
			Label: series[i].Date.Format(dateLabelFormat),
		})
	}

	return Result{
		Geometry:   geo,
		Series:     series,
		Candles:    candles,
		PriceTicks: priceTicks,
		DateTicks:  dateTicks,
		PriceMin:   lo,
		PriceMax:   hi,
		MaxVolume:  maxVol,
		Bandwidth:  bw,
		DateStep:   dateStep,
	}
}

// priceDomain returns [minLow, maxHigh] widened by 10% of the range on each
// side. A flat series is widened by 1% of its value, or by 1 at zero.
func priceDomain(series model.Series) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range series {
		lo = math.Min(lo, c.Low)
		hi = math.Max(hi, c.High)
	}

	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = math.Abs(lo) * 0.01
		if pad == 0 {
			pad = 1
		}
	}
	return lo - pad, hi + pad
}
