package chart

import "math"

// BandScale divides a continuous range into N evenly spaced bands with equal
// inner and outer padding, centered in the range.
type BandScale struct {
	n         int
	start     float64
	step      float64
	bandwidth float64
}

// NewBandScale creates a band scale over [0, width]. padding is the fraction
// of each step left empty between bands and is also used at both ends.
func NewBandScale(n int, width, padding float64) BandScale {
	if n <= 0 || width <= 0 {
		return BandScale{}
	}
	step := width / math.Max(1, float64(n)-padding+padding*2)
	start := (width - step*(float64(n)-padding)) / 2
	return BandScale{
		n:         n,
		start:     start,
		step:      step,
		bandwidth: step * (1 - padding),
	}
}

// Position returns the left edge of band i.
func (b BandScale) Position(i int) float64 { return b.start + float64(i)*b.step }

func (b BandScale) Bandwidth() float64 { return b.bandwidth }

func (b BandScale) Step() float64 { return b.step }

func (b BandScale) Len() int { return b.n }

// LinearScale maps a domain [D0, D1] onto a range [R0, R1].
type LinearScale struct {
	D0, D1 float64
	R0, R1 float64
}

// Map projects v onto the range. A degenerate domain maps everything to the
// middle of the range.
func (s LinearScale) Map(v float64) float64 {
	span := s.D1 - s.D0
	if span == 0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (v-s.D0)/span*(s.R1-s.R0)
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// NiceTicks returns roughly count round values (multiples of 1, 2 or 5 times
// a power of ten) inside [lo, hi].
func NiceTicks(lo, hi float64, count int) []float64 {
	if count <= 0 || math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || hi < lo {
		return nil
	}
	if lo == hi {
		return []float64{lo}
	}

	step := (hi - lo) / float64(count)
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errRatio >= e10:
		factor = 10
	case errRatio >= e5:
		factor = 5
	case errRatio >= e2:
		factor = 2
	}

	// Past 2^53 the counter stops advancing, so cap the tick count.
	limit := 2*count + 2
	var ticks []float64
	if power >= 0 {
		inc := factor * math.Pow(10, power)
		for i := math.Ceil(lo / inc); i*inc <= hi && len(ticks) < limit; i++ {
			ticks = append(ticks, i*inc)
		}
		return ticks
	}

	// Divide by the inverse increment so ticks like 0.3 come out exact.
	inv := math.Pow(10, -power) / factor
	for i := math.Ceil(lo * inv); i/inv <= hi && len(ticks) < limit; i++ {
		ticks = append(ticks, i/inv)
	}
	return ticks
}
