package market

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"StockPulse/internal/model"
)

// DefaultDays is the history length requested when none is configured.
const DefaultDays = 90

const (
	startDiscount = 0.85 // walk starts below the target price
	minVolatility = 0.02
	volSpread     = 0.03
	upBias        = 0.45 // U(0,1)-0.45 drifts slightly upward
	meanReversion = 0.1
	wickFactor    = 0.5
	minVolume     = 10_000_000
	volumeSpread  = 50_000_000
	minPrice      = 0.01
)

// Generator produces synthetic daily candles with a random walk that is
// pulled back toward the base price.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a Generator over the given random source and clock.
func NewGenerator(rng *rand.Rand, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// NewSeededGenerator creates a Generator seeded with seed, or with the
// current time when seed is 0.
func NewSeededGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewGenerator(rand.New(rand.NewSource(seed)), time.Now)
}

// Generate returns days+1 candles ending today and trending toward basePrice.
// Negative days are treated as 0. A non-positive base price yields an empty
// series.
func (g *Generator) Generate(basePrice float64, days int) model.Series {
	if basePrice <= 0 {
		return model.Series{}
	}
	if days < 0 {
		days = 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	today := midnight(g.now())
	series := make(model.Series, 0, days+1)
	current := basePrice * startDiscount

	for i := days; i >= 0; i-- {
		volatility := minVolatility + g.rng.Float64()*volSpread
		trend := (basePrice - current) / basePrice * meanReversion
		change := (g.rng.Float64() - upBias + trend) * volatility * current

		open := current
		closePrice := current + change
		high := math.Max(open, closePrice) + g.rng.Float64()*math.Abs(change)*wickFactor
		low := math.Min(open, closePrice) - g.rng.Float64()*math.Abs(change)*wickFactor
		volume := int64(g.rng.Intn(volumeSpread)) + minVolume

		series = append(series, model.Candle{
			Date:   today.AddDate(0, 0, -i),
			Open:   roundPrice(open),
			High:   roundPrice(high),
			Low:    roundPrice(low),
			Close:  roundPrice(closePrice),
			Volume: volume,
		})
		current = closePrice
	}
	return series
}

// roundPrice rounds to cents. Rounding is monotone, so the OHLC ordering
// established before rounding still holds after it.
func roundPrice(v float64) float64 {
	r := math.Round(v*100) / 100
	if r < minPrice {
		return minPrice
	}
	return r
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
