package calculator

import (
	"errors"
	"fmt"

	"StockPulse/internal/model"
)

var (
	ErrBadPeriod        = errors.New("period must be positive")
	ErrInsufficientData = errors.New("insufficient data")
)

// CalculateRSI returns the Wilder relative strength index of the closes.
// It needs period+1 candles; shorter series yield ErrInsufficientData so the
// caller picks its own neutral value. A series that never moves reads 50.
func CalculateRSI(series model.Series, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrBadPeriod
	}
	if len(series) < period+1 {
		return 0, fmt.Errorf("%w: rsi(%d) over %d candles", ErrInsufficientData, period, len(series))
	}

	up, down := moves(series.Closes())
	n := float64(period)
	avgUp := sum(up[:period]) / n
	avgDown := sum(down[:period]) / n
	for i := period; i < len(up); i++ {
		avgUp += (up[i] - avgUp) / n
		avgDown += (down[i] - avgDown) / n
	}

	switch {
	case avgUp == 0 && avgDown == 0:
		return 50, nil
	case avgDown == 0:
		return 100, nil
	}
	return 100 * avgUp / (avgUp + avgDown), nil
}

// moves splits close-to-close changes into upward and downward magnitudes.
func moves(closes []float64) (up, down []float64) {
	up = make([]float64, len(closes)-1)
	down = make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if d := closes[i] - closes[i-1]; d > 0 {
			up[i-1] = d
		} else {
			down[i-1] = -d
		}
	}
	return up, down
}

func sum(vs []float64) float64 {
	var s float64
	for _, v := range vs {
		s += v
	}
	return s
}
