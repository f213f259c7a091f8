package calculator

import (
	"errors"
	"math"

	"StockPulse/internal/model"
)

// CalculateRange scans the whole series and returns the highest high and lowest low.
func CalculateRange(series model.Series) (high, low float64, err error) {
	if len(series) == 0 {
		return 0, 0, errors.New("no candles provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, c := range series {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	return high, low, nil
}

// CalculatePosition returns where the current price sits within [low, high] (0.0~1.0).
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
