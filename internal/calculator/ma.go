package calculator

import (
	"fmt"

	"StockPulse/internal/model"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrBadPeriod
	}
	if len(prices) < period {
		return 0, fmt.Errorf("%w: sma(%d) over %d prices", ErrInsufficientData, period, len(prices))
	}
	return sum(prices[len(prices)-period:]) / float64(period), nil
}

// CalculateCloseSMA returns the simple moving average of the last period closes.
func CalculateCloseSMA(series model.Series, period int) (float64, error) {
	return CalculateSMA(series.Closes(), period)
}
