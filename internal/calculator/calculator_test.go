package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockPulse/internal/model"
)

func seriesOf(closes ...float64) model.Series {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	s := make(model.Series, len(closes))
	for i, c := range closes {
		s[i] = model.Candle{Date: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1}
	}
	return s
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4 {
		t.Errorf("expected 4, got %.2f", got)
	}
	if _, err := CalculateSMA([]float64{1, 2}, 3); !errors.Is(err, ErrInsufficientData) {
		t.Error("expected error for short input")
	}
	if _, err := CalculateSMA([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateCloseSMA(t *testing.T) {
	got, err := CalculateCloseSMA(seriesOf(10, 20, 30, 40), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 35 {
		t.Errorf("expected 35, got %.2f", got)
	}
}

func TestCalculateRange(t *testing.T) {
	high, low, err := CalculateRange(seriesOf(10, 15, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 16 || low != 9 {
		t.Errorf("expected 16/9, got %.2f/%.2f", high, low)
	}
	if _, _, err := CalculateRange(nil); err == nil {
		t.Error("expected error for empty series")
	}
}

func TestCalculatePosition(t *testing.T) {
	tests := []struct {
		current, high, low, want float64
	}{
		{15, 20, 10, 0.5},
		{5, 20, 10, 0},
		{25, 20, 10, 1},
		{10, 10, 10, 0.5},
	}
	for _, tt := range tests {
		got, err := CalculatePosition(tt.current, tt.high, tt.low)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("position(%.0f in %.0f..%.0f): expected %.2f, got %.2f", tt.current, tt.low, tt.high, tt.want, got)
		}
	}
	if _, err := CalculatePosition(1, 0, 10); err == nil {
		t.Error("expected error when high < low")
	}
}

func TestCalculateRSI(t *testing.T) {
	rising := seriesOf(1, 2, 3, 4, 5, 6)
	if got, _ := CalculateRSI(rising, 3); got != 100 {
		t.Errorf("expected 100 for monotonic rise, got %.2f", got)
	}

	short := seriesOf(1, 2)
	if _, err := CalculateRSI(short, 14); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for short input, got %v", err)
	}
	if _, err := CalculateRSI(seriesOf(1, 2, 3), 2); err != nil {
		t.Errorf("period+1 candles should be enough, got %v", err)
	}
	if _, err := CalculateRSI(rising, 0); !errors.Is(err, ErrBadPeriod) {
		t.Errorf("expected ErrBadPeriod, got %v", err)
	}

	flat := seriesOf(7, 7, 7, 7, 7)
	if got, _ := CalculateRSI(flat, 3); got != 50 {
		t.Errorf("expected 50 for a flat series, got %.2f", got)
	}

	falling := seriesOf(6, 5, 4, 3, 2, 1)
	if got, _ := CalculateRSI(falling, 3); got != 0 {
		t.Errorf("expected 0 for monotonic fall, got %.2f", got)
	}

	// The first three moves seed up 2/3 and down 1/3, then a +1 move
	// smooths both: up (2/3*2+1)/3 = 7/9, down (1/3*2)/3 = 2/9, so RSI = 77.78.
	if got, _ := CalculateRSI(seriesOf(10, 11, 12, 11, 12), 3); math.Abs(got-700.0/9) > 1e-9 {
		t.Errorf("expected 77.78, got %.4f", got)
	}

	mixed := seriesOf(10, 11, 10, 11, 10, 11, 10)
	got, err := CalculateRSI(mixed, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got <= 0 || got >= 100 || math.IsNaN(got) {
		t.Errorf("expected RSI strictly inside (0,100), got %.2f", got)
	}
}
