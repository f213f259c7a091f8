package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_IsOpen(t *testing.T) {
	s, err := NewSession("", "", "", nil)
	require.NoError(t, err)

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		at   time.Time
		open bool
	}{
		{"wednesday morning", time.Date(2026, 10, 21, 10, 0, 0, 0, ny), true},
		{"opening bell", time.Date(2026, 10, 21, 9, 30, 0, 0, ny), true},
		{"before open", time.Date(2026, 10, 21, 9, 29, 59, 0, ny), false},
		{"closing bell", time.Date(2026, 10, 21, 16, 0, 0, 0, ny), false},
		{"last second", time.Date(2026, 10, 21, 15, 59, 59, 0, ny), true},
		{"saturday", time.Date(2026, 10, 24, 12, 0, 0, 0, ny), false},
		{"friday evening", time.Date(2026, 10, 23, 18, 0, 0, 0, ny), false},
		{"other zone, same instant", time.Date(2026, 10, 21, 14, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.open, s.IsOpen(tt.at))
		})
	}
}

func TestSession_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	s, err := NewSession("Mars/Olympus_Mons", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, s.loc)
	assert.True(t, s.IsOpen(time.Date(2026, 10, 21, 10, 0, 0, 0, time.UTC)))
}

func TestSession_BadSpec(t *testing.T) {
	_, err := NewSession("", "not a cron", "", nil)
	assert.Error(t, err)
	_, err = NewSession("", "", "* * *", nil)
	assert.Error(t, err)
}

func TestSession_BellsNotify(t *testing.T) {
	var got []bool
	s, err := NewSession("UTC", "", "", func(open bool) { got = append(got, open) })
	require.NoError(t, err)
	require.NoError(t, s.RegisterAll())
	assert.Len(t, s.Cron.Entries(), 2)

	s.set(true)
	assert.True(t, s.Open())
	assert.Equal(t, "Open", s.Status())

	s.set(false)
	assert.False(t, s.Open())
	assert.Equal(t, "Closed", s.Status())
	assert.Equal(t, []bool{true, false}, got)
}

func TestSession_OnChangeReplacesCallback(t *testing.T) {
	var first, second int
	s, err := NewSession("UTC", "", "", func(bool) { first++ })
	require.NoError(t, err)

	s.OnChange(func(bool) { second++ })
	s.set(true)
	assert.Zero(t, first)
	assert.Equal(t, 1, second)

	s.OnChange(nil)
	s.set(false)
	assert.Equal(t, 1, second)
}
