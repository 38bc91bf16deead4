// Package domain provides core domain models and types.
package domain

import (
	"fmt"
	"time"
)

// Bar represents one daily OHLCV bar. Bars are immutable once loaded.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is one instrument's daily bar history, date-ascending.
type Series struct {
	Symbol string
	Bars   []Bar
}

// Len returns the number of bars in the series.
func (s Series) Len() int {
	return len(s.Bars)
}

// Last returns the most recent bar. The series must not be empty.
func (s Series) Last() Bar {
	return s.Bars[len(s.Bars)-1]
}

// Tail returns the last n bars (all bars when n exceeds the length).
func (s Series) Tail(n int) []Bar {
	if n >= len(s.Bars) {
		return s.Bars
	}
	return s.Bars[len(s.Bars)-n:]
}

// Window returns the bars in [start, end] (inclusive indexes).
func (s Series) Window(start, end int) []Bar {
	return s.Bars[start : end+1]
}

// Closes extracts the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high column.
func (s Series) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low column.
func (s Series) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts the volume column.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// Validate checks the series ordering invariants: bars must be strictly
// date-ascending, which also forbids duplicate dates.
func (s Series) Validate() error {
	for i := 1; i < len(s.Bars); i++ {
		prev, cur := s.Bars[i-1].Date, s.Bars[i].Date
		if cur.Equal(prev) {
			return fmt.Errorf("%s: bar %d (%s): %w", s.Symbol, i, cur.Format("2006-01-02"), ErrDuplicateDate)
		}
		if cur.Before(prev) {
			return fmt.Errorf("%s: bar %d (%s) out of order", s.Symbol, i, cur.Format("2006-01-02"))
		}
	}
	return nil
}

// HighestHigh returns the maximum high over a bar window.
func HighestHigh(bars []Bar) float64 {
	high := 0.0
	for i, b := range bars {
		if i == 0 || b.High > high {
			high = b.High
		}
	}
	return high
}

// LowestLow returns the minimum low over a bar window.
func LowestLow(bars []Bar) float64 {
	low := 0.0
	for i, b := range bars {
		if i == 0 || b.Low < low {
			low = b.Low
		}
	}
	return low
}
