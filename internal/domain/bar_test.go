package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func daySeries(dates ...time.Time) Series {
	bars := make([]Bar, len(dates))
	for i, d := range dates {
		bars[i] = Bar{Date: d, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1e6}
	}
	return Series{Symbol: "TEST", Bars: bars}
}

func TestValidate(t *testing.T) {
	d0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	d1 := d0.AddDate(0, 0, 1)
	d2 := d0.AddDate(0, 0, 2)

	assert.NoError(t, daySeries(d0, d1, d2).Validate())
	assert.ErrorIs(t, daySeries(d0, d1, d1).Validate(), ErrDuplicateDate)
	assert.ErrorContains(t, daySeries(d0, d2, d1).Validate(), "out of order")
	assert.NoError(t, daySeries().Validate())
}

func TestWindowAndTail(t *testing.T) {
	d0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	s := Series{Symbol: "TEST"}
	for i := 0; i < 5; i++ {
		s.Bars = append(s.Bars, Bar{Date: d0.AddDate(0, 0, i), Close: float64(i)})
	}

	assert.Len(t, s.Window(1, 3), 3)
	assert.Equal(t, 1.0, s.Window(1, 3)[0].Close)
	assert.Equal(t, 3.0, s.Window(1, 3)[2].Close)

	assert.Len(t, s.Tail(2), 2)
	assert.Equal(t, 4.0, s.Tail(2)[1].Close)
	assert.Len(t, s.Tail(50), 5)

	assert.Equal(t, 4.0, s.Last().Close)
}

func TestHighLowOverWindow(t *testing.T) {
	bars := []Bar{
		{High: 12, Low: 9},
		{High: 15, Low: 11},
		{High: 13, Low: 8},
	}
	assert.Equal(t, 15.0, HighestHigh(bars))
	assert.Equal(t, 8.0, LowestLow(bars))
	assert.Equal(t, 0.0, HighestHigh(nil))
}

func TestGradeRank(t *testing.T) {
	assert.Less(t, GradeAPlus.Rank(), GradeA.Rank())
	assert.Less(t, GradeA.Rank(), GradeB.Rank())
	assert.Less(t, GradeB.Rank(), GradeC.Rank())
	assert.Less(t, GradeC.Rank(), GradeReject.Rank())
	assert.Less(t, GradeReject.Rank(), Grade("?").Rank())
}
