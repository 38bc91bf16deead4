package universe

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/sepascan/internal/domain"
)

func TestThreeMonthReturn(t *testing.T) {
	bars := make([]domain.Bar, 64)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = domain.Bar{Date: day.AddDate(0, 0, i), Close: 100}
	}
	bars[0].Close = 80
	bars[63].Close = 100

	s := domain.Series{Symbol: "TEST", Bars: bars}
	ret := ThreeMonthReturn(s, 63)
	require.NotNil(t, ret)
	assert.InDelta(t, 25.0, *ret, 1e-9)

	short := domain.Series{Symbol: "SHORT", Bars: bars[:63]}
	assert.Nil(t, ThreeMonthReturn(short, 63))
}

func TestPercentileDistinctReturns(t *testing.T) {
	c := NewCollector()
	c.Add("A", 10)
	c.Add("B", 20)
	c.Add("C", 30)
	c.Add("D", 40)

	table, err := c.Freeze()
	require.NoError(t, err)
	assert.Equal(t, 4, table.Size())

	assert.InDelta(t, 0.0, *table.Percentile("A"), 1e-9)
	assert.InDelta(t, 25.0, *table.Percentile("B"), 1e-9)
	assert.InDelta(t, 50.0, *table.Percentile("C"), 1e-9)
	assert.InDelta(t, 75.0, *table.Percentile("D"), 1e-9)
}

func TestPercentileTiesShareRank(t *testing.T) {
	c := NewCollector()
	c.Add("A", 10)
	c.Add("B", 20)
	c.Add("C", 20)
	c.Add("D", 30)

	table, err := c.Freeze()
	require.NoError(t, err)

	// Only strictly smaller returns count, so the tied pair shares a rank.
	assert.InDelta(t, 25.0, *table.Percentile("B"), 1e-9)
	assert.InDelta(t, 25.0, *table.Percentile("C"), 1e-9)
	assert.InDelta(t, 75.0, *table.Percentile("D"), 1e-9)
}

func TestPercentileUnknownSymbol(t *testing.T) {
	c := NewCollector()
	c.Add("A", 10)
	table, err := c.Freeze()
	require.NoError(t, err)

	assert.Nil(t, table.Percentile("MISSING"))
	assert.Nil(t, table.Return("MISSING"))
}

func TestFreezeEmptyUniverse(t *testing.T) {
	c := NewCollector()
	_, err := c.Freeze()
	assert.ErrorIs(t, err, domain.ErrEmptyUniverse)
}

func TestCollectorConcurrentAdd(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Add(string(rune('A'+i%26))+string(rune('A'+i/26)), float64(i))
		}(i)
	}
	wg.Wait()

	table, err := c.Freeze()
	require.NoError(t, err)
	assert.Equal(t, 50, table.Size())
}

func TestAddAfterFreezeIgnored(t *testing.T) {
	c := NewCollector()
	c.Add("A", 10)
	table, err := c.Freeze()
	require.NoError(t, err)

	c.Add("B", 20)
	assert.Equal(t, 1, table.Size())
	assert.Nil(t, table.Percentile("B"))
}
