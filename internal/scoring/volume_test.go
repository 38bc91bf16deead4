package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
)

// volumeSeries builds 20 pre-base bars followed by 20 base bars with the
// given volumes. The base sits at the end of the series.
func volumeSeries(preVolume, baseVolume, lastClose float64) (domain.Series, *domain.Base) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.Bar, 0, 40)
	for i := 0; i < 20; i++ {
		bars = append(bars, domain.Bar{
			Date: day.AddDate(0, 0, i), Open: 95, High: 100, Low: 90, Close: 95, Volume: preVolume,
		})
	}
	for i := 0; i < 20; i++ {
		bars = append(bars, domain.Bar{
			Date: day.AddDate(0, 0, 20+i), Open: 95, High: 100, Low: 90, Close: 95, Volume: baseVolume,
		})
	}
	bars[len(bars)-1].Close = lastClose

	s := domain.Series{Symbol: "TEST", Bars: bars}
	b := &domain.Base{
		StartIndex: 20, EndIndex: 39,
		High: 100, Low: 90,
		DepthPct: 10, LengthWeeks: 4,
	}
	return s, b
}

func TestVolumeCheckDryBase(t *testing.T) {
	scorer := NewVolumeScorer(config.Default())

	s, b := volumeSeries(1e6, 7e5, 95)
	sig := scorer.Check(s, b)

	assert.InDelta(t, 0.7, sig.Contraction, 1e-9)
	assert.False(t, sig.AboveBaseHigh)
	assert.True(t, sig.Passed)
	assert.Equal(t, 100.0, scorer.Calculate(sig))
}

func TestVolumeCheckHeavyBaseFails(t *testing.T) {
	scorer := NewVolumeScorer(config.Default())

	s, b := volumeSeries(1e6, 1.1e6, 95)
	sig := scorer.Check(s, b)

	assert.InDelta(t, 1.1, sig.Contraction, 1e-9)
	assert.False(t, sig.Passed)
	assert.Equal(t, 0.0, scorer.Calculate(sig))
}

func TestVolumeCheckBreakoutNeedsExpansion(t *testing.T) {
	scorer := NewVolumeScorer(config.Default())

	// Price above the base high but base volume carried into the breakout:
	// recent average equals the 20-day average, so no expansion.
	s, b := volumeSeries(1e6, 7e5, 103)
	sig := scorer.Check(s, b)

	assert.True(t, sig.AboveBaseHigh)
	assert.False(t, sig.Passed)
	// Dry base still earns the strong-contraction tier.
	assert.Equal(t, 70.0, scorer.Calculate(sig))
}

func TestVolumeCheckBreakoutWithExpansion(t *testing.T) {
	scorer := NewVolumeScorer(config.Default())

	s, b := volumeSeries(2e6, 7e5, 103)
	// Volume surges over the last 5 days.
	for i := len(s.Bars) - 5; i < len(s.Bars); i++ {
		s.Bars[i].Volume = 2e6
	}
	sig := scorer.Check(s, b)

	assert.True(t, sig.AboveBaseHigh)
	assert.True(t, sig.Passed)
	assert.Equal(t, 100.0, scorer.Calculate(sig))
}

func TestVolumeScoreTiers(t *testing.T) {
	scorer := NewVolumeScorer(config.Default())

	tests := []struct {
		name        string
		contraction float64
		want        float64
	}{
		{"strong contraction", 0.75, 70.0},
		{"moderate contraction", 0.90, 50.0},
		{"no contraction", 1.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := VolumeSignature{Contraction: tt.contraction, Passed: false}
			assert.Equal(t, tt.want, scorer.Calculate(sig))
		})
	}
}
