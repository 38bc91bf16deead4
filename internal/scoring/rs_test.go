package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestRSScorerPrefersPercentile(t *testing.T) {
	scorer := NewRSScorer()
	assert.Equal(t, 87.5, scorer.Calculate(ptr(87.5), ptr(0.30), ptr(0.10)))
}

func TestRSScorerBenchmarkFallback(t *testing.T) {
	scorer := NewRSScorer()

	tests := []struct {
		name  string
		stock float64
		bench float64
		want  float64
	}{
		{"outperforming", 0.30, 0.10, 70.0},
		{"underperforming", 0.05, 0.15, 40.0},
		{"matching the benchmark", 0.10, 0.10, 50.0},
		{"huge outperformance clamps at 100", 0.90, 0.10, 100.0},
		{"huge underperformance clamps at 0", -0.60, 0.10, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Calculate(nil, ptr(tt.stock), ptr(tt.bench))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRSScorerNeutralWithoutInputs(t *testing.T) {
	scorer := NewRSScorer()
	assert.Equal(t, 50.0, scorer.Calculate(nil, nil, nil))
	assert.Equal(t, 50.0, scorer.Calculate(nil, ptr(0.2), nil))
}
