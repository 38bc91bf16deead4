package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/trend"
)

func TestTrendScorerTiers(t *testing.T) {
	scorer := NewTrendScorer(config.Default())

	tests := []struct {
		name        string
		pctAbove200 float64
		want        float64
	}{
		{"far above", 35.0, 100},
		{"exactly at top tier", 30.0, 100},
		{"strong", 20.0, 70},
		{"exactly at second tier", 15.0, 70},
		{"moderate", 10.0, 40},
		{"exactly at third tier", 5.0, 40},
		{"barely above", 2.0, 15},
		{"exactly at the average", 0.0, 15},
		{"below the average", -1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := trend.Assessment{Stage2: true, PctAbove200: tt.pctAbove200}
			assert.Equal(t, tt.want, scorer.Calculate(a))
		})
	}
}

func TestTrendScorerFailedTemplate(t *testing.T) {
	scorer := NewTrendScorer(config.Default())
	a := trend.Assessment{Stage2: false, PctAbove200: 40.0}
	assert.Equal(t, 0.0, scorer.Calculate(a))
}
