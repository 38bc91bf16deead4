package scoring

import (
	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/pkg/formulas"
)

// Composite combines the five component scores with the configured weights,
// rounded to one decimal.
func Composite(scores domain.ComponentScores, cfg *config.Config) float64 {
	w := cfg.Scoring
	sum := w.TrendWeight*scores.Trend +
		w.BaseWeight*scores.Base +
		w.RSWeight*scores.RS +
		w.VolumeWeight*scores.Volume +
		w.BreakoutWeight*scores.Breakout
	return formulas.Round1(sum)
}

// GradeFor resolves a composite score to a letter grade from the band
// table; anything below the lowest band is REJECT.
func GradeFor(composite float64, cfg *config.Config) domain.Grade {
	for _, band := range cfg.Scoring.GradeBands {
		if composite >= band.MinScore {
			return domain.Grade(band.Grade)
		}
	}
	return domain.GradeReject
}
