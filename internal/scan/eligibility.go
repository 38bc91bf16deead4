// Package scan orchestrates the two-phase universe scan cycle.
package scan

import (
	"fmt"

	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/internal/trend"
	"github.com/aristath/sepascan/pkg/formulas"
)

// evaluateEligibility applies the four structural gates. All of them must
// pass before any scoring runs; a failing instrument becomes a REJECT
// sentinel with the reasons attached.
func evaluateEligibility(s domain.Series, a trend.Assessment, b *domain.Base, cfg *config.Config) domain.Eligibility {
	e := domain.Eligibility{
		Stage2:       a.Stage2,
		HasValidBase: b != nil,
	}
	if !e.Stage2 {
		reasons := a.Failures
		if len(reasons) > 3 {
			reasons = reasons[:3]
		}
		e.Reasons = append(e.Reasons, reasons...)
	}
	if !e.HasValidBase {
		e.Reasons = append(e.Reasons, "no valid base identified")
	}

	if s.Len() >= cfg.Scoring.AvgVolumeDays {
		avgDollarVol := avgDollarVolume(s, cfg.Scoring.AvgVolumeDays)
		e.LiquidityOK = avgDollarVol >= cfg.Eligibility.MinDollarVolume
		if !e.LiquidityOK {
			e.Reasons = append(e.Reasons,
				fmt.Sprintf("avg 20d dollar volume %.0f below %.0f", avgDollarVol, cfg.Eligibility.MinDollarVolume))
		}
	} else {
		e.Reasons = append(e.Reasons, "insufficient data for liquidity")
	}

	price := s.Last().Close
	e.PriceThresholdOK = price >= cfg.Eligibility.MinPrice
	if !e.PriceThresholdOK {
		e.Reasons = append(e.Reasons, fmt.Sprintf("price %.2f below %.2f", price, cfg.Eligibility.MinPrice))
	}

	e.Eligible = e.Stage2 && e.HasValidBase && e.LiquidityOK && e.PriceThresholdOK
	return e
}

func avgDollarVolume(s domain.Series, days int) float64 {
	bars := s.Tail(days)
	dollar := make([]float64, len(bars))
	for i, b := range bars {
		dollar[i] = b.Close * b.Volume
	}
	return formulas.Mean(dollar)
}
