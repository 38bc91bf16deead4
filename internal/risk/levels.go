// Package risk derives stop, reward-to-risk, and the power rank from the
// pivot and the universe ranking.
package risk

import (
	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/internal/series"
	"github.com/aristath/sepascan/pkg/formulas"
)

// Stop method labels on the output record.
const (
	StopMethodATR   = "ATR"
	StopMethodFixed = "FIXED"
)

// RiskLevels is the stop/target geometry around the pivot.
type RiskLevels struct {
	StopPrice    float64
	RiskPerShare float64
	RewardToRisk float64
	ATR14        *float64
	StopMethod   string
}

// Levels computes the stop and the reward-to-risk ratio. The default ATR
// stop is floored at the lowest low of the recent days so a volatility
// stop can never sit tighter than realized price action. Without an ATR
// value, or when the ATR stop is disabled, the fixed-percent stop is used.
func Levels(pivot float64, ind *series.Indicators, s domain.Series, cfg *config.Config) RiskLevels {
	levels := RiskLevels{ATR14: ind.ATR14}

	if cfg.Risk.UseATRStop && ind.ATR14 != nil {
		stop := pivot - *ind.ATR14*cfg.Risk.ATRMultiple
		if floor := domain.LowestLow(s.Tail(cfg.Risk.LowestLowDays)); floor > stop {
			stop = floor
		}
		levels.StopPrice = stop
		levels.StopMethod = StopMethodATR
	} else {
		levels.StopPrice = pivot * (1 - cfg.Risk.StopLossPct/100.0)
		levels.StopMethod = StopMethodFixed
	}

	levels.RiskPerShare = pivot - levels.StopPrice
	if levels.RiskPerShare > 0 {
		reward := pivot * cfg.Risk.ProfitTargetPct / 100.0
		levels.RewardToRisk = formulas.Round2(reward / levels.RiskPerShare)
	}
	levels.StopPrice = formulas.Round2(levels.StopPrice)
	levels.RiskPerShare = formulas.Round2(levels.RiskPerShare)

	return levels
}
