// Package report renders scan results for humans: a CSV summary of the
// whole cycle and a filtered pre-breakout view.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/aristath/sepascan/internal/domain"
)

var csvHeader = []string{
	"ticker", "eligible", "grade", "composite_score",
	"trend_score", "base_score", "rs_score", "volume_score", "breakout_score",
	"power_rank", "base_type", "length_weeks", "depth_pct", "prior_run_pct",
	"rs_3m", "rs_percentile", "rsi_14",
	"pivot_price", "pivot_source", "distance_to_pivot_pct", "in_breakout",
	"stop_price", "risk_per_share", "reward_to_risk", "atr_14", "stop_method",
	"reject_reason",
}

// WriteCSV writes one row per result, best grades first, composite
// descending within a grade, symbol as the final tiebreak. Rejected
// instruments come last with their reject reason in the final column.
func WriteCSV(w io.Writer, results []domain.Result) error {
	sorted := make([]domain.Result, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Grade.Rank() != sorted[j].Grade.Rank() {
			return sorted[i].Grade.Rank() < sorted[j].Grade.Rank()
		}
		if sorted[i].CompositeScore != sorted[j].CompositeScore {
			return sorted[i].CompositeScore > sorted[j].CompositeScore
		}
		return sorted[i].Symbol < sorted[j].Symbol
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	for _, r := range sorted {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(r domain.Result) []string {
	fields := []string{
		r.Symbol,
		strconv.FormatBool(r.Eligible),
		string(r.Grade),
		num(r.CompositeScore),
		num(r.TrendScore),
		num(r.BaseScore),
		num(r.RSScore),
		num(r.VolumeScore),
		num(r.BreakoutScore),
		numPtr(r.PowerRank),
	}

	if r.Base != nil {
		fields = append(fields, r.Base.Type, num(r.Base.LengthWeeks), num(r.Base.DepthPct), numPtr(r.Base.PriorRunPct))
	} else {
		fields = append(fields, "", "", "", "")
	}
	if r.RelativeStrength != nil {
		fields = append(fields, numPtr(r.RelativeStrength.RS3M), numPtr(r.RelativeStrength.RSPercentile), numPtr(r.RelativeStrength.RSI14))
	} else {
		fields = append(fields, "", "", "")
	}
	if r.Breakout != nil {
		fields = append(fields,
			num(r.Breakout.PivotPrice), r.Breakout.PivotSource,
			num(r.Breakout.DistanceToPivotPct), strconv.FormatBool(r.Breakout.InBreakout))
	} else {
		fields = append(fields, "", "", "", "")
	}
	if r.Risk != nil {
		fields = append(fields,
			num(r.Risk.StopPrice), num(r.Risk.RiskPerShare), num(r.Risk.RewardToRisk),
			numPtr(r.Risk.ATR14), r.Risk.StopMethod)
	} else {
		fields = append(fields, "", "", "", "", "")
	}

	return append(fields, r.RejectReason)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func numPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return num(*v)
}
