package domain

// Grade is the letter verdict derived from the composite score.
type Grade string

const (
	GradeAPlus  Grade = "A+"
	GradeA      Grade = "A"
	GradeB      Grade = "B"
	GradeC      Grade = "C"
	GradeReject Grade = "REJECT"
)

// Rank orders grades best-first (lower is better). Unknown grades sort last.
func (g Grade) Rank() int {
	switch g {
	case GradeAPlus:
		return 0
	case GradeA:
		return 1
	case GradeB:
		return 2
	case GradeC:
		return 3
	case GradeReject:
		return 4
	}
	return 5
}

// Eligibility is the structural gate evaluated before any scoring.
// Eligible is the AND of the four checks.
type Eligibility struct {
	Stage2           bool `json:"stage_2"`
	HasValidBase     bool `json:"has_valid_base"`
	LiquidityOK      bool `json:"liquidity_ok"`
	PriceThresholdOK bool `json:"price_threshold_ok"`
	Eligible         bool `json:"eligible"`

	Reasons []string `json:"-"`
}

// ComponentScores holds the five 0-100 component scores.
type ComponentScores struct {
	Trend    float64 `json:"trend_score"`
	Base     float64 `json:"base_score"`
	RS       float64 `json:"rs_score"`
	Volume   float64 `json:"volume_score"`
	Breakout float64 `json:"breakout_score"`
}

// BaseBlock is the base section of the output record.
type BaseBlock struct {
	Type        string   `json:"type"`
	LengthWeeks float64  `json:"length_weeks"`
	DepthPct    float64  `json:"depth_pct"`
	PriorRunPct *float64 `json:"prior_run_pct"`
}

// RelativeStrengthBlock is the relative-strength section of the output record.
type RelativeStrengthBlock struct {
	RS3M         *float64 `json:"rs_3m"`
	RSPercentile *float64 `json:"rs_percentile"`
	RSI14        *float64 `json:"rsi_14"`
}

// BreakoutBlock is the breakout section of the output record.
type BreakoutBlock struct {
	PivotPrice         float64 `json:"pivot_price"`
	PivotSource        string  `json:"pivot_source"`
	DistanceToPivotPct float64 `json:"distance_to_pivot_pct"`
	InBreakout         bool    `json:"in_breakout"`
}

// RiskBlock is the risk section of the output record.
type RiskBlock struct {
	StopPrice    float64  `json:"stop_price"`
	RiskPerShare float64  `json:"risk_per_share"`
	RewardToRisk float64  `json:"reward_to_risk"`
	ATR14        *float64 `json:"atr_14"`
	StopMethod   string   `json:"stop_method"`
}

// Result is the per-instrument output record of one scan cycle. When the
// instrument is ineligible, only the scalar fields are populated: grade is
// REJECT, all scores are 0, and the optional blocks stay nil.
type Result struct {
	Symbol         string   `json:"ticker"`
	Eligible       bool     `json:"eligible"`
	Grade          Grade    `json:"grade"`
	CompositeScore float64  `json:"composite_score"`
	TrendScore     float64  `json:"trend_score"`
	BaseScore      float64  `json:"base_score"`
	RSScore        float64  `json:"rs_score"`
	VolumeScore    float64  `json:"volume_score"`
	BreakoutScore  float64  `json:"breakout_score"`
	PowerRank      *float64 `json:"power_rank"`

	Base             *BaseBlock             `json:"base,omitempty"`
	RelativeStrength *RelativeStrengthBlock `json:"relative_strength,omitempty"`
	Breakout         *BreakoutBlock         `json:"breakout,omitempty"`
	Risk             *RiskBlock             `json:"risk,omitempty"`

	RejectReason string `json:"reject_reason,omitempty"`
}
