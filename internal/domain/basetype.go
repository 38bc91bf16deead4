package domain

import "time"

// BaseType is a closed set of consolidation shapes. Each shape carries only
// its own fields, so code cannot read handle data off a flag or vice versa.
type BaseType interface {
	// Label returns the wire name of the shape.
	Label() string

	baseType()
}

// FlatBase is a shallow sideways consolidation (depth at most ~15%).
type FlatBase struct{}

// Cup is a deeper U-shaped consolidation whose pivot comes from the handle,
// the last HandleDays trading days of the window.
type Cup struct {
	HandleDays int
}

// HighTightFlag is a short, tight consolidation after a ~100%+ advance.
// The whole base is the flag.
type HighTightFlag struct {
	FlagDays int
}

// StandardBase is the fallback shape when no specific pattern applies.
type StandardBase struct{}

func (FlatBase) Label() string      { return "flat_base" }
func (Cup) Label() string           { return "cup" }
func (HighTightFlag) Label() string { return "high_tight_flag" }
func (StandardBase) Label() string  { return "standard_base" }

func (FlatBase) baseType()      {}
func (Cup) baseType()           {}
func (HighTightFlag) baseType() {}
func (StandardBase) baseType()  {}

// Base is a contiguous consolidation window inside a series.
// depth_pct = (high-low)/high*100; length_weeks = trading_days/5.
type Base struct {
	StartDate   time.Time
	EndDate     time.Time
	StartIndex  int // index of the first base bar in the parent series
	EndIndex    int // index of the last base bar in the parent series
	High        float64
	Low         float64
	DepthPct    float64
	LengthWeeks float64
	Type        BaseType
}

// Days returns the base length in trading days.
func (b Base) Days() int {
	return b.EndIndex - b.StartIndex + 1
}

// PriorRun measures the advance in the window strictly preceding the base.
// pct = (base_high - lowest_low)/lowest_low*100.
type PriorRun struct {
	LowestLow    float64
	LookbackDays int
	Pct          float64
}

// PivotSource identifies how a pivot price was derived.
type PivotSource string

const (
	PivotFlatMax              PivotSource = "flat_max"
	PivotFlatMaxSpikeFiltered PivotSource = "flat_max_spike_filtered"
	PivotCupHandle            PivotSource = "cup_handle"
	PivotHTFFlag              PivotSource = "htf_flag"
)

// Pivot is the breakout trigger price and where it came from.
type Pivot struct {
	Price  float64
	Source PivotSource
}
