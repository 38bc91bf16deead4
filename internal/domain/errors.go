package domain

import "errors"

// Sentinel errors for per-instrument failures. All of these are local to one
// instrument and never abort a scan cycle; ErrEmptyUniverse is the one
// cycle-level failure (no RS percentile can be computed from nothing).
var (
	// ErrInsufficientHistory marks a series shorter than the longest
	// lookback the engine needs. The instrument is excluded from the cycle.
	ErrInsufficientHistory = errors.New("insufficient price history")

	// ErrNoValidBase marks a series where no qualifying consolidation
	// window was found. The instrument becomes ineligible, not failed.
	ErrNoValidBase = errors.New("no valid base identified")

	// ErrMissingBenchmark marks an absent or misaligned benchmark series.
	// Relative strength falls back to the percentile or a neutral 50.
	ErrMissingBenchmark = errors.New("benchmark series missing or misaligned")

	// ErrDuplicateDate marks a series carrying the same date twice.
	ErrDuplicateDate = errors.New("duplicate bar date")

	// ErrEmptyUniverse means no instrument produced a 3-month return, so
	// the percentile table cannot be built.
	ErrEmptyUniverse = errors.New("empty universe at percentile barrier")
)
