// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the full engine configuration. Every threshold the scan uses
// lives here so that two runs with the same config and the same bars produce
// the same output.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`

	Eligibility Eligibility `yaml:"eligibility"`
	Trend       Trend       `yaml:"trend"`
	Base        BaseRules   `yaml:"base"`
	Pivot       PivotRules  `yaml:"pivot"`
	Scoring     Scoring     `yaml:"scoring"`
	Breakout    Breakout    `yaml:"breakout"`
	Risk        Risk        `yaml:"risk"`
	Universe    Universe    `yaml:"universe"`
}

// Eligibility holds the structural gate thresholds.
type Eligibility struct {
	MinDollarVolume float64 `yaml:"min_dollar_volume"` // 20-day average of close*volume
	MinPrice        float64 `yaml:"min_price"`
	MinHistoryDays  int     `yaml:"min_history_days"`
}

// Trend holds the trend-template thresholds and the distance tier table.
type Trend struct {
	SlopeLookbackDays   int     `yaml:"slope_lookback_days"`
	SlopeRecentDays     int     `yaml:"slope_recent_days"`
	Above52wLowPct      float64 `yaml:"above_52w_low_pct"`
	Near52wHighPct      float64 `yaml:"near_52w_high_pct"`
	DistanceTiers       []Tier  `yaml:"distance_tiers"`
	ExtendedDistancePct float64 `yaml:"extended_distance_pct"`
}

// Tier maps a minimum distance above the 200-day SMA to a trend score.
// Tiers are evaluated in order, first match wins, so they must be listed
// from the highest threshold down.
type Tier struct {
	MinDistancePct float64 `yaml:"min_distance_pct"`
	Score          float64 `yaml:"score"`
}

// BaseRules holds the base identification and classification thresholds.
type BaseRules struct {
	VolatilityWindow  int     `yaml:"volatility_window"`
	LowVolMultiplier  float64 `yaml:"low_vol_multiplier"`
	LowVolFraction    float64 `yaml:"low_vol_fraction"`
	LowVolMinDays     int     `yaml:"low_vol_min_days"`
	RangeShortDays    int     `yaml:"range_short_days"`
	RangeShortMaxPct  float64 `yaml:"range_short_max_pct"`
	RangeLongDays     int     `yaml:"range_long_days"`
	RangeLongMaxPct   float64 `yaml:"range_long_max_pct"`
	MinLengthWeeks    float64 `yaml:"min_length_weeks"`
	MaxLengthWeeks    float64 `yaml:"max_length_weeks"`
	MaxDepthPct       float64 `yaml:"max_depth_pct"`
	FlatBaseMaxDepth  float64 `yaml:"flat_base_max_depth"`
	HTFMinPriorRunPct float64 `yaml:"htf_min_prior_run_pct"`
	HTFMaxDepthPct    float64 `yaml:"htf_max_depth_pct"`
	HTFMaxLengthWeeks float64 `yaml:"htf_max_length_weeks"`
	PriorRunDays      int     `yaml:"prior_run_days"`
	PriorRunMinBars   int     `yaml:"prior_run_min_bars"`
	StrongPriorRunPct float64 `yaml:"strong_prior_run_pct"`
}

// PivotRules holds the pivot derivation thresholds.
type PivotRules struct {
	SpikeStdDevs    float64 `yaml:"spike_std_devs"`
	SpikeIgnoreLast int     `yaml:"spike_ignore_last_days"`
	HandleDays      int     `yaml:"handle_days"`
	BuyBufferPct    float64 `yaml:"buy_buffer_pct"`
}

// Scoring holds the component weights, base quality bounds, volume windows,
// and the grade band table.
type Scoring struct {
	TrendWeight    float64 `yaml:"trend_weight"`
	BaseWeight     float64 `yaml:"base_weight"`
	RSWeight       float64 `yaml:"rs_weight"`
	VolumeWeight   float64 `yaml:"volume_weight"`
	BreakoutWeight float64 `yaml:"breakout_weight"`

	QualityMinWeeks  float64 `yaml:"quality_min_weeks"`
	QualityMaxWeeks  float64 `yaml:"quality_max_weeks"`
	QualityMaxDepth  float64 `yaml:"quality_max_depth"`
	ShallowDepthPct  float64 `yaml:"shallow_depth_pct"`
	ModerateDepthPct float64 `yaml:"moderate_depth_pct"`

	RSIPeriod int `yaml:"rsi_period"`

	AvgVolumeDays         int     `yaml:"avg_volume_days"`
	RecentVolumeDays      int     `yaml:"recent_volume_days"`
	TightContraction      float64 `yaml:"tight_contraction"`
	ModerateContraction   float64 `yaml:"moderate_contraction"`
	RangeContractionTight float64 `yaml:"range_contraction_tight"`

	GradeBands []Band `yaml:"grade_bands"`
}

// Band maps a minimum composite score to a grade. Bands are evaluated in
// order, first match wins, so they must be listed from the highest cutoff
// down. Anything below the last band is REJECT.
type Band struct {
	MinScore float64 `yaml:"min_score"`
	Grade    string  `yaml:"grade"`
}

// Breakout holds the breakout detection thresholds.
type Breakout struct {
	ClearancePct      float64 `yaml:"clearance_pct"`
	LookbackDays      int     `yaml:"lookback_days"`
	MinClosePosition  float64 `yaml:"min_close_position"`
	VolumeRatio       float64 `yaml:"volume_ratio"`
	VolumeConfirmDays int     `yaml:"volume_confirm_days"`
}

// Risk holds the stop and reward-to-risk parameters.
type Risk struct {
	UseATRStop      bool    `yaml:"use_atr_stop"`
	ATRPeriod       int     `yaml:"atr_period"`
	ATRMultiple     float64 `yaml:"atr_multiple"`
	LowestLowDays   int     `yaml:"lowest_low_days"`
	StopLossPct     float64 `yaml:"stop_loss_pct"`
	ProfitTargetPct float64 `yaml:"profit_target_pct"`
	PowerRankCap    float64 `yaml:"power_rank_cap"`
}

// Universe holds the cross-sectional ranking parameters.
type Universe struct {
	ReturnLookbackDays int `yaml:"return_lookback_days"`
}

// Default returns the engine defaults. Loading a config file overrides only
// the fields the file sets.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogPretty: false,
		Eligibility: Eligibility{
			MinDollarVolume: 1_000_000,
			MinPrice:        5.0,
			MinHistoryDays:  200,
		},
		Trend: Trend{
			SlopeLookbackDays: 20,
			SlopeRecentDays:   10,
			Above52wLowPct:    30.0,
			Near52wHighPct:    15.0,
			DistanceTiers: []Tier{
				{MinDistancePct: 30.0, Score: 100},
				{MinDistancePct: 15.0, Score: 70},
				{MinDistancePct: 5.0, Score: 40},
				{MinDistancePct: 0.0, Score: 15},
			},
			ExtendedDistancePct: 5.0,
		},
		Base: BaseRules{
			VolatilityWindow:  10,
			LowVolMultiplier:  0.85,
			LowVolFraction:    0.55,
			LowVolMinDays:     15,
			RangeShortDays:    30,
			RangeShortMaxPct:  15.0,
			RangeLongDays:     60,
			RangeLongMaxPct:   25.0,
			MinLengthWeeks:    2.0,
			MaxLengthWeeks:    12.0,
			MaxDepthPct:       35.0,
			FlatBaseMaxDepth:  15.0,
			HTFMinPriorRunPct: 100.0,
			HTFMaxDepthPct:    25.0,
			HTFMaxLengthWeeks: 5.0,
			PriorRunDays:      63,
			PriorRunMinBars:   5,
			StrongPriorRunPct: 25.0,
		},
		Pivot: PivotRules{
			SpikeStdDevs:    2.0,
			SpikeIgnoreLast: 5,
			HandleDays:      7,
			BuyBufferPct:    2.0,
		},
		Scoring: Scoring{
			TrendWeight:    0.20,
			BaseWeight:     0.25,
			RSWeight:       0.25,
			VolumeWeight:   0.15,
			BreakoutWeight: 0.15,

			QualityMinWeeks:  3.0,
			QualityMaxWeeks:  8.0,
			QualityMaxDepth:  25.0,
			ShallowDepthPct:  15.0,
			ModerateDepthPct: 20.0,

			RSIPeriod: 14,

			AvgVolumeDays:         20,
			RecentVolumeDays:      5,
			TightContraction:      0.8,
			ModerateContraction:   0.95,
			RangeContractionTight: 0.5,

			GradeBands: []Band{
				{MinScore: 85.0, Grade: "A+"},
				{MinScore: 75.0, Grade: "A"},
				{MinScore: 65.0, Grade: "B"},
				{MinScore: 55.0, Grade: "C"},
			},
		},
		Breakout: Breakout{
			ClearancePct:      2.0,
			LookbackDays:      5,
			MinClosePosition:  70.0,
			VolumeRatio:       1.2,
			VolumeConfirmDays: 2,
		},
		Risk: Risk{
			UseATRStop:      true,
			ATRPeriod:       14,
			ATRMultiple:     1.5,
			LowestLowDays:   5,
			StopLossPct:     5.0,
			ProfitTargetPct: 10.0,
			PowerRankCap:    100.0,
		},
		Universe: Universe{
			ReturnLookbackDays: 63,
		},
	}
}

// Load builds the configuration: defaults first, then the YAML file at path
// (if path is non-empty), then environment variable overrides. A .env file
// in the working directory is loaded if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.LogLevel = getEnv("SEPA_LOG_LEVEL", cfg.LogLevel)
	cfg.LogPretty = getEnvAsBool("SEPA_LOG_PRETTY", cfg.LogPretty)
	cfg.Eligibility.MinDollarVolume = getEnvAsFloat("SEPA_MIN_DOLLAR_VOLUME", cfg.Eligibility.MinDollarVolume)
	cfg.Eligibility.MinPrice = getEnvAsFloat("SEPA_MIN_PRICE", cfg.Eligibility.MinPrice)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks internal consistency of the configuration.
func (c *Config) Validate() error {
	sum := c.Scoring.TrendWeight + c.Scoring.BaseWeight + c.Scoring.RSWeight +
		c.Scoring.VolumeWeight + c.Scoring.BreakoutWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("component weights must sum to 1.0, got %.4f", sum)
	}
	if len(c.Scoring.GradeBands) == 0 {
		return fmt.Errorf("at least one grade band is required")
	}
	for i := 1; i < len(c.Scoring.GradeBands); i++ {
		if c.Scoring.GradeBands[i].MinScore >= c.Scoring.GradeBands[i-1].MinScore {
			return fmt.Errorf("grade bands must be listed from highest cutoff down")
		}
	}
	for i := 1; i < len(c.Trend.DistanceTiers); i++ {
		if c.Trend.DistanceTiers[i].MinDistancePct >= c.Trend.DistanceTiers[i-1].MinDistancePct {
			return fmt.Errorf("distance tiers must be listed from highest threshold down")
		}
	}
	if c.Eligibility.MinHistoryDays < 1 {
		return fmt.Errorf("min_history_days must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
