package scoring

import (
	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/pkg/formulas"
)

// breakoutVolumeMultiplier is the expansion required once price trades
// above the base high (1.4x = 40% over the 20-day average).
const breakoutVolumeMultiplier = 1.4

// VolumeSignature is the outcome of the volume check: how dry the base was
// relative to the advance before it, and whether volume expanded once price
// cleared the base high.
type VolumeSignature struct {
	Contraction    float64
	AboveBaseHigh  bool
	ExpansionRatio float64
	Passed         bool
}

// VolumeScorer grades the volume signature of the base.
type VolumeScorer struct {
	cfg *config.Config
}

// NewVolumeScorer creates a new volume signature scorer
func NewVolumeScorer(cfg *config.Config) *VolumeScorer {
	return &VolumeScorer{cfg: cfg}
}

// Check computes the volume signature. Contraction is base average volume
// over the pre-base average; a base at the start of the history has no
// pre-base window and reads as neutral (1.0).
func (vs *VolumeScorer) Check(s domain.Series, b *domain.Base) VolumeSignature {
	sig := VolumeSignature{Contraction: 1.0}

	baseBars := s.Window(b.StartIndex, b.EndIndex)
	baseAvg := meanVolume(baseBars)

	preStart := b.StartIndex - vs.cfg.Scoring.AvgVolumeDays
	if preStart < 0 {
		preStart = 0
	}
	if b.StartIndex > 0 {
		preBars := s.Window(preStart, b.StartIndex-1)
		if preAvg := meanVolume(preBars); preAvg > 0 {
			sig.Contraction = baseAvg / preAvg
		}
	}

	price := s.Last().Close
	sig.AboveBaseHigh = price > b.High*(1+vs.cfg.Pivot.BuyBufferPct/100.0)

	dry := sig.Contraction < vs.cfg.Scoring.ModerateContraction
	sig.Passed = dry

	if sig.AboveBaseHigh {
		recentAvg := meanVolume(s.Tail(vs.cfg.Scoring.RecentVolumeDays))
		avgVol := meanVolume(s.Tail(vs.cfg.Scoring.AvgVolumeDays))
		if avgVol > 0 {
			sig.ExpansionRatio = recentAvg / avgVol
		}
		sig.Passed = dry && sig.ExpansionRatio >= breakoutVolumeMultiplier
	}

	return sig
}

// Calculate returns 100 for a clean signature, otherwise a tier from how
// dry the base was.
func (vs *VolumeScorer) Calculate(sig VolumeSignature) float64 {
	if sig.Passed {
		return 100.0
	}
	if sig.Contraction < vs.cfg.Scoring.TightContraction {
		return 70.0
	}
	if sig.Contraction < vs.cfg.Scoring.ModerateContraction {
		return 50.0
	}
	return 0.0
}

func meanVolume(bars []domain.Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}
	return formulas.Mean(volumes)
}
