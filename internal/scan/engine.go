package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/sepascan/internal/config"
	"github.com/aristath/sepascan/internal/domain"
	"github.com/aristath/sepascan/internal/scoring"
	"github.com/aristath/sepascan/internal/series"
	"github.com/aristath/sepascan/internal/universe"
)

// Engine runs scan cycles. It is stateless between cycles: every cycle
// builds its own universe table and discards it at the end.
type Engine struct {
	cfg *config.Config
	log zerolog.Logger

	numWorkers int

	// benchmarkReturn is the benchmark's lookback return in percent,
	// computed once per cycle when a benchmark series is supplied.
	benchmarkReturn *float64

	trendScorer    *scoring.TrendScorer
	baseScorer     *scoring.BaseScorer
	rsScorer       *scoring.RSScorer
	volumeScorer   *scoring.VolumeScorer
	breakoutScorer *scoring.BreakoutScorer
}

// NewEngine creates a scan engine. numWorkers bounds the per-phase
// parallelism; zero or negative selects the default.
func NewEngine(cfg *config.Config, log zerolog.Logger, numWorkers int) *Engine {
	if numWorkers <= 0 {
		numWorkers = 10
	}
	return &Engine{
		cfg:        cfg,
		log:        log.With().Str("component", "scan").Logger(),
		numWorkers: numWorkers,

		trendScorer:    scoring.NewTrendScorer(cfg),
		baseScorer:     scoring.NewBaseScorer(cfg),
		rsScorer:       scoring.NewRSScorer(),
		volumeScorer:   scoring.NewVolumeScorer(cfg),
		breakoutScorer: scoring.NewBreakoutScorer(cfg),
	}
}

// SetBenchmark registers the benchmark series used for the RS fallback when
// an instrument has no universe percentile. A benchmark too short for the
// lookback is reported; relative strength then stays on the percentile or
// neutral path.
func (e *Engine) SetBenchmark(s domain.Series) error {
	ret := universe.ThreeMonthReturn(s, e.cfg.Universe.ReturnLookbackDays)
	if ret == nil {
		return fmt.Errorf("%s: %d bars for a %d day lookback: %w",
			s.Symbol, s.Len(), e.cfg.Universe.ReturnLookbackDays, domain.ErrMissingBenchmark)
	}
	e.benchmarkReturn = ret
	return nil
}

// prepared is the phase-1 output for one instrument: its indicator set, or
// the error that excludes it from the cycle.
type prepared struct {
	series     domain.Series
	indicators *series.Indicators
	err        error
}

// Cycle is the output of one universe scan.
type Cycle struct {
	ID      string
	Started time.Time
	Results []domain.Result
}

// ScanUniverse runs one full cycle over the instruments. Phase 1 validates
// and preprocesses every instrument in parallel and collects 3-month
// returns; the collector freeze is the barrier. Phase 2 scores every
// instrument in parallel against the frozen percentile table. Results come
// back in input order. The only cycle-level failure is an empty universe:
// no instrument produced a return.
func (e *Engine) ScanUniverse(ctx context.Context, instruments []domain.Series) (*Cycle, error) {
	cycleID := uuid.New().String()
	started := time.Now()
	log := e.log.With().Str("cycle_id", cycleID).Logger()
	log.Info().Int("instruments", len(instruments)).Msg("Scan cycle started")

	if len(instruments) == 0 {
		return nil, domain.ErrEmptyUniverse
	}

	collector := universe.NewCollector()

	preparedItems := runPool(ctx, e.numWorkers, instruments, func(s domain.Series) prepared {
		p := e.prepare(s)
		if p.err == nil {
			if ret := universe.ThreeMonthReturn(s, e.cfg.Universe.ReturnLookbackDays); ret != nil {
				collector.Add(s.Symbol, *ret)
			}
		} else {
			log.Warn().Str("symbol", s.Symbol).Err(p.err).Msg("Instrument excluded from cycle")
		}
		return p
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Barrier: no instrument is scored before every return is in.
	table, err := collector.Freeze()
	if err != nil {
		return nil, fmt.Errorf("cycle %s: %w", cycleID, err)
	}
	log.Debug().Int("ranked", table.Size()).Msg("Universe table frozen")

	results := runPool(ctx, e.numWorkers, preparedItems, func(p prepared) domain.Result {
		return e.scoreInstrument(p, table)
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eligible := 0
	for _, r := range results {
		if r.Eligible {
			eligible++
		}
	}
	log.Info().
		Int("eligible", eligible).
		Int("rejected", len(results)-eligible).
		Dur("elapsed", time.Since(started)).
		Msg("Scan cycle finished")

	return &Cycle{ID: cycleID, Started: started, Results: results}, nil
}

// prepare validates one series and derives its indicators.
func (e *Engine) prepare(s domain.Series) prepared {
	p := prepared{series: s}
	if err := s.Validate(); err != nil {
		p.err = err
		return p
	}
	p.indicators, p.err = series.Preprocess(s, e.cfg)
	return p
}

// runPool fans work out over a bounded worker pool and returns the outputs
// in input order. A cancelled context stops workers from picking up new
// jobs; slots for unprocessed jobs keep their zero value.
func runPool[In any, Out any](ctx context.Context, numWorkers int, items []In, fn func(In) Out) []Out {
	n := len(items)
	out := make([]Out, n)
	if n == 0 {
		return out
	}
	if numWorkers > n {
		numWorkers = n
	}

	type job struct {
		index int
		item  In
	}
	jobs := make(chan job, n)
	for i, item := range items {
		jobs <- job{index: i, item: item}
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					break
				}
				out[j.index] = fn(j.item)
			}
		}()
	}
	wg.Wait()

	return out
}
