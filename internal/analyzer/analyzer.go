package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/lottolab/tombola-analytics/internal/config"
	"github.com/lottolab/tombola-analytics/internal/engine"
	"github.com/lottolab/tombola-analytics/internal/events"
	"github.com/lottolab/tombola-analytics/internal/report"
	"github.com/lottolab/tombola-analytics/internal/store"
	"github.com/lottolab/tombola-analytics/pkg/common/logger"
)

// Analyzer runs the configured games. Each game is an independent unit of
// work with its own recurrence table, so games run concurrently without any
// shared engine state; the badger store and the emitter are safe for
// concurrent use.
type Analyzer struct {
	cfg     config.Config
	cache   *store.TableStore // nil when caching is disabled
	emitter events.Emitter
}

type Options struct {
	SkipCache bool
}

// ThresholdHit records when (or whether) a configured threshold was reached.
type ThresholdHit struct {
	Class       int
	Probability float64
	Time        int
	Reached     bool
}

// GameResult is what one analyzed game produces.
type GameResult struct {
	Name       string
	Params     engine.GameParams
	Table      *engine.DistributionTable
	Cumulative *engine.CumulativeTable
	Overview   report.Overview
	Thresholds []ThresholdHit
	FromCache  bool
	Elapsed    time.Duration
}

func New(cfg config.Config, cache *store.TableStore, emitter events.Emitter) *Analyzer {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	return &Analyzer{cfg: cfg, cache: cache, emitter: emitter}
}

// Run analyzes the named games, or every configured game when names is empty.
func (a *Analyzer) Run(ctx context.Context, names []string, opts Options) ([]*GameResult, error) {
	if len(names) == 0 {
		for name := range a.cfg.Games {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	for _, name := range names {
		if _, ok := a.cfg.Games[name]; !ok {
			return nil, fmt.Errorf("unknown game %q", name)
		}
	}

	if err := os.MkdirAll(a.cfg.Output.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	results := make([]*GameResult, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			res, err := a.analyzeGame(ctx, name, a.cfg.Games[name], opts)
			if err != nil {
				logger.Error("Game analysis failed", "game", name, "error", err)
				_ = a.emitter.EmitError(name, err)
				errs[i] = fmt.Errorf("game %q: %w", name, err)
				return
			}
			results[i] = res
		}(i, name)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (a *Analyzer) analyzeGame(ctx context.Context, name string, gameCfg config.GameConfig, opts Options) (*GameResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := gameCfg.Params()
	started := time.Now()

	table, fromCache, err := a.loadOrBuild(params, opts)
	if err != nil {
		return nil, err
	}

	cum := engine.CumulativeAtLeast(table)

	overview, err := report.BuildOverview(params)
	if err != nil {
		return nil, err
	}

	hits := make([]ThresholdHit, 0, len(gameCfg.Thresholds))
	for _, th := range gameCfg.Thresholds {
		t, ok := report.FirstReach(cum, th.Class, th.Probability)
		hits = append(hits, ThresholdHit{
			Class:       th.Class,
			Probability: th.Probability,
			Time:        t,
			Reached:     ok,
		})
		if ok {
			logger.Info("Threshold reached", "game", name, "class", th.Class,
				"probability", th.Probability, "draw", t)
		} else {
			logger.Warn("Threshold never reached", "game", name, "class", th.Class,
				"probability", th.Probability)
		}
	}

	if err := a.writeReports(name, table, cum); err != nil {
		return nil, err
	}

	elapsed := time.Since(started)
	logger.Info("Game analyzed", "game", name, "params", params.String(),
		"rows", len(table.Rows), "cached", fromCache,
		"cards", overview.CardChoices.String(), "elapsed", elapsed)

	summary := events.AnalysisSummary{
		Rows:         len(table.Rows),
		FullCardByT:  fullCardSeries(cum),
		FromCache:    fromCache,
		ElapsedMicro: elapsed.Microseconds(),
	}
	if err := a.emitter.EmitAnalysis(name, params, summary); err != nil {
		// reporting must not fail the analysis itself
		logger.Error("Emit analysis event failed", "game", name, "error", err)
	}

	return &GameResult{
		Name:       name,
		Params:     params,
		Table:      table,
		Cumulative: cum,
		Overview:   overview,
		Thresholds: hits,
		FromCache:  fromCache,
		Elapsed:    elapsed,
	}, nil
}

func (a *Analyzer) loadOrBuild(params engine.GameParams, opts Options) (*engine.DistributionTable, bool, error) {
	if a.cache != nil && !opts.SkipCache {
		table, ok, err := a.cache.Get(params)
		if err != nil {
			return nil, false, fmt.Errorf("cache lookup: %w", err)
		}
		if ok {
			return table, true, nil
		}
	}

	table, err := engine.BuildTable(params)
	if err != nil {
		return nil, false, err
	}

	if a.cache != nil {
		if err := a.cache.Put(table); err != nil {
			return nil, false, fmt.Errorf("cache store: %w", err)
		}
	}
	return table, false, nil
}

func (a *Analyzer) writeReports(name string, table *engine.DistributionTable, cum *engine.CumulativeTable) error {
	files := []struct {
		suffix string
		rows   []engine.Row
	}{
		{"distribution", table.Rows},
		{"cumulative", cum.Rows},
	}
	for _, f := range files {
		path := filepath.Join(a.cfg.Output.Directory, fmt.Sprintf("%s_%s.csv", name, f.suffix))
		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := report.WriteCSV(out, report.FlattenRows(f.rows)); err != nil {
			out.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := out.Close(); err != nil {
			return err
		}
		logger.Debug("Report written", "game", name, "path", path)
	}
	return nil
}

// fullCardSeries extracts P(all card numbers hit) per draw, the tombola
// headline number.
func fullCardSeries(cum *engine.CumulativeTable) []float64 {
	series := make([]float64, len(cum.Rows))
	for i, row := range cum.Rows {
		series[i] = row.Classes[cum.Params.CardSize]
	}
	return series
}
