package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/lottolab/tombola-analytics/internal/analyzer"
	"github.com/lottolab/tombola-analytics/internal/config"
	"github.com/lottolab/tombola-analytics/internal/events"
	"github.com/lottolab/tombola-analytics/internal/store"
	"github.com/lottolab/tombola-analytics/pkg/common/logger"
)

// --- CLI definitions --- //

type CLI struct {
	Analyze AnalyzeCmd `cmd:"" help:"Analyze configured games and write reports."`
	Cache   CacheCmd   `cmd:"" help:"Inspect or clear the table cache."`
}

type AnalyzeCmd struct {
	ConfigPath string   `help:"Path to config file." default:"configs/config.yaml" name:"config"`
	Games      []string `help:"Games to analyze (all configured games when omitted)." name:"game"`
	NoCache    bool     `help:"Recompute tables even when cached." name:"no-cache"`
	Debug      bool     `help:"Enable debug logs." name:"debug"`
}

type CacheCmd struct {
	List  CacheListCmd  `cmd:"" help:"List cached tables."`
	Clear CacheClearCmd `cmd:"" help:"Drop every cached table."`
}

type CacheListCmd struct {
	ConfigPath string `help:"Path to config file." default:"configs/config.yaml" name:"config"`
}

type CacheClearCmd struct {
	ConfigPath string `help:"Path to config file." default:"configs/config.yaml" name:"config"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tombola"),
		kong.Description("Draw-by-draw hit distribution analytics for tombola-style games."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func (c *AnalyzeCmd) Run() error {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	logger.Init(&logger.Options{Level: level})

	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Info("Config loaded", "games", len(cfg.Games), "environment", cfg.Environment)

	var cache *store.TableStore
	if cfg.Cache.Enabled {
		cache, err = store.NewTableStore(cfg.Cache.Directory, cfg.Cache.Prefix)
		if err != nil {
			return fmt.Errorf("open table cache: %w", err)
		}
		defer cache.Close()
	}

	emitter := events.Emitter(events.NopEmitter{})
	if cfg.NATS.Enabled {
		nc, err := events.Connect(cfg.NATS)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		emitter = events.NewEmitter(nc, cfg.NATS.SubjectPrefix)
	}
	defer emitter.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := analyzer.New(cfg, cache, emitter).Run(ctx, c.Games, analyzer.Options{
		SkipCache: c.NoCache,
	})
	if err != nil {
		return err
	}

	logger.Info("Analysis complete", "games", len(results), "output", cfg.Output.Directory)
	return nil
}

func openCache(configPath string) (*store.TableStore, error) {
	logger.Init(&logger.Options{Level: slog.LevelInfo})

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !cfg.Cache.Enabled {
		return nil, fmt.Errorf("cache is disabled in %s", configPath)
	}
	return store.NewTableStore(cfg.Cache.Directory, cfg.Cache.Prefix)
}

func (c *CacheListCmd) Run() error {
	cache, err := openCache(c.ConfigPath)
	if err != nil {
		return err
	}
	defer cache.Close()

	entries, err := cache.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("cache is empty")
		return nil
	}
	for _, params := range entries {
		fmt.Printf("card=%d drum=%d\n", params.CardSize, params.DrumSize)
	}
	return nil
}

func (c *CacheClearCmd) Run() error {
	cache, err := openCache(c.ConfigPath)
	if err != nil {
		return err
	}
	defer cache.Close()

	if err := cache.Clear(); err != nil {
		return err
	}
	logger.Info("Table cache cleared")
	return nil
}
