package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"CrazyCarl/internal/config"
	"CrazyCarl/internal/logging"
	"CrazyCarl/internal/recorder"
	"CrazyCarl/internal/scheduler"
	"CrazyCarl/internal/simulator"
	"CrazyCarl/internal/site"
)

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := cmd.String("addr"); v != "" {
		cfg.Server.Addr = v
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("CrazyCarl starting", zap.Int("milestones", len(cfg.Milestones)))

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Init simulator; the meter gets its own source since it runs on another job.
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim, err := simulator.New(simulator.Params{
		Milestones:  cfg.Milestones,
		PumpPhrases: cfg.Phrases.Pump,
		DumpPhrases: cfg.Phrases.Dump,
		Window:      cfg.Simulation.Window,
		Tolerance:   cfg.Simulation.Tolerance,
		PriceFloor:  cfg.Simulation.PriceFloor,
	}, rand.New(rand.NewSource(seed)))
	if err != nil {
		return fmt.Errorf("init simulator: %w", err)
	}
	meter := simulator.NewMeter(rand.New(rand.NewSource(seed + 1)))
	logger.Info("simulator ready", zap.Int64("seed", seed))

	// Init scheduler
	sched := scheduler.NewScheduler(sim, meter, rec, logger)
	if err := sched.RegisterAll(cfg.Simulation.Interval, cfg.Simulation.MeterInterval); err != nil {
		return fmt.Errorf("register tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if cmd.Bool("run-on-start") || os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, ticking now")
		sched.RunNow()
	}

	// Init site
	srv, err := site.New(site.Options{
		Meta: site.Meta{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			Ticker:      cfg.Site.Ticker,
		},
		Links:    cfg.Links,
		Supply:   cfg.Simulation.Supply,
		Sim:      sim,
		Meter:    meter,
		Recorder: rec,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("init site: %w", err)
	}
	if err := srv.Start(cfg.Server.Addr); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("site shutdown", zap.Error(err))
	}
	logger.Info("CrazyCarl stopped")
	return nil
}

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}

	cmd := &cli.Command{
		Name:  "crazycarl",
		Usage: "Serve the $CARL landing page with its simulated chart",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the site and the price simulator",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to the YAML config file",
						Value:   cfgPath,
					},
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address, overrides server.addr",
					},
					&cli.BoolFlag{
						Name:  "run-on-start",
						Usage: "Tick once immediately instead of waiting for the first interval",
					},
				},
				Action: serveAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
