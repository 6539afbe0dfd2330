package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/talentflow/internal/board"
	"github.com/jonathan/talentflow/internal/config"
	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/db/local"
	"github.com/jonathan/talentflow/internal/observability"
	"github.com/jonathan/talentflow/internal/seed"
)

// app is the state shared by every command of one invocation
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	engine  *board.Engine
	printer *observability.Printer
	seeded  seed.Result
	close   func()
}

var cur *app

// setupApp resolves configuration, opens the store, seeds it when empty and
// builds the engine. It runs before every command.
func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log := observability.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	ctx := cmd.Context()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	res, err := seed.Run(ctx, store, seed.Options{Logger: &log})
	if err != nil {
		closeStore()
		return fmt.Errorf("failed to seed store: %w", err)
	}

	pc := cfg.PolicyConfig()
	if noLatency {
		pc.MinLatency, pc.MaxLatency = 0, 0
	}

	cur = &app{
		cfg:     cfg,
		log:     log,
		engine:  board.New(store, board.WithPolicy(board.NewSimulatedPolicy(pc)), board.WithLogger(log)),
		printer: observability.NewPrinter(cmd.OutOrStdout()),
		seeded:  res,
		close:   closeStore,
	}
	return nil
}

// closeApp releases the store opened by setupApp, if any
func closeApp() {
	if cur != nil && cur.close != nil {
		cur.close()
	}
	cur = nil
}

// resolveConfig layers defaults, the config file, the environment and flags, in
// increasing order of precedence.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("database-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Changed("data-file") {
		cfg.DataFile = dataFile
	}
	if flags.Changed("failure-rate") {
		rate := failureRate
		cfg.FailureRate = &rate
	}
	if flags.Changed("retries") {
		cfg.Retries = retries
	}
	if verbose {
		cfg.Verbose = true
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// openStore connects to Postgres when a database URL is configured and opens
// the local SQLite file otherwise
func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (db.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		pg, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		log.Debug().Msg("using postgres store")
		return pg, pg.Close, nil
	}

	s, err := local.Open(cfg.DataFile)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("path", s.Path()).Msg("using local store")
	return s, func() {
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close local store")
		}
	}, nil
}

// withRetry runs op, retrying transient failures up to the configured count
func withRetry[T any](ctx context.Context, a *app, op func(ctx context.Context) (T, error)) (T, error) {
	for attempt := 1; ; attempt++ {
		v, err := op(ctx)
		if err == nil || !board.IsTransient(err) || attempt > a.cfg.Retries {
			return v, err
		}
		a.log.Warn().Err(err).Int("attempt", attempt).Msg("retrying after transient failure")
	}
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}
