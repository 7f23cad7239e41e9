package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/loomreport"
	"github.com/eringen/loomreport/cache"
	"github.com/eringen/loomreport/gemini"
	"github.com/eringen/loomreport/ledger"
	"github.com/eringen/loomreport/moderation"
)

// env is the per-invocation wiring shared by every command.
type env struct {
	cfg    *loomreport.Config
	logger zerolog.Logger
	runID  string
	kind   string
}

func newEnv(kind string) (*env, error) {
	cfg, err := loomreport.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	runID := ledger.NewID()
	logger := loomreport.NewLogger(cfg.LogLevel, cfg.AppEnv).With().
		Str("run_id", runID).
		Str("command", kind).
		Logger()
	return &env{cfg: cfg, logger: logger, runID: runID, kind: kind}, nil
}

func (e *env) gemini() (*gemini.Client, error) {
	return gemini.NewFromConfig(e.cfg, e.logger)
}

// gate returns the moderation gate backed by the configured verdict cache.
// The caller closes the returned cache.
func (e *env) gate(ctx context.Context, chat moderation.Chatter) (*moderation.Gate, cache.Cache) {
	c := cache.Open(ctx, e.cfg.RedisURL, e.logger)
	return moderation.NewGate(chat,
		moderation.WithCache(c, e.cfg.ModerationCacheTTL),
		moderation.WithLogger(e.logger),
	), c
}

// record stores the outcome of this run in the ledger. Ledger failures are
// logged and never change the command result.
func (e *env) record(started time.Time, detail string, runErr error) {
	if !e.cfg.LedgerEnabled() {
		return
	}
	store, err := ledger.Open(e.cfg.LedgerPath)
	if err != nil {
		e.logger.Warn().Err(err).Str("path", e.cfg.LedgerPath).Msg("open run ledger")
		return
	}
	defer store.Close()

	run := ledger.Run{
		ID:         e.runID,
		Kind:       e.kind,
		Status:     ledger.StatusOK,
		Detail:     detail,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if runErr != nil {
		run.Status = ledger.StatusFailed
		run.Error = runErr.Error()
	}
	if _, err := store.Record(run); err != nil {
		e.logger.Warn().Err(err).Msg("record run")
	}
}

// run executes fn, records it and prints its status as indented JSON.
func (e *env) run(w io.Writer, fn func() (any, error)) error {
	started := time.Now()
	status, err := fn()
	if err != nil {
		e.logger.Error().Err(err).Str("kind", loomreport.KindOf(err).String()).Msg("run failed")
		e.record(started, "", err)
		return err
	}

	out, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	e.record(started, string(out), nil)
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
