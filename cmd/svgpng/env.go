package main

import (
	"context"
	"time"

	"github.com/benoitkugler/svgpng/config"
	"github.com/benoitkugler/svgpng/history"
	"github.com/benoitkugler/svgpng/logger"
	"github.com/benoitkugler/svgpng/session"
	"github.com/benoitkugler/svgpng/svgraster"
)

// env is shared by the commands.
type env struct {
	cfg *config.Config
}

func (e *env) load(envFile string) error {
	if err := config.LoadEnvironment(envFile); err != nil {
		return err
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	e.cfg = cfg
	return nil
}

func (e *env) encoder() *svgraster.Encoder {
	return svgraster.NewEncoder(
		svgraster.WithMaxPixels(e.cfg.MaxPixels),
		svgraster.WithCompression(e.cfg.Compression),
		svgraster.WithLogger(logger.Logger),
	)
}

func (e *env) session(quality float64, locked bool) *session.Session {
	return session.New(e.encoder(),
		session.WithLogger(logger.Logger),
		session.WithQuality(svgraster.ClampQuality(quality)),
		session.WithLock(locked),
	)
}

// openHistory falls back to an in-memory list when the
// configured backend is unavailable.
func (e *env) openHistory() history.Store {
	store, err := history.Open(e.cfg.History)
	if err != nil {
		logger.Logger.Warn("History unavailable", "backend", e.cfg.History.Backend, "err", err)
		return history.NewMemoryStore()
	}
	return store
}

// record adds `name` to the recent files. Failures are only logged.
func (e *env) record(ctx context.Context, name string) {
	store := e.openHistory()
	defer store.Close()
	if _, err := history.Record(ctx, store, name, time.Now()); err != nil {
		logger.Logger.Warn("Failed to record history", "name", name, "err", err)
	}
}
