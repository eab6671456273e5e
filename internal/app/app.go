package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/media2net-app/byeauto/internal/config"
	"github.com/media2net-app/byeauto/internal/db"
	"github.com/media2net-app/byeauto/internal/domain"
	"github.com/media2net-app/byeauto/internal/repository"
	"github.com/media2net-app/byeauto/internal/service"
)

// Workshop is the wired engine: the two stores, the timer and the session
// log, all sharing one database.
type Workshop struct {
	Config    *config.Config
	Logger    *slog.Logger
	Hours     *service.OpeningHoursStore
	WorkItems *service.WorkItemStore
	Timer     *service.WorkTimer
	Sessions  repository.SessionRepo

	// Warnings holds the *domain.CorruptDataError values from loading, if any.
	Warnings []error

	db *sql.DB
}

// NewLogger builds the process logger from the log.* settings.
func NewLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// Open opens the database at cfg.DB.Path and loads both stores. Corrupt
// stored data does not fail Open; it is logged and kept in Warnings.
// Extra options are applied after the config-derived ones.
func Open(ctx context.Context, cfg *config.Config, logw io.Writer, extra ...service.Option) (*Workshop, error) {
	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	ws, err := Wire(ctx, database, cfg, logw, extra...)
	if err != nil {
		database.Close()
		return nil, err
	}
	return ws, nil
}

// Wire builds a Workshop on an already open database. Close still closes it.
func Wire(ctx context.Context, database *sql.DB, cfg *config.Config, logw io.Writer, extra ...service.Option) (*Workshop, error) {
	logger, err := NewLogger(cfg, logw)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}

	opts := []service.Option{
		service.WithLocation(loc),
		service.WithLogger(logger),
		service.WithObserver(service.NewSlogUseCaseObserver(logger)),
		service.WithRoster(cfg.Roster),
		service.WithSeed(cfg.SeedItems()...),
	}
	opts = append(opts, extra...)

	uow := db.NewSQLiteUnitOfWork(database)
	hours := service.NewOpeningHoursStore(uow, opts...)
	items := service.NewWorkItemStore(uow, hours, opts...)
	ws := &Workshop{
		Config:    cfg,
		Logger:    logger,
		Hours:     hours,
		WorkItems: items,
		Timer:     service.NewWorkTimer(items, opts...),
		Sessions:  repository.NewSQLiteSessionRepo(database),
		db:        database,
	}

	for _, load := range []func(context.Context) error{hours.Load, items.Load} {
		if err := load(ctx); err != nil {
			var corrupt *domain.CorruptDataError
			if !errors.As(err, &corrupt) {
				return nil, fmt.Errorf("loading workshop data: %w", err)
			}
			ws.Warnings = append(ws.Warnings, err)
		}
	}
	return ws, nil
}

// Close stores any data that was never written (first-run defaults or a
// fallback after corruption) and closes the database.
func (w *Workshop) Close(ctx context.Context) error {
	err := errors.Join(w.Hours.Flush(ctx), w.WorkItems.Flush(ctx))
	if cerr := w.db.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("closing database: %w", cerr))
	}
	return err
}
