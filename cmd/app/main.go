package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			context.Background,
			cmd.LoadConfig,
			newLogger,
			newDatabase,
			cmd.NewCompositionRoot,
		),
		fx.WithLogger(func(l *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: l}
		}),
		fx.Invoke(
			startDispatcher,
			startWebServer,
			startJobs,
		),
	).Run()
}

func newLogger(lc fx.Lifecycle, cfg cmd.Config) (*slog.Logger, error) {
	l, closer, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l)
	lc.Append(fx.StopHook(closer.Close))
	return l, nil
}

func newDatabase(lc fx.Lifecycle, ctx context.Context, cfg cmd.Config, l *slog.Logger) (*gorm.DB, error) {
	db, err := postgres.Open(cfg.Postgres, l)
	if err != nil {
		return nil, err
	}
	if cfg.Migrate {
		if err = postgres.Migrate(ctx, db); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(sqlDB.Close))
	return db, nil
}

// startDispatcher is registered first so it stops last, after the server and
// jobs that feed it.
func startDispatcher(lc fx.Lifecycle, root *cmd.CompositionRoot) {
	d := root.Dispatcher()
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			d.Start()
			return nil
		},
		OnStop: d.Stop,
	})
}

func startWebServer(lc fx.Lifecycle, ctx context.Context, cfg cmd.Config, root *cmd.CompositionRoot, l *slog.Logger) error {
	e, err := httpin.NewEcho(ctx, cfg.HTTP, httpin.NewServer(root.Handlers(), l), l)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.HTTP.Port)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				l.Info("Starting HTTP server", slog.String("addr", addr))
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					l.Error("HTTP server stopped", slog.Any("error", err))
				}
			}()
			return nil
		},
		OnStop: e.Shutdown,
	})
	return nil
}

func startJobs(lc fx.Lifecycle, cfg cmd.Config, root *cmd.CompositionRoot) {
	if !cfg.Jobs.Enabled {
		return
	}
	jm := root.JobManager()
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return jm.StartAll()
		},
		OnStop: func(context.Context) error {
			jm.StopAll()
			return nil
		},
	})
}
