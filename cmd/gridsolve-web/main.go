// Command gridsolve-web serves the solver as a JSON HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "svw.info/gridsolve/internal/adapters/http"
	"svw.info/gridsolve/internal/config"
	"svw.info/gridsolve/internal/domain"
	"svw.info/gridsolve/internal/generator"
	"svw.info/gridsolve/internal/hint"
	"svw.info/gridsolve/internal/infrastructure/storage"
	"svw.info/gridsolve/internal/ports"
	"svw.info/gridsolve/internal/solver"
	"svw.info/gridsolve/internal/usecase"
	"svw.info/gridsolve/internal/validator"
)

func main() {
	cfgPath := flag.String("config", "", "optional config file (YAML)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Server.LogLevel),
	}))
	if err := os.MkdirAll(cfg.Storage.Dir, 0o755); err != nil {
		logger.Error("create storage dir", "err", err)
		os.Exit(1)
	}

	// Wire providers -> use cases -> HTTP adapter
	s := pickSolver(cfg.Solver.Kind, cfg.Solver.Workers)
	g := generator.NewUniqueGenerator(s)
	v := validator.New()
	st := storage.NewFS(cfg.Storage.Dir)
	hin := hint.NewSingles()
	uc := usecase.NewService(s, g, v, hin, st)
	h := httpadapter.New(uc, logger, domain.Geometry{
		BoxRows: cfg.Grid.BoxRows,
		BoxCols: cfg.Grid.BoxCols,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			"addr", cfg.Server.Addr,
			"persist", cfg.Storage.Dir,
			"solver", cfg.Solver.Kind,
		)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown", "err", err)
			os.Exit(1)
		}
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func pickSolver(kind string, workers int) ports.Solver {
	switch kind {
	case "backtrack", "backtracking":
		return solver.NewBacktrackingSolver()
	case "dlx":
		return solver.NewDLXSolver()
	case "parallel":
		return solver.NewParallelSolver(workers)
	default:
		return solver.NewPropagationSolver()
	}
}
