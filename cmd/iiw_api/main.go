// Package main serves WHDR evaluations over HTTP.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/DjordjeVuckovic/iiw-bench/internal/api/router"
	"github.com/DjordjeVuckovic/iiw-bench/internal/api/server"
	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/runner"
	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/spec"
	"github.com/DjordjeVuckovic/iiw-bench/internal/judgment"
	"github.com/DjordjeVuckovic/iiw-bench/internal/prediction"
	"github.com/DjordjeVuckovic/iiw-bench/internal/storage/pg"
	"github.com/DjordjeVuckovic/iiw-bench/pkg/config/env"
	"github.com/labstack/echo/v4"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(env.LogLevel())

	bs, err := spec.LoadFromFile(sCfg.BenchSpec)
	if err != nil {
		slog.Error("Failed to load bench spec", "path", sCfg.BenchSpec, "error", err)
		os.Exit(1)
	}

	runCfg, err := runner.ConfigFromSpec(bs)
	if err != nil {
		slog.Error("Invalid run configuration", "error", err)
		os.Exit(1)
	}

	input := prediction.NewInputLoader(bs.Dataset.ImagesDir, bs.Dataset.ImageExt)
	loaders, err := prediction.NewFromSpec(bs.Methods, input)
	if err != nil {
		slog.Error("Failed to create prediction loaders", "error", err)
		os.Exit(1)
	}

	healthChecker := server.AlwaysHealthy
	if bs.Storage.Postgres != "" {
		pool, err := pg.NewConnectionPool(context.Background(), pg.PoolConfig{ConnStr: bs.Storage.Postgres})
		if err != nil {
			slog.Error("Failed to connect to result store", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		healthChecker = pg.NewHealthChecker(pool)
	}

	s := server.New(sCfg, healthChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "IIW WHDR API is running")
	})

	titles := make(map[string]string, len(bs.Methods))
	for name, m := range bs.Methods {
		titles[name] = m.Title
	}

	router.NewWHDRRouter(s.Echo, judgment.NewFileSource(bs.Dataset.JudgementsDir), loaders,
		router.WithDefaults(runCfg),
		router.WithTitles(titles),
	).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
