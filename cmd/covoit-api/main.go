// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"covoit/internal/config"
	httptransport "covoit/internal/http"
	"covoit/internal/infra"
	"covoit/internal/maps"
	"covoit/internal/modules/matching"
	"covoit/internal/modules/profile"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	routeService, err := maps.NewRouteService(cfg.Maps.APIKey, cfg.Matching.RouteCacheTTL)
	if err != nil {
		logger.Error("maps init failed", "error", err)
		os.Exit(1)
	}

	profileStore := profile.NewStore(dbPool, redisClient)
	profileService := profile.NewService(profileStore, logger)

	calculator := matching.NewCalculator(routeService, cfg.Matching.RouteTimeout)
	engine := matching.NewEngine(calculator, cfg.Matching.Workers, logger)
	resultStore := matching.NewStore(redisClient, cfg.Matching.ResultTTL)

	handler := httptransport.NewRouter(profileService, engine, resultStore, cfg.Matching, logger)
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
