package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"trainyard/internal/config"
	"trainyard/internal/httpapi"
	"trainyard/internal/locomotive"
	"trainyard/internal/maintenance"
	"trainyard/internal/report"
	"trainyard/internal/rollingstock"
	"trainyard/internal/telemetry"
	"trainyard/pkg/jsonstore"
)

const serviceName = "trainyard"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = log.With().Str("service", serviceName).Logger()

	cleanup, err := telemetry.Init(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("init otel")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = cleanup(shutdownCtx)
	}()

	ids := jsonstore.NewAllocator()
	locoStore, err := locomotive.NewStore(cfg.DataDir, jsonstore.WithAllocator(ids))
	if err != nil {
		log.Fatal().Err(err).Msg("open locomotive store")
	}
	carStore, err := rollingstock.NewStore(cfg.DataDir, jsonstore.WithAllocator(ids))
	if err != nil {
		log.Fatal().Err(err).Msg("open rolling stock store")
	}
	logStore, err := maintenance.NewStore(cfg.DataDir, jsonstore.WithAllocator(ids))
	if err != nil {
		log.Fatal().Err(err).Msg("open maintenance store")
	}

	locos := locomotive.NewService(locoStore)
	cars := rollingstock.NewService(carStore)
	svc := httpapi.Services{
		Locomotives:  locos,
		RollingStock: cars,
		Maintenance:  maintenance.NewService(logStore, locos, cars),
		Reports:      report.NewService(locos, cars),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpapi.Router(svc, httpapi.Options{
			Logger:         log.Logger,
			AllowedOrigins: cfg.AllowedOrigins,
			RateLimit:      rate.Limit(cfg.RateLimit),
			RateBurst:      cfg.RateBurst,
			Registry:       reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("data_dir", cfg.DataDir).Msg("starting trainyard")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}
}
