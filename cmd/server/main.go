package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kithuachu121-spec/salonslotbook/internal/api"
	"github.com/kithuachu121-spec/salonslotbook/internal/availability"
	"github.com/kithuachu121-spec/salonslotbook/internal/booking"
	"github.com/kithuachu121-spec/salonslotbook/internal/cache"
	"github.com/kithuachu121-spec/salonslotbook/internal/config"
	"github.com/kithuachu121-spec/salonslotbook/internal/events"
	"github.com/kithuachu121-spec/salonslotbook/internal/metrics"
	"github.com/kithuachu121-spec/salonslotbook/internal/reminder"
	"github.com/kithuachu121-spec/salonslotbook/internal/storage"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("SALON_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	store, err := storage.Open(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer store.Close()

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	availCache := cache.New(rdb, cfg.CacheTTL(), &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus()
	availCache.WatchBookings(bus)
	bookingSvc := booking.NewService(store, bus, &logger)
	resolver := availability.NewResolver(store)

	sessions := reminder.NewSessionManager(
		reminder.Config{
			PollInterval: cfg.ReminderPollInterval(),
			Window:       cfg.ReminderWindow(),
		},
		store, bookingSvc, nil, bus, &logger,
	)
	defer sessions.Shutdown()

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	server := api.NewServer(api.Options{
		BaseContext:   ctx,
		Store:         store,
		Bookings:      bookingSvc,
		Resolver:      resolver,
		Cache:         availCache,
		Sessions:      sessions,
		Logger:        &logger,
		InactiveAfter: cfg.SalonInactiveAfter(),
		RateRPS:       cfg.RateLimitRPS(),
		RateBurst:     cfg.RateLimitBurst(),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	logger.Info().Str("addr", cfg.Server.Address).Msg("salon scheduling service started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("http server error")
	}
	logger.Info().Msg("shutdown complete")
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
