package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/cargoquote/config"
	"github.com/Domenick1991/cargoquote/internal/cache"
	"github.com/Domenick1991/cargoquote/internal/currency"
	"github.com/Domenick1991/cargoquote/internal/email"
	"github.com/Domenick1991/cargoquote/internal/kafka"
	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/Domenick1991/cargoquote/internal/repository"
	"github.com/Domenick1991/cargoquote/internal/service/availability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.New(logger.Options{ServiceName: "cargoquote-worker"}).Fatal(context.Background(), "load config", err)
	}

	log := logger.New(logger.Options{ServiceName: cfg.App.Name + "-worker", Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Kafka.Enabled() {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
		defer consumer.Close()

		sender := email.NewSender(log, currency.NewSelection(cfg.Currency.HKDPerUSD))

		go func() {
			if err := consumer.Consume(ctx, sender.Send); err != nil {
				log.Error(ctx, "consumer stopped", err, nil)
			}
		}()
	} else {
		log.Warn(ctx, "kafka not configured, notifications disabled", nil, nil)
	}

	// The worker publishes the default route's board to redis. App boards serve
	// it whenever it is newer than their own.
	var board *availability.Board
	if cfg.Redis.Enabled() && !cfg.Database.InMemory() {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatal(ctx, "connect postgres", err)
		}
		defer pool.Close()

		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Flights.CacheTTL())
		defer redisCache.Close()

		seed := cfg.Availability.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		board = availability.NewBoard(
			availability.NewSimulator(seed),
			repository.NewVendorRepository(pool),
			cfg.Availability.DefaultOrigin,
			cfg.Availability.DefaultDestination,
			availability.WithSnapshotStore(redisCache, 2*cfg.Availability.RefreshInterval()),
			availability.WithLogger(log),
		)
	}

	refreshTicker := time.NewTicker(cfg.Availability.RefreshInterval())
	defer refreshTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-refreshTicker.C:
			if board == nil {
				continue
			}
			if err := board.Refresh(ctx); err != nil {
				log.Error(ctx, "availability refresh failed", err, nil)
			}
		case s := <-sig:
			log.Info(ctx, "shutting down", map[string]any{"signal": s.String()})
			return
		}
	}
}
