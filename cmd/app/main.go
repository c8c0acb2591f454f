package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/cargoquote/api"
	"github.com/Domenick1991/cargoquote/config"
	"github.com/Domenick1991/cargoquote/internal/bootstrap"
	"github.com/Domenick1991/cargoquote/internal/cache"
	"github.com/Domenick1991/cargoquote/internal/currency"
	"github.com/Domenick1991/cargoquote/internal/kafka"
	"github.com/Domenick1991/cargoquote/internal/llm"
	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/Domenick1991/cargoquote/internal/metrics"
	"github.com/Domenick1991/cargoquote/internal/repository"
	"github.com/Domenick1991/cargoquote/internal/repository/memory"
	"github.com/Domenick1991/cargoquote/internal/service/assistant"
	"github.com/Domenick1991/cargoquote/internal/service/availability"
	"github.com/Domenick1991/cargoquote/internal/service/dashboard"
	"github.com/Domenick1991/cargoquote/internal/service/flights"
	"github.com/Domenick1991/cargoquote/internal/service/orders"
	"github.com/Domenick1991/cargoquote/internal/service/quotation"
	"github.com/Domenick1991/cargoquote/internal/service/vendors"
	"github.com/Domenick1991/cargoquote/internal/session"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type repositories struct {
	orders     repository.OrderRepository
	vendors    repository.VendorRepository
	quotations repository.QuotationRepository
	flights    repository.FlightRepository
}

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.New(logger.Options{ServiceName: "cargoquote"}).Fatal(context.Background(), "load config", err)
	}

	log := logger.New(logger.Options{ServiceName: cfg.App.Name, Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repos repositories
	if cfg.Database.InMemory() {
		store := memory.NewStore()
		repos = repositories{store.Orders(), store.Vendors(), store.Quotations(), store.Flights()}
		log.Warn(ctx, "using in-memory store, data is lost on restart", nil, nil)
	} else {
		if cfg.Database.AutoMigrate {
			if err := repository.RunMigrations(cfg.Database.URL()); err != nil {
				log.Fatal(ctx, "run migrations", err)
			}
		}
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatal(ctx, "connect postgres", err)
		}
		defer pool.Close()
		repos = repositories{
			orders:     repository.NewOrderRepository(pool),
			vendors:    repository.NewVendorRepository(pool),
			quotations: repository.NewQuotationRepository(pool),
			flights:    repository.NewFlightRepository(pool),
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	quoting := metrics.NewQuoting(registry)

	quoteOpts := []quotation.QuotationServiceOption{
		quotation.WithPolicy(quotation.Policy{
			DefaultMarginPercent: cfg.Quotation.DefaultMarginPercent,
			MinMarginPercent:     cfg.Quotation.MinMarginPercent,
			MaxMarginPercent:     cfg.Quotation.MaxMarginPercent,
			DefaultValidityDays:  cfg.Quotation.DefaultValidityDays,
			DefaultTerms:         cfg.Quotation.DefaultTerms,
		}),
		quotation.WithMetrics(quoting),
		quotation.WithLogger(log),
	}
	flightOpts := []flights.FlightServiceOption{
		flights.WithMetrics(quoting),
		flights.WithLogger(log),
	}
	boardOpts := []availability.BoardOption{
		availability.WithMetrics(quoting),
		availability.WithLogger(log),
	}

	var revocations session.RevocationStore
	var currencyPrefs currency.PreferenceStore
	if cfg.Redis.Enabled() {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Flights.CacheTTL())
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn(ctx, "redis unreachable, continuing", err, map[string]any{"addr": cfg.Redis.Addr})
		}
		flightOpts = append(flightOpts, flights.WithCache(redisCache, cfg.Flights.AssignLockTTL()))
		boardOpts = append(boardOpts, availability.WithSnapshotStore(redisCache, 2*cfg.Availability.RefreshInterval()))
		revocations = redisCache
		currencyPrefs = redisCache
	}

	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.Warn(ctx, "kafka unreachable, events will be dropped", err, map[string]any{"brokers": cfg.Kafka.Brokers})
		}
		quoteOpts = append(quoteOpts, quotation.WithProducer(producer, cfg.Kafka.QuotationTopic, cfg.Kafka.NotificationsTopic))
		flightOpts = append(flightOpts, flights.WithProducer(producer, cfg.Kafka.QuotationTopic, cfg.Kafka.NotificationsTopic))
	}

	seed := cfg.Availability.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	orderService := orders.NewOrderService(repos.orders, repos.vendors, orders.WithLogger(log))
	quoteService := quotation.NewQuotationService(repos.quotations, repos.orders, repos.vendors, quoteOpts...)
	flightService := flights.NewFlightService(repos.flights, repos.orders, flightOpts...)
	dashboardService := dashboard.NewDashboardService(repos.orders, repos.flights, quoteService)
	assistantService := assistant.NewAssistantService(llm.NewClient(cfg.LLM), repos.orders, repos.quotations, repos.vendors, log)

	var board *availability.Board
	vendorService := vendors.NewVendorService(repos.vendors,
		vendors.WithLogger(log),
		vendors.WithChangeHook(func(ctx context.Context) { board.VendorsChanged(ctx) }),
	)
	board = availability.NewBoard(
		availability.NewSimulator(seed),
		vendorService,
		cfg.Availability.DefaultOrigin,
		cfg.Availability.DefaultDestination,
		boardOpts...,
	)
	go board.Run(ctx, cfg.Availability.RefreshInterval())

	sessions := session.NewManager(cfg.Auth, revocations)
	prefs := currency.NewPreferences(cfg.Currency.HKDPerUSD, currencyPrefs, time.Duration(cfg.Auth.ExpirationMinutes)*time.Minute)

	handlers := bootstrap.Handlers{
		Orders:       api.NewOrderHandler(orderService, quoteService, flightService),
		Vendors:      api.NewVendorHandler(vendorService),
		Quotations:   api.NewQuotationHandler(quoteService),
		Flights:      api.NewFlightHandler(flightService),
		Availability: api.NewAvailabilityHandler(board),
		Dashboard:    api.NewDashboardHandler(dashboardService),
		Assistant:    api.NewAssistantHandler(assistantService),
		Session:      api.NewSessionHandler(sessions),
		Currency:     api.NewCurrencyHandler(prefs),
		Sessions:     sessions,
		Gatherer:     registry,
	}

	if err := bootstrap.Run(ctx, cfg, log, handlers); err != nil {
		log.Fatal(ctx, "server error", err)
	}
}
