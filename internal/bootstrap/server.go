package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/cargoquote/api"
	"github.com/Domenick1991/cargoquote/config"
	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const swaggerDoc = "/swagger/cargoquote.swagger.json"

// Handlers groups everything the HTTP router mounts.
type Handlers struct {
	Orders       *api.OrderHandler
	Vendors      *api.VendorHandler
	Quotations   *api.QuotationHandler
	Flights      *api.FlightHandler
	Availability *api.AvailabilityHandler
	Dashboard    *api.DashboardHandler
	Assistant    *api.AssistantHandler
	Session      *api.SessionHandler
	Currency     *api.CurrencyHandler

	Sessions api.SessionManager
	Gatherer prometheus.Gatherer
}

type Servers struct {
	grpcServer *grpc.Server
	health     *health.Server
	httpServer *http.Server
}

// Run starts the gRPC health server and the HTTP API and blocks until ctx is
// canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, log *logger.Logger, h Handlers) error {
	s := newServers(cfg, log, h)

	errCh := make(chan error, 2)

	if s.grpcServer != nil {
		lis, err := net.Listen("tcp", cfg.GRPC.Address)
		if err != nil {
			return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
		}
		go func() { errCh <- s.grpcServer.Serve(lis) }()
		log.Info(ctx, "grpc health server started", map[string]any{"address": cfg.GRPC.Address})
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info(ctx, "http server started", map[string]any{"address": cfg.HTTP.Address})

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if s.grpcServer != nil {
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
		}
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServers(cfg *config.Config, log *logger.Logger, h Handlers) *Servers {
	s := &Servers{
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           NewRouter(cfg, log, h),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	if cfg.GRPC.Address != "" {
		s.grpcServer = grpc.NewServer()
		s.health = health.NewServer()
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(s.grpcServer, s.health)
	}
	return s
}

// NewRouter builds the gin engine with every API group mounted under /api/v1.
func NewRouter(cfg *config.Config, log *logger.Logger, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestContext(log))

	v1 := router.Group("/api/v1")
	secured := v1.Group("", api.RequireSession(h.Sessions, cfg.Auth.Enabled))
	h.Session.Register(secured.Group("/session"))
	h.Currency.Register(secured.Group("/currency"))
	h.Orders.Register(secured.Group("/orders"))
	h.Vendors.Register(secured.Group("/vendors"))
	h.Quotations.Register(secured.Group("/quotations"))
	h.Flights.Register(secured.Group("/flights"))
	h.Availability.Register(secured.Group("/availability"))
	h.Assistant.Register(secured.Group("/assistant"))
	h.Dashboard.Register(secured)

	gatherer := h.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerDoc))))
	}

	return router
}
