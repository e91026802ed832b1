package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"lawlink/internal/core/domain"
	"lawlink/internal/core/services"
	httphandlers "lawlink/internal/handlers/http"
	"lawlink/internal/infrastructure/middleware"
	"lawlink/internal/infrastructure/monitoring"
	"lawlink/internal/infrastructure/repositories"
	signalws "lawlink/internal/infrastructure/signal"
	"lawlink/pkg/config"
	"lawlink/pkg/logger"
	"lawlink/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := os.Getenv("LAWLINK_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Could not load config from %s: %v", configPath, err)
	}

	zlog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zlog.Sync()
	sugar := zlog.Sugar()

	tp, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "lawlink-signal",
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		sugar.Fatalw("failed to initialize tracing", "error", err)
	}

	factory, err := repositories.NewRepositoryFactory(cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to create repository factory", "error", err)
	}
	defer factory.Close()

	store := factory.CreateAppointmentStore()
	collector := monitoring.NewPrometheusCollector()

	registry := services.NewRoomRegistry()
	presence := services.NewPresenceTracker(store, collector, sugar)
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	hub := signalws.NewHub(cfg.Signal.WriteTimeout)
	relay := services.NewRelayService(registry, hub, collector, sugar)
	wsServer := signalws.NewWebSocketServer(
		cfg, hub, registry, relay, presence, authService, collector,
		middleware.NewMessageLimiter(cfg), sugar,
	)

	health := monitoring.NewHealthChecker()
	health.AddCheck("store", factory.HealthCheck, cfg.Signal.WriteTimeout)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		middleware.RecoveryMiddleware(sugar),
		middleware.ErrorHandlerMiddleware(sugar),
		middleware.TracingMiddleware(),
		middleware.NewHTTPRateLimitMiddleware(cfg),
	)

	router.GET("/ws", gin.WrapF(wsServer.HandleWebSocket))

	roomsHandler := httphandlers.NewRoomsHandler(registry, store, health)
	roomsHandler.SetupRoutes(router,
		middleware.AuthMiddleware(authService),
		middleware.RequireRole(domain.RoleAdmin),
	)

	if cfg.Monitoring.PrometheusEnabled {
		go func() {
			addr := ":" + strconv.Itoa(cfg.Monitoring.PrometheusPort)
			sugar.Infow("starting metrics server", "address", addr)
			if err := http.ListenAndServe(addr, promhttp.Handler()); err != nil && err != http.ErrServerClosed {
				sugar.Errorw("metrics server failed", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:    cfg.Signal.Address,
		Handler: router,
	}

	go func() {
		sugar.Infow("starting signaling server", "address", cfg.Signal.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("signaling server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	sugar.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Signal.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sugar.Errorw("server shutdown failed", "error", err)
	}
	if err := tp.Shutdown(ctx); err != nil {
		sugar.Errorw("tracer shutdown failed", "error", err)
	}
}
