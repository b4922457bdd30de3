package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/joao-fontenele/basketflow/internal/catalog"
	"github.com/joao-fontenele/basketflow/internal/config"
	"github.com/joao-fontenele/basketflow/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := config.Load(); err != nil {
		logger.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.LoadCatalog()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, config.OTLPEndpoint(), "catalog", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("catalog", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	connectCtx, cancelConnect := context.WithTimeout(ctx, 10*time.Second)
	mongoClient, err := telemetry.ConnectMongo(connectCtx, cfg.MongoURL)
	cancelConnect()
	if err != nil {
		logger.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	repo := catalog.NewProductRepository(mongoClient.Database(cfg.Database))
	handler := catalog.NewHandler(repo, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /catalog", telemetry.WithHTTPRoute(handler.HandleList))
	mux.HandleFunc("GET /catalog/{id}", telemetry.WithHTTPRoute(handler.HandleGet))
	mux.HandleFunc("GET /catalog/category/{category}", telemetry.WithHTTPRoute(handler.HandleListByCategory))
	mux.HandleFunc("POST /catalog", telemetry.WithHTTPRoute(handler.HandleCreate))
	mux.HandleFunc("PUT /catalog", telemetry.WithHTTPRoute(handler.HandleUpdate))
	mux.HandleFunc("DELETE /catalog/{id}", telemetry.WithHTTPRoute(handler.HandleDelete))
	mux.Handle("GET /metrics", metricsHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(mux, "catalog"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting catalog service", "port", cfg.Port, "database", cfg.Database)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
