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

	"github.com/joao-fontenele/basketflow/internal/config"
	"github.com/joao-fontenele/basketflow/internal/gateway"
	"github.com/joao-fontenele/basketflow/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := config.Load(); err != nil {
		logger.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.LoadGateway()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, config.OTLPEndpoint(), "gateway", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("gateway", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	handler := gateway.NewHandler(gateway.Upstreams{
		Basket:    gateway.NewServiceProxy(cfg.BasketURL, httpClient),
		Catalog:   gateway.NewServiceProxy(cfg.CatalogURL, httpClient),
		Discounts: gateway.NewServiceProxy(cfg.DiscountURL, httpClient),
		Orders:    gateway.NewServiceProxy(cfg.OrdersURL, httpClient),
	}, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /basket/{userName}", telemetry.WithHTTPRoute(handler.HandleBasket))
	mux.HandleFunc("POST /basket", telemetry.WithHTTPRoute(handler.HandleBasket))
	mux.HandleFunc("POST /basket/{userName}/checkout", telemetry.WithHTTPRoute(handler.HandleBasket))
	mux.HandleFunc("DELETE /basket/{userName}", telemetry.WithHTTPRoute(handler.HandleBasket))
	mux.HandleFunc("GET /catalog", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("GET /catalog/{id}", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("GET /catalog/category/{category}", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("POST /catalog", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("PUT /catalog", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("DELETE /catalog/{id}", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("GET /discounts/{productName}", telemetry.WithHTTPRoute(handler.HandleDiscounts))
	mux.HandleFunc("POST /discounts", telemetry.WithHTTPRoute(handler.HandleDiscounts))
	mux.HandleFunc("PUT /discounts", telemetry.WithHTTPRoute(handler.HandleDiscounts))
	mux.HandleFunc("DELETE /discounts/{productName}", telemetry.WithHTTPRoute(handler.HandleDiscounts))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(handler.HandleOrders))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(handler.HandleOrders))
	mux.HandleFunc("PATCH /orders/{id}/status", telemetry.WithHTTPRoute(handler.HandleOrders))
	mux.Handle("GET /metrics", metricsHandler)

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(mux, "gateway",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Timeout + 5*time.Second,
	}

	go func() {
		logger.Info("starting gateway service", "port", cfg.Port)
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
