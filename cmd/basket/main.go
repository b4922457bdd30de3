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

	"github.com/joao-fontenele/basketflow/internal/basket"
	"github.com/joao-fontenele/basketflow/internal/config"
	"github.com/joao-fontenele/basketflow/internal/messaging"
	"github.com/joao-fontenele/basketflow/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := config.Load(); err != nil {
		logger.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.LoadBasket()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, config.OTLPEndpoint(), "basket", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("basket", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	connectCtx, cancelConnect := context.WithTimeout(ctx, 10*time.Second)
	redisClient, err := telemetry.OpenRedis(connectCtx, cfg.RedisURL)
	cancelConnect()
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer func() { _ = redisClient.Close() }()

	producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.CheckoutTopic)
	defer func() { _ = producer.Close() }()

	discountClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	service, err := basket.NewService(
		basket.NewRedisCartStore(redisClient, cfg.CartTTL),
		basket.NewHTTPDiscountClient(cfg.DiscountURL, discountClient),
		basket.NewKafkaPublisher(producer),
		logger,
		basket.WithTimeouts(basket.Timeouts{
			Store:    cfg.StoreTimeout,
			Discount: cfg.DiscountTimeout,
			Publish:  cfg.PublishTimeout,
		}),
		basket.WithMaxLookups(cfg.MaxLookups),
	)
	if err != nil {
		logger.Error("failed to create basket service", "error", err)
		os.Exit(1)
	}
	handler := basket.NewHandler(service, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /basket/{userName}", telemetry.WithHTTPRoute(handler.HandleGet))
	mux.HandleFunc("POST /basket", telemetry.WithHTTPRoute(handler.HandleUpdate))
	mux.HandleFunc("POST /basket/{userName}/checkout", telemetry.WithHTTPRoute(handler.HandleCheckout))
	mux.HandleFunc("DELETE /basket/{userName}", telemetry.WithHTTPRoute(handler.HandleDelete))
	mux.Handle("GET /metrics", metricsHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(mux, "basket"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting basket service", "port", cfg.Port, "topic", cfg.CheckoutTopic)
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
