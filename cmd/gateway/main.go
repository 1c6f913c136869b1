// Package main is the entry point for the myregistry process. It hosts two
// echo listeners sharing one in-memory registry: the registration/query API
// (register, renew, deregister, instance query, /metrics) on SERVICE_PORT_API
// and the gateway ingress (predicate routing, round-robin balancing, bounded
// forwarding with retry) on SERVICE_PORT_GATEWAY. A background sweeper flags
// instances down after a missed heartbeat and evicts them after the eviction
// threshold. On SIGINT/SIGTERM both servers are shut down with a timeout and
// the sweeper is stopped.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myregistry/domain"
	"myregistry/handlers"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Initialize logger
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	level.Info(logger).Log("msg", "Starting myregistry")

	// Load configuration
	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_api", config.APIPort,
		"service_port_gateway", config.GatewayPort,
		"heartbeat_interval", config.HeartbeatInterval,
		"flag_down_after", config.FlagDownAfter,
		"eviction_threshold", config.EvictionThreshold,
		"retry_count", config.RetryCount,
		"forward_timeout", config.ForwardTimeout,
	)

	// Load the route table; an unavailable config source degrades to an empty
	// table rather than preventing startup.
	routeConfig, routeErr := LoadRouteConfig(config.ConfigPath)
	if routeErr != nil {
		level.Warn(logger).Log("msg", "Route config unavailable, starting with empty route table", "err", routeErr)
		routeConfig = domain.RouteConfig{}
	}
	level.Info(logger).Log("msg", "Route table loaded", "routes", len(routeConfig.Routes))

	// Registry, sweeper and metrics
	timeProvider := service.NewTimeProvider(func() time.Time { return time.Now().UTC() })
	registry := service.NewRegistry(timeProvider, config.FlagDownAfter, config.EvictionThreshold)
	metrics := service.NewMetrics(prometheus.DefaultRegisterer)
	prometheus.DefaultRegisterer.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "registry_instances",
			Help: "Instance records currently held, including down-flagged ones.",
		},
		func() float64 { return float64(registry.Count()) },
	))
	sweeper := service.NewSweeper(registry, timeProvider, config.HeartbeatInterval, logger, metrics)
	defer sweeper.Stop()

	// Gateway proxy
	routeTable, err := service.NewRouteTable(routeConfig)
	if err != nil {
		level.Error(logger).Log("msg", "Invalid route config", "err", err)
		os.Exit(1)
	}
	balancer := service.NewRoundRobinBalancer()
	proxy := service.NewProxy(
		routeTable,
		registry,
		balancer,
		&http.Client{},
		logger,
		config.RetryCount,
		config.ForwardTimeout,
		metrics,
	)

	// API server (registration/query + metrics)
	apiServer := echo.New()
	apiServer.HideBanner = true
	service.RegisterErrorHandler(apiServer, logger)
	handlers.RegisterHandlers(apiServer, handlers.NewHTTPServer(registry, metrics, logger))
	apiServer.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Gateway ingress server
	gatewayServer := echo.New()
	gatewayServer.HideBanner = true
	service.RegisterErrorHandler(gatewayServer, logger)
	gatewayServer.Any("/*", proxy.Handle)

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// Start servers in goroutines
	go func() {
		addr := fmt.Sprintf(":%d", config.APIPort)
		level.Info(logger).Log("msg", "Starting API server", "addr", addr)
		if err := apiServer.Start(addr); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "API server error", "err", err)
		}
	}()
	go func() {
		addr := fmt.Sprintf(":%d", config.GatewayPort)
		level.Info(logger).Log("msg", "Starting gateway server", "addr", addr)
		if err := gatewayServer.Start(addr); err != nil && err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "Gateway server error", "err", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	level.Info(logger).Log("msg", "Shutting down servers...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := gatewayServer.Shutdown(shutdownCtx); err != nil {
		level.Error(logger).Log("msg", "Error during gateway shutdown", "err", err)
	}
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		level.Error(logger).Log("msg", "Error during API server shutdown", "err", err)
	}

	level.Info(logger).Log("msg", "Servers stopped")
}
