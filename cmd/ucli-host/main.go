// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/ucli-foundation/ucli/lib/config"
	"github.com/ucli-foundation/ucli/lib/discovery"
	"github.com/ucli-foundation/ucli/lib/metrics"
	"github.com/ucli-foundation/ucli/lib/process"
	"github.com/ucli-foundation/ucli/lib/server"
	"github.com/ucli-foundation/ucli/lib/version"
)

// reloadDelay is how long the simulated assembly reload keeps the
// adapter detached.
const reloadDelay = 500 * time.Millisecond

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := pflag.NewFlagSet("ucli-host", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to the host config file (default: $"+config.EnvironmentVariable+")")
	showVersion := flagSet.Bool("version", false, "print version information and exit")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Printf("ucli-host %s\n", version.Full())
		return nil
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger(cfg.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverMetrics := metrics.NewServer()
	if cfg.Metrics.ListenAddress != "" {
		registry := prometheus.NewRegistry()
		if err := serverMetrics.Register(registry); err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		shutdown, err := serveMetrics(cfg.Metrics.ListenAddress, registry, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	options := server.HostOptions{Logger: logger, Metrics: serverMetrics}
	if cfg.Advertise.Enabled {
		options.Advertiser = discovery.NewAdvertiser(logger)
	}
	host := server.NewHost(options)

	serverConfig := cfg.ServerConfig()
	app := &application{
		host:        host,
		config:      serverConfig,
		logger:      logger,
		reloadDelay: reloadDelay,
	}
	if err := host.Start(serverConfig, app); err != nil {
		return err
	}
	logger.Info("ucli-host ready",
		"address", host.Addr().String(),
		"session", host.InstanceName(),
		"version", version.Info(),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case <-host.Done():
		return errors.New("server stopped unexpectedly")
	}

	app.shutdown()
	done := host.Done()
	host.Stop()
	<-done
	app.wait()
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newLogger returns the process logger: JSON on stderr.
func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// serveMetrics exposes /metrics on address until the returned shutdown
// function is called.
func serveMetrics(address string, gatherer prometheus.Gatherer, logger *slog.Logger) (func(), error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listening for metrics on %s: %w", address, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(gatherer))
	httpServer := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "address", listener.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Warn("shutting down metrics server", "error", err)
		}
	}, nil
}
