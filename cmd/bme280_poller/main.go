// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/bme280_poller/internal/app"
	"github.com/relabs-tech/bme280_poller/internal/config"
	"github.com/relabs-tech/bme280_poller/internal/env"
	"github.com/relabs-tech/bme280_poller/internal/logging"
	"github.com/relabs-tech/bme280_poller/internal/sensors"
)

const appName = "bme280-poller"

func main() {
	configPath := flag.String("config", "", "path to configuration file (defaults: bus 1, address 0x76, 2s interval)")
	useMock := flag.Bool("mock", false, "use a synthetic sensor instead of the BME280")
	flag.Parse()

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	// stdout carries readings only
	logger, err := logging.New(cfg, os.Stderr, appName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *useMock, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("fatal", "err", err)
		stop()
		os.Exit(1)
	}

	slog.Info("shutting down")
}

func run(ctx context.Context, cfg *config.Config, useMock bool, out io.Writer) error {
	interval := time.Duration(cfg.PollInterval) * time.Millisecond

	var src env.Source
	if useMock {
		slog.Info("using mock environment source")
		src = sensors.NewMockSource()
	} else {
		dev, err := sensors.OpenBME280(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := dev.Close(); err != nil {
				slog.Warn("bme280 close", "err", err)
			}
		}()
		slog.Info("bme280 ready",
			"i2c_bus", cfg.I2CBus,
			"addr", fmt.Sprintf("%#x", cfg.BME280Addr),
		)
		src = dev
	}

	slog.Info("starting poll loop", "interval", interval)
	return app.RunEnvConsole(ctx, src, out, interval)
}
