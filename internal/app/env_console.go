// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/relabs-tech/bme280_poller/internal/env"
)

// PollOnce reads one Reading from src and writes its three lines to out.
// Nothing is written unless all three queries succeed.
func PollOnce(src env.Source, out io.Writer) (env.Reading, error) {
	r, err := env.Read(src)
	if err != nil {
		return env.Reading{}, err
	}
	if err := env.WriteReading(out, r); err != nil {
		return env.Reading{}, fmt.Errorf("write reading: %w", err)
	}
	return r, nil
}

// RunEnvConsole polls src once immediately and then once per interval,
// printing every reading to out. It returns the first device or write error,
// or ctx.Err() once ctx is cancelled.
func RunEnvConsole(ctx context.Context, src env.Source, out io.Writer, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", interval)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	seq := 0
	poll := func() error {
		r, err := PollOnce(src, out)
		if err != nil {
			return err
		}
		seq++
		slog.Debug("reading emitted",
			"seq", seq,
			"temp_c", r.Temperature,
			"pressure_hpa", r.Pressure,
			"humidity_pct", r.Humidity,
		)
		return nil
	}

	if err := poll(); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// a tick and cancellation can be ready together
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := poll(); err != nil {
				return err
			}
		}
	}
}
