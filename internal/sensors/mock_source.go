// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package sensors

import (
	"math"
	"time"

	"github.com/relabs-tech/bme280_poller/internal/env"
)

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a mock environment source that generates smooth
// changing values around typical indoor conditions.
func NewMockSource() env.Source {
	return &mockSource{start: time.Now(), now: time.Now}
}

func (m *mockSource) elapsed() float64 {
	return m.now().Sub(m.start).Seconds()
}

func (m *mockSource) Temperature() (float64, error) {
	return 21 + 2*math.Sin(m.elapsed()/60), nil
}

func (m *mockSource) Pressure() (float64, error) {
	return 1013.25 + 3*math.Cos(m.elapsed()/300), nil
}

func (m *mockSource) Humidity() (float64, error) {
	return 45 + 10*math.Sin(m.elapsed()/120), nil
}
