package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bme280_config.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.I2CBus != "1" {
		t.Errorf("I2CBus = %q, want %q", cfg.I2CBus, "1")
	}
	if cfg.BME280Addr != 0x76 {
		t.Errorf("BME280Addr = %#x, want %#x", cfg.BME280Addr, 0x76)
	}
	if cfg.PollInterval != 2000 {
		t.Errorf("PollInterval = %d, want %d", cfg.PollInterval, 2000)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("Default().validate() = %v, want nil", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
# sensor on the second bus
I2C_BUS = 2
BME280_I2C_ADDR=0x77
BME280_TEMP_OSR=1
BME280_PRESSURE_OSR=5
BME280_IIR_FILTER=4
POLL_INTERVAL=500
LOG_LEVEL=DEBUG
LOG_FORMAT=json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.I2CBus != "2" {
		t.Errorf("I2CBus = %q, want %q", cfg.I2CBus, "2")
	}
	if cfg.BME280Addr != 0x77 {
		t.Errorf("BME280Addr = %#x, want %#x", cfg.BME280Addr, 0x77)
	}
	if cfg.BME280TempOSR != 1 || cfg.BME280PressureOSR != 5 {
		t.Errorf("OSR = %d/%d, want 1/5", cfg.BME280TempOSR, cfg.BME280PressureOSR)
	}
	if cfg.BME280HumidityOSR != 3 {
		t.Errorf("BME280HumidityOSR = %d, want default 3", cfg.BME280HumidityOSR)
	}
	if cfg.BME280IIRFilter != 4 {
		t.Errorf("BME280IIRFilter = %d, want 4", cfg.BME280IIRFilter)
	}
	if cfg.PollInterval != 500 {
		t.Errorf("PollInterval = %d, want 500", cfg.PollInterval)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("log = %q/%q, want debug/json", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "missing equals", body: "I2C_BUS\n", wantErr: "invalid config line 1"},
		{name: "unknown key", body: "FOO=bar\n", wantErr: "unknown config key"},
		{name: "bad address", body: "BME280_I2C_ADDR=zz\n", wantErr: "invalid BME280_I2C_ADDR"},
		{name: "osr out of range", body: "BME280_HUMIDITY_OSR=6\n", wantErr: "BME280_HUMIDITY_OSR must be 1-5"},
		{name: "temperature osr off", body: "BME280_TEMP_OSR=0\n", wantErr: "config line 1: BME280_TEMP_OSR must be 1-5, got 0"},
		{name: "pressure osr off", body: "BME280_PRESSURE_OSR=0\n", wantErr: "config line 1: BME280_PRESSURE_OSR must be 1-5, got 0"},
		{name: "humidity osr off", body: "# comment\nBME280_HUMIDITY_OSR=0\n", wantErr: "config line 2: BME280_HUMIDITY_OSR must be 1-5, got 0"},
		{name: "filter out of range", body: "BME280_IIR_FILTER=5\n", wantErr: "BME280_IIR_FILTER must be 0-4"},
		{name: "zero interval", body: "POLL_INTERVAL=0\n", wantErr: "POLL_INTERVAL must be positive"},
		{name: "bad interval", body: "POLL_INTERVAL=2s\n", wantErr: "invalid POLL_INTERVAL"},
		{name: "bad level", body: "LOG_LEVEL=loud\n", wantErr: "invalid LOG_LEVEL"},
		{name: "bad format", body: "LOG_FORMAT=xml\n", wantErr: "invalid LOG_FORMAT"},
		{name: "empty bus", body: "I2C_BUS=\n", wantErr: "I2C_BUS is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("Load() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("Load() error = nil, want error for missing file")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: " INFO ", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if err != nil {
			t.Fatalf("ParseLogLevel(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("ParseLogLevel(verbose) error = nil, want error")
	}
}
