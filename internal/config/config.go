package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// Bus
	I2CBus     string
	BME280Addr uint16

	// BME280 oversampling: 1=1x, 2=2x, 3=4x, 4=8x, 5=16x.
	// Off is not allowed: the driver then reports zero for that quantity.
	BME280TempOSR     byte
	BME280PressureOSR byte
	BME280HumidityOSR byte
	// IIR filter: 0=off, 1=2, 2=4, 3=8, 4=16
	BME280IIRFilter byte

	// Timing
	PollInterval int // milliseconds

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // text, json
}

// Default returns the configuration used when no file is given:
// bus "1", address 0x76, one reading every two seconds.
func Default() *Config {
	return &Config{
		I2CBus:            "1",
		BME280Addr:        0x76,
		BME280TempOSR:     3,
		BME280PressureOSR: 3,
		BME280HumidityOSR: 3,
		BME280IIRFilter:   0,
		PollInterval:      2000,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// globalConfig is set once by InitGlobal and read through Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
// Keys missing from the file keep their Default values.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Bus
	case "I2C_BUS":
		c.I2CBus = value
	case "BME280_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid BME280_I2C_ADDR %q: %w", value, err)
		}
		c.BME280Addr = uint16(addr)

	// Oversampling / filter
	case "BME280_TEMP_OSR":
		val, err := parseRange(key, value, 1, 5)
		if err != nil {
			return err
		}
		c.BME280TempOSR = val
	case "BME280_PRESSURE_OSR":
		val, err := parseRange(key, value, 1, 5)
		if err != nil {
			return err
		}
		c.BME280PressureOSR = val
	case "BME280_HUMIDITY_OSR":
		val, err := parseRange(key, value, 1, 5)
		if err != nil {
			return err
		}
		c.BME280HumidityOSR = val
	case "BME280_IIR_FILTER":
		val, err := parseRange(key, value, 0, 4)
		if err != nil {
			return err
		}
		c.BME280IIRFilter = val

	// Timing
	case "POLL_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid POLL_INTERVAL %q: %w", value, err)
		}
		c.PollInterval = interval

	// Logging
	case "LOG_LEVEL":
		c.LogLevel = strings.ToLower(value)
	case "LOG_FORMAT":
		c.LogFormat = strings.ToLower(value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func parseRange(key, value string, lo, hi int) (byte, error) {
	val, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if val < lo || val > hi {
		return 0, fmt.Errorf("%s must be %d-%d, got %d", key, lo, hi, val)
	}
	return byte(val), nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.I2CBus == "" {
		return fmt.Errorf("I2C_BUS is required")
	}
	if c.BME280Addr == 0 {
		return fmt.Errorf("BME280_I2C_ADDR is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %d", c.PollInterval)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q (allowed: text, json)", c.LogFormat)
	}
	return nil
}

// ParseLogLevel maps a LOG_LEVEL value onto a slog level.
// An empty value means info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

// InitGlobal initializes the global configuration from file, or from
// Default when configPath is empty. Only the first call has any effect.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		if configPath == "" {
			globalConfig = Default()
			return
		}
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
