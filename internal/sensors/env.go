package sensors

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/relabs-tech/bme280_poller/internal/config"
	"github.com/relabs-tech/bme280_poller/internal/env"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// senseHalter is the part of *bmxx80.Dev the poller needs.
type senseHalter interface {
	Sense(e *physic.Env) error
	Halt() error
}

// BME280 owns an open I²C bus and the BME280 bound to it.
// It implements env.Source; every query performs its own measurement.
type BME280 struct {
	bus io.Closer
	dev senseHalter

	closeOnce sync.Once
	closeErr  error
}

var _ env.Source = (*BME280)(nil)

// OpenBME280 initializes periph, opens cfg.I2CBus and constructs the device
// at cfg.BME280Addr. All failures are returned as *env.DeviceFault.
func OpenBME280(cfg *config.Config) (*BME280, error) {
	if _, err := host.Init(); err != nil {
		return nil, &env.DeviceFault{Op: "periph host init", Err: err}
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, &env.DeviceFault{Op: fmt.Sprintf("open i2c bus %q", cfg.I2CBus), Err: err}
	}

	opts := Opts(cfg)
	dev, err := bmxx80.NewI2C(bus, cfg.BME280Addr, &opts)
	if err != nil {
		bus.Close()
		return nil, &env.DeviceFault{Op: fmt.Sprintf("bme280 init at %#x", cfg.BME280Addr), Err: err}
	}

	return &BME280{bus: bus, dev: dev}, nil
}

// Opts maps the oversampling and filter settings of cfg onto bmxx80 options.
func Opts(cfg *config.Config) bmxx80.Opts {
	return bmxx80.Opts{
		Temperature: oversampling(cfg.BME280TempOSR),
		Pressure:    oversampling(cfg.BME280PressureOSR),
		Humidity:    oversampling(cfg.BME280HumidityOSR),
		Filter:      filter(cfg.BME280IIRFilter),
	}
}

func oversampling(v byte) bmxx80.Oversampling {
	switch v {
	case 1:
		return bmxx80.O1x
	case 2:
		return bmxx80.O2x
	case 4:
		return bmxx80.O8x
	case 5:
		return bmxx80.O16x
	default:
		return bmxx80.O4x
	}
}

func filter(v byte) bmxx80.Filter {
	switch v {
	case 1:
		return bmxx80.F2
	case 2:
		return bmxx80.F4
	case 3:
		return bmxx80.F8
	case 4:
		return bmxx80.F16
	default:
		return bmxx80.NoFilter
	}
}

func (b *BME280) sense(what string) (physic.Env, error) {
	var e physic.Env
	if err := b.dev.Sense(&e); err != nil {
		return physic.Env{}, &env.DeviceFault{Op: "bme280 sense " + what, Err: err}
	}
	return e, nil
}

// Temperature returns the current temperature in °C.
func (b *BME280) Temperature() (float64, error) {
	e, err := b.sense("temperature")
	if err != nil {
		return 0, err
	}
	return e.Temperature.Celsius(), nil
}

// Pressure returns the current pressure in hPa.
func (b *BME280) Pressure() (float64, error) {
	e, err := b.sense("pressure")
	if err != nil {
		return 0, err
	}
	return PressureHPa(e.Pressure), nil
}

// Humidity returns the current relative humidity in %RH.
func (b *BME280) Humidity() (float64, error) {
	e, err := b.sense("humidity")
	if err != nil {
		return 0, err
	}
	return HumidityPercent(e.Humidity), nil
}

// Close halts the device and releases the bus. Safe to call more than once.
func (b *BME280) Close() error {
	b.closeOnce.Do(func() {
		var errs []error
		if err := b.dev.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("bme280 halt: %w", err))
		}
		if err := b.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("i2c bus close: %w", err))
		}
		b.closeErr = errors.Join(errs...)
	})
	return b.closeErr
}

// PressureHPa converts periph's nano-Pascal pressure to hPa.
func PressureHPa(p physic.Pressure) float64 {
	return float64(p) / float64(100*physic.Pascal) // 1 hPa = 100 Pa
}

// HumidityPercent converts periph's fixed point humidity to %RH.
func HumidityPercent(h physic.RelativeHumidity) float64 {
	return float64(h) / float64(physic.PercentRH)
}
