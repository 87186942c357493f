package env

import "fmt"

// Reading is one snapshot of the three BME280 quantities.
type Reading struct {
	Temperature float64 `json:"temp_c"`       // °C
	Pressure    float64 `json:"pressure_hpa"` // hPa
	Humidity    float64 `json:"humidity_pct"` // %RH
}

// Source is anything that can be queried for the current environment.
// The three queries are independent; callers get no snapshot guarantee.
type Source interface {
	Temperature() (float64, error)
	Pressure() (float64, error)
	Humidity() (float64, error)
}

// Read queries src for temperature, pressure and humidity, in that order,
// and stops at the first failure.
func Read(src Source) (Reading, error) {
	var r Reading
	var err error

	if r.Temperature, err = src.Temperature(); err != nil {
		return Reading{}, fmt.Errorf("read temperature: %w", err)
	}
	if r.Pressure, err = src.Pressure(); err != nil {
		return Reading{}, fmt.Errorf("read pressure: %w", err)
	}
	if r.Humidity, err = src.Humidity(); err != nil {
		return Reading{}, fmt.Errorf("read humidity: %w", err)
	}
	return r, nil
}

// DeviceFault is returned for any failure talking to the sensor:
// opening the bus, constructing the device or querying it.
type DeviceFault struct {
	Op  string
	Err error
}

func (e *DeviceFault) Error() string {
	return fmt.Sprintf("device fault: %s: %v", e.Op, e.Err)
}

func (e *DeviceFault) Unwrap() error { return e.Err }
