package env

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Line labels, in emission order.
const (
	LabelTemperature = "Temp"
	LabelPressure    = "Pressure"
	LabelHumidity    = "Humidity"
)

// LinesPerReading is the number of output lines one Reading produces.
const LinesPerReading = 3

// FormatReading renders r as three newline-terminated lines.
// Values use a total field width of 5 with two fractional digits;
// wider values are printed in full.
func FormatReading(r Reading) string {
	return fmt.Sprintf("%s:%05.2f\n%s:%05.2f\n%s:%05.2f\n",
		LabelTemperature, r.Temperature,
		LabelPressure, r.Pressure,
		LabelHumidity, r.Humidity,
	)
}

// WriteReading writes the three lines of r to w with a single Write call.
func WriteReading(w io.Writer, r Reading) error {
	_, err := io.WriteString(w, FormatReading(r))
	return err
}

// ErrUnknownLine is returned by ParseLine for a line that carries none of
// the reading labels, such as a startup banner.
var ErrUnknownLine = errors.New("not a reading line")

// ParseLine splits a "Label:value" line into its label and numeric value.
func ParseLine(line string) (string, float64, error) {
	line = strings.TrimRight(line, "\r\n")
	label, raw, ok := strings.Cut(line, ":")
	if !ok {
		return "", 0, fmt.Errorf("%w: missing ':' in %q", ErrUnknownLine, line)
	}
	switch label {
	case LabelTemperature, LabelPressure, LabelHumidity:
	default:
		return "", 0, fmt.Errorf("%w: unknown label %q", ErrUnknownLine, label)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid %s value %q: %w", label, raw, err)
	}
	return label, v, nil
}

// ErrIncomplete is returned by Decoder.Next when the stream ends partway
// through a reading.
var ErrIncomplete = errors.New("incomplete reading")

// Decoder reassembles Readings from the line stream produced by WriteReading.
// Lines without a reading label are skipped.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{scanner: bufio.NewScanner(r)}
}

// Next returns the next complete Reading. It returns io.EOF at a clean end
// of stream and ErrIncomplete if the stream stops mid-reading.
func (d *Decoder) Next() (Reading, error) {
	var r Reading
	want := []string{LabelTemperature, LabelPressure, LabelHumidity}

	for i := 0; i < len(want); {
		label := want[i]
		if !d.scanner.Scan() {
			if err := d.scanner.Err(); err != nil {
				return Reading{}, err
			}
			if i == 0 {
				return Reading{}, io.EOF
			}
			return Reading{}, ErrIncomplete
		}
		d.line++

		got, v, err := ParseLine(d.scanner.Text())
		if errors.Is(err, ErrUnknownLine) {
			continue
		}
		if err != nil {
			return Reading{}, fmt.Errorf("line %d: %w", d.line, err)
		}
		if got != label {
			return Reading{}, fmt.Errorf("line %d: got label %q, want %q", d.line, got, label)
		}

		switch label {
		case LabelTemperature:
			r.Temperature = v
		case LabelPressure:
			r.Pressure = v
		case LabelHumidity:
			r.Humidity = v
		}
		i++
	}
	return r, nil
}
