// Package monitor reads the firmware's telemetry lines on the host: it
// parses them, watches them for alarms and loads its settings from YAML.
package monitor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"zacwire-go/errcode"
)

// Reading is one parsed telemetry line.
type Reading struct {
	Timestamp time.Time
	Celsius   float64
	// ErrorCount is the sensor's lifetime failed frames, -1 before the first
	// good frame.
	ErrorCount int
	// Err is set for ERR lines; Celsius is then meaningless.
	Err errcode.Code
}

// OK reports whether the line carried a temperature.
func (r Reading) OK() bool { return r.Err == "" }

// ParseLine parses one line without its newline.
// Formats: "<celsius>,<errorcount>" or "ERR,<code>,<errorcount>".
// Example: 27.62,0
func ParseLine(line string) (Reading, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	switch {
	case len(parts) == 3 && parts[0] == "ERR":
		if parts[1] == "" {
			return Reading{}, fmt.Errorf("invalid line %q: empty error code", line)
		}
		n, err := parseCount(parts[2])
		if err != nil {
			return Reading{}, err
		}
		return Reading{Err: errcode.Code(parts[1]), ErrorCount: n}, nil
	case len(parts) == 2:
		c, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return Reading{}, fmt.Errorf("invalid temperature: %w", err)
		}
		n, err := parseCount(parts[1])
		if err != nil {
			return Reading{}, err
		}
		return Reading{Celsius: c, ErrorCount: n}, nil
	default:
		return Reading{}, fmt.Errorf("invalid line format %q: expected 2 or 3 comma-separated values, got %d", line, len(parts))
	}
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid error count: %w", err)
	}
	if n < -1 {
		return 0, fmt.Errorf("error count out of range: %d", n)
	}
	return n, nil
}
