package types

// ------------------------
// Temperature
// ------------------------

type TemperatureInfo struct {
	Sensor  string `json:"sensor"` // "tsic", ...
	Pin     int    `json:"pin"`
	Filter  int    `json:"filter"`
	Timeout int    `json:"timeout"`
}

type TemperatureValue struct {
	// Tenths of °C (e.g. 231 => 23.1°C).
	DeciC int16 `json:"deci_c"`
	// Thousandths of °C, for consumers that want the full resolution.
	MilliC int32 `json:"milli_c"`
	// Filtered raw sensor code, 1..2046.
	Raw uint16 `json:"raw"`
	// Lifetime failed frames; -1 before the first good frame.
	ErrorCount int `json:"error_count"`
}

// ------------------------
// ZACwire device
// ------------------------

// ZACwireParams configures a "zacwire" HAL device.
type ZACwireParams struct {
	Name         string `json:"name"`          // capability name, REQUIRED
	Pin          int    `json:"pin"`           // sensor data pin
	PulseChannel int    `json:"pulse_channel"` // capture channel for pulse timing
	StopChannel  int    `json:"stop_channel"`  // capture channel for end of frame
	Start        bool   `json:"start"`
	Filter       int    `json:"filter,omitempty"`  // median window, default 1
	Timeout      int    `json:"timeout,omitempty"` // consecutive failure limit, default 4
	ResetOnStart bool   `json:"reset_on_start,omitempty"`
	PollMS       int    `json:"poll_ms,omitempty"` // publish period, default 125
}

type ZACwireStats struct {
	Frames      uint32 `json:"frames"`
	Decoded     uint32 `json:"decoded"`
	Failures    uint32 `json:"failures"`
	Parity      uint32 `json:"parity"`
	LowRange    uint32 `json:"low_range"`
	HighRange   uint32 `json:"high_range"`
	Overrun     uint32 `json:"overrun"`
	Superseded  uint32 `json:"superseded"`
	Discarded   uint32 `json:"discarded"`
	Consecutive int    `json:"consecutive"`
}
