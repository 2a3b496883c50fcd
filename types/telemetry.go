package types

// TelemetryConfig is the retained config/telemetry document.
type TelemetryConfig struct {
	// Decimate writes one line per N readings; 0 or 1 writes every reading.
	Decimate int `json:"decimate,omitempty"`
}
