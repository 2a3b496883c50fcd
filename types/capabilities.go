package types

type Kind string

const KindTemperature Kind = "temperature"

// CapabilityAddress identifies a public capability on the bus.
type CapabilityAddress struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}
