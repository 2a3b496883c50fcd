package provider

import (
	"zacwire-go/drivers/zacwire/zwsim"
	"zacwire-go/services/hal/internal/core"
)

var _ core.ResourceRegistry = (*SimRegistry)(nil)

// SimRegistry hands out software capture sources. Tests and the simulator
// drive the sensor line through Source.
type SimRegistry struct {
	caps captureTable
}

func NewSimRegistry() *SimRegistry {
	return &SimRegistry{caps: newCaptureTable(0)}
}

func (r *SimRegistry) ClaimCapture(devID string, pin, _, _ int) (core.CaptureSource, error) {
	return r.caps.claim(devID, pin, func() core.CaptureSource { return zwsim.New() })
}

func (r *SimRegistry) ReleaseCapture(devID string, pin int) {
	if s := r.caps.release(devID, pin); s != nil {
		_ = s.Disable()
	}
}

// Source returns the simulated line on pin, or nil when no device holds it.
func (r *SimRegistry) Source(pin int) *zwsim.Source {
	s, _ := r.caps.lookup(pin)
	zs, _ := s.(*zwsim.Source)
	return zs
}

// Owner is the device holding pin, or "".
func (r *SimRegistry) Owner(pin int) string {
	_, id := r.caps.lookup(pin)
	return id
}
