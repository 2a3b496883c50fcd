//go:build rp2040 || rp2350

package provider

import (
	"zacwire-go/drivers/zacwire/zwrp2"
	"zacwire-go/services/hal/internal/core"
)

// Ensure the provider satisfies the contracts at compile time.
var _ core.ResourceRegistry = (*rp2Registry)(nil)

// GPIO0..GPIO29 on the Pico family.
const rp2MaxPin = 29

type rp2Registry struct {
	caps captureTable
}

func newRP2Registry() *rp2Registry {
	return &rp2Registry{caps: newCaptureTable(rp2MaxPin)}
}

func (r *rp2Registry) ClaimCapture(devID string, pin, _, _ int) (core.CaptureSource, error) {
	return r.caps.claim(devID, pin, func() core.CaptureSource { return zwrp2.New(0) })
}

func (r *rp2Registry) ReleaseCapture(devID string, pin int) {
	if s := r.caps.release(devID, pin); s != nil {
		_ = s.Disable()
	}
}
