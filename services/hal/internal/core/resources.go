package core

// ---- Pulse capture ----

// CaptureSource is the pulse-width capture pair on one pin. pulse receives
// the width of every low pulse and stop fires at end of frame; both run in
// interrupt context on hardware.
type CaptureSource interface {
	Configure(pin, pulseCh, stopCh int, pulse func(width uint32), stop func()) error
	Enable() error
	Disable() error
}

// ---- Unified registry interface ----

type ResourceRegistry interface {
	// ClaimCapture hands out the capture source for pin. A pin owned by
	// another device fails with errcode.PinInUse.
	ClaimCapture(devID string, pin, pulseCh, stopCh int) (CaptureSource, error)
	ReleaseCapture(devID string, pin int)
}
