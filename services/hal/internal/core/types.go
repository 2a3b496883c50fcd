package core

import (
	"context"

	"zacwire-go/errcode"
	"zacwire-go/types"
)

// ---- Capability & device model ----

type CapAddr struct {
	Kind types.Kind
	Name string
}

type CapabilitySpec struct {
	Kind types.Kind
	Name string // defaults to the device id
	Info types.Info
	// PollMS schedules a periodic "read" control; 0 disables polling.
	PollMS int
}

// EnqueueResult is the immediate answer to a control. OK means the request
// was accepted; any value it produces arrives later as an Event.
type EnqueueResult struct {
	OK    bool
	Error errcode.Code
}

type Device interface {
	ID() string
	Capabilities() []CapabilitySpec
	Init(ctx context.Context) error
	Control(addr CapAddr, verb string, payload any) (EnqueueResult, error)
	Close() error // release claimed resources
}

// ---- Device → HAL telemetry (single shape) ----
// By default an Event is a value update that HAL publishes retained to
// .../value. IsEvent sends it non-retained to .../event/<tag> instead. A
// non-empty Err publishes only .../status.

type Event struct {
	Addr     CapAddr
	Payload  any
	TSms     int64
	Err      string
	IsEvent  bool
	EventTag string
}

type EventEmitter interface {
	// Emit must not block; false means the event was dropped.
	Emit(ev Event) bool
}

// ---- HAL-injected resources ----

type Resources struct {
	Reg ResourceRegistry
	Pub EventEmitter
}

// Builder input
type BuilderInput struct {
	ID, Type string
	Params   any
	Res      Resources
}

type Builder interface {
	Build(ctx context.Context, in BuilderInput) (Device, error)
}
