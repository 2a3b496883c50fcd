// Package zacwire decodes the ZACwire single-wire protocol of TSic-class
// temperature sensors.
//
// The sensor repeats a transmission of 20 low pulses. A capture Source
// measures each low pulse and calls back in interrupt context; Capture and
// Handoff move complete frames out of the interrupt path without locks or
// allocation. Decoding runs later in task context:
//
//	d, _ := zacwire.New(src, zacwire.Config{Pin: 16, Start: true, Filter: 5})
//	go d.Run(ctx)           // deferred decode loop
//	t, err := d.Temperature()
//
// Isolated bad frames are counted and otherwise invisible; Temperature keeps
// returning the last filtered value. Timeout consecutive failures latch a hard
// fault that only Restart (or Start with ResetOnStart) clears.
package zacwire

import (
	"context"
	"sync"
	"sync/atomic"

	"tinygo.org/x/drivers"

	"zacwire-go/errcode"
)

// Source is a pulse-width capture channel pair bound to one pin. The pulse
// channel reports the width of every low pulse; the stop channel fires on a
// long high level marking the end of a transmission. Widths must grow with
// the pulse length whatever the hardware counts.
type Source interface {
	Configure(pin, pulseCh, stopCh int, pulse func(width uint32), stop func()) error
	Enable() error
	Disable() error
}

// Config controls the decoder. Zero values select the defaults noted.
type Config struct {
	Pin          int
	PulseChannel int
	StopChannel  int
	// Start enables capture from New.
	Start bool
	// Filter is the median window size. Default 1 (no smoothing).
	Filter int
	// Timeout is the consecutive failure limit. Default 4.
	Timeout int
	// Layout defaults to DefaultLayout.
	Layout *Layout
	// ResetOnStart clears the filter window and fault state on every Start.
	ResetOnStart bool
}

// Stats is a snapshot of decoder counters.
type Stats struct {
	Frames      uint32 // snapshots consumed by the decode task
	Decoded     uint32 // frames that produced a valid code
	Failures    uint32 // lifetime failed frames
	Parity      uint32
	LowRange    uint32
	HighRange   uint32
	Overrun     uint32
	Superseded  uint32 // frames replaced before decode
	Discarded   uint32 // frames dropped while faulted
	Consecutive int
}

// Device is a ZACwire sensor on one pin.
type Device struct {
	src    Source
	cfg    Config
	layout Layout

	capture *Capture
	hand    *Handoff
	running atomic.Bool

	// decode-side state; never touched in interrupt context
	mu        sync.Mutex
	window    *Median
	esc       *Escalation
	seen      bool
	frames    uint32
	decoded   uint32
	discarded uint32

	// latched by Update
	code   RawCode
	milliC int32
}

// New binds the decoder to src. Capture starts immediately when cfg.Start.
func New(src Source, cfg Config) (*Device, error) {
	if cfg.Filter < 1 {
		cfg.Filter = 1
	}
	if cfg.Timeout < 1 {
		cfg.Timeout = 4
	}
	l := DefaultLayout
	if cfg.Layout != nil {
		l = *cfg.Layout
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	d := &Device{
		src:    src,
		cfg:    cfg,
		layout: l,
		hand:   NewHandoff(),
		window: NewMedian(cfg.Filter),
		esc:    NewEscalation(cfg.Timeout),
	}
	d.capture = NewCapture(l.Samples, d.hand)
	if err := src.Configure(cfg.Pin, cfg.PulseChannel, cfg.StopChannel, d.capture.OnPulse, d.capture.OnStop); err != nil {
		return nil, &errcode.E{C: errcode.Of(err), Op: "zacwire.configure", Err: err}
	}
	if cfg.Start {
		if err := d.Start(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Start enables capture. Calling it while running is a no-op.
func (d *Device) Start() error {
	if d.running.Load() {
		return nil
	}
	if d.cfg.ResetOnStart {
		d.mu.Lock()
		d.window.Reset()
		d.esc.Clear()
		d.mu.Unlock()
	}
	d.capture.Reset()
	if err := d.src.Enable(); err != nil {
		return &errcode.E{C: errcode.Of(err), Op: "zacwire.start", Err: err}
	}
	d.running.Store(true)
	return nil
}

// Stop disables capture. A decode already pending still runs, but readings
// report NotRunning until the next Start.
func (d *Device) Stop() error {
	if !d.running.Swap(false) {
		return nil
	}
	if err := d.src.Disable(); err != nil {
		return &errcode.E{C: errcode.Of(err), Op: "zacwire.stop", Err: err}
	}
	return nil
}

// Restart stops capture, clears a latched fault and starts again.
func (d *Device) Restart() error {
	if err := d.Stop(); err != nil {
		return err
	}
	d.mu.Lock()
	d.esc.Clear()
	if d.cfg.ResetOnStart {
		d.window.Reset()
	}
	d.mu.Unlock()
	return d.Start()
}

// Running reports whether capture is enabled.
func (d *Device) Running() bool { return d.running.Load() }

// Process decodes the pending frame, if any. It reports whether a frame was
// consumed and returns the hard fault on the frame that latched it.
func (d *Device) Process() (bool, error) {
	f, ok := d.hand.Take()
	if !ok {
		return false, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames++
	if d.esc.Fault() != errcode.OK {
		d.discarded++
		return true, nil
	}
	code, err := Decode(f, &d.layout)
	if err != nil {
		if d.esc.Fail(errcode.Of(err)) {
			return true, &errcode.E{C: d.esc.Fault(), Op: "zacwire.decode", Err: err}
		}
		return true, nil
	}
	d.esc.Succeed()
	d.window.Push(code)
	d.decoded++
	d.seen = true
	return true, nil
}

// Run is the deferred decode loop. It returns when ctx is cancelled.
func (d *Device) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.hand.Wake():
			if _, err := d.Process(); err != nil {
				println("[zacwire] fault:", err.Error())
			}
		}
	}
}

// Temperature returns the filtered temperature in °C.
func (d *Device) Temperature() (float32, error) {
	c, err := d.filtered()
	if err != nil {
		return 0, err
	}
	return c.Celsius(), nil
}

// ReadTemperature returns the filtered temperature in milli-°C.
func (d *Device) ReadTemperature() (int32, error) {
	c, err := d.filtered()
	if err != nil {
		return 0, err
	}
	return c.MilliCelsius(), nil
}

// Code returns the filtered raw code.
func (d *Device) Code() (RawCode, error) { return d.filtered() }

func (d *Device) filtered() (RawCode, error) {
	if !d.running.Load() {
		return 0, errcode.NotRunning
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if k := d.esc.Fault(); k != errcode.OK {
		return 0, &errcode.E{C: k, Op: "zacwire.read"}
	}
	c, ok := d.window.Median()
	if !ok {
		return 0, errcode.NoReading
	}
	return c, nil
}

// Update implements drivers.Sensor: it latches the filtered code for
// MilliCelsius and Latched. A failed Update leaves the previous values.
func (d *Device) Update(which drivers.Measurement) error {
	if which&drivers.Temperature == 0 {
		return nil
	}
	c, err := d.filtered()
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.code = c
	d.milliC = c.MilliCelsius()
	d.mu.Unlock()
	return nil
}

// MilliCelsius is the temperature latched by the last successful Update.
func (d *Device) MilliCelsius() int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.milliC
}

// Latched returns the code and milli-°C of the last successful Update as one
// pair.
func (d *Device) Latched() (RawCode, int32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.code, d.milliC
}

// ErrorCount is the lifetime failure count, or -1 until the first frame has
// decoded successfully.
func (d *Device) ErrorCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.seen {
		return -1
	}
	return int(d.esc.Failures())
}

// Fault returns the latched fault kind, or errcode.OK.
func (d *Device) Fault() errcode.Code {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.esc.Fault()
}

// Stats returns a snapshot of the decoder counters.
func (d *Device) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Stats{
		Frames:      d.frames,
		Decoded:     d.decoded,
		Failures:    d.esc.failures,
		Parity:      d.esc.parity,
		LowRange:    d.esc.low,
		HighRange:   d.esc.high,
		Overrun:     d.esc.overrun,
		Superseded:  d.hand.Superseded(),
		Discarded:   d.discarded,
		Consecutive: d.esc.consecutive,
	}
}

// Capture exposes the capture stage, mainly for tests and diagnostics.
func (d *Device) Capture() *Capture { return d.capture }

var _ drivers.Sensor = (*Device)(nil)
