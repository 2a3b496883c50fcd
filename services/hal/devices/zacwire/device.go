package zacwire

import (
	"context"

	"tinygo.org/x/drivers"

	drv "zacwire-go/drivers/zacwire"
	"zacwire-go/errcode"
	"zacwire-go/services/hal/internal/core"
	"zacwire-go/types"
)

type Device struct {
	id     string
	params types.ZACwireParams
	drv    *drv.Device

	pub core.EventEmitter
	reg core.ResourceRegistry

	a      core.CapAddr
	cancel context.CancelFunc
	done   chan struct{}
}

func (d *Device) ID() string { return d.id }

func (d *Device) Capabilities() []core.CapabilitySpec {
	f, t := d.params.Filter, d.params.Timeout
	if f < 1 {
		f = 1
	}
	if t < 1 {
		t = 4
	}
	return []core.CapabilitySpec{{
		Kind:   types.KindTemperature,
		Name:   d.params.Name,
		PollMS: d.params.PollMS,
		Info: types.Info{
			SchemaVersion: 1,
			Driver:        "zacwire",
			Detail:        types.TemperatureInfo{Sensor: "tsic", Pin: d.params.Pin, Filter: f, Timeout: t},
		},
	}}
}

// Init starts the deferred decode loop and, if configured, capture.
func (d *Device) Init(ctx context.Context) error {
	d.a = core.CapAddr{Kind: types.KindTemperature, Name: d.params.Name}
	if d.params.Start {
		if err := d.drv.Start(); err != nil {
			return err
		}
	}
	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})
	go func() {
		defer close(d.done)
		_ = d.drv.Run(ctx)
	}()
	return nil
}

func (d *Device) Close() error {
	if d.cancel != nil {
		d.cancel()
		<-d.done
		d.cancel = nil
	}
	err := d.drv.Stop()
	d.reg.ReleaseCapture(d.id, d.params.Pin)
	return err
}

func (d *Device) Control(_ core.CapAddr, verb string, _ any) (core.EnqueueResult, error) {
	var err error
	switch verb {
	case "read":
		d.emitReading()
		return core.EnqueueResult{OK: true}, nil
	case "stats":
		_ = d.pub.Emit(core.Event{Addr: d.a, IsEvent: true, EventTag: "stats", Payload: statsOf(d.drv.Stats())})
		return core.EnqueueResult{OK: true}, nil
	case "start":
		err = d.drv.Start()
	case "stop":
		err = d.drv.Stop()
	case "restart":
		err = d.drv.Restart()
	default:
		return core.EnqueueResult{OK: false, Error: errcode.Unsupported}, nil
	}
	if err != nil {
		return core.EnqueueResult{OK: false, Error: errcode.Of(err)}, nil
	}
	d.emitReading()
	return core.EnqueueResult{OK: true}, nil
}

// emitReading latches the current filtered value and publishes it, or the
// reason there is none as a status error.
func (d *Device) emitReading() {
	if err := d.drv.Update(drivers.Temperature); err != nil {
		_ = d.pub.Emit(core.Event{Addr: d.a, Err: string(errcode.Of(err))})
		return
	}
	code, milliC := d.drv.Latched()
	_ = d.pub.Emit(core.Event{
		Addr: d.a,
		Payload: types.TemperatureValue{
			DeciC:      code.DeciCelsius(),
			MilliC:     milliC,
			Raw:        uint16(code),
			ErrorCount: d.drv.ErrorCount(),
		},
	})
}

func statsOf(s drv.Stats) types.ZACwireStats {
	return types.ZACwireStats{
		Frames:      s.Frames,
		Decoded:     s.Decoded,
		Failures:    s.Failures,
		Parity:      s.Parity,
		LowRange:    s.LowRange,
		HighRange:   s.HighRange,
		Overrun:     s.Overrun,
		Superseded:  s.Superseded,
		Discarded:   s.Discarded,
		Consecutive: s.Consecutive,
	}
}
