package zacwire

import (
	"context"

	drv "zacwire-go/drivers/zacwire"
	"zacwire-go/errcode"
	"zacwire-go/services/hal/internal/core"
	"zacwire-go/types"
)

func init() { core.RegisterBuilder("zacwire", builder{}) }

// DefaultPollMS matches the sensor's own repetition rate closely enough that
// every poll sees a fresh frame.
const DefaultPollMS = 125

type builder struct{}

func (builder) Build(ctx context.Context, in core.BuilderInput) (core.Device, error) {
	p, c := core.As[types.ZACwireParams](in.Params)
	if c != errcode.OK || p.Name == "" || p.Pin < 0 {
		return nil, errcode.InvalidParams
	}
	if p.Filter < 0 || p.Timeout < 0 || p.PollMS < 0 {
		return nil, errcode.InvalidParams
	}
	if p.PollMS == 0 {
		p.PollMS = DefaultPollMS
	}

	src, err := in.Res.Reg.ClaimCapture(in.ID, p.Pin, p.PulseChannel, p.StopChannel)
	if err != nil {
		return nil, err
	}
	// Start is deferred to Init so a failed build never leaves capture on.
	d, err := drv.New(src, drv.Config{
		Pin:          p.Pin,
		PulseChannel: p.PulseChannel,
		StopChannel:  p.StopChannel,
		Filter:       p.Filter,
		Timeout:      p.Timeout,
		ResetOnStart: p.ResetOnStart,
	})
	if err != nil {
		in.Res.Reg.ReleaseCapture(in.ID, p.Pin)
		return nil, err
	}
	return &Device{
		id:     in.ID,
		params: p,
		drv:    d,
		pub:    in.Res.Pub,
		reg:    in.Res.Reg,
	}, nil
}
