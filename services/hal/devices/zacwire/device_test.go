package zacwire

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zacwire-go/drivers/zacwire/zwsim"
	"zacwire-go/errcode"
	"zacwire-go/services/hal/internal/core"
	"zacwire-go/services/hal/internal/provider"
	"zacwire-go/types"
)

type recorder struct {
	mu  sync.Mutex
	evs []core.Event
}

func (r *recorder) Emit(ev core.Event) bool {
	r.mu.Lock()
	r.evs = append(r.evs, ev)
	r.mu.Unlock()
	return true
}

func (r *recorder) last() (core.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.evs) == 0 {
		return core.Event{}, false
	}
	return r.evs[len(r.evs)-1], true
}

func build(t *testing.T, p any) (*Device, *provider.SimRegistry, *recorder, error) {
	t.Helper()
	reg := provider.NewSimRegistry()
	rec := &recorder{}
	d, err := builder{}.Build(context.Background(), core.BuilderInput{
		ID: "tsic0", Type: "zacwire", Params: p,
		Res: core.Resources{Reg: reg, Pub: rec},
	})
	if err != nil {
		return nil, reg, rec, err
	}
	return d.(*Device), reg, rec, nil
}

func TestBuild_Validation(t *testing.T) {
	for _, p := range []any{
		nil,
		"nope",
		types.ZACwireParams{},
		types.ZACwireParams{Name: "x", Pin: -1},
		types.ZACwireParams{Name: "x", Filter: -1},
		types.ZACwireParams{Name: "x", Timeout: -2},
		types.ZACwireParams{Name: "x", PollMS: -5},
	} {
		_, reg, _, err := build(t, p)
		assert.ErrorIs(t, err, errcode.InvalidParams, "params %#v", p)
		assert.Empty(t, reg.Owner(0))
	}
}

func TestBuild_DefaultsPoll(t *testing.T) {
	d, _, _, err := build(t, types.ZACwireParams{Name: "probe", Pin: 4})
	require.NoError(t, err)
	caps := d.Capabilities()
	require.Len(t, caps, 1)
	assert.Equal(t, DefaultPollMS, caps[0].PollMS)
	assert.Equal(t, types.KindTemperature, caps[0].Kind)
	assert.Equal(t, "probe", caps[0].Name)
}

func TestDevice_ReadEmitsValue(t *testing.T) {
	d, reg, rec, err := build(t, types.ZACwireParams{Name: "probe", Pin: 4, Start: true})
	require.NoError(t, err)
	require.NoError(t, d.Init(context.Background()))
	defer d.Close()

	res, err := d.Control(d.a, "read", nil)
	require.NoError(t, err)
	assert.True(t, res.OK)
	ev, ok := rec.last()
	require.True(t, ok)
	assert.Equal(t, string(errcode.NoReading), ev.Err)

	reg.Source(4).Transmit(zwsim.Encode(1023, zwsim.DefaultTiming))
	require.Eventually(t, func() bool {
		_, _ = d.Control(d.a, "read", nil)
		ev, _ := rec.last()
		return ev.Err == ""
	}, time.Second, 5*time.Millisecond)

	ev, _ = rec.last()
	v := ev.Payload.(types.TemperatureValue)
	assert.Equal(t, uint16(1023), v.Raw)
	assert.Equal(t, 0, v.ErrorCount)
	assert.Equal(t, d.a, ev.Addr)

	// the published value is the one Update latched on the driver
	code, mc := d.drv.Latched()
	assert.Equal(t, d.drv.MilliCelsius(), v.MilliC)
	assert.Equal(t, mc, v.MilliC)
	assert.Equal(t, uint16(code), v.Raw)
	assert.Equal(t, code.DeciCelsius(), v.DeciC)
}

func TestDevice_ControlVerbs(t *testing.T) {
	d, reg, rec, err := build(t, types.ZACwireParams{Name: "probe", Pin: 4})
	require.NoError(t, err)
	require.NoError(t, d.Init(context.Background()))

	res, _ := d.Control(d.a, "start", nil)
	assert.True(t, res.OK)
	assert.True(t, reg.Source(4).Enabled())

	res, _ = d.Control(d.a, "stop", nil)
	assert.True(t, res.OK)
	ev, _ := rec.last()
	assert.Equal(t, string(errcode.NotRunning), ev.Err)

	res, _ = d.Control(d.a, "restart", nil)
	assert.True(t, res.OK)
	assert.True(t, reg.Source(4).Enabled())

	res, _ = d.Control(d.a, "stats", nil)
	assert.True(t, res.OK)
	ev, _ = rec.last()
	assert.True(t, ev.IsEvent)
	assert.Equal(t, "stats", ev.EventTag)
	assert.IsType(t, types.ZACwireStats{}, ev.Payload)

	res, _ = d.Control(d.a, "bogus", nil)
	assert.Equal(t, core.EnqueueResult{OK: false, Error: errcode.Unsupported}, res)

	require.NoError(t, d.Close())
	assert.Empty(t, reg.Owner(4))
}

func TestDevice_StartFailureReported(t *testing.T) {
	d, reg, _, err := build(t, types.ZACwireParams{Name: "probe", Pin: 4})
	require.NoError(t, err)
	reg.Source(4).EnableErr = errcode.Busy

	res, err := d.Control(d.a, "start", nil)
	require.NoError(t, err)
	assert.Equal(t, core.EnqueueResult{OK: false, Error: errcode.Busy}, res)
}
