package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zacwire-go/bus"
	"zacwire-go/types"
)

var testBoards = Boards{
	"pico": {
		"hal": types.HALConfig{Devices: []types.HALDevice{{ID: "tsic0", Type: "zacwire",
			Params: types.ZACwireParams{Name: "probe", Pin: 16}}}},
		"telemetry": types.TelemetryConfig{Decimate: 1},
	},
}

func withDevice(id string) context.Context {
	return context.WithValue(context.Background(), CtxDeviceKey, id)
}

func recv(t *testing.T, sub *bus.Subscription) *bus.Message {
	t.Helper()
	select {
	case m := <-sub.Channel():
		return m
	case <-time.After(time.Second):
		t.Fatalf("timeout on %v", sub.Topic())
		return nil
	}
}

func TestPublishesRetainedDocuments(t *testing.T) {
	b := bus.NewBus(8)
	ctx, cancel := context.WithCancel(withDevice("pico"))
	defer cancel()
	require.NoError(t, NewConfigService(testBoards).Start(ctx, b.NewConnection("config")))

	conn := b.NewConnection("test")
	m := recv(t, conn.Subscribe(bus.T("config", "hal")))
	assert.True(t, m.Retained)
	cfg, ok := m.Payload.(types.HALConfig)
	require.True(t, ok)
	assert.Equal(t, "tsic0", cfg.Devices[0].ID)

	m = recv(t, conn.Subscribe(bus.T("config", "telemetry")))
	assert.Equal(t, types.TelemetryConfig{Decimate: 1}, m.Payload)
}

func TestStartErrors(t *testing.T) {
	b := bus.NewBus(8)
	s := NewConfigService(testBoards)
	assert.Error(t, s.Start(context.Background(), b.NewConnection("c")))
	assert.Error(t, s.Start(withDevice("unknown"), b.NewConnection("c")))
}

func TestSetReplacesDocument(t *testing.T) {
	b := bus.NewBus(8)
	ctx, cancel := context.WithCancel(withDevice("pico"))
	defer cancel()
	require.NoError(t, NewConfigService(testBoards).Start(ctx, b.NewConnection("config")))
	conn := b.NewConnection("test")

	rctx, rcancel := context.WithTimeout(ctx, time.Second)
	defer rcancel()
	r, err := conn.RequestWait(rctx, conn.NewMessage(bus.T("config", "set", "telemetry"), types.TelemetryConfig{Decimate: 8}, false))
	require.NoError(t, err)
	assert.Equal(t, types.ControlReply{OK: true}, r.Payload)

	m := recv(t, conn.Subscribe(bus.T("config", "telemetry")))
	assert.Equal(t, types.TelemetryConfig{Decimate: 8}, m.Payload)

	r, err = conn.RequestWait(rctx, conn.NewMessage(bus.T("config", "set", "hal"), "garbage", false))
	require.NoError(t, err)
	assert.Equal(t, types.ControlReply{OK: false, Error: "invalid_params"}, r.Payload)
}
