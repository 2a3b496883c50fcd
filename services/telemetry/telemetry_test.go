package telemetry

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zacwire-go/bus"
	"zacwire-go/errcode"
	"zacwire-go/services/hal"
	"zacwire-go/types"
)

func TestAppendReading(t *testing.T) {
	cases := []struct {
		milli int32
		n     int
		want  string
	}{
		{27616, 0, "27.62,0\n"},
		{-10000, 3, "-10.00,3\n"},
		{60000, -1, "60.00,-1\n"},
		{5, 0, "0.01,0\n"},
		{-4, 0, "0.00,0\n"},
		{-9995, 12, "-10.00,12\n"},
		{1049, 0, "1.05,0\n"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, string(AppendReading(nil, c.milli, c.n)), "milli %d", c.milli)
	}
}

func TestAppendError(t *testing.T) {
	assert.Equal(t, "ERR,wrong_parity,3\n", string(AppendError(nil, "wrong_parity", 3)))
	assert.Equal(t, "x ERR,not_running,-1\n", string(AppendError([]byte("x "), "not_running", -1)))
}

type syncBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuf) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuf) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := strings.Split(strings.TrimSuffix(s.b.String(), "\n"), "\n")
	if len(out) == 1 && out[0] == "" {
		return nil
	}
	return out
}

func start(t *testing.T) (*bus.Connection, *syncBuf) {
	t.Helper()
	b := bus.NewBus(16)
	w := &syncBuf{}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, New(w).Start(ctx, b.NewConnection("telemetry")))
	return b.NewConnection("test"), w
}

func TestService_WritesLines(t *testing.T) {
	conn, w := start(t)

	// an error before any value reports -1
	conn.Publish(conn.NewMessage(hal.StatusTopic("probe"),
		types.CapabilityStatus{Link: types.LinkDown, Error: string(errcode.NoReading)}, true))
	require.Eventually(t, func() bool { return len(w.lines()) == 1 }, time.Second, 5*time.Millisecond)

	conn.Publish(conn.NewMessage(hal.ValueTopic("probe"), types.TemperatureValue{MilliC: 21500, ErrorCount: 2}, true))
	require.Eventually(t, func() bool { return len(w.lines()) == 2 }, time.Second, 5*time.Millisecond)

	// status up is not a line; a fault is
	conn.Publish(conn.NewMessage(hal.StatusTopic("probe"), types.CapabilityStatus{Link: types.LinkUp}, true))
	conn.Publish(conn.NewMessage(hal.StatusTopic("probe"),
		types.CapabilityStatus{Link: types.LinkDegraded, Error: string(errcode.WrongParity)}, true))
	require.Eventually(t, func() bool { return len(w.lines()) == 3 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"ERR,no_reading,-1", "21.50,2", "ERR,wrong_parity,2"}, w.lines())
}

func TestService_Decimate(t *testing.T) {
	conn, w := start(t)
	conn.Publish(conn.NewMessage(topicConfigTelemetry, types.TelemetryConfig{Decimate: 3}, true))
	time.Sleep(20 * time.Millisecond)

	for i := 0; i < 6; i++ {
		conn.Publish(conn.NewMessage(hal.ValueTopic("probe"), types.TemperatureValue{MilliC: int32(i * 1000)}, false))
		time.Sleep(2 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return len(w.lines()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"2.00,0", "5.00,0"}, w.lines())
}

func TestCapName(t *testing.T) {
	assert.Equal(t, "probe", capName(hal.ValueTopic("probe")))
	assert.Equal(t, "", capName(bus.T("hal")))
}
