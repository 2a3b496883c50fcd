package monitor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zacwire-go/errcode"
)

func TestParseLine(t *testing.T) {
	r, err := ParseLine("27.62,0")
	require.NoError(t, err)
	assert.InDelta(t, 27.62, r.Celsius, 1e-9)
	assert.Equal(t, 0, r.ErrorCount)
	assert.True(t, r.OK())

	r, err = ParseLine("-10.00,-1\r")
	require.NoError(t, err)
	assert.InDelta(t, -10.0, r.Celsius, 1e-9)
	assert.Equal(t, -1, r.ErrorCount)

	r, err = ParseLine("ERR,wrong_parity,3")
	require.NoError(t, err)
	assert.False(t, r.OK())
	assert.Equal(t, errcode.WrongParity, r.Err)
	assert.Equal(t, 3, r.ErrorCount)
}

func TestParseLine_Malformed(t *testing.T) {
	for _, line := range []string{
		"",
		"27.62",
		"abc,0",
		"27.62,x",
		"27.62,-2",
		"ERR,,1",
		"ERR,no_reading",
		"1,2,3",
		"1,2,3,4",
	} {
		_, err := ParseLine(line)
		assert.Error(t, err, "line %q", line)
	}
}

func TestReader(t *testing.T) {
	in := strings.NewReader("27.62,0\n\ngarbage\nERR,high_range,1\n30.00,1\n")
	rd := NewReader(in, 8)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rd.now = func() time.Time { return fixed }

	require.NoError(t, rd.Run(context.Background()))

	var got []Reading
	for r := range rd.Readings() {
		got = append(got, r)
	}
	require.Len(t, got, 3)
	assert.Equal(t, errcode.HighRange, got[1].Err)
	assert.InDelta(t, 30.0, got[2].Celsius, 1e-9)
	assert.Equal(t, fixed, got[0].Timestamp)
	assert.Equal(t, uint64(4), rd.Lines())
	assert.Equal(t, uint64(1), rd.Malformed())
	assert.Zero(t, rd.Dropped())
}

func TestReader_DropsWhenFull(t *testing.T) {
	rd := NewReader(strings.NewReader("1.00,0\n2.00,0\n3.00,0\n"), 1)
	require.NoError(t, rd.Run(context.Background()))
	assert.Equal(t, uint64(2), rd.Dropped())
	r := <-rd.Readings()
	assert.InDelta(t, 1.0, r.Celsius, 1e-9)
}

func TestReader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rd := NewReader(strings.NewReader("1.00,0\n"), 1)
	assert.ErrorIs(t, rd.Run(ctx), context.Canceled)
}

func TestConfig_DefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestConfig_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zwmon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serial:\n  port: /dev/ttyUSB1\nalarm:\n  high_c: 40\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, DefaultBaudRate, cfg.Serial.BaudRate)
	assert.Equal(t, 40.0, cfg.Alarm.HighC)
	assert.Equal(t, 2*time.Second, cfg.Alarm.StaleAfter)
}

func TestConfig_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zwmon.yaml")
	cfg := Default()
	cfg.Alarm.StaleAfter = 5 * time.Second
	cfg.Alarm.ErrorGrowth = 10
	require.NoError(t, cfg.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serial: [unclosed"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func kinds(as []Alarm) []AlarmKind {
	var out []AlarmKind
	for _, a := range as {
		out = append(out, a.Kind)
	}
	return out
}

func TestWatcher_Thresholds(t *testing.T) {
	w := NewWatcher(AlarmConfig{HighC: 30, LowC: 10, ErrorGrowth: 3})
	t0 := time.Unix(1000, 0)

	assert.Empty(t, w.Observe(Reading{Timestamp: t0, Celsius: 20}))
	assert.Equal(t, []AlarmKind{AlarmHigh}, kinds(w.Observe(Reading{Timestamp: t0, Celsius: 31})))
	assert.Equal(t, []AlarmKind{AlarmLow}, kinds(w.Observe(Reading{Timestamp: t0, Celsius: 9.5})))
	assert.Equal(t, []AlarmKind{AlarmSensor}, kinds(w.Observe(Reading{Timestamp: t0, Err: errcode.WrongParity, ErrorCount: 1})))
	assert.Equal(t, []AlarmKind{AlarmErrorGrowth}, kinds(w.Observe(Reading{Timestamp: t0, Celsius: 20, ErrorCount: 4})))

	// reboot: -1 then counting from zero raises nothing
	assert.Empty(t, w.Observe(Reading{Timestamp: t0, Celsius: 20, ErrorCount: -1}))
	assert.Empty(t, w.Observe(Reading{Timestamp: t0, Celsius: 20, ErrorCount: 0}))
}

func TestWatcher_FirstCountAfterBootIsBaseline(t *testing.T) {
	w := NewWatcher(AlarmConfig{ErrorGrowth: 3})
	t0 := time.Unix(1000, 0)

	assert.Empty(t, w.Observe(Reading{Timestamp: t0, Err: errcode.WrongParity, ErrorCount: -1}))
	assert.Empty(t, w.Observe(Reading{Timestamp: t0, Celsius: 20, ErrorCount: 3}),
		"failures before the first good frame must not count as growth")
	assert.Equal(t, []AlarmKind{AlarmErrorGrowth}, kinds(w.Observe(Reading{Timestamp: t0, Celsius: 20, ErrorCount: 6})))

	// reboot with failures before the first good frame
	assert.Empty(t, w.Observe(Reading{Timestamp: t0, Celsius: 20, ErrorCount: -1}))
	assert.Empty(t, w.Observe(Reading{Timestamp: t0, Celsius: 20, ErrorCount: 5}))
	assert.Empty(t, w.Observe(Reading{Timestamp: t0, Celsius: 20, ErrorCount: 6}))
}

func TestWatcher_ZeroThresholdNeedsEnable(t *testing.T) {
	w := NewWatcher(AlarmConfig{LowC: 0, EnableLow: true})
	assert.Equal(t, []AlarmKind{AlarmLow}, kinds(w.Observe(Reading{Celsius: -0.5})))

	w = NewWatcher(AlarmConfig{})
	assert.Empty(t, w.Observe(Reading{Celsius: -0.5}))
}

func TestWatcher_Stale(t *testing.T) {
	w := NewWatcher(AlarmConfig{StaleAfter: time.Second})
	t0 := time.Unix(1000, 0)

	_, ok := w.Tick(t0.Add(time.Hour))
	assert.False(t, ok, "no alarm before the first reading")

	w.Observe(Reading{Timestamp: t0, Celsius: 20})
	_, ok = w.Tick(t0.Add(500 * time.Millisecond))
	assert.False(t, ok)

	a, ok := w.Tick(t0.Add(1500 * time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, AlarmStale, a.Kind)

	_, ok = w.Tick(t0.Add(3 * time.Second))
	assert.False(t, ok, "one alarm per silent period")

	w.Observe(Reading{Timestamp: t0.Add(4 * time.Second), Celsius: 20})
	_, ok = w.Tick(t0.Add(6 * time.Second))
	assert.True(t, ok)
}

func TestWatch_ForwardsAlarms(t *testing.T) {
	ch := make(chan Reading, 2)
	ch <- Reading{Timestamp: time.Now(), Celsius: 99}
	ch <- Reading{Timestamp: time.Now(), Err: errcode.HighRange}
	close(ch)

	var got []AlarmKind
	Watch(context.Background(), ch, AlarmConfig{HighC: 50, StaleAfter: time.Hour}, func(a Alarm) {
		got = append(got, a.Kind)
	})
	assert.Equal(t, []AlarmKind{AlarmHigh, AlarmSensor}, got)
}
