package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
)

type AlarmKind string

const (
	AlarmStale       AlarmKind = "stale"
	AlarmHigh        AlarmKind = "high"
	AlarmLow         AlarmKind = "low"
	AlarmErrorGrowth AlarmKind = "error_growth"
	AlarmSensor      AlarmKind = "sensor_error"
)

type Alarm struct {
	Kind   AlarmKind
	At     time.Time
	Detail string
}

func (a Alarm) String() string { return string(a.Kind) + ": " + a.Detail }

// Watcher evaluates readings against AlarmConfig. It is not safe for
// concurrent use.
type Watcher struct {
	cfg AlarmConfig

	last     time.Time
	lastErrs int
	seen     bool
	stale    bool
}

func NewWatcher(cfg AlarmConfig) *Watcher {
	return &Watcher{cfg: cfg}
}

// Observe checks one reading and returns the alarms it raises.
func (w *Watcher) Observe(r Reading) []Alarm {
	var out []Alarm
	w.last = r.Timestamp
	w.stale = false

	if !r.OK() {
		out = append(out, Alarm{Kind: AlarmSensor, At: r.Timestamp, Detail: string(r.Err)})
	} else {
		if (w.cfg.EnableHigh || w.cfg.HighC != 0) && r.Celsius > w.cfg.HighC {
			out = append(out, Alarm{Kind: AlarmHigh, At: r.Timestamp, Detail: fmt.Sprintf("%.2f > %.2f", r.Celsius, w.cfg.HighC)})
		}
		if (w.cfg.EnableLow || w.cfg.LowC != 0) && r.Celsius < w.cfg.LowC {
			out = append(out, Alarm{Kind: AlarmLow, At: r.Timestamp, Detail: fmt.Sprintf("%.2f < %.2f", r.Celsius, w.cfg.LowC)})
		}
	}

	hasBase := w.seen && w.lastErrs >= 0 && r.ErrorCount >= 0
	if hasBase && w.cfg.ErrorGrowth > 0 && r.ErrorCount-w.lastErrs >= w.cfg.ErrorGrowth {
		out = append(out, Alarm{
			Kind:   AlarmErrorGrowth,
			At:     r.Timestamp,
			Detail: fmt.Sprintf("error count %d -> %d", w.lastErrs, r.ErrorCount),
		})
	}
	// -1 means no good frame yet (boot or reboot). The first count after it
	// carries every earlier failure, so it only sets the baseline.
	w.lastErrs = r.ErrorCount
	w.seen = true
	return out
}

// Tick reports a stale alarm once per silent period.
func (w *Watcher) Tick(now time.Time) (Alarm, bool) {
	if w.cfg.StaleAfter <= 0 || w.stale || !w.seen {
		return Alarm{}, false
	}
	if gap := now.Sub(w.last); gap >= w.cfg.StaleAfter {
		w.stale = true
		return Alarm{Kind: AlarmStale, At: now, Detail: "no reading for " + gap.Truncate(time.Millisecond).String()}, true
	}
	return Alarm{}, false
}

// Watch logs readings and alarms until readings closes or ctx is done.
// onAlarm, if not nil, receives every alarm as well.
func Watch(ctx context.Context, readings <-chan Reading, cfg AlarmConfig, onAlarm func(Alarm)) {
	w := NewWatcher(cfg)
	period := cfg.StaleAfter / 4
	if period <= 0 {
		period = time.Second
	}
	tick := time.NewTicker(period)
	defer tick.Stop()

	raise := func(a Alarm) {
		glog.Warningf("alarm %s", a)
		if onAlarm != nil {
			onAlarm(a)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-readings:
			if !ok {
				return
			}
			if r.OK() {
				glog.Infof("%.2f °C errors=%d", r.Celsius, r.ErrorCount)
			}
			for _, a := range w.Observe(r) {
				raise(a)
			}
		case now := <-tick.C:
			if a, ok := w.Tick(now); ok {
				raise(a)
			}
		}
	}
}
