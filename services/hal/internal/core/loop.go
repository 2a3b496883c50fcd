package core

import (
	"context"
	"time"

	"zacwire-go/bus"
	"zacwire-go/errcode"
	"zacwire-go/types"
	"zacwire-go/x/timex"
)

const (
	eventQueueLen = 16
	pollQueueLen  = 8
)

type HAL struct {
	conn *bus.Connection
	res  Resources

	// devID -> device
	dev map[string]Device
	// capability -> devID
	capIndex map[CapAddr]string

	cfgSub  *bus.Subscription
	ctrlSub *bus.Subscription

	// Single-threaded publication of device events
	evCh chan Event

	pollCh chan PollReq
	poller *Poller
}

func NewHAL(conn *bus.Connection, reg ResourceRegistry) *HAL {
	h := &HAL{
		conn:     conn,
		res:      Resources{Reg: reg},
		dev:      map[string]Device{},
		capIndex: map[CapAddr]string{},
		evCh:     make(chan Event, eventQueueLen),
		pollCh:   make(chan PollReq, pollQueueLen),
	}
	h.poller = NewPoller(h.pollCh)
	// HAL provides the emitter to devices.
	h.res.Pub = h
	return h
}

func (h *HAL) Run(ctx context.Context) {
	h.cfgSub = h.conn.Subscribe(topicConfigHAL())
	h.ctrlSub = h.conn.Subscribe(ctrlWildcard())
	defer h.conn.Unsubscribe(h.cfgSub)
	defer h.conn.Unsubscribe(h.ctrlSub)

	go h.poller.Run(ctx)

	h.pubHALState("idle", "awaiting_config")
	ready := false
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.pubHALState("stopped", "context_cancelled")
			return
		case msg := <-h.cfgSub.Channel():
			v, ok := msg.Payload.(types.HALConfig)
			if !ok {
				println("[hal] ignoring config payload of unexpected type")
				continue
			}
			// additive; devices already built are left alone
			h.applyConfig(ctx, v)
			if !ready {
				ready = true
				h.pubHALState("ready", "")
			}
		case m := <-h.ctrlSub.Channel():
			if !ready {
				h.replyErr(m, errcode.HALNotReady)
				continue
			}
			h.handleControl(m)
		case req := <-h.pollCh:
			h.handlePoll(req)
		case ev := <-h.evCh:
			// All device→HAL telemetry is published from this goroutine.
			h.handleEvent(ev)
		}
	}
}

func (h *HAL) applyConfig(ctx context.Context, cfg types.HALConfig) {
	for i := range cfg.Devices {
		dc := cfg.Devices[i]
		if _, exists := h.dev[dc.ID]; exists {
			continue
		}
		b, ok := lookupBuilder(dc.Type)
		if !ok {
			println("[hal] no builder for type:", dc.Type, "id:", dc.ID)
			continue
		}
		dev, err := b.Build(ctx, BuilderInput{ID: dc.ID, Type: dc.Type, Params: dc.Params, Res: h.res})
		if err != nil {
			println("[hal] build failed for:", dc.ID, "err:", err.Error())
			continue
		}
		if err := dev.Init(ctx); err != nil {
			println("[hal] init failed for:", dc.ID, "err:", err.Error())
			_ = dev.Close()
			continue
		}
		h.dev[dev.ID()] = dev

		// Register capabilities, publish retained info + initial status:down
		for _, cs := range dev.Capabilities() {
			name := cs.Name
			if name == "" {
				name = dev.ID()
			}
			addr := CapAddr{Kind: cs.Kind, Name: name}
			h.capIndex[addr] = dev.ID()

			h.conn.Publish(h.conn.NewMessage(capInfo(addr.Kind, addr.Name), cs.Info, true))
			h.conn.Publish(h.conn.NewMessage(
				capStatus(addr.Kind, addr.Name),
				types.CapabilityStatus{Link: types.LinkDown, TS: timex.NowMs()},
				true,
			))
			if cs.PollMS > 0 {
				h.poller.Upsert(addr, "read", time.Duration(cs.PollMS)*time.Millisecond)
			}
		}
	}
}

func (h *HAL) handleControl(msg *bus.Message) {
	// hal/capability/<kind>/<name>/control/<verb>
	if msg.Topic.Len() != 6 {
		h.replyErr(msg, errcode.InvalidParams)
		return
	}
	kind, _ := msg.Topic.At(2).(string)
	name, _ := msg.Topic.At(3).(string)
	verb, _ := msg.Topic.At(5).(string)

	addr := CapAddr{Kind: types.Kind(kind), Name: name}
	ownerID, ok := h.capIndex[addr]
	if !ok {
		h.replyErr(msg, errcode.UnknownCap)
		return
	}
	dev := h.dev[ownerID]
	if dev == nil {
		h.replyErr(msg, errcode.Error)
		return
	}

	res, err := dev.Control(addr, verb, msg.Payload)
	if err != nil {
		h.replyFromError(msg, err)
		return
	}
	if res.OK {
		h.replyOK(msg)
		return
	}
	code := res.Error
	if code == "" {
		code = errcode.Busy
	}
	h.replyErr(msg, code)
}

func (h *HAL) handlePoll(req PollReq) {
	ownerID, ok := h.capIndex[req.Addr]
	if !ok {
		h.poller.Stop(req.Addr, req.Verb)
		return
	}
	if dev := h.dev[ownerID]; dev != nil {
		if _, err := dev.Control(req.Addr, req.Verb, nil); err != nil {
			println("[hal] poll failed for:", ownerID, "err:", err.Error())
		}
	}
}

func (h *HAL) handleEvent(ev Event) {
	k, n := ev.Addr.Kind, ev.Addr.Name
	ts := ev.TSms
	if ts == 0 {
		ts = timex.NowMs()
	}

	// Error → retained status only; no value/event published.
	if ev.Err != "" {
		h.conn.Publish(h.conn.NewMessage(
			capStatus(k, n),
			types.CapabilityStatus{Link: linkFor(ev.Err), TS: ts, Error: ev.Err},
			true,
		))
		return
	}

	if ev.IsEvent {
		t := capEvent(k, n)
		if ev.EventTag != "" {
			t = t.Append(ev.EventTag)
		}
		h.conn.Publish(h.conn.NewMessage(t, ev.Payload, false))
		return
	}
	h.conn.Publish(h.conn.NewMessage(capValue(k, n), ev.Payload, true))
	h.conn.Publish(h.conn.NewMessage(
		capStatus(k, n),
		types.CapabilityStatus{Link: types.LinkUp, TS: ts},
		true,
	))
}

// linkFor maps a read error to the link state: a sensor that is stopped or
// has not produced a value yet is down, anything else is degraded.
func linkFor(code string) types.Link {
	switch errcode.Code(code) {
	case errcode.NotRunning, errcode.NoReading:
		return types.LinkDown
	default:
		return types.LinkDegraded
	}
}

func (h *HAL) closeAll() {
	for id, d := range h.dev {
		if err := d.Close(); err != nil {
			println("[hal] close failed for:", id, "err:", err.Error())
		}
	}
	clear(h.dev)
	clear(h.capIndex)
}

func (h *HAL) pubHALState(level, status string) {
	h.conn.Publish(h.conn.NewMessage(
		topicHALState(),
		types.HALState{Level: level, Status: status, TS: timex.NowMs()},
		true,
	))
}

// ---- HAL as EventEmitter (enqueue to single publisher) ----

func (h *HAL) Emit(ev Event) bool {
	select {
	case h.evCh <- ev:
		return true
	default:
		return false
	}
}
