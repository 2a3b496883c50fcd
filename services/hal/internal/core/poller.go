package core

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

type PollReq struct {
	Addr  CapAddr
	Verb  string
	Every time.Duration
}

type pollKey struct {
	addr CapAddr
	verb string
}

type pollItem struct {
	key   pollKey
	due   time.Time
	every time.Duration
	index int
}

type pollHeap []*pollItem

func (h pollHeap) Len() int           { return len(h) }
func (h pollHeap) Less(i, j int) bool { return h[i].due.Before(h[j].due) }
func (h pollHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *pollHeap) Push(x any) {
	it := x.(*pollItem)
	it.index = len(*h)
	*h = append(*h, it)
}
func (h *pollHeap) Pop() any {
	old := *h
	it := old[len(old)-1]
	it.index = -1
	*h = old[:len(old)-1]
	return it
}

// Poller fires PollReqs on fixed intervals. A request is dropped, not
// queued, when out is full; the schedule keeps its period either way.
type Poller struct {
	mu    sync.Mutex
	items map[pollKey]*pollItem
	h     pollHeap
	wake  chan struct{}
	out   chan<- PollReq
}

func NewPoller(out chan<- PollReq) *Poller {
	return &Poller{
		items: make(map[pollKey]*pollItem),
		wake:  make(chan struct{}, 1),
		out:   out,
	}
}

// Upsert schedules verb on addr every interval, first firing one interval
// from now. An existing schedule is replaced. Non-positive intervals and
// empty verbs are ignored.
func (p *Poller) Upsert(addr CapAddr, verb string, interval time.Duration) {
	if interval <= 0 || verb == "" {
		return
	}
	key := pollKey{addr: addr, verb: verb}
	due := time.Now().Add(interval)

	p.mu.Lock()
	if it, ok := p.items[key]; ok {
		it.every, it.due = interval, due
		heap.Fix(&p.h, it.index)
	} else {
		it := &pollItem{key: key, due: due, every: interval}
		p.items[key] = it
		heap.Push(&p.h, it)
	}
	p.mu.Unlock()
	p.poke()
}

func (p *Poller) Stop(addr CapAddr, verb string) {
	key := pollKey{addr: addr, verb: verb}
	p.mu.Lock()
	if it, ok := p.items[key]; ok {
		heap.Remove(&p.h, it.index)
		delete(p.items, key)
	}
	p.mu.Unlock()
	p.poke()
}

// Len is the number of active schedules.
func (p *Poller) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Run fires due schedules until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		req, wait, ok := p.next(time.Now())
		if ok {
			select {
			case p.out <- req:
			default:
			}
			continue
		}

		var fire <-chan time.Time
		if wait > 0 {
			timer.Reset(wait)
			fire = timer.C
		}
		select {
		case <-ctx.Done():
			return
		case <-p.wake:
			timer.Stop()
		case <-fire:
		}
	}
}

// next pops and re-arms the earliest schedule if it is due. Otherwise it
// returns the time until it is, or 0 with no schedules.
func (p *Poller) next(now time.Time) (PollReq, time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.h) == 0 {
		return PollReq{}, 0, false
	}
	top := p.h[0]
	if wait := top.due.Sub(now); wait > 0 {
		return PollReq{}, wait, false
	}
	top.due = now.Add(top.every)
	heap.Fix(&p.h, 0)
	return PollReq{Addr: top.key.addr, Verb: top.key.verb, Every: top.every}, 0, true
}

func (p *Poller) poke() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}
