// Package bus is a small in-process pub/sub with MQTT-style topics.
// Tokens are comparable values (strings or ints); "+" matches one level and
// "#" matches the rest of a topic, including nothing. Retained messages are
// replayed to new matching subscribers. Publishing never blocks: a full
// subscriber queue drops its oldest message.
package bus

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
)

const (
	wildOne  = "+"
	wildRest = "#"
)

// Topic is a sequence of comparable tokens.
type Topic []any

// T builds a Topic, panicking on non-comparable tokens.
func T(tokens ...any) Topic {
	for _, tok := range tokens {
		if tok == nil || !reflect.TypeOf(tok).Comparable() {
			panic("bus: topic token must be comparable")
		}
	}
	return Topic(tokens)
}

func (t Topic) Len() int { return len(t) }

func (t Topic) At(i int) any { return t[i] }

// Append returns a new topic; t is never modified.
func (t Topic) Append(tok ...any) Topic {
	out := make(Topic, 0, len(t)+len(tok))
	return append(append(out, t...), tok...)
}

// Equal reports token-wise equality.
func (t Topic) Equal(o Topic) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// Matches reports whether topic is selected by filter.
func Matches(filter, topic Topic) bool {
	for i, f := range filter {
		if f == wildRest {
			return true
		}
		if i >= len(topic) {
			return false
		}
		if f != wildOne && f != topic[i] {
			return false
		}
	}
	return len(filter) == len(topic)
}

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
	ReplyTo  Topic
}

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

type Subscription struct {
	topic Topic
	ch    chan *Message
	conn  *Connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// -----------------------------------------------------------------------------
// Trie node
// -----------------------------------------------------------------------------

type node struct {
	children map[any]*node
	subs     []*Subscription
}

func (n *node) child(tok any, create bool) *node {
	if c, ok := n.children[tok]; ok || !create {
		return c
	}
	if n.children == nil {
		n.children = make(map[any]*node)
	}
	c := &node{}
	n.children[tok] = c
	return c
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu       sync.Mutex
	root     *node
	retained []*Message
	qLen     int
	seq      atomic.Uint32
}

// NewBus creates a new bus with the given subscription queue length.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{root: &node{}, qLen: queueLen}
}

func (b *Bus) NewMessage(topic Topic, payload any, retained bool) *Message {
	return &Message{Topic: topic, Payload: payload, Retained: retained}
}

func (b *Bus) addSubscription(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.root
	for _, tok := range sub.topic {
		n = n.child(tok, true)
	}
	n.subs = append(n.subs, sub)
	for _, m := range b.retained {
		if Matches(sub.topic, m.Topic) {
			deliver(sub, m)
		}
	}
}

// Publish delivers msg to every matching subscriber. A retained message with
// a nil payload clears the retained value for its topic.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if msg.Retained {
		b.retain(msg)
	}
	b.walk(b.root, msg.Topic, msg)
}

func (b *Bus) retain(msg *Message) {
	for i, m := range b.retained {
		if m.Topic.Equal(msg.Topic) {
			if msg.Payload == nil {
				b.retained = append(b.retained[:i], b.retained[i+1:]...)
			} else {
				b.retained[i] = msg
			}
			return
		}
	}
	if msg.Payload != nil {
		b.retained = append(b.retained, msg)
	}
}

func (b *Bus) walk(n *node, rest Topic, msg *Message) {
	if h := n.child(wildRest, false); h != nil {
		for _, s := range h.subs {
			deliver(s, msg)
		}
	}
	if len(rest) == 0 {
		for _, s := range n.subs {
			deliver(s, msg)
		}
		return
	}
	if c := n.child(rest[0], false); c != nil {
		b.walk(c, rest[1:], msg)
	}
	if rest[0] != wildOne {
		if c := n.child(wildOne, false); c != nil {
			b.walk(c, rest[1:], msg)
		}
	}
}

// deliver never blocks; a full queue drops its oldest message.
func deliver(s *Subscription, msg *Message) {
	select {
	case s.ch <- msg:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- msg:
	default:
	}
}

func (b *Bus) removeSubscription(sub *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.root
	path := []*node{n}
	for _, tok := range sub.topic {
		if n = n.child(tok, false); n == nil {
			return false
		}
		path = append(path, n)
	}
	found := false
	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}
	// prune empty nodes
	for i := len(sub.topic) - 1; i >= 0; i-- {
		c := path[i+1]
		if len(c.subs) != 0 || len(c.children) != 0 {
			break
		}
		delete(path[i].children, sub.topic[i])
	}
	close(sub.ch)
	return true
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

type Connection struct {
	bus  *Bus
	id   string
	mu   sync.Mutex
	subs []*Subscription
}

// NewConnection creates a new connection bound to this bus.
func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{bus: b, id: id}
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) NewMessage(topic Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(topic, payload, retained)
}

func (c *Connection) Publish(msg *Message) { c.bus.Publish(msg) }

// Subscribe registers a subscription owned by this connection.
func (c *Connection) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{topic: topic, ch: make(chan *Message, c.bus.qLen), conn: c}
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	c.bus.addSubscription(sub)
	return sub
}

// Unsubscribe removes sub and closes its channel. Repeated calls are no-ops.
func (c *Connection) Unsubscribe(sub *Subscription) {
	c.mu.Lock()
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.bus.removeSubscription(sub)
}

// Disconnect closes all subscriptions of this connection.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, s := range subs {
		c.bus.removeSubscription(s)
	}
}

// Request assigns a private reply topic to msg, subscribes to it and
// publishes msg. The caller owns the returned subscription.
func (c *Connection) Request(msg *Message) *Subscription {
	msg.ReplyTo = T("_reply", c.id, int(c.bus.seq.Add(1)))
	sub := c.Subscribe(msg.ReplyTo)
	c.Publish(msg)
	return sub
}

// RequestWait sends msg and waits for the first reply.
func (c *Connection) RequestWait(ctx context.Context, msg *Message) (*Message, error) {
	sub := c.Request(msg)
	defer c.Unsubscribe(sub)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-sub.Channel():
		return r, nil
	}
}

// Reply publishes payload to req.ReplyTo, if the request asked for one.
func (c *Connection) Reply(req *Message, payload any, retained bool) {
	if len(req.ReplyTo) == 0 {
		return
	}
	c.Publish(&Message{Topic: req.ReplyTo, Payload: payload, Retained: retained})
}
