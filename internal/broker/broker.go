// Package broker is the in-process pub/sub layer. It tracks which
// connection is subscribed to which named channel and fans published
// payloads out to subscribers. It never inspects payloads and carries no
// game semantics; the lobby chat and the per-game update streams both
// ride on it.
package broker

import (
	"sync"

	"github.com/armorup/bew/internal/metrics"
)

// DefaultChannel receives lobby-style traffic from connections that did
// not ask for anything more specific.
const DefaultChannel = "lobby"

const sendBuffer = 16

// Conn is the broker's handle for one realtime connection. The transport
// layer drains Messages with a single writer, which keeps delivery FIFO
// per connection.
type Conn struct {
	id   string
	send chan []byte
}

// ID returns the connection id.
func (c *Conn) ID() string { return c.id }

// Messages is the stream of payloads published to channels this
// connection subscribes to. Closed when the connection is removed.
func (c *Conn) Messages() <-chan []byte { return c.send }

// Broker owns the connection registry and the subscription relation.
type Broker struct {
	mu    sync.RWMutex
	conns map[string]*Conn
	subs  map[string]map[string]struct{} // channel -> set of connection ids
}

func New() *Broker {
	return &Broker{
		conns: make(map[string]*Conn),
		subs:  make(map[string]map[string]struct{}),
	}
}

// AddConnection registers a connection and returns its handle.
func (b *Broker) AddConnection(connID string) *Conn {
	c := &Conn{id: connID, send: make(chan []byte, sendBuffer)}
	b.mu.Lock()
	b.conns[connID] = c
	b.mu.Unlock()
	return c
}

// Subscribe adds the connection to a channel. Idempotent.
func (b *Broker) Subscribe(connID, channel string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[string]struct{})
	}
	b.subs[channel][connID] = struct{}{}
}

// Unsubscribe removes the connection from a channel.
func (b *Broker) Unsubscribe(connID, channel string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unsubscribeLocked(connID, channel)
}

// UnsubscribeAll removes every subscription held by the connection.
func (b *Broker) UnsubscribeAll(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for channel := range b.subs {
		b.unsubscribeLocked(connID, channel)
	}
}

func (b *Broker) unsubscribeLocked(connID, channel string) {
	if set, ok := b.subs[channel]; ok {
		delete(set, connID)
		if len(set) == 0 {
			delete(b.subs, channel)
		}
	}
}

// RemoveConnection drops the connection and all its subscriptions and
// closes its message stream. Used on transport teardown.
func (b *Broker) RemoveConnection(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for channel := range b.subs {
		b.unsubscribeLocked(connID, channel)
	}
	if c, ok := b.conns[connID]; ok {
		delete(b.conns, connID)
		close(c.send)
	}
}

// Publish delivers the payload to every subscriber of the channel.
// Delivery is best-effort: a subscriber whose buffer is full has the
// payload dropped rather than stalling the publisher, and delivery
// errors never reach the caller.
func (b *Broker) Publish(channel string, payload []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for connID := range b.subs[channel] {
		c, ok := b.conns[connID]
		if !ok {
			// Subscription without a live connection; skip.
			continue
		}
		select {
		case c.send <- payload:
			metrics.MessagesPublished.Inc()
		default:
			metrics.MessagesDropped.Inc()
		}
	}
}
