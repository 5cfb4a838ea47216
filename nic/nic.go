// Package nic implements the network interface card abstraction: the
// per-port state shared between a device's tick loop, its byte-transmitter
// coroutine, and the collision watcher that observes it.
package nic

import (
	"sync"
	"sync/atomic"

	"github.com/cyberphantom52/network-simulator/ethernet"
	"github.com/cyberphantom52/network-simulator/link"
)

// NIC owns at most one Link endpoint. Its transmitting flag is exposed
// through an atomic so the byte-transmitter and collision-watcher
// coroutines can observe it without contending on the connection lock.
type NIC struct {
	mac          ethernet.Addr
	transmitting atomic.Bool

	mu   sync.Mutex
	conn link.Link
}

// New returns a NIC with a freshly generated random hardware address.
func New() *NIC {
	return &NIC{mac: ethernet.NewAddr()}
}

// NewWithAddr returns a NIC whose hardware address is fixed to mac.
func NewWithAddr(mac ethernet.Addr) *NIC {
	return &NIC{mac: mac}
}

// MAC returns the NIC's immutable hardware address.
func (n *NIC) MAC() ethernet.Addr { return n.mac }

// Transmitting reports whether this NIC is currently driving the medium.
func (n *NIC) Transmitting() bool { return n.transmitting.Load() }

// SetTransmitting sets the transmitting flag.
func (n *NIC) SetTransmitting(v bool) { n.transmitting.Store(v) }

// SetConnection installs l as the NIC's connection, replacing and closing
// any previous one. Passing the zero Link disconnects the NIC.
func (n *NIC) SetConnection(l link.Link) {
	n.mu.Lock()
	prev := n.conn
	n.conn = l
	n.mu.Unlock()
	if !prev.IsZero() {
		prev.Close()
	}
}

// IsConnected reports whether the NIC currently owns a Link endpoint.
func (n *NIC) IsConnected() bool {
	n.mu.Lock()
	c := n.conn
	n.mu.Unlock()
	return !c.IsZero()
}

// IsReceiving is the NIC's carrier-sense primitive: true when connected and
// at least one byte is queued inbound.
func (n *NIC) IsReceiving() bool {
	n.mu.Lock()
	c := n.conn
	n.mu.Unlock()
	return !c.IsZero() && c.IsNonEmpty()
}

// CollisionDetect is true while this NIC is both transmitting and sensing
// carrier, i.e. something else is also driving the shared medium.
func (n *NIC) CollisionDetect() bool {
	return n.Transmitting() && n.IsReceiving()
}

// Transmit pushes byte b onto the outbound Link. If the peer has
// disconnected, the NIC's own connection slot is cleared; the caller
// observes no error either way, matching the fire-and-forget nature of a
// half-duplex medium write.
func (n *NIC) Transmit(b byte) {
	n.mu.Lock()
	c := n.conn
	n.mu.Unlock()
	if c.IsZero() {
		return
	}
	if err := c.Send(b); err == link.ErrPeerClosed {
		n.clearIfCurrent(c)
	}
}

// Receive pops one byte from the inbound Link, if any. A disconnected peer
// clears the NIC's connection slot and is reported the same as "no byte
// available".
func (n *NIC) Receive() (b byte, ok bool) {
	n.mu.Lock()
	c := n.conn
	n.mu.Unlock()
	if c.IsZero() {
		return 0, false
	}
	b, ok, err := c.Recv()
	if err == link.ErrDisconnected {
		n.clearIfCurrent(c)
		return 0, false
	}
	return b, ok
}

// clearIfCurrent empties the connection slot if it still refers to the
// same Link that a transmit/receive call observed to be broken. This
// avoids racing a concurrent SetConnection that has already installed a
// new, healthy Link.
func (n *NIC) clearIfCurrent(observed link.Link) {
	n.mu.Lock()
	if n.conn == observed {
		n.conn = link.Link{}
	}
	n.mu.Unlock()
}
