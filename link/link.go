// Package link implements the point-to-point physical medium: a bounded,
// strictly one-way byte pipe, and the duplex Connection built from a pair
// of them.
//
// The queue discipline is adapted from the wraparound index bookkeeping of
// a classic ring buffer: a fixed backing array with a read cursor and a
// live byte count, so pushes and pops never allocate once the connection
// is established.
package link

import (
	"errors"
	"sync"
)

// Capacity is the fixed per-direction buffer size of a Connection. The
// simulator never blocks producers on a full buffer; at this capacity and
// the tick rates the devices in this package drive, overflow is not
// observed in practice.
const Capacity = 2048

var (
	// ErrNotConnected is returned when an operation is attempted on the zero Link.
	ErrNotConnected = errors.New("link: not connected")
	// ErrPeerClosed is returned by Send when the receiving end has disconnected.
	ErrPeerClosed = errors.New("link: peer closed")
	// ErrDisconnected is returned by Recv when the sending end has disconnected
	// and no further bytes remain queued.
	ErrDisconnected = errors.New("link: disconnected")
	errBufferFull   = errors.New("link: buffer full")
)

// pipe is the shared one-way byte queue backing a single direction of a
// Connection. Two Link values reference the same pipe from opposite ends.
type pipe struct {
	mu            sync.Mutex
	ring          byteRing
	senderAlive   bool
	receiverAlive bool
}

func newPipe(capacity int) *pipe {
	return &pipe{ring: newByteRing(capacity), senderAlive: true, receiverAlive: true}
}

// Link is one endpoint of a duplex Connection: bytes written with Send
// travel to the peer's Recv, and Recv drains bytes the peer has sent.
// The zero Link is not connected.
type Link struct {
	tx *pipe // we write here; the peer reads it
	rx *pipe // we read here; the peer writes it
}

// Connection returns two opposing Link endpoints sharing no state beyond
// the two underlying one-way buffers.
func Connection() (a, b Link) {
	p1 := newPipe(Capacity)
	p2 := newPipe(Capacity)
	return Link{tx: p1, rx: p2}, Link{tx: p2, rx: p1}
}

// IsZero reports whether l is the unconnected zero value.
func (l Link) IsZero() bool { return l.tx == nil || l.rx == nil }

// Send pushes a byte onto the outbound buffer. It returns ErrPeerClosed if
// the receiving end has disconnected; the caller is expected to treat that
// as a disconnect signal and drop its own reference to l.
func (l Link) Send(b byte) error {
	if l.IsZero() {
		return ErrNotConnected
	}
	l.tx.mu.Lock()
	defer l.tx.mu.Unlock()
	if !l.tx.receiverAlive {
		return ErrPeerClosed
	}
	if !l.tx.ring.push(b) {
		return errBufferFull
	}
	return nil
}

// Recv pops the oldest queued byte, if any. ok is false with a nil error
// when the buffer is simply empty; it is false with ErrDisconnected once
// the sender has closed and the buffer has fully drained.
func (l Link) Recv() (b byte, ok bool, err error) {
	if l.IsZero() {
		return 0, false, ErrNotConnected
	}
	l.rx.mu.Lock()
	defer l.rx.mu.Unlock()
	if v, has := l.rx.ring.pop(); has {
		return v, true, nil
	}
	if !l.rx.senderAlive {
		return 0, false, ErrDisconnected
	}
	return 0, false, nil
}

// IsNonEmpty reports whether at least one byte is queued for Recv, without
// consuming it. This is the simulator's carrier-sense primitive.
func (l Link) IsNonEmpty() bool {
	if l.IsZero() {
		return false
	}
	l.rx.mu.Lock()
	defer l.rx.mu.Unlock()
	return l.rx.ring.len() > 0
}

// Close tears down both directions of the connection as seen from this
// endpoint: the peer's next Send observes ErrPeerClosed once it notices,
// and the peer's next Recv observes ErrDisconnected once its queue drains.
func (l Link) Close() {
	if l.IsZero() {
		return
	}
	l.tx.mu.Lock()
	l.tx.senderAlive = false
	l.tx.mu.Unlock()

	l.rx.mu.Lock()
	l.rx.receiverAlive = false
	l.rx.mu.Unlock()
}
