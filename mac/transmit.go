package mac

import (
	"time"

	"github.com/cyberphantom52/network-simulator/ethernet"
	"github.com/cyberphantom52/network-simulator/nic"
)

// spinInterval bounds how often the collision watcher and byte-transmitter
// re-check NIC state while busy-spinning, so a goroutine never pegs a core
// at 100% between byte-times.
var spinInterval = time.Microsecond

// TransmitFrame runs the full CSMA/CD access-control loop for one outgoing
// frame: build it, then attempt delivery up to MaxAttempts times with
// truncated binary exponential backoff between attempts. It shares n with
// a long-running StartByteTransmitter goroutine, which actually drives the
// bytes onto the wire; TransmitFrame itself plays the collision watcher
// for each attempt, blocking until the attempt concludes one way or
// another.
func (d *Direction) TransmitFrame(n *nic.NIC, dst, src ethernet.Addr, typeOrLen ethernet.Type, payload []byte) (TransmitStatus, error) {
	frame := ethernet.Encapsulate(dst, src, typeOrLen, payload)

	d.txMu.Lock()
	d.tx = transmitState{frame: frame, attempts: 0, transmitSucceeding: false}
	d.txMu.Unlock()

	for {
		d.txMu.Lock()
		attempts := d.tx.attempts
		d.txMu.Unlock()
		if attempts >= MaxAttempts {
			return TransmitExcessiveCollisions, ErrExcessiveCollisions
		}

		if attempts > 0 {
			exp := attempts
			if exp > MaxBackoffExp {
				exp = MaxBackoffExp
			}
			k := d.intn(1 << exp)
			time.Sleep(time.Duration(k) * SlotSize * ByteTime)
		}

		d.txMu.Lock()
		d.tx.currentByte = 0
		d.tx.lastByte = len(d.tx.frame)
		d.tx.transmitSucceeding = true
		d.tx.newCollision = false
		d.txMu.Unlock()
		n.SetTransmitting(true)

		d.runCollisionWatcher(n)

		d.txMu.Lock()
		d.tx.attempts++
		succeeded := d.tx.transmitSucceeding
		d.txMu.Unlock()
		if succeeded {
			return TransmitOK, nil
		}
	}
}

// runCollisionWatcher blocks until the in-flight attempt concludes, either
// because the byte-transmitter finished the frame or because it observed
// a collision on the medium.
func (d *Direction) runCollisionWatcher(n *nic.NIC) {
	for n.Transmitting() {
		d.txMu.Lock()
		if d.tx.transmitSucceeding && n.CollisionDetect() {
			d.tx.newCollision = true
			d.tx.transmitSucceeding = false
			d.txMu.Unlock()
			return
		}
		d.txMu.Unlock()
		time.Sleep(spinInterval)
	}
}

// StartByteTransmitter runs the long-lived per-direction coroutine that
// actually drives outgoing_frame onto the current NIC one byte per
// iteration while it is transmitting. current is called once per
// iteration rather than fixed at startup because a Switch rotates which
// NIC its single MAC direction is bound to between frames; an EndDevice
// simply always returns its one NIC. It returns only once stop is closed;
// call it in its own goroutine once per device direction, the way a
// device's byte-transmitter task is spawned at device start.
func (d *Direction) StartByteTransmitter(current func() *nic.NIC, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		n := current()
		if !n.Transmitting() {
			time.Sleep(spinInterval)
			continue
		}

		d.txMu.Lock()
		if d.tx.newCollision {
			d.tx.newCollision = false
			d.txMu.Unlock()
			n.SetTransmitting(false)
			continue
		}
		idx := d.tx.currentByte
		var b byte
		if idx < len(d.tx.frame) {
			b = d.tx.frame[idx]
		}
		d.txMu.Unlock()

		n.Transmit(b)

		d.txMu.Lock()
		d.tx.currentByte++
		done := d.tx.currentByte >= d.tx.lastByte
		d.txMu.Unlock()
		if done {
			n.SetTransmitting(false)
		}

		time.Sleep(ByteTime)
	}
}
