package mac

import (
	"time"

	"github.com/cyberphantom52/network-simulator/ethernet"
	"github.com/cyberphantom52/network-simulator/nic"
)

// ReceiveFrame drains bytes from n while carrier is sensed, then attempts
// decapsulation once carrier drops. An undersize capture, a bad FCS, or an
// unrecognized destination address all count as retryable: the loop
// discards what it captured and arms again, exactly as a physical
// receiver would ignore noise and keep listening. It returns once a full
// frame has been captured and decapsulation has either succeeded or
// failed terminally (FrameTooLong).
//
// A byte-transmitter drives one byte onto the wire per ByteTime, so two
// independently scheduled goroutines will occasionally have the inbound
// buffer drain to empty for an instant between bytes of the same frame.
// Ending the capture on the first momentary gap would fragment frames on
// pure scheduling luck, so this loop only treats carrier as gone once no
// byte has arrived for a full IFS worth of byte-times, the same gap real
// Ethernet reserves between frames.
func (d *Direction) ReceiveFrame(n *nic.NIC) (Result, error) {
	for {
		d.rxMu.Lock()
		d.rx = receiveState{receiving: true}
		d.rxMu.Unlock()

		var captured []byte
		idleSince := time.Now()
		for n.IsConnected() {
			b, ok := n.Receive()
			if ok {
				captured = append(captured, b)
				idleSince = time.Now()
				continue
			}
			if len(captured) > 0 && time.Since(idleSince) >= IFS*ByteTime {
				break
			}
			time.Sleep(spinInterval)
		}

		d.rxMu.Lock()
		d.rx.frame = captured
		d.rx.receiving = false
		d.rxMu.Unlock()

		if len(captured) < 1+ethernet.MinFrameSize {
			time.Sleep(spinInterval)
			continue
		}

		dst, src, typeOrLen, payload, err := ethernet.Decapsulate(captured, d.recognize)
		if err == ethernet.ErrFrameCheck {
			continue
		}
		if err != nil {
			return Result{}, err
		}

		d.rxMu.Lock()
		d.rx.receiveSucceeding = true
		d.rxMu.Unlock()

		return Result{Destination: dst, Source: src, TypeOrLen: typeOrLen, Payload: payload}, nil
	}
}
