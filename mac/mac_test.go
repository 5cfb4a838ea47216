package mac

import (
	"testing"
	"time"

	"github.com/cyberphantom52/network-simulator/ethernet"
	"github.com/cyberphantom52/network-simulator/link"
	"github.com/cyberphantom52/network-simulator/nic"
)

func init() {
	// Keep the suite fast: real backoff/byte-time sleeps would make a
	// 16-attempt worst case take milliseconds-to-seconds for no benefit
	// in a unit test.
	ByteTime = 100 * time.Nanosecond
	spinInterval = 50 * time.Nanosecond
}

// TestDirectMACDelivery reproduces the specification's direct-delivery
// scenario: two end stations wired back to back, one frame sent, one
// frame received byte-identical.
func TestDirectMACDelivery(t *testing.T) {
	nicA, nicB := nic.New(), nic.New()
	la, lb := link.Connection()
	nicA.SetConnection(la)
	nicB.SetConnection(lb)

	dirA := New(RecognizesOwn(nicA.MAC()))
	dirB := New(RecognizesOwn(nicB.MAC()))

	stop := make(chan struct{})
	defer close(stop)
	go dirA.StartByteTransmitter(func() *nic.NIC { return nicA }, stop)
	go dirB.StartByteTransmitter(func() *nic.NIC { return nicB }, stop)

	resultCh := make(chan Result, 1)
	errCh := make(chan error, 1)
	go func() {
		r, err := dirB.ReceiveFrame(nicB)
		resultCh <- r
		errCh <- err
	}()

	status, err := dirA.TransmitFrame(nicA, nicB.MAC(), nicA.MAC(), 5, []byte("Hello"))
	if err != nil || status != TransmitOK {
		t.Fatalf("TransmitFrame: status=%v err=%v", status, err)
	}

	select {
	case r := <-resultCh:
		if err := <-errCh; err != nil {
			t.Fatalf("ReceiveFrame: %v", err)
		}
		if r.Destination != nicB.MAC() || r.Source != nicA.MAC() {
			t.Fatalf("addresses mismatch: dst=%s src=%s", r.Destination, r.Source)
		}
		if int(r.TypeOrLen) != 5 {
			t.Fatalf("typeOrLen = %d, want 5", r.TypeOrLen)
		}
		want := []byte{72, 101, 108, 108, 111}
		if string(r.Payload) != string(want) {
			t.Fatalf("payload = %v, want %v", r.Payload, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestTransmitFrameExcessiveCollisions(t *testing.T) {
	n := nic.New()
	l, peer := link.Connection()
	n.SetConnection(l)
	d := New(RecognizesOwn(n.MAC()))

	stop := make(chan struct{})
	defer close(stop)
	go d.StartByteTransmitter(func() *nic.NIC { return n }, stop)

	// Force a permanent collision: something else keeps carrier asserted
	// on n's inbound side for the whole test, so every attempt sees
	// collision_detect true as soon as it starts transmitting.
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			peer.Send(0xFF)
			time.Sleep(time.Microsecond)
		}
	}()

	dst := ethernet.Broadcast()
	status, err := d.TransmitFrame(n, dst, n.MAC(), 1, []byte{1})
	if status != TransmitExcessiveCollisions || err != ErrExcessiveCollisions {
		t.Fatalf("status=%v err=%v, want ExcessiveCollisions", status, err)
	}
}
