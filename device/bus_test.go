package device

import (
	"testing"
	"time"

	"github.com/cyberphantom52/network-simulator/mac"
	"github.com/cyberphantom52/network-simulator/physical"
)

// TestBusChainDelivery reproduces the specification's bus-chain scenario:
// a Bus of 5 hubs fully populated with 32 end stations (5*8 ports minus
// the 8 ports the inter-hub chain itself consumes), the first transmits
// to the last, and delivery succeeds once enough ticks have propagated
// the frame across every hop.
func TestBusChainDelivery(t *testing.T) {
	bus := NewBus()
	devices := make([]*EndDevice, 32)
	for i := range devices {
		devices[i] = NewEndDevice()
		if err := physical.Connect(devices[i].Pool(), bus); err != nil {
			t.Fatalf("Connect device %d: %v", i, err)
		}
	}
	defer func() {
		for _, d := range devices {
			d.Close()
		}
	}()

	first, last := devices[0], devices[len(devices)-1]

	received := make(chan mac.Result, 1)
	go func() {
		r, err := last.ReceiveFrame()
		if err == nil {
			received <- r
		}
	}()

	stopTicking := make(chan struct{})
	defer close(stopTicking)
	go func() {
		for {
			select {
			case <-stopTicking:
				return
			default:
			}
			bus.Tick()
			time.Sleep(mac.ByteTime)
		}
	}()

	go func() {
		status, err := first.TransmitFrame(last.MAC(), 1, []byte{9})
		if err != nil || status != mac.TransmitOK {
			t.Errorf("TransmitFrame: status=%v err=%v", status, err)
		}
	}()

	select {
	case r := <-received:
		if len(r.Payload) != 1 || r.Payload[0] != 9 {
			t.Fatalf("payload = %v, want [9]", r.Payload)
		}
		if r.Source != first.MAC() || r.Destination != last.MAC() {
			t.Fatalf("addresses mismatch: src=%s dst=%s", r.Source, r.Destination)
		}
	case <-time.After(20 * time.Second):
		t.Fatal("timed out waiting for bus-chain delivery")
	}
}
