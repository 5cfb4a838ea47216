package nic

import (
	"testing"

	"github.com/cyberphantom52/network-simulator/link"
)

func TestNICCarrierSense(t *testing.T) {
	a, b := New(), New()
	la, lb := link.Connection()
	a.SetConnection(la)
	b.SetConnection(lb)

	if a.IsReceiving() {
		t.Fatal("a reports carrier before any byte was sent")
	}
	b.Transmit(0xAB)
	if !a.IsReceiving() {
		t.Fatal("a does not report carrier after b transmitted")
	}
	if _, ok := a.Receive(); !ok {
		t.Fatal("a.Receive() found nothing after carrier was sensed")
	}
	if a.IsReceiving() {
		t.Fatal("a still reports carrier after draining its only byte")
	}
}

func TestNICCollisionDetect(t *testing.T) {
	a, b := New(), New()
	la, lb := link.Connection()
	a.SetConnection(la)
	b.SetConnection(lb)

	a.SetTransmitting(true)
	if a.CollisionDetect() {
		t.Fatal("collision reported with no inbound carrier")
	}
	b.Transmit(1)
	if !a.CollisionDetect() {
		t.Fatal("collision not reported while transmitting with inbound carrier present")
	}
}

func TestNICDisconnectPropagatesBothWays(t *testing.T) {
	a, b := New(), New()
	la, lb := link.Connection()
	a.SetConnection(la)
	b.SetConnection(lb)

	a.SetConnection(link.Link{})

	b.Transmit(1)
	if _, ok := b.Receive(); ok {
		t.Fatal("b.Receive() returned a byte after its peer disconnected")
	}
	if b.IsConnected() {
		t.Fatal("b still reports connected after its peer disconnected and it noticed via Transmit")
	}
}
