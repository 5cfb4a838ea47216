package device

import (
	"net/netip"
	"testing"
	"time"

	"github.com/cyberphantom52/network-simulator/dhcp"
	"github.com/cyberphantom52/network-simulator/mac"
	"github.com/cyberphantom52/network-simulator/physical"
)

// TestEndDeviceDirectDelivery wires two EndDevices back to back with no
// intermediate device at all and checks a frame survives the round trip
// through the public device-level API, not just the underlying mac/nic
// types mac_test.go already exercises directly.
func TestEndDeviceDirectDelivery(t *testing.T) {
	d1, d2 := NewEndDevice(), NewEndDevice()
	defer d1.Close()
	defer d2.Close()

	if err := physical.Connect(d1.Pool(), d2.Pool()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	received := make(chan mac.Result, 1)
	errCh := make(chan error, 1)
	go func() {
		r, err := d2.ReceiveFrame()
		received <- r
		errCh <- err
	}()

	status, err := d1.TransmitFrame(d2.MAC(), 3, []byte{1, 2, 3})
	if err != nil || status != mac.TransmitOK {
		t.Fatalf("TransmitFrame: status=%v err=%v", status, err)
	}

	select {
	case r := <-received:
		if err := <-errCh; err != nil {
			t.Fatalf("ReceiveFrame: %v", err)
		}
		if r.Source != d1.MAC() || r.Destination != d2.MAC() {
			t.Fatalf("addresses mismatch: src=%s dst=%s", r.Source, r.Destination)
		}
		if string(r.Payload) != string([]byte{1, 2, 3}) {
			t.Fatalf("payload = %v, want [1 2 3]", r.Payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for direct delivery")
	}
}

// TestEndDeviceAcquireAddress exercises the §6 DHCP boundary contract
// through EndDevice.AcquireAddress with a server that answers; the APIPA
// fallback is covered by TestEndDeviceAcquireAddressFallsBackToAPIPA.
func TestEndDeviceAcquireAddress(t *testing.T) {
	d := NewEndDevice()
	defer d.Close()

	server := dhcp.NewInMemoryServer(netip.MustParsePrefix("192.168.50.0/24"))
	ip, err := d.AcquireAddress(server)
	if err != nil {
		t.Fatalf("AcquireAddress: %v", err)
	}
	if d.IP() != ip {
		t.Fatalf("IP() = %q, want %q", d.IP(), ip)
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil || !netip.MustParsePrefix("192.168.50.0/24").Contains(addr) {
		t.Fatalf("AcquireAddress returned %q outside the leased prefix", ip)
	}
}

func TestEndDeviceAcquireAddressFallsBackToAPIPA(t *testing.T) {
	d := NewEndDevice()
	defer d.Close()

	ip, err := d.AcquireAddress(nil)
	if err != nil {
		t.Fatalf("AcquireAddress: %v", err)
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		t.Fatalf("AcquireAddress returned unparseable address %q", ip)
	}
	b := addr.As4()
	if b[0] != 169 || b[1] != 254 {
		t.Fatalf("AcquireAddress fallback = %s, want 169.254.0.0/16", ip)
	}
}

// TestEndDeviceDiscoversPeerDisconnect reproduces the specification's
// auto-disconnect scenario (§8.7) at the device level: tearing down one
// side's port clears the other side's connection once it notices via a
// Transmit.
func TestEndDeviceDiscoversPeerDisconnect(t *testing.T) {
	d1, d2 := NewEndDevice(), NewEndDevice()
	defer d1.Close()
	defer d2.Close()

	if err := physical.Connect(d1.Pool(), d2.Pool()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	d1.Pool().Disconnect(0)

	d2.NIC().Transmit(0xAB)
	if d2.NIC().IsConnected() {
		t.Fatal("d2 still reports connected after its peer disconnected and it noticed via Transmit")
	}
}
