package device

import (
	"github.com/cyberphantom52/network-simulator/dhcp"
	"github.com/cyberphantom52/network-simulator/ethernet"
	"github.com/cyberphantom52/network-simulator/mac"
	"github.com/cyberphantom52/network-simulator/nic"
	"github.com/cyberphantom52/network-simulator/physical"
)

// EndDevice is a traffic endpoint: a single NIC and a single MAC
// direction. It has no forwarding logic; it is the source or sink of
// frames the rest of the topology moves around.
type EndDevice struct {
	pool *physical.Pool
	dir  *mac.Direction
	stop chan struct{}

	ip string // dotted-quad leased from an external DHCP collaborator
}

// NewEndDevice allocates an EndDevice with one NIC, arms its MAC
// direction to accept frames addressed to that NIC or to broadcast, and
// starts its byte-transmitter coroutine.
func NewEndDevice() *EndDevice {
	pool := physical.NewPool(1)
	d := &EndDevice{
		pool: pool,
		dir:  mac.New(mac.RecognizesOwn(pool.NIC(0).MAC())),
		stop: make(chan struct{}),
	}
	go d.dir.StartByteTransmitter(func() *nic.NIC { return d.pool.NIC(0) }, d.stop)
	return d
}

// Pool exposes the EndDevice's one-NIC bank to physical.Connect.
func (d *EndDevice) Pool() *physical.Pool { return d.pool }

// NIC returns the EndDevice's single network interface.
func (d *EndDevice) NIC() *nic.NIC { return d.pool.NIC(0) }

// MAC returns the EndDevice's hardware address.
func (d *EndDevice) MAC() ethernet.Addr { return d.pool.NIC(0).MAC() }

// Close stops the EndDevice's byte-transmitter coroutine. Safe to call
// once; calling it twice panics on the closed channel, matching the
// fail-fast-on-misuse posture the rest of this package takes.
func (d *EndDevice) Close() { close(d.stop) }

// TransmitFrame runs the CSMA/CD access-control loop to deliver one frame
// out this device's NIC.
func (d *EndDevice) TransmitFrame(dst ethernet.Addr, typeOrLen ethernet.Type, payload []byte) (mac.TransmitStatus, error) {
	return d.dir.TransmitFrame(d.pool.NIC(0), dst, d.MAC(), typeOrLen, payload)
}

// ReceiveFrame blocks until one frame addressed to this device (or to
// broadcast) has been captured and validated.
func (d *EndDevice) ReceiveFrame() (mac.Result, error) {
	return d.dir.ReceiveFrame(d.pool.NIC(0))
}

// AcquireAddress fetches an IPv4 address from an external DHCP
// collaborator, falling back to an APIPA address if none answers. This is
// the one contract named at the spec's DHCP boundary; the server itself
// lives entirely outside the core.
func (d *EndDevice) AcquireAddress(server dhcp.Server) (string, error) {
	ip, err := dhcp.Acquire(server, d.MAC())
	if err != nil {
		return "", err
	}
	d.ip = ip
	return ip, nil
}

// IP returns the address last obtained via AcquireAddress, or "" if none
// has been requested yet.
func (d *EndDevice) IP() string { return d.ip }
