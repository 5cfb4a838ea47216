// Package physical implements the capability shared by every device that
// owns one or more NICs: allocating a free port, wiring two devices
// together over a fresh Connection, and tearing that wiring down again.
// EndDevice embeds a one-NIC Pool; Hub and Switch embed an eight-NIC one.
package physical

import (
	"errors"

	"github.com/cyberphantom52/network-simulator/link"
	"github.com/cyberphantom52/network-simulator/nic"
)

// ErrNoFreePort is returned by Connect when either side has no free NIC.
var ErrNoFreePort = errors.New("physical: no free port available")

// PortBank is the capability any device with one or more NICs exposes to
// Connect: find the lowest-indexed free port and hand back its NIC. Pool
// implements it directly; Bus implements it over its own
// (hub_index<<16)|port_within_hub indexing scheme.
type PortBank interface {
	Free() (port int, ok bool)
	NIC(port int) *nic.NIC
}

// Pool is a fixed-size bank of NICs indexed by port number.
type Pool struct {
	nics []*nic.NIC
}

// NewPool allocates n NICs, each with a freshly generated random address.
func NewPool(n int) *Pool {
	p := &Pool{nics: make([]*nic.NIC, n)}
	for i := range p.nics {
		p.nics[i] = nic.New()
	}
	return p
}

// Len reports the number of ports in the pool.
func (p *Pool) Len() int { return len(p.nics) }

// NIC returns the NIC at the given port number. It panics if port is out of
// range, the same contract Go slice indexing gives its callers.
func (p *Pool) NIC(port int) *nic.NIC { return p.nics[port] }

// Free returns the lowest-indexed port with no connection, or ok=false if
// every port is in use.
func (p *Pool) Free() (port int, ok bool) {
	for i, n := range p.nics {
		if !n.IsConnected() {
			return i, true
		}
	}
	return 0, false
}

// Connected returns the ports whose NIC currently has a live connection,
// in ascending order.
func (p *Pool) Connected() []int {
	var ports []int
	for i, n := range p.nics {
		if n.IsConnected() {
			ports = append(ports, i)
		}
	}
	return ports
}

// Disconnect tears down whatever is attached to the given port. It is a
// no-op if the port is already free, so repeated calls are safe.
func (p *Pool) Disconnect(port int) {
	p.nics[port].SetConnection(link.Link{})
}

// Connect allocates a free port on each bank and joins them with a new
// Connection. It fails with ErrNoFreePort if either side is fully
// occupied; no state is changed in that case.
func Connect(a, b PortBank) error {
	pa, oka := a.Free()
	pb, okb := b.Free()
	if !oka || !okb {
		return ErrNoFreePort
	}
	la, lb := link.Connection()
	a.NIC(pa).SetConnection(la)
	b.NIC(pb).SetConnection(lb)
	return nil
}

// ConnectAt is Connect for a caller that has already chosen specific
// ports, such as wiring a fixed topology like Bus's internal hub chain.
func ConnectAt(a PortBank, portA int, b PortBank, portB int) {
	la, lb := link.Connection()
	a.NIC(portA).SetConnection(la)
	b.NIC(portB).SetConnection(lb)
}
