package device

import (
	"github.com/google/uuid"

	"github.com/cyberphantom52/network-simulator/nic"
	"github.com/cyberphantom52/network-simulator/physical"
)

// BusJunctions is the fixed number of hubs chained to form a Bus.
const BusJunctions = 5

// Bus widens a Hub's broadcast domain by chaining BusJunctions of them:
// junction i is cross-connected to junction i-1 through one NIC on each
// side at construction time, so a byte injected at any junction reaches
// every other junction after enough ticks propagate it down the chain.
type Bus struct {
	id        uuid.UUID
	junctions [BusJunctions]*Hub
}

// NewBus builds a Bus and wires its internal hub chain.
func NewBus() *Bus {
	b := &Bus{id: uuid.New()}
	for i := range b.junctions {
		b.junctions[i] = NewHub()
	}
	for i := 1; i < BusJunctions; i++ {
		physical.Connect(b.junctions[i].Pool(), b.junctions[i-1].Pool())
	}
	return b
}

// ID returns the Bus's generated identity, used to tell topologies apart
// in logs when more than one is in play.
func (b *Bus) ID() uuid.UUID { return b.id }

// index splits a Bus port number into its junction and the port within
// that junction's hub, per the (hub_index<<16)|port_within_hub scheme.
func index(port int) (junction, portInHub int) {
	return port >> 16, port & 0xFFFF
}

func encode(junction, portInHub int) int {
	return junction<<16 | portInHub
}

// NIC returns the NIC behind the given Bus-wide port number.
func (b *Bus) NIC(port int) *nic.NIC {
	j, p := index(port)
	return b.junctions[j].Pool().NIC(p)
}

// Free returns the lowest-hub, lowest-port free NIC across the chain, so
// Bus satisfies physical.PortBank the same way a flat Pool does.
func (b *Bus) Free() (port int, ok bool) {
	for j, hub := range b.junctions {
		if p, ok := hub.Pool().Free(); ok {
			return encode(j, p), true
		}
	}
	return 0, false
}

// Tick advances every junction hub one step. The hubs share no state with
// one another beyond the Links wiring them together, so ticking them in
// any order (or concurrently) is safe. They are ticked in index order, so
// a byte heading toward higher-numbered junctions can cross more than one
// hop in a single Tick.
func (b *Bus) Tick() {
	for _, hub := range b.junctions {
		hub.Tick()
	}
}
