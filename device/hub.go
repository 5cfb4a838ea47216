// Package device implements the intermediate-device forwarding logic:
// the pure repeater (Hub), a wider broadcast domain built from a chain of
// them (Bus), the learning bridge (Switch), and the traffic endpoint
// (EndDevice) that drives the MAC sublayer over a single NIC.
package device

import (
	"github.com/cyberphantom52/network-simulator/physical"
)

// HubPorts is the fixed number of NICs a Hub exposes.
const HubPorts = 8

// Hub is an 8-port repeater with no MAC of its own: every tick, it reads
// whatever byte is queued on each connected port and rebroadcasts the set
// of bytes it collected back out every connected port, including the one
// a byte arrived on, modelling a real shared coaxial segment where a
// station hears its own transmission.
type Hub struct {
	pool *physical.Pool
}

// NewHub allocates a Hub with HubPorts free NICs.
func NewHub() *Hub {
	return &Hub{pool: physical.NewPool(HubPorts)}
}

// Pool exposes the Hub's port bank to the physical.Connect helper.
func (h *Hub) Pool() *physical.Pool { return h.pool }

// Tick performs one repeat cycle: collect, then flood. Collecting before
// flooding (rather than forwarding byte-by-byte as each port is read)
// ensures every connected port sees the same set of bytes a tick produced,
// regardless of port iteration order.
func (h *Hub) Tick() {
	var collected []byte
	ports := h.pool.Connected()
	for _, p := range ports {
		if b, ok := h.pool.NIC(p).Receive(); ok {
			collected = append(collected, b)
		}
	}
	if len(collected) == 0 {
		return
	}
	for _, p := range ports {
		n := h.pool.NIC(p)
		for _, b := range collected {
			n.Transmit(b)
		}
	}
}
