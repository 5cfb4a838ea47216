package device

import (
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/cyberphantom52/network-simulator/ethernet"
	"github.com/cyberphantom52/network-simulator/mac"
	"github.com/cyberphantom52/network-simulator/nic"
	"github.com/cyberphantom52/network-simulator/physical"
)

// pseudoPick draws a uniform index in [0,n), the switch's port
// tie-breaking source when more than one port is receiving in the same
// tick.
func pseudoPick(n int) int {
	if n == 1 {
		return 0
	}
	return rand.IntN(n)
}

// SwitchPorts is the fixed number of NICs a Switch exposes.
const SwitchPorts = 8

// fwEntry is one forwarding-table row. vlan is always 0 in this design;
// the field exists because the table's key shape is MAC, not because
// VLANs are modelled here.
type fwEntry struct {
	vlan uint8
	port int
}

// Switch is an 8-port learning bridge. It owns one MAC direction, shared
// across all eight ports by rotating which NIC is "working" at any given
// moment; PhysicalLayer's single-MAC-per-device model is preserved by
// treating the rotation itself as the serialization point for concurrent
// forwarding across ports.
type Switch struct {
	mac  ethernet.Addr
	pool *physical.Pool
	dir  *mac.Direction
	stop chan struct{}

	workingMu sync.Mutex
	working   int

	tableMu sync.Mutex
	table   map[ethernet.Addr]fwEntry

	log *slog.Logger
}

// NewSwitch allocates a Switch with SwitchPorts free NICs, a fresh
// identity of its own, and an empty forwarding table.
func NewSwitch() *Switch {
	s := &Switch{
		mac:   ethernet.NewAddr(),
		pool:  physical.NewPool(SwitchPorts),
		table: make(map[ethernet.Addr]fwEntry),
		stop:  make(chan struct{}),
		log:   slog.Default(),
	}
	s.dir = mac.New(mac.PromiscuousRecognize)
	go s.dir.StartByteTransmitter(s.currentNIC, s.stop)
	return s
}

// Pool exposes the Switch's port bank to physical.Connect.
func (s *Switch) Pool() *physical.Pool { return s.pool }

// MAC returns the Switch's own hardware address.
func (s *Switch) MAC() ethernet.Addr { return s.mac }

// Close stops the Switch's byte-transmitter coroutine.
func (s *Switch) Close() { close(s.stop) }

func (s *Switch) currentNIC() *nic.NIC {
	s.workingMu.Lock()
	p := s.working
	s.workingMu.Unlock()
	return s.pool.NIC(p)
}

func (s *Switch) setWorking(port int) {
	s.workingMu.Lock()
	s.working = port
	s.workingMu.Unlock()
}

// Tick runs one learning-bridge cycle: pick a receiving port, receive a
// frame on it, learn its source, and either forward on the learned port
// for the destination or flood every other connected port.
func (s *Switch) Tick() {
	connected := s.pool.Connected()
	var receiving []int
	for _, p := range connected {
		if s.pool.NIC(p).IsReceiving() {
			receiving = append(receiving, p)
		}
	}
	if len(receiving) == 0 {
		return
	}
	p := receiving[pseudoPick(len(receiving))]
	s.setWorking(p)

	result, err := s.dir.ReceiveFrame(s.pool.NIC(p))
	if err != nil {
		s.log.Warn("switch:drop-frame", slog.Int("port", p), slog.String("err", err.Error()))
		return
	}

	s.tableMu.Lock()
	s.table[result.Source] = fwEntry{vlan: 0, port: p}
	entry, known := s.table[result.Destination]
	s.tableMu.Unlock()

	if known {
		s.setWorking(entry.port)
		s.dir.TransmitFrame(s.pool.NIC(entry.port), result.Destination, result.Source, result.TypeOrLen, result.Payload)
		return
	}

	for _, q := range connected {
		if q == p {
			continue
		}
		s.setWorking(q)
		s.dir.TransmitFrame(s.pool.NIC(q), result.Destination, result.Source, result.TypeOrLen, result.Payload)
	}
}
