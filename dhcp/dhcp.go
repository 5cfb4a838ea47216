// Package dhcp defines the one external contract the core relies on for
// IPv4 address assignment, and a minimal in-memory server implementing
// it. Address assignment, lease management, and the wire protocol it
// would take to talk DHCP over a real network are explicitly out of
// scope for the core simulator; this package exists only so EndDevice has
// something concrete to call.
package dhcp

import (
	"crypto/rand"
	"fmt"
	"net/netip"
	"sync"

	"github.com/cyberphantom52/network-simulator/ethernet"
)

// Server is the external collaborator contract: hand it a requesting
// MAC, and it returns a leased IPv4 address or an error if it has none to
// give.
type Server interface {
	Dhcp(client ethernet.Addr) (netip.Addr, error)
}

// Acquire fetches an address from server, falling back to a locally
// improvised APIPA address (169.254.x.y, x and y in [1,254]) if the
// server is nil or returns an error, mirroring a real host's behavior
// when DHCP discovery times out.
func Acquire(server Server, client ethernet.Addr) (string, error) {
	if server != nil {
		addr, err := server.Dhcp(client)
		if err == nil {
			return addr.String(), nil
		}
	}
	return apipa().String(), nil
}

func apipa() netip.Addr {
	var b [2]byte
	rand.Read(b[:])
	x := 1 + int(b[0])%254
	y := 1 + int(b[1])%254
	return netip.AddrFrom4([4]byte{169, 254, byte(x), byte(y)})
}

// InMemoryServer is a trivial lease authority: a fixed prefix and a
// sequential allocator with a MAC->IP lease table that never expires,
// the same no-aging simplification the core's switch forwarding table
// makes for MAC->port entries.
type InMemoryServer struct {
	mu     sync.Mutex
	prefix netip.Prefix
	next   netip.Addr
	leases map[ethernet.Addr]netip.Addr
}

// NewInMemoryServer builds a server that leases addresses out of prefix,
// starting just after its network address.
func NewInMemoryServer(prefix netip.Prefix) *InMemoryServer {
	return &InMemoryServer{
		prefix: prefix,
		next:   prefix.Masked().Addr().Next(),
		leases: make(map[ethernet.Addr]netip.Addr),
	}
}

// Dhcp implements Server: repeat requests from the same MAC get their
// existing lease back rather than consuming a new address.
func (s *InMemoryServer) Dhcp(client ethernet.Addr) (netip.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if addr, ok := s.leases[client]; ok {
		return addr, nil
	}
	if !s.prefix.Contains(s.next) {
		return netip.Addr{}, fmt.Errorf("dhcp: address pool %s exhausted", s.prefix)
	}
	addr := s.next
	s.next = s.next.Next()
	s.leases[client] = addr
	return addr, nil
}
