package ethernet

import "encoding/binary"

// HeaderSize is the fixed size in bytes of an Ethernet header: destination
// address, source address and the type/length field. No VLAN tagging is
// supported by this simulator.
const HeaderSize = 2*AddrLen + 2

// Header is the fixed 14-byte Ethernet header: destination MAC (6), source
// MAC (6), type/length (2, big-endian).
type Header struct {
	Destination Addr
	Source      Addr
	TypeOrLen   Type
}

// Put writes the header to the first HeaderSize bytes of dst in wire order.
// It panics if dst is shorter than HeaderSize.
func (h Header) Put(dst []byte) {
	_ = dst[HeaderSize-1]
	copy(dst[0:AddrLen], h.Destination[:])
	copy(dst[AddrLen:2*AddrLen], h.Source[:])
	binary.BigEndian.PutUint16(dst[2*AddrLen:HeaderSize], uint16(h.TypeOrLen))
}

// ParseHeader decodes a Header from the first HeaderSize bytes of src.
func ParseHeader(src []byte) (h Header, err error) {
	if len(src) < HeaderSize {
		return Header{}, errShortHeader
	}
	copy(h.Destination[:], src[0:AddrLen])
	copy(h.Source[:], src[AddrLen:2*AddrLen])
	h.TypeOrLen = Type(binary.BigEndian.Uint16(src[2*AddrLen : HeaderSize]))
	return h, nil
}
