package ethernet

import (
	"encoding/binary"
	"errors"
)

// Wire-format constants shared by the MAC sublayer.
const (
	// Preamble is the single flag byte that opens every frame placed on the medium.
	Preamble = 0xAB
	// PadByte is the fill value used to reach MinFrameSize.
	PadByte = 0x55
	// CRCSize is the width in bytes of the trailing frame check sequence.
	CRCSize = 4
	// MinFrameSize is the minimum size, in bytes, of header+payload+pad+FCS (i.e.
	// everything on the wire except the leading Preamble byte).
	MinFrameSize = 64
	// MaxBasicFrameSize is the largest untagged Ethernet frame, header through FCS.
	MaxBasicFrameSize = 1518
	// MaxEnvelopeFrameSize bounds the payload a receiver will accept after
	// decapsulation; larger values are rejected as FrameTooLong.
	MaxEnvelopeFrameSize = 2000
)

var (
	errShortHeader = errors.New("ethernet: buffer shorter than header")

	// ErrFrameCheck covers FCS mismatch, address mismatch and undersize captures.
	ErrFrameCheck = errors.New("ethernet: frame check error")
	// ErrFrameTooLong is returned when a decapsulated payload exceeds MaxEnvelopeFrameSize.
	ErrFrameTooLong = errors.New("ethernet: frame too long")
)

// Encapsulate builds the exact byte sequence placed on the medium for a
// frame carrying payload from src to dst with the given type/length field:
//
//	[1 byte preamble 0xAB][14 byte header][payload][padding][4 byte FCS, little-endian]
//
// Padding of PadByte is appended so that header+payload+pad+FCS is at least
// MinFrameSize bytes, and the FCS is computed over every byte that precedes it.
func Encapsulate(dst, src Addr, typeOrLen Type, payload []byte) []byte {
	padLen := MinFrameSize - (HeaderSize + CRCSize + len(payload))
	if padLen < 0 {
		padLen = 0
	}
	total := 1 + HeaderSize + len(payload) + padLen + CRCSize
	out := make([]byte, total)
	out[0] = Preamble
	h := Header{Destination: dst, Source: src, TypeOrLen: typeOrLen}
	h.Put(out[1 : 1+HeaderSize])
	n := copy(out[1+HeaderSize:], payload)
	pad := out[1+HeaderSize+n : total-CRCSize]
	for i := range pad {
		pad[i] = PadByte
	}
	crc := CRC32(out[:total-CRCSize])
	binary.LittleEndian.PutUint32(out[total-CRCSize:], crc)
	return out
}

// Decapsulate validates and unpacks a frame captured from the medium,
// beginning with its 1-byte preamble. recognize reports whether the
// destination address found in the frame should be accepted by this
// receiver; a switch passes a predicate that always returns true.
//
// Decapsulate returns ErrFrameCheck for an FCS mismatch, an unrecognized
// destination, or an undersize capture, and ErrFrameTooLong if the
// recovered payload exceeds MaxEnvelopeFrameSize.
func Decapsulate(frame []byte, recognize func(Addr) bool) (dst, src Addr, typeOrLen Type, payload []byte, err error) {
	if CRC32(frame) != 0 {
		return dst, src, 0, nil, ErrFrameCheck
	}
	if len(frame) < 1+HeaderSize {
		return dst, src, 0, nil, ErrFrameCheck
	}
	copy(dst[:], frame[1:1+AddrLen])
	if !recognize(dst) {
		return dst, src, 0, nil, ErrFrameCheck
	}
	copy(src[:], frame[1+AddrLen:1+2*AddrLen])
	typeOrLen = Type(binary.BigEndian.Uint16(frame[1+2*AddrLen : 1+HeaderSize]))
	remainder := frame[1+HeaderSize:]
	if typeOrLen.IsLength() {
		if int(typeOrLen) > len(remainder) {
			return dst, src, 0, nil, ErrFrameCheck
		}
		payload = remainder[:typeOrLen]
	} else {
		payload = remainder
	}
	if len(payload) > MaxEnvelopeFrameSize {
		return dst, src, 0, nil, ErrFrameTooLong
	}
	return dst, src, typeOrLen, payload, nil
}
