package ethernet

import (
	"hash/crc32"
	"math/bits"
)

// CRC-32 model parameters for the frame check sequence. This is not the
// standard IEEE 802.3 polynomial (0xEDB88320 reflected); the simulator uses
// a single fixed, reflected-in/reflected-out model with this polynomial.
const (
	crcInitial  = 0xFFFF_FFFF
	crcPoly     = 0x741B_8CD7
	crcFinalXOR = 0x0000_0000
)

// crcTable is the reflected-domain table for crcPoly, built the way the
// teacher builds its own FCS table (crc32.MakeTable over an IEEE-style
// reflected polynomial). crcPoly is quoted in its normal (non-reflected)
// form, so it is bit-reversed before handing it to MakeTable, matching how
// crc32.IEEE (0xedb88320) is itself the reflection of 0x04C11DB7.
var crcTable = crc32.MakeTable(bits.Reverse32(crcPoly))

// CRC32 computes the frame check sequence over data using the reflected
// CRC-32 model fixed by this package (initial=0xFFFFFFFF,
// poly=0x741B8CD7, reflect in/out, final XOR=0).
//
// crc32.Checksum already implements the standard reflected algorithm with
// init=0xFFFFFFFF and an implicit final complement (xorout=0xFFFFFFFF);
// since this model's final XOR is 0 rather than 0xFFFFFFFF, that implicit
// complement is undone here to land on the parameters above.
//
// The identity CRC32(append(m, littleEndian(CRC32(m))...)) == 0 holds for
// any byte sequence m; frame validation relies on it.
func CRC32(data []byte) uint32 {
	return crc32.Checksum(data, crcTable) ^ crcFinalXOR ^ 0xFFFF_FFFF
}
