// Package mac implements the MAC sublayer: frame encapsulation over a NIC,
// half-duplex CSMA/CD transmission with truncated binary exponential
// backoff, and the receive loop that reassembles a frame from the bytes a
// NIC delivers while carrier is sensed.
package mac

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	mathrand "math/rand/v2"
	"sync"
	"time"

	"github.com/cyberphantom52/network-simulator/ethernet"
)

// Constants fixed by the classic Ethernet access-control discipline this
// package reproduces. They are not user-tunable.
const (
	SlotSize      = 512 // byte-times per backoff slot
	IFS           = 12  // byte-times of inter-frame spacing
	MaxAttempts   = 16
	MaxBackoffExp = 10
)

// ByteTime is the simulated duration of placing one byte on the wire. The
// specification measures backoff in byte-times; this package converts that
// logical unit into a real sleep so a single-process scheduler still
// interleaves devices the way independent transmitters would. Tests that
// want deterministic timing should shrink this before running.
var ByteTime = time.Microsecond

// TransmitStatus reports the outcome of a CSMA/CD transmission attempt.
type TransmitStatus int

const (
	TransmitOK TransmitStatus = iota
	TransmitExcessiveCollisions
)

// ErrExcessiveCollisions is returned by TransmitFrame when MaxAttempts
// consecutive collisions exhaust the retry budget.
var ErrExcessiveCollisions = errors.New("mac: excessive collisions")

// Result is a successfully decapsulated and delivered frame.
type Result struct {
	Destination ethernet.Addr
	Source      ethernet.Addr
	TypeOrLen   ethernet.Type
	Payload     []byte
}

// transmitState is the per-direction CSMA/CD bookkeeping. It is mutated by
// TransmitFrame and observed by the byte-transmitter and collision-watcher
// loops under txMu. txMu is never held across a NIC Transmit or Receive;
// the collision watcher does hold it while reading the NIC's flags.
type transmitState struct {
	frame              []byte
	currentByte        int
	lastByte           int
	attempts           int
	transmitSucceeding bool
	newCollision       bool
}

// receiveState is armed while carrier is sensed and reset once a frame has
// been delivered or discarded.
type receiveState struct {
	frame             []byte
	receiving         bool
	receiveSucceeding bool
}

// Direction is one MAC client attached to a single NIC: the encapsulation,
// CSMA/CD transmit loop, and frame receive loop for that NIC. EndDevice
// embeds exactly one; Switch multiplexes a single Direction across its
// port pool by rotating which NIC is bound to it between frames.
type Direction struct {
	recognize func(ethernet.Addr) bool

	txMu sync.Mutex
	tx   transmitState

	rxMu sync.Mutex
	rx   receiveState

	rngMu sync.Mutex
	rng   *mathrand.Rand
}

// New returns a Direction that accepts the frames whose destination
// address satisfies recognize. End stations pass RecognizesOwn (own
// address or broadcast); switch-like devices pass PromiscuousRecognize.
func New(recognize func(ethernet.Addr) bool) *Direction {
	return &Direction{
		recognize: recognize,
		rng:       mathrand.New(mathrand.NewPCG(seed64(), seed64())),
	}
}

// RecognizesOwn builds the end-station address-recognition predicate:
// accept the device's own address or the broadcast address.
func RecognizesOwn(own ethernet.Addr) func(ethernet.Addr) bool {
	return func(dst ethernet.Addr) bool {
		return dst == own || dst.IsBroadcast()
	}
}

// PromiscuousRecognize always accepts, the switch default.
func PromiscuousRecognize(ethernet.Addr) bool { return true }

// SetRNG overrides the backoff/tie-break source with a caller-supplied
// one, for reproducible tests.
func (d *Direction) SetRNG(r *mathrand.Rand) {
	d.rngMu.Lock()
	d.rng = r
	d.rngMu.Unlock()
}

func (d *Direction) intn(n int) int {
	d.rngMu.Lock()
	defer d.rngMu.Unlock()
	return d.rng.IntN(n)
}

// seed64 draws a production seed from the OS CSPRNG, matching the
// project-wide convention that only tests fix their randomness.
func seed64() uint64 {
	var b [8]byte
	rand.Read(b[:])
	return binary.BigEndian.Uint64(b[:])
}
