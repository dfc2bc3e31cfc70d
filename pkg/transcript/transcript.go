// Package transcript implements the append-only, domain-separated sponge
// the protocol uses both for commitment hashes and for the per-participant
// running transcript. It is a thin, DKG-specific replacement for a
// Strobe/Merlin transcript, built on blake3 the way the teacher builds its
// round hash on top of a keyed sponge.
package transcript

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
)

// Transcript absorbs labeled data in a fixed order and extracts 32-byte
// challenges. Absorption order must match bit-for-bit across participants;
// callers are responsible for sorting any payload collections (by ordinal)
// before absorbing them.
type Transcript struct {
	h *blake3.Hasher
}

// New starts a fresh transcript. A caller that wants an independent,
// reusable hasher for a one-shot commitment (rather than the long-lived
// per-participant transcript) should also call New.
func New() *Transcript {
	return &Transcript{h: blake3.New()}
}

// WriteLabel absorbs a fixed domain-separation label, length-prefixed so
// that no two distinct (label, data) absorptions can collide.
func (t *Transcript) WriteLabel(label string) {
	t.writeLenPrefixed([]byte(label))
}

// WriteUint64 absorbs a little-endian u64, without a length prefix.
func (t *Transcript) WriteUint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = t.h.Write(buf[:])
}

// WriteBytes absorbs a length-prefixed byte string.
func (t *Transcript) WriteBytes(b []byte) {
	t.writeLenPrefixed(b)
}

// WriteScalar absorbs a scalar's canonical encoding.
func (t *Transcript) WriteScalar(s curve.Scalar) {
	t.writeLenPrefixed(s.Bytes())
}

// WritePoint absorbs a point's canonical encoding.
func (t *Transcript) WritePoint(p curve.Point) {
	t.writeLenPrefixed(p.Bytes())
}

func (t *Transcript) writeLenPrefixed(b []byte) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(b)))
	_, _ = t.h.Write(lenBuf[:])
	_, _ = t.h.Write(b)
}

// Challenge extracts a 32-byte digest labeled by name without consuming the
// transcript: later absorptions continue to build on everything absorbed so
// far, including this challenge's label.
func (t *Transcript) Challenge(label string) [32]byte {
	t.WriteLabel(label)
	sum := t.h.Sum(nil)
	var out [32]byte
	copy(out[:], sum)
	return out
}

// CommitmentHash is a convenience one-shot transcript for the Round 1
// Pedersen/Feldman commitment hashes: absorbs participant type, sender
// ordinal, sender id, threshold, and each verifier in order, then extracts
// the labeled challenge.
func CommitmentHash(label string, participantType uint8, senderOrdinal uint64, senderID curve.Scalar, threshold uint64, verifiers []curve.Point) [32]byte {
	t := New()
	t.WriteUint64(uint64(participantType))
	t.WriteUint64(senderOrdinal)
	t.WriteScalar(senderID)
	t.WriteUint64(threshold)
	for _, v := range verifiers {
		t.WritePoint(v)
	}
	return t.Challenge(label)
}
