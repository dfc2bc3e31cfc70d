package dkg

import "github.com/luxfi/gennaro-dkg/pkg/curve"

// Output is one outbound payload addressed to a single destination.
// Self-addressed entries are never produced; a participant applies its own
// contribution directly rather than routing it through the transport.
type Output struct {
	DstOrdinal int
	DstID      curve.Scalar
	Bytes      []byte
}

type recipient struct {
	ordinal int
	id      curve.Scalar
}

// OutputGenerator lazily enumerates the destinations for one run() call's
// outbound payload. Round 1, Round 3, Round 4, and Round 5 are true
// broadcasts: identical bytes addressed to every destination. Round 2
// builds a distinct per-peer payload for each destination, so its
// generator holds one entry per recipient rather than one shared slice;
// callers see the same {dst_ordinal, dst_id, bytes} shape regardless.
type OutputGenerator struct {
	entries []Output
	pos     int
}

func newBroadcastOutput(recipients []recipient, body []byte) *OutputGenerator {
	entries := make([]Output, len(recipients))
	for i, r := range recipients {
		entries[i] = Output{DstOrdinal: r.ordinal, DstID: r.id, Bytes: body}
	}
	return &OutputGenerator{entries: entries}
}

func newPerPeerOutput(entries []Output) *OutputGenerator {
	return &OutputGenerator{entries: entries}
}

func emptyOutput() *OutputGenerator {
	return &OutputGenerator{}
}

// Next returns the next output and true, or the zero Output and false once
// the generator is exhausted.
func (g *OutputGenerator) Next() (Output, bool) {
	if g == nil || g.pos >= len(g.entries) {
		return Output{}, false
	}
	out := g.entries[g.pos]
	g.pos++
	return out, true
}

// All drains the remaining outputs into a slice, for callers that do not
// need the laziness (the dispatcher harness among them).
func (g *OutputGenerator) All() []Output {
	if g == nil {
		return nil
	}
	out := make([]Output, len(g.entries)-g.pos)
	copy(out, g.entries[g.pos:])
	g.pos = len(g.entries)
	return out
}
