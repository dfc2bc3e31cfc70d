// Package party holds the protocol's frozen configuration: the threshold,
// the participant identifiers, and the two generators the VSS layer commits
// against. Nothing in this package is mutated after construction.
package party

import (
	"fmt"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
)

// Parameters is the immutable configuration shared by every participant in
// one protocol run. Two participants constructed from equal Parameters
// agree on threshold, generators, and the ordered identifier list.
type Parameters struct {
	group           curve.Curve
	threshold       int
	limit           int
	messageGen      curve.Point
	blinderGen      curve.Point
	identifiers     []curve.Scalar
}

// Option configures a Parameters during construction.
type Option func(*builderState)

type builderState struct {
	messageGen  curve.Point
	blinderGen  curve.Point
	identifiers []curve.Scalar
}

// WithMessageGenerator overrides the default message generator (the curve's
// base point).
func WithMessageGenerator(g curve.Point) Option {
	return func(b *builderState) { b.messageGen = g }
}

// WithBlinderGenerator overrides the default blinder generator (hash-to-curve
// of the message generator's encoding).
func WithBlinderGenerator(g curve.Point) Option {
	return func(b *builderState) { b.blinderGen = g }
}

// WithIdentifiers overrides the default sequential identifier list 1..n. The
// supplied slice becomes the ordering: identifiers[i] is the id at ordinal i.
func WithIdentifiers(ids []curve.Scalar) Option {
	return func(b *builderState) { b.identifiers = ids }
}

const blinderGeneratorDomain = "gennaro-dkg/v1/blinder-generator"

// NewParameters builds a frozen Parameters, applying the paper's defaults
// for any generator or identifier list not supplied: the message generator
// defaults to the curve's base point, the blinder generator defaults to
// hash-to-curve of the message generator's encoding, and identifiers default
// to the sequence 1, 2, ..., n in the scalar field.
//
// Returns BadConfig-flavored errors (via errors.go's Error type at the call
// site in protocols/dkg; here plain errors, wrapped by the caller) when
// t < 1, t > n, either generator is identity, the generators coincide, or
// the identifier list does not supply n distinct non-zero values.
func NewParameters(group curve.Curve, threshold, limit int, opts ...Option) (*Parameters, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("party: threshold must be at least 1, got %d", threshold)
	}
	if limit < 1 {
		return nil, fmt.Errorf("party: limit must be at least 1, got %d", limit)
	}
	if threshold > limit {
		return nil, fmt.Errorf("party: threshold %d exceeds limit %d", threshold, limit)
	}

	var b builderState
	for _, opt := range opts {
		opt(&b)
	}

	messageGen := b.messageGen
	if messageGen == nil {
		messageGen = group.Generator()
	}
	if messageGen.IsIdentity() {
		return nil, fmt.Errorf("party: message generator must not be identity")
	}

	blinderGen := b.blinderGen
	if blinderGen == nil {
		blinderGen = group.HashToCurve([]byte(blinderGeneratorDomain), messageGen.Bytes())
	}
	if blinderGen.IsIdentity() {
		return nil, fmt.Errorf("party: blinder generator must not be identity")
	}
	if blinderGen.Equal(messageGen) {
		return nil, fmt.Errorf("party: blinder generator must differ from message generator")
	}

	identifiers := b.identifiers
	if identifiers == nil {
		identifiers = make([]curve.Scalar, limit)
		for i := 0; i < limit; i++ {
			identifiers[i] = group.ScalarFromUint64(uint64(i + 1))
		}
	}
	if len(identifiers) < limit {
		return nil, fmt.Errorf("party: identifier generator yielded %d ids, need %d", len(identifiers), limit)
	}
	identifiers = identifiers[:limit]
	for i, id := range identifiers {
		if id.IsZero() {
			return nil, fmt.Errorf("party: identifier at ordinal %d is zero", i)
		}
		for j := 0; j < i; j++ {
			if identifiers[j].Equal(id) {
				return nil, fmt.Errorf("party: identifier at ordinal %d duplicates ordinal %d", i, j)
			}
		}
	}

	return &Parameters{
		group:       group,
		threshold:   threshold,
		limit:       limit,
		messageGen:  messageGen,
		blinderGen:  blinderGen,
		identifiers: identifiers,
	}, nil
}

func (p *Parameters) Group() curve.Curve { return p.group }

func (p *Parameters) Threshold() int { return p.threshold }

func (p *Parameters) Limit() int { return p.limit }

func (p *Parameters) MessageGenerator() curve.Point { return p.messageGen }

func (p *Parameters) BlinderGenerator() curve.Point { return p.blinderGen }

// Identifiers returns the full ordered identifier list; index i is the id
// at ordinal i. Callers must not mutate the returned slice.
func (p *Parameters) Identifiers() []curve.Scalar { return p.identifiers }

// IdentifierAt returns the id at the given ordinal.
func (p *Parameters) IdentifierAt(ordinal int) (curve.Scalar, error) {
	if ordinal < 0 || ordinal >= len(p.identifiers) {
		return nil, fmt.Errorf("party: ordinal %d out of range [0,%d)", ordinal, len(p.identifiers))
	}
	return p.identifiers[ordinal], nil
}

// OrdinalOf returns the ordinal of the given id, or false if it is not part
// of this Parameters' identifier list.
func (p *Parameters) OrdinalOf(id curve.Scalar) (int, bool) {
	for i, candidate := range p.identifiers {
		if candidate.Equal(id) {
			return i, true
		}
	}
	return 0, false
}
