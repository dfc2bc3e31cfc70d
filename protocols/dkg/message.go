package dkg

import (
	"fmt"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
	"github.com/luxfi/gennaro-dkg/pkg/transcript"
)

// Round1Data is the Round 1 broadcast: a commitment to the sender's Feldman
// and Pedersen verifier sets, without revealing them.
type Round1Data struct {
	SenderOrdinal int
	SenderID      curve.Scalar
	SenderType    ParticipantType
	PedersenHash  [32]byte
	FeldmanHash   [32]byte
}

func (d *Round1Data) toWire() *wireRound1 {
	return &wireRound1{
		SenderOrdinal: uint64(d.SenderOrdinal),
		SenderID:      d.SenderID.Bytes(),
		SenderType:    uint8(d.SenderType),
		PedersenHash:  d.PedersenHash[:],
		FeldmanHash:   d.FeldmanHash[:],
	}
}

func round1FromWire(group curve.Curve, w *wireRound1) (*Round1Data, error) {
	id, err := group.DecodeScalar(w.SenderID)
	if err != nil {
		return nil, fmt.Errorf("sender id: %w", err)
	}
	if len(w.PedersenHash) != 32 || len(w.FeldmanHash) != 32 {
		return nil, fmt.Errorf("commitment hash must be 32 bytes")
	}
	d := &Round1Data{
		SenderOrdinal: int(w.SenderOrdinal),
		SenderID:      id,
		SenderType:    ParticipantType(w.SenderType),
	}
	copy(d.PedersenHash[:], w.PedersenHash)
	copy(d.FeldmanHash[:], w.FeldmanHash)
	return d, nil
}

// Round2Data is addressed to a single recipient: the broadcast part (the
// Pedersen verifier set and generators) plus that recipient's own secret
// and blinder shares.
type Round2Data struct {
	SenderOrdinal     int
	SenderID          curve.Scalar
	MessageGen        curve.Point
	BlinderGen        curve.Point
	PedersenVerifiers []curve.Point
	SecretShare       curve.Scalar
	BlindShare        curve.Scalar
}

func (d *Round2Data) toWire() *wireRound2 {
	return &wireRound2{
		SenderOrdinal:     uint64(d.SenderOrdinal),
		SenderID:          d.SenderID.Bytes(),
		MessageGen:        d.MessageGen.Bytes(),
		BlinderGen:        d.BlinderGen.Bytes(),
		PedersenVerifiers: pointBytes(d.PedersenVerifiers),
		SecretShare:       d.SecretShare.Bytes(),
		BlindShare:        d.BlindShare.Bytes(),
	}
}

func round2FromWire(group curve.Curve, w *wireRound2) (*Round2Data, error) {
	id, err := group.DecodeScalar(w.SenderID)
	if err != nil {
		return nil, fmt.Errorf("sender id: %w", err)
	}
	messageGen, err := group.DecodePoint(w.MessageGen)
	if err != nil {
		return nil, fmt.Errorf("message generator: %w", err)
	}
	blinderGen, err := group.DecodePoint(w.BlinderGen)
	if err != nil {
		return nil, fmt.Errorf("blinder generator: %w", err)
	}
	verifiers, err := sortedPoints(group, w.PedersenVerifiers)
	if err != nil {
		return nil, fmt.Errorf("pedersen verifiers: %w", err)
	}
	secretShare, err := group.DecodeScalar(w.SecretShare)
	if err != nil {
		return nil, fmt.Errorf("secret share: %w", err)
	}
	blindShare, err := group.DecodeScalar(w.BlindShare)
	if err != nil {
		return nil, fmt.Errorf("blind share: %w", err)
	}
	return &Round2Data{
		SenderOrdinal:     int(w.SenderOrdinal),
		SenderID:          id,
		MessageGen:        messageGen,
		BlinderGen:        blinderGen,
		PedersenVerifiers: verifiers,
		SecretShare:       secretShare,
		BlindShare:        blindShare,
	}, nil
}

// ValidSetEntry is one (ordinal, id) pair in an echoed valid-participant set.
type ValidSetEntry struct {
	Ordinal int
	ID      curve.Scalar
}

// Round3Data is the Round 3 echo broadcast of the sender's surviving
// valid-participant set.
type Round3Data struct {
	SenderOrdinal int
	SenderID      curve.Scalar
	ValidSet      []ValidSetEntry
}

func (d *Round3Data) toWire() *wireRound3 {
	sorted := sortValidSet(d.ValidSet)
	entries := make([]wireIDEntry, len(sorted))
	for i, e := range sorted {
		entries[i] = wireIDEntry{Ordinal: uint64(e.Ordinal), ID: e.ID.Bytes()}
	}
	return &wireRound3{
		SenderOrdinal: uint64(d.SenderOrdinal),
		SenderID:      d.SenderID.Bytes(),
		ValidSet:      entries,
	}
}

func round3FromWire(group curve.Curve, w *wireRound3) (*Round3Data, error) {
	id, err := group.DecodeScalar(w.SenderID)
	if err != nil {
		return nil, fmt.Errorf("sender id: %w", err)
	}
	entries := make([]ValidSetEntry, len(w.ValidSet))
	for i, e := range w.ValidSet {
		eid, err := group.DecodeScalar(e.ID)
		if err != nil {
			return nil, fmt.Errorf("valid set entry %d: %w", i, err)
		}
		entries[i] = ValidSetEntry{Ordinal: int(e.Ordinal), ID: eid}
	}
	return &Round3Data{
		SenderOrdinal: int(w.SenderOrdinal),
		SenderID:      id,
		ValidSet:      entries,
	}, nil
}

// Round4Data is the Round 4 broadcast of the sender's Feldman verifier set.
type Round4Data struct {
	SenderOrdinal    int
	SenderID         curve.Scalar
	FeldmanVerifiers []curve.Point
}

func (d *Round4Data) toWire() *wireRound4 {
	return &wireRound4{
		SenderOrdinal:    uint64(d.SenderOrdinal),
		SenderID:         d.SenderID.Bytes(),
		FeldmanVerifiers: pointBytes(d.FeldmanVerifiers),
	}
}

func round4FromWire(group curve.Curve, w *wireRound4) (*Round4Data, error) {
	id, err := group.DecodeScalar(w.SenderID)
	if err != nil {
		return nil, fmt.Errorf("sender id: %w", err)
	}
	verifiers, err := sortedPoints(group, w.FeldmanVerifiers)
	if err != nil {
		return nil, fmt.Errorf("feldman verifiers: %w", err)
	}
	return &Round4Data{
		SenderOrdinal:    int(w.SenderOrdinal),
		SenderID:         id,
		FeldmanVerifiers: verifiers,
	}, nil
}

// Round5Data is the Round 5 echo broadcast confirming the protocol
// transcript and the combined public key.
type Round5Data struct {
	SenderOrdinal  int
	SenderID       curve.Scalar
	TranscriptHash [32]byte
	PublicKey      curve.Point
}

func (d *Round5Data) toWire() *wireRound5 {
	return &wireRound5{
		SenderOrdinal:  uint64(d.SenderOrdinal),
		SenderID:       d.SenderID.Bytes(),
		TranscriptHash: d.TranscriptHash[:],
		PublicKey:      d.PublicKey.Bytes(),
	}
}

func round5FromWire(group curve.Curve, w *wireRound5) (*Round5Data, error) {
	id, err := group.DecodeScalar(w.SenderID)
	if err != nil {
		return nil, fmt.Errorf("sender id: %w", err)
	}
	if len(w.TranscriptHash) != 32 {
		return nil, fmt.Errorf("transcript hash must be 32 bytes")
	}
	pk, err := group.DecodePoint(w.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	d := &Round5Data{
		SenderOrdinal: int(w.SenderOrdinal),
		SenderID:      id,
		PublicKey:     pk,
	}
	copy(d.TranscriptHash[:], w.TranscriptHash)
	return d, nil
}

// decodeMessage dispatches decodePayload's wire struct into the
// corresponding domain type.
func decodeMessage(group curve.Curve, data []byte) (Round, interface{}, error) {
	round, wireVal, err := decodePayload(data)
	if err != nil {
		return 0, nil, err
	}
	switch w := wireVal.(type) {
	case *wireRound1:
		d, err := round1FromWire(group, w)
		return round, d, err
	case *wireRound2:
		d, err := round2FromWire(group, w)
		return round, d, err
	case *wireRound3:
		d, err := round3FromWire(group, w)
		return round, d, err
	case *wireRound4:
		d, err := round4FromWire(group, w)
		return round, d, err
	case *wireRound5:
		d, err := round5FromWire(group, w)
		return round, d, err
	default:
		return 0, nil, fmt.Errorf("dkg: unreachable wire type %T", wireVal)
	}
}

// absorb methods fold a payload's publicly-agreed fields into a transcript,
// in the fixed field order every participant must reproduce. Round2Data
// deliberately omits SecretShare/BlindShare: those are addressed to one
// recipient and differ per destination, so they cannot be part of a value
// every participant absorbs identically.

func (d *Round1Data) absorb(t *transcript.Transcript) {
	t.WriteUint64(uint64(d.SenderType))
	t.WriteUint64(uint64(d.SenderOrdinal))
	t.WriteScalar(d.SenderID)
	t.WriteBytes(d.PedersenHash[:])
	t.WriteBytes(d.FeldmanHash[:])
}

func (d *Round2Data) absorb(t *transcript.Transcript) {
	t.WriteUint64(uint64(d.SenderOrdinal))
	t.WriteScalar(d.SenderID)
	t.WritePoint(d.MessageGen)
	t.WritePoint(d.BlinderGen)
	for _, v := range d.PedersenVerifiers {
		t.WritePoint(v)
	}
}

func (d *Round3Data) absorb(t *transcript.Transcript) {
	t.WriteUint64(uint64(d.SenderOrdinal))
	t.WriteScalar(d.SenderID)
	for _, e := range sortValidSet(d.ValidSet) {
		t.WriteUint64(uint64(e.Ordinal))
		t.WriteScalar(e.ID)
	}
}

func (d *Round4Data) absorb(t *transcript.Transcript) {
	t.WriteUint64(uint64(d.SenderOrdinal))
	t.WriteScalar(d.SenderID)
	for _, v := range d.FeldmanVerifiers {
		t.WritePoint(v)
	}
}
