package dkg

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
)

// Wire payload shapes. Each is declared with `cbor:",toarray"` so fxamacker/cbor
// encodes it as a fixed-order CBOR array rather than a map: two participants
// encoding the same logical value always produce byte-identical output, and
// there is no field-name overhead on the wire.

type wireRound1 struct {
	_             struct{} `cbor:",toarray"`
	SenderOrdinal uint64
	SenderID      []byte
	SenderType    uint8
	PedersenHash  []byte
	FeldmanHash   []byte
}

type wireRound2 struct {
	_                 struct{} `cbor:",toarray"`
	SenderOrdinal     uint64
	SenderID          []byte
	MessageGen        []byte
	BlinderGen        []byte
	PedersenVerifiers [][]byte
	SecretShare       []byte
	BlindShare        []byte
}

type wireIDEntry struct {
	_       struct{} `cbor:",toarray"`
	Ordinal uint64
	ID      []byte
}

type wireRound3 struct {
	_             struct{} `cbor:",toarray"`
	SenderOrdinal uint64
	SenderID      []byte
	ValidSet      []wireIDEntry
}

type wireRound4 struct {
	_                struct{} `cbor:",toarray"`
	SenderOrdinal    uint64
	SenderID         []byte
	FeldmanVerifiers [][]byte
}

type wireRound5 struct {
	_              struct{} `cbor:",toarray"`
	SenderOrdinal  uint64
	SenderID       []byte
	TranscriptHash []byte
	PublicKey      []byte
}

var encMode = func() cbor.EncMode {
	m, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dkg: building canonical cbor encoder: %v", err))
	}
	return m
}()

// encodePayload writes tag_byte || canonical_cbor(payload).
func encodePayload(round Round, payload interface{}) ([]byte, error) {
	body, err := encMode.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("dkg: encoding round %s payload: %w", round, err)
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, round.Tag())
	out = append(out, body...)
	return out, nil
}

// decodePayload reads the tag byte, dispatches to the matching wire struct,
// and rejects any trailing bytes left after decoding the single CBOR value.
func decodePayload(data []byte) (Round, interface{}, error) {
	if len(data) == 0 {
		return 0, nil, newErr(BadFormat, 0, -1, "empty message")
	}
	round, ok := RoundFromTag(data[0])
	if !ok {
		return 0, nil, newErr(BadFormat, 0, -1, fmt.Sprintf("unknown round tag %d", data[0]))
	}
	body := data[1:]

	var target interface{}
	switch round {
	case RoundOne:
		target = &wireRound1{}
	case RoundTwo:
		target = &wireRound2{}
	case RoundThree:
		target = &wireRound3{}
	case RoundFour:
		target = &wireRound4{}
	case RoundFive:
		target = &wireRound5{}
	}

	dec := cbor.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(target); err != nil {
		return 0, nil, wrapErr(BadFormat, round, -1, "decoding payload", err)
	}
	if dec.NumBytesRead() != len(body) {
		return 0, nil, newErr(BadFormat, round, -1, "trailing bytes after payload")
	}
	return round, target, nil
}

func sortedPoints(group curve.Curve, raw [][]byte) ([]curve.Point, error) {
	out := make([]curve.Point, len(raw))
	for i, b := range raw {
		p, err := group.DecodePoint(b)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

func pointBytes(points []curve.Point) [][]byte {
	out := make([][]byte, len(points))
	for i, p := range points {
		out[i] = p.Bytes()
	}
	return out
}

// sortValidSet returns entries sorted ascending by ordinal, matching the
// wire format's canonical map-as-sorted-vector rule.
func sortValidSet(entries []ValidSetEntry) []ValidSetEntry {
	out := make([]ValidSetEntry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out
}
