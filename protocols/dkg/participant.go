// Package dkg implements the per-participant finite-state machine for
// Gennaro, Jarecki, Krawczyk & Rabin's Distributed Key Generation protocol
// (J. Cryptology, 2007): a set of mutually distrustful participants jointly
// produce a Shamir sharing of a uniformly random scalar and agree on the
// corresponding public key, without any participant ever learning the
// secret. The same state machine also drives proactive refresh (rerandomize
// shares, keep the secret) and resharing (change the participant set and/or
// threshold, keep the secret).
//
// The package is curve-agnostic: it depends only on the capability bundle
// in pkg/curve. It performs no network I/O; run produces bytes addressed to
// peers, receive consumes bytes from peers, and the caller owns the
// transport.
package dkg

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
	"github.com/luxfi/gennaro-dkg/pkg/party"
	"github.com/luxfi/gennaro-dkg/pkg/transcript"
	"github.com/luxfi/gennaro-dkg/pkg/vss"
)

// Participant is one party's exclusively-owned state across the five-round
// protocol. It is not safe for concurrent use by multiple goroutines: the
// owning task must serialize its own Run/Receive calls.
type Participant struct {
	ordinal int
	id      curve.Scalar
	kind    ParticipantType
	params  *party.Parameters

	round Round
	fatal *Error

	split      *vss.Split
	blinder    curve.Scalar
	powersOfID []curve.Scalar

	pedersenHash [32]byte
	feldmanHash  [32]byte

	received1 map[int]*Round1Data
	received2 map[int]*Round2Data
	received3 map[int]*Round3Data
	received4 map[int]*Round4Data
	received5 map[int]*Round5Data

	validParticipantIDs map[int]curve.Scalar

	transcript *transcript.Transcript

	secretShare    curve.Scalar
	publicKey      curve.Point
	transcriptHash [32]byte
}

// New constructs a fresh participant. Secret participants draw a uniformly
// random non-zero secret from rnd; Refresh participants contribute the zero
// scalar. ordinal must index params.Identifiers(); the participant's id is
// the identifier at that ordinal.
func New(rnd io.Reader, kind ParticipantType, ordinal int, params *party.Parameters) (*Participant, error) {
	id, err := params.IdentifierAt(ordinal)
	if err != nil {
		return nil, wrapErr(BadConfig, 0, ordinal, "resolving own identifier", err)
	}

	var secret curve.Scalar
	if kind == Refresh {
		secret = params.Group().NewScalar()
	}
	// kind == Secret: leave secret nil so SplitWithBlinder draws a fresh
	// uniform non-zero value.

	return newParticipant(rnd, kind, ordinal, id, secret, params)
}

// WithSecret constructs a participant that already holds a share from a
// prior run: weightedShare is that share, pre-weighted by its old
// identifier's Lagrange coefficient over the continuing old identifiers
// (see WeightedShare in reshare.go), so that the constant terms of all
// continuing dealers sum to the prior combined secret.
func WithSecret(rnd io.Reader, kind ParticipantType, ordinal int, weightedShare curve.Scalar, params *party.Parameters) (*Participant, error) {
	id, err := params.IdentifierAt(ordinal)
	if err != nil {
		return nil, wrapErr(BadConfig, 0, ordinal, "resolving own identifier", err)
	}
	return newParticipant(rnd, kind, ordinal, id, weightedShare, params)
}

func newParticipant(rnd io.Reader, kind ParticipantType, ordinal int, id, secret curve.Scalar, params *party.Parameters) (*Participant, error) {
	if rnd == nil {
		rnd = rand.Reader
	}

	blinder, err := vss.RandomBlinder(params.Group())
	if err != nil {
		return nil, wrapErr(BadConfig, 0, ordinal, "sampling blinder", err)
	}

	split, err := vss.SplitWithBlinder(rnd, params.Group(), secret, params.Threshold(), params.MessageGenerator(), params.BlinderGenerator(), params.Identifiers())
	if err != nil {
		return nil, wrapErr(BadConfig, 0, ordinal, "splitting secret", err)
	}

	powers := curve.EvaluatePowers(params.Group(), id, params.Threshold())

	pedersenHash := transcript.CommitmentHash("pedersen commitment hash", uint8(kind), uint64(ordinal), id, uint64(params.Threshold()), split.Pedersen)
	feldmanHash := transcript.CommitmentHash("feldman commitment hash", uint8(kind), uint64(ordinal), id, uint64(params.Threshold()), split.Feldman)

	return &Participant{
		ordinal:             ordinal,
		id:                  id,
		kind:                kind,
		params:              params,
		round:               RoundOne,
		split:               split,
		blinder:             blinder,
		powersOfID:          powers,
		pedersenHash:        pedersenHash,
		feldmanHash:         feldmanHash,
		received1:           make(map[int]*Round1Data),
		received2:           make(map[int]*Round2Data),
		received3:           make(map[int]*Round3Data),
		received4:           make(map[int]*Round4Data),
		received5:           make(map[int]*Round5Data),
		validParticipantIDs: make(map[int]curve.Scalar),
		transcript:          transcript.New(),
	}, nil
}

func (p *Participant) Round() Round   { return p.round }
func (p *Participant) Ordinal() int   { return p.ordinal }
func (p *Participant) ID() curve.Scalar { return p.id }
func (p *Participant) Type() ParticipantType { return p.kind }

// GetSecretShare returns the final share once the Round Five Run has
// aggregated it, or false before that (including in Round Five before that
// Run).
func (p *Participant) GetSecretShare() (curve.Scalar, bool) {
	if p.round != RoundFive || p.secretShare == nil {
		return nil, false
	}
	return p.secretShare, true
}

// GetPublicKey returns the combined public key once the Round Five Run has
// aggregated it, or false before that (including in Round Five before that
// Run).
func (p *Participant) GetPublicKey() (curve.Point, bool) {
	if p.round != RoundFive || p.publicKey == nil {
		return nil, false
	}
	return p.publicKey, true
}

// TranscriptHash returns the Round 4-derived transcript digest once
// available.
func (p *Participant) TranscriptHash() ([32]byte, bool) {
	if p.round != RoundFive || p.secretShare == nil {
		return [32]byte{}, false
	}
	return p.transcriptHash, true
}

// Run executes the current round's outbound logic and advances the round on
// success. It fails with NotReady if the prior round has not accumulated at
// least threshold entries (Round One has no precondition).
func (p *Participant) Run() (*OutputGenerator, error) {
	if p.fatal != nil {
		return nil, p.fatal
	}
	switch p.round {
	case RoundOne:
		return p.runRoundOne()
	case RoundTwo:
		return p.runRoundTwo()
	case RoundThree:
		return p.runRoundThree()
	case RoundFour:
		return p.runRoundFour()
	case RoundFive:
		return p.runRoundFive()
	default:
		return nil, newErr(BadConfig, p.round, p.ordinal, "participant in unknown round")
	}
}

// Receive parses and validates one inbound message, storing it in the
// round bucket named by its tag. Messages for the current round or any
// earlier round are dispatched to that round's handler; only a message
// tagged for a round ahead of ours is UnexpectedRound.
func (p *Participant) Receive(data []byte) error {
	if p.fatal != nil {
		return p.fatal
	}
	round, payload, err := decodeMessage(p.params.Group(), data)
	if err != nil {
		return err
	}
	if round > p.round {
		return newErr(UnexpectedRound, round, -1, fmt.Sprintf("ahead of our round %s", p.round))
	}

	switch v := payload.(type) {
	case *Round1Data:
		return p.receiveRoundOne(v)
	case *Round2Data:
		return p.receiveRoundTwo(v)
	case *Round3Data:
		return p.receiveRoundThree(v)
	case *Round4Data:
		return p.receiveRoundFour(v)
	case *Round5Data:
		return p.receiveRoundFive(v)
	default:
		return newErr(BadFormat, round, -1, "unrecognized payload")
	}
}

func (p *Participant) fail(err *Error) *Error {
	if err.Kind.Fatal() {
		p.fatal = err
	}
	return err
}

// recipients returns every currently-valid peer (excluding self) as a
// destination for a broadcast or echo-broadcast output.
func (p *Participant) recipients() []recipient {
	out := make([]recipient, 0, len(p.validParticipantIDs))
	for ord, id := range p.validParticipantIDs {
		if ord == p.ordinal {
			continue
		}
		out = append(out, recipient{ordinal: ord, id: id})
	}
	return out
}

// allRecipients returns every other participant named in Parameters,
// regardless of validity; used only for the Round 1 commitment broadcast,
// which precedes any notion of a valid set.
func (p *Participant) allRecipients() []recipient {
	ids := p.params.Identifiers()
	out := make([]recipient, 0, len(ids)-1)
	for ord, id := range ids {
		if ord == p.ordinal {
			continue
		}
		out = append(out, recipient{ordinal: ord, id: id})
	}
	return out
}
