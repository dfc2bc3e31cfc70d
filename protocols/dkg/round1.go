package dkg

import (
	"fmt"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
)

// runRoundOne broadcasts this participant's Pedersen and Feldman
// commitment hashes, binding its verifier sets before any share is
// revealed. This is what defeats rogue-key attacks: a late sender cannot
// tailor its contribution to cancel an already-revealed honest one,
// because nothing is revealed yet.
func (p *Participant) runRoundOne() (*OutputGenerator, error) {
	data := &Round1Data{
		SenderOrdinal: p.ordinal,
		SenderID:      p.id,
		SenderType:    p.kind,
		PedersenHash:  p.pedersenHash,
		FeldmanHash:   p.feldmanHash,
	}
	p.received1[p.ordinal] = data

	body, err := encodePayload(RoundOne, data.toWire())
	if err != nil {
		return nil, err
	}

	p.round = RoundTwo
	return newBroadcastOutput(p.allRecipients(), body), nil
}

func (p *Participant) receiveRoundOne(data *Round1Data) error {
	if _, ok := p.received1[data.SenderOrdinal]; ok {
		return newErr(DuplicateMessage, RoundOne, data.SenderOrdinal, "already have round 1 data from this sender")
	}
	if err := p.checkSender(RoundOne, data.SenderOrdinal, data.SenderID); err != nil {
		return err
	}
	if isZeroHash(data.PedersenHash) || isZeroHash(data.FeldmanHash) {
		return p.fail(newErr(BadFormat, RoundOne, data.SenderOrdinal, "commitment hash is all-zero"))
	}
	p.received1[data.SenderOrdinal] = data
	return nil
}

// checkSender runs the common origin-authentication checks shared by every
// round: the sender's ordinal must name a real participant, the claimed id
// must match Parameters at that ordinal, and a participant can't claim to
// be itself or the zero scalar.
func (p *Participant) checkSender(round Round, ordinal int, id curve.Scalar) error {
	expected, err := p.params.IdentifierAt(ordinal)
	if err != nil {
		return p.fail(newErr(UnknownSender, round, ordinal, "sender ordinal not in parameters"))
	}
	if ordinal == p.ordinal {
		return p.fail(newErr(SenderSelf, round, ordinal, "message claims to be from ourselves"))
	}
	if id.IsZero() {
		return p.fail(newErr(SenderIDZero, round, ordinal, "sender id is zero"))
	}
	if !expected.Equal(id) {
		return p.fail(newErr(SenderIDMismatch, round, ordinal, fmt.Sprintf("sender id does not match parameters at ordinal %d", ordinal)))
	}
	return nil
}

func isZeroHash(h [32]byte) bool {
	for _, b := range h {
		if b != 0 {
			return false
		}
	}
	return true
}
