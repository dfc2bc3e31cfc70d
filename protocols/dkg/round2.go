package dkg

import (
	"github.com/luxfi/gennaro-dkg/pkg/transcript"
	"github.com/luxfi/gennaro-dkg/pkg/vss"
)

// runRoundTwo folds every accepted Round 1 commitment into the transcript,
// admits this participant into its own valid set, and reveals its Pedersen
// verifier set together with a per-recipient secret and blinder share.
func (p *Participant) runRoundTwo() (*OutputGenerator, error) {
	if len(p.received1) < p.params.Threshold() {
		return nil, newErr(NotReady, RoundOne, p.ordinal, "insufficient round 1 messages")
	}

	for _, ord := range sortedKeys(p.received1) {
		p.received1[ord].absorb(p.transcript)
	}

	p.validParticipantIDs[p.ordinal] = p.id

	own := &Round2Data{
		SenderOrdinal:     p.ordinal,
		SenderID:          p.id,
		MessageGen:        p.params.MessageGenerator(),
		BlinderGen:        p.params.BlinderGenerator(),
		PedersenVerifiers: p.split.Pedersen,
		SecretShare:       p.split.SecretShares[p.ordinal].Value,
		BlindShare:        p.split.BlinderShares[p.ordinal].Value,
	}
	p.received2[p.ordinal] = own

	outputs := make([]Output, 0, len(p.params.Identifiers())-1)
	for _, r := range p.allRecipients() {
		data := &Round2Data{
			SenderOrdinal:     p.ordinal,
			SenderID:          p.id,
			MessageGen:        p.params.MessageGenerator(),
			BlinderGen:        p.params.BlinderGenerator(),
			PedersenVerifiers: p.split.Pedersen,
			SecretShare:       p.split.SecretShares[r.ordinal].Value,
			BlindShare:        p.split.BlinderShares[r.ordinal].Value,
		}
		body, err := encodePayload(RoundTwo, data.toWire())
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{DstOrdinal: r.ordinal, DstID: r.id, Bytes: body})
	}

	p.round = RoundThree
	return newPerPeerOutput(outputs), nil
}

func (p *Participant) receiveRoundTwo(data *Round2Data) error {
	if _, ok := p.received2[data.SenderOrdinal]; ok {
		return newErr(DuplicateMessage, RoundTwo, data.SenderOrdinal, "already have round 2 data from this sender")
	}
	if err := p.checkSender(RoundTwo, data.SenderOrdinal, data.SenderID); err != nil {
		return err
	}
	round1, ok := p.received1[data.SenderOrdinal]
	if !ok {
		return p.fail(newErr(UnknownSender, RoundTwo, data.SenderOrdinal, "no round 1 commitment from this sender"))
	}

	if len(data.PedersenVerifiers) != p.params.Threshold() {
		return p.dropPeer(data.SenderOrdinal, newErr(BadFormat, RoundTwo, data.SenderOrdinal, "pedersen verifier count does not equal threshold"))
	}
	if data.MessageGen.IsIdentity() || data.BlinderGen.IsIdentity() {
		return p.dropPeer(data.SenderOrdinal, newErr(BadFormat, RoundTwo, data.SenderOrdinal, "a generator is the identity point"))
	}
	for _, v := range data.PedersenVerifiers {
		if v.IsIdentity() {
			return p.dropPeer(data.SenderOrdinal, newErr(BadFormat, RoundTwo, data.SenderOrdinal, "a pedersen verifier is the identity point"))
		}
	}

	recomputed := transcript.CommitmentHash("pedersen commitment hash", uint8(round1.SenderType), uint64(data.SenderOrdinal), data.SenderID, uint64(p.params.Threshold()), data.PedersenVerifiers)
	if recomputed != round1.PedersenHash {
		return p.dropPeer(data.SenderOrdinal, newErr(CommitmentMismatch, RoundTwo, data.SenderOrdinal, "pedersen commitment hash does not match round 1"))
	}

	if !vss.VerifyPedersen(p.params.Group(), p.params.MessageGenerator(), p.params.BlinderGenerator(), data.SecretShare, data.BlindShare, data.PedersenVerifiers, p.powersOfID) {
		return p.dropPeer(data.SenderOrdinal, newErr(ShareVerificationFailed, RoundTwo, data.SenderOrdinal, "share does not verify against pedersen verifiers"))
	}

	p.validParticipantIDs[data.SenderOrdinal] = data.SenderID
	p.received2[data.SenderOrdinal] = data
	return nil
}

// dropPeer removes ordinal from the valid set (a no-op if it was never
// added) and returns the supplied per-peer error so the protocol can
// continue with the remaining participants.
func (p *Participant) dropPeer(ordinal int, err *Error) error {
	delete(p.validParticipantIDs, ordinal)
	return err
}

