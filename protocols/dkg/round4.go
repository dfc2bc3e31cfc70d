package dkg

import (
	"github.com/luxfi/gennaro-dkg/pkg/curve"
	"github.com/luxfi/gennaro-dkg/pkg/transcript"
	"github.com/luxfi/gennaro-dkg/pkg/vss"
)

// runRoundFour folds the accepted Round 3 echoes into the transcript,
// rebuilds the valid set from exactly those senders (peers that survived
// Round 2 but never echoed, or echoed something else, are not carried
// forward), and broadcasts this participant's Feldman verifier set.
func (p *Participant) runRoundFour() (*OutputGenerator, error) {
	if len(p.received3) < p.params.Threshold() {
		return nil, newErr(NotReady, RoundThree, p.ordinal, "insufficient round 3 messages")
	}

	for _, ord := range sortedKeys(p.received3) {
		p.received3[ord].absorb(p.transcript)
	}

	rebuilt := map[int]curve.Scalar{p.ordinal: p.id}
	for _, ord := range sortedKeys(p.received3) {
		d := p.received3[ord]
		rebuilt[d.SenderOrdinal] = d.SenderID
	}
	p.validParticipantIDs = rebuilt

	data := &Round4Data{
		SenderOrdinal:    p.ordinal,
		SenderID:         p.id,
		FeldmanVerifiers: p.split.Feldman,
	}
	p.received4[p.ordinal] = data

	body, err := encodePayload(RoundFour, data.toWire())
	if err != nil {
		return nil, err
	}

	p.round = RoundFive
	return newBroadcastOutput(p.recipients(), body), nil
}

func (p *Participant) receiveRoundFour(data *Round4Data) error {
	if _, ok := p.received4[data.SenderOrdinal]; ok {
		return newErr(DuplicateMessage, RoundFour, data.SenderOrdinal, "already have round 4 data from this sender")
	}
	if err := p.checkSender(RoundFour, data.SenderOrdinal, data.SenderID); err != nil {
		return err
	}
	round1, ok := p.received1[data.SenderOrdinal]
	if !ok {
		return p.fail(newErr(UnknownSender, RoundFour, data.SenderOrdinal, "no round 1 commitment from this sender"))
	}
	round2, ok := p.received2[data.SenderOrdinal]
	if !ok {
		return p.fail(newErr(UnknownSender, RoundFour, data.SenderOrdinal, "no round 2 share from this sender"))
	}
	if _, ok := p.received3[data.SenderOrdinal]; !ok {
		return p.fail(newErr(UnknownSender, RoundFour, data.SenderOrdinal, "no round 3 echo from this sender"))
	}
	if _, ok := p.validParticipantIDs[data.SenderOrdinal]; !ok {
		return p.fail(newErr(UnknownSender, RoundFour, data.SenderOrdinal, "sender not in valid participant set"))
	}

	if len(data.FeldmanVerifiers) != p.params.Threshold() {
		return p.dropPeer(data.SenderOrdinal, newErr(BadFormat, RoundFour, data.SenderOrdinal, "feldman verifier count does not equal threshold"))
	}
	for j, v := range data.FeldmanVerifiers {
		if j == 0 {
			continue
		}
		if v.IsIdentity() {
			return p.dropPeer(data.SenderOrdinal, newErr(BadFormat, RoundFour, data.SenderOrdinal, "a feldman verifier is the identity point"))
		}
	}

	// The zeroth verifier G_s*f_0 carries the sender's contribution to the
	// shared secret: a Refresh sender must contribute zero, a Secret sender
	// must not.
	expectIdentity := round1.SenderType == Refresh
	if data.FeldmanVerifiers[0].IsIdentity() != expectIdentity {
		return p.dropPeer(data.SenderOrdinal, newErr(ShareVerificationFailed, RoundFour, data.SenderOrdinal, "feldman verifier[0] does not match the sender's declared type"))
	}

	recomputed := transcript.CommitmentHash("feldman commitment hash", uint8(round1.SenderType), uint64(data.SenderOrdinal), data.SenderID, uint64(p.params.Threshold()), data.FeldmanVerifiers)
	if recomputed != round1.FeldmanHash {
		return p.dropPeer(data.SenderOrdinal, newErr(CommitmentMismatch, RoundFour, data.SenderOrdinal, "feldman commitment hash does not match round 1"))
	}

	if !vss.VerifyFeldman(p.params.Group(), p.params.MessageGenerator(), p.id, round2.SecretShare, data.FeldmanVerifiers, p.powersOfID) {
		return p.dropPeer(data.SenderOrdinal, newErr(ShareVerificationFailed, RoundFour, data.SenderOrdinal, "share does not verify against feldman verifiers"))
	}

	p.received4[data.SenderOrdinal] = data
	return nil
}
