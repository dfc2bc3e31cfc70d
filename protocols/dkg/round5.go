package dkg

import "github.com/luxfi/gennaro-dkg/pkg/curve"

// runRoundFive is where the secret and public key actually get computed:
// it sums every accepted Round 4 contribution, validates the result isn't
// degenerate, folds the transcript, and broadcasts the resulting
// transcript hash and public key for every peer to confirm. Round Five is
// the FSM's terminal state, so a second call after aggregation has already
// happened is a no-op rather than a re-broadcast.
func (p *Participant) runRoundFive() (*OutputGenerator, error) {
	if p.secretShare != nil {
		return emptyOutput(), nil
	}
	if len(p.received4) < p.params.Threshold() {
		return nil, newErr(NotReady, RoundFour, p.ordinal, "insufficient round 4 messages")
	}
	if len(p.validParticipantIDs) < p.params.Threshold() {
		return nil, p.fail(newErr(InsufficientParticipants, RoundFour, p.ordinal, "fewer than threshold participants survived round 3"))
	}

	group := p.params.Group()
	secretShare := group.NewScalar()
	publicKey := group.Identity()
	allRefresh := true

	for _, ord := range sortedKeys(p.validParticipantIDs) {
		d, ok := p.received4[ord]
		if !ok {
			return nil, p.fail(newErr(InsufficientParticipants, RoundFour, ord, "accepted peer is missing round 4 data"))
		}

		var contribution curve.Scalar
		var kind ParticipantType
		if ord == p.ordinal {
			contribution = p.split.SecretShares[p.ordinal].Value
			kind = p.kind
		} else {
			contribution = p.received2[ord].SecretShare
			kind = p.received1[ord].SenderType
		}
		if kind == Secret {
			allRefresh = false
		}

		secretShare = secretShare.Add(contribution)
		publicKey = publicKey.Add(d.FeldmanVerifiers[0])
	}

	if !allRefresh && publicKey.IsIdentity() {
		return nil, p.fail(newErr(InvalidPublicKey, RoundFour, p.ordinal, "combined public key is identity"))
	}
	if len(p.validParticipantIDs) > 1 {
		ownContribution := p.split.SecretShares[p.ordinal].Value
		if secretShare.Equal(ownContribution) {
			return nil, p.fail(newErr(InvalidPublicKey, RoundFour, p.ordinal, "no peer's share was added to our own"))
		}
	}

	for _, ord := range sortedKeys(p.received4) {
		p.received4[ord].absorb(p.transcript)
	}
	p.transcript.WritePoint(publicKey)
	hash := p.transcript.Challenge("protocol transcript")

	// Re-validate any Round 5 echoes that arrived before we had our own
	// transcript hash and public key to compare against.
	for _, ord := range sortedKeys(p.received5) {
		d := p.received5[ord]
		if d.TranscriptHash != hash || !d.PublicKey.Equal(publicKey) {
			return nil, p.fail(newErr(TranscriptMismatch, RoundFive, ord, "buffered round 5 payload disagrees with our transcript"))
		}
	}

	p.secretShare = secretShare
	p.publicKey = publicKey
	p.transcriptHash = hash

	data := &Round5Data{
		SenderOrdinal:  p.ordinal,
		SenderID:       p.id,
		TranscriptHash: hash,
		PublicKey:      publicKey,
	}
	p.received5[p.ordinal] = data

	body, err := encodePayload(RoundFive, data.toWire())
	if err != nil {
		return nil, err
	}
	return newBroadcastOutput(p.recipients(), body), nil
}

func (p *Participant) receiveRoundFive(data *Round5Data) error {
	if _, ok := p.received5[data.SenderOrdinal]; ok {
		return newErr(DuplicateMessage, RoundFive, data.SenderOrdinal, "already have round 5 data from this sender")
	}
	if err := p.checkSender(RoundFive, data.SenderOrdinal, data.SenderID); err != nil {
		return err
	}
	if _, ok := p.validParticipantIDs[data.SenderOrdinal]; !ok {
		return p.fail(newErr(UnknownSender, RoundFive, data.SenderOrdinal, "sender not in valid participant set"))
	}

	if p.secretShare == nil {
		// We have not aggregated yet; hold the message until Run() computes
		// our own transcript hash and public key to compare against.
		p.received5[data.SenderOrdinal] = data
		return nil
	}

	if data.TranscriptHash != p.transcriptHash {
		return p.fail(newErr(TranscriptMismatch, RoundFive, data.SenderOrdinal, "transcript hash disagreement"))
	}
	if !data.PublicKey.Equal(p.publicKey) {
		return p.fail(newErr(TranscriptMismatch, RoundFive, data.SenderOrdinal, "public key disagreement"))
	}

	p.received5[data.SenderOrdinal] = data
	return nil
}
