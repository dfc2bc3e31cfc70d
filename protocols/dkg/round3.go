package dkg

// runRoundThree folds the accepted Round 2 broadcasts into the transcript
// and echoes this participant's valid set to every peer that survived
// Round 2, so that a network partition or an equivocating sender is caught
// before any secret material is assembled.
func (p *Participant) runRoundThree() (*OutputGenerator, error) {
	if len(p.received2) < p.params.Threshold() {
		return nil, newErr(NotReady, RoundTwo, p.ordinal, "insufficient round 2 messages")
	}

	for _, ord := range sortedKeys(p.received2) {
		p.received2[ord].absorb(p.transcript)
	}

	validSet := p.validSetEntries()
	data := &Round3Data{
		SenderOrdinal: p.ordinal,
		SenderID:      p.id,
		ValidSet:      validSet,
	}
	p.received3[p.ordinal] = data

	body, err := encodePayload(RoundThree, data.toWire())
	if err != nil {
		return nil, err
	}

	p.round = RoundFour
	return newBroadcastOutput(p.recipients(), body), nil
}

func (p *Participant) receiveRoundThree(data *Round3Data) error {
	if _, ok := p.received3[data.SenderOrdinal]; ok {
		return newErr(DuplicateMessage, RoundThree, data.SenderOrdinal, "already have round 3 data from this sender")
	}
	if err := p.checkSender(RoundThree, data.SenderOrdinal, data.SenderID); err != nil {
		return err
	}
	if _, ok := p.validParticipantIDs[data.SenderOrdinal]; !ok {
		return p.fail(newErr(UnknownSender, RoundThree, data.SenderOrdinal, "sender did not survive round 2"))
	}

	ours := p.validSetEntries()
	if !equalValidSets(ours, data.ValidSet) {
		return p.fail(newErr(EchoMismatch, RoundThree, data.SenderOrdinal, "peer's valid set disagrees with ours"))
	}

	p.received3[data.SenderOrdinal] = data
	return nil
}

func (p *Participant) validSetEntries() []ValidSetEntry {
	entries := make([]ValidSetEntry, 0, len(p.validParticipantIDs))
	for ord, id := range p.validParticipantIDs {
		entries = append(entries, ValidSetEntry{Ordinal: ord, ID: id})
	}
	return sortValidSet(entries)
}

func equalValidSets(a, b []ValidSetEntry) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := sortValidSet(a), sortValidSet(b)
	for i := range sa {
		if sa[i].Ordinal != sb[i].Ordinal || !sa[i].ID.Equal(sb[i].ID) {
			return false
		}
	}
	return true
}
