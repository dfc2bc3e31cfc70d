package transcript_test

import (
	"testing"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
	"github.com/luxfi/gennaro-dkg/pkg/transcript"
	"github.com/stretchr/testify/assert"
)

func TestChallengeDeterministic(t *testing.T) {
	group := curve.Secp256k1{}

	build := func() [32]byte {
		tr := transcript.New()
		tr.WriteUint64(42)
		tr.WriteScalar(group.ScalarFromUint64(7))
		tr.WritePoint(group.Generator())
		return tr.Challenge("test challenge")
	}

	a := build()
	b := build()
	assert.Equal(t, a, b)
}

func TestChallengeSensitiveToOrderAndContent(t *testing.T) {
	group := curve.Secp256k1{}

	base := transcript.New()
	base.WriteUint64(1)
	base.WriteUint64(2)
	got := base.Challenge("label")

	reordered := transcript.New()
	reordered.WriteUint64(2)
	reordered.WriteUint64(1)
	other := reordered.Challenge("label")

	assert.NotEqual(t, got, other)

	differentLabel := transcript.New()
	differentLabel.WriteUint64(1)
	differentLabel.WriteUint64(2)
	third := differentLabel.Challenge("other label")
	assert.NotEqual(t, got, third)

	_ = group
}

func TestCommitmentHashDeterministicAndSenderDependent(t *testing.T) {
	group := curve.Secp256k1{}
	verifiers := []curve.Point{group.Generator(), group.Generator().ScalarMult(group.ScalarFromUint64(3))}

	a := transcript.CommitmentHash("pedersen commitment hash", 0, 1, group.ScalarFromUint64(1), 2, verifiers)
	b := transcript.CommitmentHash("pedersen commitment hash", 0, 1, group.ScalarFromUint64(1), 2, verifiers)
	assert.Equal(t, a, b)

	c := transcript.CommitmentHash("pedersen commitment hash", 0, 2, group.ScalarFromUint64(2), 2, verifiers)
	assert.NotEqual(t, a, c)
}
