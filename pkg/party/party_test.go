package party_test

import (
	"testing"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
	"github.com/luxfi/gennaro-dkg/pkg/party"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParametersDefaults(t *testing.T) {
	group := curve.Secp256k1{}
	p, err := party.NewParameters(group, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, p.Threshold())
	assert.Equal(t, 3, p.Limit())
	assert.True(t, p.MessageGenerator().Equal(group.Generator()))
	assert.False(t, p.BlinderGenerator().IsIdentity())
	assert.False(t, p.BlinderGenerator().Equal(p.MessageGenerator()))

	for i := 0; i < 3; i++ {
		id, err := p.IdentifierAt(i)
		require.NoError(t, err)
		assert.True(t, id.Equal(group.ScalarFromUint64(uint64(i+1))))
		ordinal, ok := p.OrdinalOf(id)
		assert.True(t, ok)
		assert.Equal(t, i, ordinal)
	}
}

func TestNewParametersRejectsInvalidThreshold(t *testing.T) {
	group := curve.Secp256k1{}

	_, err := party.NewParameters(group, 0, 3)
	assert.Error(t, err)

	_, err = party.NewParameters(group, 4, 3)
	assert.Error(t, err)
}

func TestNewParametersWithCustomIdentifiers(t *testing.T) {
	group := curve.Secp256k1{}
	ids := []curve.Scalar{group.ScalarFromUint64(10), group.ScalarFromUint64(20), group.ScalarFromUint64(30)}

	p, err := party.NewParameters(group, 2, 3, party.WithIdentifiers(ids))
	require.NoError(t, err)

	id, err := p.IdentifierAt(1)
	require.NoError(t, err)
	assert.True(t, id.Equal(group.ScalarFromUint64(20)))
}

func TestNewParametersRejectsDuplicateIdentifiers(t *testing.T) {
	group := curve.Secp256k1{}
	ids := []curve.Scalar{group.ScalarFromUint64(5), group.ScalarFromUint64(5)}

	_, err := party.NewParameters(group, 1, 2, party.WithIdentifiers(ids))
	assert.Error(t, err)
}

func TestNewParametersRejectsZeroIdentifier(t *testing.T) {
	group := curve.Secp256k1{}
	ids := []curve.Scalar{group.ScalarFromUint64(0), group.ScalarFromUint64(1)}

	_, err := party.NewParameters(group, 1, 2, party.WithIdentifiers(ids))
	assert.Error(t, err)
}

func TestNewParametersRejectsCoincidingGenerators(t *testing.T) {
	group := curve.Secp256k1{}
	_, err := party.NewParameters(group, 1, 1, party.WithBlinderGenerator(group.Generator()))
	assert.Error(t, err)
}
