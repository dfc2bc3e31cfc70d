package dkg_test

import (
	"testing"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
	"github.com/luxfi/gennaro-dkg/pkg/vss"
	"github.com/luxfi/gennaro-dkg/protocols/dkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWeightedShareReconstructsCombinedSecret exercises the arithmetic
// WeightedShare relies on in isolation, without running the FSM: a
// combined secret dealt as a degree-(t-1) polynomial, evaluated at the old
// ids, re-weighted by WeightedShare, sums back to the original secret.
func TestWeightedShareReconstructsCombinedSecret(t *testing.T) {
	group := curve.Secp256k1{}
	secret := group.ScalarFromUint64(777)
	// degree 2 (t=3): f(X) = secret + 5X + 9X^2
	poly := vss.NewPolynomial(group, []curve.Scalar{secret, group.ScalarFromUint64(5), group.ScalarFromUint64(9)})

	oldIDs := []curve.Scalar{group.ScalarFromUint64(1), group.ScalarFromUint64(2), group.ScalarFromUint64(3)}
	oldShares := make([]curve.Scalar, len(oldIDs))
	for i, id := range oldIDs {
		oldShares[i] = poly.Evaluate(id)
	}

	reconstructed := group.NewScalar()
	for i, id := range oldIDs {
		weighted, err := dkg.WeightedShare(id, oldShares[i], oldIDs)
		require.NoError(t, err)
		reconstructed = reconstructed.Add(weighted)
	}
	assert.True(t, reconstructed.Equal(secret))
}

func TestWeightedShareRejectsIDNotInContinuingSet(t *testing.T) {
	group := curve.Secp256k1{}
	continuing := []curve.Scalar{group.ScalarFromUint64(1), group.ScalarFromUint64(2)}
	_, err := dkg.WeightedShare(group.ScalarFromUint64(99), group.ScalarFromUint64(1), continuing)
	assert.Error(t, err)
}
