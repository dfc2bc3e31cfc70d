package vss_test

import (
	"testing"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
	"github.com/luxfi/gennaro-dkg/pkg/vss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolynomialEvaluateMatchesDefinition(t *testing.T) {
	group := curve.Secp256k1{}
	// f(X) = 2 + 3X + 5X^2
	coeffs := []curve.Scalar{group.ScalarFromUint64(2), group.ScalarFromUint64(3), group.ScalarFromUint64(5)}
	p := vss.NewPolynomial(group, coeffs)

	x := group.ScalarFromUint64(4)
	// f(4) = 2 + 12 + 80 = 94
	got := p.Evaluate(x)
	want := group.ScalarFromUint64(94)
	assert.True(t, got.Equal(want))
	assert.True(t, p.Constant().Equal(group.ScalarFromUint64(2)))
	assert.Equal(t, 2, p.Degree())
}

func TestLagrangeReconstructsSecret(t *testing.T) {
	group := curve.Secp256k1{}
	secret := group.ScalarFromUint64(42)
	// degree 1 polynomial: f(X) = secret + 7X
	coeffs := []curve.Scalar{secret, group.ScalarFromUint64(7)}
	p := vss.NewPolynomial(group, coeffs)

	ids := []curve.Scalar{group.ScalarFromUint64(1), group.ScalarFromUint64(2)}
	shares := []curve.Scalar{p.Evaluate(ids[0]), p.Evaluate(ids[1])}

	weights := vss.Lagrange(group, ids)
	reconstructed := group.NewScalar()
	for i, w := range weights {
		reconstructed = reconstructed.Add(shares[i].Mul(w))
	}
	assert.True(t, reconstructed.Equal(secret))
}

func TestLagrangePanicsOnDuplicateID(t *testing.T) {
	group := curve.Secp256k1{}
	ids := []curve.Scalar{group.ScalarFromUint64(1), group.ScalarFromUint64(1)}
	assert.Panics(t, func() { vss.Lagrange(group, ids) })
}

func TestLagrangeAtMatchesFullSetLagrangeCoefficient(t *testing.T) {
	group := curve.Secp256k1{}
	x := group.ScalarFromUint64(7)
	rest := []curve.Scalar{group.ScalarFromUint64(10), group.ScalarFromUint64(20), group.ScalarFromUint64(30)}

	got, err := vss.LagrangeAt(group, x, rest)
	require.NoError(t, err)

	full := append([]curve.Scalar{x}, rest...)
	want := vss.Lagrange(group, full)[0]
	assert.True(t, got.Equal(want))
}

func TestLagrangeAtRejectsReoccurringPoint(t *testing.T) {
	group := curve.Secp256k1{}
	ids := []curve.Scalar{group.ScalarFromUint64(1), group.ScalarFromUint64(2)}
	_, err := vss.LagrangeAt(group, group.ScalarFromUint64(1), ids)
	assert.Error(t, err)
}
