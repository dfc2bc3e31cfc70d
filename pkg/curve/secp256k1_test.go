package curve_test

import (
	"testing"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarArithmetic(t *testing.T) {
	group := curve.Secp256k1{}

	a := group.ScalarFromUint64(3)
	b := group.ScalarFromUint64(4)

	assert.True(t, a.Add(b).Equal(group.ScalarFromUint64(7)))
	assert.True(t, b.Sub(a).Equal(group.ScalarFromUint64(1)))
	assert.True(t, a.Mul(b).Equal(group.ScalarFromUint64(12)))

	inv := b.Invert()
	assert.True(t, b.Mul(inv).Equal(group.ScalarFromUint64(1)))

	assert.True(t, group.NewScalar().IsZero())
	assert.False(t, a.IsZero())
}

func TestScalarEncodeDecodeRoundTrip(t *testing.T) {
	group := curve.Secp256k1{}
	a := group.ScalarFromUint64(123456789)

	decoded, err := group.DecodeScalar(a.Bytes())
	require.NoError(t, err)
	assert.True(t, a.Equal(decoded))
}

func TestDecodeScalarRejectsOverflow(t *testing.T) {
	group := curve.Secp256k1{}
	overflow := make([]byte, 32)
	for i := range overflow {
		overflow[i] = 0xff
	}
	_, err := group.DecodeScalar(overflow)
	assert.Error(t, err)
}

func TestPointArithmetic(t *testing.T) {
	group := curve.Secp256k1{}
	g := group.Generator()

	two := g.Add(g)
	scaled := g.ScalarMult(group.ScalarFromUint64(2))
	assert.True(t, two.Equal(scaled))

	neg := g.Negate()
	assert.True(t, g.Add(neg).IsIdentity())
}

func TestPointEncodeDecodeRoundTrip(t *testing.T) {
	group := curve.Secp256k1{}
	g := group.Generator()

	decoded, err := group.DecodePoint(g.Bytes())
	require.NoError(t, err)
	assert.True(t, g.Equal(decoded))

	id := group.Identity()
	decodedID, err := group.DecodePoint(id.Bytes())
	require.NoError(t, err)
	assert.True(t, id.Equal(decodedID))
	assert.True(t, decodedID.IsIdentity())
}

func TestHashToScalarDeterministic(t *testing.T) {
	group := curve.Secp256k1{}
	a := group.HashToScalar([]byte("domain"), []byte("message"))
	b := group.HashToScalar([]byte("domain"), []byte("message"))
	assert.True(t, a.Equal(b))

	c := group.HashToScalar([]byte("domain"), []byte("other"))
	assert.False(t, a.Equal(c))
}

func TestHashToCurveProducesValidPoint(t *testing.T) {
	group := curve.Secp256k1{}
	p := group.HashToCurve([]byte("domain"), []byte("message"))
	assert.False(t, p.IsIdentity())

	decoded, err := group.DecodePoint(p.Bytes())
	require.NoError(t, err)
	assert.True(t, p.Equal(decoded))
}

func TestSumOfProducts(t *testing.T) {
	group := curve.Secp256k1{}
	g := group.Generator()

	scalars := []curve.Scalar{group.ScalarFromUint64(2), group.ScalarFromUint64(3)}
	points := []curve.Point{g, g}

	got := group.SumOfProducts(scalars, points)
	want := g.ScalarMult(group.ScalarFromUint64(5))
	assert.True(t, got.Equal(want))
}
