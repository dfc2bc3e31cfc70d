package vss

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
	"github.com/luxfi/gennaro-dkg/pkg/sample"
)

// Share is one participant's evaluation of a polynomial: (id, value).
type Share struct {
	ID    curve.Scalar
	Value curve.Scalar
}

// Split is the result of split_with_blinder: a secret sharing of s and a
// blinder sharing of r over the same evaluation points, plus the Feldman
// and Pedersen verifier sets that let any share be checked without
// revealing s or r.
type Split struct {
	SecretShares  []Share
	BlinderShares []Share
	Feldman       []curve.Point // Feldman[j] = G_s * f_j
	Pedersen      []curve.Point // Pedersen[j] = G_s * f_j + G_r * f'_j
}

// SplitWithBlinder runs the dealer side of Pedersen VSS: given a secret s,
// threshold, the two generators, and the ordered evaluation points, it
// samples two degree-(threshold-1) polynomials, one with constant term s
// and a blinder polynomial whose constant term r is drawn from rnd,
// evaluates both at every point, and publishes the Feldman and Pedersen
// verifier sets. It takes no blinder argument; r cannot be supplied by the
// caller.
//
// When secret is nil a fresh non-zero secret is drawn from rnd; otherwise
// secret is used as-is (the Refresh path passes the zero scalar, the
// resharing path passes a Lagrange-weighted share).
func SplitWithBlinder(rnd io.Reader, group curve.Curve, secret curve.Scalar, threshold int, messageGen, blinderGen curve.Point, ids []curve.Scalar) (*Split, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("vss: threshold must be at least 1, got %d", threshold)
	}
	if len(ids) < threshold {
		return nil, fmt.Errorf("vss: need at least %d ids, got %d", threshold, len(ids))
	}

	degree := threshold - 1
	fCoeffs, err := sample.Polynomial(rnd, group, degree, secret)
	if err != nil {
		return nil, fmt.Errorf("vss: sampling secret polynomial: %w", err)
	}
	gCoeffs, err := sample.Polynomial(rnd, group, degree, nil)
	if err != nil {
		return nil, fmt.Errorf("vss: sampling blinder polynomial: %w", err)
	}

	f := NewPolynomial(group, fCoeffs)
	g := NewPolynomial(group, gCoeffs)

	feldman := make([]curve.Point, threshold)
	pedersen := make([]curve.Point, threshold)
	for j := 0; j < threshold; j++ {
		feldman[j] = messageGen.ScalarMult(fCoeffs[j])
		pedersen[j] = feldman[j].Add(blinderGen.ScalarMult(gCoeffs[j]))
	}

	secretShares := make([]Share, len(ids))
	blinderShares := make([]Share, len(ids))
	for i, id := range ids {
		secretShares[i] = Share{ID: id, Value: f.Evaluate(id)}
		blinderShares[i] = Share{ID: id, Value: g.Evaluate(id)}
	}

	return &Split{
		SecretShares:  secretShares,
		BlinderShares: blinderShares,
		Feldman:       feldman,
		Pedersen:      pedersen,
	}, nil
}

// RandomBlinder draws a fresh non-zero scalar from crypto/rand.Reader. Its
// result is not an input to SplitWithBlinder, which draws its own blinder
// polynomial from its rnd argument.
func RandomBlinder(group curve.Curve) (curve.Scalar, error) {
	return sample.Scalar(rand.Reader, group)
}

// VerifyFeldman checks a share (x, y) against a Feldman verifier set:
// G_s*y == sum_j x^j * verifiers[j]. powers must be EvaluatePowers(group,
// x, len(verifiers)); callers that already have it precomputed (the FSM
// keeps powers_of_id around) should pass it in to avoid recomputing.
func VerifyFeldman(group curve.Curve, messageGen curve.Point, x, y curve.Scalar, verifiers []curve.Point, powers []curve.Scalar) bool {
	lhs := messageGen.ScalarMult(y)
	rhs := group.SumOfProducts(powers, verifiers)
	return lhs.Equal(rhs)
}

// VerifyPedersen checks a share (x, y) with blinder share y' against a
// Pedersen verifier set: G_s*y + G_r*y' == sum_j x^j * verifiers[j].
func VerifyPedersen(group curve.Curve, messageGen, blinderGen curve.Point, y, yPrime curve.Scalar, verifiers []curve.Point, powers []curve.Scalar) bool {
	lhs := messageGen.ScalarMult(y).Add(blinderGen.ScalarMult(yPrime))
	rhs := group.SumOfProducts(powers, verifiers)
	return lhs.Equal(rhs)
}
