// Package vss implements the single-dealer verifiable secret sharing
// primitives the protocol's Round 1 commit step runs locally: Shamir
// splitting of a secret and a blinder, Feldman and Pedersen verifier sets,
// share verification, and Lagrange interpolation for reconstruction and
// resharing.
package vss

import (
	"fmt"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
)

// Polynomial is f(X) = coeffs[0] + coeffs[1]*X + ... + coeffs[d]*X^d, held
// in ascending-degree order.
type Polynomial struct {
	group  curve.Curve
	coeffs []curve.Scalar
}

// NewPolynomial wraps a coefficient slice; coeffs[0] is the constant term.
func NewPolynomial(group curve.Curve, coeffs []curve.Scalar) *Polynomial {
	return &Polynomial{group: group, coeffs: coeffs}
}

// Degree returns len(coeffs)-1.
func (p *Polynomial) Degree() int { return len(p.coeffs) - 1 }

// Constant returns the constant term, the secret the polynomial carries.
func (p *Polynomial) Constant() curve.Scalar { return p.coeffs[0] }

// Evaluate computes f(x) via Horner's method, iterating coefficients from
// highest degree to the constant term.
func (p *Polynomial) Evaluate(x curve.Scalar) curve.Scalar {
	result := p.group.NewScalar()
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p.coeffs[i])
	}
	return result
}

// Lagrange computes the coefficient Lambda_x(ids) = prod_{x' in ids, x'!=x}
// x' / (x' - x) for each id in ids, returning them in the same order. It
// panics if ids contains a duplicate, which Parameters construction already
// forbids.
func Lagrange(group curve.Curve, ids []curve.Scalar) []curve.Scalar {
	out := make([]curve.Scalar, len(ids))
	for i, xi := range ids {
		num := group.ScalarFromUint64(1)
		den := group.ScalarFromUint64(1)
		for j, xj := range ids {
			if i == j {
				continue
			}
			if xj.Equal(xi) {
				panic("vss: duplicate identifier in Lagrange set")
			}
			num = num.Mul(xj)
			den = den.Mul(xj.Sub(xi))
		}
		out[i] = num.Mul(den.Invert())
	}
	return out
}

// LagrangeAt computes the single coefficient for evaluation point x against
// the remaining points in ids (x must not appear in ids): the weight that
// turns a share at x into its contribution toward interpolating at the
// points named by ids. Equivalent to indexing the result of Lagrange on the
// combined set append(ids, x) at x's position, without building that set.
func LagrangeAt(group curve.Curve, x curve.Scalar, ids []curve.Scalar) (curve.Scalar, error) {
	num := group.ScalarFromUint64(1)
	den := group.ScalarFromUint64(1)
	for _, xj := range ids {
		if xj.Equal(x) {
			return nil, fmt.Errorf("vss: evaluation point reoccurs in target set")
		}
		num = num.Mul(xj)
		den = den.Mul(xj.Sub(x))
	}
	return num.Mul(den.Invert()), nil
}
