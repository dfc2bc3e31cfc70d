// Package curve provides the curve-agnostic capability bundle the DKG core
// is built against: a scalar field, a prime-order group, hashing into both,
// and a batched multi-scalar multiplication. The core never reaches past
// this interface into a concrete curve.
package curve

import "io"

// Scalar is an element of the group's prime-order scalar field.
type Scalar interface {
	Add(other Scalar) Scalar
	Sub(other Scalar) Scalar
	Mul(other Scalar) Scalar
	Negate() Scalar
	// Invert returns the multiplicative inverse. It does not check for a
	// zero receiver, whose result is not an inverse; callers must check
	// IsZero first when zero is a legal input.
	Invert() Scalar
	IsZero() bool
	// Equal runs in constant time with respect to the scalar values.
	Equal(other Scalar) bool
	Bytes() []byte
	Curve() Curve
}

// Point is an element of the prime-order group.
type Point interface {
	Add(other Point) Point
	ScalarMult(s Scalar) Point
	Negate() Point
	IsIdentity() bool
	// Equal runs in constant time with respect to the point coordinates.
	Equal(other Point) bool
	Bytes() []byte
	Curve() Curve
}

// Curve bundles the capabilities the DKG core needs from a concrete group.
// Implementations must be safe for concurrent use; they hold no mutable
// state of their own.
type Curve interface {
	Name() string

	NewScalar() Scalar
	ScalarFromUint64(v uint64) Scalar
	RandomScalar(rnd io.Reader) (Scalar, error)
	DecodeScalar(b []byte) (Scalar, error)

	Identity() Point
	Generator() Point
	DecodePoint(b []byte) (Point, error)

	// HashToScalar derives a scalar from a domain tag and message by hashing
	// them and reducing the digest modulo the group order. Used for
	// Fiat-Shamir challenges.
	HashToScalar(domain, msg []byte) Scalar
	// HashToCurve derives a group element deterministically from a domain
	// tag and message. Used to pick the default blinder generator.
	HashToCurve(domain, msg []byte) Point

	// SumOfProducts computes sum(scalars[i] * points[i]) in one pass. Real
	// implementations may use Pippenger's algorithm; this reference
	// implementation is linear-time and is not constant-time over the
	// scalars, only over comparisons made against its result.
	SumOfProducts(scalars []Scalar, points []Point) Point

	ScalarSize() int
	PointSize() int
}

// EvaluatePowers returns 1, x, x^2, ..., x^(n-1) for the given scalar.
func EvaluatePowers(group Curve, x Scalar, n int) []Scalar {
	powers := make([]Scalar, n)
	powers[0] = group.ScalarFromUint64(1)
	for i := 1; i < n; i++ {
		powers[i] = powers[i-1].Mul(x)
	}
	return powers
}
