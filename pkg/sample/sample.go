// Package sample draws the random scalars the protocol needs from a
// caller-supplied entropy source, so every call site is explicit about
// where its randomness comes from.
package sample

import (
	"fmt"
	"io"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
)

// Scalar draws a single uniform non-zero scalar from rnd.
func Scalar(rnd io.Reader, group curve.Curve) (curve.Scalar, error) {
	s, err := group.RandomScalar(rnd)
	if err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}
	return s, nil
}

// Polynomial draws `degree+1` uniform coefficients: a zero-degree secret
// followed by degree uniform higher-order coefficients. When secret is
// non-nil it is used as the constant term instead of a fresh draw, so
// callers contributing a known secret (refresh participants contribute
// the zero scalar; resharing participants contribute a Lagrange-weighted
// share) can reuse this for the remaining coefficients.
func Polynomial(rnd io.Reader, group curve.Curve, degree int, secret curve.Scalar) ([]curve.Scalar, error) {
	coeffs := make([]curve.Scalar, degree+1)
	if secret != nil {
		coeffs[0] = secret
	} else {
		s, err := Scalar(rnd, group)
		if err != nil {
			return nil, err
		}
		coeffs[0] = s
	}
	for i := 1; i <= degree; i++ {
		s, err := Scalar(rnd, group)
		if err != nil {
			return nil, fmt.Errorf("sample: coefficient %d: %w", i, err)
		}
		coeffs[i] = s
	}
	return coeffs, nil
}
