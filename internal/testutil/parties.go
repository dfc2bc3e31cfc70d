// Package testutil provides small fixtures shared by the protocol's test
// suites and its demo CLI: generating identifier sets and wiring a fresh
// Parameters for a given (t, n).
package testutil

import (
	"github.com/luxfi/gennaro-dkg/pkg/curve"
	"github.com/luxfi/gennaro-dkg/pkg/party"
)

// PartyIDs returns the sequential identifier set 1..n in group's scalar
// field, the same default Parameters itself falls back to when no explicit
// identifier list is supplied.
func PartyIDs(group curve.Curve, n int) []curve.Scalar {
	ids := make([]curve.Scalar, n)
	for i := 0; i < n; i++ {
		ids[i] = group.ScalarFromUint64(uint64(i + 1))
	}
	return ids
}

// CustomPartyIDs builds an identifier set from arbitrary uint64 values, for
// tests that want ids other than the default 1..n sequence (e.g. resharing
// onto ids = 10, 20, 30, 40).
func CustomPartyIDs(group curve.Curve, values []uint64) []curve.Scalar {
	ids := make([]curve.Scalar, len(values))
	for i, v := range values {
		ids[i] = group.ScalarFromUint64(v)
	}
	return ids
}

// NewTestParameters builds Parameters for a t-of-n run over group, with an
// optional explicit identifier set (nil selects the default 1..n sequence).
func NewTestParameters(group curve.Curve, threshold, limit int, ids []curve.Scalar) (*party.Parameters, error) {
	if ids == nil {
		return party.NewParameters(group, threshold, limit)
	}
	return party.NewParameters(group, threshold, limit, party.WithIdentifiers(ids))
}
