package dkg

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/luxfi/gennaro-dkg/pkg/curve"
	"github.com/luxfi/gennaro-dkg/pkg/vss"
)

// WeightedShare computes the value a continuing dealer passes into
// WithSecret when a protocol run reshares an existing key: oldShare is that
// dealer's share (x, y) = (oldID, oldShare) from the prior run's combined
// secret, and continuingOldIDs is the full set of old identifiers among the
// dealers who are jointly performing the reshare (oldID must be one of
// them). The weight is oldID's ordinary Lagrange coefficient for
// reconstructing the constant term from continuingOldIDs; since Round Five
// aggregates every dealer's contribution with a plain sum, summing each
// continuing dealer's weighted share reconstructs exactly the prior
// combined secret as the new run's constant term, regardless of how the new
// identifier set or threshold differs from the old one.
func WeightedShare(oldID, oldShare curve.Scalar, continuingOldIDs []curve.Scalar) (curve.Scalar, error) {
	weights := vss.Lagrange(oldShare.Curve(), continuingOldIDs)
	for i, id := range continuingOldIDs {
		if id.Equal(oldID) {
			return oldShare.Mul(weights[i]), nil
		}
	}
	return nil, fmt.Errorf("dkg: old identifier not present in continuing set")
}

// ReshareRandomness derives a deterministic randomness stream for the
// blinder WithSecret samples during a reshare, expanded from the
// continuing dealer's weighted share via HKDF-SHA256 rather than drawn
// fresh from the system CSPRNG. A resharing run that wants byte-for-byte
// reproducible transcripts (auditing a past reshare, or the determinism
// property tested in property S6) can pass the returned reader as
// WithSecret's rnd argument instead of crypto/rand.Reader; an operator
// who has no such requirement should keep using crypto/rand.Reader.
func ReshareRandomness(weightedShare curve.Scalar, newOrdinal int) io.Reader {
	salt := make([]byte, 8)
	for i := range salt {
		salt[i] = byte(newOrdinal >> (8 * i))
	}
	return hkdf.New(sha256.New, weightedShare.Bytes(), salt, []byte("gennaro-dkg/v1/reshare-randomness"))
}
