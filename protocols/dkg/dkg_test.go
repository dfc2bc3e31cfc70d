package dkg_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/gennaro-dkg/internal/harness"
	"github.com/luxfi/gennaro-dkg/internal/testutil"
	"github.com/luxfi/gennaro-dkg/pkg/curve"
	"github.com/luxfi/gennaro-dkg/pkg/party"
	"github.com/luxfi/gennaro-dkg/pkg/vss"
	"github.com/luxfi/gennaro-dkg/protocols/dkg"
)

func newSecretParticipants(t *testing.T, group curve.Curve, params *party.Parameters) []*dkg.Participant {
	t.Helper()
	out := make([]*dkg.Participant, params.Limit())
	for i := 0; i < params.Limit(); i++ {
		p, err := dkg.New(rand.Reader, dkg.Secret, i, params)
		require.NoError(t, err)
		out[i] = p
	}
	return out
}

func reconstruct(t *testing.T, group curve.Curve, ids, shares []curve.Scalar, subset []int) curve.Scalar {
	t.Helper()
	subIDs := make([]curve.Scalar, len(subset))
	for i, j := range subset {
		subIDs[i] = ids[j]
	}
	weights := vss.Lagrange(group, subIDs)
	acc := group.NewScalar()
	for i, j := range subset {
		acc = acc.Add(shares[j].Mul(weights[i]))
	}
	return acc
}

// S1: t=2, n=3, all Secret, honest. Every pairwise subset of shares
// reconstructs the same secret via Lagrange, and public_key = G_s * sum(s_i).
func TestS1AllHonestKeygen(t *testing.T) {
	group := curve.Secp256k1{}
	params, err := party.NewParameters(group, 2, 3)
	require.NoError(t, err)

	participants := newSecretParticipants(t, group, params)
	net := harness.NewNetwork(participants)
	require.NoError(t, net.Drive(context.Background(), 20))

	pk0, ok := participants[0].GetPublicKey()
	require.True(t, ok)
	for _, p := range participants[1:] {
		pk, ok := p.GetPublicKey()
		require.True(t, ok)
		assert.True(t, pk0.Equal(pk))
	}

	shares := make([]curve.Scalar, len(participants))
	ids := make([]curve.Scalar, len(participants))
	for i, p := range participants {
		s, ok := p.GetSecretShare()
		require.True(t, ok)
		shares[i] = s
		ids[i] = p.ID()
	}

	s01 := reconstruct(t, group, ids, shares, []int{0, 1})
	s02 := reconstruct(t, group, ids, shares, []int{0, 2})
	s12 := reconstruct(t, group, ids, shares, []int{1, 2})
	assert.True(t, s01.Equal(s02))
	assert.True(t, s01.Equal(s12))
	assert.True(t, group.Generator().ScalarMult(s01).Equal(pk0))
}

// S4: reshare. Run S1 to completion, then construct four participants via
// WithSecret using three continuing old shares plus one fresh Refresh
// joiner, onto ids = 10,20,30,40 with t=3. The new public key matches the
// old one, and any 3-of-4 reconstruction of the new shares yields the same
// combined secret.
func TestS4Reshare(t *testing.T) {
	group := curve.Secp256k1{}
	oldParams, err := party.NewParameters(group, 2, 3)
	require.NoError(t, err)

	oldParticipants := newSecretParticipants(t, group, oldParams)
	oldNet := harness.NewNetwork(oldParticipants)
	require.NoError(t, oldNet.Drive(context.Background(), 20))

	oldPK, ok := oldParticipants[0].GetPublicKey()
	require.True(t, ok)

	oldIDs := make([]curve.Scalar, len(oldParticipants))
	for i, p := range oldParticipants {
		oldIDs[i] = p.ID()
	}

	newIDs := testutil.CustomPartyIDs(group, []uint64{10, 20, 30, 40})
	newParams, err := party.NewParameters(group, 3, 4, party.WithIdentifiers(newIDs))
	require.NoError(t, err)

	newParticipants := make([]*dkg.Participant, 4)
	for i := 0; i < 3; i++ {
		oldShare, ok := oldParticipants[i].GetSecretShare()
		require.True(t, ok)
		weighted, err := dkg.WeightedShare(oldIDs[i], oldShare, oldIDs)
		require.NoError(t, err)
		p, err := dkg.WithSecret(rand.Reader, dkg.Secret, i, weighted, newParams)
		require.NoError(t, err)
		newParticipants[i] = p
	}
	joiner, err := dkg.New(rand.Reader, dkg.Refresh, 3, newParams)
	require.NoError(t, err)
	newParticipants[3] = joiner

	newNet := harness.NewNetwork(newParticipants)
	require.NoError(t, newNet.Drive(context.Background(), 20))

	newPK, ok := newParticipants[0].GetPublicKey()
	require.True(t, ok)
	assert.True(t, oldPK.Equal(newPK))

	newShares := make([]curve.Scalar, 4)
	for i, p := range newParticipants {
		s, ok := p.GetSecretShare()
		require.True(t, ok)
		newShares[i] = s
	}

	for _, subset := range [][]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}} {
		acc := reconstruct(t, group, newIDs, newShares, subset)
		assert.True(t, group.Generator().ScalarMult(acc).Equal(newPK), "subset %v", subset)
	}
}

// S5: proactive refresh. Same ids and threshold, all three participants
// constructed as Refresh: their own combined secret is zero, so adding
// their shares to an existing key's shares leaves the combined secret (and
// therefore the public key) unchanged while every individual share value
// changes.
func TestS5ProactiveRefreshPreservesSecret(t *testing.T) {
	group := curve.Secp256k1{}
	params, err := party.NewParameters(group, 2, 3)
	require.NoError(t, err)

	original := newSecretParticipants(t, group, params)
	net := harness.NewNetwork(original)
	require.NoError(t, net.Drive(context.Background(), 20))
	originalPK, ok := original[0].GetPublicKey()
	require.True(t, ok)

	ids := make([]curve.Scalar, 3)
	originalShares := make([]curve.Scalar, 3)
	for i, p := range original {
		ids[i] = p.ID()
		s, ok := p.GetSecretShare()
		require.True(t, ok)
		originalShares[i] = s
	}

	refreshed := make([]*dkg.Participant, 3)
	for i := 0; i < 3; i++ {
		p, err := dkg.New(rand.Reader, dkg.Refresh, i, params)
		require.NoError(t, err)
		refreshed[i] = p
	}
	refreshNet := harness.NewNetwork(refreshed)
	require.NoError(t, refreshNet.Drive(context.Background(), 20))

	refreshPK, ok := refreshed[0].GetPublicKey()
	require.True(t, ok)
	assert.True(t, refreshPK.IsIdentity(), "an all-refresh run combines to the zero secret")

	refreshedShares := make([]curve.Scalar, 3)
	for i, p := range refreshed {
		s, ok := p.GetSecretShare()
		require.True(t, ok)
		refreshedShares[i] = s
		assert.False(t, s.IsZero())
	}

	combinedShares := make([]curve.Scalar, 3)
	for i := range combinedShares {
		combinedShares[i] = originalShares[i].Add(refreshedShares[i])
		assert.False(t, combinedShares[i].Equal(originalShares[i]))
	}

	combinedOld := reconstruct(t, group, ids, originalShares, []int{0, 1, 2})
	combinedNew := reconstruct(t, group, ids, combinedShares, []int{0, 1, 2})
	assert.True(t, group.Generator().ScalarMult(combinedOld).Equal(originalPK))
	assert.True(t, combinedOld.Equal(combinedNew))
}

// S6: determinism. Seeding the same randomness source and running S1 twice
// produces byte-identical outbound messages.
func TestS6Determinism(t *testing.T) {
	group := curve.Secp256k1{}
	params, err := party.NewParameters(group, 2, 3)
	require.NoError(t, err)

	run := func(seed byte) [][]byte {
		rnd := newCountingReader(seed)
		participants := make([]*dkg.Participant, 3)
		for i := 0; i < 3; i++ {
			p, err := dkg.New(rnd, dkg.Secret, i, params)
			require.NoError(t, err)
			participants[i] = p
		}
		var messages [][]byte
		for round := 0; round < 5; round++ {
			for _, p := range participants {
				gen, err := p.Run()
				if err != nil {
					continue
				}
				for _, out := range gen.All() {
					messages = append(messages, out.Bytes)
					require.NoError(t, participants[out.DstOrdinal].Receive(out.Bytes))
				}
			}
		}
		return messages
	}

	a := run(7)
	b := run(7)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i], b[i])
	}
}

// countingReader is a deterministic, seedable byte stream: not
// cryptographically secure, but reproducible across runs, which is exactly
// what the determinism property needs from its randomness source.
type countingReader struct {
	state byte
}

func newCountingReader(seed byte) *countingReader {
	return &countingReader{state: seed}
}

func (r *countingReader) Read(p []byte) (int, error) {
	for i := range p {
		r.state = r.state*31 + 7
		p[i] = r.state
	}
	return len(p), nil
}
