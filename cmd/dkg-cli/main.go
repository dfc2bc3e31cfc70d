// Command dkg-cli drives the Gennaro DKG state machine over an in-memory
// simulated network, for local experimentation: no party here ever talks to
// a real peer, every ordinal lives in this one process.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/gennaro-dkg/internal/harness"
	"github.com/luxfi/gennaro-dkg/internal/testutil"
	"github.com/luxfi/gennaro-dkg/pkg/curve"
	"github.com/luxfi/gennaro-dkg/pkg/party"
	"github.com/luxfi/gennaro-dkg/protocols/dkg"
)

var (
	threshold int
	limit     int
	maxRounds int

	newThreshold int
	newIDs       []int

	rootCmd = &cobra.Command{
		Use:   "dkg-cli",
		Short: "Simulate the Gennaro distributed key generation protocol",
	}

	keygenCmd = &cobra.Command{
		Use:   "keygen",
		Short: "Run a fresh t-of-n key generation",
		RunE:  runKeygen,
	}

	refreshCmd = &cobra.Command{
		Use:   "refresh",
		Short: "Run a fresh t-of-n DKG where every participant contributes zero (proactive refresh demo)",
		Long:  "Demonstrates the share form of proactive refresh in isolation: every simulated participant is Refresh-typed, so the combined secret this run produces is zero. Adding these shares to an existing key's shares refreshes that key's shares without changing its secret; this command does not do that addition.",
		RunE:  runRefresh,
	}

	reshareCmd = &cobra.Command{
		Use:   "reshare",
		Short: "Reshare an existing key onto a new participant set",
		Long:  "Runs a fresh keygen to stand in for a prior run's output, then reshares the resulting secret onto --new-ids with --new-threshold, verifying the public key is unchanged.",
		RunE:  runReshare,
	}
)

func init() {
	rootCmd.PersistentFlags().IntVar(&maxRounds, "max-rounds", 20, "maximum dispatch rounds before giving up")

	keygenCmd.Flags().IntVarP(&threshold, "threshold", "t", 2, "threshold")
	keygenCmd.Flags().IntVarP(&limit, "parties", "n", 3, "number of participants")

	refreshCmd.Flags().IntVarP(&threshold, "threshold", "t", 2, "threshold")
	refreshCmd.Flags().IntVarP(&limit, "parties", "n", 3, "number of participants")

	reshareCmd.Flags().IntVarP(&threshold, "threshold", "t", 2, "old threshold")
	reshareCmd.Flags().IntVarP(&limit, "parties", "n", 3, "old participant count")
	reshareCmd.Flags().IntVar(&newThreshold, "new-threshold", 3, "new threshold")
	reshareCmd.Flags().IntSliceVar(&newIDs, "new-ids", []int{10, 20, 30, 40}, "new participant identifiers")

	rootCmd.AddCommand(keygenCmd, refreshCmd, reshareCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dkg-cli: %v\n", err)
		os.Exit(1)
	}
}

func runKeygen(cmd *cobra.Command, args []string) error {
	group := curve.Secp256k1{}
	params, err := party.NewParameters(group, threshold, limit)
	if err != nil {
		return err
	}

	participants := make([]*dkg.Participant, limit)
	for i := 0; i < limit; i++ {
		p, err := dkg.New(rand.Reader, dkg.Secret, i, params)
		if err != nil {
			return fmt.Errorf("participant %d: %w", i, err)
		}
		participants[i] = p
	}

	net := harness.NewNetwork(participants)
	if err := net.Drive(context.Background(), maxRounds); err != nil {
		return err
	}

	return printSummary(fmt.Sprintf("keygen %d-of-%d", threshold, limit), participants)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	group := curve.Secp256k1{}
	params, err := party.NewParameters(group, threshold, limit)
	if err != nil {
		return err
	}

	participants := make([]*dkg.Participant, limit)
	for i := 0; i < limit; i++ {
		p, err := dkg.New(rand.Reader, dkg.Refresh, i, params)
		if err != nil {
			return fmt.Errorf("participant %d: %w", i, err)
		}
		participants[i] = p
	}

	net := harness.NewNetwork(participants)
	if err := net.Drive(context.Background(), maxRounds); err != nil {
		return err
	}

	return printSummary(fmt.Sprintf("refresh %d-of-%d", threshold, limit), participants)
}

func runReshare(cmd *cobra.Command, args []string) error {
	group := curve.Secp256k1{}

	oldParams, err := party.NewParameters(group, threshold, limit)
	if err != nil {
		return fmt.Errorf("old parameters: %w", err)
	}
	oldParticipants := make([]*dkg.Participant, limit)
	for i := 0; i < limit; i++ {
		p, err := dkg.New(rand.Reader, dkg.Secret, i, oldParams)
		if err != nil {
			return fmt.Errorf("old participant %d: %w", i, err)
		}
		oldParticipants[i] = p
	}
	oldNet := harness.NewNetwork(oldParticipants)
	if err := oldNet.Drive(context.Background(), maxRounds); err != nil {
		return fmt.Errorf("initial keygen: %w", err)
	}
	oldPublicKey, _ := oldParticipants[0].GetPublicKey()
	fmt.Printf("old public key: %s\n", hex.EncodeToString(oldPublicKey.Bytes()))

	values := make([]uint64, len(newIDs))
	for i, v := range newIDs {
		values[i] = uint64(v)
	}
	newParamIDs := testutil.CustomPartyIDs(group, values)
	newParams, err := party.NewParameters(group, newThreshold, len(newParamIDs), party.WithIdentifiers(newParamIDs))
	if err != nil {
		return fmt.Errorf("new parameters: %w", err)
	}

	continuing := limit
	if continuing > len(newParamIDs) {
		continuing = len(newParamIDs)
	}
	continuingOldIDs := make([]curve.Scalar, continuing)
	for i := 0; i < continuing; i++ {
		continuingOldIDs[i] = oldParticipants[i].ID()
	}

	newParticipants := make([]*dkg.Participant, len(newParamIDs))
	for i := 0; i < continuing; i++ {
		oldShare, ok := oldParticipants[i].GetSecretShare()
		if !ok {
			return fmt.Errorf("old participant %d has no secret share", i)
		}
		weighted, err := dkg.WeightedShare(oldParticipants[i].ID(), oldShare, continuingOldIDs)
		if err != nil {
			return fmt.Errorf("weighting share for new ordinal %d: %w", i, err)
		}
		p, err := dkg.WithSecret(rand.Reader, dkg.Secret, i, weighted, newParams)
		if err != nil {
			return fmt.Errorf("new participant %d: %w", i, err)
		}
		newParticipants[i] = p
	}
	for i := continuing; i < len(newParamIDs); i++ {
		p, err := dkg.New(rand.Reader, dkg.Refresh, i, newParams)
		if err != nil {
			return fmt.Errorf("new participant %d: %w", i, err)
		}
		newParticipants[i] = p
	}

	newNet := harness.NewNetwork(newParticipants)
	if err := newNet.Drive(context.Background(), maxRounds); err != nil {
		return fmt.Errorf("reshare: %w", err)
	}

	newPublicKey, _ := newParticipants[0].GetPublicKey()
	fmt.Printf("new public key: %s\n", hex.EncodeToString(newPublicKey.Bytes()))
	if !oldPublicKey.Equal(newPublicKey) {
		return fmt.Errorf("reshare changed the public key")
	}
	fmt.Println("public key preserved across reshare")

	return printSummary(fmt.Sprintf("reshare -> %d-of-%d", newThreshold, len(newParamIDs)), newParticipants)
}

func printSummary(label string, participants []*dkg.Participant) error {
	pk, ok := participants[0].GetPublicKey()
	if !ok {
		return fmt.Errorf("%s: participant 0 never completed", label)
	}
	hash, _ := participants[0].TranscriptHash()
	fmt.Printf("%s complete\n", label)
	fmt.Printf("  public key:      %s\n", hex.EncodeToString(pk.Bytes()))
	fmt.Printf("  transcript hash: %s\n", hex.EncodeToString(hash[:]))
	for _, p := range participants {
		share, _ := p.GetSecretShare()
		fmt.Printf("  participant %-3d share: %s\n", p.Ordinal(), hex.EncodeToString(share.Bytes()))
	}
	return nil
}
