// Package harness drives an in-memory simulated network for the dkg state
// machine: no transport, no sockets, just direct Go calls standing in for
// wire delivery. It exists for tests and the demo CLI; production callers
// own their own transport and call Participant.Run/Receive directly.
package harness

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/gennaro-dkg/protocols/dkg"
)

// Network holds every participant in one simulated run, keyed by ordinal.
type Network struct {
	participants map[int]*dkg.Participant
	order        []int
}

// NewNetwork indexes participants by their own reported ordinal.
func NewNetwork(participants []*dkg.Participant) *Network {
	n := &Network{participants: make(map[int]*dkg.Participant, len(participants))}
	for _, p := range participants {
		n.participants[p.Ordinal()] = p
		n.order = append(n.order, p.Ordinal())
	}
	return n
}

type delivery struct {
	dst  int
	body []byte
}

// Drive repeatedly calls Run on every participant still able to make
// progress and delivers the resulting outputs, fanning each round's
// simultaneous run/receive calls out across goroutines with an
// errgroup.Group so that no participant's processing blocks another's, the
// same way independent connections on a real transport would not serialize
// behind one another. It stops once every participant has computed its
// secret share in Round Five, or returns an error if maxRounds elapses first
// or any participant hits a fatal protocol error.
func (n *Network) Drive(ctx context.Context, maxRounds int) error {
	for round := 0; round < maxRounds; round++ {
		outputs := make([]*dkg.OutputGenerator, len(n.order))

		g, _ := errgroup.WithContext(ctx)
		for i, ord := range n.order {
			i, ord := i, ord
			g.Go(func() error {
				gen, err := n.participants[ord].Run()
				if err != nil {
					var perr *dkg.Error
					if errors.As(err, &perr) && perr.Kind == dkg.NotReady {
						return nil
					}
					return fmt.Errorf("participant %d: %w", ord, err)
				}
				outputs[i] = gen
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		deliveries := make(map[int][]delivery)
		anyOutput := false
		for _, gen := range outputs {
			if gen == nil {
				continue
			}
			for _, out := range gen.All() {
				anyOutput = true
				deliveries[out.DstOrdinal] = append(deliveries[out.DstOrdinal], delivery{dst: out.DstOrdinal, body: out.Bytes})
			}
		}

		g2, _ := errgroup.WithContext(ctx)
		for dst, msgs := range deliveries {
			dst, msgs := dst, msgs
			g2.Go(func() error {
				p, ok := n.participants[dst]
				if !ok {
					return fmt.Errorf("harness: no participant at ordinal %d", dst)
				}
				for _, m := range msgs {
					if err := p.Receive(m.body); err != nil {
						var perr *dkg.Error
						if errors.As(err, &perr) && !perr.Kind.Fatal() {
							continue
						}
						return fmt.Errorf("participant %d: %w", dst, err)
					}
				}
				return nil
			})
		}
		if err := g2.Wait(); err != nil {
			return err
		}

		// Reaching Round Five only means runRoundFour has broadcast its
		// Feldman verifiers; aggregation itself happens inside the next
		// Run() call, once every participant is in Round Five. Gate
		// completion on GetSecretShare succeeding, not just the round
		// number, so the loop does not stop one iteration early.
		done := true
		for _, ord := range n.order {
			if _, ok := n.participants[ord].GetSecretShare(); !ok {
				done = false
				break
			}
		}
		if done {
			return nil
		}
		if !anyOutput && round > 0 {
			return errors.New("harness: protocol stalled with no outputs and no participant at round five")
		}
	}
	return fmt.Errorf("harness: protocol did not converge within %d rounds", maxRounds)
}

// Participant returns the participant registered at ordinal, if any.
func (n *Network) Participant(ordinal int) (*dkg.Participant, bool) {
	p, ok := n.participants[ordinal]
	return p, ok
}
