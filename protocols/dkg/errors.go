package dkg

import "fmt"

// Kind names one of the protocol's failure modes. Per-peer kinds drop the
// offending peer and let the protocol continue if enough remain; fatal
// kinds trap the participant in its current round.
type Kind int

const (
	_ Kind = iota
	// BadConfig means Parameters were invalid at construction.
	BadConfig
	// BadFormat means a payload could not be decoded.
	BadFormat
	// UnexpectedRound means a payload's tag names a round ahead of the
	// FSM's current round.
	UnexpectedRound
	// UnknownSender means sender_ordinal is not in the parameters'
	// identifier list.
	UnknownSender
	// SenderSelf means a payload claims to be from our own ordinal.
	SenderSelf
	// SenderIDZero means sender_id is the zero scalar.
	SenderIDZero
	// SenderIDMismatch means sender_id does not match the id at
	// sender_ordinal in Parameters.
	SenderIDMismatch
	// DuplicateMessage means the same peer already has an entry for this
	// round.
	DuplicateMessage
	// CommitmentMismatch means a Round 2/4 recomputed hash disagrees with
	// the Round 1 commitment. Per-peer: drop, continue.
	CommitmentMismatch
	// ShareVerificationFailed means a Pedersen or Feldman check failed.
	// Per-peer: drop, continue.
	ShareVerificationFailed
	// EchoMismatch means Round 3's valid-set echo disagreed. Fatal.
	EchoMismatch
	// TranscriptMismatch means Round 5's transcript or public key
	// disagreed. Fatal.
	TranscriptMismatch
	// InsufficientParticipants means fewer than threshold peers survived.
	// Fatal.
	InsufficientParticipants
	// InvalidPublicKey means the combined key was identity for a run with
	// at least one Secret participant, or no peer's share was added.
	// Fatal.
	InvalidPublicKey
	// NotReady means run() was called before threshold messages of the
	// prior round arrived.
	NotReady
)

func (k Kind) String() string {
	switch k {
	case BadConfig:
		return "BadConfig"
	case BadFormat:
		return "BadFormat"
	case UnexpectedRound:
		return "UnexpectedRound"
	case UnknownSender:
		return "UnknownSender"
	case SenderSelf:
		return "SenderSelf"
	case SenderIDZero:
		return "SenderIDZero"
	case SenderIDMismatch:
		return "SenderIDMismatch"
	case DuplicateMessage:
		return "DuplicateMessage"
	case CommitmentMismatch:
		return "CommitmentMismatch"
	case ShareVerificationFailed:
		return "ShareVerificationFailed"
	case EchoMismatch:
		return "EchoMismatch"
	case TranscriptMismatch:
		return "TranscriptMismatch"
	case InsufficientParticipants:
		return "InsufficientParticipants"
	case InvalidPublicKey:
		return "InvalidPublicKey"
	case NotReady:
		return "NotReady"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Fatal reports whether this kind traps the participant rather than merely
// dropping a peer.
func (k Kind) Fatal() bool {
	switch k {
	case EchoMismatch, TranscriptMismatch, InsufficientParticipants, InvalidPublicKey:
		return true
	default:
		return false
	}
}

// Error is the protocol's single error type. Round is 0 when the error is
// not tied to a specific round (e.g. BadConfig).
type Error struct {
	Kind   Kind
	Round  Round
	Peer   int // ordinal of the offending peer, -1 if not applicable
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Peer >= 0 {
		return fmt.Sprintf("dkg: round %s: %s: peer %d: %s", e.Round, e.Kind, e.Peer, e.Detail)
	}
	return fmt.Sprintf("dkg: round %s: %s: %s", e.Round, e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(kind Kind, round Round, peer int, detail string) *Error {
	return &Error{Kind: kind, Round: round, Peer: peer, Detail: detail}
}

func wrapErr(kind Kind, round Round, peer int, detail string, cause error) *Error {
	return &Error{Kind: kind, Round: round, Peer: peer, Detail: detail, Cause: cause}
}
