package models

import (
	"github.com/pkg/errors"
)

// Sentinel errors for the voting engine. Callers dispatch on these with
// errors.Cause or errors.Is; the service layer wraps them with context.
var (
	// ErrInvalidPlaintext is returned when a plaintext other than 0 or 1
	// is handed to the bit encryption routine.
	ErrInvalidPlaintext = errors.New("plaintext must be 0 or 1")

	// ErrInsufficientEntropy is returned when the cryptographic random
	// source cannot be read. There is no fallback.
	ErrInsufficientEntropy = errors.New("insufficient entropy from random source")

	// ErrSigning is returned when signing repeatedly produces degenerate
	// signature components.
	ErrSigning = errors.New("signing failed")

	// ErrMalformedSignature is returned when r or s falls outside the
	// valid range for the scheme.
	ErrMalformedSignature = errors.New("malformed signature")

	// ErrInvalidSignature rejects a ballot whose signature does not
	// verify against the voter's registered public key.
	ErrInvalidSignature = errors.New("invalid ballot signature")

	// ErrMalformedBallot rejects a ballot whose ciphertext vector length
	// does not match the election's candidate count.
	ErrMalformedBallot = errors.New("malformed ballot")

	// ErrAlreadyVoted rejects a second ballot from the same voter.
	ErrAlreadyVoted = errors.New("voter has already cast a ballot")

	// ErrElectionClosed rejects mutations on a completed election.
	ErrElectionClosed = errors.New("election is closed")

	// ErrResultsNotAvailable is returned when results are requested
	// before the election has been closed and tallied.
	ErrResultsNotAvailable = errors.New("results not available")

	// ErrTallyRecoveryFailed signals that the bounded discrete-log search
	// found no count in range; the aggregate is corrupt or a slot was
	// injected with an out-of-range plaintext.
	ErrTallyRecoveryFailed = errors.New("tally recovery failed")

	// ErrElectionNotFound is returned for an unknown election id.
	ErrElectionNotFound = errors.New("election not found")

	// ErrInvalidCandidates rejects an election with fewer than 2 or more
	// than 20 candidates.
	ErrInvalidCandidates = errors.New("candidate count must be between 2 and 20")

	// ErrUnknownMode rejects a cryptographic mode other than classic/ec.
	ErrUnknownMode = errors.New("unknown cryptographic mode")

	// ErrVoterNotRegistered is returned when no signing key is registered
	// for a voter id.
	ErrVoterNotRegistered = errors.New("voter not registered")

	// ErrVoterExists rejects re-registration of a voter id.
	ErrVoterExists = errors.New("voter already registered")
)
