package models

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CryptoMode selects the algebra an election runs on: classic ElGamal/DSA
// over a safe-prime group, or EC-ElGamal/ECDSA over edwards25519.
type CryptoMode string

const (
	ModeClassic CryptoMode = "classic"
	ModeEC      CryptoMode = "ec"
)

// Valid reports whether the mode is one of the two supported variants.
func (m CryptoMode) Valid() bool {
	return m == ModeClassic || m == ModeEC
}

type ElectionStatus string

const (
	StatusOngoing   ElectionStatus = "ongoing"
	StatusCompleted ElectionStatus = "completed"
)

// Ciphertext is one ElGamal ciphertext pair. The byte encoding is
// mode-specific: big-endian big.Int values in classic mode, 32-byte
// edwards25519 point encodings in EC mode.
type Ciphertext struct {
	C1 hexutil.Bytes `json:"c1"`
	C2 hexutil.Bytes `json:"c2"`
}

// KeyPair holds a private scalar and the matching public value, both in
// the owning scheme's byte encoding.
type KeyPair struct {
	Private hexutil.Bytes `json:"private"`
	Public  hexutil.Bytes `json:"public"`
}

// Election is the persisted record of a single election. The authority's
// private key is stored alongside the public one, as the source system
// does; key custody by the server is a known limitation of this design,
// not an accident.
type Election struct {
	ID         string          `json:"id"`
	Mode       CryptoMode      `json:"mode"`
	Candidates []string        `json:"candidates"`
	Keys       KeyPair         `json:"keys"`
	Status     ElectionStatus  `json:"status"`
	Aggregate  []Ciphertext    `json:"aggregate"`
	Voted      map[string]bool `json:"voted"`
	Results    []int           `json:"results,omitempty"`
	CreatedAt  int64           `json:"created_at"`
	ClosedAt   int64           `json:"closed_at,omitempty"`
}

// AcceptedBallots returns the number of ballots folded into the aggregate.
func (e *Election) AcceptedBallots() int {
	return len(e.Voted)
}
