package models

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Signature is an (r, s) pair in the owning scheme's byte encoding:
// big-endian big.Int values for DSA, 32-byte scalar encodings for ECDSA.
type Signature struct {
	R hexutil.Bytes `json:"r"`
	S hexutil.Bytes `json:"s"`
}

// Ballot carries one encrypted vote: a ciphertext per candidate slot and
// the voter's signature over the serialized ciphertext vector. Each slot
// should encrypt 0 or 1 with exactly one 1 overall; the engine cannot
// check this without a zero-knowledge one-hot proof, so a dishonest
// client can submit out-of-range plaintexts that only surface as a tally
// recovery failure at close.
type Ballot struct {
	VoterID     string       `json:"voter_id"`
	Ciphertexts []Ciphertext `json:"ciphertexts"`
	Signature   Signature    `json:"signature"`
}
