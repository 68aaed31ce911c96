package models

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// Ballot signing messages use canonical CBOR so that every party derives
// the identical byte string from the same ciphertext vector, independent
// of encoder version or field arrival order.
var signingEncMode cbor.EncMode

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	signingEncMode = em
}

// SigningMessage serializes a ciphertext vector into the deterministic
// byte string that ballot signatures are computed over.
func SigningMessage(cts []Ciphertext) ([]byte, error) {
	data, err := signingEncMode.Marshal(cts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode ciphertext vector")
	}
	return data, nil
}
