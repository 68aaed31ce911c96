package signature

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"evoting-backend/models"
)

// Signer authenticates ballots for one cryptographic mode: DSA pairs with
// classic elections, ECDSA with EC elections.
type Signer interface {
	Mode() models.CryptoMode

	// GenerateKeyPair draws a fresh voter signing key pair.
	GenerateKeyPair() (*models.KeyPair, error)

	// Sign produces an (r, s) signature over the message. A fresh random
	// nonce is drawn on every call; degenerate components trigger a
	// retry with a new nonce, never an invalid signature.
	Sign(priv []byte, message []byte) (*models.Signature, error)

	// Verify reports whether the signature matches the message under the
	// public key. A structurally valid but failing signature yields
	// (false, nil); ErrMalformedSignature is returned only when r or s
	// is outside the scheme's valid range.
	Verify(pub []byte, message []byte, sig *models.Signature) (bool, error)
}

// New returns the signer paired with the given election mode.
func New(mode models.CryptoMode) (Signer, error) {
	switch mode {
	case models.ModeClassic:
		return NewDSASigner(), nil
	case models.ModeEC:
		return NewECDSASigner(), nil
	default:
		return nil, errors.Wrapf(models.ErrUnknownMode, "%q", mode)
	}
}

// Nonce retries before signing gives up. Hitting a degenerate r or s is
// already vanishingly rare; exhausting the budget means the random source
// is broken.
const maxSignAttempts = 128

// digest is the fixed message digest both schemes sign over.
func digest(message []byte) []byte {
	d := sha3.NewLegacyKeccak256()
	d.Write(message)
	return d.Sum(nil)
}
