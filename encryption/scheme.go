package encryption

import (
	"github.com/pkg/errors"

	"evoting-backend/models"
)

// Scheme is the homomorphic encryption engine for one cryptographic mode.
// Ciphertexts produced by one scheme are opaque to the other; the mode is
// chosen once per election at creation and never switched.
type Scheme interface {
	Mode() models.CryptoMode

	// GenerateKeyPair draws a fresh election key pair from a
	// cryptographically secure random source.
	GenerateKeyPair() (*models.KeyPair, error)

	// EncryptBit encrypts a single 0/1 plaintext under the election
	// public key. Anything else is rejected with ErrInvalidPlaintext.
	EncryptBit(pub []byte, bit int) (*models.Ciphertext, error)

	// Aggregate folds two ciphertexts into the ciphertext of the sum of
	// their plaintexts. The operation is associative and commutative.
	Aggregate(a, b *models.Ciphertext) (*models.Ciphertext, error)

	// RecoverCount decrypts an aggregate and recovers the plaintext sum
	// by bounded search over [0, max]. The linear search is deliberate:
	// the electorate is small and known, so no general discrete-log
	// solver is wanted here.
	RecoverCount(priv []byte, agg *models.Ciphertext, max int) (int, error)
}

// New returns the scheme for the given mode.
func New(mode models.CryptoMode) (Scheme, error) {
	switch mode {
	case models.ModeClassic:
		return NewClassicScheme(), nil
	case models.ModeEC:
		return NewECScheme(), nil
	default:
		return nil, errors.Wrapf(models.ErrUnknownMode, "%q", mode)
	}
}
