package service

import (
	"github.com/pkg/errors"

	"evoting-backend/encryption"
	"evoting-backend/models"
	"evoting-backend/signature"
)

// BuildBallot performs the client half of the protocol: encrypt a
// one-hot choice vector under the election key and sign the canonical
// encoding of the ciphertexts with the voter's key. It lives in the
// engine so the demo command and tests can cast well-formed ballots; a
// real client would run the same steps out of process.
func BuildBallot(e *models.Election, voterID string, voterPriv []byte, choice int) (*models.Ballot, error) {
	if choice < 0 || choice >= len(e.Candidates) {
		return nil, errors.Wrapf(models.ErrMalformedBallot, "choice %d out of range", choice)
	}

	scheme, err := encryption.New(e.Mode)
	if err != nil {
		return nil, err
	}
	signer, err := signature.New(e.Mode)
	if err != nil {
		return nil, err
	}

	cts := make([]models.Ciphertext, len(e.Candidates))
	for i := range cts {
		bit := 0
		if i == choice {
			bit = 1
		}
		ct, err := scheme.EncryptBit(e.Keys.Public, bit)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encrypt slot %d", i)
		}
		cts[i] = *ct
	}

	message, err := models.SigningMessage(cts)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(voterPriv, message)
	if err != nil {
		return nil, err
	}

	return &models.Ballot{
		VoterID:     voterID,
		Ciphertexts: cts,
		Signature:   *sig,
	}, nil
}
