package signature

import (
	"math/big"

	"github.com/pkg/errors"
	"go.dedis.ch/kyber/v3"

	"evoting-backend/encryption"
	"evoting-backend/models"
)

// ECDSASigner implements the ECDSA equations over the shared edwards25519
// suite. The curve encoding has no affine-x convention, so r is taken
// from the reduced 32-byte encoding of R = k*G; signer and verifier use
// the same derivation, which keeps the scheme internally consistent.
type ECDSASigner struct{}

func NewECDSASigner() *ECDSASigner {
	return &ECDSASigner{}
}

// edwards25519 group order, for range-checking signature components.
var ecOrder, _ = new(big.Int).SetString(
	"1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed", 16)

func (e *ECDSASigner) Mode() models.CryptoMode {
	return models.ModeEC
}

func (e *ECDSASigner) GenerateKeyPair() (*models.KeyPair, error) {
	return encryption.NewECScheme().GenerateKeyPair()
}

func (e *ECDSASigner) Sign(priv []byte, message []byte) (*models.Signature, error) {
	suite := encryption.ECSuite()
	d := suite.Scalar()
	if err := d.UnmarshalBinary(priv); err != nil {
		return nil, errors.Wrap(err, "invalid private scalar")
	}

	h := hashToScalar(message)

	for attempt := 0; attempt < maxSignAttempts; attempt++ {
		k, err := encryption.ECRandomScalar()
		if err != nil {
			return nil, err
		}

		r := pointToScalar(suite.Point().Mul(k, nil))
		if r.Equal(suite.Scalar().Zero()) {
			continue
		}

		// s = k^-1 (h + d*r)
		t := suite.Scalar().Mul(d, r)
		t.Add(t, h)
		s := suite.Scalar().Mul(suite.Scalar().Inv(k), t)
		if s.Equal(suite.Scalar().Zero()) {
			continue
		}

		rb, err := r.MarshalBinary()
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal r")
		}
		sb, err := s.MarshalBinary()
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal s")
		}
		return &models.Signature{R: rb, S: sb}, nil
	}
	return nil, errors.Wrap(models.ErrSigning, "nonce retry budget exhausted")
}

func (e *ECDSASigner) Verify(pub []byte, message []byte, sig *models.Signature) (bool, error) {
	suite := encryption.ECSuite()

	r, err := parseScalar(sig, true)
	if err != nil {
		return false, err
	}
	s, err := parseScalar(sig, false)
	if err != nil {
		return false, err
	}

	q := suite.Point()
	if err := q.UnmarshalBinary(pub); err != nil {
		return false, errors.Wrap(err, "invalid public key point")
	}

	h := hashToScalar(message)

	// R' = (h*w)*G + (r*w)*Q with w = s^-1, then compare encodings.
	w := suite.Scalar().Inv(s)
	u1 := suite.Scalar().Mul(h, w)
	u2 := suite.Scalar().Mul(r, w)

	rp := suite.Point().Mul(u1, nil)
	rp.Add(rp, suite.Point().Mul(u2, q))

	return pointToScalar(rp).Equal(r), nil
}

func hashToScalar(message []byte) kyber.Scalar {
	return encryption.ECSuite().Scalar().SetBytes(digest(message))
}

// pointToScalar reduces a point's canonical encoding into the scalar
// field; this stands in for the x-coordinate in the ECDSA equations.
func pointToScalar(p kyber.Point) kyber.Scalar {
	buf, err := p.MarshalBinary()
	if err != nil {
		// Points built from suite operations always marshal.
		panic(err)
	}
	return encryption.ECSuite().Scalar().SetBytes(buf)
}

// parseScalar validates the range of one signature component and loads
// it as a scalar. Components are 32-byte little-endian values in
// [1, order-1]; anything else is malformed.
func parseScalar(sig *models.Signature, wantR bool) (kyber.Scalar, error) {
	if sig == nil {
		return nil, errors.Wrap(models.ErrMalformedSignature, "missing signature")
	}
	raw := sig.S
	name := "s"
	if wantR {
		raw = sig.R
		name = "r"
	}
	if len(raw) != 32 {
		return nil, errors.Wrapf(models.ErrMalformedSignature, "%s must be 32 bytes", name)
	}

	be := make([]byte, 32)
	for i, b := range raw {
		be[31-i] = b
	}
	v := new(big.Int).SetBytes(be)
	if v.Sign() <= 0 || v.Cmp(ecOrder) >= 0 {
		return nil, errors.Wrapf(models.ErrMalformedSignature, "%s out of range", name)
	}

	sc := encryption.ECSuite().Scalar()
	if err := sc.UnmarshalBinary(raw); err != nil {
		return nil, errors.Wrapf(models.ErrMalformedSignature, "%s: %v", name, err)
	}
	return sc, nil
}
