package encryption

import (
	"crypto/rand"

	"github.com/pkg/errors"
	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/group/edwards25519"

	"evoting-backend/models"
)

// Curve25519-family suite shared by the EC encryption and signature
// engines. Fixed at startup, never swapped at runtime.
var suite = edwards25519.NewBlakeSHA256Ed25519()

// ECScheme implements EC-ElGamal over edwards25519: a bit b encrypts to
// (k*G, b*G + k*Q), so componentwise point addition of ciphertexts adds
// the underlying bits.
type ECScheme struct{}

func NewECScheme() *ECScheme {
	return &ECScheme{}
}

func (s *ECScheme) Mode() models.CryptoMode {
	return models.ModeEC
}

// ECRandomScalar draws a uniform nonzero scalar. Seed bytes come from
// crypto/rand so that entropy failures surface as errors instead of the
// library's panic.
func ECRandomScalar() (kyber.Scalar, error) {
	seed := make([]byte, 64)
	if _, err := rand.Read(seed); err != nil {
		return nil, errors.Wrap(models.ErrInsufficientEntropy, err.Error())
	}
	sc := suite.Scalar().SetBytes(seed)
	if sc.Equal(suite.Scalar().Zero()) {
		return ECRandomScalar()
	}
	return sc, nil
}

// ECSuite exposes the shared edwards25519 suite for the signature engine.
func ECSuite() *edwards25519.SuiteEd25519 {
	return suite
}

func (s *ECScheme) GenerateKeyPair() (*models.KeyPair, error) {
	x, err := ECRandomScalar()
	if err != nil {
		return nil, err
	}
	q := suite.Point().Mul(x, nil)

	priv, err := x.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal private scalar")
	}
	pub, err := q.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal public point")
	}
	return &models.KeyPair{Private: priv, Public: pub}, nil
}

func (s *ECScheme) EncryptBit(pub []byte, bit int) (*models.Ciphertext, error) {
	if bit != 0 && bit != 1 {
		return nil, errors.Wrapf(models.ErrInvalidPlaintext, "got %d", bit)
	}
	q := suite.Point()
	if err := q.UnmarshalBinary(pub); err != nil {
		return nil, errors.Wrap(err, "invalid public key point")
	}

	k, err := ECRandomScalar()
	if err != nil {
		return nil, err
	}

	c1 := suite.Point().Mul(k, nil)
	c2 := suite.Point().Mul(k, q)
	if bit == 1 {
		c2.Add(c2, suite.Point().Base())
	}

	return marshalECCiphertext(c1, c2)
}

func (s *ECScheme) Aggregate(a, b *models.Ciphertext) (*models.Ciphertext, error) {
	ac1, ac2, err := unmarshalECCiphertext(a)
	if err != nil {
		return nil, err
	}
	bc1, bc2, err := unmarshalECCiphertext(b)
	if err != nil {
		return nil, err
	}

	c1 := suite.Point().Add(ac1, bc1)
	c2 := suite.Point().Add(ac2, bc2)
	return marshalECCiphertext(c1, c2)
}

func (s *ECScheme) RecoverCount(priv []byte, agg *models.Ciphertext, max int) (int, error) {
	c1, c2, err := unmarshalECCiphertext(agg)
	if err != nil {
		return 0, err
	}
	x := suite.Scalar()
	if err := x.UnmarshalBinary(priv); err != nil {
		return 0, errors.Wrap(err, "invalid private scalar")
	}

	// M = C2 - x*C1 equals count*G; walk multiples of G up to the bound.
	shared := suite.Point().Mul(x, c1)
	m := suite.Point().Sub(c2, shared)

	cur := suite.Point().Null()
	base := suite.Point().Base()
	for i := 0; i <= max; i++ {
		if cur.Equal(m) {
			return i, nil
		}
		cur.Add(cur, base)
	}
	return 0, errors.Wrapf(models.ErrTallyRecoveryFailed, "no count in [0, %d]", max)
}

func marshalECCiphertext(c1, c2 kyber.Point) (*models.Ciphertext, error) {
	b1, err := c1.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal c1")
	}
	b2, err := c2.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal c2")
	}
	return &models.Ciphertext{C1: b1, C2: b2}, nil
}

func unmarshalECCiphertext(ct *models.Ciphertext) (kyber.Point, kyber.Point, error) {
	if ct == nil || len(ct.C1) == 0 || len(ct.C2) == 0 {
		return nil, nil, errors.New("empty ciphertext")
	}
	c1 := suite.Point()
	if err := c1.UnmarshalBinary(ct.C1); err != nil {
		return nil, nil, errors.Wrap(err, "invalid c1 point")
	}
	c2 := suite.Point()
	if err := c2.UnmarshalBinary(ct.C2); err != nil {
		return nil, nil, errors.Wrap(err, "invalid c2 point")
	}
	return c1, c2, nil
}
