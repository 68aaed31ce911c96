package encryption

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"

	"evoting-backend/models"
)

// ClassicScheme implements exponential ElGamal over the fixed MODP group:
// a bit b encrypts to (g^k, y^k * g^b) mod p, so componentwise
// multiplication of ciphertexts adds the underlying bits in the exponent.
type ClassicScheme struct {
	group GroupParameters
}

func NewClassicScheme() *ClassicScheme {
	return &ClassicScheme{group: ModpGroup()}
}

func (s *ClassicScheme) Mode() models.CryptoMode {
	return models.ModeClassic
}

// randScalar draws a uniform scalar from [1, q-1].
func (s *ClassicScheme) randScalar() (*big.Int, error) {
	max := new(big.Int).Sub(s.group.Q, big.NewInt(1))
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return nil, errors.Wrap(models.ErrInsufficientEntropy, err.Error())
	}
	return n.Add(n, big.NewInt(1)), nil
}

func (s *ClassicScheme) GenerateKeyPair() (*models.KeyPair, error) {
	x, err := s.randScalar()
	if err != nil {
		return nil, err
	}
	y := new(big.Int).Exp(s.group.G, x, s.group.P)
	return &models.KeyPair{
		Private: x.Bytes(),
		Public:  y.Bytes(),
	}, nil
}

func (s *ClassicScheme) EncryptBit(pub []byte, bit int) (*models.Ciphertext, error) {
	if bit != 0 && bit != 1 {
		return nil, errors.Wrapf(models.ErrInvalidPlaintext, "got %d", bit)
	}
	y := new(big.Int).SetBytes(pub)
	if y.Sign() <= 0 || y.Cmp(s.group.P) >= 0 {
		return nil, errors.New("public key out of range")
	}

	k, err := s.randScalar()
	if err != nil {
		return nil, err
	}

	c1 := new(big.Int).Exp(s.group.G, k, s.group.P)
	c2 := new(big.Int).Exp(y, k, s.group.P)
	if bit == 1 {
		c2.Mul(c2, s.group.G)
		c2.Mod(c2, s.group.P)
	}

	return &models.Ciphertext{C1: c1.Bytes(), C2: c2.Bytes()}, nil
}

func (s *ClassicScheme) Aggregate(a, b *models.Ciphertext) (*models.Ciphertext, error) {
	ac1, ac2, err := s.parse(a)
	if err != nil {
		return nil, err
	}
	bc1, bc2, err := s.parse(b)
	if err != nil {
		return nil, err
	}

	c1 := new(big.Int).Mul(ac1, bc1)
	c1.Mod(c1, s.group.P)
	c2 := new(big.Int).Mul(ac2, bc2)
	c2.Mod(c2, s.group.P)

	return &models.Ciphertext{C1: c1.Bytes(), C2: c2.Bytes()}, nil
}

func (s *ClassicScheme) RecoverCount(priv []byte, agg *models.Ciphertext, max int) (int, error) {
	m, err := s.decrypt(priv, agg)
	if err != nil {
		return 0, err
	}

	// m equals g^count; walk the powers of g up to the electorate bound.
	cur := big.NewInt(1)
	for i := 0; i <= max; i++ {
		if cur.Cmp(m) == 0 {
			return i, nil
		}
		cur.Mul(cur, s.group.G)
		cur.Mod(cur, s.group.P)
	}
	return 0, errors.Wrapf(models.ErrTallyRecoveryFailed, "no count in [0, %d]", max)
}

// DecryptMultiplicative recovers the raw group element of a plain
// (non-exponential) ElGamal ciphertext. The ballot path never uses this;
// it is kept for callers that encrypt arbitrary group elements.
func (s *ClassicScheme) DecryptMultiplicative(priv []byte, ct *models.Ciphertext) (*big.Int, error) {
	return s.decrypt(priv, ct)
}

func (s *ClassicScheme) decrypt(priv []byte, ct *models.Ciphertext) (*big.Int, error) {
	c1, c2, err := s.parse(ct)
	if err != nil {
		return nil, err
	}
	x := new(big.Int).SetBytes(priv)
	if x.Sign() <= 0 || x.Cmp(s.group.Q) >= 0 {
		return nil, errors.New("private key out of range")
	}

	// m = c2 * (c1^x)^-1 mod p
	shared := new(big.Int).Exp(c1, x, s.group.P)
	shared.ModInverse(shared, s.group.P)
	m := new(big.Int).Mul(c2, shared)
	return m.Mod(m, s.group.P), nil
}

func (s *ClassicScheme) parse(ct *models.Ciphertext) (*big.Int, *big.Int, error) {
	if ct == nil || len(ct.C1) == 0 || len(ct.C2) == 0 {
		return nil, nil, errors.New("empty ciphertext")
	}
	c1 := new(big.Int).SetBytes(ct.C1)
	c2 := new(big.Int).SetBytes(ct.C2)
	// Zero is not a group element; a zero component would absorb the
	// aggregate slot for good.
	if c1.Sign() <= 0 || c1.Cmp(s.group.P) >= 0 {
		return nil, nil, errors.New("c1 out of range")
	}
	if c2.Sign() <= 0 || c2.Cmp(s.group.P) >= 0 {
		return nil, nil, errors.New("c2 out of range")
	}
	return c1, c2, nil
}
