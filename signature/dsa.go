package signature

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"

	"evoting-backend/encryption"
	"evoting-backend/models"
)

// DSASigner implements DSA over the same MODP group the classic
// encryption scheme uses.
type DSASigner struct {
	group encryption.GroupParameters
}

func NewDSASigner() *DSASigner {
	return &DSASigner{group: encryption.ModpGroup()}
}

func (d *DSASigner) Mode() models.CryptoMode {
	return models.ModeClassic
}

func (d *DSASigner) randScalar() (*big.Int, error) {
	max := new(big.Int).Sub(d.group.Q, big.NewInt(1))
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return nil, errors.Wrap(models.ErrInsufficientEntropy, err.Error())
	}
	return n.Add(n, big.NewInt(1)), nil
}

func (d *DSASigner) GenerateKeyPair() (*models.KeyPair, error) {
	x, err := d.randScalar()
	if err != nil {
		return nil, err
	}
	y := new(big.Int).Exp(d.group.G, x, d.group.P)
	return &models.KeyPair{
		Private: x.Bytes(),
		Public:  y.Bytes(),
	}, nil
}

func (d *DSASigner) Sign(priv []byte, message []byte) (*models.Signature, error) {
	x := new(big.Int).SetBytes(priv)
	if x.Sign() <= 0 || x.Cmp(d.group.Q) >= 0 {
		return nil, errors.New("private key out of range")
	}

	h := new(big.Int).SetBytes(digest(message))
	h.Mod(h, d.group.Q)

	for attempt := 0; attempt < maxSignAttempts; attempt++ {
		k, err := d.randScalar()
		if err != nil {
			return nil, err
		}

		// r = (g^k mod p) mod q
		r := new(big.Int).Exp(d.group.G, k, d.group.P)
		r.Mod(r, d.group.Q)
		if r.Sign() == 0 {
			continue
		}

		// s = k^-1 (h + x*r) mod q
		kInv := new(big.Int).ModInverse(k, d.group.Q)
		if kInv == nil {
			continue
		}
		s := new(big.Int).Mul(x, r)
		s.Add(s, h)
		s.Mul(s, kInv)
		s.Mod(s, d.group.Q)
		if s.Sign() == 0 {
			continue
		}

		return &models.Signature{R: r.Bytes(), S: s.Bytes()}, nil
	}
	return nil, errors.Wrap(models.ErrSigning, "nonce retry budget exhausted")
}

func (d *DSASigner) Verify(pub []byte, message []byte, sig *models.Signature) (bool, error) {
	r, s, err := d.parseSignature(sig)
	if err != nil {
		return false, err
	}
	y := new(big.Int).SetBytes(pub)
	if y.Sign() <= 0 || y.Cmp(d.group.P) >= 0 {
		return false, errors.New("public key out of range")
	}

	h := new(big.Int).SetBytes(digest(message))
	h.Mod(h, d.group.Q)

	// v = (g^(h*w) * y^(r*w) mod p) mod q with w = s^-1
	w := new(big.Int).ModInverse(s, d.group.Q)
	if w == nil {
		return false, nil
	}
	u1 := new(big.Int).Mul(h, w)
	u1.Mod(u1, d.group.Q)
	u2 := new(big.Int).Mul(r, w)
	u2.Mod(u2, d.group.Q)

	v := new(big.Int).Exp(d.group.G, u1, d.group.P)
	t := new(big.Int).Exp(y, u2, d.group.P)
	v.Mul(v, t)
	v.Mod(v, d.group.P)
	v.Mod(v, d.group.Q)

	return v.Cmp(r) == 0, nil
}

func (d *DSASigner) parseSignature(sig *models.Signature) (*big.Int, *big.Int, error) {
	if sig == nil || len(sig.R) == 0 || len(sig.S) == 0 {
		return nil, nil, errors.Wrap(models.ErrMalformedSignature, "missing component")
	}
	r := new(big.Int).SetBytes(sig.R)
	s := new(big.Int).SetBytes(sig.S)
	if r.Sign() <= 0 || r.Cmp(d.group.Q) >= 0 {
		return nil, nil, errors.Wrap(models.ErrMalformedSignature, "r out of range")
	}
	if s.Sign() <= 0 || s.Cmp(d.group.Q) >= 0 {
		return nil, nil, errors.Wrap(models.ErrMalformedSignature, "s out of range")
	}
	return r, s, nil
}
