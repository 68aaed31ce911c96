package encryption

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evoting-backend/models"
)

func TestModpGroupValid(t *testing.T) {
	require.NoError(t, ModpGroup().Validate())
}

func TestClassicEncryptBitRoundTrip(t *testing.T) {
	s := NewClassicScheme()
	keys, err := s.GenerateKeyPair()
	require.NoError(t, err)

	for _, bit := range []int{0, 1} {
		ct, err := s.EncryptBit(keys.Public, bit)
		require.NoError(t, err)

		count, err := s.RecoverCount(keys.Private, ct, 1)
		require.NoError(t, err)
		assert.Equal(t, bit, count)
	}
}

func TestClassicEncryptBitRejectsNonBit(t *testing.T) {
	s := NewClassicScheme()
	keys, err := s.GenerateKeyPair()
	require.NoError(t, err)

	for _, bad := range []int{-1, 2, 7} {
		_, err := s.EncryptBit(keys.Public, bad)
		require.Error(t, err)
		assert.Equal(t, models.ErrInvalidPlaintext, errors.Cause(err))
	}
}

func TestClassicAggregateSumsBits(t *testing.T) {
	s := NewClassicScheme()
	keys, err := s.GenerateKeyPair()
	require.NoError(t, err)

	bits := []int{1, 0, 1, 1, 0, 1}
	agg, err := s.EncryptBit(keys.Public, bits[0])
	require.NoError(t, err)
	for _, bit := range bits[1:] {
		ct, err := s.EncryptBit(keys.Public, bit)
		require.NoError(t, err)
		agg, err = s.Aggregate(agg, ct)
		require.NoError(t, err)
	}

	count, err := s.RecoverCount(keys.Private, agg, len(bits))
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestClassicAggregateOrderIndependent(t *testing.T) {
	s := NewClassicScheme()
	keys, err := s.GenerateKeyPair()
	require.NoError(t, err)

	a, err := s.EncryptBit(keys.Public, 1)
	require.NoError(t, err)
	b, err := s.EncryptBit(keys.Public, 0)
	require.NoError(t, err)
	c, err := s.EncryptBit(keys.Public, 1)
	require.NoError(t, err)

	ab, err := s.Aggregate(a, b)
	require.NoError(t, err)
	abc, err := s.Aggregate(ab, c)
	require.NoError(t, err)

	cb, err := s.Aggregate(c, b)
	require.NoError(t, err)
	cba, err := s.Aggregate(cb, a)
	require.NoError(t, err)

	assert.Equal(t, abc, cba)
}

func TestClassicRecoverCountOutOfBound(t *testing.T) {
	s := NewClassicScheme()
	keys, err := s.GenerateKeyPair()
	require.NoError(t, err)

	a, err := s.EncryptBit(keys.Public, 1)
	require.NoError(t, err)
	b, err := s.EncryptBit(keys.Public, 1)
	require.NoError(t, err)
	agg, err := s.Aggregate(a, b)
	require.NoError(t, err)

	// The true sum is 2 but the search is bounded at 1.
	_, err = s.RecoverCount(keys.Private, agg, 1)
	require.Error(t, err)
	assert.Equal(t, models.ErrTallyRecoveryFailed, errors.Cause(err))
}

func TestClassicDecryptMultiplicative(t *testing.T) {
	s := NewClassicScheme()
	keys, err := s.GenerateKeyPair()
	require.NoError(t, err)

	// An encryption of zero is a plain ElGamal encryption of the group
	// identity.
	ct, err := s.EncryptBit(keys.Public, 0)
	require.NoError(t, err)

	m, err := s.DecryptMultiplicative(keys.Private, ct)
	require.NoError(t, err)
	assert.Equal(t, "1", m.String())
}

func TestClassicAggregateRejectsZeroComponent(t *testing.T) {
	s := NewClassicScheme()
	keys, err := s.GenerateKeyPair()
	require.NoError(t, err)

	ct, err := s.EncryptBit(keys.Public, 1)
	require.NoError(t, err)

	// A zero c1 would multiply the aggregate slot to zero permanently.
	zeroed := &models.Ciphertext{C1: []byte{0x00}, C2: ct.C2}
	_, err = s.Aggregate(ct, zeroed)
	require.Error(t, err)

	zeroed = &models.Ciphertext{C1: ct.C1, C2: []byte{0x00}}
	_, err = s.Aggregate(ct, zeroed)
	require.Error(t, err)
}

func TestClassicFreshKeysPerCall(t *testing.T) {
	s := NewClassicScheme()
	a, err := s.GenerateKeyPair()
	require.NoError(t, err)
	b, err := s.GenerateKeyPair()
	require.NoError(t, err)
	assert.NotEqual(t, a.Private, b.Private)
	assert.NotEqual(t, a.Public, b.Public)
}
