package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigningMessageDeterministic(t *testing.T) {
	cts := []Ciphertext{
		{C1: []byte{0x01, 0x02}, C2: []byte{0x03}},
		{C1: []byte{0x04}, C2: []byte{0x05, 0x06}},
	}

	a, err := SigningMessage(cts)
	require.NoError(t, err)
	b, err := SigningMessage(cts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSigningMessageOrderSensitive(t *testing.T) {
	x := Ciphertext{C1: []byte{0x01}, C2: []byte{0x02}}
	y := Ciphertext{C1: []byte{0x03}, C2: []byte{0x04}}

	ab, err := SigningMessage([]Ciphertext{x, y})
	require.NoError(t, err)
	ba, err := SigningMessage([]Ciphertext{y, x})
	require.NoError(t, err)
	assert.NotEqual(t, ab, ba)
}

func TestSigningMessageContentSensitive(t *testing.T) {
	a, err := SigningMessage([]Ciphertext{{C1: []byte{0x01}, C2: []byte{0x02}}})
	require.NoError(t, err)
	b, err := SigningMessage([]Ciphertext{{C1: []byte{0x01}, C2: []byte{0x03}}})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCryptoModeValid(t *testing.T) {
	assert.True(t, ModeClassic.Valid())
	assert.True(t, ModeEC.Valid())
	assert.False(t, CryptoMode("rsa").Valid())
	assert.False(t, CryptoMode("").Valid())
}

func TestAcceptedBallots(t *testing.T) {
	e := &Election{Voted: map[string]bool{"a": true, "b": true}}
	assert.Equal(t, 2, e.AcceptedBallots())

	empty := &Election{}
	assert.Equal(t, 0, empty.AcceptedBallots())
}
