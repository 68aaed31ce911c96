package storage

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evoting-backend/models"
)

func newTestElection(id string) *models.Election {
	return &models.Election{
		ID:         id,
		Mode:       models.ModeClassic,
		Candidates: []string{"alice", "bob"},
		Keys: models.KeyPair{
			Private: []byte{0x01, 0x02},
			Public:  []byte{0x03, 0x04},
		},
		Status: models.StatusOngoing,
		Aggregate: []models.Ciphertext{
			{C1: []byte{0x05}, C2: []byte{0x06}},
			{C1: []byte{0x07}, C2: []byte{0x08}},
		},
		Voted: map[string]bool{"voter-1": true},
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store, err := NewElectionStore(t.TempDir())
	require.NoError(t, err)

	e := newTestElection("e-1")
	require.NoError(t, store.Save(e))

	loaded, err := store.Load("e-1")
	require.NoError(t, err)
	assert.Equal(t, e, loaded)
}

func TestStoreLoadMissing(t *testing.T) {
	store, err := NewElectionStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("nope")
	require.Error(t, err)
	assert.Equal(t, models.ErrElectionNotFound, errors.Cause(err))
}

func TestStoreSaveOverwrites(t *testing.T) {
	store, err := NewElectionStore(t.TempDir())
	require.NoError(t, err)

	e := newTestElection("e-1")
	require.NoError(t, store.Save(e))

	e.Status = models.StatusCompleted
	e.Results = []int{1, 0}
	require.NoError(t, store.Save(e))

	loaded, err := store.Load("e-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, loaded.Status)
	assert.Equal(t, []int{1, 0}, loaded.Results)
}

func TestStoreLoadAll(t *testing.T) {
	store, err := NewElectionStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(newTestElection("e-1")))
	require.NoError(t, store.Save(newTestElection("e-2")))

	all, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, all, 2)

	ids := map[string]bool{all[0].ID: true, all[1].ID: true}
	assert.True(t, ids["e-1"])
	assert.True(t, ids["e-2"])
}
