package registry

import (
	"sync"

	"github.com/pkg/errors"

	"evoting-backend/models"
)

// MemoryRegistry is a map-backed VoterRegistry with no persistence.
// Tests and throwaway demo runs use it in place of the JSON-backed one.
type MemoryRegistry struct {
	mu     sync.RWMutex
	voters map[string][]byte
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{voters: make(map[string][]byte)}
}

func (r *MemoryRegistry) Register(electionID, voterID string, pub []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(electionID, voterID)
	if _, ok := r.voters[k]; ok {
		return errors.Wrapf(models.ErrVoterExists, "voter %s", voterID)
	}
	r.voters[k] = append([]byte(nil), pub...)
	return nil
}

func (r *MemoryRegistry) PublicKey(electionID, voterID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pub, ok := r.voters[key(electionID, voterID)]
	if !ok {
		return nil, errors.Wrapf(models.ErrVoterNotRegistered, "voter %s", voterID)
	}
	return pub, nil
}

func (r *MemoryRegistry) Exists(electionID, voterID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.voters[key(electionID, voterID)]
	return ok
}
