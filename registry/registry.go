package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"evoting-backend/models"
)

// VoterRegistry maps a (election, voter) pair to the voter's signing
// public key. The engine consumes it during ballot verification; the
// surrounding application decides how entries get in.
type VoterRegistry interface {
	Register(electionID, voterID string, pub []byte) error
	PublicKey(electionID, voterID string) ([]byte, error)
	Exists(electionID, voterID string) bool
}

// VoterRecord is one registered signing key.
type VoterRecord struct {
	ElectionID string        `json:"election_id"`
	VoterID    string        `json:"voter_id"`
	PublicKey  hexutil.Bytes `json:"public_key"`
}

// JSONRegistry is a file-backed VoterRegistry: the full registry is kept
// in memory and rewritten on every mutation.
type JSONRegistry struct {
	path   string
	mu     sync.RWMutex
	voters map[string]VoterRecord
}

func key(electionID, voterID string) string {
	return electionID + "/" + voterID
}

// NewJSONRegistry loads (or creates) the registry file at path.
func NewJSONRegistry(path string) (*JSONRegistry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create registry directory")
	}

	r := &JSONRegistry{
		path:   path,
		voters: make(map[string]VoterRecord),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *JSONRegistry) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "failed to read registry file")
	}

	var stored struct {
		Voters []VoterRecord `json:"voters"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		return errors.Wrap(err, "failed to unmarshal registry file")
	}
	for _, rec := range stored.Voters {
		r.voters[key(rec.ElectionID, rec.VoterID)] = rec
	}
	return nil
}

func (r *JSONRegistry) save() error {
	stored := struct {
		Voters []VoterRecord `json:"voters"`
	}{Voters: make([]VoterRecord, 0, len(r.voters))}
	for _, rec := range r.voters {
		stored.Voters = append(stored.Voters, rec)
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal registry")
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write registry file")
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "failed to replace registry file")
	}
	return nil
}

func (r *JSONRegistry) Register(electionID, voterID string, pub []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(electionID, voterID)
	if _, ok := r.voters[k]; ok {
		return errors.Wrapf(models.ErrVoterExists, "voter %s", voterID)
	}
	r.voters[k] = VoterRecord{
		ElectionID: electionID,
		VoterID:    voterID,
		PublicKey:  append(hexutil.Bytes(nil), pub...),
	}
	return r.save()
}

func (r *JSONRegistry) PublicKey(electionID, voterID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.voters[key(electionID, voterID)]
	if !ok {
		return nil, errors.Wrapf(models.ErrVoterNotRegistered, "voter %s", voterID)
	}
	return rec.PublicKey, nil
}

func (r *JSONRegistry) Exists(electionID, voterID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.voters[key(electionID, voterID)]
	return ok
}
