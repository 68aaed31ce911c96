package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"evoting-backend/models"
)

// ElectionStore persists election records as one JSON document per
// election under a data directory. Writes go through a temp file and an
// atomic rename so a crash never leaves a half-written record.
type ElectionStore struct {
	dir string
	mu  sync.RWMutex
}

func NewElectionStore(dir string) (*ElectionStore, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve data directory")
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create data directory")
	}
	return &ElectionStore{dir: absPath}, nil
}

func (s *ElectionStore) electionPath(id string) string {
	return filepath.Join(s.dir, fmt.Sprintf("election_%s.json", id))
}

// Save writes the complete election record, replacing any previous one.
func (s *ElectionStore) Save(e *models.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal election")
	}

	path := s.electionPath(e.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write election file")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "failed to replace election file")
	}
	return nil
}

// Load reads one election record by id.
func (s *ElectionStore) Load(id string) (*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.electionPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(models.ErrElectionNotFound, "id %s", id)
		}
		return nil, errors.Wrap(err, "failed to read election file")
	}

	var e models.Election
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal election")
	}
	return &e, nil
}

// LoadAll reads every election record in the data directory.
func (s *ElectionStore) LoadAll() ([]*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := filepath.Glob(filepath.Join(s.dir, "election_*.json"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list election files")
	}

	elections := make([]*models.Election, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", file)
		}
		var e models.Election
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal %s", file)
		}
		elections = append(elections, &e)
	}
	return elections, nil
}
