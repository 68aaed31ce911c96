package service

import (
	"github.com/pkg/errors"

	"evoting-backend/encryption"
	"evoting-backend/models"
)

// VotingResults pairs candidate names with their recovered counts for
// API responses.
type VotingResults struct {
	ElectionID string         `json:"election_id"`
	Counts     map[string]int `json:"counts"`
	Total      int            `json:"total"`
}

// NewVotingResults builds the response view from a tallied election.
func NewVotingResults(e *models.Election, results []int) *VotingResults {
	counts := make(map[string]int, len(e.Candidates))
	for i, name := range e.Candidates {
		counts[name] = results[i]
	}
	return &VotingResults{
		ElectionID: e.ID,
		Counts:     counts,
		Total:      sumCounts(results),
	}
}

// recoverTally decrypts each aggregate slot back to a count. No slot can
// exceed the number of accepted ballots, which bounds the discrete-log
// search.
func recoverTally(scheme encryption.Scheme, priv []byte, aggregate []models.Ciphertext, maxCount int) ([]int, error) {
	results := make([]int, len(aggregate))
	for i := range aggregate {
		count, err := scheme.RecoverCount(priv, &aggregate[i], maxCount)
		if err != nil {
			return nil, errors.Wrapf(err, "slot %d", i)
		}
		results[i] = count
	}
	return results, nil
}

func sumCounts(results []int) int {
	total := 0
	for _, c := range results {
		total += c
	}
	return total
}
