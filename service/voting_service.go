package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"evoting-backend/encryption"
	"evoting-backend/models"
	"evoting-backend/registry"
	"evoting-backend/signature"
	"evoting-backend/storage"
)

// VotingService coordinates the election lifecycle: it accepts ballots,
// enforces one vote per voter, maintains the running homomorphic
// aggregate and recovers the tally at close. Ballot acceptance for one
// election is serialized behind that election's mutex — the
// already-voted check and the aggregate fold must be atomic, or two
// concurrent ballots from the same voter could both pass the check.
// Distinct elections share no state and proceed in parallel.
type VotingService struct {
	store    *storage.ElectionStore
	registry registry.VoterRegistry
	metrics  *Metrics

	mu        sync.RWMutex
	elections map[string]*electionState
}

type electionState struct {
	mu       sync.Mutex
	election *models.Election
	scheme   encryption.Scheme
	signer   signature.Signer
}

func New(store *storage.ElectionStore, reg registry.VoterRegistry) (*VotingService, error) {
	vs := &VotingService{
		store:     store,
		registry:  reg,
		metrics:   NewMetrics(),
		elections: make(map[string]*electionState),
	}

	persisted, err := store.LoadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load persisted elections")
	}
	for _, e := range persisted {
		state, err := newElectionState(e)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to restore election %s", e.ID)
		}
		vs.elections[e.ID] = state
	}
	if len(persisted) > 0 {
		log.WithField("count", len(persisted)).Info("restored persisted elections")
	}

	return vs, nil
}

func newElectionState(e *models.Election) (*electionState, error) {
	scheme, err := encryption.New(e.Mode)
	if err != nil {
		return nil, err
	}
	signer, err := signature.New(e.Mode)
	if err != nil {
		return nil, err
	}
	if e.Voted == nil {
		e.Voted = make(map[string]bool)
	}
	return &electionState{election: e, scheme: scheme, signer: signer}, nil
}

// InitializeElection creates an ongoing election with a fresh key pair
// and an aggregate vector of encryptions of zero, so that folding is
// well-defined from the first ballot on.
func (vs *VotingService) InitializeElection(candidates []string, mode models.CryptoMode) (*models.Election, error) {
	if len(candidates) < 2 || len(candidates) > 20 {
		return nil, errors.Wrapf(models.ErrInvalidCandidates, "got %d", len(candidates))
	}

	scheme, err := encryption.New(mode)
	if err != nil {
		return nil, err
	}
	signer, err := signature.New(mode)
	if err != nil {
		return nil, err
	}

	keys, err := scheme.GenerateKeyPair()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate election keys")
	}

	aggregate := make([]models.Ciphertext, len(candidates))
	for i := range aggregate {
		ct, err := scheme.EncryptBit(keys.Public, 0)
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize aggregate")
		}
		aggregate[i] = *ct
	}

	e := &models.Election{
		ID:         uuid.New().String(),
		Mode:       mode,
		Candidates: append([]string(nil), candidates...),
		Keys:       *keys,
		Status:     models.StatusOngoing,
		Aggregate:  aggregate,
		Voted:      make(map[string]bool),
		CreatedAt:  time.Now().Unix(),
	}

	if err := vs.store.Save(e); err != nil {
		return nil, errors.Wrap(err, "failed to persist election")
	}

	vs.mu.Lock()
	vs.elections[e.ID] = &electionState{
		election: e,
		scheme:   scheme,
		signer:   signer,
	}
	vs.mu.Unlock()

	vs.metrics.ElectionOpened()
	log.WithFields(log.Fields{
		"election":   e.ID,
		"mode":       mode,
		"candidates": len(candidates),
	}).Info("election initialized")

	return e, nil
}

// RegisterVoter generates a signing key pair for the voter in the
// election's mode and records the public half in the registry. The
// private half is returned to the caller exactly once and is not kept
// by the engine. Generating it server-side at all means the authority
// saw it; that custody model is inherited from the source system and
// documented rather than fixed here.
func (vs *VotingService) RegisterVoter(electionID, voterID string) (*models.KeyPair, error) {
	state, err := vs.state(electionID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	if state.election.Status != models.StatusOngoing {
		return nil, errors.Wrapf(models.ErrElectionClosed, "election %s", electionID)
	}
	if vs.registry.Exists(electionID, voterID) {
		return nil, errors.Wrapf(models.ErrVoterExists, "voter %s", voterID)
	}

	keys, err := state.signer.GenerateKeyPair()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate voter keys")
	}
	if err := vs.registry.Register(electionID, voterID, keys.Public); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"election": electionID,
		"voter":    voterID,
	}).Info("voter registered")

	return keys, nil
}

// CastBallot validates and folds one ballot into the election aggregate.
// Every rejection leaves the aggregate and the voted set untouched.
func (vs *VotingService) CastBallot(electionID string, ballot *models.Ballot) error {
	if err := vs.castBallot(electionID, ballot); err != nil {
		vs.metrics.BallotRejected()
		return err
	}
	vs.metrics.BallotAccepted()
	return nil
}

func (vs *VotingService) castBallot(electionID string, ballot *models.Ballot) error {
	state, err := vs.state(electionID)
	if err != nil {
		return err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	e := state.election
	if e.Status != models.StatusOngoing {
		return errors.Wrapf(models.ErrElectionClosed, "election %s", electionID)
	}
	if e.Voted[ballot.VoterID] {
		return errors.Wrapf(models.ErrAlreadyVoted, "voter %s", ballot.VoterID)
	}
	if len(ballot.Ciphertexts) != len(e.Candidates) {
		return errors.Wrapf(models.ErrMalformedBallot,
			"got %d ciphertexts for %d candidates", len(ballot.Ciphertexts), len(e.Candidates))
	}

	pub, err := vs.registry.PublicKey(electionID, ballot.VoterID)
	if err != nil {
		return err
	}
	message, err := models.SigningMessage(ballot.Ciphertexts)
	if err != nil {
		return errors.Wrap(models.ErrMalformedBallot, err.Error())
	}
	ok, err := state.signer.Verify(pub, message, &ballot.Signature)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(models.ErrInvalidSignature, "voter %s", ballot.VoterID)
	}

	// Fold into a scratch vector first so a bad slot rejects the whole
	// ballot without touching the running aggregate.
	updated := make([]models.Ciphertext, len(e.Aggregate))
	for i := range e.Aggregate {
		ct, err := state.scheme.Aggregate(&e.Aggregate[i], &ballot.Ciphertexts[i])
		if err != nil {
			return errors.Wrapf(models.ErrMalformedBallot, "slot %d: %v", i, err)
		}
		updated[i] = *ct
	}

	prev := e.Aggregate
	e.Aggregate = updated
	e.Voted[ballot.VoterID] = true

	if err := vs.store.Save(e); err != nil {
		// Roll back so a retry after a transient persistence failure is
		// not misread as a double vote.
		e.Aggregate = prev
		delete(e.Voted, ballot.VoterID)
		return errors.Wrap(err, "failed to persist ballot")
	}

	log.WithFields(log.Fields{
		"election": electionID,
		"voter":    ballot.VoterID,
		"accepted": e.AcceptedBallots(),
	}).Info("ballot accepted")

	return nil
}

// CloseAndTally transitions the election to completed and recovers the
// per-candidate counts from the aggregate. A recovery failure leaves the
// election closed with no results; that condition is surfaced to the
// operator rather than retried.
func (vs *VotingService) CloseAndTally(electionID string) ([]int, error) {
	state, err := vs.state(electionID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	e := state.election
	if e.Status != models.StatusOngoing {
		return nil, errors.Wrapf(models.ErrElectionClosed, "election %s", electionID)
	}

	e.Status = models.StatusCompleted
	e.ClosedAt = time.Now().Unix()

	tallyStart := time.Now()
	results, err := recoverTally(state.scheme, e.Keys.Private, e.Aggregate, e.AcceptedBallots())
	if err != nil {
		if saveErr := vs.store.Save(e); saveErr != nil {
			log.WithError(saveErr).Error("failed to persist closed election")
		}
		return nil, err
	}

	e.Results = results
	if err := vs.store.Save(e); err != nil {
		return nil, errors.Wrap(err, "failed to persist results")
	}
	vs.metrics.ElectionClosed(time.Since(tallyStart))

	if total := sumCounts(results); total != e.AcceptedBallots() {
		// Possible only if a client slipped out-of-range plaintexts past
		// the unenforced one-hot check.
		log.WithFields(log.Fields{
			"election": electionID,
			"total":    total,
			"accepted": e.AcceptedBallots(),
		}).Warn("tally total does not match accepted ballot count")
	}

	log.WithFields(log.Fields{
		"election": electionID,
		"results":  results,
	}).Info("election closed and tallied")

	return results, nil
}

// GetResults returns the decrypted per-candidate counts once the
// election has completed with a successful tally.
func (vs *VotingService) GetResults(electionID string) ([]int, error) {
	state, err := vs.state(electionID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	e := state.election
	if e.Status != models.StatusCompleted || e.Results == nil {
		return nil, errors.Wrapf(models.ErrResultsNotAvailable, "election %s", electionID)
	}
	return append([]int(nil), e.Results...), nil
}

// Election returns a snapshot of the election record for status queries.
// The private key is blanked; status surfaces never expose it.
func (vs *VotingService) Election(electionID string) (*models.Election, error) {
	state, err := vs.state(electionID)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	e := *state.election
	e.Keys.Private = nil
	e.Voted = nil
	return &e, nil
}

// Metrics returns the current engine counters.
func (vs *VotingService) Metrics() MetricsSnapshot {
	return vs.metrics.Snapshot()
}

func (vs *VotingService) state(electionID string) (*electionState, error) {
	vs.mu.RLock()
	defer vs.mu.RUnlock()

	state, ok := vs.elections[electionID]
	if !ok {
		return nil, errors.Wrapf(models.ErrElectionNotFound, "id %s", electionID)
	}
	return state, nil
}
