package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evoting-backend/models"
	"evoting-backend/registry"
	"evoting-backend/service"
	"evoting-backend/storage"
)

const testAdminToken = "test-admin-token"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewElectionStore(dir)
	require.NoError(t, err)
	reg, err := registry.NewJSONRegistry(filepath.Join(dir, "voters.json"))
	require.NoError(t, err)
	svc, err := service.New(store, reg)
	require.NoError(t, err)
	return NewServer(svc, testAdminToken)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+testAdminToken)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHTTPElectionFlow(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/elections", CreateElectionRequest{
		Candidates: []string{"alice", "bob"},
		Mode:       models.ModeEC,
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var e models.Election
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	require.NotEmpty(t, e.ID)
	require.NotEmpty(t, e.Keys.Public)
	assert.Empty(t, e.Keys.Private)

	rec = doJSON(t, s, http.MethodPost, "/api/voters", RegisterVoterRequest{
		ElectionID: e.ID,
		VoterID:    "voter-1",
	}, false)
	require.Equal(t, http.StatusCreated, rec.Code)

	var voter RegisterVoterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &voter))
	require.NotEmpty(t, voter.Keys.Private)

	ballot, err := service.BuildBallot(&e, "voter-1", voter.Keys.Private, 1)
	require.NoError(t, err)

	rec = doJSON(t, s, http.MethodPost, "/api/elections/"+e.ID+"/ballots",
		CastBallotRequest{Ballot: *ballot}, false)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/elections/"+e.ID+"/close", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var res service.VotingResults
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Counts["bob"])
	assert.Equal(t, 0, res.Counts["alice"])
	assert.Equal(t, 1, res.Total)

	rec = doJSON(t, s, http.MethodGet, "/api/elections/"+e.ID+"/results", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/metrics", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var metrics service.MetricsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.Equal(t, 1, metrics.BallotsAccepted)
	assert.Equal(t, 1, metrics.ElectionsClosed)
}

func TestHTTPAdminEndpointsRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/elections", CreateElectionRequest{
		Candidates: []string{"alice", "bob"},
		Mode:       models.ModeEC,
	}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTPStatusHidesPrivateKey(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/elections", CreateElectionRequest{
		Candidates: []string{"alice", "bob"},
		Mode:       models.ModeClassic,
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	var e models.Election
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))

	// The private half must already be absent from the creation response.
	assert.Empty(t, e.Keys.Private)

	rec = doJSON(t, s, http.MethodGet, "/api/elections/"+e.ID, nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap models.Election
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Empty(t, snap.Keys.Private)
	assert.NotEmpty(t, snap.Keys.Public)
}

func TestHTTPErrorMapping(t *testing.T) {
	s := newTestServer(t)

	// Unknown election.
	rec := doJSON(t, s, http.MethodGet, "/api/elections/missing", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Results before close.
	rec = doJSON(t, s, http.MethodPost, "/api/elections", CreateElectionRequest{
		Candidates: []string{"alice", "bob"},
		Mode:       models.ModeEC,
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	var e models.Election
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))

	rec = doJSON(t, s, http.MethodGet, "/api/elections/"+e.ID+"/results", nil, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Bad candidate count.
	rec = doJSON(t, s, http.MethodPost, "/api/elections", CreateElectionRequest{
		Candidates: []string{"alone"},
		Mode:       models.ModeEC,
	}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPDoubleVoteConflict(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/elections", CreateElectionRequest{
		Candidates: []string{"alice", "bob"},
		Mode:       models.ModeEC,
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	var e models.Election
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))

	rec = doJSON(t, s, http.MethodPost, "/api/voters", RegisterVoterRequest{
		ElectionID: e.ID,
		VoterID:    "voter-1",
	}, false)
	require.Equal(t, http.StatusCreated, rec.Code)
	var voter RegisterVoterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &voter))

	ballot, err := service.BuildBallot(&e, "voter-1", voter.Keys.Private, 0)
	require.NoError(t, err)
	rec = doJSON(t, s, http.MethodPost, "/api/elections/"+e.ID+"/ballots",
		CastBallotRequest{Ballot: *ballot}, false)
	require.Equal(t, http.StatusAccepted, rec.Code)

	again, err := service.BuildBallot(&e, "voter-1", voter.Keys.Private, 1)
	require.NoError(t, err)
	rec = doJSON(t, s, http.MethodPost, "/api/elections/"+e.ID+"/ballots",
		CastBallotRequest{Ballot: *again}, false)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
