package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"evoting-backend/models"
	"evoting-backend/service"
)

type Server struct {
	svc        *service.VotingService
	adminToken string
	router     *gin.Engine
}

type CreateElectionRequest struct {
	Candidates []string          `json:"candidates" binding:"required"`
	Mode       models.CryptoMode `json:"mode" binding:"required"`
}

type RegisterVoterRequest struct {
	ElectionID string `json:"election_id" binding:"required"`
	VoterID    string `json:"voter_id" binding:"required"`
}

// RegisterVoterResponse carries the voter's key pair back to the caller.
// This is the only surface that ever returns the private half.
type RegisterVoterResponse struct {
	VoterID string         `json:"voter_id"`
	Keys    models.KeyPair `json:"keys"`
}

type CastBallotRequest struct {
	Ballot models.Ballot `json:"ballot" binding:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewServer(svc *service.VotingService, adminToken string) *Server {
	s := &Server{
		svc:        svc,
		adminToken: adminToken,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/elections", s.requireAdmin, s.createElection)
		apiGroup.GET("/elections/:id", s.getElection)
		apiGroup.POST("/elections/:id/ballots", s.castBallot)
		apiGroup.POST("/elections/:id/close", s.requireAdmin, s.closeElection)
		apiGroup.GET("/elections/:id/results", s.getResults)
		apiGroup.POST("/voters", s.registerVoter)
		apiGroup.GET("/metrics", s.getMetrics)
	}

	s.router = r
	return s
}

func (s *Server) Run(addr string) error {
	log.WithField("address", addr).Info("starting HTTP server")
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) createElection(c *gin.Context) {
	var req CreateElectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	e, err := s.svc.InitializeElection(req.Candidates, req.Mode)
	if err != nil {
		s.writeError(c, err)
		return
	}

	// Decryption stays server-side; the response carries only the
	// public half, like every other surface.
	snap, err := s.svc.Election(e.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (s *Server) getElection(c *gin.Context) {
	e, err := s.svc.Election(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) registerVoter(c *gin.Context) {
	var req RegisterVoterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	keys, err := s.svc.RegisterVoter(req.ElectionID, req.VoterID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterVoterResponse{
		VoterID: req.VoterID,
		Keys:    *keys,
	})
}

func (s *Server) castBallot(c *gin.Context) {
	var req CastBallotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := s.svc.CastBallot(c.Param("id"), &req.Ballot); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (s *Server) closeElection(c *gin.Context) {
	id := c.Param("id")
	results, err := s.svc.CloseAndTally(id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	e, err := s.svc.Election(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.NewVotingResults(e, results))
}

func (s *Server) getResults(c *gin.Context) {
	id := c.Param("id")
	results, err := s.svc.GetResults(id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	e, err := s.svc.Election(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.NewVotingResults(e, results))
}

func (s *Server) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Metrics())
}

func (s *Server) requireAdmin(c *gin.Context) {
	if s.adminToken == "" {
		c.Next()
		return
	}
	auth := c.GetHeader("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	if auth == token || token != s.adminToken {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "invalid admin token"})
		return
	}
	c.Next()
}

// writeError maps the engine's error taxonomy onto HTTP statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch errors.Cause(err) {
	case models.ErrElectionNotFound, models.ErrVoterNotRegistered:
		status = http.StatusNotFound
	case models.ErrAlreadyVoted, models.ErrVoterExists:
		status = http.StatusConflict
	case models.ErrElectionClosed, models.ErrResultsNotAvailable:
		status = http.StatusForbidden
	case models.ErrMalformedBallot, models.ErrMalformedSignature,
		models.ErrInvalidSignature, models.ErrInvalidPlaintext,
		models.ErrInvalidCandidates, models.ErrUnknownMode:
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}).Debug("handled request")
	}
}
