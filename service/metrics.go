package service

import (
	"sync"
	"time"
)

// Metrics accumulates engine-wide operation counters. Counters only ever
// grow; a restart resets them along with the process.
type Metrics struct {
	mu              sync.RWMutex
	ballotsAccepted int
	ballotsRejected int
	electionsOpened int
	electionsClosed int
	lastTallyTime   time.Duration
}

// MetricsSnapshot is the read-only view served over the API.
type MetricsSnapshot struct {
	BallotsAccepted int   `json:"ballots_accepted"`
	BallotsRejected int   `json:"ballots_rejected"`
	ElectionsOpened int   `json:"elections_opened"`
	ElectionsClosed int   `json:"elections_closed"`
	LastTallyMillis int64 `json:"last_tally_ms"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) BallotAccepted() {
	m.mu.Lock()
	m.ballotsAccepted++
	m.mu.Unlock()
}

func (m *Metrics) BallotRejected() {
	m.mu.Lock()
	m.ballotsRejected++
	m.mu.Unlock()
}

func (m *Metrics) ElectionOpened() {
	m.mu.Lock()
	m.electionsOpened++
	m.mu.Unlock()
}

func (m *Metrics) ElectionClosed(tallyTime time.Duration) {
	m.mu.Lock()
	m.electionsClosed++
	m.lastTallyTime = tallyTime
	m.mu.Unlock()
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MetricsSnapshot{
		BallotsAccepted: m.ballotsAccepted,
		BallotsRejected: m.ballotsRejected,
		ElectionsOpened: m.electionsOpened,
		ElectionsClosed: m.electionsClosed,
		LastTallyMillis: m.lastTallyTime.Milliseconds(),
	}
}
