package scheduler

import (
	"sync"
	"time"
)

// State names for the loop's lifecycle.
const (
	StateBootstrapping = "bootstrapping"
	StateRunning       = "running"
)

// Status is a thread-safe snapshot of what the loop is doing, served by the
// ops HTTP endpoint.
type Status struct {
	mu        sync.Mutex
	state     string
	lastTick  time.Time
	lastStats []ScanStats
	ticks     uint64
}

func NewStatus() *Status {
	return &Status{state: StateBootstrapping}
}

func (s *Status) SetState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Status) RecordTick(at time.Time, stats []ScanStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTick = at
	s.lastStats = stats
	s.ticks++
}

// Snapshot is the JSON shape returned by GET /status.
type Snapshot struct {
	State     string      `json:"state"`
	LastTick  *time.Time  `json:"last_tick,omitempty"`
	Ticks     uint64      `json:"ticks"`
	LastScans []ScanStats `json:"last_scans,omitempty"`
}

func (s *Status) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{State: s.state, Ticks: s.ticks, LastScans: s.lastStats}
	if !s.lastTick.IsZero() {
		t := s.lastTick
		snap.LastTick = &t
	}
	return snap
}
