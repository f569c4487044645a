package main

import (
	"sync"
	"time"
)

// RuntimeState tracks in-memory operational statistics for the status
// endpoint. Purely diagnostic; nothing reads it to make decisions.
type RuntimeState struct {
	mu            sync.RWMutex
	startupTime   time.Time
	refreshCount  int
	lastRefresh   time.Time
	lastItemCount int
	errorCount    int
	lastError     string
	lastErrorTime time.Time
	sourceErrors  map[string]int
}

// Global application state
var appState = &RuntimeState{
	startupTime:  time.Now(),
	sourceErrors: make(map[string]int),
}

// RecordRefresh notes a completed refresh cycle
func (s *RuntimeState) RecordRefresh(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshCount++
	s.lastRefresh = snap.GeneratedAt
	s.lastItemCount = len(snap.Items)
}

// RecordSourceError notes an isolated per-source failure
func (s *RuntimeState) RecordSourceError(sourceID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorCount++
	s.lastError = err.Error()
	s.lastErrorTime = time.Now()
	s.sourceErrors[sourceID]++
}

// Report returns a point-in-time view for the status endpoint
func (s *RuntimeState) Report() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sourceErrors := make(map[string]int, len(s.sourceErrors))
	for id, n := range s.sourceErrors {
		sourceErrors[id] = n
	}

	return map[string]interface{}{
		"version":       AppVersion,
		"uptime":        time.Since(s.startupTime).Round(time.Second).String(),
		"refreshCount":  s.refreshCount,
		"lastRefresh":   s.lastRefresh,
		"lastItemCount": s.lastItemCount,
		"errorCount":    s.errorCount,
		"lastError":     s.lastError,
		"lastErrorTime": s.lastErrorTime,
		"sourceErrors":  sourceErrors,
	}
}
