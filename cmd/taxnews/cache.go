package main

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RefreshFunc produces a fresh snapshot. It is the only way the cache
// acquires data.
type RefreshFunc func(ctx context.Context) (*Snapshot, error)

// refreshCall is one in-flight refresh cycle. Every caller that arrives
// while it runs waits on done and shares its outcome.
type refreshCall struct {
	done chan struct{}
	snap *Snapshot
	err  error
}

// CacheManager owns the last good snapshot and coordinates refreshes.
// At most one refresh cycle is in flight at any time; concurrent
// callers coalesce onto it instead of starting another.
type CacheManager struct {
	mu       sync.Mutex
	snapshot *Snapshot
	inflight *refreshCall

	ttl      time.Duration
	refresh  RefreshFunc
	onUpdate func(*Snapshot)
}

// NewCacheManager creates a cache manager around a refresh function
func NewCacheManager(ttl time.Duration, refresh RefreshFunc) *CacheManager {
	return &CacheManager{
		ttl:     ttl,
		refresh: refresh,
	}
}

// SetUpdateHandler registers a callback invoked after every successful
// refresh, outside the cache lock.
func (cm *CacheManager) SetUpdateHandler(fn func(*Snapshot)) {
	cm.mu.Lock()
	cm.onUpdate = fn
	cm.mu.Unlock()
}

// Get returns the current snapshot. A fresh snapshot is returned
// immediately with no network activity; an empty or stale cache makes
// the caller wait for a refresh (joining one already in flight).
func (cm *CacheManager) Get(ctx context.Context) (*Snapshot, error) {
	cm.mu.Lock()
	if cm.snapshot != nil && time.Since(cm.snapshot.GeneratedAt) <= cm.ttl {
		snap := cm.snapshot
		cm.mu.Unlock()
		return snap, nil
	}
	call := cm.startRefreshLocked()
	cm.mu.Unlock()

	return cm.await(ctx, call)
}

// ForceRefresh requests a refresh unconditionally. If one is already in
// flight it joins it rather than starting a duplicate.
func (cm *CacheManager) ForceRefresh(ctx context.Context) (*Snapshot, error) {
	cm.mu.Lock()
	call := cm.startRefreshLocked()
	cm.mu.Unlock()

	return cm.await(ctx, call)
}

// Current returns the snapshot as-is without triggering a refresh. May
// be nil before the first successful cycle.
func (cm *CacheManager) Current() *Snapshot {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.snapshot
}

// startRefreshLocked returns the in-flight call, starting one when none
// is running. Callers must hold cm.mu.
func (cm *CacheManager) startRefreshLocked() *refreshCall {
	if cm.inflight != nil {
		return cm.inflight
	}
	call := &refreshCall{done: make(chan struct{})}
	cm.inflight = call
	go cm.runRefresh(call)
	return call
}

// runRefresh executes one refresh cycle and resolves the shared call.
// On failure the previous snapshot stays current and is handed to the
// waiting callers; the error surfaces only when the cache has never
// been populated.
func (cm *CacheManager) runRefresh(call *refreshCall) {
	snap, err := cm.safeRefresh()

	cm.mu.Lock()
	if err == nil && snap != nil {
		cm.snapshot = snap
		call.snap = snap
	} else {
		Logger().Error("refresh cycle failed: %v", err)
		if cm.snapshot != nil {
			call.snap = cm.snapshot
		} else {
			call.err = err
		}
	}
	cm.inflight = nil
	onUpdate := cm.onUpdate
	cm.mu.Unlock()

	close(call.done)

	if err == nil && snap != nil && onUpdate != nil {
		onUpdate(snap)
	}
}

// safeRefresh shields the cache from a panicking refresh function. The
// refresh runs on a background context: its lifetime belongs to the
// cycle, not to whichever caller happened to start it.
func (cm *CacheManager) safeRefresh() (snap *Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snap = nil
			err = NewAggregateError(ErrAggregateCancelled, fmt.Sprintf("refresh panic: %v", r), nil)
		}
	}()
	return cm.refresh(context.Background())
}

// await blocks until the shared call resolves or the caller's context
// ends. The refresh itself keeps running either way.
func (cm *CacheManager) await(ctx context.Context, call *refreshCall) (*Snapshot, error) {
	select {
	case <-call.done:
		return call.snap, call.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
