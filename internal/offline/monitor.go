package offline

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"ecocycle-backend/internal/offline/store"
)

// ErrOffline is returned by SyncNow when no connection is available.
var ErrOffline = errors.New("cannot sync while offline")

// Signal reports connectivity as the platform sees it. Online is the
// current belief; Subscribe registers a callback fired on every
// transition. The returned function unregisters it.
type Signal interface {
	Online() bool
	Subscribe(fn func(online bool)) (unsubscribe func())
}

const defaultRecountInterval = 30 * time.Second

// Monitor ties connectivity to the sync engine. It tracks the online/offline
// state, keeps a fresh pending-change count, kicks off a sync whenever the
// connection comes back, and turns it all into user-facing events.
type Monitor struct {
	store    *store.Store
	engine   *Engine
	signal   Signal
	notifier Notifier

	recountInterval time.Duration

	mu      sync.Mutex
	online  bool
	pending int

	unsubscribe func()
	stopCh      chan struct{}
	wg          sync.WaitGroup
	started     bool
	closed      bool
}

// NewMonitor builds a monitor. recountInterval <= 0 falls back to the
// 30 second default.
func NewMonitor(st *store.Store, engine *Engine, signal Signal, notifier Notifier, recountInterval time.Duration) *Monitor {
	if recountInterval <= 0 {
		recountInterval = defaultRecountInterval
	}
	if notifier == nil {
		notifier = NotifierFunc(func(Event) {})
	}
	m := &Monitor{
		store:           st,
		engine:          engine,
		signal:          signal,
		notifier:        notifier,
		recountInterval: recountInterval,
		stopCh:          make(chan struct{}),
	}
	m.online = signal.Online()
	m.recount()
	return m
}

// Start seeds state from the signal, subscribes to transitions, and begins
// the periodic recount. If the monitor wakes up online with queued work it
// syncs immediately.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.started || m.closed {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.online = m.signal.Online()
	m.mu.Unlock()

	m.recount()

	m.unsubscribe = m.signal.Subscribe(m.handleTransition)

	m.wg.Add(1)
	go m.recountLoop()

	if m.Online() && m.PendingChanges() > 0 {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.runSync(context.Background())
		}()
	}

	log.Printf("🔌 Connectivity monitor started (online=%v, pending=%d)", m.Online(), m.PendingChanges())
}

// Close unsubscribes from the signal and stops background work. Safe to
// call once; further events are not delivered after it returns.
func (m *Monitor) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	close(m.stopCh)
	m.wg.Wait()
}

// Online reports the monitor's current connectivity belief.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// PendingChanges returns the most recent queue total.
func (m *Monitor) PendingChanges() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// SyncNow runs a sync on demand. Offline it refuses immediately, emitting
// a sync-failed event so the user learns why nothing happened.
func (m *Monitor) SyncNow(ctx context.Context) (Result, error) {
	if !m.Online() {
		m.notifier.Notify(Event{
			Type:           EventSyncFailed,
			PendingChanges: m.PendingChanges(),
			Reason:         "offline",
		})
		return Result{}, ErrOffline
	}
	return m.runSync(ctx)
}

func (m *Monitor) handleTransition(online bool) {
	m.mu.Lock()
	if m.closed || m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	// Registered under the lock so Close's Wait covers this callback and
	// any sync goroutine it spawns.
	m.wg.Add(1)
	m.mu.Unlock()
	defer m.wg.Done()

	m.recount()

	if online {
		log.Printf("✅ Back online (%d pending)", m.PendingChanges())
		m.notifier.Notify(Event{Type: EventWentOnline, PendingChanges: m.PendingChanges()})
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.runSync(context.Background())
		}()
	} else {
		log.Printf("🔴 Connection lost (%d pending)", m.PendingChanges())
		m.notifier.Notify(Event{Type: EventWentOffline, PendingChanges: m.PendingChanges()})
	}
}

func (m *Monitor) runSync(ctx context.Context) (Result, error) {
	m.notifier.Notify(Event{Type: EventSyncStarted, PendingChanges: m.PendingChanges()})

	result, err := m.engine.Sync(ctx)
	if errors.Is(err, ErrSyncInProgress) {
		// Another run is already draining; its events cover this one.
		return result, err
	}

	m.recount()

	if err != nil {
		m.notifier.Notify(Event{
			Type:           EventSyncFailed,
			PendingChanges: m.PendingChanges(),
			Reason:         err.Error(),
		})
		return result, err
	}

	// A run that finished counts as completed even when some records were
	// skipped; they stay queued and the pending count says so.
	m.notifier.Notify(Event{Type: EventSyncCompleted, PendingChanges: m.PendingChanges()})
	return result, nil
}

func (m *Monitor) recountLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.recountInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.recount()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) recount() {
	count, err := m.store.Count()
	if err != nil {
		log.Printf("⚠️ Pending recount failed: %v", err)
		return
	}
	m.mu.Lock()
	m.pending = count
	m.mu.Unlock()
}
