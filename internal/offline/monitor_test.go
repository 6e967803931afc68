package offline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocycle-backend/internal/models"
	"ecocycle-backend/internal/offline/remote"
	"ecocycle-backend/internal/offline/store"
)

// fakeSignal is a hand-driven connectivity signal.
type fakeSignal struct {
	mu     sync.Mutex
	online bool
	subs   map[int]func(online bool)
	nextID int
}

func newFakeSignal(online bool) *fakeSignal {
	return &fakeSignal{online: online, subs: make(map[int]func(online bool))}
}

func (s *fakeSignal) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

func (s *fakeSignal) Subscribe(fn func(online bool)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *fakeSignal) set(online bool) {
	s.mu.Lock()
	s.online = online
	fns := make([]func(online bool), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(online)
	}
}

// eventRecorder collects notifications for later inspection.
type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) Notify(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *eventRecorder) count(kind EventType) int {
	n := 0
	for _, e := range r.all() {
		if e.Type == kind {
			n++
		}
	}
	return n
}

func (r *eventRecorder) last(kind EventType) (Event, bool) {
	var found Event
	ok := false
	for _, e := range r.all() {
		if e.Type == kind {
			found, ok = e, true
		}
	}
	return found, ok
}

func enqueueCollection(t *testing.T, st *store.Store, wasteType string) {
	t.Helper()
	_, err := st.EnqueueWasteCollection(store.PendingWasteCollection{
		UserID: "user-1", WasteType: wasteType, Quantity: 1, PricePerKg: 1, CollectionZone: "zone_1",
	})
	require.NoError(t, err)
}

func TestGoingOnlineTriggersExactlyOneSync(t *testing.T) {
	st := newTestStore(t)
	fake := &fakeRemote{}
	signal := newFakeSignal(false)
	rec := &eventRecorder{}

	enqueueCollection(t, st, "paper")

	monitor := NewMonitor(st, NewEngine(st, fake), signal, rec, time.Hour)
	monitor.Start()
	defer monitor.Close()

	assert.False(t, monitor.Online())
	assert.Equal(t, 1, monitor.PendingChanges())

	signal.set(true)

	require.Eventually(t, func() bool {
		return rec.count(EventSyncCompleted) == 1
	}, waitFor, tick)

	assert.Equal(t, 1, rec.count(EventWentOnline))
	assert.Equal(t, 1, rec.count(EventSyncStarted))
	assert.Len(t, fake.collections, 1)
	assert.Equal(t, 0, monitor.PendingChanges())

	completed, ok := rec.last(EventSyncCompleted)
	require.True(t, ok)
	assert.Equal(t, 0, completed.PendingChanges)

	online, ok := rec.last(EventWentOnline)
	require.True(t, ok)
	assert.Equal(t, 1, online.PendingChanges)
}

func TestDuplicateTransitionsAreIgnored(t *testing.T) {
	st := newTestStore(t)
	fake := &fakeRemote{}
	signal := newFakeSignal(false)
	rec := &eventRecorder{}

	monitor := NewMonitor(st, NewEngine(st, fake), signal, rec, time.Hour)
	monitor.Start()
	defer monitor.Close()

	signal.set(true)
	signal.set(true)

	require.Eventually(t, func() bool {
		return rec.count(EventWentOnline) >= 1
	}, waitFor, tick)
	assert.Equal(t, 1, rec.count(EventWentOnline))
}

func TestGoingOfflineEmitsEventWithoutSyncing(t *testing.T) {
	st := newTestStore(t)
	fake := &fakeRemote{}
	signal := newFakeSignal(true)
	rec := &eventRecorder{}

	monitor := NewMonitor(st, NewEngine(st, fake), signal, rec, time.Hour)
	monitor.Start()
	defer monitor.Close()

	enqueueCollection(t, st, "paper")
	signal.set(false)

	require.Eventually(t, func() bool {
		return rec.count(EventWentOffline) == 1
	}, waitFor, tick)

	offline, _ := rec.last(EventWentOffline)
	assert.Equal(t, 1, offline.PendingChanges)
	assert.False(t, monitor.Online())
	assert.Empty(t, fake.calls)
	assert.Equal(t, 0, rec.count(EventSyncStarted))
}

func TestSyncNowRefusesWhileOffline(t *testing.T) {
	st := newTestStore(t)
	fake := &fakeRemote{}
	signal := newFakeSignal(false)
	rec := &eventRecorder{}

	enqueueCollection(t, st, "paper")

	monitor := NewMonitor(st, NewEngine(st, fake), signal, rec, time.Hour)
	monitor.Start()
	defer monitor.Close()

	_, err := monitor.SyncNow(context.Background())
	assert.ErrorIs(t, err, ErrOffline)

	failed, ok := rec.last(EventSyncFailed)
	require.True(t, ok)
	assert.Equal(t, "offline", failed.Reason)
	assert.Equal(t, 1, failed.PendingChanges)

	// Nothing was sent and nothing was dropped.
	assert.Empty(t, fake.calls)
	assert.Equal(t, 1, monitor.PendingChanges())
}

func TestSyncNowDrainsQueueWhenOnline(t *testing.T) {
	st := newTestStore(t)
	fake := &fakeRemote{}
	signal := newFakeSignal(true)
	rec := &eventRecorder{}

	enqueueCollection(t, st, "paper")
	enqueueCollection(t, st, "glass")

	monitor := NewMonitor(st, NewEngine(st, fake), signal, rec, time.Hour)

	result, err := monitor.SyncNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Attempted: 2, Succeeded: 2}, result)

	assert.Equal(t, 1, rec.count(EventSyncStarted))
	assert.Equal(t, 1, rec.count(EventSyncCompleted))
	assert.Equal(t, 0, monitor.PendingChanges())
}

func TestPartialFailureStillCompletes(t *testing.T) {
	st := newTestStore(t)
	fake := &fakeRemote{
		failCollection: func(p remote.WasteCollectionPayload) error {
			if p.WasteType == "plastic" {
				return remote.ErrServer
			}
			return nil
		},
	}
	signal := newFakeSignal(true)
	rec := &eventRecorder{}

	enqueueCollection(t, st, "paper")
	enqueueCollection(t, st, "plastic")

	monitor := NewMonitor(st, NewEngine(st, fake), signal, rec, time.Hour)

	result, err := monitor.SyncNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Attempted: 2, Succeeded: 1, Failed: 1}, result)

	// The run finished, so it completes; the skipped record shows up in
	// the pending count, not as a failure event.
	completed, ok := rec.last(EventSyncCompleted)
	require.True(t, ok)
	assert.Equal(t, 1, completed.PendingChanges)
	assert.Equal(t, 0, rec.count(EventSyncFailed))

	remaining, err := st.ListWasteCollections()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "plastic", remaining[0].WasteType)
}

func TestStartDrainsExistingBacklog(t *testing.T) {
	st := newTestStore(t)
	fake := &fakeRemote{}
	signal := newFakeSignal(true)
	rec := &eventRecorder{}

	enqueueCollection(t, st, "organic")

	monitor := NewMonitor(st, NewEngine(st, fake), signal, rec, time.Hour)
	monitor.Start()
	defer monitor.Close()

	require.Eventually(t, func() bool {
		return rec.count(EventSyncCompleted) == 1
	}, waitFor, tick)
	assert.Len(t, fake.collections, 1)
	assert.Equal(t, 0, monitor.PendingChanges())
}

func TestCloseWaitsForInFlightSync(t *testing.T) {
	st := newTestStore(t)
	fake := &fakeRemote{release: make(chan struct{})}
	signal := newFakeSignal(false)
	rec := &eventRecorder{}

	enqueueCollection(t, st, "paper")

	engine := NewEngine(st, fake)
	monitor := NewMonitor(st, engine, signal, rec, time.Hour)
	monitor.Start()

	signal.set(true)
	require.Eventually(t, engine.Running, waitFor, tick)

	closed := make(chan struct{})
	go func() {
		monitor.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a sync was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(fake.release)
	select {
	case <-closed:
	case <-time.After(waitFor):
		t.Fatal("Close did not return after the sync finished")
	}

	// Transitions after Close are dead: no events, no syncs.
	before := len(rec.all())
	signal.set(false)
	signal.set(true)
	assert.Equal(t, before, len(rec.all()))
	assert.Len(t, fake.collections, 1)
}

func TestPeriodicRecountPicksUpOutsideWrites(t *testing.T) {
	st := newTestStore(t)
	fake := &fakeRemote{}
	signal := newFakeSignal(false)

	monitor := NewMonitor(st, NewEngine(st, fake), signal, nil, 20*time.Millisecond)
	monitor.Start()
	defer monitor.Close()

	assert.Equal(t, 0, monitor.PendingChanges())
	enqueueCollection(t, st, "paper")

	require.Eventually(t, func() bool {
		return monitor.PendingChanges() == 1
	}, waitFor, tick)
}

// End-to-end: a record saved while unreachable is posted exactly once when
// connectivity returns, and the payload matches what was queued. The fake
// server decodes into the real request struct and enforces the same
// required-field check as the handler, so a wire-format drift fails here.
func TestOfflineRecordReplaysOnceWhenBackOnline(t *testing.T) {
	var mu sync.Mutex
	var posts []models.CreateWasteCollectionRequest
	var rawPosts []map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/waste-collections" {
			var raw map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
			buf, err := json.Marshal(raw)
			require.NoError(t, err)
			var req models.CreateWasteCollectionRequest
			require.NoError(t, json.Unmarshal(buf, &req))
			if req.UserID == "" || req.WasteType == "" || req.CollectionZone == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			mu.Lock()
			posts = append(posts, req)
			rawPosts = append(rawPosts, raw)
			mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"ok":true}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	st := newTestStore(t)
	client := remote.NewClient(server.URL, "test-token")
	signal := newFakeSignal(false)
	rec := &eventRecorder{}

	monitor := NewMonitor(st, NewEngine(st, client), signal, rec, time.Hour)
	monitor.Start()
	defer monitor.Close()

	_, err := st.EnqueueWasteCollection(store.PendingWasteCollection{
		UserID:           "user-1",
		WasteType:        "paper",
		Quantity:         5,
		PricePerKg:       2,
		CollectionZone:   "zone_1",
		AvailableForSale: false,
	})
	require.NoError(t, err)

	signal.set(true)

	require.Eventually(t, func() bool {
		return rec.count(EventSyncCompleted) == 1
	}, waitFor, tick)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, posts, 1)
	req := posts[0]
	assert.Equal(t, "user-1", req.UserID)
	assert.Equal(t, "paper", req.WasteType)
	assert.Equal(t, 5.0, req.Quantity)
	assert.Equal(t, 2.0, req.PricePerKg)
	assert.Equal(t, "zone_1", req.CollectionZone)
	assert.False(t, req.AvailableForSale)
	assert.NotContains(t, rawPosts[0], "localId")

	count, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, monitor.PendingChanges())
}
