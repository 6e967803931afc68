package offline

import (
	"context"
	"errors"
	"log"
	"sync"

	"ecocycle-backend/internal/offline/remote"
	"ecocycle-backend/internal/offline/store"
)

// ErrSyncInProgress is returned when a sync run is requested while another
// is still draining the queues.
var ErrSyncInProgress = errors.New("sync already in progress")

// Remote is the server surface the engine replays against.
type Remote interface {
	CreateWasteCollection(ctx context.Context, payload remote.WasteCollectionPayload) error
	CreateComplaint(ctx context.Context, payload remote.ComplaintPayload) error
	UploadImage(ctx context.Context, imageData string) (string, error)
}

// Result summarizes one sync run.
type Result struct {
	Attempted int
	Succeeded int
	Failed    int
}

// Engine drains the pending store against the server, one record at a time.
// A record leaves the store only after the server acknowledged it; a record
// that fails stays put and does not block the ones behind it.
type Engine struct {
	store  *store.Store
	remote Remote

	mu      sync.Mutex
	running bool
}

// NewEngine builds an engine over the given store and server client.
func NewEngine(st *store.Store, rc Remote) *Engine {
	return &Engine{store: st, remote: rc}
}

// Running reports whether a sync run is currently draining the queues.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Sync replays every queued record, collections first, then complaints.
// At most one run is active at a time; a concurrent call returns
// ErrSyncInProgress without touching the queues.
func (e *Engine) Sync(ctx context.Context) (Result, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return Result{}, ErrSyncInProgress
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	var result Result

	collections, err := e.store.ListWasteCollections()
	if err != nil {
		return result, err
	}
	for _, rec := range collections {
		result.Attempted++
		if err := e.syncWasteCollection(ctx, rec); err != nil {
			log.Printf("⚠️ Sync: waste collection %d failed: %v", rec.LocalID, err)
			result.Failed++
			continue
		}
		result.Succeeded++
	}

	complaints, err := e.store.ListComplaints()
	if err != nil {
		return result, err
	}
	for _, rec := range complaints {
		result.Attempted++
		if err := e.syncComplaint(ctx, rec); err != nil {
			log.Printf("⚠️ Sync: complaint %d failed: %v", rec.LocalID, err)
			result.Failed++
			continue
		}
		result.Succeeded++
	}

	if result.Failed > 0 {
		log.Printf("🔴 Sync finished with failures: %d/%d replayed", result.Succeeded, result.Attempted)
	} else if result.Attempted > 0 {
		log.Printf("✅ Sync complete: %d record(s) replayed", result.Succeeded)
	}
	return result, nil
}

func (e *Engine) syncWasteCollection(ctx context.Context, rec store.PendingWasteCollection) error {
	payload := remote.WasteCollectionPayload{
		UserID:           rec.UserID,
		WasteType:        rec.WasteType,
		Quantity:         rec.Quantity,
		PricePerKg:       rec.PricePerKg,
		CollectionZone:   rec.CollectionZone,
		AvailableForSale: rec.AvailableForSale,
		VoiceDescription: rec.VoiceDescription,
	}
	if err := e.remote.CreateWasteCollection(ctx, payload); err != nil {
		return err
	}
	return e.store.Remove(store.KindWasteCollection, rec.LocalID)
}

func (e *Engine) syncComplaint(ctx context.Context, rec store.PendingComplaint) error {
	payload := remote.ComplaintPayload{
		UserID:      rec.UserID,
		Description: rec.Description,
		Location:    rec.Location,
	}

	// The image must be hosted before the complaint references it. If the
	// upload fails the complaint stays queued untouched and is retried,
	// image included, on the next run.
	if rec.ImageData != nil && *rec.ImageData != "" {
		url, err := e.remote.UploadImage(ctx, *rec.ImageData)
		if err != nil {
			return err
		}
		payload.ImageURL = &url
	}

	if err := e.remote.CreateComplaint(ctx, payload); err != nil {
		return err
	}
	return e.store.Remove(store.KindComplaint, rec.LocalID)
}
