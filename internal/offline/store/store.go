// Package store is the agent's durable holding area for writes that could
// not reach the server. Records live here until the sync engine gets a
// confirmed acknowledgement from the API, then they are deleted — never
// mutated in place.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrStorageUnavailable wraps any failure to open or write the local store.
// Callers must surface it: an offline save that silently fails loses data.
var ErrStorageUnavailable = errors.New("local storage unavailable")

// Kind names one of the two pending queues.
type Kind string

const (
	KindWasteCollection Kind = "waste_collection"
	KindComplaint       Kind = "complaint"
)

// PendingWasteCollection is a queued collection submission. LocalID is
// store-assigned, monotonic, and independent of the id the server assigns
// on successful replay.
type PendingWasteCollection struct {
	LocalID          int64   `db:"local_id"`
	UserID           string  `db:"user_id"`
	WasteType        string  `db:"waste_type"`
	Quantity         float64 `db:"quantity"`
	PricePerKg       float64 `db:"price_per_kg"`
	CollectionZone   string  `db:"collection_zone"`
	AvailableForSale bool    `db:"available_for_sale"`
	VoiceDescription *string `db:"voice_description"`
	CreatedAt        int64   `db:"created_at"`
}

// PendingComplaint is a queued complaint. ImageData holds the inline-encoded
// image verbatim; the sync engine exchanges it for a hosted URL at replay
// time.
type PendingComplaint struct {
	LocalID     int64   `db:"local_id"`
	UserID      string  `db:"user_id"`
	Description string  `db:"description"`
	Location    string  `db:"location"`
	ImageData   *string `db:"image_data"`
	CreatedAt   int64   `db:"created_at"`
}

// Store is the SQLite-backed pending store. Queues survive process restarts.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at path and runs its migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	// The agent is the only writer; a single connection sidesteps
	// SQLite's multi-writer locking entirely.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	migrations := []string{
		// AUTOINCREMENT keeps local ids monotonic and never reused,
		// even after deletes.
		`CREATE TABLE IF NOT EXISTS pending_waste_collections (
			local_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			waste_type TEXT NOT NULL,
			quantity REAL NOT NULL,
			price_per_kg REAL NOT NULL,
			collection_zone TEXT NOT NULL,
			available_for_sale INTEGER NOT NULL DEFAULT 0,
			voice_description TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pending_complaints (
			local_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			description TEXT NOT NULL,
			location TEXT NOT NULL,
			image_data TEXT,
			created_at INTEGER NOT NULL
		)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnqueueWasteCollection queues a collection submission and returns its
// local id. CreatedAt is stamped here.
func (s *Store) EnqueueWasteCollection(rec PendingWasteCollection) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO pending_waste_collections
			(user_id, waste_type, quantity, price_per_kg, collection_zone,
			 available_for_sale, voice_description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.UserID, rec.WasteType, rec.Quantity, rec.PricePerKg, rec.CollectionZone,
		rec.AvailableForSale, rec.VoiceDescription, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	localID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return localID, nil
}

// EnqueueComplaint queues a complaint, storing imageData verbatim when
// present.
func (s *Store) EnqueueComplaint(rec PendingComplaint) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO pending_complaints (user_id, description, location, image_data, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.UserID, rec.Description, rec.Location, rec.ImageData, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	localID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return localID, nil
}

// ListWasteCollections returns all queued collections in enqueue order.
func (s *Store) ListWasteCollections() ([]PendingWasteCollection, error) {
	rows, err := s.db.Query(`
		SELECT local_id, user_id, waste_type, quantity, price_per_kg,
		       collection_zone, available_for_sale, voice_description, created_at
		FROM pending_waste_collections
		ORDER BY local_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var records []PendingWasteCollection
	for rows.Next() {
		var rec PendingWasteCollection
		if err := rows.Scan(&rec.LocalID, &rec.UserID, &rec.WasteType, &rec.Quantity,
			&rec.PricePerKg, &rec.CollectionZone, &rec.AvailableForSale,
			&rec.VoiceDescription, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListComplaints returns all queued complaints in enqueue order.
func (s *Store) ListComplaints() ([]PendingComplaint, error) {
	rows, err := s.db.Query(`
		SELECT local_id, user_id, description, location, image_data, created_at
		FROM pending_complaints
		ORDER BY local_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var records []PendingComplaint
	for rows.Next() {
		var rec PendingComplaint
		if err := rows.Scan(&rec.LocalID, &rec.UserID, &rec.Description,
			&rec.Location, &rec.ImageData, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Remove deletes a record by kind and local id. Removing an absent id is a
// no-op, not an error.
func (s *Store) Remove(kind Kind, localID int64) error {
	var table string
	switch kind {
	case KindWasteCollection:
		table = "pending_waste_collections"
	case KindComplaint:
		table = "pending_complaints"
	default:
		return fmt.Errorf("unknown queue kind: %q", kind)
	}

	if _, err := s.db.Exec("DELETE FROM "+table+" WHERE local_id = ?", localID); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Count returns the total number of queued items across both queues.
func (s *Store) Count() (int, error) {
	var collections, complaints int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM pending_waste_collections").Scan(&collections); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM pending_complaints").Scan(&complaints); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return collections + complaints, nil
}
