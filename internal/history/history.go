// Package history persists one record per download run so previous runs
// can be listed with --history.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

const (
	runsBucket     = "runs"
	metadataBucket = "metadata"
	schemaVersion  = 1
)

// Record describes one download run.
type Record struct {
	ID         uuid.UUID `json:"id"`
	URL        string    `json:"url"`
	Quality    string    `json:"quality"`
	Outcome    string    `json:"outcome"`
	ExitCode   int       `json:"exitCode"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// NewRecord creates a record for a run that is about to start.
func NewRecord(url, qualityName string) *Record {
	return &Record{
		ID:        uuid.New(),
		URL:       url,
		Quality:   qualityName,
		StartedAt: time.Now(),
	}
}

// Store is a bbolt-backed run history.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	options := &bbolt.Options{
		Timeout: 1 * time.Second,
	}

	db, err := bbolt.Open(dbPath, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}

	if err := store.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return store, nil
}

func (s *Store) initialize() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		if err != nil {
			return fmt.Errorf("failed to create runs bucket: %w", err)
		}

		meta, err := tx.CreateBucketIfNotExists([]byte(metadataBucket))
		if err != nil {
			return fmt.Errorf("failed to create metadata bucket: %w", err)
		}

		versionBytes := []byte(fmt.Sprintf("%d", schemaVersion))

		err = meta.Put([]byte("schema_version"), versionBytes)
		if err != nil {
			return fmt.Errorf("failed to store schema version: %w", err)
		}

		return nil
	})
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a run record.
func (s *Store) Save(rec *Record) error {
	if rec == nil {
		return errors.New("cannot save nil record")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(runsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", runsBucket)
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}

		err = bucket.Put([]byte(rec.ID.String()), data)
		if err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}

		return nil
	})
}

// List returns all run records, newest first.
func (s *Store) List() ([]*Record, error) {
	var records []*Record

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(runsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", runsBucket)
		}

		return bucket.ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal record: %w", err)
			}

			records = append(records, &rec)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})

	return records, nil
}
