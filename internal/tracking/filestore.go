package tracking

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
)

// CartFileStore holds cart records as a single JSON array file, mutated
// read-modify-write as a whole. It is the best-effort replica of the
// relational cart state: records exist only while the cart is non-empty and
// are removed outright when it clears.
type CartFileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

func NewCartFileStore(path string, logger *slog.Logger) *CartFileStore {
	return &CartFileStore{path: path, logger: logger}
}

func (s *CartFileStore) Path() string {
	return s.path
}

// ReadAll returns every record in the file. A missing or corrupt file
// degrades to an empty result; it never fails the caller.
func (s *CartFileStore) ReadAll() []CartFileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// Get returns the record for one session, if any.
func (s *CartFileStore) Get(sessionID string) (*CartFileRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.readLocked() {
		if rec.SessionID == sessionID {
			return &rec, true
		}
	}
	return nil, false
}

// Upsert replaces any record with the same session id, preserving the
// contacted, webhookSent and createdAt fields of an existing record: those
// are written by the notification path and must survive mirroring.
func (s *CartFileStore) Upsert(rec CartFileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readLocked()
	replaced := false
	for i := range records {
		if records[i].SessionID == rec.SessionID {
			rec.Contacted = records[i].Contacted
			rec.WebhookSent = records[i].WebhookSent
			if !records[i].CreatedAt.IsZero() {
				rec.CreatedAt = records[i].CreatedAt
			}
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}
	return s.writeLocked(records)
}

// Delete removes the record for a session entirely. Deleting a session that
// has no record is a no-op.
func (s *CartFileStore) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readLocked()
	kept := records[:0]
	removed := false
	for _, rec := range records {
		if rec.SessionID == sessionID {
			removed = true
			continue
		}
		kept = append(kept, rec)
	}
	if !removed {
		return nil
	}
	return s.writeLocked(kept)
}

func (s *CartFileStore) readLocked() []CartFileRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("cart file unreadable, treating as empty", "path", s.path, "error", err)
		}
		return nil
	}
	var records []CartFileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("cart file corrupt, treating as empty", "path", s.path, "error", err)
		return nil
	}
	return records
}

func (s *CartFileStore) writeLocked(records []CartFileRecord) error {
	if records == nil {
		records = []CartFileRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode cart file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write cart file: %w", err)
	}
	return nil
}

// TrackingFileStore reads tracking snapshots written by the legacy path.
// This service only consumes it; a missing or corrupt file degrades to
// empty.
type TrackingFileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

func NewTrackingFileStore(path string, logger *slog.Logger) *TrackingFileStore {
	return &TrackingFileStore{path: path, logger: logger}
}

func (s *TrackingFileStore) Path() string {
	return s.path
}

func (s *TrackingFileStore) ReadAll() []TrackingFileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("tracking file unreadable, treating as empty", "path", s.path, "error", err)
		}
		return nil
	}
	var records []TrackingFileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("tracking file corrupt, treating as empty", "path", s.path, "error", err)
		return nil
	}
	return records
}
