// ABOUTME: JSONStore keeps all records in a single JSON array file.
// ABOUTME: Every call reloads the file; every mutation rewrites it whole.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/harperreed/fitness/internal/models"
	"github.com/sirupsen/logrus"
)

// JSONStore is the file-backed Repository. It is safe for use by several
// goroutines of one process; separate processes are not coordinated and the
// last write wins.
type JSONStore struct {
	path string
	mu   sync.Mutex
}

// Compile-time check that JSONStore implements Repository.
var _ Repository = (*JSONStore)(nil)

// Open opens the data file at path, creating it with an empty array if it
// does not exist. An empty path selects DefaultDataFile.
func Open(path string) (*JSONStore, error) {
	if path == "" {
		path = DefaultDataFile()
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		if err := writeFileAtomic(path, []byte("[]")); err != nil {
			return nil, fmt.Errorf("initialize data file: %w", err)
		}
	default:
		return nil, fmt.Errorf("stat data file: %w", err)
	}

	return &JSONStore{path: path}, nil
}

// OpenDefault opens the data file at the default XDG data path.
func OpenDefault() (*JSONStore, error) {
	return Open(DefaultDataFile())
}

// Path returns the data file location.
func (s *JSONStore) Path() string {
	return s.path
}

// Close releases resources. For JSONStore this is a no-op.
func (s *JSONStore) Close() error {
	return nil
}

// Create stores data as a new record of recordType.
func (s *JSONStore) Create(data map[string]any, recordType string) (string, error) {
	rec := models.NewRecord(recordType, data)
	if err := checkRecord(rec); err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	records = append(records, rec)
	if err := s.save(records); err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	return rec.ID, nil
}

// Insert stores rec as given.
func (s *JSONStore) Insert(rec models.Record) (string, error) {
	if err := checkRecord(rec); err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	if rec.Data == nil {
		rec.Data = map[string]any{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	for _, r := range records {
		if r.ID == rec.ID {
			return "", fmt.Errorf("insert record: %w: %s", ErrDuplicateID, rec.ID)
		}
	}
	records = append(records, rec)
	if err := s.save(records); err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	return rec.ID, nil
}

// ReadAll returns every record in file order. An unreadable file yields an
// empty slice.
func (s *JSONStore) ReadAll() ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

// ReadByID returns the first record with the given id.
func (s *JSONStore) ReadByID(id string) (models.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.load() {
		if r.ID == id {
			return r, true, nil
		}
	}
	return models.Record{}, false, nil
}

// Update replaces the data of the first record with the given id.
func (s *JSONStore) Update(id string, data map[string]any) (bool, error) {
	if data == nil {
		data = map[string]any{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	for i := range records {
		if records[i].ID != id {
			continue
		}
		records[i].Data = data
		if err := s.save(records); err != nil {
			return false, fmt.Errorf("update record: %w", err)
		}
		return true, nil
	}
	return false, nil
}

// Delete removes all records with the given id.
func (s *JSONStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return false, nil
	}
	if err := s.save(kept); err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	return true, nil
}

// FindByType returns records of the given type in file order.
func (s *JSONStore) FindByType(recordType string) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterByType(s.load(), recordType), nil
}

// GetObjectByID reconstructs the entity stored under id.
func (s *JSONStore) GetObjectByID(id string) (models.Entity, bool) {
	rec, found, err := s.ReadByID(id)
	return objectFromRecord(id, rec, found, err)
}

// ResolveID expands a unique id prefix.
func (s *JSONStore) ResolveID(idOrPrefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return resolveID(s.load(), idOrPrefix)
}

// load reads the data file. Missing or malformed content is an empty
// collection.
func (s *JSONStore) load() []models.Record {
	log := logrus.WithField("path", s.path)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("read data file, treating as empty")
		}
		return []models.Record{}
	}

	var records []models.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		log.WithError(err).Warn("parse data file, treating as empty")
		return []models.Record{}
	}
	for i := range records {
		if records[i].Data == nil {
			records[i].Data = map[string]any{}
		}
	}
	if records == nil {
		records = []models.Record{}
	}
	return records
}

// save rewrites the data file with records.
func (s *JSONStore) save(records []models.Record) error {
	if records == nil {
		records = []models.Record{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	logrus.WithField("path", s.path).WithField("records", len(records)).Debug("data file written")
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
