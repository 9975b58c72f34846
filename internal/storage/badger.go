// ABOUTME: BadgerStore implements Repository on an embedded Badger key-value database.
// ABOUTME: Records are keyed by an insertion sequence so iteration keeps file-like order.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/fitness/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	recordPrefix = "rec/"
	indexPrefix  = "idx/"
	sequenceKey  = "meta/seq"
)

// BadgerStore is the Badger-backed Repository.
type BadgerStore struct {
	db  *badger.DB
	dir string
	mu  sync.Mutex
}

// Compile-time check that BadgerStore implements Repository.
var _ Repository = (*BadgerStore)(nil)

// OpenBadger opens or creates a Badger database in dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	if dir == "" {
		dir = filepath.Join(DataDir(), "badger")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	opts := badger.DefaultOptions(dir).
		WithLogger(logrus.WithField("component", "badger")).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, dir: dir}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Create stores data as a new record of recordType.
func (s *BadgerStore) Create(data map[string]any, recordType string) (string, error) {
	rec := models.NewRecord(recordType, data)
	if err := checkRecord(rec); err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	if err := s.put(rec); err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	return rec.ID, nil
}

// Insert stores rec as given.
func (s *BadgerStore) Insert(rec models.Record) (string, error) {
	if err := checkRecord(rec); err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	if rec.Data == nil {
		rec.Data = map[string]any{}
	}
	if err := s.put(rec); err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	return rec.ID, nil
}

// ReadAll returns every record in insertion order. Values that do not decode
// are skipped.
func (s *BadgerStore) ReadAll() ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]models.Record, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(recordPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var rec models.Record
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				logrus.WithField("key", string(item.Key())).WithError(err).Warn("skip undecodable record")
				continue
			}
			if rec.Data == nil {
				rec.Data = map[string]any{}
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return records, nil
}

// ReadByID returns the record with the given id.
func (s *BadgerStore) ReadByID(id string) (models.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec models.Record
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, _, found, err = getRecord(txn, id)
		return err
	})
	if err != nil {
		return models.Record{}, false, fmt.Errorf("read record: %w", err)
	}
	return rec, found, nil
}

// Update replaces the data of the record with the given id.
func (s *BadgerStore) Update(id string, data map[string]any) (bool, error) {
	if data == nil {
		data = map[string]any{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	err := s.db.Update(func(txn *badger.Txn) error {
		rec, key, ok, err := getRecord(txn, id)
		if err != nil || !ok {
			return err
		}
		found = true
		rec.Data = data
		val, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		return txn.Set(key, val)
	})
	if err != nil {
		return false, fmt.Errorf("update record: %w", err)
	}
	return found, nil
}

// Delete removes the record with the given id.
func (s *BadgerStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	err := s.db.Update(func(txn *badger.Txn) error {
		key, ok, err := lookupKey(txn, id)
		if err != nil || !ok {
			return err
		}
		found = true
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(indexKey(id))
	})
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	return found, nil
}

// FindByType returns records of the given type in insertion order.
func (s *BadgerStore) FindByType(recordType string) ([]models.Record, error) {
	records, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	return filterByType(records, recordType), nil
}

// GetObjectByID reconstructs the entity stored under id.
func (s *BadgerStore) GetObjectByID(id string) (models.Entity, bool) {
	rec, found, err := s.ReadByID(id)
	return objectFromRecord(id, rec, found, err)
}

// ResolveID expands a unique id prefix.
func (s *BadgerStore) ResolveID(idOrPrefix string) (string, error) {
	records, err := s.ReadAll()
	if err != nil {
		return "", err
	}
	return resolveID(records, idOrPrefix)
}

// put writes a new record under the next sequence number.
func (s *BadgerStore) put(rec models.Record) error {
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		_, exists, err := lookupKey(txn, rec.ID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
		}

		seq, err := nextSequence(txn)
		if err != nil {
			return err
		}
		key := recordKey(seq)
		if err := txn.Set(key, val); err != nil {
			return err
		}
		return txn.Set(indexKey(rec.ID), key)
	})
}

func recordKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", recordPrefix, seq))
}

func indexKey(id string) []byte {
	return []byte(indexPrefix + id)
}

// nextSequence increments and returns the stored insertion counter.
func nextSequence(txn *badger.Txn) (uint64, error) {
	var seq uint64
	item, err := txn.Get([]byte(sequenceKey))
	switch {
	case err == nil:
		val, err := item.ValueCopy(nil)
		if err != nil {
			return 0, err
		}
		if len(val) == 8 {
			seq = binary.BigEndian.Uint64(val)
		}
	case errors.Is(err, badger.ErrKeyNotFound):
	default:
		return 0, err
	}

	seq++
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	if err := txn.Set([]byte(sequenceKey), buf); err != nil {
		return 0, err
	}
	return seq, nil
}

// lookupKey returns the record key indexed under id.
func lookupKey(txn *badger.Txn, id string) ([]byte, bool, error) {
	item, err := txn.Get(indexKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	key, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, err
	}
	return key, true, nil
}

// getRecord loads and decodes the record indexed under id.
func getRecord(txn *badger.Txn, id string) (models.Record, []byte, bool, error) {
	key, ok, err := lookupKey(txn, id)
	if err != nil || !ok {
		return models.Record{}, nil, false, err
	}

	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.Record{}, nil, false, nil
	}
	if err != nil {
		return models.Record{}, nil, false, err
	}

	var rec models.Record
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	}); err != nil {
		return models.Record{}, nil, false, fmt.Errorf("decode record %s: %w", id, err)
	}
	if rec.Data == nil {
		rec.Data = map[string]any{}
	}
	return rec, key, true, nil
}
