// ABOUTME: Repository interface for fitness record storage.
// ABOUTME: Defines the CRUD contract shared by the JSON file and Badger backends.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/fitness/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned by ResolveID when nothing matches.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguousID is returned by ResolveID when a prefix matches several records.
	ErrAmbiguousID = errors.New("ambiguous id prefix")
	// ErrDuplicateID is returned by Insert when the id is already stored.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrInvalidRecord is returned for records without an id or type.
	ErrInvalidRecord = errors.New("invalid record")
)

// Repository stores records. Missing records are reported through the bool
// results, not through errors.
type Repository interface {
	// Create stores data under a fresh id and returns the id.
	Create(data map[string]any, recordType string) (string, error)
	// Insert stores a complete record verbatim (bulk load and import).
	Insert(rec models.Record) (string, error)
	ReadAll() ([]models.Record, error)
	ReadByID(id string) (models.Record, bool, error)
	// Update replaces the data of the record wholesale.
	Update(id string, data map[string]any) (bool, error)
	Delete(id string) (bool, error)
	FindByType(recordType string) ([]models.Record, error)
	// GetObjectByID returns the entity for a record, or false if the record
	// is missing or cannot be reconstructed.
	GetObjectByID(id string) (models.Entity, bool)
	// ResolveID expands a unique id prefix to a full id.
	ResolveID(idOrPrefix string) (string, error)
	Close() error
}

// DataDir returns the default data directory following XDG conventions.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "fitness")
}

// DefaultDataFile returns the default JSON data file path.
func DefaultDataFile() string {
	return filepath.Join(DataDir(), "data.json")
}

// checkRecord rejects records the store cannot hold.
func checkRecord(rec models.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	if rec.Type == "" {
		return fmt.Errorf("%w: empty type", ErrInvalidRecord)
	}
	return nil
}

// objectFromRecord converts a lookup result into an entity, logging and
// dropping any failure.
func objectFromRecord(id string, rec models.Record, found bool, err error) (models.Entity, bool) {
	log := logrus.WithField("id", id)
	if err != nil {
		log.WithError(err).Warn("read record for object")
		return nil, false
	}
	if !found {
		return nil, false
	}
	obj, err := models.FromRecord(rec)
	if err != nil {
		log.WithError(err).WithField("type", rec.Type).Warn("reconstruct object")
		return nil, false
	}
	return obj, true
}

// filterByType keeps records whose type equals recordType, in order.
func filterByType(records []models.Record, recordType string) []models.Record {
	matches := make([]models.Record, 0)
	for _, r := range records {
		if r.Type == recordType {
			matches = append(matches, r)
		}
	}
	return matches
}

// resolveID finds the single record id equal to, or prefixed by, idOrPrefix.
func resolveID(records []models.Record, idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	var matches []string
	for _, r := range records {
		if r.ID == idOrPrefix {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, idOrPrefix) {
			matches = append(matches, r.ID)
		}
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("%w %s: matches %d records", ErrAmbiguousID, idOrPrefix, len(matches))
	}
	return matches[0], nil
}
