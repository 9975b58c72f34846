// ABOUTME: Record is the unit of persistence: an id, a type tag, and an open data map.
// ABOUTME: Also defines the known type tags and the Entity interface implemented by domain objects.
package models

import (
	"errors"

	"github.com/google/uuid"
)

// Kind is the type tag of a record.
type Kind string

const (
	KindUser     Kind = "user"
	KindWorkout  Kind = "workout"
	KindExercise Kind = "exercise"
	KindSchedule Kind = "schedule"
	KindGeneric  Kind = "generic"
)

// EntityKinds are the kinds the factory can reconstruct.
var EntityKinds = []Kind{KindUser, KindWorkout, KindExercise}

var (
	// ErrUnknownType is returned when a type tag does not name an entity.
	ErrUnknownType = errors.New("unknown object type")
	// ErrMissingField is returned when record data lacks a required field.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidArgs is returned by CreateObject for bad positional arguments.
	ErrInvalidArgs = errors.New("invalid arguments")
	// ErrInvalidValue is returned when record data holds a value of the wrong shape.
	ErrInvalidValue = errors.New("invalid field value")
)

// Record is a stored item. Data is schema-less at this layer; its shape is
// interpreted by Type only when the record is turned into an Entity.
type Record struct {
	ID   string         `json:"id" yaml:"id"`
	Type string         `json:"type" yaml:"type"`
	Data map[string]any `json:"data" yaml:"data"`
}

// NewRecord creates a Record with a generated id.
func NewRecord(recordType string, data map[string]any) Record {
	if data == nil {
		data = map[string]any{}
	}
	return Record{
		ID:   uuid.New().String(),
		Type: recordType,
		Data: data,
	}
}

// Entity is a domain object reconstructed from a record.
type Entity interface {
	Kind() Kind
	// DisplayName is the short human name (username, workout name, ...).
	DisplayName() string
	// Summary is the one-line description shown to users.
	Summary() string
	// Data returns the record payload for this entity.
	Data() map[string]any
}
