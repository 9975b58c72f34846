// ABOUTME: Object factory building entities from arguments or stored records.
// ABOUTME: Record data is decoded with mapstructure and checked with validator.
package models

import (
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

var validate = validator.New()

// requiredFields lists the data keys each entity kind cannot do without.
var requiredFields = map[Kind][]string{
	KindUser:     {"username", "age"},
	KindWorkout:  {"name", "duration"},
	KindExercise: {"name", "calories_burned"},
}

// IsEntityKind reports whether s names a kind the factory can build.
func IsEntityKind(s string) bool {
	return slices.Contains(EntityKinds, Kind(s))
}

// CreateObject builds an entity from positional arguments:
//
//	user:     username string, age int [, height float64 [, weight float64]]
//	workout:  name string, duration int
//	exercise: name string, calories int
//
// Optional user measurements may be passed as nil.
func CreateObject(kind string, args ...any) (Entity, error) {
	var e Entity
	switch Kind(kind) {
	case KindUser:
		if len(args) < 2 || len(args) > 4 {
			return nil, fmt.Errorf("%w: user takes 2 to 4 arguments, got %d", ErrInvalidArgs, len(args))
		}
		username, err := stringArg(args, 0, "username")
		if err != nil {
			return nil, err
		}
		age, err := intArg(args, 1, "age")
		if err != nil {
			return nil, err
		}
		u := NewUser(username, age)
		if len(args) > 2 && args[2] != nil {
			h, err := floatArg(args, 2, "height")
			if err != nil {
				return nil, err
			}
			u.WithHeight(h)
		}
		if len(args) > 3 && args[3] != nil {
			w, err := floatArg(args, 3, "weight")
			if err != nil {
				return nil, err
			}
			u.WithWeight(w)
		}
		e = u
	case KindWorkout:
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: workout takes 2 arguments, got %d", ErrInvalidArgs, len(args))
		}
		name, err := stringArg(args, 0, "name")
		if err != nil {
			return nil, err
		}
		duration, err := intArg(args, 1, "duration")
		if err != nil {
			return nil, err
		}
		e = NewWorkout(name, duration)
	case KindExercise:
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: exercise takes 2 arguments, got %d", ErrInvalidArgs, len(args))
		}
		name, err := stringArg(args, 0, "name")
		if err != nil {
			return nil, err
		}
		calories, err := intArg(args, 1, "calories_burned")
		if err != nil {
			return nil, err
		}
		e = NewExercise(name, calories)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}

	if err := Validate(e); err != nil {
		return nil, err
	}
	return e, nil
}

// FromRecord reconstructs the entity stored in rec. Data keys map to entity
// fields by name; keys the entity does not know are ignored.
func FromRecord(rec Record) (Entity, error) {
	data := rec.Data
	if data == nil {
		data = map[string]any{}
	}

	var e Entity
	switch Kind(rec.Type) {
	case KindUser:
		e = &User{}
	case KindWorkout:
		e = &Workout{}
	case KindExercise:
		e = &Exercise{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, rec.Type)
	}

	if err := decode(data, e, requiredFields[e.Kind()]...); err != nil {
		return nil, fmt.Errorf("build %s: %w", rec.Type, err)
	}
	return e, nil
}

// Validate checks an entity's field constraints.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// decode fills out from data, failing if any of required is absent.
func decode(data map[string]any, out any, required ...string) error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(wholeNumberHook),
		Metadata:   &md,
		Result:     out,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	for _, name := range required {
		if slices.Contains(md.Unset, name) {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}
	return Validate(out)
}

// wholeNumberHook rejects floats bound for integer fields unless they hold
// an integral value that fits. JSON numbers always arrive as float64.
func wholeNumberHook(from, to reflect.Type, data any) (any, error) {
	if from == nil || to == nil {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}
	if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
		return data, nil
	}

	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v is not a whole number", ErrInvalidValue, data)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%w: %v is out of range", ErrInvalidValue, data)
	}
	return data, nil
}

func stringArg(args []any, i int, name string) (string, error) {
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArgs, name, args[i])
	}
	return s, nil
}

func intArg(args []any, i int, name string) (int, error) {
	switch v := args[i].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidArgs, name, args[i])
}

func floatArg(args []any, i int, name string) (float64, error) {
	switch v := args[i].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidArgs, name, args[i])
}
