// ABOUTME: Schedule payload linking a user record to a workout record.
// ABOUTME: The ids are foreign keys by convention only; nothing enforces them.
package models

import "fmt"

// Schedule is the data of a "schedule" record.
type Schedule struct {
	UserID    string `mapstructure:"user_id" validate:"required"`
	WorkoutID string `mapstructure:"workout_id" validate:"required"`
}

// Data returns the record payload.
func (s Schedule) Data() map[string]any {
	return map[string]any{
		"user_id":    s.UserID,
		"workout_id": s.WorkoutID,
	}
}

// ParseSchedule decodes the payload of a schedule record.
func ParseSchedule(rec Record) (Schedule, error) {
	var s Schedule
	if Kind(rec.Type) != KindSchedule {
		return s, fmt.Errorf("record %s has type %q, not %q", rec.ID, rec.Type, KindSchedule)
	}
	if err := decode(rec.Data, &s, "user_id", "workout_id"); err != nil {
		return Schedule{}, fmt.Errorf("schedule %s: %w", rec.ID, err)
	}
	return s, nil
}
