// ABOUTME: Scheduler formats scheduling confirmations and books schedule records.
// ABOUTME: Formatting is pure; booking and listing go through a storage.Repository.
package scheduler

import (
	"errors"
	"fmt"

	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	unknownUser    = "Unknown user"
	unknownWorkout = "Unknown workout"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrWorkoutNotFound = errors.New("workout not found")
)

// Named is anything with a display name.
type Named interface {
	DisplayName() string
}

// Scheduler holds no state.
type Scheduler struct{}

// New returns a Scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// ScheduleWorkout returns "<user> scheduled: <workout>".
func (s *Scheduler) ScheduleWorkout(user, workout Named) string {
	userName := displayName(user, unknownUser)
	workoutName := displayName(workout, unknownWorkout)

	logrus.WithFields(logrus.Fields{
		"user":    userName,
		"workout": workoutName,
	}).Debug("workout scheduled")

	return fmt.Sprintf("%s scheduled: %s", userName, workoutName)
}

func displayName(n Named, fallback string) string {
	if n == nil {
		return fallback
	}
	if name := n.DisplayName(); name != "" {
		return name
	}
	return fallback
}

// Booking is the outcome of Book.
type Booking struct {
	ID           string
	Confirmation string
}

// Book stores a schedule record linking an existing user and workout and
// returns its id with the confirmation text.
func (s *Scheduler) Book(repo storage.Repository, userID, workoutID string) (Booking, error) {
	user, err := lookup(repo, userID, models.KindUser, ErrUserNotFound)
	if err != nil {
		return Booking{}, err
	}
	workout, err := lookup(repo, workoutID, models.KindWorkout, ErrWorkoutNotFound)
	if err != nil {
		return Booking{}, err
	}

	sched := models.Schedule{UserID: userID, WorkoutID: workoutID}
	id, err := repo.Create(sched.Data(), string(models.KindSchedule))
	if err != nil {
		return Booking{}, fmt.Errorf("store schedule: %w", err)
	}

	return Booking{ID: id, Confirmation: s.ScheduleWorkout(user, workout)}, nil
}

// lookup checks that id is a record of the wanted kind and returns its
// entity when it can be reconstructed.
func lookup(repo storage.Repository, id string, kind models.Kind, notFound error) (Named, error) {
	rec, found, err := repo.ReadByID(id)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", kind, id, err)
	}
	if !found || models.Kind(rec.Type) != kind {
		return nil, fmt.Errorf("%w: %s", notFound, id)
	}
	obj, ok := repo.GetObjectByID(id)
	if !ok {
		return nil, nil
	}
	return obj, nil
}

// Entry is a schedule resolved for display.
type Entry struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	WorkoutID      string `json:"workout_id"`
	UserSummary    string `json:"user"`
	WorkoutSummary string `json:"workout"`
}

// String renders "Schedule id=<id>: <user> -> <workout>".
func (e Entry) String() string {
	return fmt.Sprintf("Schedule id=%s: %s -> %s", e.ID, e.UserSummary, e.WorkoutSummary)
}

// ListSchedules resolves every schedule record. Missing or broken user and
// workout records fall back to their raw ids.
func ListSchedules(repo storage.Repository) ([]Entry, error) {
	records, err := repo.FindByType(string(models.KindSchedule))
	if err != nil {
		return nil, fmt.Errorf("find schedules: %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		sched, err := models.ParseSchedule(rec)
		if err != nil {
			logrus.WithField("id", rec.ID).WithError(err).Warn("malformed schedule")
			sched.UserID, _ = rec.Data["user_id"].(string)
			sched.WorkoutID, _ = rec.Data["workout_id"].(string)
		}
		entries = append(entries, Entry{
			ID:             rec.ID,
			UserID:         sched.UserID,
			WorkoutID:      sched.WorkoutID,
			UserSummary:    summarize(repo, sched.UserID, unknownUser),
			WorkoutSummary: summarize(repo, sched.WorkoutID, unknownWorkout),
		})
	}
	return entries, nil
}

func summarize(repo storage.Repository, id, fallback string) string {
	if id == "" {
		return fallback
	}
	if obj, ok := repo.GetObjectByID(id); ok {
		return obj.Summary()
	}
	return id
}
