// ABOUTME: Workout and Exercise entities for training sessions.
// ABOUTME: Workouts carry a duration in minutes, exercises the calories they burn.
package models

import "fmt"

// Workout represents a training session.
type Workout struct {
	Name     string `mapstructure:"name" validate:"required"`
	Duration int    `mapstructure:"duration" validate:"gte=0"`
}

var _ Entity = (*Workout)(nil)

// NewWorkout creates a Workout lasting duration minutes.
func NewWorkout(name string, duration int) *Workout {
	return &Workout{Name: name, Duration: duration}
}

func (w *Workout) Kind() Kind { return KindWorkout }

func (w *Workout) DisplayName() string { return w.Name }

func (w *Workout) Summary() string {
	return fmt.Sprintf("Workout: %s, Duration: %d minutes", w.Name, w.Duration)
}

func (w *Workout) Data() map[string]any {
	return map[string]any{
		"name":     w.Name,
		"duration": w.Duration,
	}
}

// Exercise is a single movement and its energy cost.
type Exercise struct {
	Name           string `mapstructure:"name" validate:"required"`
	CaloriesBurned int    `mapstructure:"calories_burned" validate:"gte=0"`
}

var _ Entity = (*Exercise)(nil)

// NewExercise creates an Exercise.
func NewExercise(name string, caloriesBurned int) *Exercise {
	return &Exercise{Name: name, CaloriesBurned: caloriesBurned}
}

func (e *Exercise) Kind() Kind { return KindExercise }

func (e *Exercise) DisplayName() string { return e.Name }

func (e *Exercise) Summary() string {
	return fmt.Sprintf("Exercise: %s, Calories Burned: %d", e.Name, e.CaloriesBurned)
}

func (e *Exercise) Data() map[string]any {
	return map[string]any{
		"name":            e.Name,
		"calories_burned": e.CaloriesBurned,
	}
}
