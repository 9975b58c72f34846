// ABOUTME: CLI commands for creating records.
// ABOUTME: Typed create-user/create-workout/create-exercise plus a generic create.
package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitness/internal/models"
	"github.com/spf13/cobra"
)

func newCreateUserCmd(a *app) *cobra.Command {
	var (
		username string
		age      int
		height   float64
		weight   float64
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user",
		Long: `Create a user record.

Height and weight are optional and must be positive when given.

EXAMPLES:

  fitness create-user --username alice --age 30
  fitness create-user --username bob --age 41 --height 180 --weight 75.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var h, w any
			if cmd.Flags().Changed("height") {
				h = height
			}
			if cmd.Flags().Changed("weight") {
				w = weight
			}
			obj, err := models.CreateObject(string(models.KindUser), username, age, h, w)
			if err != nil {
				return fmt.Errorf("invalid user: %w", err)
			}
			return a.createEntity(cmd, obj)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username (required)")
	cmd.Flags().IntVar(&age, "age", 0, "age in years (required)")
	cmd.Flags().Float64Var(&height, "height", 0, "height")
	cmd.Flags().Float64Var(&weight, "weight", 0, "weight")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("age")
	return cmd
}

func newCreateWorkoutCmd(a *app) *cobra.Command {
	var (
		name     string
		duration int
	)

	cmd := &cobra.Command{
		Use:   "create-workout",
		Short: "Create a workout",
		Long: `Create a workout record with a duration in minutes.

EXAMPLES:

  fitness create-workout --name "Leg Day" --duration 45`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := models.CreateObject(string(models.KindWorkout), name, duration)
			if err != nil {
				return fmt.Errorf("invalid workout: %w", err)
			}
			return a.createEntity(cmd, obj)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "workout name (required)")
	cmd.Flags().IntVar(&duration, "duration", 0, "duration in minutes (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func newCreateExerciseCmd(a *app) *cobra.Command {
	var (
		name     string
		calories int
	)

	cmd := &cobra.Command{
		Use:   "create-exercise",
		Short: "Create an exercise",
		Long: `Create an exercise record with the calories it burns.

EXAMPLES:

  fitness create-exercise --name Squat --calories 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := models.CreateObject(string(models.KindExercise), name, calories)
			if err != nil {
				return fmt.Errorf("invalid exercise: %w", err)
			}
			return a.createEntity(cmd, obj)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "exercise name (required)")
	cmd.Flags().IntVar(&calories, "calories", 0, "calories burned (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("calories")
	return cmd
}

func newCreateCmd(a *app) *cobra.Command {
	var (
		recordType string
		sets       []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record of any type",
		Long: `Create a record with a free-form type and data.

VALUES:

  Each --set takes key=value. Values that parse as integers, decimals,
  or true/false are stored as numbers or booleans; anything else is a string.

  Records of type user, workout, or exercise must carry that type's fields.

EXAMPLES:

  fitness create --type generic --set note="rest day" --set mood=7
  fitness create --type workout --set name=Yoga --set duration=60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseSets(sets)
			if err != nil {
				return err
			}

			var obj models.Entity
			if models.IsEntityKind(recordType) {
				obj, err = models.FromRecord(models.Record{Type: recordType, Data: data})
				if err != nil {
					return fmt.Errorf("invalid %s: %w", recordType, err)
				}
			}

			id, err := a.repo.Create(data, recordType)
			if err != nil {
				return fmt.Errorf("failed to create record: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, color.GreenString("✓ Created %s record", recordType))
			fmt.Fprintf(out, "  %s\n", color.New(color.Faint).Sprint(id))
			if obj != nil {
				fmt.Fprintf(out, "  %s\n", obj.Summary())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&recordType, "type", "t", "", "record type (required)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "data field as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (a *app) createEntity(cmd *cobra.Command, obj models.Entity) error {
	id, err := a.repo.Create(obj.Data(), string(obj.Kind()))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", obj.Kind(), err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, color.GreenString("✓ Created %s", obj.Kind()))
	fmt.Fprintf(out, "  %s\n", color.New(color.Faint).Sprint(id))
	fmt.Fprintf(out, "  %s\n", obj.Summary())
	return nil
}

// parseSets turns key=value pairs into record data.
func parseSets(sets []string) (map[string]any, error) {
	data := make(map[string]any, len(sets))
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q (use key=value)", kv)
		}
		data[key] = parseValue(value)
	}
	return data, nil
}

// parseValue picks the narrowest type for a flag value: int, float, bool,
// then string.
func parseValue(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
