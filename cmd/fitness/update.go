// ABOUTME: CLI commands for updating records.
// ABOUTME: Typed updates merge changed flags into the stored data before writing it back.
package main

import (
	"fmt"
	"maps"

	"github.com/fatih/color"
	"github.com/harperreed/fitness/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newUpdateUserCmd(a *app) *cobra.Command {
	var (
		username string
		age      int
		height   float64
		weight   float64
	)

	cmd := &cobra.Command{
		Use:   "update-user <id>",
		Short: "Update a user",
		Long: `Update fields of a user record. Only the flags you pass are changed.

EXAMPLES:

  fitness update-user 1a2b --weight 74
  fitness update-user 1a2b --username alice2 --age 31`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes := changedFields(cmd.Flags(), map[string]any{
				"username": username,
				"age":      age,
				"height":   height,
				"weight":   weight,
			})
			return a.updateEntity(cmd, args[0], models.KindUser, changes)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "new username")
	cmd.Flags().IntVar(&age, "age", 0, "new age")
	cmd.Flags().Float64Var(&height, "height", 0, "new height")
	cmd.Flags().Float64Var(&weight, "weight", 0, "new weight")
	return cmd
}

func newUpdateWorkoutCmd(a *app) *cobra.Command {
	var (
		name     string
		duration int
	)

	cmd := &cobra.Command{
		Use:   "update-workout <id>",
		Short: "Update a workout",
		Long: `Update fields of a workout record. Only the flags you pass are changed.

EXAMPLES:

  fitness update-workout 3c4d --duration 60`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes := changedFields(cmd.Flags(), map[string]any{
				"name":     name,
				"duration": duration,
			})
			return a.updateEntity(cmd, args[0], models.KindWorkout, changes)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new workout name")
	cmd.Flags().IntVar(&duration, "duration", 0, "new duration in minutes")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		sets    []string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update any record's data",
		Long: `Update the data of any record with key=value pairs.

By default the pairs are merged into the current data. With --replace
the data is replaced by exactly the given pairs.

EXAMPLES:

  fitness update 5e6f --set note="moved to friday"
  fitness update 5e6f --replace --set note=cleared`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := parseSets(sets)
			if err != nil {
				return err
			}
			if len(changes) == 0 && !replace {
				return fmt.Errorf("nothing to update (use --set key=value)")
			}

			id, rec, err := a.load(args[0])
			if err != nil {
				return err
			}

			data := changes
			if !replace {
				data = merge(rec.Data, changes)
			}
			return a.write(cmd, rec.Type, id, data)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "data field as key=value (repeatable)")
	cmd.Flags().BoolVar(&replace, "replace", false, "replace the data instead of merging")
	return cmd
}

// updateEntity merges changes into a record of the given kind and checks
// the result still forms a valid entity before storing it.
func (a *app) updateEntity(cmd *cobra.Command, idOrPrefix string, kind models.Kind, changes map[string]any) error {
	if len(changes) == 0 {
		return fmt.Errorf("nothing to update (pass at least one field flag)")
	}

	id, rec, err := a.load(idOrPrefix)
	if err != nil {
		return err
	}
	if models.Kind(rec.Type) != kind {
		return fmt.Errorf("record %s is a %s, not a %s", shortID(id), rec.Type, kind)
	}

	data := merge(rec.Data, changes)
	if _, err := models.FromRecord(models.Record{ID: id, Type: rec.Type, Data: data}); err != nil {
		return fmt.Errorf("invalid %s: %w", kind, err)
	}
	return a.write(cmd, rec.Type, id, data)
}

func (a *app) load(idOrPrefix string) (string, models.Record, error) {
	id, err := a.resolve(idOrPrefix)
	if err != nil {
		return "", models.Record{}, err
	}
	rec, found, err := a.repo.ReadByID(id)
	if err != nil {
		return "", models.Record{}, fmt.Errorf("failed to read record: %w", err)
	}
	if !found {
		return "", models.Record{}, fmt.Errorf("record not found: %s", idOrPrefix)
	}
	return id, rec, nil
}

func (a *app) write(cmd *cobra.Command, recordType, id string, data map[string]any) error {
	ok, err := a.repo.Update(id, data)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	if !ok {
		return fmt.Errorf("record not found: %s", id)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, color.GreenString("✓ Updated %s", recordType))
	fmt.Fprintf(out, "  %s\n", color.New(color.Faint).Sprint(id))
	if obj, ok := a.repo.GetObjectByID(id); ok {
		fmt.Fprintf(out, "  %s\n", obj.Summary())
	}
	return nil
}

// changedFields keeps the values whose flag was given on the command line.
func changedFields(flags *pflag.FlagSet, values map[string]any) map[string]any {
	changes := make(map[string]any)
	for name, v := range values {
		if flags.Changed(name) {
			changes[name] = v
		}
	}
	return changes
}

func merge(current, changes map[string]any) map[string]any {
	data := make(map[string]any, len(current)+len(changes))
	maps.Copy(data, current)
	maps.Copy(data, changes)
	return data
}
