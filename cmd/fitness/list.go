// ABOUTME: CLI commands for listing and showing records.
// ABOUTME: list supports type filtering and JSON output; get shows one record.
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitness/internal/models"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var (
		listType  string
		listLimit int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   "List records",
		Long: `List stored records in the order they were created.

OUTPUT FORMAT:

  Each line shows: ID  TYPE  SUMMARY

  The ID is an 8-character prefix you can use with get, update, and delete.
  Records that are not a user, workout, or exercise show their raw data.

EXAMPLES:

  fitness list                  # Show every record
  fitness list --type workout   # Show only workouts
  fitness list -n 5             # Show the first 5 records
  fitness list --json           # Full records as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var records []models.Record
			var err error
			if listType != "" {
				records, err = a.repo.FindByType(listType)
			} else {
				records, err = a.repo.ReadAll()
			}
			if err != nil {
				return fmt.Errorf("failed to list records: %w", err)
			}

			if listLimit > 0 && len(records) > listLimit {
				records = records[:listLimit]
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(records, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode records: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			if len(records) == 0 {
				fmt.Fprintln(out, "No records found.")
				return nil
			}

			faint := color.New(color.Faint)
			for _, rec := range records {
				fmt.Fprintf(out, "%s %s %s\n",
					faint.Sprint(shortID(rec.ID)),
					padRight(rec.Type, 10),
					describe(rec))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&listType, "type", "t", "", "filter by record type")
	cmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "max number of results (default: all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print full records as JSON")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Aliases: []string{"show"},
		Short:   "Show a record",
		Long: `Show one record as JSON, followed by its summary when it is a user,
workout, or exercise.

EXAMPLES:

  fitness get 1a2b3c4d`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolve(args[0])
			if err != nil {
				return err
			}

			rec, found, err := a.repo.ReadByID(id)
			if err != nil {
				return fmt.Errorf("failed to read record: %w", err)
			}
			if !found {
				return fmt.Errorf("record not found: %s", args[0])
			}

			data, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode record: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, string(data))
			if obj, ok := a.repo.GetObjectByID(id); ok {
				fmt.Fprintln(out, obj.Summary())
			}
			return nil
		},
	}
}

// describe returns the entity summary for rec, or its data as compact JSON.
func describe(rec models.Record) string {
	if obj, err := models.FromRecord(rec); err == nil {
		return obj.Summary()
	}
	if sched, err := models.ParseSchedule(rec); err == nil {
		return fmt.Sprintf("user=%s workout=%s", shortID(sched.UserID), shortID(sched.WorkoutID))
	}
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return "?"
	}
	return truncate(string(data), 60)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// truncate shortens s to maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
