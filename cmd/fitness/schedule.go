// ABOUTME: CLI commands for scheduling workouts.
// ABOUTME: schedule books a workout for a user; schedules lists the bookings.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitness/internal/scheduler"
	"github.com/spf13/cobra"
)

func newScheduleCmd(a *app) *cobra.Command {
	var userID, workoutID string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule a workout for a user",
		Long: `Schedule an existing workout for an existing user.

Both ids may be prefixes. The user id must name a user record and the
workout id a workout record.

EXAMPLES:

  fitness schedule --user-id 1a2b --workout-id 3c4d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.repo.ResolveID(userID)
			if err != nil {
				return fmt.Errorf("%w: %s", scheduler.ErrUserNotFound, userID)
			}
			wid, err := a.repo.ResolveID(workoutID)
			if err != nil {
				return fmt.Errorf("%w: %s", scheduler.ErrWorkoutNotFound, workoutID)
			}

			b, err := a.sched.Book(a.repo, uid, wid)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, color.GreenString("✓ %s", b.Confirmation))
			fmt.Fprintf(out, "  %s\n", color.New(color.Faint).Sprint(b.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "user record id or prefix (required)")
	cmd.Flags().StringVar(&workoutID, "workout-id", "", "workout record id or prefix (required)")
	_ = cmd.MarkFlagRequired("user-id")
	_ = cmd.MarkFlagRequired("workout-id")
	return cmd
}

func newSchedulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schedules",
		Short: "List scheduled workouts",
		Long: `List every schedule with the user and workout it links.

A schedule whose user or workout was deleted shows the raw id instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := scheduler.ListSchedules(a.repo)
			if err != nil {
				return fmt.Errorf("failed to list schedules: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No schedules found.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintln(out, e.String())
			}
			return nil
		},
	}
}
