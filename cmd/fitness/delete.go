// ABOUTME: CLI command for deleting records.
// ABOUTME: Supports deletion by full ID or ID prefix, with a confirmation prompt.
package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"del", "rm"},
		Short:   "Delete a record",
		Long: `Delete a record by its ID or ID prefix.

You can use either the full UUID or just the first few characters (prefix).
The ID prefix is shown in the first column of 'fitness list' output.

EXAMPLES:

  fitness delete abc12345          # Asks before deleting
  fitness delete abc12345 --yes    # No prompt
  fitness rm abc1 -y               # Short prefix (if unique)

CAUTION:

  This permanently deletes the record. There is no undo.
  Schedules that point at a deleted user or workout are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, rec, err := a.load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprintf(out, "Delete %s %s? [y/N]: ", rec.Type, shortID(id))
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			ok, err := a.repo.Delete(id)
			if err != nil {
				return fmt.Errorf("failed to delete record: %w", err)
			}
			if !ok {
				return fmt.Errorf("record not found: %s", args[0])
			}

			fmt.Fprintln(out, color.YellowString("✗ Deleted %s", rec.Type))
			fmt.Fprintf(out, "  %s %s\n", color.New(color.Faint).Sprint(shortID(id)), describe(rec))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}
