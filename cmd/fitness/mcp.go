// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/harperreed/fitness/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants to work with your fitness records through a
standardized protocol. The server communicates via stdin/stdout, so logs
go to stderr or --logfile.

CONFIGURATION:

  {
    "mcpServers": {
      "fitness": {
        "command": "fitness",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  create_user        Create a user
  create_workout     Create a workout
  create_exercise    Create an exercise
  create_record      Create a record of any type
  get_record         Get a record by ID or prefix
  list_records       List records, optionally by type
  update_record      Merge into or replace a record's data
  delete_record      Delete a record
  schedule_workout   Schedule a workout for a user
  list_schedules     List scheduled workouts

AVAILABLE RESOURCES:

  fitness://records     All records grouped by type
  fitness://schedules   Scheduled workouts with summaries`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := mcp.NewServer(a.repo, a.sched)
			if err != nil {
				return err
			}

			// Handle shutdown signals
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return server.Serve(ctx)
		},
	}
}
