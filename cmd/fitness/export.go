// ABOUTME: CLI commands for exporting and importing fitness data.
// ABOUTME: Supports JSON and YAML export; import skips records that already exist.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/fitness/internal/storage"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var exportOutput string

	cmd := &cobra.Command{
		Use:   "export <format>",
		Short: "Export fitness data",
		Long: `Export every record.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)

OPTIONS:

  --output, -o   Write to file instead of stdout

EXAMPLES:

  fitness export json                   # Export all data as JSON
  fitness export json -o backup.json    # Save to file
  fitness export yaml                   # Export as YAML`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"json", "yaml"},
		RunE: func(cmd *cobra.Command, args []string) error {
			export, err := storage.Export(a.repo)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			data, err := export.Marshal(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if exportOutput != "" {
				if err := os.WriteFile(exportOutput, data, 0600); err != nil {
					return fmt.Errorf("failed to write file: %w", err)
				}
				fmt.Fprintln(out, color.GreenString("✓ Exported %d records to %s", len(export.Records), exportOutput))
				return nil
			}

			fmt.Fprintln(out, string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import fitness data",
		Long: `Import records from a JSON or YAML export, or from a plain JSON data file.

Records keep their ids. Records whose id already exists are skipped.

EXAMPLES:

  fitness import backup.json
  fitness import ~/old-fitness/data.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			raw, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			export, err := storage.ParseExport(raw)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			result, err := storage.Import(a.repo, export)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Imported %d records from %s (%d skipped)",
				result.Imported, filename, result.Skipped))
			return nil
		},
	}
}
