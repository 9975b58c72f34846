// ABOUTME: MCP resource implementations for fitness records.
// ABOUTME: Provides fitness://records and fitness://schedules resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/scheduler"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	recordsURI   = "fitness://records"
	schedulesURI = "fitness://schedules"
)

func (s *Server) registerResources() {
	// fitness://records - every record grouped by type
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recordsURI,
		Name:        "Fitness Records",
		Description: "All stored records grouped by type, with per-type counts",
		MIMEType:    "application/json",
	}, s.handleRecordsResource)

	// fitness://schedules - scheduled workouts with resolved summaries
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         schedulesURI,
		Name:        "Workout Schedules",
		Description: "Scheduled workouts with user and workout summaries",
		MIMEType:    "application/json",
	}, s.handleSchedulesResource)
}

// Resource handlers

func (s *Server) handleRecordsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records, err := s.repo.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	byType := make(map[string][]models.Record)
	counts := make(map[string]int)
	for _, rec := range records {
		byType[rec.Type] = append(byType[rec.Type], rec)
		counts[rec.Type]++
	}

	result := map[string]any{
		"records": byType,
		"counts":  counts,
		"total":   len(records),
	}
	return jsonResource(recordsURI, result)
}

func (s *Server) handleSchedulesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	entries, err := scheduler.ListSchedules(s.repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	if entries == nil {
		entries = []scheduler.Entry{}
	}

	result := map[string]any{
		"schedules": entries,
		"count":     len(entries),
	}
	return jsonResource(schedulesURI, result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
