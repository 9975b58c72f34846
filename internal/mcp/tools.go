// ABOUTME: MCP tool implementations for fitness records.
// ABOUTME: Provides typed creation, generic CRUD, and workout scheduling.
package mcp

import (
	"context"
	"fmt"
	"maps"

	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/scheduler"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 50

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_user",
		Description: "Create a user record (username, age, optional height and weight)",
	}, s.handleCreateUser)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_workout",
		Description: "Create a workout record with a duration in minutes",
	}, s.handleCreateWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_exercise",
		Description: "Create an exercise record with the calories it burns",
	}, s.handleCreateExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_record",
		Description: "Create a record of any type with free-form data",
	}, s.handleCreateRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_record",
		Description: "Get a record by ID or ID prefix, with its summary when it is a user, workout, or exercise",
	}, s.handleGetRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List records in insertion order, optionally filtered by type",
	}, s.handleListRecords)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_record",
		Description: "Update a record's data. Fields are merged into the current data unless replace is set",
	}, s.handleUpdateRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a record by ID or ID prefix",
	}, s.handleDeleteRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "schedule_workout",
		Description: "Schedule an existing workout for an existing user",
	}, s.handleScheduleWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_schedules",
		Description: "List scheduled workouts with user and workout summaries",
	}, s.handleListSchedules)
}

// Tool input/output types

type createUserInput struct {
	Username string   `json:"username" jsonschema:"Username"`
	Age      int      `json:"age" jsonschema:"Age in years"`
	Height   *float64 `json:"height,omitempty" jsonschema:"Optional height, positive"`
	Weight   *float64 `json:"weight,omitempty" jsonschema:"Optional weight, positive"`
}

type createWorkoutInput struct {
	Name     string `json:"name" jsonschema:"Workout name (e.g. Leg Day)"`
	Duration int    `json:"duration" jsonschema:"Duration in minutes"`
}

type createExerciseInput struct {
	Name           string `json:"name" jsonschema:"Exercise name"`
	CaloriesBurned int    `json:"calories_burned" jsonschema:"Calories burned"`
}

type createRecordInput struct {
	Type string         `json:"type" jsonschema:"Record type tag"`
	Data map[string]any `json:"data,omitempty" jsonschema:"Record data"`
}

type recordOutput struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Summary string `json:"summary,omitempty"`
	Message string `json:"message"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Record ID or unique prefix"`
}

type getRecordOutput struct {
	Record  models.Record `json:"record"`
	Summary string        `json:"summary,omitempty"`
}

type listRecordsInput struct {
	Type  string `json:"type,omitempty" jsonschema:"Filter by record type"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results (default 50)"`
}

type updateRecordInput struct {
	ID      string         `json:"id" jsonschema:"Record ID or unique prefix"`
	Data    map[string]any `json:"data" jsonschema:"Fields to set"`
	Replace bool           `json:"replace,omitempty" jsonschema:"Replace the data instead of merging"`
}

type scheduleInput struct {
	UserID    string `json:"user_id" jsonschema:"User record ID or prefix"`
	WorkoutID string `json:"workout_id" jsonschema:"Workout record ID or prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleCreateUser(ctx context.Context, req *mcp.CallToolRequest, input createUserInput) (*mcp.CallToolResult, recordOutput, error) {
	u := models.NewUser(input.Username, input.Age)
	if input.Height != nil {
		u.WithHeight(*input.Height)
	}
	if input.Weight != nil {
		u.WithWeight(*input.Weight)
	}
	return s.createEntity(u)
}

func (s *Server) handleCreateWorkout(ctx context.Context, req *mcp.CallToolRequest, input createWorkoutInput) (*mcp.CallToolResult, recordOutput, error) {
	return s.createEntity(models.NewWorkout(input.Name, input.Duration))
}

func (s *Server) handleCreateExercise(ctx context.Context, req *mcp.CallToolRequest, input createExerciseInput) (*mcp.CallToolResult, recordOutput, error) {
	return s.createEntity(models.NewExercise(input.Name, input.CaloriesBurned))
}

func (s *Server) createEntity(e models.Entity) (*mcp.CallToolResult, recordOutput, error) {
	if err := models.Validate(e); err != nil {
		return nil, recordOutput{}, fmt.Errorf("invalid %s: %w", e.Kind(), err)
	}

	id, err := s.repo.Create(e.Data(), string(e.Kind()))
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to create %s: %w", e.Kind(), err)
	}

	return nil, recordOutput{
		ID:      id,
		Type:    string(e.Kind()),
		Summary: e.Summary(),
		Message: fmt.Sprintf("Created %s (ID: %s)", e.Kind(), id),
	}, nil
}

func (s *Server) handleCreateRecord(ctx context.Context, req *mcp.CallToolRequest, input createRecordInput) (*mcp.CallToolResult, recordOutput, error) {
	if input.Type == "" {
		return nil, recordOutput{}, fmt.Errorf("type is required")
	}

	id, err := s.repo.Create(input.Data, input.Type)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to create record: %w", err)
	}

	out := recordOutput{
		ID:      id,
		Type:    input.Type,
		Message: fmt.Sprintf("Created %s record (ID: %s)", input.Type, id),
	}
	if obj, ok := s.repo.GetObjectByID(id); ok {
		out.Summary = obj.Summary()
	}
	return nil, out, nil
}

func (s *Server) handleGetRecord(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, getRecordOutput, error) {
	id, err := s.repo.ResolveID(input.ID)
	if err != nil {
		return nil, getRecordOutput{}, fmt.Errorf("record not found: %w", err)
	}

	rec, found, err := s.repo.ReadByID(id)
	if err != nil {
		return nil, getRecordOutput{}, fmt.Errorf("failed to read record: %w", err)
	}
	if !found {
		return nil, getRecordOutput{}, fmt.Errorf("record not found: %s", input.ID)
	}

	out := getRecordOutput{Record: rec}
	if obj, ok := s.repo.GetObjectByID(id); ok {
		out.Summary = obj.Summary()
	}
	return nil, out, nil
}

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input listRecordsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}

	var records []models.Record
	var err error
	if input.Type != "" {
		records, err = s.repo.FindByType(input.Type)
	} else {
		records, err = s.repo.ReadAll()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list records: %w", err)
	}

	if len(records) == 0 {
		return nil, map[string]any{"message": "No records found."}, nil
	}
	if len(records) > input.Limit {
		records = records[:input.Limit]
	}

	return nil, map[string]any{"records": records, "count": len(records)}, nil
}

func (s *Server) handleUpdateRecord(ctx context.Context, req *mcp.CallToolRequest, input updateRecordInput) (*mcp.CallToolResult, recordOutput, error) {
	id, err := s.repo.ResolveID(input.ID)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("record not found: %w", err)
	}

	rec, found, err := s.repo.ReadByID(id)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to read record: %w", err)
	}
	if !found {
		return nil, recordOutput{}, fmt.Errorf("record not found: %s", input.ID)
	}

	data := input.Data
	if !input.Replace {
		data = make(map[string]any, len(rec.Data)+len(input.Data))
		maps.Copy(data, rec.Data)
		maps.Copy(data, input.Data)
	}

	ok, err := s.repo.Update(id, data)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("failed to update record: %w", err)
	}
	if !ok {
		return nil, recordOutput{}, fmt.Errorf("record not found: %s", input.ID)
	}

	out := recordOutput{
		ID:      id,
		Type:    rec.Type,
		Message: fmt.Sprintf("Updated %s record (ID: %s)", rec.Type, id),
	}
	if obj, ok := s.repo.GetObjectByID(id); ok {
		out.Summary = obj.Summary()
	}
	return nil, out, nil
}

func (s *Server) handleDeleteRecord(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.repo.ResolveID(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("record not found: %w", err)
	}

	ok, err := s.repo.Delete(id)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete record: %w", err)
	}
	if !ok {
		return nil, simpleOutput{}, fmt.Errorf("record not found: %s", input.ID)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted record: %s", id),
	}, nil
}

func (s *Server) handleScheduleWorkout(ctx context.Context, req *mcp.CallToolRequest, input scheduleInput) (*mcp.CallToolResult, recordOutput, error) {
	userID, err := s.repo.ResolveID(input.UserID)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("%w: %s", scheduler.ErrUserNotFound, input.UserID)
	}
	workoutID, err := s.repo.ResolveID(input.WorkoutID)
	if err != nil {
		return nil, recordOutput{}, fmt.Errorf("%w: %s", scheduler.ErrWorkoutNotFound, input.WorkoutID)
	}

	b, err := s.sched.Book(s.repo, userID, workoutID)
	if err != nil {
		return nil, recordOutput{}, err
	}

	return nil, recordOutput{
		ID:      b.ID,
		Type:    string(models.KindSchedule),
		Summary: b.Confirmation,
		Message: fmt.Sprintf("%s (ID: %s)", b.Confirmation, b.ID),
	}, nil
}

func (s *Server) handleListSchedules(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	entries, err := scheduler.ListSchedules(s.repo)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	if len(entries) == 0 {
		return nil, map[string]any{"message": "No schedules found."}, nil
	}
	return nil, map[string]any{"schedules": entries, "count": len(entries)}, nil
}
