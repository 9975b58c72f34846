// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands in-process against a temp data file.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// newDataFile isolates config and returns a fresh data file path.
func newDataFile(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return filepath.Join(t.TempDir(), "data.json")
}

// runCLI executes the CLI with --data pointing at dataFile.
func runCLI(t *testing.T, dataFile, stdin string, args ...string) (string, error) {
	t.Helper()

	a := &app{}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--data", dataFile}, args...))

	err := root.Execute()
	if cerr := a.close(); cerr != nil {
		t.Errorf("close: %v", cerr)
	}
	return out.String(), err
}

func mustRun(t *testing.T, dataFile string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, dataFile, "", args...)
	if err != nil {
		t.Fatalf("fitness %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// onlyID returns the id of the single record of the given type.
func onlyID(t *testing.T, dataFile, recordType string) string {
	t.Helper()
	store, err := storage.Open(dataFile)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	records, err := store.FindByType(recordType)
	if err != nil {
		t.Fatalf("FindByType: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 %s record, got %d", recordType, len(records))
	}
	return records[0].ID
}

func readRecord(t *testing.T, dataFile, id string) models.Record {
	t.Helper()
	store, err := storage.Open(dataFile)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	rec, found, err := store.ReadByID(id)
	if err != nil || !found {
		t.Fatalf("record %s: found=%v err=%v", id, found, err)
	}
	return rec
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"45", 45},
		{"-3", -3},
		{"75.5", 75.5},
		{"true", true},
		{"false", false},
		{"Leg Day", "Leg Day"},
		{"", ""},
		{"NaN", "NaN"},
		{"TRUE", "TRUE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseValue(tt.input); got != tt.want {
				t.Errorf("parseValue(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSets(t *testing.T) {
	data, err := parseSets([]string{"name=Yoga", "duration=60", "note=a=b"})
	if err != nil {
		t.Fatalf("parseSets failed: %v", err)
	}
	if data["name"] != "Yoga" || data["duration"] != 60 || data["note"] != "a=b" {
		t.Errorf("parseSets = %v", data)
	}

	for _, bad := range []string{"novalue", "=x", " =x"} {
		if _, err := parseSets([]string{bad}); err == nil {
			t.Errorf("parseSets(%q) expected error", bad)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"longer than max", "hello world", 8, "hello..."},
		{"empty string", "", 5, ""},
		{"multibyte kept whole", "héllo", 5, "héllo"},
		{"multibyte cut on rune", "über straße", 8, "über ..."},
		{"emoji", "💪💪💪💪💪", 4, "💪..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"user", 8, "user    "},
		{"workout", 7, "workout"},
		{"schedule", 4, "schedule"},
		{"", 3, "   "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("1234567890"); got != "12345678" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}

func TestRootCmdCommands(t *testing.T) {
	root := newRootCmd(&app{})

	want := []string{
		"create-user", "create-workout", "create-exercise", "create",
		"list", "get", "update-user", "update-workout", "update",
		"delete", "schedule", "schedules", "export", "import", "mcp",
	}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("expected %s subcommand", name)
		}
	}

	for _, flag := range []string{"data", "logfile", "log-level"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected --%s persistent flag", flag)
		}
	}
}

func TestCreateAndList(t *testing.T) {
	dataFile := newDataFile(t)

	out := mustRun(t, dataFile, "create-user", "--username", "alice", "--age", "30", "--height", "168")
	if !strings.Contains(out, "Created user") {
		t.Errorf("expected 'Created user', got: %s", out)
	}
	if !strings.Contains(out, "User: alice, Age: 30, Height: 168, Weight: N/A") {
		t.Errorf("expected user summary, got: %s", out)
	}

	mustRun(t, dataFile, "create-workout", "--name", "Leg Day", "--duration", "45")
	mustRun(t, dataFile, "create-exercise", "--name", "Squat", "--calories", "120")

	out = mustRun(t, dataFile, "list")
	for _, s := range []string{
		"User: alice",
		"Workout: Leg Day, Duration: 45 minutes",
		"Exercise: Squat, Calories Burned: 120",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("expected %q in list output, got: %s", s, out)
		}
	}

	out = mustRun(t, dataFile, "list", "--type", "workout")
	if strings.Contains(out, "alice") || !strings.Contains(out, "Leg Day") {
		t.Errorf("type filter failed: %s", out)
	}

	out = mustRun(t, dataFile, "list", "--json")
	if !strings.Contains(out, `"type": "exercise"`) {
		t.Errorf("expected JSON records, got: %s", out)
	}
}

func TestListEmpty(t *testing.T) {
	dataFile := newDataFile(t)

	out := mustRun(t, dataFile, "list")
	if !strings.Contains(out, "No records found.") {
		t.Errorf("expected empty message, got: %s", out)
	}
}

func TestCreateUserValidation(t *testing.T) {
	dataFile := newDataFile(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing username", []string{"create-user", "--age", "30"}},
		{"missing age", []string{"create-user", "--username", "alice"}},
		{"bad age", []string{"create-user", "--username", "alice", "--age", "thirty"}},
		{"negative age", []string{"create-user", "--username", "alice", "--age", "-1"}},
		{"empty name", []string{"create-workout", "--name", "", "--duration", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, dataFile, "", tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}

	store, _ := storage.Open(dataFile)
	if records, _ := store.ReadAll(); len(records) != 0 {
		t.Errorf("invalid input should store nothing, got %d records", len(records))
	}
}

func TestCreateGeneric(t *testing.T) {
	dataFile := newDataFile(t)

	out := mustRun(t, dataFile, "create", "--type", "generic", "--set", "note=rest day", "--set", "mood=7")
	if !strings.Contains(out, "Created generic record") {
		t.Errorf("unexpected output: %s", out)
	}

	rec := readRecord(t, dataFile, onlyID(t, dataFile, "generic"))
	if rec.Data["note"] != "rest day" || rec.Data["mood"] != float64(7) {
		t.Errorf("stored data = %v", rec.Data)
	}

	out = mustRun(t, dataFile, "create", "--type", "workout", "--set", "name=Yoga", "--set", "duration=60")
	if !strings.Contains(out, "Workout: Yoga, Duration: 60 minutes") {
		t.Errorf("expected workout summary, got: %s", out)
	}

	if _, err := runCLI(t, dataFile, "", "create", "--type", "workout", "--set", "name=Yoga"); err == nil {
		t.Error("expected error for workout without duration")
	}
	if _, err := runCLI(t, dataFile, "", "create", "--type", "workout", "--set", "name=Yoga", "--set", "duration=60.5"); err == nil {
		t.Error("expected error for fractional duration")
	}
	if _, err := runCLI(t, dataFile, "", "create", "--type", "generic", "--set", "broken"); err == nil {
		t.Error("expected error for malformed --set")
	}
}

func TestGet(t *testing.T) {
	dataFile := newDataFile(t)
	mustRun(t, dataFile, "create-workout", "--name", "Run", "--duration", "20")
	id := onlyID(t, dataFile, "workout")

	out := mustRun(t, dataFile, "get", id[:6])
	if !strings.Contains(out, id) {
		t.Errorf("expected full id in output, got: %s", out)
	}
	if !strings.Contains(out, "Workout: Run, Duration: 20 minutes") {
		t.Errorf("expected summary, got: %s", out)
	}

	if _, err := runCLI(t, dataFile, "", "get", "zzzz"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestUpdateUserMerges(t *testing.T) {
	dataFile := newDataFile(t)
	mustRun(t, dataFile, "create-user", "--username", "alice", "--age", "30", "--height", "168")
	id := onlyID(t, dataFile, "user")

	out := mustRun(t, dataFile, "update-user", id[:8], "--weight", "61.5")
	if !strings.Contains(out, "User: alice, Age: 30, Height: 168, Weight: 61.5") {
		t.Errorf("expected merged summary, got: %s", out)
	}

	rec := readRecord(t, dataFile, id)
	if rec.Type != "user" || rec.Data["height"] != float64(168) || rec.Data["username"] != "alice" {
		t.Errorf("record after update = %+v", rec)
	}

	if _, err := runCLI(t, dataFile, "", "update-user", id); err == nil {
		t.Error("expected error when no fields are given")
	}
	if _, err := runCLI(t, dataFile, "", "update-user", id, "--username", ""); err == nil {
		t.Error("expected validation error for empty username")
	}
	if _, err := runCLI(t, dataFile, "", "update-workout", id, "--duration", "5"); err == nil {
		t.Error("expected error updating a user as a workout")
	}
}

func TestUpdateWorkout(t *testing.T) {
	dataFile := newDataFile(t)
	mustRun(t, dataFile, "create-workout", "--name", "Run", "--duration", "20")
	id := onlyID(t, dataFile, "workout")

	out := mustRun(t, dataFile, "update-workout", id, "--duration", "35")
	if !strings.Contains(out, "Workout: Run, Duration: 35 minutes") {
		t.Errorf("expected updated summary, got: %s", out)
	}
}

func TestUpdateGeneric(t *testing.T) {
	dataFile := newDataFile(t)
	mustRun(t, dataFile, "create", "--type", "generic", "--set", "note=a", "--set", "mood=5")
	id := onlyID(t, dataFile, "generic")

	mustRun(t, dataFile, "update", id, "--set", "mood=8")
	rec := readRecord(t, dataFile, id)
	if rec.Data["note"] != "a" || rec.Data["mood"] != float64(8) {
		t.Errorf("merge update data = %v", rec.Data)
	}

	mustRun(t, dataFile, "update", id, "--replace", "--set", "note=b")
	rec = readRecord(t, dataFile, id)
	if len(rec.Data) != 1 || rec.Data["note"] != "b" {
		t.Errorf("replace update data = %v", rec.Data)
	}
	if rec.Type != "generic" {
		t.Errorf("type changed to %q", rec.Type)
	}
}

func TestDelete(t *testing.T) {
	dataFile := newDataFile(t)
	mustRun(t, dataFile, "create-workout", "--name", "Run", "--duration", "20")
	id := onlyID(t, dataFile, "workout")

	out, err := runCLI(t, dataFile, "n\n", "delete", id)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out, "Cancelled.") {
		t.Errorf("expected cancellation, got: %s", out)
	}
	readRecord(t, dataFile, id)

	out, err = runCLI(t, dataFile, "y\n", "delete", id[:8])
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out, "Deleted workout") {
		t.Errorf("expected deletion, got: %s", out)
	}

	if _, err := runCLI(t, dataFile, "", "delete", id, "--yes"); err == nil {
		t.Error("expected error deleting a missing record")
	}
}

func TestDeleteYes(t *testing.T) {
	dataFile := newDataFile(t)
	mustRun(t, dataFile, "create-exercise", "--name", "Plank", "--calories", "30")
	id := onlyID(t, dataFile, "exercise")

	mustRun(t, dataFile, "delete", id, "--yes")

	store, _ := storage.Open(dataFile)
	if _, found, _ := store.ReadByID(id); found {
		t.Error("record should be deleted")
	}
}

func TestScheduleAndSchedules(t *testing.T) {
	dataFile := newDataFile(t)
	mustRun(t, dataFile, "create-user", "--username", "alice", "--age", "30")
	mustRun(t, dataFile, "create-workout", "--name", "Leg Day", "--duration", "45")
	userID := onlyID(t, dataFile, "user")
	workoutID := onlyID(t, dataFile, "workout")

	out := mustRun(t, dataFile, "schedules")
	if !strings.Contains(out, "No schedules found.") {
		t.Errorf("expected empty schedules, got: %s", out)
	}

	out = mustRun(t, dataFile, "schedule", "--user-id", userID[:8], "--workout-id", workoutID[:8])
	if !strings.Contains(out, "alice scheduled: Leg Day") {
		t.Errorf("expected confirmation, got: %s", out)
	}

	schedID := onlyID(t, dataFile, "schedule")
	rec := readRecord(t, dataFile, schedID)
	if rec.Data["user_id"] != userID || rec.Data["workout_id"] != workoutID {
		t.Errorf("schedule data = %v", rec.Data)
	}

	out = mustRun(t, dataFile, "schedules")
	want := "Schedule id=" + schedID + ": User: alice, Age: 30, Height: N/A, Weight: N/A -> Workout: Leg Day, Duration: 45 minutes"
	if !strings.Contains(out, want) {
		t.Errorf("expected %q, got: %s", want, out)
	}

	if _, err := runCLI(t, dataFile, "", "schedule", "--user-id", workoutID, "--workout-id", workoutID); err == nil {
		t.Error("expected error scheduling a workout as a user")
	}
}

func TestExportImport(t *testing.T) {
	dataFile := newDataFile(t)
	mustRun(t, dataFile, "create-user", "--username", "alice", "--age", "30")
	mustRun(t, dataFile, "create-workout", "--name", "Run", "--duration", "20")

	backup := filepath.Join(t.TempDir(), "backup.json")
	out := mustRun(t, dataFile, "export", "json", "-o", backup)
	if !strings.Contains(out, "Exported 2 records") {
		t.Errorf("unexpected export output: %s", out)
	}

	out = mustRun(t, dataFile, "export", "yaml")
	if !strings.Contains(out, "tool: fitness") {
		t.Errorf("expected YAML export, got: %s", out)
	}

	if _, err := runCLI(t, dataFile, "", "export", "csv"); err == nil {
		t.Error("expected error for unknown format")
	}

	other := filepath.Join(t.TempDir(), "other.json")
	out = mustRun(t, other, "import", backup)
	if !strings.Contains(out, "Imported 2 records") {
		t.Errorf("unexpected import output: %s", out)
	}
	userID := onlyID(t, dataFile, "user")
	if onlyID(t, other, "user") != userID {
		t.Error("import should keep record ids")
	}

	out = mustRun(t, other, "import", backup)
	if !strings.Contains(out, "(2 skipped)") {
		t.Errorf("expected duplicates to be skipped, got: %s", out)
	}
}

func TestInjectedRepository(t *testing.T) {
	store, err := storage.OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	defer store.Close()

	a := &app{repo: store}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"create-workout", "--name", "Swim", "--duration", "40"})
	if err := root.Execute(); err != nil {
		t.Fatalf("create-workout failed: %v", err)
	}

	// An injected repository stays open after the command.
	records, err := store.FindByType("workout")
	if err != nil {
		t.Fatalf("store unusable after command: %v", err)
	}
	if len(records) != 1 || records[0].Data["name"] != "Swim" {
		t.Errorf("records = %+v", records)
	}
}
