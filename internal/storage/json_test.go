// ABOUTME: Tests specific to the JSON file backend.
// ABOUTME: Covers file initialization, on-disk format, corrupt-file recovery, and write failures.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "data.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Path() != path {
		t.Errorf("Path() = %s, want %s", s.Path(), path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected data file to exist: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Errorf("initial content = %q, want []", raw)
	}
}

func TestOpenKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	content := `[{"id": "a1", "type": "workout", "data": {"name": "Run", "duration": 20}}]`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	all, _ := s.ReadAll()
	if len(all) != 1 || all[0].ID != "a1" {
		t.Fatalf("expected the existing record, got %+v", all)
	}
}

func TestOpenDefaultUsesDataHome(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	s, err := OpenDefault()
	if err != nil {
		t.Fatalf("OpenDefault failed: %v", err)
	}
	want := filepath.Join(dataHome, "fitness", "data.json")
	if s.Path() != want {
		t.Errorf("Path() = %s, want %s", s.Path(), want)
	}

	s2, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\") failed: %v", err)
	}
	if s2.Path() != want {
		t.Errorf("Open(\"\").Path() = %s, want %s", s2.Path(), want)
	}
}

func TestFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s, _ := Open(path)

	id, err := s.Create(map[string]any{"name": "Leg Day", "duration": 60}, "workout")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read data file: %v", err)
	}
	if !strings.Contains(string(raw), "\n    {") {
		t.Errorf("expected 4-space indentation, got:\n%s", raw)
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("data file is not a JSON array: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0]["id"] != id || records[0]["type"] != "workout" {
		t.Errorf("unexpected record: %v", records[0])
	}
	if _, ok := records[0]["data"].(map[string]any); !ok {
		t.Errorf("expected data object, got %T", records[0]["data"])
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".data.json.*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestCorruptFileRecovery(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", "{not json"},
		{"empty file", ""},
		{"object instead of array", `{"id": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("write fixture: %v", err)
			}

			s, err := Open(path)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			all, err := s.ReadAll()
			if err != nil {
				t.Fatalf("ReadAll returned error: %v", err)
			}
			if len(all) != 0 {
				t.Errorf("expected empty collection, got %d records", len(all))
			}

			// The next write replaces the corrupt content.
			if _, err := s.Create(map[string]any{"a": 1}, "generic"); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			all, _ = s.ReadAll()
			if len(all) != 1 {
				t.Errorf("expected 1 record after rewrite, got %d", len(all))
			}
		})
	}
}

func TestMissingFileAfterOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s, _ := Open(path)
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	all, err := s.ReadAll()
	if err != nil || len(all) != 0 {
		t.Errorf("ReadAll = %v, %v; want empty, nil", all, err)
	}
}

func TestWriteFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	path := filepath.Join(dir, "data.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove dir: %v", err)
	}

	if _, err := s.Create(map[string]any{"a": 1}, "generic"); err == nil {
		t.Error("expected Create to fail when the directory is gone")
	}
	all, _ := s.ReadAll()
	if len(all) != 0 {
		t.Errorf("expected no records after failed write, got %d", len(all))
	}
}

func TestMissingDataFieldLoadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`[{"id": "n1", "type": "generic"}]`), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	s, _ := Open(path)

	rec, found, _ := s.ReadByID("n1")
	if !found {
		t.Fatal("expected record")
	}
	if rec.Data == nil {
		t.Error("expected absent data to load as an empty map")
	}
}
