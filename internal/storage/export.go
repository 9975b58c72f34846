// ABOUTME: Export and import functionality for fitness records.
// ABOUTME: Supports JSON and YAML export; import accepts exports or a bare record array.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/fitness/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for fitness data.
type ExportData struct {
	Version    string          `json:"version" yaml:"version"`
	ExportedAt time.Time       `json:"exported_at" yaml:"exported_at"`
	Tool       string          `json:"tool" yaml:"tool"`
	Records    []models.Record `json:"records" yaml:"records"`
}

// ImportResult counts the outcome of an import.
type ImportResult struct {
	Imported int
	Skipped  int
}

// Export collects every record from r.
func Export(r Repository) (*ExportData, error) {
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
		Tool:       "fitness",
		Records:    records,
	}, nil
}

// Marshal renders the export as "json" or "yaml".
func (d *ExportData) Marshal(format string) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(d, "", "  ")
	case "yaml":
		return yaml.Marshal(d)
	default:
		return nil, fmt.Errorf("unknown format: %s (use json or yaml)", format)
	}
}

// ParseExport reads an export produced by Marshal. A plain JSON array of
// records, as found in a data file, is accepted too.
func ParseExport(raw []byte) (*ExportData, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty import data")
	}

	if trimmed[0] == '[' {
		var records []models.Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("parse record array: %w", err)
		}
		return &ExportData{Records: records}, nil
	}

	var data ExportData
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &data); err != nil {
			return nil, fmt.Errorf("parse json export: %w", err)
		}
		return &data, nil
	}
	if err := yaml.Unmarshal(trimmed, &data); err != nil {
		return nil, fmt.Errorf("parse yaml export: %w", err)
	}
	return &data, nil
}

// Import inserts every record of data into r verbatim. Records whose id is
// already present are skipped.
func Import(r Repository, data *ExportData) (ImportResult, error) {
	var res ImportResult
	for _, rec := range data.Records {
		if _, err := r.Insert(rec); err != nil {
			if errors.Is(err, ErrDuplicateID) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("import record %s: %w", rec.ID, err)
		}
		res.Imported++
	}
	return res, nil
}
