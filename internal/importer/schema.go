// Package importer reads and writes a day plan as a portable JSON file.
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// FormatVersion is written to every exported file.
const FormatVersion = 1

// DayFile is the top-level JSON structure of an exported day.
type DayFile struct {
	Version   int          `json:"version"`
	Date      string       `json:"date"`
	BrainDump string       `json:"brain_dump,omitempty"`
	TopGoals  []string     `json:"top_goals,omitempty"`
	Schedule  []ItemImport `json:"schedule"`
}

// ItemImport is one schedule item. Start is "HH:MM"; Duration is hours.
// A missing ID is generated on import.
type ItemImport struct {
	ID           string  `json:"id,omitempty"`
	Start        string  `json:"start"`
	Duration     float64 `json:"duration"`
	Activity     string  `json:"activity,omitempty"`
	ActivityType string  `json:"activity_type,omitempty"`
}

// LoadDayFile reads and parses a day file from path, or stdin when path
// is "-".
func LoadDayFile(path string, stdin io.Reader) (*DayFile, error) {
	if path == "-" {
		return ParseDayFile(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseDayFile(f)
}

// ParseDayFile decodes a day file. Unknown fields are rejected so typos
// do not silently drop data.
func ParseDayFile(r io.Reader) (*DayFile, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var file DayFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing day file: %w", err)
	}
	return &file, nil
}
