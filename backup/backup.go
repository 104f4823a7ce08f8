/*
Package backup reads and writes the portable export document.

FORMAT:
  {
    "schedule":      {"2025-03-10": ["9-4"]},
    "specialDates":  {"2025-12-25": true},
    "settings":      {...pay.Settings...},
    "scheduleTitle": "March rota",
    "exportDate":    "2025-03-31T18:00:00Z",
    "version":       "3.0"
  }

VERSIONS:
  1.0  special dates were not exported reliably; they are discarded on import
  2.0  special dates included
  3.0  current; settings carry allowance hours and applicable days

  A document without a version is treated as 1.0. Documents from a newer
  major version than CurrentVersion are rejected rather than guessed at.

TEMPLATES:
  Imported templates pass the same checks as templates created through the
  API, in document order, and ids must be unique. One bad template rejects
  the whole document.

SEE ALSO:
  - pay/store.go: Snapshot, the value an import produces
*/
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/warp/shift-pay/pay"
	"github.com/warp/shift-pay/schedule"
)

const CurrentVersion = "3.0"

var (
	// ErrUnsupportedVersion is returned for documents this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported export version")

	// ErrInvalidDocument is returned when the document is not valid JSON or
	// has fields of the wrong shape.
	ErrInvalidDocument = errors.New("invalid export document")
)

// Document is the export file.
type Document struct {
	Schedule      schedule.Schedule      `json:"schedule"`
	SpecialDates  *schedule.SpecialDates `json:"specialDates,omitempty"`
	Settings      *pay.Settings          `json:"settings,omitempty"`
	ScheduleTitle string                 `json:"scheduleTitle"`
	ExportDate    time.Time              `json:"exportDate"`
	Version       string                 `json:"version"`
}

// Export builds a current-version document from a snapshot.
func Export(snap pay.Snapshot, now time.Time) Document {
	special := snap.SpecialDates
	settings := snap.Settings.Normalize()
	return Document{
		Schedule:      snap.Schedule,
		SpecialDates:  &special,
		Settings:      &settings,
		ScheduleTitle: snap.Title,
		ExportDate:    now.UTC(),
		Version:       CurrentVersion,
	}
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Decode parses a document without interpreting its version.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

// Import turns a document into a snapshot, applying version rules.
func Import(doc Document) (pay.Snapshot, error) {
	major, _, err := parseVersion(doc.Version)
	if err != nil {
		return pay.Snapshot{}, err
	}
	currentMajor, _, _ := parseVersion(CurrentVersion)
	if major > currentMajor {
		return pay.Snapshot{}, fmt.Errorf("%w: %s (newest supported is %s)", ErrUnsupportedVersion, doc.Version, CurrentVersion)
	}

	snap := pay.Snapshot{
		Schedule: doc.Schedule,
		Settings: pay.DefaultSettings(),
		Title:    strings.TrimSpace(doc.ScheduleTitle),
	}
	if doc.Settings != nil {
		snap.Settings = doc.Settings.Normalize()
	}
	if err := validateShifts(snap.Settings.CustomShifts); err != nil {
		return pay.Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if major >= 2 && doc.SpecialDates != nil {
		snap.SpecialDates = *doc.SpecialDates
	}
	return snap, nil
}

// ReadSnapshot is Decode followed by Import.
func ReadSnapshot(r io.Reader) (pay.Snapshot, Document, error) {
	doc, err := Decode(r)
	if err != nil {
		return pay.Snapshot{}, Document{}, err
	}
	snap, err := Import(doc)
	return snap, doc, err
}

func validateShifts(shifts []schedule.CustomShift) error {
	seen := make(map[schedule.ShiftID]bool, len(shifts))
	for i, s := range shifts {
		if strings.TrimSpace(string(s.ID)) == "" {
			return fmt.Errorf("template %d has no id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: %s", schedule.ErrShiftExists, s.ID)
		}
		seen[s.ID] = true
		if err := schedule.ValidateShift(s, shifts[:i]); err != nil {
			return fmt.Errorf("template %s: %w", s.ID, err)
		}
	}
	return nil
}

// parseVersion reads "MAJOR.MINOR"; an empty version is 1.0.
func parseVersion(v string) (major, minor int, err error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 1, 0, nil
	}
	majStr, minStr, _ := strings.Cut(v, ".")
	if major, err = strconv.Atoi(majStr); err != nil || major < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnsupportedVersion, v)
	}
	if minStr != "" {
		if minor, err = strconv.Atoi(minStr); err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrUnsupportedVersion, v)
		}
	}
	return major, minor, nil
}
