// internal/models/deadline.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Deadline keeps the stored text and, when it reads as a date, the parsed value.
// Phrases such as "Aucune - Ouvert en continu" have a nil Date.
type Deadline struct {
	Raw  string
	Date *time.Time
}

var deadlineLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDeadline tags raw as a date when it matches a known layout.
func ParseDeadline(raw string) Deadline {
	d := Deadline{Raw: raw}
	trimmed := strings.TrimSpace(raw)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			t = t.UTC()
			d.Date = &t
			break
		}
	}
	return d
}

func (d Deadline) IsDate() bool { return d.Date != nil }

func (d Deadline) String() string { return d.Raw }

func (d Deadline) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Raw)
}

func (d *Deadline) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("deadline must be a string: %w", err)
	}
	*d = ParseDeadline(raw)
	return nil
}

// UnmarshalYAML lets seed files carry deadlines as plain scalars.
func (d *Deadline) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*d = ParseDeadline(raw)
	return nil
}

// Value stores the raw text.
func (d Deadline) Value() (driver.Value, error) {
	return d.Raw, nil
}

func (d *Deadline) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*d = ParseDeadline(v)
	case []byte:
		*d = ParseDeadline(string(v))
	case nil:
		*d = Deadline{}
	default:
		return fmt.Errorf("cannot scan %T into Deadline", src)
	}
	return nil
}
