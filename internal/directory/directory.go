// Package directory answers doctor and schedule lookups for the conversation
// engine.
package directory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"gopkg.in/yaml.v3"

	"hospital-voice-agent/internal/models"
)

// ErrUnknownDoctor is returned by Slots for a doctor the catalog does not list.
var ErrUnknownDoctor = errors.New("directory: unknown doctor")

// Directory is the availability lookup the state machine depends on.
type Directory interface {
	// Doctors returns the doctors of dept in catalog order.
	Doctors(ctx context.Context, dept models.Department) ([]models.Doctor, error)

	// AllDoctors returns every doctor in catalog order.
	AllDoctors(ctx context.Context) ([]models.Doctor, error)

	// Slots returns the slot labels doctor offers on date, in order.
	// An empty list means the doctor is unavailable that day.
	Slots(ctx context.Context, doctor models.Doctor, date civil.Date) ([]string, error)
}

// Entry is one catalog doctor with the weekly schedule.
type Entry struct {
	models.Doctor `yaml:",inline"`
	Slots         []string `yaml:"slots"`
	DaysOff       []string `yaml:"days_off"`    // weekday names, e.g. "sunday"
	Unavailable   []string `yaml:"unavailable"` // ISO dates
}

// Catalog is a static, in-memory Directory.
type Catalog struct {
	mu      sync.RWMutex
	entries []Entry
	byID    map[string]int
}

// NewCatalog validates entries and builds a catalog from them.
func NewCatalog(entries []Entry) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int, len(entries))}
	for i, e := range entries {
		if err := validateEntry(e); err != nil {
			return nil, fmt.Errorf("directory: entry %d: %w", i, err)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("directory: duplicate doctor id %q", e.ID)
		}
		c.byID[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

func validateEntry(e Entry) error {
	switch {
	case e.ID == "":
		return errors.New("missing id")
	case strings.TrimSpace(e.Name) == "":
		return errors.New("missing name")
	case !e.Department.IsValid():
		return fmt.Errorf("unknown department %q", e.Department)
	case e.Experience < 0:
		return errors.New("negative experience")
	case e.Fee < 0:
		return errors.New("negative fee")
	}
	for _, day := range e.DaysOff {
		if _, ok := weekdays[strings.ToLower(day)]; !ok {
			return fmt.Errorf("unknown weekday %q", day)
		}
	}
	for _, d := range e.Unavailable {
		if _, err := civil.ParseDate(d); err != nil {
			return fmt.Errorf("unavailable date %q: %w", d, err)
		}
	}
	return nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func (c *Catalog) Doctors(ctx context.Context, dept models.Department) ([]models.Doctor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Doctor
	for _, e := range c.entries {
		if e.Department == dept {
			out = append(out, e.Doctor)
		}
	}
	return out, nil
}

func (c *Catalog) AllDoctors(ctx context.Context) ([]models.Doctor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Doctor, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Doctor)
	}
	return out, nil
}

func (c *Catalog) Slots(ctx context.Context, doctor models.Doctor, date civil.Date) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx, ok := c.byID[doctor.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDoctor, doctor.ID)
	}
	e := c.entries[idx]
	weekday := date.In(time.UTC).Weekday()
	for _, day := range e.DaysOff {
		if weekdays[strings.ToLower(day)] == weekday {
			return nil, nil
		}
	}
	iso := date.String()
	for _, d := range e.Unavailable {
		if d == iso {
			return nil, nil
		}
	}
	return append([]string(nil), e.Slots...), nil
}

type catalogFile struct {
	Doctors []Entry `yaml:"doctors"`
}

// Load reads a YAML catalog from path.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("directory: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("directory: decode catalog: %w", err)
	}
	if len(f.Doctors) == 0 {
		return nil, errors.New("directory: catalog lists no doctors")
	}
	return NewCatalog(f.Doctors)
}
