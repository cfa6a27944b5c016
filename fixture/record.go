package fixture

import (
	"fmt"
	"slices"
	"time"
)

// Record is one fixture file prepared for execution.
type Record struct {
	// Model is the resolved model identifier.
	Model string
	// Data is the file's data section with the model key injected.
	Data *Map
	// Backend is the persistence identifier.
	Backend string
	// File is the source path.
	File string
	// Order is the explicit order, or nil.
	Order *int
	// Index is the discovery position among the run's records.
	Index int
	// Key is the assigned ordering key.
	Key OrderingKey
	// Tags limit the runs the record takes part in.
	Tags []string

	Fixture Fixture
	Manager Manager
}

// Entries returns the name to fields mapping of the data section.
func (r *Record) Entries() (*Map, error) {
	v, ok := r.Data.Get(KeyFixtures)
	if !ok || v == nil {
		return NewMap(), nil
	}
	entries, ok := v.(*Map)
	if !ok {
		return nil, fmt.Errorf("%s must be a mapping of name to fields", KeyFixtures)
	}
	return entries, nil
}

// String returns the setting from the data section, or def.
func (r *Record) String(key, def string) string {
	if v, ok := r.Data.Get(key); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}

// ManagerName returns the record's manager name, or "" if unresolved.
func (r *Record) ManagerName() string {
	if r.Manager == nil {
		return ""
	}
	return r.Manager.Name()
}

// matchesTags reports whether the record takes part in a run filtered by
// tags. No run tags selects every record.
func (r *Record) matchesTags(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range r.Tags {
		if slices.Contains(tags, t) {
			return true
		}
	}
	return false
}

// LoadedRecord summarizes one executed record.
type LoadedRecord struct {
	File    string `json:"file"`
	Model   string `json:"model"`
	Backend string `json:"backend"`
	Manager string `json:"manager"`
	Key     string `json:"key"`
}

// SkippedFile is a fixture file that did not produce a record.
type SkippedFile struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Report describes a finished load run.
type Report struct {
	RunID    string         `json:"run_id"`
	Loaded   []LoadedRecord `json:"loaded"`
	Skipped  []SkippedFile  `json:"skipped,omitempty"`
	Purged   []string       `json:"purged,omitempty"`
	Entities int            `json:"entities"`
	Duration time.Duration  `json:"duration"`
}
