// Package location holds the read-only location lookup table the calculators
// resolve drop rates from.
package location

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Row is one location as exported by the game data layer.
type Row struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Type         string  `json:"type"`
	Path         string  `json:"path"`
	BaseDropRate float64 `json:"baseDropRate"`
}

// Table is an immutable name-keyed set of rows.
type Table struct {
	byName map[string]Row
	sorted []Row
}

// NewTable indexes rows by exact name. Duplicate names are rejected.
func NewTable(rows []Row) (*Table, error) {
	t := &Table{byName: make(map[string]Row, len(rows))}
	for _, row := range rows {
		if _, dup := t.byName[row.Name]; dup {
			return nil, fmt.Errorf("duplicate location name %q", row.Name)
		}
		t.byName[row.Name] = row
	}
	t.sorted = sortRows(rows)
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.sorted)
}

// Lookup resolves name by exact match. A miss is a caller error and is
// reported as *UnknownError.
func (t *Table) Lookup(name string) (Row, error) {
	if t != nil {
		if row, ok := t.byName[name]; ok {
			return row, nil
		}
	}
	return Row{}, &UnknownError{Name: name, Suggestion: t.closest(name)}
}

// MustLookup is Lookup for callers that have already validated name.
func (t *Table) MustLookup(name string) Row {
	row, err := t.Lookup(name)
	if err != nil {
		panic(err)
	}
	return row
}

// Sorted returns the rows ordered by numeric ID; the slice is a copy.
func (t *Table) Sorted() []Row {
	if t == nil {
		return nil
	}
	return append([]Row(nil), t.sorted...)
}

// Names returns the location names in Sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.sorted))
	for i, row := range t.sorted {
		out[i] = row.Name
	}
	return out
}

func (t *Table) closest(name string) string {
	if t == nil || len(t.sorted) == 0 {
		return ""
	}
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, row := range t.sorted {
		dist := levenshtein.ComputeDistance(target, strings.ToLower(row.Name))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = row.Name, dist
		}
	}
	if bestDist > suggestionLimit(len(target)) {
		return ""
	}
	return best
}

func suggestionLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 10:
		return 3
	default:
		return n / 3
	}
}

// sortRows orders rows by numeric ID ascending. IDs that are not integers sort
// after all numeric ones; ties fall back to the name so the order is total.
func sortRows(rows []Row) []Row {
	out := append([]Row(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		ni, errI := strconv.Atoi(strings.TrimSpace(out[i].ID))
		nj, errJ := strconv.Atoi(strings.TrimSpace(out[j].ID))
		switch {
		case errI == nil && errJ == nil && ni != nj:
			return ni < nj
		case errI == nil && errJ != nil:
			return true
		case errI != nil && errJ == nil:
			return false
		case errI != nil && errJ != nil && out[i].ID != out[j].ID:
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// UnknownError reports a location name that is not in the table.
type UnknownError struct {
	Name       string
	Suggestion string
}

func (e *UnknownError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown location %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown location %q", e.Name)
}
