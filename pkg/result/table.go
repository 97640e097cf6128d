package result

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Entry is the cycle cost of one instruction trace.
type Entry struct {
	Name   string  `json:"name"`
	Steps  int     `json:"steps"`
	Taken  int     `json:"taken"` // Steps whose condition was met
	Cycles uint64  `json:"cycles"`
	Frames float64 `json:"frames"` // Cycles expressed in video frames
}

// Table stores costed traces. Safe for concurrent use.
type Table struct {
	mu      sync.Mutex
	entries []Entry
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts an entry into the table.
func (t *Table) Add(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
}

// Entries returns a copy of all entries, sorted by cycles (descending) then name.
func (t *Table) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	result := make([]Entry, len(t.entries))
	copy(result, t.entries)
	sort.Slice(result, func(i, j int) bool {
		if result[i].Cycles != result[j].Cycles {
			return result[i].Cycles > result[j].Cycles
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// Len returns the number of entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Total returns the sum of cycles over all entries.
func (t *Table) Total() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var n uint64
	for i := range t.entries {
		n += t.entries[i].Cycles
	}
	return n
}

// WriteJSON writes entries as an indented JSON array.
func WriteJSON(w io.Writer, entries []Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("result: %w", err)
	}
	return nil
}

// ReadJSON reads entries written by WriteJSON.
func ReadJSON(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	return entries, nil
}
