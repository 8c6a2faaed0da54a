// FILE: lixenwraith/chanlog/filter.go
package chanlog

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Filter decides whether a line may be written or persisted.
// format is the expanded template with %prompt still in place, message is the
// payload as substituted into the line and line is the fully rendered result.
type Filter interface {
	Accept(format string, level Level, message, line string) bool
}

// FilterFunc adapts a function to Filter
type FilterFunc func(format string, level Level, message, line string) bool

// Accept calls f
func (f FilterFunc) Accept(format string, level Level, message, line string) bool {
	return f(format, level, message, line)
}

// FilterID identifies a filter within the set it was added to
type FilterID uint64

// filterSeq is process-wide so ids are never reused across sets
var filterSeq atomic.Uint64

// FilterSet is an unordered collection of filters, safe for concurrent
// add, remove and evaluation. An item passes only if every member accepts it.
// A frozen set rejects every mutation.
type FilterSet struct {
	mu      sync.RWMutex
	filters map[FilterID]Filter
	frozen  bool
}

// NewFilterSet creates an empty set
func NewFilterSet() *FilterSet {
	return &FilterSet{filters: make(map[FilterID]Filter)}
}

// Add inserts f and returns its id. Nil filters and frozen sets yield 0.
func (s *FilterSet) Add(f Filter) FilterID {
	if f == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen {
		return 0
	}
	id := FilterID(filterSeq.Add(1))
	s.filters[id] = f
	return id
}

// AddFunc is Add for a plain function
func (s *FilterSet) AddFunc(f func(format string, level Level, message, line string) bool) FilterID {
	if f == nil {
		return 0
	}
	return s.Add(FilterFunc(f))
}

// Remove deletes the filter with id, reporting whether it was present
func (s *FilterSet) Remove(id FilterID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return false
	}
	if _, ok := s.filters[id]; !ok {
		return false
	}
	delete(s.filters, id)
	return true
}

// Contains reports whether id is in the set
func (s *FilterSet) Contains(id FilterID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.filters[id]
	return ok
}

// Len returns the number of filters
func (s *FilterSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.filters)
}

// Clear removes every filter
func (s *FilterSet) Clear() {
	s.mu.Lock()
	if !s.frozen {
		s.filters = make(map[FilterID]Filter)
	}
	s.mu.Unlock()
}

// Frozen reports whether the set rejects mutation
func (s *FilterSet) Frozen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen
}

// freeze makes the set read-only, used when a snapshot file seals
func (s *FilterSet) freeze() {
	s.mu.Lock()
	s.frozen = true
	s.mu.Unlock()
}

// IDs returns the ids currently in the set, ascending
func (s *FilterSet) IDs() []FilterID {
	s.mu.RLock()
	ids := make([]FilterID, 0, len(s.filters))
	for id := range s.filters {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// snapshot copies the members under the lock so one evaluation sees one
// consistent set while other goroutines keep mutating it
func (s *FilterSet) snapshot() []Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.filters) == 0 {
		return nil
	}
	out := make([]Filter, 0, len(s.filters))
	for _, f := range s.filters {
		out = append(out, f)
	}
	return out
}

// Accept reports whether every filter accepts the item
func (s *FilterSet) Accept(format string, level Level, message, line string) bool {
	return acceptAll(s.snapshot(), format, level, message, line)
}

func acceptAll(filters []Filter, format string, level Level, message, line string) bool {
	for _, f := range filters {
		if !f.Accept(format, level, message, line) {
			return false
		}
	}
	return true
}

// Common filters

// LevelFilter accepts only the listed levels
func LevelFilter(levels ...Level) Filter {
	allowed := make(map[Level]struct{}, len(levels))
	for _, lv := range levels {
		allowed[lv] = struct{}{}
	}
	return FilterFunc(func(_ string, level Level, _, _ string) bool {
		_, ok := allowed[level]
		return ok
	})
}

// ExcludeLevelFilter rejects the listed levels
func ExcludeLevelFilter(levels ...Level) Filter {
	include := LevelFilter(levels...)
	return FilterFunc(func(format string, level Level, message, line string) bool {
		return !include.Accept(format, level, message, line)
	})
}
