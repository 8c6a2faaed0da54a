// FILE: lixenwraith/chanlog/record.go
package chanlog

import (
	"sync"
)

// Record is one successfully written line and its metadata. Records are never mutated.
type Record struct {
	level    Level
	template string // Template at time of render, placeholders unexpanded
	line     string // Rendered line as written, without terminator
	message  string // Message as substituted into the line
	owner    *Logger
}

func newRecord(owner *Logger, level Level, template, line, message string) *Record {
	return &Record{
		level:    level,
		template: template,
		line:     line,
		message:  message,
		owner:    owner,
	}
}

// Level returns the record level
func (r *Record) Level() Level { return r.level }

// Template returns the template active when the record was rendered
func (r *Record) Template() string { return r.template }

// Line returns the rendered line
func (r *Record) Line() string { return r.line }

// Message returns the message as it was substituted into the line. It equals the
// caller's input unless message expansion or sanitization changed it.
func (r *Record) Message() string { return r.message }

// Logger returns the owning channel
func (r *Record) Logger() *Logger { return r.owner }

// String returns the rendered line
func (r *Record) String() string { return r.line }

// accepts runs the record through filters
func (r *Record) accepts(filters []Filter) bool {
	return acceptAll(filters, r.template, r.level, r.message, r.line)
}

// sameContent compares everything except the owner
func (r *Record) sameContent(o *Record) bool {
	return r.level == o.level && r.template == o.template && r.line == o.line && r.message == o.message
}

// RecordHistory is the ordered, append-only record sequence of one channel.
// Removal exists for administrative trimming only.
type RecordHistory struct {
	mu      sync.RWMutex
	owner   *Logger
	records []*Record
}

func newRecordHistory(owner *Logger) *RecordHistory {
	return &RecordHistory{owner: owner}
}

// Logger returns the owning channel
func (h *RecordHistory) Logger() *Logger {
	return h.owner
}

func (h *RecordHistory) add(r *Record) {
	h.mu.Lock()
	h.records = append(h.records, r)
	h.mu.Unlock()
}

// Len returns the number of records
func (h *RecordHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// Get returns the record at index
func (h *RecordHistory) Get(index int) (*Record, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if index < 0 || index >= len(h.records) {
		return nil, false
	}
	return h.records[index], true
}

// Records returns a copy of the sequence in insertion order
func (h *RecordHistory) Records() []*Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*Record, len(h.records))
	copy(out, h.records)
	return out
}

// ByMessage returns every record whose message equals message exactly
func (h *RecordHistory) ByMessage(message string) []*Record {
	var out []*Record
	for _, r := range h.Records() {
		if r.message == message {
			out = append(out, r)
		}
	}
	return out
}

// Accepted returns every record f accepts
func (h *RecordHistory) Accepted(f Filter) []*Record {
	if f == nil {
		return h.Records()
	}

	var out []*Record
	filters := []Filter{f}
	for _, r := range h.Records() {
		if r.accepts(filters) {
			out = append(out, r)
		}
	}
	return out
}

// RemoveAt deletes and returns the record at index
func (h *RecordHistory) RemoveAt(index int) (*Record, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if index < 0 || index >= len(h.records) {
		return nil, false
	}
	r := h.records[index]
	h.records = append(h.records[:index], h.records[index+1:]...)
	return r, true
}

// Remove deletes the first occurrence of r
func (h *RecordHistory) Remove(r *Record) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, rec := range h.records {
		if rec == r {
			h.records = append(h.records[:i], h.records[i+1:]...)
			return true
		}
	}
	return false
}

// Equal compares record content in order, ignoring owners
func (h *RecordHistory) Equal(other *RecordHistory) bool {
	if h == other {
		return true
	}
	if other == nil {
		return false
	}

	a, b := h.Records(), other.Records()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].sameContent(b[i]) {
			return false
		}
	}
	return true
}
