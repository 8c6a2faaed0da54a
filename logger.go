// FILE: lixenwraith/chanlog/logger.go
package chanlog

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/chanlog/sanitizer"
)

// Logger is a named channel: it renders leveled messages, writes them to a
// normal or error sink, keeps the written records and owns the snapshot files
// that persist them.
type Logger struct {
	id string

	currentOptions atomic.Value // stores RenderOptions
	debug          atomic.Bool

	sinkMu sync.Mutex // serializes sink writes and replacement
	out    Sink
	err    Sink

	filters   *FilterSet
	history   *RecordHistory
	snapshots *SnapshotManager

	now func() time.Time
}

// newLogger builds a channel from resolved settings, registration is the Registry's job
func newLogger(id string, s *channelSettings) *Logger {
	l := &Logger{
		id:      id,
		out:     s.out,
		err:     s.err,
		filters: NewFilterSet(),
		now:     s.clock,
	}
	if l.out == nil {
		l.out = StdoutSink()
	}
	if l.err == nil {
		l.err = StderrSink()
	}
	if l.now == nil {
		l.now = time.Now
	}

	l.currentOptions.Store(s.options)
	l.debug.Store(s.debug)
	l.history = newRecordHistory(l)
	l.snapshots = newSnapshotManager(l, s.snapshot)

	return l
}

// Identity returns the channel name
func (l *Logger) Identity() string {
	return l.id
}

// Options returns a copy of the render options
func (l *Logger) Options() RenderOptions {
	return l.currentOptions.Load().(RenderOptions)
}

// SetOptions replaces the render options. An empty sanitization policy means raw.
func (l *Logger) SetOptions(opts RenderOptions) error {
	opts = opts.normalized()
	if err := opts.validate(); err != nil {
		return err
	}
	l.currentOptions.Store(opts)
	return nil
}

// Filters returns the channel filter set
func (l *Logger) Filters() *FilterSet {
	return l.filters
}

// History returns the record history
func (l *Logger) History() *RecordHistory {
	return l.history
}

// Snapshots returns the snapshot manager
func (l *Logger) Snapshots() *SnapshotManager {
	return l.snapshots
}

// Debug reports whether diagnostics include error detail
func (l *Logger) Debug() bool {
	return l.debug.Load()
}

// SetDebug toggles error detail in diagnostics
func (l *Logger) SetDebug(enabled bool) {
	l.debug.Store(enabled)
}

// Log renders message at level and writes it without a line terminator.
// It returns true only when the sink chosen by level accepted the write.
func (l *Logger) Log(level Level, message string) bool {
	return l.log(level, message, false)
}

// LogLine is Log followed by a line terminator
func (l *Logger) LogLine(level Level, message string) bool {
	return l.log(level, message, true)
}

// LogValues joins args into a single message and logs it as a line.
// Composite values are dumped in full.
func (l *Logger) LogValues(level Level, args ...any) bool {
	return l.LogLine(level, sanitizer.Serialize(args...))
}

// Error logs a line at ERROR
func (l *Logger) Error(message string) bool { return l.LogLine(LevelError, message) }

// Warning logs a line at WARNING
func (l *Logger) Warning(message string) bool { return l.LogLine(LevelWarning, message) }

// Info logs a line at INFO
func (l *Logger) Info(message string) bool { return l.LogLine(LevelInfo, message) }

// Client logs a line at CLIENT
func (l *Logger) Client(message string) bool { return l.LogLine(LevelClient, message) }

// Server logs a line at SERVER
func (l *Logger) Server(message string) bool { return l.LogLine(LevelServer, message) }

func (l *Logger) log(level Level, message string, terminate bool) bool {
	opts := l.Options()
	r := opts.renderLine(level, message, l.now())

	if !l.filters.Accept(r.format, level, r.message, r.line) {
		return false
	}

	return l.dispatch(level, opts.Template, r, message, terminate)
}

// dispatch writes the rendered line to the sink selected by level. On failure a
// diagnostic goes to the other sink, then to stdout. The record of whatever reached
// a sink is appended before sinkMu is released, so history order is sink order.
// It reports whether the intended sink succeeded.
func (l *Logger) dispatch(level Level, template string, r rendered, message string, terminate bool) bool {
	term := ""
	if terminate {
		term = lineSeparator
	}

	l.sinkMu.Lock()
	defer l.sinkMu.Unlock()

	primary, fallback := l.out, l.err
	if level == LevelError {
		primary, fallback = l.err, l.out
	}

	err := writeSink(primary, r.line+term)
	if err == nil {
		l.history.add(newRecord(l, level, template, r.line, r.message))
		return true
	}

	diag := fallbackNotice + message + errorDetail(l.Debug(), err)
	if writeSink(fallback, diag+term) == nil {
		l.history.add(newRecord(l, level, template, diag, r.message))
		return false
	}

	// Last resort, no record is kept for it
	_, _ = os.Stdout.WriteString(diag + lineSeparator)
	return false
}

func writeSink(s Sink, data string) error {
	if _, err := s.Write([]byte(data)); err != nil {
		return err
	}
	return s.Flush()
}

// Output returns the normal sink
func (l *Logger) Output() Sink {
	l.sinkMu.Lock()
	defer l.sinkMu.Unlock()
	return l.out
}

// ErrorOutput returns the error sink
func (l *Logger) ErrorOutput() Sink {
	l.sinkMu.Lock()
	defer l.sinkMu.Unlock()
	return l.err
}

// SetOutput closes the current normal sink and installs s, nil restores stdout.
// A close failure is logged as a WARNING on this channel.
func (l *Logger) SetOutput(s Sink) {
	if s == nil {
		s = StdoutSink()
	}
	l.replaceSink(&l.out, s, "output")
}

// SetErrorOutput closes the current error sink and installs s, nil restores stderr
func (l *Logger) SetErrorOutput(s Sink) {
	if s == nil {
		s = StderrSink()
	}
	l.replaceSink(&l.err, s, "error output")
}

func (l *Logger) replaceSink(slot *Sink, s Sink, which string) {
	l.sinkMu.Lock()
	old := *slot
	var closeErr error
	if old != nil && !sameSink(old, s) {
		closeErr = old.Close()
	}
	*slot = s
	l.sinkMu.Unlock()

	if closeErr != nil {
		l.LogLine(LevelWarning, "Failed to close the previous "+which+" stream"+errorDetail(l.Debug(), closeErr))
	}
}

// Flush flushes both sinks
func (l *Logger) Flush() error {
	l.sinkMu.Lock()
	defer l.sinkMu.Unlock()

	var err error
	if e := l.out.Flush(); e != nil {
		err = combineErrors(err, fmtErrorf("failed to flush output of channel '%s': %w", l.id, e))
	}
	if e := l.err.Flush(); e != nil {
		err = combineErrors(err, fmtErrorf("failed to flush error output of channel '%s': %w", l.id, e))
	}
	return err
}

// Equal reports whether both channels have equal render options and record
// histories. The identity is not compared.
func (l *Logger) Equal(other *Logger) bool {
	if l == other {
		return true
	}
	if other == nil {
		return false
	}
	return l.Options().Equal(other.Options()) && l.history.Equal(other.history)
}

// String returns the identity
func (l *Logger) String() string {
	return l.id
}
