// FILE: lixenwraith/chanlog/sink.go
package chanlog

import (
	"io"
	"os"
	"reflect"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Sink is a byte destination for rendered lines
type Sink interface {
	io.Writer
	Flush() error
	Close() error
}

// writerSink adapts an arbitrary writer
type writerSink struct {
	w io.Writer
}

// WriterSink wraps w as a Sink. Flush calls Sync or Flush when w provides one,
// Close calls w.Close when w is an io.Closer.
func WriterSink(w io.Writer) Sink {
	if s, ok := w.(Sink); ok {
		return s
	}
	return &writerSink{w: w}
}

func (s *writerSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *writerSink) Flush() error {
	switch w := s.w.(type) {
	case interface{ Sync() error }:
		return w.Sync()
	case interface{ Flush() error }:
		return w.Flush()
	}
	return nil
}

func (s *writerSink) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// streamSink writes to a process stream and never closes it
type streamSink struct {
	f *os.File
}

// StdoutSink returns the default normal sink
func StdoutSink() Sink { return &streamSink{f: os.Stdout} }

// StderrSink returns the default error sink
func StderrSink() Sink { return &streamSink{f: os.Stderr} }

func (s *streamSink) Write(p []byte) (int, error) { return s.f.Write(p) }

// Flush is a no-op, terminals and pipes reject fsync
func (s *streamSink) Flush() error { return nil }

func (s *streamSink) Close() error { return nil }

// FileSink is a size-rolled file destination
type FileSink struct {
	lj *lumberjack.Logger
}

// NewFileSink opens a rolling file at path. maxSizeMB <= 0 uses lumberjack's default of 100MB.
// Rolled files are kept, there is no age or count retention.
func NewFileSink(path string, maxSizeMB int64) *FileSink {
	return &FileSink{
		lj: &lumberjack.Logger{
			Filename: path,
			MaxSize:  int(maxSizeMB),
		},
	}
}

// Path returns the active file path
func (s *FileSink) Path() string { return s.lj.Filename }

func (s *FileSink) Write(p []byte) (int, error) { return s.lj.Write(p) }

// Flush is a no-op, lumberjack does not buffer
func (s *FileSink) Flush() error { return nil }

// Close closes the active file
func (s *FileSink) Close() error { return s.lj.Close() }

// Rotate closes the active file, renames it with a timestamp and opens a fresh one
func (s *FileSink) Rotate() error { return s.lj.Rotate() }

// sharedSink hides Close from channels so a sink owned by the registry
// survives individual channels replacing it
type sharedSink struct {
	Sink
}

func (s sharedSink) Close() error { return nil }

// sameSink compares sinks without panicking on uncomparable dynamic types
func sameSink(a, b Sink) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
