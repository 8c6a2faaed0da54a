// FILE: lixenwraith/chanlog/compat/gnet.go
package compat

import (
	"fmt"
	"os"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/chanlog"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter exposes a channel as a gnet logging.Logger
type GnetAdapter struct {
	channel      *chanlog.Logger
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(channel *chanlog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		channel: channel,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Channel returns the wrapped channel
func (a *GnetAdapter) Channel() *chanlog.Logger {
	return a.channel
}

// Debugf logs at SERVER, the channel has no debug level
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.channel.LogLine(chanlog.LevelServer, gnetMessage(format, args...))
}

// Infof logs at INFO
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.channel.LogLine(chanlog.LevelInfo, gnetMessage(format, args...))
}

// Warnf logs at WARNING
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.channel.LogLine(chanlog.LevelWarning, gnetMessage(format, args...))
}

// Errorf logs at ERROR
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.channel.LogLine(chanlog.LevelError, gnetMessage(format, args...))
}

// Fatalf logs at ERROR, flushes and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := gnetMessage(format, args...)
	a.channel.LogLine(chanlog.LevelError, msg+" (fatal)")

	// Ensure log is flushed before exit
	_ = a.channel.Flush()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

func gnetMessage(format string, args ...any) string {
	return "gnet: " + fmt.Sprintf(format, args...)
}
