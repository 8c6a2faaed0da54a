// FILE: lixenwraith/chanlog/registry.go
package chanlog

import (
	"sync"
	"sync/atomic"
	"time"
)

// Registry maps channel identities to channels. The first channel created for an
// identity is kept for the registry's lifetime and later requests return it.
type Registry struct {
	currentConfig atomic.Value // stores *Config

	mu       sync.RWMutex
	channels map[string]*Logger
	order    []string
	files    map[string]*FileSink // shared normal sinks keyed by path

	shutdownCalled atomic.Bool
}

// Option adjusts the settings of a channel being created
type Option func(*channelSettings)

// channelSettings are resolved from the registry config and options before creation
type channelSettings struct {
	out, err Sink
	options  RenderOptions
	snapshot snapshotSettings
	clock    func() time.Time
	debug    bool
}

// WithSinks sets the normal and error sinks, nil keeps the configured default
func WithSinks(out, err Sink) Option {
	return func(s *channelSettings) {
		if out != nil {
			s.out = out
		}
		if err != nil {
			s.err = err
		}
	}
}

// WithRenderOptions replaces the configured render options, an empty sanitization
// policy means raw
func WithRenderOptions(opts RenderOptions) Option {
	return func(s *channelSettings) {
		s.options = opts
	}
}

// WithClock sets the time source used for rendering and file names
func WithClock(now func() time.Time) Option {
	return func(s *channelSettings) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithSnapshotDefaults sets the directory, base name and zip flag of the channel's snapshot files
func WithSnapshotDefaults(directory, name string, zip bool) Option {
	return func(s *channelSettings) {
		s.snapshot = snapshotSettings{directory: directory, name: name, zip: zip}
	}
}

// NewRegistry creates an empty registry. A nil cfg uses DefaultConfig.
func NewRegistry(cfg *Config) (*Registry, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, fmtErrorf("invalid configuration: %w", err)
	}

	r := &Registry{
		channels: make(map[string]*Logger),
		files:    make(map[string]*FileSink),
	}
	r.currentConfig.Store(cfg.Clone())
	return r, nil
}

// GetOrCreate returns the channel registered under id, creating and registering
// it when absent. Options only apply on creation.
func (r *Registry) GetOrCreate(id string, opts ...Option) (*Logger, error) {
	if id == "" {
		return nil, fmtErrorf("channel identity cannot be empty")
	}

	if l, ok := r.Lookup(id); ok {
		return l, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.channels[id]; ok {
		return l, nil
	}
	if r.shutdownCalled.Load() {
		return nil, fmtErrorf("registry is shut down, cannot create channel '%s'", id)
	}

	cfg := r.getConfig()
	s := &channelSettings{
		options:  cfg.RenderOptions(),
		snapshot: cfg.snapshotSettings(),
		clock:    time.Now,
		debug:    cfg.Debug,
	}
	if cfg.OutputFile != "" {
		s.out = sharedSink{r.fileSink(cfg.OutputFile, cfg.OutputMaxSizeMB)}
	}
	for _, opt := range opts {
		opt(s)
	}
	s.options = s.options.normalized()
	if err := s.options.validate(); err != nil {
		return nil, fmtErrorf("invalid render options for channel '%s': %w", id, err)
	}

	l := newLogger(id, s)

	if cfg.AutosaveIntervalS > 0 {
		interval := time.Duration(cfg.AutosaveIntervalS) * time.Second
		if err := l.snapshots.StartAutoSave(interval); err != nil {
			return nil, fmtErrorf("failed to start autosave for channel '%s': %w", id, err)
		}
	}

	r.channels[id] = l
	r.order = append(r.order, id)
	return l, nil
}

// fileSink returns the shared sink for path, runs with mu held
func (r *Registry) fileSink(path string, maxSizeMB int64) *FileSink {
	if fs, ok := r.files[path]; ok {
		return fs
	}
	fs := NewFileSink(path, maxSizeMB)
	r.files[path] = fs
	return fs
}

// Lookup returns the channel registered under id
func (r *Registry) Lookup(id string) (*Logger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.channels[id]
	return l, ok
}

// Contains reports whether id is registered
func (r *Registry) Contains(id string) bool {
	_, ok := r.Lookup(id)
	return ok
}

// Identities returns the registered identities in creation order
func (r *Registry) Identities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered channels
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// ApplyConfig validates and installs cfg. Channels created afterwards use it, the
// debug flag is also pushed to existing channels.
func (r *Registry) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}
	if err := cfg.validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.currentConfig.Store(cfg.Clone())
	for _, l := range r.channels {
		l.SetDebug(cfg.Debug)
	}
	return nil
}

// GetConfig returns a copy of current configuration
func (r *Registry) GetConfig() *Config {
	return r.getConfig().Clone()
}

func (r *Registry) getConfig() *Config {
	return r.currentConfig.Load().(*Config)
}

// Shutdown stops every autosaver, flushes every channel and closes shared file sinks.
// timeout bounds the wait for each autosaver, default 2s.
func (r *Registry) Shutdown(timeout ...time.Duration) error {
	if !r.shutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	effectiveTimeout := 2 * time.Second
	if len(timeout) > 0 {
		effectiveTimeout = timeout[0]
	}

	r.mu.RLock()
	channels := make([]*Logger, 0, len(r.order))
	for _, id := range r.order {
		channels = append(channels, r.channels[id])
	}
	files := make([]*FileSink, 0, len(r.files))
	for _, fs := range r.files {
		files = append(files, fs)
	}
	r.mu.RUnlock()

	var finalErr error
	for _, l := range channels {
		if err := l.snapshots.StopAutoSave(effectiveTimeout); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
		if err := l.Flush(); err != nil {
			internalLog(l.Debug(), "warning - %v\n", err)
			finalErr = combineErrors(finalErr, err)
		}
	}

	for _, fs := range files {
		if err := fs.Close(); err != nil {
			finalErr = combineErrors(finalErr, fmtErrorf("failed to close output file '%s': %w", fs.Path(), err))
		}
	}

	return finalErr
}
