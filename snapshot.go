// FILE: lixenwraith/chanlog/snapshot.go
package chanlog

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
)

// ErrSnapshotSealed is returned by setters of a snapshot file that has been saved
var ErrSnapshotSealed = errors.New("chanlog: snapshot file is sealed")

// snapshotSettings are the defaults a manager stamps onto each new pending file
type snapshotSettings struct {
	directory string
	name      string
	zip       bool
}

// SnapshotFile is one rotation unit of a channel's history. It starts Pending and
// becomes Sealed after the first successful Save, at which point its artifacts are
// read-only and its settings frozen.
type SnapshotFile struct {
	id    uuid.UUID
	owner *Logger

	mu        sync.Mutex // guards settings below, held for the whole of Save
	name      string     // desired base name, may contain placeholders
	directory string
	zip       bool
	preset    string // content set before saving, replaces history when non-empty
	filters   *FilterSet

	sealed   atomic.Bool
	resolved string // base name with placeholders and collision suffix resolved
	path     string // primary artifact, .zip when bundled
	logPath  string // .log artifact, the zip's data source when bundled
	content  string // bytes written

	onSeal func(*SnapshotFile)
}

func newSnapshotFile(owner *Logger, s snapshotSettings, onSeal func(*SnapshotFile)) *SnapshotFile {
	return &SnapshotFile{
		id:        uuid.New(),
		owner:     owner,
		name:      s.name,
		directory: s.directory,
		zip:       s.zip,
		filters:   NewFilterSet(),
		onSeal:    onSeal,
	}
}

// ID returns the file's unique identity
func (f *SnapshotFile) ID() uuid.UUID { return f.id }

// Logger returns the owning channel
func (f *SnapshotFile) Logger() *Logger { return f.owner }

// Sealed reports whether the file has been saved
func (f *SnapshotFile) Sealed() bool { return f.sealed.Load() }

// Filters returns the file's own filter set, applied on top of the channel's.
// The set is frozen once the file seals.
func (f *SnapshotFile) Filters() *FilterSet { return f.filters }

// Name returns the desired base name
func (f *SnapshotFile) Name() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.name
}

// Directory returns the target directory
func (f *SnapshotFile) Directory() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.directory
}

// Zip reports whether the file is bundled into a zip archive
func (f *SnapshotFile) Zip() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.zip
}

// SetName sets the desired base name, placeholders are expanded at save time
func (f *SnapshotFile) SetName(name string) error {
	return f.set(func() { f.name = name })
}

// SetDirectory sets the target directory
func (f *SnapshotFile) SetDirectory(dir string) error {
	return f.set(func() { f.directory = dir })
}

// SetZip toggles zip bundling
func (f *SnapshotFile) SetZip(enabled bool) error {
	return f.set(func() { f.zip = enabled })
}

// SetContent presets the content to write instead of the channel history
func (f *SnapshotFile) SetContent(content string) error {
	return f.set(func() { f.preset = content })
}

// AddFilter adds a file-level filter
func (f *SnapshotFile) AddFilter(filter Filter) (FilterID, error) {
	var id FilterID
	err := f.set(func() { id = f.filters.Add(filter) })
	return id, err
}

// RemoveFilter removes a file-level filter
func (f *SnapshotFile) RemoveFilter(id FilterID) (bool, error) {
	var ok bool
	err := f.set(func() { ok = f.filters.Remove(id) })
	return ok, err
}

func (f *SnapshotFile) set(apply func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sealed.Load() {
		return ErrSnapshotSealed
	}
	apply()
	return nil
}

// ResolvedName returns the base name actually used on disk, empty until sealed
func (f *SnapshotFile) ResolvedName() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// Path returns the primary artifact path, empty until sealed
func (f *SnapshotFile) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path
}

// LogPath returns the plain .log artifact path, empty until sealed
func (f *SnapshotFile) LogPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logPath
}

// Content returns the written content once sealed, the preset content before
func (f *SnapshotFile) Content() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sealed.Load() {
		return f.content
	}
	return f.preset
}

// Save writes the file and seals it. Saves of one file are serialized and a sealed
// file is never written again. On failure an ERROR is logged on the owning channel,
// the file stays Pending and false is returned; partial artifacts are left in place.
func (f *SnapshotFile) Save() bool {
	f.mu.Lock()
	if f.sealed.Load() {
		f.mu.Unlock()
		return false
	}
	err := f.save()
	name := f.name
	f.mu.Unlock()

	if err != nil {
		f.owner.LogLine(LevelError, "Failed to save log file '"+name+"'"+errorDetail(f.owner.Debug(), err))
		return false
	}

	if f.onSeal != nil {
		f.onSeal(f)
	}
	return true
}

// save runs with f.mu held
func (f *SnapshotFile) save() error {
	base := f.owner.Options().ExpandName(f.name, f.owner.now())
	if base == "" {
		return fmtErrorf("snapshot file name resolves to empty")
	}
	if strings.ContainsAny(base, `/\`) {
		return fmtErrorf("snapshot file name '%s' resolves to '%s', which contains a path separator", f.name, base)
	}

	if err := os.MkdirAll(f.directory, snapshotDirMode); err != nil {
		return fmtErrorf("failed to create snapshot directory '%s': %w", f.directory, err)
	}

	ext := logExtension
	if f.zip {
		ext = zipExtension
	}
	resolved, err := uniqueName(f.directory, base, ext, f.zip)
	if err != nil {
		return err
	}

	content := f.preset
	if content == "" {
		content = f.collect()
	}

	logPath := filepath.Join(f.directory, resolved+logExtension)
	if err := writeNewFile(logPath, content); err != nil {
		return err
	}

	path := logPath
	if f.zip {
		path = filepath.Join(f.directory, resolved+zipExtension)
		if err := bundle(path, logPath); err != nil {
			return err
		}
	}

	// Seal artifacts
	if err := os.Chmod(logPath, sealedFileMode); err != nil {
		return fmtErrorf("failed to seal '%s': %w", logPath, err)
	}
	if path != logPath {
		if err := os.Chmod(path, sealedFileMode); err != nil {
			return fmtErrorf("failed to seal '%s': %w", path, err)
		}
	}

	f.resolved = resolved
	f.path = path
	f.logPath = logPath
	f.content = content
	f.filters.freeze()
	f.sealed.Store(true)
	return nil
}

// collect renders the history records accepted by the file's filters
func (f *SnapshotFile) collect() string {
	filters := f.filters.snapshot()

	var sb strings.Builder
	for _, r := range f.owner.History().Records() {
		if !r.accepts(filters) {
			continue
		}
		sb.WriteString(r.line)
		sb.WriteString(lineSeparator)
	}
	return sb.String()
}

// writeNewFile creates path exclusively and writes content
func writeNewFile(path, content string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, snapshotFileMode)
	if err != nil {
		return fmtErrorf("failed to create snapshot file '%s': %w", path, err)
	}

	if _, err := io.WriteString(file, content); err != nil {
		_ = file.Close()
		return fmtErrorf("failed to write snapshot file '%s': %w", path, err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmtErrorf("failed to sync snapshot file '%s': %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmtErrorf("failed to close snapshot file '%s': %w", path, err)
	}
	return nil
}

// bundle writes a zip at zipPath holding srcPath as its single entry
func bundle(zipPath, srcPath string) (err error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmtErrorf("failed to open '%s' for bundling: %w", srcPath, err)
	}
	defer src.Close()

	out, err := os.OpenFile(zipPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, snapshotFileMode)
	if err != nil {
		return fmtErrorf("failed to create zip file '%s': %w", zipPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmtErrorf("failed to close zip file '%s': %w", zipPath, cerr)
		}
	}()

	zw := zip.NewWriter(out)
	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:   filepath.Base(srcPath),
		Method: zip.Deflate,
	})
	if err != nil {
		return fmtErrorf("failed to create zip entry in '%s': %w", zipPath, err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		return fmtErrorf("failed to write zip entry in '%s': %w", zipPath, err)
	}
	if err := zw.Close(); err != nil {
		return fmtErrorf("failed to finish zip file '%s': %w", zipPath, err)
	}
	return nil
}
