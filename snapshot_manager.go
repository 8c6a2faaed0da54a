// FILE: lixenwraith/chanlog/snapshot_manager.go
package chanlog

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// SnapshotManager holds one channel's pending snapshot file and the archive of
// sealed ones. NextFile is the only way snapshot files are created.
type SnapshotManager struct {
	mu       sync.Mutex
	owner    *Logger
	defaults snapshotSettings
	next     *SnapshotFile
	sealed   []*SnapshotFile

	autosave autoSaveState
}

func newSnapshotManager(owner *Logger, defaults snapshotSettings) *SnapshotManager {
	m := &SnapshotManager{
		owner:    owner,
		defaults: defaults,
	}
	m.next = m.newPending()
	return m
}

func (m *SnapshotManager) newPending() *SnapshotFile {
	return newSnapshotFile(m.owner, m.defaults, m.rotate)
}

// rotate archives f and mints a fresh pending file if f is still the current one
func (m *SnapshotManager) rotate(f *SnapshotFile) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.next != f {
		return
	}
	m.sealed = append(m.sealed, f)
	m.next = m.newPending()
}

// NextFile returns the pending file, creating a fresh one when the current file
// has been sealed. Repeated calls without a save return the same instance.
func (m *SnapshotManager) NextFile() *SnapshotFile {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.next == nil {
		m.next = m.newPending()
	} else if m.next.Sealed() {
		m.sealed = append(m.sealed, m.next)
		m.next = m.newPending()
	}
	return m.next
}

// Logger returns the owning channel
func (m *SnapshotManager) Logger() *Logger {
	return m.owner
}

// Len returns the number of sealed files
func (m *SnapshotManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sealed)
}

// Get returns the sealed file at index, 0 is the oldest
func (m *SnapshotManager) Get(index int) (*SnapshotFile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.sealed) {
		return nil, false
	}
	return m.sealed[index], true
}

// Files returns the sealed files in save order
func (m *SnapshotManager) Files() []*SnapshotFile {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*SnapshotFile, len(m.sealed))
	copy(out, m.sealed)
	return out
}

// FilesByName returns the sealed files whose desired base name equals name
func (m *SnapshotManager) FilesByName(name string, ignoreCase bool) []*SnapshotFile {
	var out []*SnapshotFile
	for _, f := range m.Files() {
		n := f.Name()
		if n == name || (ignoreCase && strings.EqualFold(n, name)) {
			out = append(out, f)
		}
	}
	return out
}

// FilesWithFilter returns the sealed files whose filter set holds id
func (m *SnapshotManager) FilesWithFilter(id FilterID) []*SnapshotFile {
	var out []*SnapshotFile
	for _, f := range m.Files() {
		if f.Filters().Contains(id) {
			out = append(out, f)
		}
	}
	return out
}

// Defaults returns the directory, base name and zip flag stamped on new files
func (m *SnapshotManager) Defaults() (directory, name string, zip bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.defaults.directory, m.defaults.name, m.defaults.zip
}

// SetDefaults changes the settings of files minted from now on
func (m *SnapshotManager) SetDefaults(directory, name string, zip bool) {
	m.mu.Lock()
	m.defaults = snapshotSettings{directory: directory, name: name, zip: zip}
	m.mu.Unlock()
}

// uniqueName picks the on-disk base name for a save. Existing artifacts named
// base.ext or base-N.ext are counted and the count becomes the suffix; if that
// name is taken the suffix advances until free. Bundled saves also need the
// sibling .log to be free.
func uniqueName(dir, base, ext string, bundled bool) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmtErrorf("failed to read snapshot directory '%s': %w", dir, err)
	}

	pattern, err := regexp.Compile("^" + regexp.QuoteMeta(base) + `(-\d+)?` + regexp.QuoteMeta(ext) + "$")
	if err != nil {
		return "", fmtErrorf("failed to build collision pattern for '%s': %w", base, err)
	}

	taken := make(map[string]struct{}, len(entries))
	count := 0
	for _, entry := range entries {
		taken[entry.Name()] = struct{}{}
		if !entry.IsDir() && pattern.MatchString(entry.Name()) {
			count++
		}
	}

	free := func(name string) bool {
		if _, ok := taken[name+ext]; ok {
			return false
		}
		if bundled {
			if _, ok := taken[name+logExtension]; ok {
				return false
			}
		}
		return true
	}

	for n := count; ; n++ {
		candidate := base
		if n > 0 {
			candidate = base + "-" + strconv.Itoa(n)
		}
		if free(candidate) {
			return candidate, nil
		}
	}
}
