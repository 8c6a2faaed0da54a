// FILE: lixenwraith/chanlog/snapshot_test.go
package chanlog

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createSnapshotChannel creates a channel whose snapshots go to a temp dir
func createSnapshotChannel(t *testing.T, zipped bool) (*Logger, string) {
	t.Helper()
	dir := t.TempDir()
	l, _, _, _ := createTestChannel(t,
		WithRenderOptions(RenderOptions{Template: "%level %prompt"}),
		WithSnapshotDefaults(dir, "run", zipped),
	)
	return l, dir
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func readZipEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[f.Name] = string(data)
	}
	return out
}

func TestSaveWritesHistory(t *testing.T) {
	l, dir := createSnapshotChannel(t, false)

	l.Info("first")
	l.Warning("second")

	f := l.Snapshots().NextFile()
	require.True(t, f.Save())

	assert.True(t, f.Sealed())
	assert.Equal(t, "run", f.ResolvedName())
	assert.Equal(t, filepath.Join(dir, "run.log"), f.Path())
	assert.Equal(t, f.Path(), f.LogPath())

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, "INFO first\nWARNING second\n", string(data))
	assert.Equal(t, string(data), f.Content())

	info, err := os.Stat(f.Path())
	require.NoError(t, err)
	assert.Equal(t, sealedFileMode, info.Mode().Perm())
}

func TestSaveResolvesPlaceholderName(t *testing.T) {
	dir := t.TempDir()
	l, _, _, _ := createTestChannel(t, WithSnapshotDefaults(dir, DefaultFileName+"_%level", false))

	f := l.Snapshots().NextFile()
	require.True(t, f.Save())

	// No level exists for file names, the token stays literal
	assert.Equal(t, "2024-01-02_%level", f.ResolvedName())
	assert.Equal(t, DefaultFileName+"_%level", f.Name())
	assert.FileExists(t, filepath.Join(dir, "2024-01-02_%level.log"))
}

func TestSaveCreatesDirectory(t *testing.T) {
	l, _ := createSnapshotChannel(t, false)
	nested := filepath.Join(t.TempDir(), "a", "b")

	f := l.Snapshots().NextFile()
	require.NoError(t, f.SetDirectory(nested))
	require.True(t, f.Save())
	assert.FileExists(t, filepath.Join(nested, "run.log"))
}

func TestCollisionSuffixes(t *testing.T) {
	l, dir := createSnapshotChannel(t, false)

	var paths []string
	for i := 0; i < 4; i++ {
		l.Info("line")
		f := l.Snapshots().NextFile()
		require.True(t, f.Save())
		paths = append(paths, filepath.Base(f.Path()))
	}

	assert.Equal(t, []string{"run.log", "run-1.log", "run-2.log", "run-3.log"}, paths)
	assert.Len(t, dirNames(t, dir), 4)
}

func TestCollisionCountsUnrelatedNamesOut(t *testing.T) {
	l, dir := createSnapshotChannel(t, false)

	for _, name := range []string{"run.txt", "runner.log", "run-x.log", "other.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	f := l.Snapshots().NextFile()
	require.True(t, f.Save())
	assert.Equal(t, "run", f.ResolvedName())
}

func TestCollisionSkipsTakenSuffix(t *testing.T) {
	l, dir := createSnapshotChannel(t, false)

	// Two matches, but run-2 is taken, so the count is advanced
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run.log"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run-2.log"), nil, 0644))

	f := l.Snapshots().NextFile()
	require.True(t, f.Save())
	assert.Equal(t, "run-3", f.ResolvedName())
}

func TestZipBundleScenario(t *testing.T) {
	l, dir := createSnapshotChannel(t, true)

	l.Info("one")
	l.Info("two")
	first := l.Snapshots().NextFile()
	require.True(t, first.Save())

	l.Info("three")
	l.Info("four")
	second := l.Snapshots().NextFile()
	require.True(t, second.Save())

	assert.Equal(t, filepath.Join(dir, "run.zip"), first.Path())
	assert.Equal(t, filepath.Join(dir, "run-1.zip"), second.Path())

	var zips []string
	for _, name := range dirNames(t, dir) {
		if strings.HasSuffix(name, zipExtension) {
			zips = append(zips, name)
		}
	}
	assert.ElementsMatch(t, []string{"run.zip", "run-1.zip"}, zips)

	firstEntries := readZipEntries(t, first.Path())
	require.Len(t, firstEntries, 1)
	assert.Equal(t, "INFO one\nINFO two\n", firstEntries["run.log"])

	secondEntries := readZipEntries(t, second.Path())
	require.Len(t, secondEntries, 1)
	content := secondEntries["run-1.log"]
	i3, i4 := strings.Index(content, "INFO three"), strings.Index(content, "INFO four")
	require.GreaterOrEqual(t, i3, 0)
	assert.Greater(t, i4, i3)

	// Sibling data source is kept and sealed too
	info, err := os.Stat(filepath.Join(dir, "run-1.log"))
	require.NoError(t, err)
	assert.Equal(t, sealedFileMode, info.Mode().Perm())
}

func TestZipNeedsFreeSiblingLog(t *testing.T) {
	l, dir := createSnapshotChannel(t, true)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "run.log"), nil, 0644))

	f := l.Snapshots().NextFile()
	require.True(t, f.Save())
	assert.Equal(t, "run-1", f.ResolvedName())
}

func TestFileFilters(t *testing.T) {
	l, _ := createSnapshotChannel(t, false)

	l.Info("keep")
	l.Warning("drop")
	l.Client("keep too")

	f := l.Snapshots().NextFile()
	_, err := f.AddFilter(ExcludeLevelFilter(LevelWarning))
	require.NoError(t, err)
	require.True(t, f.Save())

	assert.Equal(t, "INFO keep\nCLIENT keep too\n", f.Content())
	// Channel history is untouched
	assert.Equal(t, 3, l.History().Len())
}

func TestPresetContent(t *testing.T) {
	l, _ := createSnapshotChannel(t, false)
	l.Info("ignored")

	f := l.Snapshots().NextFile()
	require.NoError(t, f.SetContent("preset\n"))
	assert.Equal(t, "preset\n", f.Content())
	require.True(t, f.Save())

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, "preset\n", string(data))
}

func TestSealedFileIsFrozen(t *testing.T) {
	l, _ := createSnapshotChannel(t, false)
	l.Info("content")

	f := l.Snapshots().NextFile()
	kept, err := f.AddFilter(LevelFilter(LevelInfo))
	require.NoError(t, err)
	require.True(t, f.Save())
	path, content := f.Path(), f.Content()

	// The live filter set is read-only too
	assert.True(t, f.Filters().Frozen())
	assert.Equal(t, FilterID(0), f.Filters().Add(LevelFilter(LevelError)))
	assert.False(t, f.Filters().Remove(kept))
	f.Filters().Clear()
	assert.Equal(t, []FilterID{kept}, f.Filters().IDs())
	assert.Len(t, l.Snapshots().FilesWithFilter(kept), 1)

	assert.ErrorIs(t, f.SetName("other"), ErrSnapshotSealed)
	assert.ErrorIs(t, f.SetDirectory(t.TempDir()), ErrSnapshotSealed)
	assert.ErrorIs(t, f.SetZip(true), ErrSnapshotSealed)
	assert.ErrorIs(t, f.SetContent("x"), ErrSnapshotSealed)
	_, err = f.AddFilter(LevelFilter(LevelError))
	assert.ErrorIs(t, err, ErrSnapshotSealed)
	_, err = f.RemoveFilter(kept)
	assert.ErrorIs(t, err, ErrSnapshotSealed)

	// Saving again does nothing
	historyLen := l.History().Len()
	assert.False(t, f.Save())
	assert.Equal(t, historyLen, l.History().Len())

	assert.Equal(t, "run", f.Name())
	assert.Equal(t, path, f.Path())
	assert.Equal(t, content, f.Content())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestNextFileSemantics(t *testing.T) {
	l, _ := createSnapshotChannel(t, false)
	m := l.Snapshots()

	a := m.NextFile()
	b := m.NextFile()
	assert.Same(t, a, b)
	assert.Equal(t, 0, m.Len())
	assert.False(t, a.Sealed())

	require.True(t, a.Save())

	c := m.NextFile()
	assert.NotSame(t, a, c)
	assert.False(t, c.Sealed())
	assert.Empty(t, c.Content())
	assert.NotEqual(t, a.ID(), c.ID())

	require.Equal(t, 1, m.Len())
	archived, ok := m.Get(0)
	require.True(t, ok)
	assert.Same(t, a, archived)

	// No duplicate archiving on repeated calls
	assert.Same(t, c, m.NextFile())
	assert.Equal(t, 1, m.Len())

	_, ok = m.Get(1)
	assert.False(t, ok)
}

func TestSaveFailureKeepsPending(t *testing.T) {
	l, _, _, _ := createTestChannel(t, WithRenderOptions(RenderOptions{Template: "%level %prompt"}))

	// A regular file where the directory should be
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	m := l.Snapshots()
	f := m.NextFile()
	require.NoError(t, f.SetDirectory(blocker))
	require.NoError(t, f.SetName("fail"))

	assert.False(t, f.Save())
	assert.False(t, f.Sealed())
	assert.Empty(t, f.Path())
	assert.Same(t, f, m.NextFile())
	assert.Equal(t, 0, m.Len())

	// The failure is reported as an ERROR record on the channel
	require.Equal(t, 1, l.History().Len())
	rec, _ := l.History().Get(0)
	assert.Equal(t, LevelError, rec.Level())
	assert.Contains(t, rec.Message(), "Failed to save log file 'fail'")

	// A retry after fixing the directory succeeds
	require.NoError(t, f.SetDirectory(t.TempDir()))
	assert.True(t, f.Save())
}

func TestManagerQueries(t *testing.T) {
	l, _ := createSnapshotChannel(t, false)
	m := l.Snapshots()

	a := m.NextFile()
	id, err := a.AddFilter(LevelFilter(LevelInfo))
	require.NoError(t, err)
	require.True(t, a.Save())

	b := m.NextFile()
	require.NoError(t, b.SetName("Other"))
	require.True(t, b.Save())

	assert.Equal(t, []*SnapshotFile{a, b}, m.Files())
	assert.Equal(t, []*SnapshotFile{b}, m.FilesByName("Other", false))
	assert.Empty(t, m.FilesByName("other", false))
	assert.Equal(t, []*SnapshotFile{b}, m.FilesByName("other", true))
	assert.Equal(t, []*SnapshotFile{a}, m.FilesWithFilter(id))
	assert.Empty(t, m.FilesWithFilter(id+1000))
	assert.Same(t, l, m.Logger())
	assert.Same(t, l, a.Logger())
}

func TestManagerSetDefaults(t *testing.T) {
	l, _ := createSnapshotChannel(t, false)
	m := l.Snapshots()

	dir := t.TempDir()
	m.SetDefaults(dir, "fresh", true)

	// The current pending file keeps its settings
	current := m.NextFile()
	assert.Equal(t, "run", current.Name())
	require.True(t, current.Save())

	next := m.NextFile()
	assert.Equal(t, "fresh", next.Name())
	assert.Equal(t, dir, next.Directory())
	assert.True(t, next.Zip())
}

func TestConcurrentSaveSealsOnce(t *testing.T) {
	l, dir := createSnapshotChannel(t, false)
	l.Info("x")

	f := l.Snapshots().NextFile()

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.Save() {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, []string{"run.log"}, dirNames(t, dir))
	assert.Equal(t, 1, l.Snapshots().Len())
}

func TestSaveRejectsSeparatorInResolvedName(t *testing.T) {
	l, dir := createSnapshotChannel(t, false)
	l.SetDebug(true)

	opts := l.Options()
	opts.Title = "a/b"
	require.NoError(t, l.SetOptions(opts))

	f := l.Snapshots().NextFile()
	require.NoError(t, f.SetName("%title"))

	assert.False(t, f.Save())
	assert.False(t, f.Sealed())
	assert.Empty(t, dirNames(t, dir))

	errs := l.History().Accepted(LevelFilter(LevelError))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message(), "Failed to save log file '%title'")
	assert.Contains(t, errs[0].Message(), "path separator")
}
