package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("a"), 0644))
	}
}

func testLoader(t *testing.T, opts ...Option) *Loader {
	opts = append([]Option{WithLogger(func(message string) {
		t.Logf("ScanTestLogger: %s", message)
	})}, opts...)
	return NewLoader(opts...)
}

func TestLoaderDedupAndExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png", "a.PNG", "a.txt")

	seq := NewSequence()
	task := testLoader(t).Start(DirTarget(dir), seq)
	summary := task.Wait()

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "a.PNG"),
	}, seq.Snapshot())
	assert.Equal(t, 2, summary.Added)
	assert.False(t, summary.Cancelled)
}

func TestLoaderSkipsPathsAlreadyInSequence(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png", "b.png")

	existing := filepath.Join(dir, "a.png")
	seq := NewSequence(existing)
	summary := testLoader(t).Start(DirTarget(dir), seq).Wait()

	assert.Equal(t, 2, seq.Len())
	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, 1, summary.Duplicates)
	p, _ := seq.At(0)
	assert.Equal(t, existing, p)
}

func TestLoaderFlatByDefault(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "top.jpg", filepath.Join("sub", "nested.jpg"))

	seq := NewSequence()
	testLoader(t).Start(DirTarget(dir), seq).Wait()

	assert.Equal(t, []string{filepath.Join(dir, "top.jpg")}, seq.Snapshot())
}

func TestLoaderRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"top.jpg",
		filepath.Join("sub1", "image3.jpeg"),
		filepath.Join("sub1", "notes.md"),
		filepath.Join("sub1", "subsub", "image4.PNG"),
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub2"), 0755))

	seq := NewSequence()
	loader := testLoader(t, WithRecursive(true))
	assert.True(t, loader.Recursive())
	loader.Start(DirTarget(dir), seq).Wait()

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "top.jpg"),
		filepath.Join(dir, "sub1", "image3.jpeg"),
		filepath.Join(dir, "sub1", "subsub", "image4.PNG"),
	}, seq.Snapshot())
}

func TestLoaderFileTarget(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "single.gif", "notes.txt")

	seq := NewSequence()
	testLoader(t).Start(FileTarget(filepath.Join(dir, "single.gif")), seq).Wait()
	assert.Equal(t, []string{filepath.Join(dir, "single.gif")}, seq.Snapshot())

	seq = NewSequence()
	testLoader(t).Start(FileTarget(filepath.Join(dir, "notes.txt")), seq).Wait()
	assert.Zero(t, seq.Len())
}

func TestLoaderListTarget(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFiles(t, dirA, "a1.png", "a2.png")
	writeFiles(t, dirB, "b1.jpg")

	seq := NewSequence()
	summary := testLoader(t).Start(ListTarget(
		filepath.Join(dirB, "b1.jpg"),
		dirA,
		filepath.Join(dirB, "missing.jpg"),
	), seq).Wait()

	snap := seq.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, filepath.Join(dirB, "b1.jpg"), snap[0], "list order is kept")
	assert.ElementsMatch(t, []string{filepath.Join(dirA, "a1.png"), filepath.Join(dirA, "a2.png")}, snap[1:])
	assert.Equal(t, 1, summary.Unreadable)
}

func TestLoaderSkipsUnreadableEntries(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "good.png")
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.png"), filepath.Join(dir, "ghost.png")))

	seq := NewSequence()
	summary := testLoader(t).Start(DirTarget(dir), seq).Wait()

	assert.Equal(t, []string{filepath.Join(dir, "good.png")}, seq.Snapshot())
	assert.Equal(t, 1, summary.Unreadable)
}

func TestLoaderMissingDirectory(t *testing.T) {
	seq := NewSequence()
	task := testLoader(t).Start(DirTarget(filepath.Join(t.TempDir(), "nope")), seq)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, task.WaitFirst(ctx))
	assert.Zero(t, seq.Len())
	assert.Equal(t, 1, task.Wait().Unreadable)
}

func TestWaitFirstReturnsForEmptyScan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "readme.txt")

	seq := NewSequence()
	task := testLoader(t).Start(DirTarget(dir), seq)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, task.WaitFirst(ctx))
	assert.Zero(t, seq.Len())
}

func TestWaitFirstHonoursContext(t *testing.T) {
	seq := NewSequence()
	task := &Task{seq: seq, first: make(chan struct{}), done: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, task.WaitFirst(ctx), context.Canceled)
}

func TestLoaderStopIsPromptOnLargeDirectory(t *testing.T) {
	if testing.Short() {
		t.Skip("creates 10,000 files")
	}
	dir := t.TempDir()
	const total = 10000
	for i := 0; i < total; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("img%05d.png", i)), nil, 0644))
	}

	seq := NewSequence()
	task := testLoader(t, WithBatchSize(16)).Start(DirTarget(dir), seq)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, task.WaitFirst(ctx))

	start := time.Now()
	task.Stop()
	assert.Less(t, time.Since(start), time.Second)

	// nothing is appended once Stop has returned
	n := seq.Len()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, seq.Len())

	summary := task.Summary()
	assert.True(t, summary.Cancelled || summary.Added == total)
	assert.Equal(t, n, summary.Added)

	// Stop is idempotent
	task.Stop()
}
