package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
)

const defaultBatchSize = 64

// LoggerFunc defines a function signature for logging messages.
type LoggerFunc func(message string)

// Option configures a Loader.
type Option func(*Loader)

// WithRecursive makes directory targets descend into subdirectories,
// depth first, in the order entries are discovered. The default is a flat
// scan of the directory itself.
func WithRecursive(recursive bool) Option {
	return func(l *Loader) { l.recursive = recursive }
}

// WithLogger sets the logger used for scan-level messages.
func WithLogger(logger LoggerFunc) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithBatchSize sets how many directory entries are read from disk at once.
// Cancellation is still checked before every entry.
func WithBatchSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// Loader starts background scans that fill a Sequence with image paths.
type Loader struct {
	recursive bool
	batchSize int
	logger    LoggerFunc
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Recursive reports whether directory targets are scanned recursively.
func (l *Loader) Recursive() bool {
	return l.recursive
}

func (l *Loader) logMessage(format string, args ...interface{}) {
	if l.logger != nil {
		l.logger(fmt.Sprintf(format, args...))
	} else {
		log.Printf(format, args...)
	}
}

// Summary describes what a scan did.
type Summary struct {
	Added      int  // paths appended to the sequence
	Duplicates int  // eligible paths already present
	Unreadable int  // entries or directories that could not be read
	Cancelled  bool // the scan was stopped before it finished
}

// Task is one in-flight scan.
type Task struct {
	loader *Loader
	target Target
	seq    *Sequence

	cancelled atomic.Bool
	first     chan struct{}
	firstOnce sync.Once
	done      chan struct{}

	mu      sync.Mutex
	summary Summary
}

// Start begins scanning target on its own goroutine, appending eligible
// paths to seq, and returns immediately.
func (l *Loader) Start(target Target, seq *Sequence) *Task {
	t := &Task{
		loader: l,
		target: target,
		seq:    seq,
		first:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.run()
	return t
}

// Sequence returns the destination sequence.
func (t *Task) Sequence() *Sequence {
	return t.seq
}

// Target returns what the task scans.
func (t *Task) Target() Target {
	return t.target
}

// Done is closed once the scan goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// WaitFirst blocks until the first eligible path has been appended, or the
// scan finished without finding any, or ctx is done.
func (t *Task) WaitFirst(ctx context.Context) error {
	select {
	case <-t.first:
		return nil
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop asks the scan to finish and blocks until its goroutine has exited.
// After Stop returns the sequence is no longer written by this task.
func (t *Task) Stop() {
	t.cancelled.Store(true)
	<-t.done
}

// Wait blocks until the scan completes on its own and returns its summary.
func (t *Task) Wait() Summary {
	<-t.done
	return t.Summary()
}

// Summary returns the counters collected so far.
func (t *Task) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summary
}

func (t *Task) stopped() bool {
	return t.cancelled.Load()
}

func (t *Task) run() {
	defer close(t.done)

	switch t.target.Kind {
	case TargetList:
		for _, p := range t.target.Paths {
			if t.stopped() {
				break
			}
			t.loadPath(p)
		}
	case TargetFile:
		for _, p := range t.target.Paths {
			t.loadFile(p)
		}
	default:
		for _, p := range t.target.Paths {
			t.loadDir(p)
		}
	}

	s := t.Summary()
	if t.stopped() {
		t.mu.Lock()
		t.summary.Cancelled = true
		t.mu.Unlock()
		t.loader.logMessage("Scan stopped after %s images", humanize.Comma(int64(s.Added)))
		return
	}
	if s.Unreadable > 0 {
		t.loader.logMessage("Loaded %s images, %s entries could not be read",
			humanize.Comma(int64(s.Added)), humanize.Comma(int64(s.Unreadable)))
		return
	}
	t.loader.logMessage("Loaded %s images", humanize.Comma(int64(s.Added)))
}

func (t *Task) loadPath(p string) {
	info, err := os.Stat(p)
	if err != nil {
		t.unreadable()
		return
	}
	if info.IsDir() {
		t.loadDir(p)
		return
	}
	t.loadFile(p)
}

func (t *Task) loadFile(p string) {
	abs, err := filepath.Abs(p)
	if err != nil {
		t.unreadable()
		return
	}
	if !IsImage(abs) {
		return
	}
	t.add(abs)
}

func (t *Task) loadDir(dir string) {
	if t.stopped() {
		return
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		t.unreadable()
		return
	}
	f, err := os.Open(dir)
	if err != nil {
		t.unreadable()
		return
	}
	defer f.Close()

	for {
		entries, err := f.ReadDir(t.loader.batchSize)
		for _, e := range entries {
			if t.stopped() {
				return
			}
			t.visit(dir, e)
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.unreadable()
			return
		}
	}
}

func (t *Task) visit(dir string, e os.DirEntry) {
	p := filepath.Join(dir, e.Name())

	isDir := e.IsDir()
	if e.Type()&os.ModeSymlink != 0 {
		info, err := os.Stat(p)
		if err != nil {
			t.unreadable()
			return
		}
		if info.IsDir() {
			// symlinked directories are not followed, they could loop
			return
		}
	}
	if isDir {
		if t.loader.recursive {
			t.loadDir(p)
		}
		return
	}
	if IsImage(p) {
		t.add(p)
	}
}

func (t *Task) add(p string) {
	if !t.seq.Append(p) {
		t.mu.Lock()
		t.summary.Duplicates++
		t.mu.Unlock()
		return
	}
	t.mu.Lock()
	t.summary.Added++
	t.mu.Unlock()
	t.firstOnce.Do(func() { close(t.first) })
}

func (t *Task) unreadable() {
	t.mu.Lock()
	t.summary.Unreadable++
	t.mu.Unlock()
}
