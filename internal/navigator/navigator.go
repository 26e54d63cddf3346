// Package navigator owns the sequence of images being browsed and the cursor
// into it.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"poseshow/internal/history"
	"poseshow/internal/scan"
)

const (
	// DefaultShuffleHistory is how many shuffles can be undone.
	DefaultShuffleHistory = 10
	// DefaultRandomHistory is how many random jumps can be undone.
	DefaultRandomHistory = 50
)

var (
	// ErrEmptySequence is returned by navigation on an empty sequence.
	ErrEmptySequence = errors.New("sequence is empty")
	// ErrInvalidTarget is returned when a source names nothing usable.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrNoHistory is returned by an undo with nothing recorded.
	ErrNoHistory = errors.New("nothing to undo")
)

// LoggerFunc defines a function signature for logging messages.
type LoggerFunc func(message string)

type shuffleEntry struct {
	seq    *scan.Sequence // the sequence the snapshot was taken from
	items  []string
	cursor int
}

// Navigator is the single source of truth for the current image.
//
// The cursor is a signed offset: zero and positive values count from the
// start, negative values from the end of the sequence. Previous steps
// back while abs(cursor)+1 is below the length and otherwise resets to
// the first image, so stepping back from the first image walks the sequence
// from its end, while stepping back from the last image reached with Next
// returns to the first. Index reports the normalized position.
//
// Listeners run on the calling goroutine after the navigator lock has been
// released, in the order the changes happened.
type Navigator struct {
	mu       sync.Mutex
	seq      *scan.Sequence
	cursor   int
	current  string
	shuffles *history.Stack[shuffleEntry]
	randoms  *history.Stack[string]
	rng      *rand.Rand

	loader *scan.Loader
	task   *scan.Task
	setMu  sync.Mutex // serializes SetSequence

	logger LoggerFunc

	listenerMu       sync.Mutex
	imageListeners   []func(path string)
	sequenceListener []func()
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLoader sets the loader used for directory and scan sources.
func WithLoader(l *scan.Loader) Option {
	return func(n *Navigator) { n.loader = l }
}

// WithRand sets the random source used by Shuffle and Random.
func WithRand(r *rand.Rand) Option {
	return func(n *Navigator) { n.rng = r }
}

// WithHistory sets the shuffle and random undo capacities.
func WithHistory(shuffles, randoms int) Option {
	return func(n *Navigator) {
		n.shuffles = history.NewStack[shuffleEntry](shuffles)
		n.randoms = history.NewStack[string](randoms)
	}
}

// WithLogger sets the logger.
func WithLogger(logger LoggerFunc) Option {
	return func(n *Navigator) { n.logger = logger }
}

// New creates an empty navigator.
func New(opts ...Option) *Navigator {
	n := &Navigator{
		seq:      scan.NewSequence(),
		shuffles: history.NewStack[shuffleEntry](DefaultShuffleHistory),
		randoms:  history.NewStack[string](DefaultRandomHistory),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.rng == nil {
		n.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if n.loader == nil {
		n.loader = scan.NewLoader(scan.WithLogger(scan.LoggerFunc(n.logger)))
	}
	return n
}

func (n *Navigator) logMessage(format string, args ...interface{}) {
	if n.logger != nil {
		n.logger(fmt.Sprintf(format, args...))
	} else {
		log.Printf(format, args...)
	}
}

// OnImageChanged registers fn to be called with the new current path
// whenever it changes.
func (n *Navigator) OnImageChanged(fn func(path string)) {
	n.listenerMu.Lock()
	defer n.listenerMu.Unlock()
	n.imageListeners = append(n.imageListeners, fn)
}

// OnSequenceChanged registers fn to be called when the sequence is replaced
// or reordered.
func (n *Navigator) OnSequenceChanged(fn func()) {
	n.listenerMu.Lock()
	defer n.listenerMu.Unlock()
	n.sequenceListener = append(n.sequenceListener, fn)
}

// notice collects the notifications an operation owes its listeners.
type notice struct {
	sequenceChanged bool
	imageChanged    bool
	image           string
}

func (n *Navigator) publish(nt notice) {
	if !nt.sequenceChanged && !nt.imageChanged {
		return
	}
	n.listenerMu.Lock()
	seqFns := append([]func(){}, n.sequenceListener...)
	imgFns := append([]func(string){}, n.imageListeners...)
	n.listenerMu.Unlock()

	if nt.sequenceChanged {
		for _, fn := range seqFns {
			fn()
		}
	}
	if nt.imageChanged {
		for _, fn := range imgFns {
			fn(nt.image)
		}
	}
}

// setCurrent must be called with n.mu held.
func (n *Navigator) setCurrent(path string, nt *notice) {
	if path == n.current {
		return
	}
	n.current = path
	nt.imageChanged = true
	nt.image = path
}

// at resolves a signed cursor against the live sequence. n.mu must be held.
func (n *Navigator) at(cursor int) (string, bool) {
	size := n.seq.Len()
	if size == 0 {
		return "", false
	}
	idx := cursor % size
	if idx < 0 {
		idx += size
	}
	return n.seq.At(idx)
}

// SetCurrent makes path the current image, for example when the user picks
// a starred image. The cursor follows when path is part of the sequence.
// It reports whether the current image changed.
func (n *Navigator) SetCurrent(path string) bool {
	n.mu.Lock()
	var nt notice
	if idx := n.seq.IndexOf(path); idx >= 0 {
		n.cursor = idx
	}
	n.setCurrent(path, &nt)
	n.mu.Unlock()

	n.publish(nt)
	return nt.imageChanged
}

// Next advances to the following image, wrapping to the first one after
// the last.
func (n *Navigator) Next() (string, error) {
	n.mu.Lock()
	size := n.seq.Len()
	if size == 0 {
		n.mu.Unlock()
		return "", ErrEmptySequence
	}
	if n.cursor+1 >= size {
		n.cursor = 0
	} else {
		n.cursor++
	}
	var nt notice
	p, _ := n.at(n.cursor)
	n.setCurrent(p, &nt)
	n.mu.Unlock()

	n.publish(nt)
	return p, nil
}

// Previous steps back one image. See the Navigator documentation for the
// boundary rule.
func (n *Navigator) Previous() (string, error) {
	n.mu.Lock()
	size := n.seq.Len()
	if size == 0 {
		n.mu.Unlock()
		return "", ErrEmptySequence
	}
	if abs(n.cursor)+1 < size {
		n.cursor--
	} else {
		n.cursor = 0
	}
	var nt notice
	p, _ := n.at(n.cursor)
	n.setCurrent(p, &nt)
	n.mu.Unlock()

	n.publish(nt)
	return p, nil
}

// Shuffle records the current order and cursor, then replaces the sequence
// with a random permutation of itself and moves to its first image.
func (n *Navigator) Shuffle() error {
	n.mu.Lock()
	if n.seq.Len() == 0 {
		n.mu.Unlock()
		return ErrEmptySequence
	}
	cursor := n.cursor
	before := n.seq.Rewrite(func(items []string) []string {
		n.rng.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
		return items
	})
	n.shuffles.Push(shuffleEntry{seq: n.seq, items: before, cursor: cursor})
	n.cursor = 0

	nt := notice{sequenceChanged: true}
	p, _ := n.at(0)
	n.setCurrent(p, &nt)
	n.mu.Unlock()

	n.publish(nt)
	return nil
}

// UndoShuffle restores the order and cursor recorded by an earlier shuffle.
// Repeated calls walk further back, stopping at the oldest retained entry.
// Images a running scan appended after the shuffle stay in the sequence,
// after the restored ones.
func (n *Navigator) UndoShuffle() error {
	n.mu.Lock()
	entry, ok := n.shuffles.Undo()
	if !ok {
		n.mu.Unlock()
		return ErrNoHistory
	}
	if entry.seq == n.seq {
		n.seq.Rewrite(func(items []string) []string {
			return restoreOrder(entry.items, items)
		})
	} else {
		n.seq.Replace(entry.items)
	}
	n.cursor = entry.cursor

	nt := notice{sequenceChanged: true}
	if p, ok := n.at(n.cursor); ok {
		n.setCurrent(p, &nt)
	}
	n.mu.Unlock()

	n.publish(nt)
	return nil
}

// Random jumps to a uniformly chosen image, which may be the current one,
// remembering the image it left.
func (n *Navigator) Random() (string, error) {
	n.mu.Lock()
	size := n.seq.Len()
	if size == 0 {
		n.mu.Unlock()
		return "", ErrEmptySequence
	}
	n.randoms.Push(n.current)
	n.cursor = n.rng.Intn(size)

	var nt notice
	p, _ := n.at(n.cursor)
	n.setCurrent(p, &nt)
	n.mu.Unlock()

	n.publish(nt)
	return p, nil
}

// UndoRandom returns to the image shown before a random jump. Repeated
// calls walk further back, stopping at the oldest retained entry.
func (n *Navigator) UndoRandom() (string, error) {
	n.mu.Lock()
	p, ok := n.randoms.Undo()
	if !ok {
		n.mu.Unlock()
		return "", ErrNoHistory
	}
	if idx := n.seq.IndexOf(p); idx >= 0 {
		n.cursor = idx
	}
	var nt notice
	n.setCurrent(p, &nt)
	n.mu.Unlock()

	n.publish(nt)
	return p, nil
}

// SetSequence replaces the sequence. Directory, file and scan sources stop
// any running scan, start a new one and return once it has produced its
// first image or finished empty; the sequence keeps growing afterwards.
// Explicit lists are adopted as they are. The cursor moves to the first
// image and sequence-changed fires once.
func (n *Navigator) SetSequence(ctx context.Context, src Source) error {
	target, scanned, err := src.target()
	if err != nil {
		return err
	}

	n.setMu.Lock()
	defer n.setMu.Unlock()

	n.mu.Lock()
	old := n.task
	n.task = nil
	n.mu.Unlock()
	if old != nil {
		old.Stop()
	}

	seq := scan.NewSequence()
	var task *scan.Task
	if scanned {
		task = n.loader.Start(target, seq)
		if err := task.WaitFirst(ctx); err != nil {
			task.Stop()
			return fmt.Errorf("waiting for first image of %s: %w", src.Kind, err)
		}
	} else {
		seq = scan.NewSequence(src.Paths...)
	}

	n.mu.Lock()
	n.seq = seq
	n.task = task
	n.cursor = 0
	nt := notice{sequenceChanged: true}
	p, _ := n.at(0)
	n.setCurrent(p, &nt)
	n.mu.Unlock()

	if seq.Len() == 0 {
		n.logMessage("No images found in %s source", src.Kind)
	}
	n.publish(nt)
	return nil
}

// Close stops any running scan.
func (n *Navigator) Close() {
	n.mu.Lock()
	task := n.task
	n.task = nil
	n.mu.Unlock()
	if task != nil {
		task.Stop()
	}
}

// Current returns the current image path, empty when there is none.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Index returns the normalized position of the cursor, or -1 when the
// sequence is empty.
func (n *Navigator) Index() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	size := n.seq.Len()
	if size == 0 {
		return -1
	}
	idx := n.cursor % size
	if idx < 0 {
		idx += size
	}
	return idx
}

// Len returns the current sequence length.
func (n *Navigator) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seq.Len()
}

// Snapshot returns a copy of the sequence.
func (n *Navigator) Snapshot() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seq.Snapshot()
}

// Loading reports whether a background scan is still running.
func (n *Navigator) Loading() bool {
	n.mu.Lock()
	task := n.task
	n.mu.Unlock()
	if task == nil {
		return false
	}
	select {
	case <-task.Done():
		return false
	default:
		return true
	}
}

// ScanSummary returns the summary of the latest scan, if any.
func (n *Navigator) ScanSummary() (scan.Summary, bool) {
	n.mu.Lock()
	task := n.task
	n.mu.Unlock()
	if task == nil {
		return scan.Summary{}, false
	}
	return task.Summary(), true
}

// WaitLoaded blocks until the running scan, if any, has finished.
func (n *Navigator) WaitLoaded() {
	n.mu.Lock()
	task := n.task
	n.mu.Unlock()
	if task != nil {
		task.Wait()
	}
}

// CanUndoShuffle reports whether UndoShuffle has something to restore.
func (n *Navigator) CanUndoShuffle() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.shuffles.Len() > 0
}

// CanUndoRandom reports whether UndoRandom has something to restore.
func (n *Navigator) CanUndoRandom() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.randoms.Len() > 0
}

// restoreOrder returns snapshot followed by the items of current that the
// snapshot does not hold, in their current order.
func restoreOrder(snapshot, current []string) []string {
	known := make(map[string]struct{}, len(snapshot))
	for _, p := range snapshot {
		known[p] = struct{}{}
	}
	out := make([]string, len(snapshot), len(snapshot)+max(0, len(current)-len(snapshot)))
	copy(out, snapshot)
	for _, p := range current {
		if _, ok := known[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
