package scan

import "sync"

// Sequence is an ordered list of image paths that can be shared between a
// loader goroutine appending to it and readers on other goroutines.
// While a scan is active the loader only ever appends, so a reader can at
// most observe the list having grown.
type Sequence struct {
	mu    sync.RWMutex
	items []string
	index map[string]int // path -> count of occurrences
}

// NewSequence creates a sequence holding a copy of paths.
func NewSequence(paths ...string) *Sequence {
	s := &Sequence{}
	s.reset(paths)
	return s
}

func (s *Sequence) reset(paths []string) {
	s.items = make([]string, len(paths))
	copy(s.items, paths)
	s.index = make(map[string]int, len(paths))
	for _, p := range paths {
		s.index[p]++
	}
}

// Append adds path to the end of the sequence unless it is already present.
// It reports whether the path was added.
func (s *Sequence) Append(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index[path] > 0 {
		return false
	}
	s.items = append(s.items, path)
	s.index[path]++
	return true
}

// Len returns the current number of paths.
func (s *Sequence) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// At returns the path at position i and whether i was in range.
func (s *Sequence) At(i int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		return "", false
	}
	return s.items[i], true
}

// Contains reports whether path is in the sequence.
func (s *Sequence) Contains(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index[path] > 0
}

// IndexOf returns the position of the first occurrence of path, or -1.
func (s *Sequence) IndexOf(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index[path] == 0 {
		return -1
	}
	for i, p := range s.items {
		if p == path {
			return i
		}
	}
	return -1
}

// Snapshot returns a copy of the current contents.
func (s *Sequence) Snapshot() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Rewrite replaces the contents with fn applied to a copy of them, holding
// the write lock throughout so no concurrent append is lost in between.
// It returns the contents as they were before.
func (s *Sequence) Rewrite(fn func(items []string) []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := make([]string, len(s.items))
	copy(before, s.items)
	work := make([]string, len(s.items))
	copy(work, s.items)
	s.reset(fn(work))
	return before
}

// Replace swaps the whole contents for a copy of paths in one step.
// Only the sequence owner calls this; a loader never does.
func (s *Sequence) Replace(paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(paths)
}
