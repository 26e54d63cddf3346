package scan

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceAppendDedups(t *testing.T) {
	s := NewSequence()
	assert.True(t, s.Append("/a.png"))
	assert.True(t, s.Append("/b.png"))
	assert.False(t, s.Append("/a.png"))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"/a.png", "/b.png"}, s.Snapshot())
	assert.True(t, s.Contains("/b.png"))
	assert.Equal(t, 1, s.IndexOf("/b.png"))
	assert.Equal(t, -1, s.IndexOf("/c.png"))
}

func TestSequenceAt(t *testing.T) {
	s := NewSequence("/a.png")
	p, ok := s.At(0)
	require.True(t, ok)
	assert.Equal(t, "/a.png", p)

	_, ok = s.At(1)
	assert.False(t, ok)
	_, ok = s.At(-1)
	assert.False(t, ok)
}

func TestSequenceReplaceKeepsDuplicates(t *testing.T) {
	s := NewSequence("/a.png")
	s.Replace([]string{"/b.png", "/b.png", "/c.png"})

	assert.Equal(t, 3, s.Len())
	assert.False(t, s.Contains("/a.png"))
	assert.False(t, s.Append("/b.png"))
	assert.True(t, s.Append("/a.png"))
}

func TestSequenceSnapshotIsACopy(t *testing.T) {
	s := NewSequence("/a.png", "/b.png")
	snap := s.Snapshot()
	snap[0] = "/mutated.png"
	p, _ := s.At(0)
	assert.Equal(t, "/a.png", p)
}

func TestSequenceConcurrentAppendAndRead(t *testing.T) {
	s := NewSequence()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.Append(fmt.Sprintf("/img%04d.png", i))
		}
	}()
	go func() {
		defer wg.Done()
		last := 0
		for i := 0; i < 1000; i++ {
			n := s.Len()
			assert.GreaterOrEqual(t, n, last, "sequence must only grow")
			last = n
			_ = s.Snapshot()
		}
	}()
	wg.Wait()
	assert.Equal(t, 1000, s.Len())
}

func TestSequenceRewrite(t *testing.T) {
	s := NewSequence("/a.png", "/b.png", "/c.png")
	before := s.Rewrite(func(items []string) []string {
		items[0], items[2] = items[2], items[0]
		return items
	})
	assert.Equal(t, []string{"/a.png", "/b.png", "/c.png"}, before)
	assert.Equal(t, []string{"/c.png", "/b.png", "/a.png"}, s.Snapshot())
	assert.Equal(t, 0, s.IndexOf("/c.png"))
}
