// Package slideshow drives automatic playback through a pluggable timing
// strategy.
package slideshow

import (
	"fmt"
	"time"
)

// Event is what a strategy reports alongside an interval.
type Event int

const (
	// EventNone means the interval is unremarkable.
	EventNone Event = iota
	// EventChanged means the timing just changed and the user should be told.
	EventChanged
	// EventComplete means the strategy is exhausted; the interval is meaningless.
	EventComplete
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventChanged:
		return "changed"
	case EventComplete:
		return "complete"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Kind names a strategy variant.
type Kind string

const (
	KindFixed       Kind = "fixed"
	KindIncremental Kind = "incremental"
	KindTable       Kind = "table"
	KindRandom      Kind = "random"
)

// Strategy decides how long each image stays on screen.
type Strategy interface {
	// Kind returns the variant name.
	Kind() Kind
	// Reset returns the strategy to its configured starting point.
	Reset()
	// Next returns the interval before the following advance.
	Next() (time.Duration, Event)
	// Speed returns the interval most recently handed out, or the base one
	// before the first call. It does not change any state.
	Speed() time.Duration
	// Notice describes the current timing for a banner. It does not change
	// any state.
	Notice() string
}

// FormatSecs formats d as hh:mm:ss.
func FormatSecs(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// Fixed shows every image for the same duration and never completes.
type Fixed struct {
	speed time.Duration
}

// NewFixed creates a fixed strategy.
func NewFixed(speed time.Duration) *Fixed {
	return &Fixed{speed: speed}
}

func (f *Fixed) Kind() Kind { return KindFixed }

func (f *Fixed) Reset() {}

func (f *Fixed) Next() (time.Duration, Event) {
	return f.speed, EventNone
}

func (f *Fixed) Speed() time.Duration { return f.speed }

func (f *Fixed) Notice() string {
	return fmt.Sprintf("Showing each image for %s", FormatSecs(f.speed))
}
