package slideshow

import (
	"fmt"
	"time"
)

// Incremental holds the base speed for a run of images, then switches to
// base×2^r, where r is the number of doublings still remaining, and waits
// r images before the next switch. Each milestone therefore arrives one
// image sooner than the previous one. The strategy completes once no
// doublings remain.
type Incremental struct {
	base     time.Duration
	interval int

	speed     time.Duration
	counter   int // images shown at the current speed, starting at 1
	remaining int // doublings left
}

// NewIncremental creates an incremental strategy with the given base speed
// and number of doublings.
func NewIncremental(base time.Duration, interval int) *Incremental {
	if interval < 0 {
		interval = 0
	}
	inc := &Incremental{base: base, interval: interval}
	inc.Reset()
	return inc
}

func (inc *Incremental) Kind() Kind { return KindIncremental }

func (inc *Incremental) Reset() {
	inc.speed = inc.base
	inc.counter = 1
	inc.remaining = inc.interval
}

func (inc *Incremental) Next() (time.Duration, Event) {
	return inc.step()
}

func (inc *Incremental) step() (time.Duration, Event) {
	if inc.remaining == 0 {
		return inc.speed, EventComplete
	}
	if inc.counter >= inc.remaining {
		inc.speed = inc.base * time.Duration(1<<uint(inc.remaining))
		inc.counter = 1
		inc.remaining--
		return inc.speed, EventChanged
	}
	inc.counter++
	return inc.speed, EventNone
}

func (inc *Incremental) Speed() time.Duration { return inc.speed }

// Remaining returns the number of doublings left.
func (inc *Incremental) Remaining() int { return inc.remaining }

// TimeLeft returns the total of the intervals still to come.
func (inc *Incremental) TimeLeft() time.Duration {
	sim := *inc
	var total time.Duration
	for {
		d, ev := sim.step()
		if ev == EventComplete {
			return total
		}
		total += d
	}
}

// TotalImages returns how many images a full run shows.
func (inc *Incremental) TotalImages() int {
	sim := *inc
	sim.Reset()
	n := 1 // the image shown when the slideshow starts
	for {
		if _, ev := sim.step(); ev == EventComplete {
			return n
		}
		n++
	}
}

func (inc *Incremental) Notice() string {
	images := inc.remaining
	if images == 0 {
		images = 1
	}
	return fmt.Sprintf("Turning it up to %s for %d images!\nTime left in slideshow: %s",
		FormatSecs(inc.speed), images, FormatSecs(inc.TimeLeft()))
}
