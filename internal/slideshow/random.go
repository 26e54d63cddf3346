package slideshow

import (
	"fmt"
	"math/rand"
	"time"
)

// RandomDraw picks each interval at random from a candidate list until a
// total time budget is spent. The last interval is clamped so the budget
// is met exactly.
type RandomDraw struct {
	budget     time.Duration
	candidates []time.Duration
	intn       func(n int) int

	elapsed time.Duration
	last    time.Duration
}

// NewRandomDraw creates a random strategy. intn returns a value in [0, n);
// nil uses a time-seeded source.
func NewRandomDraw(budget time.Duration, candidates []time.Duration, intn func(n int) int) *RandomDraw {
	if intn == nil {
		intn = rand.New(rand.NewSource(time.Now().UnixNano())).Intn
	}
	c := make([]time.Duration, len(candidates))
	copy(c, candidates)
	return &RandomDraw{budget: budget, candidates: c, intn: intn}
}

func (r *RandomDraw) Kind() Kind { return KindRandom }

func (r *RandomDraw) Reset() {
	r.elapsed = 0
	r.last = 0
}

func (r *RandomDraw) Next() (time.Duration, Event) {
	if r.elapsed >= r.budget || len(r.candidates) == 0 {
		return 0, EventComplete
	}
	d := r.candidates[r.intn(len(r.candidates))]
	if d+r.elapsed > r.budget {
		d = r.budget - r.elapsed
	}
	r.elapsed += d

	ev := EventNone
	if r.last != 0 && d != r.last {
		ev = EventChanged
	}
	r.last = d
	return d, ev
}

func (r *RandomDraw) Speed() time.Duration { return r.last }

// TimeLeft returns the part of the budget not yet handed out.
func (r *RandomDraw) TimeLeft() time.Duration {
	if r.elapsed >= r.budget {
		return 0
	}
	return r.budget - r.elapsed
}

func (r *RandomDraw) Notice() string {
	return fmt.Sprintf("Next image in %s\nTime left in slideshow: %s",
		FormatSecs(r.last), FormatSecs(r.TimeLeft()))
}
