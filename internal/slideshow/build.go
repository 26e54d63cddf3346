package slideshow

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig is returned by Build for unusable strategy settings.
var ErrInvalidConfig = errors.New("invalid slideshow configuration")

// Config selects a strategy and carries the values it needs.
type Config struct {
	Kind       Kind            `json:"kind"`
	Speed      time.Duration   `json:"speed"`      // fixed and incremental base speed
	Increment  int             `json:"increment"`  // incremental doublings
	Rows       []Row           `json:"rows"`       // table recipe
	Budget     time.Duration   `json:"budget"`     // random total time
	Candidates []time.Duration `json:"candidates"` // random draw table
}

// Build creates the strategy described by cfg. intn feeds RandomDraw and
// may be nil.
func Build(cfg Config, intn func(n int) int) (Strategy, error) {
	switch cfg.Kind {
	case KindFixed, "":
		if cfg.Speed <= 0 {
			return nil, fmt.Errorf("%w: speed must be positive, got %s", ErrInvalidConfig, cfg.Speed)
		}
		return NewFixed(cfg.Speed), nil
	case KindIncremental:
		if cfg.Speed <= 0 {
			return nil, fmt.Errorf("%w: speed must be positive, got %s", ErrInvalidConfig, cfg.Speed)
		}
		if cfg.Increment < 0 || cfg.Increment > 30 {
			return nil, fmt.Errorf("%w: increment must be between 0 and 30, got %d", ErrInvalidConfig, cfg.Increment)
		}
		if limit := MaxIncrementalSpeed(cfg.Increment); cfg.Speed > limit {
			return nil, fmt.Errorf("%w: speed %s with %d doublings overflows, the limit is %s",
				ErrInvalidConfig, cfg.Speed, cfg.Increment, limit)
		}
		return NewIncremental(cfg.Speed, cfg.Increment), nil
	case KindTable:
		if len(cfg.Rows) == 0 {
			return nil, fmt.Errorf("%w: table needs at least one row", ErrInvalidConfig)
		}
		for i, r := range cfg.Rows {
			if r.Count < 0 || r.Duration <= 0 {
				return nil, fmt.Errorf("%w: row %d has count %d and duration %s", ErrInvalidConfig, i+1, r.Count, r.Duration)
			}
		}
		return NewTable(cfg.Rows), nil
	case KindRandom:
		if cfg.Budget <= 0 {
			return nil, fmt.Errorf("%w: budget must be positive, got %s", ErrInvalidConfig, cfg.Budget)
		}
		if len(cfg.Candidates) == 0 {
			return nil, fmt.Errorf("%w: random draw needs at least one candidate", ErrInvalidConfig)
		}
		for _, c := range cfg.Candidates {
			if c <= 0 {
				return nil, fmt.Errorf("%w: candidate %s is not positive", ErrInvalidConfig, c)
			}
		}
		return NewRandomDraw(cfg.Budget, cfg.Candidates, intn), nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, cfg.Kind)
	}
}

// MaxIncrementalSpeed returns the largest base speed for which an
// incremental run with the given doublings, intervals and total alike,
// fits in a time.Duration.
func MaxIncrementalSpeed(increment int) time.Duration {
	// a 1ns base makes the run total equal to its multiplier
	weight := int64(NewIncremental(1, increment).TimeLeft())
	if weight < 1 {
		weight = 1
	}
	return time.Duration(math.MaxInt64 / weight)
}
