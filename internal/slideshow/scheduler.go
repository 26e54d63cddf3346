package slideshow

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

var (
	// ErrRunning is returned by operations that need a stopped slideshow.
	ErrRunning = errors.New("slideshow is running")
	// ErrNotRunning is returned by Pause on a stopped slideshow.
	ErrNotRunning = errors.New("slideshow is not running")
	// ErrNotPaused is returned by Resume when nothing is paused.
	ErrNotPaused = errors.New("slideshow is not paused")
)

// State of a Scheduler.
type State int

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Navigator is the part of the sequence navigator the scheduler drives.
type Navigator interface {
	Next() (string, error)
}

// LoggerFunc defines a function signature for logging messages.
type LoggerFunc func(message string)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(logger LoggerFunc) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// Scheduler advances a navigator on a single-shot timer that is re-armed
// after every advance with the interval the active strategy asks for.
type Scheduler struct {
	// step serializes transitions. A fire holds it across the navigator
	// advance, so Pause, Resume and Stop never land between the advance and
	// the strategy step that belongs to it. Always taken before mu.
	step sync.Mutex

	mu       sync.Mutex
	nav      Navigator
	strategy Strategy
	clock    Clock
	logger   LoggerFunc

	state     State
	timer     Timer
	gen       uint64 // bumped whenever the pending timer is abandoned
	planned   time.Duration
	armedAt   time.Time
	remaining time.Duration // captured by Pause

	wasPlayingBeforeOp bool // Tracks if slideshow was playing before a temp pause

	listenerMu sync.Mutex
	onChanged  []func(message string)
	onComplete []func()
	onAdvance  []func(path string)
	onState    []func(state State)
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(nav Navigator, strategy Strategy, opts ...Option) *Scheduler {
	s := &Scheduler{nav: nav, strategy: strategy, clock: RealClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) logMessage(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger(fmt.Sprintf(format, args...))
	} else {
		log.Printf(format, args...)
	}
}

// OnChanged registers fn for slideshow-changed notifications.
func (s *Scheduler) OnChanged(fn func(message string)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.onChanged = append(s.onChanged, fn)
}

// OnComplete registers fn for slideshow-complete notifications.
func (s *Scheduler) OnComplete(fn func()) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.onComplete = append(s.onComplete, fn)
}

// OnAdvance registers fn to be called with the path shown after every
// timed advance.
func (s *Scheduler) OnAdvance(fn func(path string)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.onAdvance = append(s.onAdvance, fn)
}

// OnStateChanged registers fn to be called after every state transition.
func (s *Scheduler) OnStateChanged(fn func(state State)) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.onState = append(s.onState, fn)
}

// outcome collects the notifications owed after an operation.
type outcome struct {
	advanced bool
	path     string
	changed  bool
	message  string
	complete bool
	state    bool
	newState State
}

func (s *Scheduler) publish(o outcome) {
	s.listenerMu.Lock()
	advance := append([]func(string){}, s.onAdvance...)
	changed := append([]func(string){}, s.onChanged...)
	complete := append([]func(){}, s.onComplete...)
	states := append([]func(State){}, s.onState...)
	s.listenerMu.Unlock()

	if o.advanced {
		for _, fn := range advance {
			fn(o.path)
		}
	}
	if o.changed {
		for _, fn := range changed {
			fn(o.message)
		}
	}
	if o.complete {
		for _, fn := range complete {
			fn()
		}
	}
	if o.state {
		for _, fn := range states {
			fn(o.newState)
		}
	}
}

// arm must be called with s.mu held.
func (s *Scheduler) arm(d time.Duration) {
	s.gen++
	gen := s.gen
	s.planned = d
	s.armedAt = s.clock.Now()
	s.timer = s.clock.AfterFunc(d, func() { s.fire(gen) })
}

// disarm must be called with s.mu held.
func (s *Scheduler) disarm() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Scheduler) setState(st State, o *outcome) {
	if s.state == st {
		return
	}
	s.state = st
	o.state = true
	o.newState = st
}

// Start resets the strategy and arms the first interval.
func (s *Scheduler) Start() error {
	s.step.Lock()
	s.mu.Lock()
	if s.state != Stopped {
		s.mu.Unlock()
		s.step.Unlock()
		return ErrRunning
	}
	var o outcome
	s.strategy.Reset()
	d, ev := s.strategy.Next()
	switch ev {
	case EventComplete:
		o.complete = true
	case EventChanged:
		o.changed = true
		o.message = s.strategy.Notice()
		fallthrough
	default:
		s.arm(d)
		s.setState(Running, &o)
	}
	s.mu.Unlock()
	s.step.Unlock()

	s.publish(o)
	return nil
}

// Stop cancels the pending interval. Stopping a stopped slideshow is a no-op.
func (s *Scheduler) Stop() {
	s.step.Lock()
	s.mu.Lock()
	var o outcome
	if s.state != Stopped {
		s.disarm()
		s.remaining = 0
		s.wasPlayingBeforeOp = false
		s.setState(Stopped, &o)
	}
	s.mu.Unlock()
	s.step.Unlock()

	s.publish(o)
}

// Pause cancels the pending interval, remembering how much of it was left.
// Neither the navigator nor the strategy is touched. A pause requested
// while an advance is in flight waits for it, so the full next interval
// is kept.
func (s *Scheduler) Pause() error {
	s.step.Lock()
	s.mu.Lock()
	var o outcome
	switch s.state {
	case Stopped:
		s.mu.Unlock()
		s.step.Unlock()
		return ErrNotRunning
	case Paused:
		s.mu.Unlock()
		s.step.Unlock()
		return nil
	}
	left := s.planned - s.clock.Now().Sub(s.armedAt)
	if left < 0 {
		left = 0
	}
	s.remaining = left
	s.disarm()
	s.setState(Paused, &o)
	s.mu.Unlock()
	s.step.Unlock()

	s.publish(o)
	return nil
}

// Resume arms exactly the time that was left when Pause was called. The
// strategy is not asked for that interval; it was decided before the pause.
func (s *Scheduler) Resume() error {
	s.step.Lock()
	s.mu.Lock()
	var o outcome
	switch s.state {
	case Running:
		s.mu.Unlock()
		s.step.Unlock()
		return nil
	case Stopped:
		s.mu.Unlock()
		s.step.Unlock()
		return ErrNotPaused
	}
	s.arm(s.remaining)
	s.remaining = 0
	s.setState(Running, &o)
	s.mu.Unlock()
	s.step.Unlock()

	s.publish(o)
	return nil
}

// TogglePlayPause starts a stopped slideshow, pauses a running one and
// resumes a paused one.
func (s *Scheduler) TogglePlayPause() error {
	switch s.State() {
	case Stopped:
		return s.Start()
	case Running:
		return s.Pause()
	default:
		return s.Resume()
	}
}

// PauseForOperation pauses the slideshow while something else, like a
// dialog, needs the screen. It remembers whether it was playing.
func (s *Scheduler) PauseForOperation() {
	s.mu.Lock()
	playing := s.state == Running
	s.mu.Unlock()
	if playing {
		_ = s.Pause()
	}
	s.mu.Lock()
	s.wasPlayingBeforeOp = playing
	s.mu.Unlock()
}

// ResumeAfterOperation resumes the slideshow only if it was playing before
// PauseForOperation was called.
func (s *Scheduler) ResumeAfterOperation() {
	s.mu.Lock()
	resume := s.wasPlayingBeforeOp && s.state == Paused
	s.wasPlayingBeforeOp = false // Reset the flag
	s.mu.Unlock()
	if resume {
		_ = s.Resume()
	}
}

func (s *Scheduler) fire(gen uint64) {
	s.step.Lock()
	s.mu.Lock()
	if gen != s.gen || s.state != Running {
		s.mu.Unlock()
		s.step.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	// navigator listeners run here and must not call back into the scheduler
	path, err := s.nav.Next()

	s.mu.Lock()
	var o outcome
	if err != nil {
		s.disarm()
		s.setState(Stopped, &o)
		s.mu.Unlock()
		s.step.Unlock()
		s.logMessage("Slideshow stopped: %v", err)
		s.publish(o)
		return
	}
	o.advanced = true
	o.path = path

	d, ev := s.strategy.Next()
	switch ev {
	case EventComplete:
		s.disarm()
		s.setState(Stopped, &o)
		o.complete = true
	case EventChanged:
		o.changed = true
		o.message = s.strategy.Notice()
		s.arm(d)
	default:
		s.arm(d)
	}
	s.mu.Unlock()
	s.step.Unlock()

	s.publish(o)
}

// SetStrategy swaps the active strategy. The slideshow must be stopped.
func (s *Scheduler) SetStrategy(strategy Strategy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Stopped {
		return ErrRunning
	}
	s.strategy = strategy
	return nil
}

// Strategy returns the active strategy.
func (s *Scheduler) Strategy() Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategy
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Speed returns the active strategy's current interval.
func (s *Scheduler) Speed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategy.Speed()
}

// FormatNotifyMessage returns the banner text for the current timing.
func (s *Scheduler) FormatNotifyMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategy.Notice()
}

// TimeRemaining returns how long until the next advance, or what was left
// when the slideshow was paused.
func (s *Scheduler) TimeRemaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Running:
		left := s.planned - s.clock.Now().Sub(s.armedAt)
		if left < 0 {
			return 0
		}
		return left
	case Paused:
		return s.remaining
	default:
		return 0
	}
}
