package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"poseshow/internal/config"
	"poseshow/internal/navigator"
	"poseshow/internal/scan"
	"poseshow/internal/slideshow"
)

// ErrNoStars is returned by ShowStarred when nothing has been starred.
var ErrNoStars = errors.New("no starred images")

// SettingsStore abstracts the settings DB for easier testing and decoupling.
type SettingsStore interface {
	LastDirectory() string
	SetLastDirectory(dir string) error
	StrategyConfig() (slideshow.Config, bool)
	SetStrategyConfig(cfg slideshow.Config) error
	Star(path string) (bool, error)
	Unstar(path string) (bool, error)
	ToggleStar(path string) (bool, error)
	IsStarred(path string) bool
	Stars() ([]string, error)
	Close() error
}

// Service ties the navigator, the slideshow scheduler and the persisted
// settings into one session.
type Service struct {
	Config    *config.Config
	Settings  SettingsStore
	Navigator *navigator.Navigator
	Slideshow *slideshow.Scheduler
	Logger    func(string)

	strategyCfg slideshow.Config
	rng         *rand.Rand
	lastDir     string
}

// NewService constructs a new Service. The slideshow timing saved by the
// previous session wins over the configuration file.
func NewService(cfg *config.Config, store SettingsStore, logger func(string)) (*Service, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	s := &Service{
		Config:   cfg,
		Settings: store,
		Logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	strategyCfg, err := cfg.GetStrategyConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid slideshow configuration: %w", err)
	}
	if saved, ok := store.StrategyConfig(); ok {
		if _, err := slideshow.Build(saved, nil); err == nil {
			strategyCfg = saved
		} else {
			s.log("Ignoring saved slideshow settings: %v", err)
		}
	}
	strategy, err := slideshow.Build(strategyCfg, s.rng.Intn)
	if err != nil {
		return nil, err
	}
	s.strategyCfg = strategyCfg

	hist := cfg.GetHistoryConfig()
	loader := scan.NewLoader(
		scan.WithRecursive(cfg.Recursive),
		scan.WithLogger(scan.LoggerFunc(logger)),
	)
	s.Navigator = navigator.New(
		navigator.WithLoader(loader),
		navigator.WithHistory(hist.Shuffle, hist.Random),
		navigator.WithRand(rand.New(rand.NewSource(time.Now().UnixNano()))),
		navigator.WithLogger(navigator.LoggerFunc(logger)),
	)
	s.Slideshow = slideshow.NewScheduler(s.Navigator, strategy,
		slideshow.WithLogger(slideshow.LoggerFunc(logger)))
	return s, nil
}

func (s *Service) log(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger(fmt.Sprintf(format, args...))
	}
}

// Load opens the session's images. With no arguments it reopens the last
// directory, then the configured default folder, then the working
// directory. One argument opens that file or directory; several are
// scanned together.
func (s *Service) Load(ctx context.Context, args []string) error {
	var src navigator.Source
	switch len(args) {
	case 0:
		dir := s.Settings.LastDirectory()
		if dir == "" {
			dir = s.Config.DefaultFolder
		}
		if dir == "" {
			dir = "."
		}
		if _, err := os.Stat(dir); err != nil {
			s.log("Last directory %s is gone, using the working directory", dir)
			dir = "."
		}
		src = navigator.Directory(dir)
	case 1:
		var err error
		src, err = navigator.ForPath(args[0])
		if err != nil {
			return err
		}
	default:
		src = navigator.Scan(args...)
	}

	s.Slideshow.Stop()
	if err := s.Navigator.SetSequence(ctx, src); err != nil {
		return err
	}

	switch src.Kind {
	case navigator.DirectorySource:
		s.lastDir = absOrSelf(src.Paths[0])
	case navigator.FileSource:
		s.lastDir = filepath.Dir(absOrSelf(src.Paths[0]))
	}
	s.log("Loaded %s images from %s source", humanize.Comma(int64(s.Navigator.Len())), src.Kind)
	return nil
}

func absOrSelf(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Save persists the directory and slideshow timing for the next session.
func (s *Service) Save() error {
	if s.lastDir != "" {
		if err := s.Settings.SetLastDirectory(s.lastDir); err != nil {
			return fmt.Errorf("saving last directory: %w", err)
		}
	}
	if err := s.Settings.SetStrategyConfig(s.strategyCfg); err != nil {
		return fmt.Errorf("saving slideshow settings: %w", err)
	}
	return nil
}

// ToggleStar flips the star on the current image and reports whether it is
// now starred.
func (s *Service) ToggleStar() (bool, error) {
	current := s.Navigator.Current()
	if current == "" {
		return false, navigator.ErrEmptySequence
	}
	return s.Settings.ToggleStar(current)
}

// IsCurrentStarred reports whether the current image carries a star.
func (s *Service) IsCurrentStarred() bool {
	current := s.Navigator.Current()
	return current != "" && s.Settings.IsStarred(current)
}

// ShowStarred replaces the sequence with the starred images that still
// exist on disk. It returns how many were adopted.
func (s *Service) ShowStarred(ctx context.Context) (int, error) {
	stars, err := s.Settings.Stars()
	if err != nil {
		return 0, err
	}
	var existing []string
	for _, p := range stars {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		} else {
			s.log("Skipping missing starred image %s", p)
		}
	}
	if len(existing) == 0 {
		return 0, ErrNoStars
	}
	s.Slideshow.Stop()
	if err := s.Navigator.SetSequence(ctx, navigator.List(existing...)); err != nil {
		return 0, err
	}
	return len(existing), nil
}

// SelectStrategy validates cfg and makes it the slideshow timing. The
// slideshow is stopped first.
func (s *Service) SelectStrategy(cfg slideshow.Config) error {
	strategy, err := slideshow.Build(cfg, s.rng.Intn)
	if err != nil {
		return err
	}
	s.Slideshow.Stop()
	if err := s.Slideshow.SetStrategy(strategy); err != nil {
		return err
	}
	s.strategyCfg = cfg
	s.log("Slideshow timing set to %s", strategy.Kind())
	return nil
}

// StrategyConfig returns the active slideshow timing.
func (s *Service) StrategyConfig() slideshow.Config {
	return s.strategyCfg
}

// Close stops the slideshow and any running scan, then closes the store.
func (s *Service) Close() error {
	s.Slideshow.Stop()
	s.Navigator.Close()
	return s.Settings.Close()
}
