package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"poseshow/internal/navigator"
	"poseshow/internal/slideshow"
)

const appName = "poseshow"

type Config struct {
	DefaultFolder string `koanf:"default_folder"` // opened when no path is given and nothing was saved
	Recursive     bool   `koanf:"recursive"`      // descend into subdirectories when scanning

	// Slideshow timing
	Strategy StrategyConfig `koanf:"strategy"`

	// Undo depth for shuffle and random jumps
	History HistoryConfig `koanf:"history"`
}

// StrategyConfig holds the slideshow timing as written in the file.
// Durations accept Go duration strings ("1m30s") or plain seconds ("90").
type StrategyConfig struct {
	Kind       string      `koanf:"kind"`       // "fixed", "incremental", "table" or "random" (default: "fixed")
	Speed      string      `koanf:"speed"`      // fixed speed or incremental base (default: 30s)
	Increment  int         `koanf:"increment"`  // incremental doublings (default: 3)
	Rows       []RowConfig `koanf:"rows"`       // table recipe
	Budget     string      `koanf:"budget"`     // random total time (default: 30m)
	Candidates []string    `koanf:"candidates"` // random draw table
}

// RowConfig is one row of a table recipe.
type RowConfig struct {
	Count    int    `koanf:"count"`
	Duration string `koanf:"duration"`
}

// HistoryConfig bounds the undo stacks.
type HistoryConfig struct {
	Shuffle int `koanf:"shuffle"` // default: 10
	Random  int `koanf:"random"`  // default: 50
}

const (
	defaultSpeed     = 30 * time.Second
	defaultIncrement = 3
	defaultBudget    = 30 * time.Minute
)

// Default table and random draw recipes, used when the file selects the
// kind without giving values.
var (
	defaultRows = []slideshow.Row{
		{Count: 10, Duration: 30 * time.Second},
		{Count: 5, Duration: time.Minute},
		{Count: 2, Duration: 5 * time.Minute},
	}
	defaultCandidates = []time.Duration{
		30 * time.Second, time.Minute, 2 * time.Minute, 5 * time.Minute,
	}
)

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given files in order, later files overriding earlier
// ones. Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in default_folder
	if cfg.DefaultFolder != "" {
		cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	}
	cfg.Strategy.Kind = strings.ToLower(strings.TrimSpace(cfg.Strategy.Kind))

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/poseshow/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// ParseDuration accepts a Go duration string or a whole number of seconds.
// An empty string yields zero.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// GetHistoryConfig returns the history bounds with defaults applied.
func (c *Config) GetHistoryConfig() HistoryConfig {
	cfg := c.History
	if cfg.Shuffle <= 0 {
		cfg.Shuffle = navigator.DefaultShuffleHistory
	}
	if cfg.Random <= 0 {
		cfg.Random = navigator.DefaultRandomHistory
	}
	return cfg
}

// GetStrategyConfig converts the file's strategy section into a slideshow
// configuration, applying defaults for anything left out.
func (c *Config) GetStrategyConfig() (slideshow.Config, error) {
	sc := c.Strategy
	out := slideshow.Config{Kind: slideshow.Kind(sc.Kind)}
	if out.Kind == "" {
		out.Kind = slideshow.KindFixed
	}

	speed, err := ParseDuration(sc.Speed)
	if err != nil {
		return out, fmt.Errorf("strategy.speed: %w", err)
	}
	if speed <= 0 {
		speed = defaultSpeed
	}
	out.Speed = speed

	out.Increment = sc.Increment
	if out.Increment <= 0 {
		out.Increment = defaultIncrement
	}

	for i, r := range sc.Rows {
		d, err := ParseDuration(r.Duration)
		if err != nil {
			return out, fmt.Errorf("strategy.rows[%d].duration: %w", i, err)
		}
		out.Rows = append(out.Rows, slideshow.Row{Count: r.Count, Duration: d})
	}
	if len(out.Rows) == 0 {
		out.Rows = append([]slideshow.Row(nil), defaultRows...)
	}

	budget, err := ParseDuration(sc.Budget)
	if err != nil {
		return out, fmt.Errorf("strategy.budget: %w", err)
	}
	if budget <= 0 {
		budget = defaultBudget
	}
	out.Budget = budget

	for i, s := range sc.Candidates {
		d, err := ParseDuration(s)
		if err != nil {
			return out, fmt.Errorf("strategy.candidates[%d]: %w", i, err)
		}
		out.Candidates = append(out.Candidates, d)
	}
	if len(out.Candidates) == 0 {
		out.Candidates = append([]time.Duration(nil), defaultCandidates...)
	}

	return out, nil
}
