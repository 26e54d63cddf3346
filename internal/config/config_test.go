package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poseshow/internal/slideshow"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "tilde expands to home", input: "~/pictures", expected: filepath.Join(home, "pictures")},
		{name: "absolute path unchanged", input: "/srv/poses", expected: "/srv/poses"},
		{name: "relative path unchanged", input: "poses/hands", expected: "poses/hands"},
		{name: "empty string unchanged", input: "", expected: ""},
		{name: "tilde only", input: "~", expected: home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandPath(tt.input))
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()
	require.Len(t, paths, 2)
	assert.Equal(t, "config.toml", paths[len(paths)-1], "local config has the highest priority")
	assert.Equal(t, "config.toml", filepath.Base(paths[0]))
	assert.Equal(t, appName, filepath.Base(filepath.Dir(paths[0])))
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{input: "", expected: 0},
		{input: "45", expected: 45 * time.Second},
		{input: " 1m30s ", expected: 90 * time.Second},
		{input: "2h", expected: 2 * time.Hour},
		{input: "soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestLoadFromMissingFilesGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.False(t, cfg.Recursive)

	h := cfg.GetHistoryConfig()
	assert.Equal(t, 10, h.Shuffle)
	assert.Equal(t, 50, h.Random)

	sc, err := cfg.GetStrategyConfig()
	require.NoError(t, err)
	assert.Equal(t, slideshow.KindFixed, sc.Kind)
	assert.Equal(t, 30*time.Second, sc.Speed)
	assert.Equal(t, 3, sc.Increment)
	assert.Equal(t, 30*time.Minute, sc.Budget)
	assert.NotEmpty(t, sc.Rows)
	assert.NotEmpty(t, sc.Candidates)

	_, err = slideshow.Build(sc, nil)
	assert.NoError(t, err)
}

func TestLoadFromTable(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", `
default_folder = "/srv/poses"
recursive = true

[strategy]
kind = "Table"

[[strategy.rows]]
count = 3
duration = "5s"

[[strategy.rows]]
count = 1
duration = "60"

[history]
shuffle = 4
`)
	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/poses", cfg.DefaultFolder)
	assert.True(t, cfg.Recursive)
	assert.Equal(t, 4, cfg.GetHistoryConfig().Shuffle)
	assert.Equal(t, 50, cfg.GetHistoryConfig().Random)

	sc, err := cfg.GetStrategyConfig()
	require.NoError(t, err)
	assert.Equal(t, slideshow.KindTable, sc.Kind)
	assert.Equal(t, []slideshow.Row{
		{Count: 3, Duration: 5 * time.Second},
		{Count: 1, Duration: time.Minute},
	}, sc.Rows)

	s, err := slideshow.Build(sc, nil)
	require.NoError(t, err)
	assert.Equal(t, slideshow.KindTable, s.Kind())
}

func TestLoadFromLaterFileWins(t *testing.T) {
	dir := t.TempDir()
	first := writeConfig(t, dir, "user.toml", `
[strategy]
kind = "incremental"
speed = "10s"
increment = 5
`)
	second := writeConfig(t, dir, "local.toml", `
[strategy]
speed = "20s"
`)
	cfg, err := LoadFrom(first, second)
	require.NoError(t, err)

	sc, err := cfg.GetStrategyConfig()
	require.NoError(t, err)
	assert.Equal(t, slideshow.KindIncremental, sc.Kind)
	assert.Equal(t, 20*time.Second, sc.Speed)
	assert.Equal(t, 5, sc.Increment)
}

func TestLoadFromRandomDraw(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.toml", `
[strategy]
kind = "random"
budget = "10m"
candidates = ["30", "1m", "2m"]
`)
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	sc, err := cfg.GetStrategyConfig()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, sc.Budget)
	assert.Equal(t, []time.Duration{30 * time.Second, time.Minute, 2 * time.Minute}, sc.Candidates)
}

func TestGetStrategyConfigRejectsBadDurations(t *testing.T) {
	cfg := &Config{Strategy: StrategyConfig{Speed: "fast"}}
	_, err := cfg.GetStrategyConfig()
	assert.ErrorContains(t, err, "strategy.speed")

	cfg = &Config{Strategy: StrategyConfig{Rows: []RowConfig{{Count: 1, Duration: "x"}}}}
	_, err = cfg.GetStrategyConfig()
	assert.ErrorContains(t, err, "strategy.rows[0]")
}

func TestLoadFromMalformedFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.toml", "recursive = [")
	_, err := LoadFrom(path)
	assert.Error(t, err)
}
