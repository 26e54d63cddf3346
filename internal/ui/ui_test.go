package ui

import (
	"fmt"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poseshow/internal/slideshow"
)

func newTestLogManager(t *testing.T, maxMessages int) (*LogUIManager, *widget.Label, *widget.Button, *widget.Button) {
	t.Helper()
	test.NewTempApp(t)
	label := widget.NewLabel("")
	up := widget.NewButton("", nil)
	down := widget.NewButton("", nil)
	lm := NewLogUIManager(label, up, down, maxMessages)
	lm.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return lm, label, up, down
}

func TestLogUIManagerEmpty(t *testing.T) {
	lm, label, up, down := newTestLogManager(t, 5)
	lm.UpdateLogDisplay()
	assert.Equal(t, "", label.Text)
	assert.True(t, up.Disabled())
	assert.True(t, down.Disabled())
	assert.Equal(t, "", lm.Current())
}

func TestLogUIManagerPaging(t *testing.T) {
	lm, label, up, down := newTestLogManager(t, 5)
	lm.AddLogMessage("first")
	lm.AddLogMessage("second")

	assert.Equal(t, "[2/2] 09:30:00 second", label.Text)
	assert.False(t, up.Disabled())
	assert.True(t, down.Disabled())

	lm.ShowPreviousLogMessage()
	assert.Equal(t, "first", lm.Current())
	assert.True(t, up.Disabled())
	assert.False(t, down.Disabled())

	lm.ShowPreviousLogMessage() // already at the oldest
	assert.Equal(t, "first", lm.Current())

	lm.ShowNextLogMessage()
	assert.Equal(t, "second", lm.Current())

	lm.ShowPreviousLogMessage()
	lm.AddLogMessage("third")
	assert.Equal(t, "third", lm.Current(), "a new message jumps to the end")
}

func TestLogUIManagerDropsOldest(t *testing.T) {
	lm, label, _, _ := newTestLogManager(t, 3)
	for i := 1; i <= 5; i++ {
		lm.AddLogMessage(fmt.Sprintf("msg %d", i))
	}
	assert.Equal(t, 3, lm.Len())
	assert.Equal(t, "[3/3] 09:30:00 msg 5", label.Text)

	lm.ShowPreviousLogMessage()
	lm.ShowPreviousLogMessage()
	assert.Equal(t, "msg 3", lm.Current())
}

func TestNewLogUIManagerDefaultsMax(t *testing.T) {
	lm := NewLogUIManager(nil, nil, nil, 0)
	assert.Equal(t, DefaultMaxLogMessages, lm.max)
	lm.AddLogMessage("no widgets") // must not panic
	assert.Equal(t, "no widgets", lm.Current())
}

func TestTapsBack(t *testing.T) {
	assert.True(t, tapsBack(10, 300))
	assert.True(t, tapsBack(99, 300))
	assert.False(t, tapsBack(100, 300))
	assert.False(t, tapsBack(250, 300))
	assert.False(t, tapsBack(0, 0), "an unsized widget always moves forward")
}

func TestTappableImageSetFile(t *testing.T) {
	test.NewTempApp(t)
	img := newTappableImage(nil, nil)
	img.SetFile("/tmp/a.png")
	assert.Equal(t, "/tmp/a.png", img.File())
	img.SetFile("")
	assert.Equal(t, "", img.File())
}

func TestShortcutCell(t *testing.T) {
	assert.Equal(t, "Description", shortcutCell(0, 0))
	assert.Equal(t, "Shortcut", shortcutCell(0, 1))
	assert.Equal(t, shortcuts[0].description, shortcutCell(1, 0))
	assert.Equal(t, shortcuts[0].keys, shortcutCell(1, 1))
	last := len(shortcuts)
	assert.Equal(t, shortcuts[last-1].keys, shortcutCell(last, 1))
}

func TestFilterPaths(t *testing.T) {
	paths := []string{"/pics/Pose01.jpg", "/pics/hands.png", "/poses/feet.png"}
	assert.Equal(t, paths, filterPaths(paths, ""))
	assert.Equal(t, paths, filterPaths(paths, "   "))
	assert.Equal(t, []string{"/pics/Pose01.jpg"}, filterPaths(paths, "pose"), "only the file name is searched")
	assert.Equal(t, []string{"/pics/hands.png", "/poses/feet.png"}, filterPaths(paths, ".PNG"))
	assert.Empty(t, filterPaths(paths, "torso"))
}

func TestTimingFormRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cfg  slideshow.Config
	}{
		{"fixed", slideshow.Config{Kind: slideshow.KindFixed, Speed: 45 * time.Second}},
		{"incremental", slideshow.Config{Kind: slideshow.KindIncremental, Speed: 10 * time.Second, Increment: 3}},
		{"table", slideshow.Config{Kind: slideshow.KindTable, Rows: []slideshow.Row{
			{Count: 10, Duration: 30 * time.Second},
			{Count: 2, Duration: 5 * time.Minute},
		}}},
		{"random", slideshow.Config{Kind: slideshow.KindRandom, Budget: 20 * time.Minute, Candidates: []time.Duration{
			30 * time.Second, 2 * time.Minute,
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTimingForm(tt.cfg).config()
			require.NoError(t, err)
			assert.Equal(t, tt.cfg, got)
		})
	}
}

func TestTimingFormParsing(t *testing.T) {
	f := timingForm{Kind: " Table ", Rows: "4 x 45\n\n2 X 1m30s\n"}
	cfg, err := f.config()
	require.NoError(t, err)
	assert.Equal(t, slideshow.KindTable, cfg.Kind)
	assert.Equal(t, []slideshow.Row{
		{Count: 4, Duration: 45 * time.Second},
		{Count: 2, Duration: 90 * time.Second},
	}, cfg.Rows)

	f = timingForm{Kind: "random", Budget: "600", Candidates: "30s, ,60"}
	cfg, err = f.config()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Budget)
	assert.Equal(t, []time.Duration{30 * time.Second, time.Minute}, cfg.Candidates)
}

func TestTimingFormErrors(t *testing.T) {
	tests := []struct {
		name string
		form timingForm
		want string
	}{
		{"unknown kind", timingForm{Kind: "warp"}, "unknown kind"},
		{"bad speed", timingForm{Kind: "fixed", Speed: "fast"}, "speed"},
		{"bad increment", timingForm{Kind: "incremental", Speed: "10s", Increment: "many"}, "increment"},
		{"row without separator", timingForm{Kind: "table", Rows: "10 30s"}, "row 1"},
		{"bad row count", timingForm{Kind: "table", Rows: "ten x 30s"}, "count"},
		{"bad budget", timingForm{Kind: "random", Budget: "soon", Candidates: "30s"}, "budget"},
		{"bad candidate", timingForm{Kind: "random", Budget: "1m", Candidates: "30s, later"}, "candidates"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.config()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStudioThemeForcesDark(t *testing.T) {
	base := theme.DefaultTheme()
	th := NewStudioTheme(base)
	assert.Equal(t,
		base.Color(theme.ColorNameBackground, theme.VariantDark),
		th.Color(theme.ColorNameBackground, theme.VariantLight))
	assert.Equal(t, float32(2), th.Size(theme.SizeNamePadding))
	assert.Equal(t, base.Size(theme.SizeNameText), th.Size(theme.SizeNameText))
	assert.NotNil(t, NewStudioTheme(nil))
}
