package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"poseshow/internal/config"
	"poseshow/internal/slideshow"
)

// timingForm is the text behind the timing dialog's entries.
type timingForm struct {
	Kind       string
	Speed      string
	Increment  string
	Budget     string
	Rows       string // one "count x duration" per line
	Candidates string // comma separated durations
}

func newTimingForm(cfg slideshow.Config) timingForm {
	f := timingForm{
		Kind:      string(cfg.Kind),
		Speed:     cfg.Speed.String(),
		Increment: strconv.Itoa(cfg.Increment),
		Budget:    cfg.Budget.String(),
	}
	if f.Kind == "" {
		f.Kind = string(slideshow.KindFixed)
	}
	rows := make([]string, len(cfg.Rows))
	for i, r := range cfg.Rows {
		rows[i] = fmt.Sprintf("%d x %s", r.Count, r.Duration)
	}
	f.Rows = strings.Join(rows, "\n")
	candidates := make([]string, len(cfg.Candidates))
	for i, c := range cfg.Candidates {
		candidates[i] = c.String()
	}
	f.Candidates = strings.Join(candidates, ", ")
	return f
}

// config parses the form. Only the fields the chosen kind needs must be
// valid; slideshow.Build does the range checks.
func (f timingForm) config() (slideshow.Config, error) {
	cfg := slideshow.Config{Kind: slideshow.Kind(strings.ToLower(strings.TrimSpace(f.Kind)))}
	var err error
	switch cfg.Kind {
	case slideshow.KindFixed:
		cfg.Speed, err = parseField("speed", f.Speed)
	case slideshow.KindIncremental:
		if cfg.Speed, err = parseField("speed", f.Speed); err != nil {
			return cfg, err
		}
		cfg.Increment, err = strconv.Atoi(strings.TrimSpace(f.Increment))
		if err != nil {
			err = fmt.Errorf("increment: %w", err)
		}
	case slideshow.KindTable:
		cfg.Rows, err = parseRows(f.Rows)
	case slideshow.KindRandom:
		if cfg.Budget, err = parseField("budget", f.Budget); err != nil {
			return cfg, err
		}
		cfg.Candidates, err = parseDurations(f.Candidates)
	default:
		err = fmt.Errorf("unknown kind %q", f.Kind)
	}
	return cfg, err
}

func parseField(name, value string) (time.Duration, error) {
	d, err := config.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// parseRows reads lines such as "10 x 30s". Blank lines are skipped.
func parseRows(text string) ([]slideshow.Row, error) {
	var rows []slideshow.Row
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		count, duration, ok := strings.Cut(strings.ToLower(line), "x")
		if !ok {
			return nil, fmt.Errorf("row %d: expected \"count x duration\", got %q", i+1, line)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return nil, fmt.Errorf("row %d: count: %w", i+1, err)
		}
		d, err := config.ParseDuration(duration)
		if err != nil {
			return nil, fmt.Errorf("row %d: duration: %w", i+1, err)
		}
		rows = append(rows, slideshow.Row{Count: n, Duration: d})
	}
	return rows, nil
}

func parseDurations(text string) ([]time.Duration, error) {
	var out []time.Duration
	for _, field := range strings.Split(text, ",") {
		if strings.TrimSpace(field) == "" {
			continue
		}
		d, err := config.ParseDuration(field)
		if err != nil {
			return nil, fmt.Errorf("candidates: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

// showTimingDialog lets the user pick the slideshow strategy. Applying it
// stops a running slideshow.
func (a *App) showTimingDialog() {
	form := newTimingForm(a.Service.StrategyConfig())

	kinds := []string{
		string(slideshow.KindFixed),
		string(slideshow.KindIncremental),
		string(slideshow.KindTable),
		string(slideshow.KindRandom),
	}
	kindSelect := widget.NewSelect(kinds, nil)
	kindSelect.SetSelected(form.Kind)

	speedEntry := widget.NewEntry()
	speedEntry.SetText(form.Speed)
	incrementEntry := widget.NewEntry()
	incrementEntry.SetText(form.Increment)
	budgetEntry := widget.NewEntry()
	budgetEntry.SetText(form.Budget)
	rowsEntry := widget.NewMultiLineEntry()
	rowsEntry.SetText(form.Rows)
	rowsEntry.SetMinRowsVisible(4)
	candidatesEntry := widget.NewEntry()
	candidatesEntry.SetText(form.Candidates)

	items := []*widget.FormItem{
		widget.NewFormItem("Kind", kindSelect),
		{Text: "Speed", Widget: speedEntry, HintText: "Fixed and incremental, e.g. 30s"},
		{Text: "Increment", Widget: incrementEntry, HintText: "Incremental doublings"},
		{Text: "Rows", Widget: rowsEntry, HintText: "Table, one \"count x duration\" per line"},
		{Text: "Budget", Widget: budgetEntry, HintText: "Random total time, e.g. 30m"},
		{Text: "Candidates", Widget: candidatesEntry, HintText: "Random durations, e.g. 30s, 1m"},
	}

	d := dialog.NewForm("Slideshow Timing", "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		f := timingForm{
			Kind:       kindSelect.Selected,
			Speed:      speedEntry.Text,
			Increment:  incrementEntry.Text,
			Budget:     budgetEntry.Text,
			Rows:       rowsEntry.Text,
			Candidates: candidatesEntry.Text,
		}
		cfg, err := f.config()
		if err == nil {
			err = a.Service.SelectStrategy(cfg)
		}
		if err != nil {
			a.reportError("Slideshow timing", err)
			return
		}
		a.addLogMessage(a.Service.Slideshow.FormatNotifyMessage())
		a.updatePlayIcon()
		a.updateStatusBar()
	}, a.UI.MainWin)
	d.Show()
}
