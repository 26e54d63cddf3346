package slideshow

import (
	"fmt"
	"time"
)

// Row is one line of a recipe: Count images shown for Duration each.
type Row struct {
	Count    int           `json:"count" koanf:"count"`
	Duration time.Duration `json:"duration" koanf:"duration"`
}

// Table walks a recipe of rows in order and completes after the last one.
type Table struct {
	rows     []Row
	row      int
	consumed int
}

// NewTable creates a recipe strategy.
func NewTable(rows []Row) *Table {
	r := make([]Row, len(rows))
	copy(r, rows)
	return &Table{rows: r}
}

func (t *Table) Kind() Kind { return KindTable }

func (t *Table) Reset() {
	t.row = 0
	t.consumed = 0
}

// Rows returns a copy of the recipe.
func (t *Table) Rows() []Row {
	r := make([]Row, len(t.rows))
	copy(r, t.rows)
	return r
}

// Next hands out the current row's duration until the row is used up,
// then moves on. Moving into a later row reports EventChanged. Past the
// last row it reports EventComplete and rewinds to the first row.
func (t *Table) Next() (time.Duration, Event) {
	changed := false
	for t.row < len(t.rows) {
		r := t.rows[t.row]
		if t.consumed < r.Count {
			t.consumed++
			if changed {
				return r.Duration, EventChanged
			}
			return r.Duration, EventNone
		}
		t.row++
		t.consumed = 0
		if t.row < len(t.rows) {
			changed = true
		}
	}
	t.Reset()
	return 0, EventComplete
}

func (t *Table) Speed() time.Duration {
	if t.row < len(t.rows) {
		return t.rows[t.row].Duration
	}
	return 0
}

// TotalTime returns the duration of a whole run.
func (t *Table) TotalTime() time.Duration {
	var total time.Duration
	for _, r := range t.rows {
		if r.Count > 0 {
			total += time.Duration(r.Count) * r.Duration
		}
	}
	return total
}

// TimeLeft returns the duration of the intervals not yet handed out.
func (t *Table) TimeLeft() time.Duration {
	var total time.Duration
	for i := t.row; i < len(t.rows); i++ {
		left := t.rows[i].Count
		if i == t.row {
			left -= t.consumed
		}
		if left > 0 {
			total += time.Duration(left) * t.rows[i].Duration
		}
	}
	return total
}

func (t *Table) Notice() string {
	if t.row >= len(t.rows) {
		return "Slideshow complete"
	}
	r := t.rows[t.row]
	return fmt.Sprintf("Next %d images at %s (row %d of %d)\nTime left in slideshow: %s",
		r.Count-t.consumed+1, FormatSecs(r.Duration), t.row+1, len(t.rows), FormatSecs(t.TimeLeft()))
}
