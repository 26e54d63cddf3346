package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2/widget"
)

// DefaultMaxLogMessages bounds the status bar history.
const DefaultMaxLogMessages = 100

type logEntry struct {
	at      time.Time
	message string
}

// LogUIManager keeps a bounded history of status messages and lets the user
// page through it with the up and down buttons of the status bar.
type LogUIManager struct {
	entries []logEntry
	index   int
	max     int
	now     func() time.Time

	label   *widget.Label
	upBtn   *widget.Button
	downBtn *widget.Button
}

func NewLogUIManager(label *widget.Label, upBtn, downBtn *widget.Button, maxMessages int) *LogUIManager {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxLogMessages
	}
	return &LogUIManager{
		entries: make([]logEntry, 0, maxMessages),
		index:   -1,
		max:     maxMessages,
		now:     time.Now,
		label:   label,
		upBtn:   upBtn,
		downBtn: downBtn,
	}
}

// AddLogMessage appends message, dropping the oldest entry when full, and
// jumps the display to it.
func (lm *LogUIManager) AddLogMessage(message string) {
	lm.entries = append(lm.entries, logEntry{at: lm.now(), message: message})
	if len(lm.entries) > lm.max {
		lm.entries = lm.entries[len(lm.entries)-lm.max:]
	}
	lm.index = len(lm.entries) - 1
	lm.UpdateLogDisplay()
}

// Len returns how many messages are kept.
func (lm *LogUIManager) Len() int { return len(lm.entries) }

// Current returns the message on display, or "".
func (lm *LogUIManager) Current() string {
	if lm.index < 0 || lm.index >= len(lm.entries) {
		return ""
	}
	return lm.entries[lm.index].message
}

func (lm *LogUIManager) UpdateLogDisplay() {
	if lm.label == nil || lm.upBtn == nil || lm.downBtn == nil {
		return
	}
	if len(lm.entries) == 0 {
		lm.label.SetText("")
		lm.upBtn.Disable()
		lm.downBtn.Disable()
		return
	}

	lm.index = max(0, min(lm.index, len(lm.entries)-1))
	e := lm.entries[lm.index]
	lm.label.SetText(fmt.Sprintf("[%d/%d] %s %s", lm.index+1, len(lm.entries), e.at.Format("15:04:05"), e.message))

	if lm.index == 0 {
		lm.upBtn.Disable()
	} else {
		lm.upBtn.Enable()
	}
	if lm.index == len(lm.entries)-1 {
		lm.downBtn.Disable()
	} else {
		lm.downBtn.Enable()
	}
}

func (lm *LogUIManager) ShowPreviousLogMessage() {
	if lm.index <= 0 {
		return
	}
	lm.index--
	lm.UpdateLogDisplay()
}

func (lm *LogUIManager) ShowNextLogMessage() {
	if lm.index >= len(lm.entries)-1 {
		return
	}
	lm.index++
	lm.UpdateLogDisplay()
}
