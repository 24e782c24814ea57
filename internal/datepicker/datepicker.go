// Package datepicker implements the calendar date-picker state machine used
// by the dashboard: keyboard and pointer navigation over a month grid with
// inclusive min/max bounds, a single roving tab stop, and a screen-reader
// announcement string.
package datepicker

import (
	"fmt"
	"time"
)

// DateLayout is the fixed-width date format used throughout. Because it is
// zero-padded, lexicographic comparison of formatted dates matches
// chronological order.
const DateLayout = "2006-01-02"

// Key identifies a keyboard input the picker reacts to.
type Key string

const (
	KeyEnter      Key = "Enter"
	KeySpace      Key = " "
	KeyEscape     Key = "Escape"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
	KeyArrowUp    Key = "ArrowUp"
	KeyArrowDown  Key = "ArrowDown"
	KeyHome       Key = "Home"
	KeyEnd        Key = "End"
	KeyPageUp     Key = "PageUp"
	KeyPageDown   Key = "PageDown"
)

// Picker holds the transient calendar state. The committed value is owned
// by the caller: the picker only changes it through the selection callback
// and SetValue.
type Picker struct {
	value    string
	minDate  string
	maxDate  string
	onSelect func(string)

	open            bool
	displayMonth    time.Time // always the first day of the rendered month
	focused         time.Time
	keyboardFocused bool
	triggerFocused  bool
	announcement    string
	validationErr   string

	now func() time.Time
}

// New creates a picker in the closed state. An unparseable value degrades
// to "no selection" with a validation error rather than failing.
func New(value, minDate, maxDate string, onSelect func(string)) *Picker {
	p := &Picker{
		minDate:  minDate,
		maxDate:  maxDate,
		onSelect: onSelect,
		now:      time.Now,
	}
	p.SetValue(value)
	return p
}

// SetNow overrides the clock, for tests.
func (p *Picker) SetNow(now func() time.Time) {
	p.now = now
}

// SetValue updates the committed selection from the caller. Invalid input
// clears the selection and records a validation error.
func (p *Picker) SetValue(value string) {
	p.validationErr = ""
	if value == "" {
		p.value = ""
		return
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		p.value = ""
		p.validationErr = fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", value)
		return
	}
	p.value = value
}

func (p *Picker) Value() string           { return p.value }
func (p *Picker) IsOpen() bool            { return p.open }
func (p *Picker) Announcement() string    { return p.announcement }
func (p *Picker) ValidationError() string { return p.validationErr }

// TriggerHasFocus reports whether keyboard focus has been handed back to
// the trigger control (after close or commit).
func (p *Picker) TriggerHasFocus() bool { return p.triggerFocused }

// DisplayMonth returns the rendered month as "YYYY-MM".
func (p *Picker) DisplayMonth() string {
	return p.displayMonth.Format("2006-01")
}

// FocusedDate returns the date cell holding keyboard focus.
func (p *Picker) FocusedDate() string {
	return p.focused.Format(DateLayout)
}

// Selectable reports whether a date may be committed: an inclusive range
// check. The fixed-width format makes string comparison valid.
func (p *Picker) Selectable(date string) bool {
	if p.minDate != "" && date < p.minDate {
		return false
	}
	if p.maxDate != "" && date > p.maxDate {
		return false
	}
	return true
}

// TodayEnabled reports whether the "Today" shortcut is interactive.
func (p *Picker) TodayEnabled() bool {
	return p.Selectable(p.today().Format(DateLayout))
}

// Open shows the calendar. Focus starts on the selected date when one is
// set and parseable, otherwise on today.
func (p *Picker) Open() {
	p.open = true
	p.triggerFocused = false
	p.keyboardFocused = false

	focus := p.today()
	if p.value != "" {
		if parsed, err := time.Parse(DateLayout, p.value); err == nil {
			focus = parsed
		}
	}
	p.focused = focus
	p.displayMonth = monthOf(focus)
	p.announce("calendar opened")
}

// Close hides the calendar without committing and returns focus to the
// trigger.
func (p *Picker) Close() {
	p.open = false
	p.triggerFocused = true
	p.announce("calendar closed")
}

// HandleKey feeds one keyboard event into the state machine.
func (p *Picker) HandleKey(key Key, shift bool) {
	if !p.open {
		if key == KeyEnter || key == KeySpace {
			p.Open()
		}
		return
	}

	switch key {
	case KeyEscape:
		p.Close()
	case KeyArrowLeft:
		p.moveFocusDays(-1)
	case KeyArrowRight:
		p.moveFocusDays(1)
	case KeyArrowUp:
		p.moveFocusDays(-7)
	case KeyArrowDown:
		p.moveFocusDays(7)
	case KeyHome:
		p.setFocus(p.displayMonth)
	case KeyEnd:
		p.setFocus(lastOfMonth(p.displayMonth))
	case KeyPageUp:
		if shift {
			p.shiftDisplayMonth(-12)
		} else {
			p.shiftDisplayMonth(-1)
		}
	case KeyPageDown:
		if shift {
			p.shiftDisplayMonth(12)
		} else {
			p.shiftDisplayMonth(1)
		}
	case KeyEnter, KeySpace:
		p.commit(p.focused)
	}
}

// ClickDay commits a pointer selection on a day cell. Clicking a disabled
// day leaves the value unchanged.
func (p *Picker) ClickDay(date string) {
	if !p.open {
		return
	}
	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return
	}
	p.commit(parsed)
}

// ClickOutside closes the calendar without committing.
func (p *Picker) ClickOutside() {
	if !p.open {
		return
	}
	p.Close()
}

// SelectToday runs the commit path for the current date. Disabled when
// today is out of range.
func (p *Picker) SelectToday() {
	if !p.open || !p.TodayEnabled() {
		return
	}
	p.commit(p.today())
}

// TabStop returns the single cell that is keyboard-tabbable: the focused
// cell once arrow keys have moved it, else the selected cell when it is in
// view, else today when it is in view, else the focused cell.
func (p *Picker) TabStop() string {
	if p.keyboardFocused {
		return p.FocusedDate()
	}
	if p.value != "" {
		if parsed, err := time.Parse(DateLayout, p.value); err == nil && monthOf(parsed).Equal(p.displayMonth) {
			return p.value
		}
	}
	if today := p.today(); monthOf(today).Equal(p.displayMonth) {
		return today.Format(DateLayout)
	}
	return p.FocusedDate()
}

// commit invokes the selection callback when the date is in range, closes
// the calendar and hands focus back to the trigger. Out-of-range dates keep
// the calendar open and announce the refusal.
func (p *Picker) commit(date time.Time) {
	formatted := date.Format(DateLayout)
	if !p.Selectable(formatted) {
		p.announce("day unavailable")
		return
	}

	p.value = formatted
	if p.onSelect != nil {
		p.onSelect(formatted)
	}
	p.open = false
	p.triggerFocused = true
	p.announce(fmt.Sprintf("selected %s", formatted))
}

// moveFocusDays shifts the focus cursor, pulling the rendered month along
// whenever the cursor crosses a month boundary.
func (p *Picker) moveFocusDays(days int) {
	p.setFocus(p.focused.AddDate(0, 0, days))
}

func (p *Picker) setFocus(date time.Time) {
	p.focused = date
	p.keyboardFocused = true
	if !monthOf(date).Equal(p.displayMonth) {
		p.displayMonth = monthOf(date)
	}
	p.announce(p.focused.Format("Monday, January 2, 2006"))
}

// shiftDisplayMonth moves the rendered month and clamps the focus cursor's
// day-of-month into the target month so it stays visible.
func (p *Picker) shiftDisplayMonth(months int) {
	p.displayMonth = p.displayMonth.AddDate(0, months, 0)

	day := p.focused.Day()
	if last := lastOfMonth(p.displayMonth).Day(); day > last {
		day = last
	}
	p.focused = time.Date(p.displayMonth.Year(), p.displayMonth.Month(), day, 0, 0, 0, 0, p.displayMonth.Location())
	p.keyboardFocused = true
	p.announce(p.displayMonth.Format("January 2006"))
}

func (p *Picker) announce(message string) {
	p.announcement = message
}

func (p *Picker) today() time.Time {
	now := p.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func monthOf(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func lastOfMonth(firstOfMonth time.Time) time.Time {
	return firstOfMonth.AddDate(0, 1, -1)
}
