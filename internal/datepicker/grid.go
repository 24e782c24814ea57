package datepicker

import "time"

// Cell is one day cell in the rendered month grid.
type Cell struct {
	Date       string `json:"date"`
	Day        int    `json:"day"`
	InMonth    bool   `json:"in_month"`
	Selectable bool   `json:"selectable"`
	Selected   bool   `json:"selected"`
	Today      bool   `json:"today"`
	Focused    bool   `json:"focused"`
	TabStop    bool   `json:"tab_stop"`
}

// Grid renders the display month as rows of weeks, Sunday first, padded
// with leading/trailing days from the adjacent months. Exactly one cell has
// TabStop set.
func (p *Picker) Grid() [][]Cell {
	first := p.displayMonth
	// Walk back to the Sunday on or before the first of the month.
	start := first.AddDate(0, 0, -int(first.Weekday()))
	last := lastOfMonth(first)

	todayStr := p.today().Format(DateLayout)
	tabStop := p.TabStop()
	focusedStr := p.FocusedDate()

	var weeks [][]Cell
	for day := start; !day.After(last) || day.Weekday() != time.Sunday; day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Sunday {
			weeks = append(weeks, make([]Cell, 0, 7))
		}
		dateStr := day.Format(DateLayout)
		inMonth := day.Month() == first.Month()
		cell := Cell{
			Date:       dateStr,
			Day:        day.Day(),
			InMonth:    inMonth,
			Selectable: inMonth && p.Selectable(dateStr),
			Selected:   dateStr == p.value,
			Today:      dateStr == todayStr,
			Focused:    inMonth && dateStr == focusedStr,
			TabStop:    inMonth && dateStr == tabStop,
		}
		weeks[len(weeks)-1] = append(weeks[len(weeks)-1], cell)
	}

	return weeks
}
