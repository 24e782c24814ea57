package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wrenwatch/birdboard-BE/internal/datepicker"
)

type calendarResponse struct {
	DisplayMonth    string              `json:"display_month"`
	Value           string              `json:"value"`
	FocusedDate     string              `json:"focused_date"`
	TodayEnabled    bool                `json:"today_enabled"`
	ValidationError string              `json:"validation_error,omitempty"`
	Weeks           [][]datepicker.Cell `json:"weeks"`
}

// getCalendarGrid renders the date-picker month grid the dashboard asks for
// when the calendar opens or navigates. An unparseable value degrades to
// "no selection" plus a validation error instead of failing the request.
func (server *Server) getCalendarGrid(c *gin.Context) {
	value := c.Query("value")
	minDate := c.Query("min")
	maxDate := c.Query("max")

	var violations []*FieldViolation
	for field, raw := range map[string]string{"min": minDate, "max": maxDate} {
		if raw == "" {
			continue
		}
		if _, err := time.Parse(datepicker.DateLayout, raw); err != nil {
			violations = append(violations, fieldViolation(field, fmt.Errorf("expected YYYY-MM-DD, got %q", raw)))
		}
	}
	if len(violations) > 0 {
		c.JSON(http.StatusBadRequest, failedValidationError(violations))
		return
	}

	picker := datepicker.New(value, minDate, maxDate, nil)
	picker.Open()

	if month := c.Query("month"); month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			c.JSON(http.StatusBadRequest, failedValidationError([]*FieldViolation{
				fieldViolation("month", fmt.Errorf("expected YYYY-MM, got %q", month)),
			}))
			return
		}
		// Navigate the picker to the requested month the same way
		// PageUp/PageDown would, keeping the focus cursor in view.
		current, _ := time.Parse("2006-01", picker.DisplayMonth())
		months := (parsed.Year()-current.Year())*12 + int(parsed.Month()-current.Month())
		if months < 0 {
			for range -months {
				picker.HandleKey(datepicker.KeyPageUp, false)
			}
		} else {
			for range months {
				picker.HandleKey(datepicker.KeyPageDown, false)
			}
		}
	}

	c.JSON(http.StatusOK, calendarResponse{
		DisplayMonth:    picker.DisplayMonth(),
		Value:           picker.Value(),
		FocusedDate:     picker.FocusedDate(),
		TodayEnabled:    picker.TodayEnabled(),
		ValidationError: picker.ValidationError(),
		Weeks:           picker.Grid(),
	})
}
