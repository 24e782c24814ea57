package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getCalendar(t *testing.T, server *Server, query string) calendarResponse {
	t.Helper()
	recorder := doRequest(server, http.MethodGet, "/v1/calendar"+query)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp calendarResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func TestGetCalendarGrid(t *testing.T) {
	server := newTestServer(t)

	t.Run("selected value drives the rendered month", func(t *testing.T) {
		resp := getCalendar(t, server, "?value=2024-06-10&min=2024-06-05&max=2024-06-20")

		assert.Equal(t, "2024-06", resp.DisplayMonth)
		assert.Equal(t, "2024-06-10", resp.Value)
		assert.Equal(t, "2024-06-10", resp.FocusedDate)
		require.NotEmpty(t, resp.Weeks)

		tabStops := 0
		for _, week := range resp.Weeks {
			require.Len(t, week, 7)
			for _, cell := range week {
				if cell.TabStop {
					tabStops++
				}
				if cell.Date == "2024-06-04" {
					assert.False(t, cell.Selectable, "day before min must be disabled")
				}
				if cell.Date == "2024-06-10" {
					assert.True(t, cell.Selected)
				}
			}
		}
		assert.Equal(t, 1, tabStops)
	})

	t.Run("empty value renders the current month", func(t *testing.T) {
		resp := getCalendar(t, server, "")

		assert.Equal(t, time.Now().UTC().Format("2006-01"), resp.DisplayMonth)
		assert.Empty(t, resp.Value)
		assert.True(t, resp.TodayEnabled)
	})

	t.Run("unparseable value degrades to a validation error", func(t *testing.T) {
		resp := getCalendar(t, server, "?value=not-a-date")

		assert.Empty(t, resp.Value)
		assert.NotEmpty(t, resp.ValidationError)
	})

	t.Run("month navigation", func(t *testing.T) {
		resp := getCalendar(t, server, "?value=2024-06-10&month=2023-11")
		assert.Equal(t, "2023-11", resp.DisplayMonth)

		forward := getCalendar(t, server, "?value=2024-06-10&month=2024-09")
		assert.Equal(t, "2024-09", forward.DisplayMonth)
	})

	t.Run("malformed bounds are rejected", func(t *testing.T) {
		recorder := doRequest(server, http.MethodGet, "/v1/calendar?min=june")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		recorder = doRequest(server, http.MethodGet, "/v1/calendar?month=late-spring")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
