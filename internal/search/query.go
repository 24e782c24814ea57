// Package search parses dashboard search queries into structured filters
// and provides the debouncer that keeps keystroke-driven searches off the
// hot path.
package search

import (
	"strconv"
	"strings"
	"time"
)

// Query is a parsed dashboard search.
type Query struct {
	// Text is the free-text remainder after filter tokens are extracted.
	Text          string   `json:"text"`
	Species       []string `json:"species,omitempty"`
	Component     string   `json:"component,omitempty"`
	MinConfidence *float64 `json:"min_confidence,omitempty"`
	MaxConfidence *float64 `json:"max_confidence,omitempty"`
	DateFrom      string   `json:"date_from,omitempty"`
	DateTo        string   `json:"date_to,omitempty"`
}

const dateLayout = "2006-01-02"

// Parse extracts filter tokens from a raw query string. Recognized tokens:
//
//	species:<name>         (repeatable)
//	component:<tag>
//	confidence:>N / confidence:<N   (N in percent or 0..1)
//	date:YYYY-MM-DD        single day
//	date:YYYY-MM-DD..YYYY-MM-DD     inclusive range
//
// Malformed tokens degrade to free text rather than failing: the search box
// must accept anything the user types.
func Parse(raw string) Query {
	var q Query
	var free []string

	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, ":")
		if !ok || value == "" {
			free = append(free, token)
			continue
		}

		switch strings.ToLower(key) {
		case "species":
			q.Species = append(q.Species, value)
		case "component":
			q.Component = value
		case "confidence":
			if !parseConfidence(&q, value) {
				free = append(free, token)
			}
		case "date":
			if !parseDate(&q, value) {
				free = append(free, token)
			}
		default:
			free = append(free, token)
		}
	}

	q.Text = strings.Join(free, " ")
	return q
}

func parseConfidence(q *Query, value string) bool {
	if len(value) < 2 {
		return false
	}
	op := value[0]
	if op != '>' && op != '<' {
		return false
	}

	n, err := strconv.ParseFloat(value[1:], 64)
	if err != nil {
		return false
	}
	// Percentages normalize to the 0..1 scale the detector reports.
	if n > 1 {
		n /= 100
	}
	if n < 0 || n > 1 {
		return false
	}

	if op == '>' {
		q.MinConfidence = &n
	} else {
		q.MaxConfidence = &n
	}
	return true
}

func parseDate(q *Query, value string) bool {
	from, to, isRange := strings.Cut(value, "..")
	if _, err := time.Parse(dateLayout, from); err != nil {
		return false
	}
	if !isRange {
		q.DateFrom, q.DateTo = from, from
		return true
	}
	if _, err := time.Parse(dateLayout, to); err != nil {
		return false
	}
	q.DateFrom, q.DateTo = from, to
	return true
}
