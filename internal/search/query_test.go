package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Query
	}{
		{
			name: "plain free text",
			raw:  "tawny owl dusk",
			want: Query{Text: "tawny owl dusk"},
		},
		{
			name: "empty query",
			raw:  "",
			want: Query{},
		},
		{
			name: "species tokens repeat",
			raw:  "species:wren species:owl",
			want: Query{Species: []string{"wren", "owl"}},
		},
		{
			name: "component filter",
			raw:  "component:diskmanager failing",
			want: Query{Text: "failing", Component: "diskmanager"},
		},
		{
			name: "confidence lower bound in percent",
			raw:  "confidence:>85",
			want: Query{MinConfidence: floatPtr(0.85)},
		},
		{
			name: "confidence upper bound already fractional",
			raw:  "confidence:<0.4",
			want: Query{MaxConfidence: floatPtr(0.4)},
		},
		{
			name: "single date fills both bounds",
			raw:  "date:2024-06-15",
			want: Query{DateFrom: "2024-06-15", DateTo: "2024-06-15"},
		},
		{
			name: "date range",
			raw:  "date:2024-06-01..2024-06-30",
			want: Query{DateFrom: "2024-06-01", DateTo: "2024-06-30"},
		},
		{
			name: "malformed confidence degrades to free text",
			raw:  "confidence:high",
			want: Query{Text: "confidence:high"},
		},
		{
			name: "malformed date degrades to free text",
			raw:  "date:yesterday",
			want: Query{Text: "date:yesterday"},
		},
		{
			name: "out-of-range confidence degrades to free text",
			raw:  "confidence:>150",
			want: Query{Text: "confidence:>150"},
		},
		{
			name: "unknown key stays free text",
			raw:  "color:red wren",
			want: Query{Text: "color:red wren"},
		},
		{
			name: "bare colon token stays free text",
			raw:  "species: wren",
			want: Query{Text: "species: wren"},
		},
		{
			name: "mixed filters and text",
			raw:  "species:wren confidence:>70 date:2024-06-15 garden",
			want: Query{
				Text:          "garden",
				Species:       []string{"wren"},
				MinConfidence: floatPtr(0.7),
				DateFrom:      "2024-06-15",
				DateTo:        "2024-06-15",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Parse(tt.raw)

			if tt.want.MinConfidence != nil {
				require.NotNil(t, got.MinConfidence)
				assert.InDelta(t, *tt.want.MinConfidence, *got.MinConfidence, 1e-9)
				got.MinConfidence = tt.want.MinConfidence
			}
			if tt.want.MaxConfidence != nil {
				require.NotNil(t, got.MaxConfidence)
				assert.InDelta(t, *tt.want.MaxConfidence, *got.MaxConfidence, 1e-9)
				got.MaxConfidence = tt.want.MaxConfidence
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
