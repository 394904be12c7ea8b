package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Violation Type", "violation_type"},
		{"surrounding whitespace", "  Driver Name ", "driver_name"},
		{"already canonical", "driver_name", "driver_name"},
		{"mixed case", "EVENT Type", "event_type"},
		{"keeps parens", "Personal Conveyance (Duration)", "personal_conveyance_(duration)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHeader(tt.input)
			assert.Equal(t, tt.want, got)
			// Idempotence: applying twice yields the same result as once.
			assert.Equal(t, got, NormalizeHeader(got))
		})
	}
}

func TestNormalizeHeaderStripParens(t *testing.T) {
	got := NormalizeHeaderStripParens("Personal Conveyance (Duration)")
	assert.Equal(t, "personal_conveyance_duration", got)
	assert.Equal(t, got, NormalizeHeaderStripParens(got))

	assert.Equal(t, "heavy_speeding_time_hh:mm:ss",
		NormalizeHeaderStripParens("Heavy Speeding Time (hh:mm:ss)"))
}

func TestColumnsContain(t *testing.T) {
	table := NewTable([]string{"Driver Name", "PC_Duration", "Week Of 6/2/2025"})

	tests := []struct {
		substring string
		want      bool
	}{
		{"driver name", true},
		{"driver", true},
		{"pc_duration", true}, // underscore needle matches underscore header
		{"pc duration", true}, // separator style is irrelevant
		{"week", true},
		{"vehicle", false},
	}

	for _, tt := range tests {
		t.Run(tt.substring, func(t *testing.T) {
			assert.Equal(t, tt.want, ColumnsContain(table, tt.substring))
		})
	}
}

func TestFindColumn(t *testing.T) {
	table := NewTable([]string{"Driver", "Heavy Speeding Time (hh:mm:ss)", "Severe Speeding Time (hh:mm:ss)"})

	assert.Equal(t, 1, findColumn(table, "heavy", "speeding", "time"))
	assert.Equal(t, 2, findColumn(table, "severe", "speeding", "time"))
	assert.Equal(t, -1, findColumn(table, "unassigned", "time"))
}
