package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"iso date", "2024-03-15", "2024-03-15"},
		{"surrounding whitespace", "  2024-03-15  ", "2024-03-15"},
		{"iso prefix keeps first ten characters", "2024-03-15T22:10:00Z", "2024-03-15"},
		{"day first with dashes", "15-03-2024", "2024-03-15"},
		{"day first with dots", "15.03.2024", "2024-03-15"},
		{"month first with slashes", "03/15/2024", "2024-03-15"},
		{"single digit month first", "3/5/2024", "2024-03-05"},
		{"day first with time", "15-03-2024 10:30", "2024-03-15"},
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"garbage", "not a date", ""},
		{"day first slash is rejected", "15/03/2024", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.input))
		})
	}
}

func TestNormalizeDateTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *string
	}{
		{"minutes only gets seconds", "2024-03-15 10:30", strPtr("2024-03-15 10:30:00")},
		{"full date time kept", "2024-03-15 10:30:45", strPtr("2024-03-15 10:30:45")},
		{"trimmed", " 2024-03-15 10:30 ", strPtr("2024-03-15 10:30:00")},
		{"utc designator", "2024-03-15T10:30:00Z", strPtr("2024-03-15 10:30:00")},
		{"offset keeps wall clock", "2024-03-15T10:30:00-06:00", strPtr("2024-03-15 10:30:00")},
		{"iso without seconds", "2024-03-15T10:30", strPtr("2024-03-15 10:30:00")},
		{"fractional seconds dropped", "2024-03-15 10:30:45.123", strPtr("2024-03-15 10:30:45")},
		{"date only is midnight", "2024-03-15", strPtr("2024-03-15 00:00:00")},
		{"day first", "15-03-2024 08:05", strPtr("2024-03-15 08:05:00")},
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"garbage", "tomorrow-ish", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDateTime(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestNormalizeOptionalText(t *testing.T) {
	assert.Nil(t, NormalizeOptionalText(nil))
	assert.Nil(t, NormalizeOptionalText(strPtr("")))
	assert.Nil(t, NormalizeOptionalText(strPtr("   ")))

	got := NormalizeOptionalText(strPtr("  Recibido por Juan  "))
	if assert.NotNil(t, got) {
		assert.Equal(t, "Recibido por Juan", *got)
	}
}

func strPtr(s string) *string {
	return &s
}
