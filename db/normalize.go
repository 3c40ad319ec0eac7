package db

import (
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cast"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var (
	datePrefixPattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	storedDateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}(?::\d{2})?$`)
)

// Layouts tried before falling back to the ones cast knows about.
// Slash dates are month first, dash and dot dates are day first.
var parseLayouts = []string{
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2-1-2006",
	"2.1.2006 15:04:05",
	"2.1.2006 15:04",
	"2.1.2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2006/1/2 15:04:05",
	"2006/1/2",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// NormalizeDate returns value as YYYY-MM-DD, or "" when it is blank or
// cannot be read as a date.
func NormalizeDate(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}

	if datePrefixPattern.MatchString(s) {
		return s[:10]
	}

	t, ok := parseTime(s)
	if !ok {
		return ""
	}
	return t.Format(dateLayout)
}

// NormalizeDateTime returns value as YYYY-MM-DD HH:MM:SS, or nil when it is
// blank or cannot be read as a date-time. Zone-qualified input keeps the
// wall clock of its own offset.
func NormalizeDateTime(value string) *string {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}

	if storedDateTimePattern.MatchString(s) {
		if len(s) == 16 {
			s += ":00"
		}
		return &s
	}

	t, ok := parseTime(s)
	if !ok {
		return nil
	}
	formatted := t.Format(dateTimeLayout)
	return &formatted
}

// NormalizeOptionalText maps nil and blank values to nil and trims the rest.
func NormalizeOptionalText(value *string) *string {
	if value == nil {
		return nil
	}
	s := strings.TrimSpace(*value)
	if s == "" {
		return nil
	}
	return &s
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}

	t, err := cast.ToTimeInDefaultLocationE(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
