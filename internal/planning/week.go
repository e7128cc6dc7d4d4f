package planning

import (
	"fmt"
	"strconv"
	"time"
)

// DayKeyLayout is the layout of day keys in Schedule.Days.
const DayKeyLayout = "2006-01-02"

// WorkDays is the number of dates returned by DatesOfWeek (Monday to Friday).
const WorkDays = 5

// civil returns the calendar date of t at noon UTC so that formatting never shifts the day.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// WeekIdentifierOf returns the ISO 8601 week of t as "YYYY-Www".
func WeekIdentifierOf(t time.Time) string {
	year, week := civil(t).ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// ParseWeekID splits a "YYYY-Www" identifier and checks the week exists in that ISO year.
func ParseWeekID(id string) (year, week int, err error) {
	if len(id) != 8 || id[4] != '-' || id[5] != 'W' || !allDigits(id[:4]) || !allDigits(id[6:]) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidWeek, id)
	}
	year, err = strconv.Atoi(id[:4])
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidWeek, id)
	}
	week, err = strconv.Atoi(id[6:])
	if err != nil || week < 1 || week > WeeksInYear(year) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidWeek, id)
	}
	return year, week, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// WeeksInYear returns 52 or 53 for the given ISO week-numbering year.
func WeeksInYear(year int) int {
	// December 28 always falls in the last ISO week of its year.
	_, week := time.Date(year, time.December, 28, 12, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// MondayOf returns the Monday of the given ISO week.
func MondayOf(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 12, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset+(week-1)*7)
}

// DatesOfWeek returns Monday to Friday of the week identified by id.
// Malformed or empty identifiers yield an empty slice.
func DatesOfWeek(id string) []time.Time {
	year, week, err := ParseWeekID(id)
	if err != nil {
		return []time.Time{}
	}
	monday := MondayOf(year, week)
	dates := make([]time.Time, WorkDays)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// DayKey formats a date as a Schedule.Days key.
func DayKey(t time.Time) string {
	return civil(t).Format(DayKeyLayout)
}

// ParseDayKey parses a day key and rejects weekend dates.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.Parse(DayKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDay, key)
	}
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return time.Time{}, fmt.Errorf("%w: %q is a %s", ErrInvalidDay, key, wd)
	}
	return civil(t), nil
}
