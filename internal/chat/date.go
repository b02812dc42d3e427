package chat

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseTimestamp resolves the date and clock fields of a start line into a
// wall-clock time. No timezone is attached; values are stored in UTC.
func parseTimestamp(date, clock string) (time.Time, error) {
	year, month, day, err := parseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	hour, min, sec, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC), nil
}

// parseDate resolves a numeric date with a day-first preference: "13/01/18"
// is 13 Jan 2018, never month 13. A four-digit leading field flips the
// order to year-month-day ("2016-06-27"). Separators are ".", "/" or "-".
func parseDate(s string) (year, month, day int, err error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '/' || r == '-'
	})
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("date %q: want 3 fields, have %d", s, len(fields))
	}

	nums := make([]int, 3)
	for i, f := range fields {
		n, convErr := strconv.Atoi(f)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("date %q: bad field %q", s, f)
		}
		nums[i] = n
	}

	if len(fields[0]) == 4 {
		year, month, day = nums[0], nums[1], nums[2]
	} else {
		day, month, year = nums[0], nums[1], nums[2]
	}

	// Two-digit years follow the time.Parse "06" convention.
	if year < 100 {
		if year <= 68 {
			year += 2000
		} else {
			year += 1900
		}
	}

	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("date %q: month %d out of range", s, month)
	}
	if day < 1 || day > daysIn(year, month) {
		return 0, 0, 0, fmt.Errorf("date %q: day %d out of range", s, day)
	}
	return year, month, day, nil
}

// parseClock resolves "HH:MM", "HH:MM:SS" and 12-hour variants with an
// " AM"/" PM" suffix ("8:04:08 AM"). 12 AM maps to hour 0.
func parseClock(s string) (hour, min, sec int, err error) {
	meridiem := ""
	if cut, ok := strings.CutSuffix(s, " AM"); ok {
		s, meridiem = cut, "AM"
	} else if cut, ok := strings.CutSuffix(s, " PM"); ok {
		s, meridiem = cut, "PM"
	}

	fields := strings.Split(s, ":")
	if len(fields) != 2 && len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("time %q: want 2 or 3 fields, have %d", s, len(fields))
	}
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, convErr := strconv.Atoi(f)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("time %q: bad field %q", s, f)
		}
		nums[i] = n
	}

	hour, min = nums[0], nums[1]
	if len(nums) == 3 {
		sec = nums[2]
	}

	switch meridiem {
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, 0, 0, fmt.Errorf("time %q: hour %d out of 12-hour range", s, hour)
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, 0, 0, fmt.Errorf("time %q: hour %d out of 12-hour range", s, hour)
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour > 23 {
			return 0, 0, 0, fmt.Errorf("time %q: hour %d out of range", s, hour)
		}
	}
	if min > 59 || sec > 59 {
		return 0, 0, 0, fmt.Errorf("time %q: minute or second out of range", s)
	}
	return hour, min, sec, nil
}

func daysIn(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
