package menu_parser_service

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

const (
	// Days between the spreadsheet epoch (1899-12-30) and the unix epoch.
	serialUnixEpochOffset = 25569
	secondsPerDay         = 86400

	// 9999-12-31, the last date spreadsheets can represent.
	maxSerial = 2958465

	dayMonthYearLayout = "02-01-2006"
)

var dayMonthYearPattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Mon Jan 02 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate reads a date cell. Numeric values are spreadsheet serials,
// DD-MM-YYYY strings are day-month-year, anything else is tried against
// a list of common layouts. The result is a UTC calendar date.
func ParseDate(raw string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return FromSerial(serial)
	}

	if dayMonthYearPattern.MatchString(raw) {
		t, err := time.Parse(dayMonthYearLayout, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		return t, nil
	}

	value := strings.TrimSpace(raw)
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return calendarDate(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// FromSerial converts a spreadsheet date serial: (serial - 25569) * 86400
// seconds since the unix epoch, rounded to the millisecond.
func FromSerial(serial float64) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 || serial > maxSerial {
		return time.Time{}, fmt.Errorf("%w: serial %v out of range", ErrInvalidDate, serial)
	}

	millis := math.Round((serial - serialUnixEpochOffset) * secondsPerDay * 1000)
	return calendarDate(time.UnixMilli(int64(millis)).UTC()), nil
}

func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
