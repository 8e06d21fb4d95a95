package ticket

import (
	"strconv"
	"time"
)

const (
	DateLayout = "02/01/2006"
	MinYear    = 2000
)

// ValidateDate checks a DD/MM/YYYY string against now and returns it
// unchanged when valid. Failures are *DateError, checked in this order:
// format, digits, calendar, future, year. Length is counted in characters.
func ValidateDate(s string, now time.Time) (string, error) {
	r := []rune(s)
	if len(r) != len(DateLayout) || r[2] != '/' || r[5] != '/' {
		return "", &DateError{Input: s, Reason: ReasonFormat}
	}

	dayPart, monthPart, yearPart := string(r[0:2]), string(r[3:5]), string(r[6:10])
	if !isDigits(dayPart) || !isDigits(monthPart) || !isDigits(yearPart) {
		return "", &DateError{Input: s, Reason: ReasonNonNumeric}
	}

	day, _ := strconv.Atoi(dayPart)
	month, _ := strconv.Atoi(monthPart)
	year, _ := strconv.Atoi(yearPart)

	// time.Date normalizes overflow (31/04 -> 01/05), so a round trip
	// mismatch means the components do not name a real day.
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if d.Day() != day || int(d.Month()) != month || d.Year() != year {
		return "", &DateError{Input: s, Reason: ReasonCalendar}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.After(today) {
		return "", &DateError{Input: s, Reason: ReasonFuture}
	}

	if year < MinYear {
		return "", &DateError{Input: s, Reason: ReasonTooOld}
	}

	return s, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
