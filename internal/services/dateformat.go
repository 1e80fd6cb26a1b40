package services

import (
	"database/sql"
	"strconv"
	"time"
)

const (
	rocYearOffset = 1911
	// blankDatePart stands in for a month or day that is not known yet;
	// clerks fill it in by hand on the printed draft.
	blankDatePart = "　　"
)

// ROCYear converts a Gregorian year to the Republic of China calendar.
func ROCYear(year int) int { return year - rocYearOffset }

// ROCDate renders a date as used in official documents, e.g. "106年1月5日".
// A zero month or day renders as a blank placeholder.
func ROCDate(year, month, day int) string {
	m, d := blankDatePart, blankDatePart
	if month > 0 {
		m = strconv.Itoa(month)
	}
	if day > 0 {
		d = strconv.Itoa(day)
	}
	return strconv.Itoa(ROCYear(year)) + "年" + m + "月" + d + "日"
}

// ROCDateOf renders d, or the year of now with blank month and day when d is null.
func ROCDateOf(d sql.NullTime, now time.Time) string {
	if !d.Valid {
		return ROCDate(now.Year(), 0, 0)
	}
	return ROCDate(d.Time.Year(), int(d.Time.Month()), d.Time.Day())
}
