package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	ISODateLayout     = "2006-01-02"
	DisplayDateLayout = "02.01.2006"
)

var dateLayouts = []string{ISODateLayout, DisplayDateLayout}

// ParseDate accepts yyyy-mm-dd and dd.mm.yyyy and returns midnight UTC of
// that calendar date
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd or dd.mm.yyyy", dateStr)
}

// DateOnly drops the clock part of t, keeping its calendar date in UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar date in the business location
func Today(now time.Time, loc *time.Location) time.Time {
	return DateOnly(now.In(loc))
}

// FormatDate renders a date the way contracts and messages show it
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DisplayDateLayout)
}

// LoadLocation resolves the business time zone, falling back to a fixed
// Moscow offset when the tz database is missing
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = "Europe/Moscow"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}
