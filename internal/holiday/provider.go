// Package holiday supplies the public-holiday lookup capability: given a
// date, is it a holiday and what is it called. Providers are concrete
// per-jurisdiction tables selected through a registry, not discovered
// dynamically.
package holiday

import (
	"fmt"
	"time"
)

// Provider answers whether a date is a public holiday
type Provider interface {
	// Holiday returns the holiday's label and true, or "" and false
	Holiday(date time.Time) (string, bool)
}

// Null is the no-holidays provider used when no jurisdiction is configured
type Null struct{}

// Holiday always reports no holiday
func (Null) Holiday(time.Time) (string, bool) {
	return "", false
}

// ForJurisdiction returns the builtin provider for a country code and an
// optional subdivision. An empty country yields the Null provider.
func ForJurisdiction(country, subdivision string) (Provider, error) {
	switch country {
	case "":
		return Null{}, nil
	case "DE", "Germany":
		return NewGermany(subdivision), nil
	case "US", "UnitedStates":
		return NewUnitedStates(), nil
	default:
		return nil, fmt.Errorf("no holiday provider for country %q", country)
	}
}

// nthWeekday returns the n-th (1-based) given weekday of a month
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 7*(n-1))
}

// lastWeekday returns the last given weekday of a month
func lastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	d := time.Date(year, month+1, 1, 0, 0, 0, 0, time.Local).AddDate(0, 0, -1)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// easterSunday computes Gregorian Easter (anonymous Gauss variant)
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
}
