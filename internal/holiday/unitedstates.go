package holiday

import (
	"time"

	"github.com/username/work-tracker/pkg/dateutil"
)

// UnitedStates provides the US federal holidays
type UnitedStates struct {
	cache map[int]map[time.Time]string
}

// NewUnitedStates creates the US federal holiday provider
func NewUnitedStates() *UnitedStates {
	return &UnitedStates{cache: make(map[int]map[time.Time]string)}
}

// Holiday reports whether the date is a US federal holiday
func (u *UnitedStates) Holiday(date time.Time) (string, bool) {
	year := date.Year()
	days, ok := u.cache[year]
	if !ok {
		days = u.build(year)
		u.cache[year] = days
	}

	label, ok := days[dateutil.StartOfDay(date)]
	return label, ok
}

func (u *UnitedStates) build(year int) map[time.Time]string {
	fixed := func(month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	}

	return map[time.Time]string{
		fixed(time.January, 1):   "New Year's Day",
		nthWeekday(year, time.January, time.Monday, 3):    "Martin Luther King Jr. Day",
		nthWeekday(year, time.February, time.Monday, 3):   "Washington's Birthday",
		lastWeekday(year, time.May, time.Monday):          "Memorial Day",
		fixed(time.July, 4):      "Independence Day",
		nthWeekday(year, time.September, time.Monday, 1):  "Labor Day",
		nthWeekday(year, time.October, time.Monday, 2):    "Columbus Day",
		fixed(time.November, 11): "Veterans Day",
		nthWeekday(year, time.November, time.Thursday, 4): "Thanksgiving",
		fixed(time.December, 25): "Christmas Day",
	}
}
