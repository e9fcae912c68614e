package holiday

import (
	"time"

	"github.com/username/work-tracker/pkg/dateutil"
)

// Germany provides the German public holidays, optionally including a
// state's additional days (two-letter subdivision code, e.g. "BY")
type Germany struct {
	state string
	cache map[int]map[time.Time]string
}

// NewGermany creates the German provider for the given state ("" for the
// nationwide set only)
func NewGermany(state string) *Germany {
	return &Germany{
		state: state,
		cache: make(map[int]map[time.Time]string),
	}
}

// Holiday reports whether the date is a German public holiday
func (g *Germany) Holiday(date time.Time) (string, bool) {
	year := date.Year()
	days, ok := g.cache[year]
	if !ok {
		days = g.build(year)
		g.cache[year] = days
	}

	label, ok := days[dateutil.StartOfDay(date)]
	return label, ok
}

func (g *Germany) build(year int) map[time.Time]string {
	fixed := func(month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	}
	easter := easterSunday(year)

	days := map[time.Time]string{
		fixed(time.January, 1):    "Neujahr",
		easter.AddDate(0, 0, -2):  "Karfreitag",
		easter.AddDate(0, 0, 1):   "Ostermontag",
		fixed(time.May, 1):        "Erster Mai",
		easter.AddDate(0, 0, 39):  "Christi Himmelfahrt",
		easter.AddDate(0, 0, 50):  "Pfingstmontag",
		fixed(time.October, 3):    "Tag der Deutschen Einheit",
		fixed(time.December, 25):  "Erster Weihnachtstag",
		fixed(time.December, 26):  "Zweiter Weihnachtstag",
	}

	switch g.state {
	case "BW":
		days[fixed(time.January, 6)] = "Heilige Drei Könige"
		days[easter.AddDate(0, 0, 60)] = "Fronleichnam"
		days[fixed(time.November, 1)] = "Allerheiligen"
	case "BY":
		days[fixed(time.January, 6)] = "Heilige Drei Könige"
		days[easter.AddDate(0, 0, 60)] = "Fronleichnam"
		days[fixed(time.August, 15)] = "Mariä Himmelfahrt"
		days[fixed(time.November, 1)] = "Allerheiligen"
	case "BB", "MV", "SN", "ST", "TH":
		days[fixed(time.October, 31)] = "Reformationstag"
		if g.state == "ST" {
			days[fixed(time.January, 6)] = "Heilige Drei Könige"
		}
		if g.state == "SN" {
			// Wednesday before November 23
			bussUndBettag := fixed(time.November, 22)
			for bussUndBettag.Weekday() != time.Wednesday {
				bussUndBettag = bussUndBettag.AddDate(0, 0, -1)
			}
			days[bussUndBettag] = "Buß- und Bettag"
		}
	case "HE":
		days[easter.AddDate(0, 0, 60)] = "Fronleichnam"
	case "NW", "RP":
		days[easter.AddDate(0, 0, 60)] = "Fronleichnam"
		days[fixed(time.November, 1)] = "Allerheiligen"
	case "SL":
		days[easter.AddDate(0, 0, 60)] = "Fronleichnam"
		days[fixed(time.August, 15)] = "Mariä Himmelfahrt"
		days[fixed(time.November, 1)] = "Allerheiligen"
	}

	return days
}
