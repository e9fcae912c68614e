// Package contract turns contractual obligation periods into a dated
// calendar of expected daily worktime.
package contract

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/username/work-tracker/pkg/dateutil"
)

// Frequency is the period over which a contract's worktime figure applies
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Weekmask is the set of weekdays a contract covers
type Weekmask map[time.Weekday]bool

var weekdayNames = map[string]time.Weekday{
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
	"Sun": time.Sunday,
}

// ParseWeekmask parses a space-separated weekday listing, e.g.
// "Mon Tue Wed Thu Fri"
func ParseWeekmask(s string) (Weekmask, error) {
	mask := make(Weekmask)
	for _, field := range strings.Fields(s) {
		day, ok := weekdayNames[field]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q in weekmask %q", field, s)
		}
		mask[day] = true
	}
	if len(mask) == 0 {
		return nil, fmt.Errorf("empty weekmask %q", s)
	}
	return mask, nil
}

// Len returns the number of working weekdays in the mask
func (m Weekmask) Len() int {
	return len(m)
}

// Contains reports whether the date's weekday is in the mask
func (m Weekmask) Contains(date time.Time) bool {
	return m[date.Weekday()]
}

// Period is one contractual obligation: on days in the weekmask, the worker
// owes Worktime hours per Frequency period. End may be zero (open-ended).
type Period struct {
	Start     time.Time
	End       time.Time
	Weekmask  Weekmask
	Frequency Frequency
	Worktime  float64
}

// DailyObligation computes the expected hours per working day. Weekly
// figures divide evenly over the weekmask. Longer-period figures are
// annualized over the working days the weekmask implies across a year:
// worktime*12 / (365 - 52*(7-workdays)).
func DailyObligation(frequency Frequency, worktime float64, mask Weekmask) float64 {
	workdays := mask.Len()
	if frequency == FrequencyWeekly {
		return worktime / float64(workdays)
	}
	return (worktime * 12) / float64(365-52*(7-workdays))
}

// Calendar maps a midnight-aligned date to the expected worktime obligation
// for that date
type Calendar map[time.Time]time.Duration

// Dates returns the calendar's dates in ascending order
func (c Calendar) Dates() []time.Time {
	dates := make([]time.Time, 0, len(c))
	for d := range c {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Years returns the distinct calendar years present, ascending
func (c Calendar) Years() []int {
	seen := make(map[int]bool)
	for d := range c {
		seen[d.Year()] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// BuildCalendar enumerates the working days of every period and assigns each
// its daily obligation. Dates claimed by more than one period sum their
// obligations. A period without an explicit end runs until the day before
// the next period starts; the last open-ended period runs to effectiveEnd
// (the ledger's latest recorded end).
func BuildCalendar(periods []Period, effectiveEnd time.Time) Calendar {
	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	cal := make(Calendar)
	for i, p := range sorted {
		end := p.End
		if end.IsZero() {
			if i < len(sorted)-1 {
				end = sorted[i+1].Start.AddDate(0, 0, -1)
			} else {
				end = effectiveEnd
			}
		}

		daily := DailyObligation(p.Frequency, p.Worktime, p.Weekmask)
		obligation := time.Duration(daily * float64(time.Hour))

		for d := dateutil.StartOfDay(p.Start); !d.After(dateutil.StartOfDay(end)); d = d.AddDate(0, 0, 1) {
			if p.Weekmask.Contains(d) {
				cal[d] += obligation
			}
		}
	}
	return cal
}
