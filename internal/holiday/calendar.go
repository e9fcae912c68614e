package holiday

import (
	"strconv"
	"strings"
	"time"

	"github.com/username/work-tracker/internal/contract"
)

// Calendar maps a midnight-aligned holiday date to its label
type Calendar map[time.Time]string

// BuildCalendar collects the holidays among the contract calendar's dates.
// Special overrides ("DD-MM" -> label) are recurring days treated as
// holidays in every calendar year the contract calendar touches, e.g.
// "24-12" for Christmas Eve.
func BuildCalendar(contractCal contract.Calendar, provider Provider, overrides map[string]string) Calendar {
	special := make(map[[2]int]string, len(overrides))
	for key, label := range overrides {
		parts := strings.SplitN(key, "-", 2)
		if len(parts) != 2 {
			continue
		}
		day, err1 := strconv.Atoi(parts[0])
		month, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			continue
		}
		special[[2]int{day, month}] = label
	}

	cal := make(Calendar)
	for date := range contractCal {
		if label, ok := special[[2]int{date.Day(), int(date.Month())}]; ok {
			cal[date] = label
			continue
		}
		if label, ok := provider.Holiday(date); ok {
			cal[date] = label
		}
	}
	return cal
}

// Contains reports whether the date is a holiday in the calendar
func (c Calendar) Contains(date time.Time) bool {
	_, ok := c[time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())]
	return ok
}
