// Package aggregate combines the ledger, the holiday calendar, and manual
// override entries into reporting views against the contract obligations.
package aggregate

import (
	"sort"
	"time"

	"github.com/username/work-tracker/internal/contract"
	"github.com/username/work-tracker/internal/holiday"
	"github.com/username/work-tracker/internal/ledger"
	"github.com/username/work-tracker/pkg/dateutil"
)

// HolidayOccupation tags calendar holiday entries in the views
const HolidayOccupation = "holiday"

// Record is one aggregated entry: a worked interval, a holiday, or an
// expanded manual-override day, annotated with calendar fields for grouping
type Record struct {
	Start      time.Time
	End        time.Time
	Worktime   time.Duration
	Year       int
	Month      time.Month
	Week       int
	Day        int
	Occupation string
}

// Override is a manually recorded absence range, e.g. sick leave or vacation
type Override struct {
	Start      time.Time
	End        time.Time
	Occupation string
}

func newRecord(start, end time.Time, worktime time.Duration, occupation string) Record {
	_, week := dateutil.GetWeekNumber(start)
	return Record{
		Start:      start,
		End:        end,
		Worktime:   worktime,
		Year:       start.Year(),
		Month:      start.Month(),
		Week:       week,
		Day:        start.Day(),
		Occupation: occupation,
	}
}

// TotalView builds the full aggregate: normalized ledger intervals with
// worktime = end-start, holiday entries carrying their date's obligation,
// and manual overrides expanded to one entry per obligated day (holiday
// dates excluded; days without an obligation are dropped since no working
// day means no override applies). Sorted by (start, end).
func TotalView(
	l ledger.Ledger,
	contractCal contract.Calendar,
	holidayCal holiday.Calendar,
	overrides []Override,
	minSession time.Duration,
) []Record {
	normalized := ledger.SplitMidnight(l, minSession)

	records := make([]Record, 0, len(normalized)+len(holidayCal))
	for _, iv := range normalized {
		records = append(records, newRecord(iv.Start, iv.End, iv.Duration(), iv.Occupation))
	}

	for date := range holidayCal {
		obligation, ok := contractCal[date]
		if !ok {
			continue
		}
		records = append(records, newRecord(date, date, obligation, HolidayOccupation))
	}

	for _, ov := range overrides {
		from := dateutil.StartOfDay(ov.Start)
		to := dateutil.StartOfDay(ov.End)
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if holidayCal.Contains(d) {
				continue
			}
			obligation, ok := contractCal[d]
			if !ok {
				continue
			}
			records = append(records, newRecord(d, d, obligation, ov.Occupation))
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Start.Equal(records[j].Start) {
			return records[i].End.Before(records[j].End)
		}
		return records[i].Start.Before(records[j].Start)
	})
	return records
}

// Plot is the resampled view: per-bucket worktime for a "total" series and
// one series per occupation, zero-filled where a bucket has no activity
type Plot struct {
	Buckets []time.Time
	Series  map[string][]time.Duration
}

// TotalSeries is the name of the summed series in a Plot
const TotalSeries = "total"

// PlotView groups records into bucket-sized time buckets by start, summing
// worktime. A non-positive bucket defaults to daily.
func PlotView(records []Record, bucket time.Duration) *Plot {
	if bucket <= 0 {
		bucket = 24 * time.Hour
	}

	plot := &Plot{Series: map[string][]time.Duration{TotalSeries: nil}}
	if len(records) == 0 {
		return plot
	}

	base := records[0].Start
	last := records[0].Start
	for _, r := range records {
		if r.Start.Before(base) {
			base = r.Start
		}
		if r.Start.After(last) {
			last = r.Start
		}
	}
	base = bucketStart(base, bucket)

	n := int(last.Sub(base)/bucket) + 1
	plot.Buckets = make([]time.Time, n)
	for i := range plot.Buckets {
		plot.Buckets[i] = base.Add(time.Duration(i) * bucket)
	}
	plot.Series[TotalSeries] = make([]time.Duration, n)

	for _, r := range records {
		i := int(r.Start.Sub(base) / bucket)
		series, ok := plot.Series[r.Occupation]
		if !ok {
			series = make([]time.Duration, n)
		}
		series[i] += r.Worktime
		plot.Series[r.Occupation] = series
		plot.Series[TotalSeries][i] += r.Worktime
	}

	return plot
}

// bucketStart aligns t to its bucket boundary; day-multiple buckets align to
// local midnight so daily resampling matches calendar days
func bucketStart(t time.Time, bucket time.Duration) time.Time {
	day := 24 * time.Hour
	if bucket%day == 0 {
		return dateutil.StartOfDay(t)
	}
	return t.Truncate(bucket)
}
