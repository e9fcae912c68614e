package aggregate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/username/work-tracker/internal/contract"
	"github.com/username/work-tracker/internal/holiday"
	"github.com/username/work-tracker/internal/ledger"
	"go.uber.org/zap"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return parsed
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	return ts(t, value+" 00:00:00")
}

// fixtures: one working week 2017-08-04 (Fri) .. 2017-08-11 (Fri) at 8h/day
// on an everyday mask, with Friday 2017-08-04 a holiday and two sick days
func fixtureCalendars(t *testing.T) (contract.Calendar, holiday.Calendar) {
	t.Helper()
	mask, err := contract.ParseWeekmask("Mon Tue Wed Thu Fri Sat Sun")
	if err != nil {
		t.Fatal(err)
	}
	contractCal := contract.BuildCalendar([]contract.Period{{
		Start:     date(t, "2017-08-04"),
		End:       date(t, "2017-08-11"),
		Weekmask:  mask,
		Frequency: contract.FrequencyWeekly,
		Worktime:  56,
	}}, time.Time{})

	holidayCal := holiday.Calendar{date(t, "2017-08-04"): "test_holiday"}
	return contractCal, holidayCal
}

func TestTotalView(t *testing.T) {
	contractCal, holidayCal := fixtureCalendars(t)

	l := ledger.Ledger{
		// Crosses midnight: must be split before aggregation
		{Start: ts(t, "2017-08-07 21:00:00"), End: ts(t, "2017-08-08 02:00:00"), Occupation: "work"},
		{Start: ts(t, "2017-08-09 09:00:00"), End: ts(t, "2017-08-09 17:00:00"), Occupation: "work"},
	}
	overrides := []Override{
		{Start: date(t, "2017-08-04"), End: date(t, "2017-08-05"), Occupation: "sick"},
	}

	records := TotalView(l, contractCal, holidayCal, overrides, 0)

	// Expected: holiday on the 4th, sick on the 5th only (the 4th is a
	// holiday), two split ledger pieces, one plain ledger interval
	if len(records) != 5 {
		t.Fatalf("TotalView() = %d records, want 5: %+v", len(records), records)
	}

	byOccupation := make(map[string][]Record)
	for _, r := range records {
		byOccupation[r.Occupation] = append(byOccupation[r.Occupation], r)
	}

	if len(byOccupation[HolidayOccupation]) != 1 {
		t.Fatalf("holiday records = %v, want exactly one", byOccupation[HolidayOccupation])
	}
	h := byOccupation[HolidayOccupation][0]
	if !h.Start.Equal(date(t, "2017-08-04")) || h.Worktime != 8*time.Hour {
		t.Errorf("holiday record = %+v, want 8h on 2017-08-04", h)
	}

	if len(byOccupation["sick"]) != 1 {
		t.Fatalf("sick records = %v, want exactly one (holiday excluded)", byOccupation["sick"])
	}
	s := byOccupation["sick"][0]
	if !s.Start.Equal(date(t, "2017-08-05")) || s.Worktime != 8*time.Hour {
		t.Errorf("sick record = %+v, want 8h on 2017-08-05", s)
	}

	if len(byOccupation["work"]) != 3 {
		t.Fatalf("work records = %v, want 3 (midnight split applied)", byOccupation["work"])
	}
	var work time.Duration
	for _, r := range byOccupation["work"] {
		work += r.Worktime
	}
	if work != 13*time.Hour {
		t.Errorf("summed worked time = %v, want 13h", work)
	}

	// Sorted by start
	for i := 1; i < len(records); i++ {
		if records[i].Start.Before(records[i-1].Start) {
			t.Errorf("records not sorted: %v before %v", records[i].Start, records[i-1].Start)
		}
	}
}

func TestTotalViewDropsOverrideWithoutObligation(t *testing.T) {
	contractCal, holidayCal := fixtureCalendars(t)

	overrides := []Override{
		// Entirely outside the contract calendar
		{Start: date(t, "2017-09-04"), End: date(t, "2017-09-05"), Occupation: "vacation"},
	}

	records := TotalView(nil, contractCal, holidayCal, overrides, 0)

	for _, r := range records {
		if r.Occupation == "vacation" {
			t.Errorf("override without obligation kept: %+v", r)
		}
	}
}

func TestTotalViewCalendarAnnotations(t *testing.T) {
	contractCal, holidayCal := fixtureCalendars(t)

	l := ledger.Ledger{
		{Start: ts(t, "2017-08-09 09:00:00"), End: ts(t, "2017-08-09 17:00:00"), Occupation: "work"},
	}

	records := TotalView(l, contractCal, holidayCal, nil, 0)

	var found bool
	for _, r := range records {
		if r.Occupation != "work" {
			continue
		}
		found = true
		if r.Year != 2017 || r.Month != time.August || r.Day != 9 || r.Week != 32 {
			t.Errorf("annotations = %d-%v-%d week %d, want 2017-August-9 week 32",
				r.Year, r.Month, r.Day, r.Week)
		}
	}
	if !found {
		t.Fatal("work record missing")
	}
}

func TestPlotView(t *testing.T) {
	contractCal, holidayCal := fixtureCalendars(t)

	l := ledger.Ledger{
		{Start: ts(t, "2017-08-07 09:00:00"), End: ts(t, "2017-08-07 13:00:00"), Occupation: "work"},
		{Start: ts(t, "2017-08-07 14:00:00"), End: ts(t, "2017-08-07 18:00:00"), Occupation: "work"},
		{Start: ts(t, "2017-08-09 09:00:00"), End: ts(t, "2017-08-09 11:00:00"), Occupation: "study"},
	}

	records := TotalView(l, contractCal, holidayCal, nil, 0)
	plot := PlotView(records, 24*time.Hour)

	// Buckets run from the holiday on the 4th through the 9th
	if len(plot.Buckets) != 6 {
		t.Fatalf("buckets = %v, want 6 days", plot.Buckets)
	}
	if !plot.Buckets[0].Equal(date(t, "2017-08-04")) {
		t.Errorf("first bucket = %v, want 2017-08-04", plot.Buckets[0])
	}

	dayIndex := func(d string) int {
		for i, b := range plot.Buckets {
			if b.Equal(date(t, d)) {
				return i
			}
		}
		t.Fatalf("bucket %s missing", d)
		return -1
	}

	if got := plot.Series["work"][dayIndex("2017-08-07")]; got != 8*time.Hour {
		t.Errorf("work on the 7th = %v, want 8h", got)
	}
	if got := plot.Series["work"][dayIndex("2017-08-08")]; got != 0 {
		t.Errorf("work on the 8th = %v, want zero fill", got)
	}
	if got := plot.Series["study"][dayIndex("2017-08-09")]; got != 2*time.Hour {
		t.Errorf("study on the 9th = %v, want 2h", got)
	}
	if got := plot.Series[TotalSeries][dayIndex("2017-08-04")]; got != 8*time.Hour {
		t.Errorf("total on the holiday = %v, want 8h", got)
	}

	// Every series is zero-filled to the bucket count
	for name, series := range plot.Series {
		if len(series) != len(plot.Buckets) {
			t.Errorf("series %q has %d values, want %d", name, len(series), len(plot.Buckets))
		}
	}
}

func TestPlotViewEmpty(t *testing.T) {
	plot := PlotView(nil, 0)

	if len(plot.Buckets) != 0 {
		t.Errorf("empty plot buckets = %v, want none", plot.Buckets)
	}
}

func TestLoadOverrides(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	path := filepath.Join(t.TempDir(), "manual.tsv")

	content := "start\tend\toccupation\n2017-08-01\t2017-08-03\tsick\n2017-08-21\t2017-08-25\tvacation\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	overrides, err := LoadOverrides(path, logger)
	if err != nil {
		t.Fatalf("LoadOverrides() error = %v", err)
	}

	if len(overrides) != 2 {
		t.Fatalf("LoadOverrides() = %d ranges, want 2", len(overrides))
	}
	if overrides[0].Occupation != "sick" || overrides[1].Occupation != "vacation" {
		t.Errorf("occupations = %q, %q, want sick, vacation",
			overrides[0].Occupation, overrides[1].Occupation)
	}
}

func TestLoadOverridesMissingFileIsEmpty(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	overrides, err := LoadOverrides(filepath.Join(t.TempDir(), "absent.tsv"), logger)
	if err != nil {
		t.Fatalf("LoadOverrides() error = %v", err)
	}
	if overrides != nil {
		t.Errorf("LoadOverrides() = %v, want nil for a missing file", overrides)
	}
}
