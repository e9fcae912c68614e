package holiday

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/username/work-tracker/internal/contract"
	"go.uber.org/zap"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return parsed
}

func TestEasterSunday(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{2017, "2017-04-16"},
		{2024, "2024-03-31"},
		{2025, "2025-04-20"},
	}

	for _, tt := range tests {
		got := easterSunday(tt.year)
		if !got.Equal(date(t, tt.want)) {
			t.Errorf("easterSunday(%d) = %v, want %s", tt.year, got.Format("2006-01-02"), tt.want)
		}
	}
}

func TestGermanyHolidays(t *testing.T) {
	tests := []struct {
		name    string
		state   string
		date    string
		want    string
		holiday bool
	}{
		{"New Year nationwide", "", "2017-01-01", "Neujahr", true},
		{"Good Friday 2017", "", "2017-04-14", "Karfreitag", true},
		{"German Unity Day", "", "2017-10-03", "Tag der Deutschen Einheit", true},
		{"Epiphany in Bavaria", "BY", "2017-01-06", "Heilige Drei Könige", true},
		{"Epiphany not nationwide", "", "2017-01-06", "", false},
		{"Assumption in Bavaria", "BY", "2017-08-15", "Mariä Himmelfahrt", true},
		{"Regular day", "BY", "2017-08-04", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewGermany(tt.state)
			label, ok := provider.Holiday(date(t, tt.date))

			if ok != tt.holiday || label != tt.want {
				t.Errorf("Holiday(%s) = (%q, %v), want (%q, %v)",
					tt.date, label, ok, tt.want, tt.holiday)
			}
		})
	}
}

func TestUnitedStatesHolidays(t *testing.T) {
	provider := NewUnitedStates()

	tests := []struct {
		name    string
		date    string
		holiday bool
	}{
		{"Independence Day", "2015-07-04", true},
		{"Thanksgiving 2017", "2017-11-23", true},
		{"Memorial Day 2017", "2017-05-29", true},
		{"Regular day", "2017-08-04", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := provider.Holiday(date(t, tt.date))

			if ok != tt.holiday {
				t.Errorf("Holiday(%s) = %v, want %v", tt.date, ok, tt.holiday)
			}
		})
	}
}

func TestForJurisdiction(t *testing.T) {
	tests := []struct {
		name    string
		country string
		wantErr bool
	}{
		{"Germany", "DE", false},
		{"United States", "US", false},
		{"None configured", "", false},
		{"Unknown", "XX", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ForJurisdiction(tt.country, "")

			if (err != nil) != tt.wantErr {
				t.Errorf("ForJurisdiction(%q) error = %v, wantErr %v", tt.country, err, tt.wantErr)
			}
		})
	}
}

func TestFileProvider(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	path := filepath.Join(t.TempDir(), "holidays.txt")

	content := "# closure days\n2017-12-27 Between the years\n\n2017-12-28\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fp := NewFileProvider(path, logger)
	if err := fp.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	label, ok := fp.Holiday(date(t, "2017-12-27"))
	if !ok || label != "Between the years" {
		t.Errorf("Holiday(2017-12-27) = (%q, %v), want (Between the years, true)", label, ok)
	}
	if _, ok := fp.Holiday(date(t, "2017-12-26")); ok {
		t.Error("Holiday(2017-12-26) = true, want false")
	}
}

func TestComposite(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	path := filepath.Join(t.TempDir(), "holidays.txt")
	if err := os.WriteFile(path, []byte("2017-08-04 Company day\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fp := NewFileProvider(path, logger)
	if err := fp.Load(); err != nil {
		t.Fatal(err)
	}

	composite := NewComposite(fp, NewGermany("BY"))

	label, ok := composite.Holiday(date(t, "2017-08-04"))
	if !ok || label != "Company day" {
		t.Errorf("composite file day = (%q, %v), want (Company day, true)", label, ok)
	}
	if _, ok := composite.Holiday(date(t, "2017-08-15")); !ok {
		t.Error("composite missed the jurisdiction holiday")
	}
}

func TestBuildCalendar(t *testing.T) {
	mask, err := contract.ParseWeekmask("Mon Tue Wed Thu Fri Sat Sun")
	if err != nil {
		t.Fatal(err)
	}
	contractCal := contract.BuildCalendar([]contract.Period{{
		Start:     date(t, "2017-12-20"),
		End:       date(t, "2017-12-27"),
		Weekmask:  mask,
		Frequency: contract.FrequencyWeekly,
		Worktime:  56,
	}}, time.Time{})

	cal := BuildCalendar(contractCal, NewGermany(""), map[string]string{
		"24-12": "Heiligabend",
	})

	tests := []struct {
		date string
		want string
		ok   bool
	}{
		{"2017-12-24", "Heiligabend", true},
		{"2017-12-25", "Erster Weihnachtstag", true},
		{"2017-12-26", "Zweiter Weihnachtstag", true},
		{"2017-12-22", "", false},
	}

	for _, tt := range tests {
		label, ok := cal[date(t, tt.date)]
		if ok != tt.ok || label != tt.want {
			t.Errorf("calendar[%s] = (%q, %v), want (%q, %v)", tt.date, label, ok, tt.want, tt.ok)
		}
	}

	// Overrides apply only to dates the contract calendar contains
	if cal.Contains(date(t, "2018-12-24")) {
		t.Error("override leaked outside the contract calendar")
	}
}
