package dateutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	input := time.Date(2017, 8, 8, 14, 30, 45, 123456789, time.UTC)
	expected := time.Date(2017, 8, 8, 0, 0, 0, 0, time.UTC)

	result := StartOfDay(input)

	if !result.Equal(expected) {
		t.Errorf("StartOfDay(%v) = %v, want %v", input, result, expected)
	}
}

func TestGetWeekNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		wantYear int
		wantWeek int
	}{
		{
			name:     "Early August 2017",
			input:    time.Date(2017, 8, 8, 0, 0, 0, 0, time.UTC),
			wantYear: 2017,
			wantWeek: 32,
		},
		{
			name:     "Start of year",
			input:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			wantYear: 2025,
			wantWeek: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, week := GetWeekNumber(tt.input)

			if year != tt.wantYear || week != tt.wantWeek {
				t.Errorf("GetWeekNumber(%v) = (%v, %v), want (%v, %v)",
					tt.input, year, week, tt.wantYear, tt.wantWeek)
			}
		})
	}
}

func TestIsSameDay(t *testing.T) {
	tests := []struct {
		name  string
		date1 time.Time
		date2 time.Time
		want  bool
	}{
		{
			"Same date different time",
			time.Date(2017, 8, 8, 10, 0, 0, 0, time.UTC),
			time.Date(2017, 8, 8, 20, 0, 0, 0, time.UTC),
			true,
		},
		{
			"Different date",
			time.Date(2017, 8, 8, 10, 0, 0, 0, time.UTC),
			time.Date(2017, 8, 9, 10, 0, 0, 0, time.UTC),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsSameDay(tt.date1, tt.date2)

			if result != tt.want {
				t.Errorf("IsSameDay(%v, %v) = %v, want %v",
					tt.date1, tt.date2, result, tt.want)
			}
		})
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	input := time.Date(2017, 8, 8, 17, 14, 33, 123456000, time.Local)

	formatted := FormatTimestamp(input)
	parsed, err := ParseTimestamp(formatted)
	if err != nil {
		t.Fatalf("ParseTimestamp(%q) error = %v", formatted, err)
	}

	if !parsed.Equal(input) {
		t.Errorf("round trip = %v, want %v", parsed, input)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			"With fraction",
			"2017-08-08 17:14:33.000000",
			time.Date(2017, 8, 8, 17, 14, 33, 0, time.Local),
			false,
		},
		{
			"Without fraction",
			"2017-08-08 17:14:33",
			time.Date(2017, 8, 8, 17, 14, 33, 0, time.Local),
			false,
		},
		{
			"Date only",
			"2017-08-08",
			time.Date(2017, 8, 8, 0, 0, 0, 0, time.Local),
			false,
		},
		{
			"Garbage",
			"not-a-timestamp",
			time.Time{},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseTimestamp(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimestamp(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}

			if !tt.wantErr && !result.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}

func TestFormatHM(t *testing.T) {
	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		{"Zero", 0, "0:00"},
		{"Five minutes", 5 * time.Minute, "0:05"},
		{"One hour ten", 70 * time.Minute, "1:10"},
		{"One hour fifteen", 75 * time.Minute, "1:15"},
		{"Start of day offset", 17*time.Hour + 14*time.Minute + 33*time.Second, "17:14"},
		{"More than a day", 26*time.Hour + 5*time.Minute, "26:05"},
		{"Negative clamps to zero", -time.Minute, "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatHM(tt.input)

			if result != tt.want {
				t.Errorf("FormatHM(%v) = %q, want %q", tt.input, result, tt.want)
			}
		})
	}
}
