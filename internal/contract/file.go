package contract

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/username/work-tracker/pkg/dateutil"
	"go.uber.org/zap"
)

// LoadPeriods reads the contract periods table, a tab-delimited file with
// header columns start, weekmask, frequency, worktime and an optional end
// column. Example row:
//
//	2017-08-01	Mon Tue Wed Thu Fri	weekly	40
func LoadPeriods(path string, logger *zap.Logger) ([]Period, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open contract table: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return nil, fmt.Errorf("contract table %s is empty", path)
	}

	columns := strings.Split(scanner.Text(), "\t")
	col := make(map[string]int, len(columns))
	for i, name := range columns {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"start", "weekmask", "frequency", "worktime"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("contract table %s lacks column %q", path, required)
		}
	}
	endCol, hasEnd := col["end"]

	var periods []Period
	line := 1
	for scanner.Scan() {
		line++
		row := scanner.Text()
		if strings.TrimSpace(row) == "" {
			continue
		}

		fields := strings.Split(row, "\t")
		field := func(name string) string {
			i := col[name]
			if i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		start, err := dateutil.ParseDate(field("start"))
		if err != nil {
			return nil, fmt.Errorf("contract table %s:%d: %w", path, line, err)
		}

		mask, err := ParseWeekmask(field("weekmask"))
		if err != nil {
			return nil, fmt.Errorf("contract table %s:%d: %w", path, line, err)
		}

		worktime, err := strconv.ParseFloat(field("worktime"), 64)
		if err != nil {
			return nil, fmt.Errorf("contract table %s:%d: bad worktime: %w", path, line, err)
		}

		frequency := Frequency(field("frequency"))
		if frequency != FrequencyWeekly && frequency != FrequencyMonthly {
			logger.Warn("Unknown contract frequency treated as monthly",
				zap.String("frequency", string(frequency)),
				zap.Int("line", line))
			frequency = FrequencyMonthly
		}

		var end time.Time
		if hasEnd && endCol < len(fields) {
			if raw := strings.TrimSpace(fields[endCol]); raw != "" {
				end, err = dateutil.ParseDate(raw)
				if err != nil {
					return nil, fmt.Errorf("contract table %s:%d: %w", path, line, err)
				}
			}
		}

		periods = append(periods, Period{
			Start:     start,
			End:       end,
			Weekmask:  mask,
			Frequency: frequency,
			Worktime:  worktime,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contract table: %w", err)
	}

	logger.Info("Contract table loaded",
		zap.String("path", path),
		zap.Int("periods", len(periods)))

	return periods, nil
}
