package aggregate

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/username/work-tracker/pkg/dateutil"
	"go.uber.org/zap"
)

// LoadOverrides reads the manual override table, a tab-delimited file with
// header columns start, end, occupation. Example row:
//
//	2017-08-01	2017-08-03	sick
//
// A missing file simply means no overrides were recorded.
func LoadOverrides(path string, logger *zap.Logger) ([]Override, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No manual override table", zap.String("path", path))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open override table: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return nil, nil
	}

	columns := strings.Split(scanner.Text(), "\t")
	col := make(map[string]int, len(columns))
	for i, name := range columns {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"start", "end", "occupation"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("override table %s lacks column %q", path, required)
		}
	}

	var overrides []Override
	line := 1
	for scanner.Scan() {
		line++
		row := scanner.Text()
		if strings.TrimSpace(row) == "" {
			continue
		}

		fields := strings.Split(row, "\t")
		if len(fields) < len(columns) {
			return nil, fmt.Errorf("override table %s:%d: expected %d columns, got %d",
				path, line, len(columns), len(fields))
		}

		start, err := dateutil.ParseDate(strings.TrimSpace(fields[col["start"]]))
		if err != nil {
			return nil, fmt.Errorf("override table %s:%d: %w", path, line, err)
		}
		end, err := dateutil.ParseDate(strings.TrimSpace(fields[col["end"]]))
		if err != nil {
			return nil, fmt.Errorf("override table %s:%d: %w", path, line, err)
		}

		overrides = append(overrides, Override{
			Start:      start,
			End:        end,
			Occupation: strings.TrimSpace(fields[col["occupation"]]),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read override table: %w", err)
	}

	logger.Info("Override table loaded",
		zap.String("path", path),
		zap.Int("ranges", len(overrides)))

	return overrides, nil
}
