package holiday

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/username/work-tracker/pkg/dateutil"
	"go.uber.org/zap"
)

// FileProvider reads holidays from a local text file, one per line:
//
//	# comment
//	2017-12-24 Company holiday
//
// It covers company-specific closure days no jurisdiction table knows about.
type FileProvider struct {
	filePath string
	logger   *zap.Logger
	days     map[time.Time]string
}

// NewFileProvider creates a file-backed holiday provider
func NewFileProvider(filePath string, logger *zap.Logger) *FileProvider {
	return &FileProvider{
		filePath: filePath,
		logger:   logger,
		days:     make(map[time.Time]string),
	}
}

// Load reads the holiday file
func (fp *FileProvider) Load() error {
	file, err := os.Open(fp.filePath)
	if err != nil {
		return fmt.Errorf("failed to open holiday file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		date, err := dateutil.ParseDate(parts[0])
		if err != nil {
			fp.logger.Warn("Failed to parse holiday date", zap.String("line", line), zap.Error(err))
			continue
		}

		label := "holiday"
		if len(parts) == 2 {
			label = strings.TrimSpace(parts[1])
		}
		fp.days[dateutil.StartOfDay(date)] = label
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading holiday file: %w", err)
	}

	fp.logger.Info("Holiday file loaded",
		zap.String("file", fp.filePath),
		zap.Int("days", len(fp.days)))

	return nil
}

// Holiday reports whether the date is listed in the file
func (fp *FileProvider) Holiday(date time.Time) (string, bool) {
	label, ok := fp.days[dateutil.StartOfDay(date)]
	return label, ok
}
