package ledger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/username/work-tracker/pkg/dateutil"
	"go.uber.org/zap"
)

// DefaultMinSession is the noise filter threshold: rows at or below this
// duration are dropped by Clean
const DefaultMinSession = 1 * time.Minute

// Interval is one contiguous recorded block of activity.
// Invariant: Start <= End.
type Interval struct {
	Start      time.Time
	End        time.Time
	Occupation string
}

// Duration returns the worked time of the interval
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Ledger is the ordered collection of intervals for one tracking instance.
// Canonical order is ascending by Start.
type Ledger []Interval

// Sort orders the ledger ascending by start, ties broken by end
func (l Ledger) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		if l[i].Start.Equal(l[j].Start) {
			return l[i].End.Before(l[j].End)
		}
		return l[i].Start.Before(l[j].Start)
	})
}

// Equal reports element-wise equality of two ledgers
func (l Ledger) Equal(other Ledger) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if !l[i].Start.Equal(other[i].Start) ||
			!l[i].End.Equal(other[i].End) ||
			l[i].Occupation != other[i].Occupation {
			return false
		}
	}
	return true
}

// Clone returns a copy that can be mutated independently
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}

// TotalWorktime sums end-start over all intervals
func (l Ledger) TotalWorktime() time.Duration {
	var total time.Duration
	for _, iv := range l {
		total += iv.Duration()
	}
	return total
}

// Clean drops intervals whose duration is at or below minSession.
// A non-positive minSession falls back to DefaultMinSession.
func Clean(l Ledger, minSession time.Duration) Ledger {
	if minSession <= 0 {
		minSession = DefaultMinSession
	}

	out := make(Ledger, 0, len(l))
	for _, iv := range l {
		if iv.Duration() > minSession {
			out = append(out, iv)
		}
	}
	return out
}

// MalformedLedgerError reports an unparsable persisted ledger file.
// It is fatal to the load call; callers may bootstrap an empty ledger only
// when the file is legitimately absent, never when it exists but is corrupt.
type MalformedLedgerError struct {
	Path   string
	Line   int
	Reason string
}

func (e *MalformedLedgerError) Error() string {
	return fmt.Sprintf("malformed ledger %s:%d: %s", e.Path, e.Line, e.Reason)
}

const (
	columnStart      = "start"
	columnEnd        = "end"
	columnOccupation = "occupation"
)

// Store persists a ledger to a tab-delimited file
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore creates a ledger store for the given file path
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted ledger. A missing file is the first-run case and
// yields a ledger seeded with one zero-length interval at now for the given
// occupation. An existing but unparsable file yields a MalformedLedgerError.
func (s *Store) Load(occupation string, now time.Time) (Ledger, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("Ledger file absent, bootstrapping",
				zap.String("path", s.path),
				zap.String("occupation", occupation))
			return Ledger{{Start: now, End: now, Occupation: occupation}}, nil
		}
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read ledger file: %w", err)
		}
		return nil, &MalformedLedgerError{Path: s.path, Line: 1, Reason: "missing header"}
	}

	columns := strings.Split(scanner.Text(), "\t")
	startCol, endCol, occCol := -1, -1, -1
	for i, name := range columns {
		switch strings.TrimSpace(name) {
		case columnStart:
			startCol = i
		case columnEnd:
			endCol = i
		case columnOccupation:
			occCol = i
		}
	}
	if startCol < 0 || endCol < 0 || occCol < 0 {
		return nil, &MalformedLedgerError{
			Path:   s.path,
			Line:   1,
			Reason: fmt.Sprintf("header %q lacks start/end/occupation columns", scanner.Text()),
		}
	}

	var l Ledger
	line := 1
	for scanner.Scan() {
		line++
		row := scanner.Text()
		if strings.TrimSpace(row) == "" {
			continue
		}

		fields := strings.Split(row, "\t")
		if len(fields) <= startCol || len(fields) <= endCol || len(fields) <= occCol {
			return nil, &MalformedLedgerError{
				Path:   s.path,
				Line:   line,
				Reason: fmt.Sprintf("expected %d columns, got %d", len(columns), len(fields)),
			}
		}

		start, err := dateutil.ParseTimestamp(fields[startCol])
		if err != nil {
			return nil, &MalformedLedgerError{Path: s.path, Line: line, Reason: err.Error()}
		}
		end, err := dateutil.ParseTimestamp(fields[endCol])
		if err != nil {
			return nil, &MalformedLedgerError{Path: s.path, Line: line, Reason: err.Error()}
		}

		l = append(l, Interval{
			Start:      start,
			End:        end,
			Occupation: fields[occCol],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	s.logger.Debug("Ledger loaded",
		zap.String("path", s.path),
		zap.Int("intervals", len(l)))

	return l, nil
}

// Save writes the ledger sorted by start, atomically (write-temp-then-rename)
// so a failed write never truncates the previous file.
func (s *Store) Save(l Ledger) error {
	sorted := l.Clone()
	sorted.Sort()

	var sb strings.Builder
	sb.WriteString(columnStart + "\t" + columnEnd + "\t" + columnOccupation + "\n")
	for _, iv := range sorted {
		sb.WriteString(dateutil.FormatTimestamp(iv.Start))
		sb.WriteByte('\t')
		sb.WriteString(dateutil.FormatTimestamp(iv.End))
		sb.WriteByte('\t')
		sb.WriteString(iv.Occupation)
		sb.WriteByte('\n')
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp ledger file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}

	s.logger.Debug("Ledger saved",
		zap.String("path", s.path),
		zap.Int("intervals", len(sorted)))

	return nil
}
