package session

import (
	"fmt"
	"time"

	"github.com/username/work-tracker/internal/ledger"
	"github.com/username/work-tracker/pkg/dateutil"
	"go.uber.org/zap"
)

// DefaultShortBreak is the continuation threshold: a gap shorter than this
// extends the current interval instead of opening a new one, which absorbs
// app restarts and screen locks without fragmenting the ledger
const DefaultShortBreak = 10 * time.Minute

// Status is the reporting view returned by a tick: when today's session
// started and how long it has lasted, both as h:mm strings
type Status struct {
	StartTime   string
	SessionTime string
}

// Tracker is the live state machine deciding on each tick whether the
// current activity continues the open interval or starts a new one.
// Callers must serialize Tick/ChangeOccupation calls; the tracker assumes a
// single active owner of the local ledger file.
type Tracker struct {
	occupation string
	today      time.Time
	yesterday  time.Time
	tomorrow   time.Time
	l          ledger.Ledger
	store      *ledger.Store
	shortBreak time.Duration
	minSession time.Duration
	logger     *zap.Logger
}

// NewTracker loads the local ledger (bootstrapping it on first run) and
// returns a tracker ready to tick
func NewTracker(store *ledger.Store, occupation string, shortBreak, minSession time.Duration, logger *zap.Logger) (*Tracker, error) {
	if shortBreak <= 0 {
		shortBreak = DefaultShortBreak
	}
	if minSession <= 0 {
		minSession = ledger.DefaultMinSession
	}

	now := time.Now()
	l, err := store.Load(occupation, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	t := &Tracker{
		occupation: occupation,
		l:          ledger.Clean(l, minSession),
		store:      store,
		shortBreak: shortBreak,
		minSession: minSession,
		logger:     logger,
	}
	t.refreshDayMarkers(now)
	return t, nil
}

// Occupation returns the currently tracked occupation tag
func (t *Tracker) Occupation() string {
	return t.occupation
}

// Ledger returns a copy of the tracked ledger
func (t *Tracker) Ledger() ledger.Ledger {
	return t.l.Clone()
}

// MergeRemote reconciles a remote ledger copy into the tracked ledger.
// The result is persisted by the next Tick.
func (t *Tracker) MergeRemote(remote ledger.Ledger) {
	before := len(t.l)
	t.l = ledger.Merge(t.l, remote)
	t.logger.Info("Remote ledger merged",
		zap.Int("local_rows", before),
		zap.Int("remote_rows", len(remote)),
		zap.Int("merged_rows", len(t.l)))
}

// refreshDayMarkers realigns today/yesterday/tomorrow to now, in case the
// date changed during the session
func (t *Tracker) refreshDayMarkers(now time.Time) {
	t.today = dateutil.StartOfDay(now)
	t.yesterday = t.today.AddDate(0, 0, -1)
	t.tomorrow = t.today.AddDate(0, 0, 1)
}

// partition returns the ledger indices of rows started within [from, to)
func (t *Tracker) partition(from, to time.Time) []int {
	var idx []int
	for i, iv := range t.l {
		if !iv.Start.Before(from) && iv.Start.Before(to) {
			idx = append(idx, i)
		}
	}
	return idx
}

// latestEnd returns the index of the row with the maximum end among idx
func (t *Tracker) latestEnd(idx []int) int {
	best := idx[0]
	for _, i := range idx[1:] {
		if t.l[i].End.After(t.l[best].End) {
			best = i
		}
	}
	return best
}

// Tick advances the state machine to now and persists the ledger.
//
// A gap below the short-break threshold against the newest row started today
// extends that row. The same gap against a row started yesterday means the
// session ran across midnight: the old row is capped at midnight and a new
// row opens at midnight, realizing the split inline. Anything else (a real
// break, or an empty ledger for both days) opens a fresh zero-length row.
func (t *Tracker) Tick(now time.Time) (Status, error) {
	t.refreshDayMarkers(now)

	todayIdx := t.partition(t.today, t.tomorrow)
	yesterdayIdx := t.partition(t.yesterday, t.today)

	ref := todayIdx
	startedToday := len(todayIdx) > 0
	if !startedToday {
		ref = yesterdayIdx
	}

	shortBreak := false
	refRow := -1
	if len(ref) > 0 {
		refRow = t.latestEnd(ref)
		shortBreak = now.Sub(t.l[refRow].End) < t.shortBreak
	}

	switch {
	case shortBreak && startedToday:
		t.l[refRow].End = now

	case shortBreak:
		// Session still open across midnight: cap yesterday's row at the
		// day boundary and continue in a new row
		t.l[refRow].End = t.today
		t.l = append(t.l, ledger.Interval{Start: t.today, End: now, Occupation: t.occupation})
		t.logger.Info("Session crossed midnight, split inline",
			zap.Time("boundary", t.today),
			zap.String("occupation", t.occupation))

	default:
		t.l = append(t.l, ledger.Interval{Start: now, End: now, Occupation: t.occupation})
		t.logger.Debug("New session opened",
			zap.Time("start", now),
			zap.String("occupation", t.occupation))
	}

	t.l.Sort()
	if err := t.store.Save(t.l); err != nil {
		return Status{}, fmt.Errorf("failed to persist ledger: %w", err)
	}

	return t.status(), nil
}

// ChangeOccupation closes out the running interval under the old tag and
// opens a new row under the new one, regardless of gap size
func (t *Tracker) ChangeOccupation(now time.Time, occupation string) (Status, error) {
	if _, err := t.Tick(now); err != nil {
		return Status{}, err
	}
	t.l = ledger.Clean(t.l, t.minSession)

	t.occupation = occupation
	t.l = append(t.l, ledger.Interval{Start: now, End: now, Occupation: occupation})
	t.l.Sort()

	if err := t.store.Save(t.l); err != nil {
		return Status{}, fmt.Errorf("failed to persist ledger: %w", err)
	}

	t.logger.Info("Occupation changed", zap.String("occupation", occupation))
	return t.status(), nil
}

// status computes the reporting strings over rows started today
func (t *Tracker) status() Status {
	var (
		minStart time.Time
		session  time.Duration
	)
	for _, iv := range t.l {
		if iv.Start.Before(t.today) {
			continue
		}
		if minStart.IsZero() || iv.Start.Before(minStart) {
			minStart = iv.Start
		}
		session += iv.Duration()
	}

	if minStart.IsZero() {
		return Status{StartTime: "0:00", SessionTime: "0:00"}
	}

	return Status{
		StartTime:   dateutil.FormatHM(minStart.Sub(t.today)),
		SessionTime: dateutil.FormatHM(session),
	}
}
