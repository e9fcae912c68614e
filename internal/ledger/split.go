package ledger

import (
	"time"

	"github.com/username/work-tracker/pkg/dateutil"
)

// SplitMidnight normalizes the ledger so no interval spans a local-day
// boundary. An interval whose start and end fall on different calendar days
// is replaced by two intervals: one ending at the midnight after its start
// day, one starting at the midnight of its end day. The cleanup pass runs
// afterwards since a split can leave a degenerate piece, e.g. a session
// ending exactly at midnight. Idempotent on already-normalized ledgers.
func SplitMidnight(l Ledger, minSession time.Duration) Ledger {
	out := make(Ledger, 0, len(l))
	for _, iv := range l {
		if dateutil.IsSameDay(iv.Start, iv.End) {
			out = append(out, iv)
			continue
		}

		firstEnd := dateutil.StartOfDay(iv.Start).AddDate(0, 0, 1)
		secondStart := dateutil.StartOfDay(iv.End)

		out = append(out,
			Interval{Start: iv.Start, End: firstEnd, Occupation: iv.Occupation},
			Interval{Start: secondStart, End: iv.End, Occupation: iv.Occupation},
		)
	}

	out = Clean(out, minSession)
	out.Sort()
	return out
}
