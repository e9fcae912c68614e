package ledger

// Merge reconciles a local ledger with a possibly-stale remote copy.
//
// Element-wise identical ledgers are returned as-is. Otherwise the rows form
// a union keyed by (occupation, start, end); rows sharing a start are a
// conflict (both sides recorded the same session start but disagree on the
// end, typically because one side is stale) and collapse to a single row
// whose end is the maximum end among them. Recorded work is never lost and
// never shortened. The result is sorted ascending by start.
//
// Conflicts are resolved by grouping on start rather than positional
// duplicate scanning, so the outcome is independent of input order; the
// surviving occupation is the one carried by the longest row, local winning
// exact ties.
func Merge(local, remote Ledger) Ledger {
	if local.Equal(remote) {
		return local.Clone()
	}

	type key struct {
		start, end int64
		occupation string
	}

	union := make(Ledger, 0, len(local)+len(remote))
	seen := make(map[key]bool, len(local)+len(remote))
	for _, iv := range append(local.Clone(), remote...) {
		k := key{iv.Start.UnixNano(), iv.End.UnixNano(), iv.Occupation}
		if seen[k] {
			continue
		}
		seen[k] = true
		union = append(union, iv)
	}

	// Group by start; first row of a group wins ties on end because local
	// rows precede remote rows in the union.
	byStart := make(map[int64]Interval, len(union))
	order := make([]int64, 0, len(union))
	for _, iv := range union {
		start := iv.Start.UnixNano()
		current, ok := byStart[start]
		if !ok {
			byStart[start] = iv
			order = append(order, start)
			continue
		}
		if iv.End.After(current.End) {
			byStart[start] = iv
		}
	}

	merged := make(Ledger, 0, len(order))
	for _, start := range order {
		merged = append(merged, byStart[start])
	}
	merged.Sort()
	return merged
}
