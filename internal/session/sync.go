package session

import (
	"time"

	"github.com/username/work-tracker/internal/ledger"
	"github.com/username/work-tracker/internal/remote"
	"go.uber.org/zap"
)

// Syncer reconciles the tracked ledger with its remote copy. The remote side
// may have been edited by another instance running offline; the merge keeps
// every recorded interval from both sides.
type Syncer struct {
	store      remote.Store
	mirror     *ledger.Store
	remotePath string
	logger     *zap.Logger
}

// NewSyncer creates a syncer. mirror is the local file the remote copy is
// downloaded into before merging.
func NewSyncer(store remote.Store, mirror *ledger.Store, remotePath string, logger *zap.Logger) *Syncer {
	return &Syncer{
		store:      store,
		mirror:     mirror,
		remotePath: remotePath,
		logger:     logger,
	}
}

// Sync fetches the remote copy, merges it into the tracker's ledger, ticks
// once so the merged state is persisted, and pushes the result back. Remote
// failures leave the tracker running on local state; the return value
// reports whether both transfers succeeded.
func (s *Syncer) Sync(t *Tracker, now time.Time) bool {
	fetched := s.store.Fetch(s.remotePath, s.mirror.Path())
	if !fetched {
		s.logger.Warn("Remote fetch failed, continuing on local state")
	}

	// A stale mirror from an earlier fetch is still worth merging; on a true
	// first run the mirror bootstraps to a zero-length row that the cleanup
	// pass removes again.
	remoteLedger, err := s.mirror.Load(t.Occupation(), now)
	if err != nil {
		s.logger.Warn("Remote mirror unreadable, skipping merge", zap.Error(err))
	} else {
		t.MergeRemote(remoteLedger)
	}

	if _, err := t.Tick(now); err != nil {
		s.logger.Error("Failed to persist merged ledger", zap.Error(err))
		return false
	}

	pushed := s.Push(t)
	return fetched && pushed
}

// Push uploads the tracker's persisted ledger to the remote store
func (s *Syncer) Push(t *Tracker) bool {
	pushed := s.store.Push(t.store.Path(), s.remotePath)
	if !pushed {
		s.logger.Warn("Remote push failed, ledger remains local-only")
	}
	return pushed
}
