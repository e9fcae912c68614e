package daemon

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/username/work-tracker/internal/session"
	"go.uber.org/zap"
)

// Daemon represents the daemon process: it ticks the session tracker on a
// fixed interval and periodically reconciles the ledger with the remote store
type Daemon struct {
	tracker      *session.Tracker
	syncer       *session.Syncer // nil when remote sync is disabled
	tickInterval time.Duration
	pushEvery    int  // Ticks between remote syncs
	systemTray   bool // Show system tray icon
	occupations  []string
	logger       *zap.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	trayApp      *TrayApp
	mu           sync.Mutex // Serializes ticks against tray-triggered actions
	tickCount    int
	lastStatus   session.Status
}

// NewDaemon creates a new daemon instance
func NewDaemon(tracker *session.Tracker, syncer *session.Syncer, tickInterval time.Duration, pushEvery int, systemTray bool, occupations []string, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	if tickInterval <= 0 {
		tickInterval = time.Minute
	}
	if pushEvery <= 0 {
		pushEvery = 10
	}

	return &Daemon{
		tracker:      tracker,
		syncer:       syncer,
		tickInterval: tickInterval,
		pushEvery:    pushEvery,
		systemTray:   systemTray,
		occupations:  occupations,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start starts the daemon
func (d *Daemon) Start() error {
	// Initialize system tray if enabled (Windows only)
	if d.systemTray {
		d.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(d, d.logger)
		if err != nil {
			d.logger.Warn("Failed to initialize system tray", zap.Error(err))
			// Fall back to console mode
			d.runLoop()
			return nil
		}
		d.trayApp = trayApp
		// Run tray (blocks until Quit)
		d.trayApp.Run()
		return nil
	}

	d.logger.Info("Running without system tray")
	d.runLoop()
	return nil
}

// runLoop is the tracking loop (called from tray or standalone)
func (d *Daemon) runLoop() {
	d.logger.Info("Daemon started",
		zap.String("occupation", d.tracker.Occupation()),
		zap.Duration("tick_interval", d.tickInterval),
		zap.Int("push_every", d.pushEvery))

	// Reconcile with the remote ledger before the first tick so sessions
	// recorded on another machine are merged in
	if d.syncer != nil {
		if ok := d.runSync(); !ok {
			d.logger.Warn("Initial sync failed, continuing with local ledger")
		}
	} else {
		d.tick()
	}

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(d.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			d.shutdown()
			return

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			d.shutdown()
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			return

		case <-ticker.C:
			d.tick()
			if d.syncer != nil && d.tickCount%d.pushEvery == 0 {
				d.runSync()
			}
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// shutdown records the final session boundary and pushes it out
func (d *Daemon) shutdown() {
	d.tick()
	if d.syncer != nil {
		d.mu.Lock()
		d.syncer.Push(d.tracker)
		d.mu.Unlock()
	}
	d.logger.Info("Daemon stopped")
}

// tick advances the session tracker by one step
func (d *Daemon) tick() {
	d.mu.Lock()
	defer d.mu.Unlock()

	status, err := d.tracker.Tick(time.Now())
	if err != nil {
		d.logger.Error("Tick failed", zap.Error(err))
		return
	}
	d.tickCount++
	d.lastStatus = status

	d.logger.Debug("Tick",
		zap.String("occupation", d.tracker.Occupation()),
		zap.String("start_time", status.StartTime),
		zap.String("session_time", status.SessionTime))
}

// runSync reconciles the local ledger with the remote store
func (d *Daemon) runSync() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	ok := d.syncer.Sync(d.tracker, time.Now())
	if ok {
		d.tickCount++
		d.logger.Info("Remote sync completed")
	}
	return ok
}

// SyncNow triggers an immediate sync (called from tray menu)
func (d *Daemon) SyncNow() {
	d.logger.Info("Manual sync triggered from tray")
	if d.syncer == nil {
		d.logger.Warn("Remote sync is not configured")
		return
	}
	if ok := d.runSync(); !ok {
		d.logger.Error("Manual sync failed")
		if d.trayApp != nil {
			d.trayApp.ShowNotification("Sync Failed", "Could not reach the remote ledger")
		}
		return
	}
	if d.trayApp != nil {
		d.trayApp.ShowNotification("Sync Completed", "Ledger reconciled with remote")
	}
}

// ChangeOccupation switches tracking to a different occupation (called from
// tray menu)
func (d *Daemon) ChangeOccupation(occupation string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	status, err := d.tracker.ChangeOccupation(time.Now(), occupation)
	if err != nil {
		d.logger.Error("Failed to change occupation",
			zap.String("occupation", occupation),
			zap.Error(err))
		return
	}
	d.lastStatus = status
	d.logger.Info("Occupation changed", zap.String("occupation", occupation))
}

// Occupations returns the configured occupation tags
func (d *Daemon) Occupations() []string {
	return d.occupations
}

// GetStatus returns the current tracking status
func (d *Daemon) GetStatus() (occupation string, status session.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker.Occupation(), d.lastStatus
}
