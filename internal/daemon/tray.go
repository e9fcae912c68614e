// +build windows

package daemon

import (
	"fmt"
	"syscall"
	"unsafe"

	"fyne.io/systray"
	"go.uber.org/zap"
)

var (
	user32      = syscall.NewLazyDLL("user32.dll")
	messageBoxW = user32.NewProc("MessageBoxW")
)

const (
	MB_OK              = 0x00000000
	MB_ICONINFORMATION = 0x00000040
)

// TrayApp represents system tray application
type TrayApp struct {
	daemon *Daemon
	logger *zap.Logger
	quit   chan struct{}
}

// NewTrayApp creates a new system tray application
func NewTrayApp(daemon *Daemon, logger *zap.Logger) (*TrayApp, error) {
	return &TrayApp{
		daemon: daemon,
		logger: logger,
		quit:   make(chan struct{}),
	}, nil
}

// Run starts the system tray application (blocks until Quit)
func (t *TrayApp) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *TrayApp) onReady() {
	systray.SetTitle("WT")
	systray.SetTooltip("Work Tracker")

	// One menu item per occupation, plus the standing actions
	occupationItems := make(map[string]*systray.MenuItem)
	for _, occ := range t.daemon.Occupations() {
		occupationItems[occ] = systray.AddMenuItem(occ, "Track occupation "+occ)
	}
	systray.AddSeparator()
	mSyncNow := systray.AddMenuItem("Sync Now", "Reconcile with the remote ledger immediately")
	mStatus := systray.AddMenuItem("Status", "Show current session status")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit the application")

	// Start tracking loop in background
	go t.daemon.runLoop()

	// Handle menu item clicks
	go func() {
		cases := make([]<-chan struct{}, 0, len(occupationItems))
		tags := make([]string, 0, len(occupationItems))
		for tag, item := range occupationItems {
			cases = append(cases, item.ClickedCh)
			tags = append(tags, tag)
		}
		occupationClicks := mergeClicks(cases, tags)

		for {
			select {
			case <-mSyncNow.ClickedCh:
				t.logger.Info("Sync Now clicked from tray")
				go t.daemon.SyncNow()
			case <-mStatus.ClickedCh:
				t.logger.Info("Status clicked from tray")
				t.showStatus()
			case <-mQuit.ClickedCh:
				t.logger.Info("Quit clicked from tray")
				t.daemon.Stop()
				systray.Quit()
				return
			case <-t.quit:
				systray.Quit()
				return
			case tag := <-occupationClicks:
				t.logger.Info("Occupation clicked from tray", zap.String("occupation", tag))
				go t.daemon.ChangeOccupation(tag)
			}
		}
	}()
}

// mergeClicks fans occupation menu clicks into a single channel carrying the
// clicked tag
func mergeClicks(clicks []<-chan struct{}, tags []string) <-chan string {
	out := make(chan string, 1)
	for i := range clicks {
		go func(ch <-chan struct{}, tag string) {
			for range ch {
				out <- tag
			}
		}(clicks[i], tags[i])
	}
	return out
}

func (t *TrayApp) onExit() {
	t.logger.Info("System tray exited")
}

// Stop stops the system tray application
func (t *TrayApp) Stop() {
	close(t.quit)
}

// ShowNotification shows a notification (Windows only)
func (t *TrayApp) ShowNotification(title, message string) {
	// fyne.io/systray doesn't have built-in notification support
	// Just log for now
	t.logger.Info("Notification", zap.String("title", title), zap.String("message", message))
}

// showStatus shows current tracking status
func (t *TrayApp) showStatus() {
	occupation, status := t.daemon.GetStatus()
	message := fmt.Sprintf("Occupation: %s\nStarted: %s\nWorked today: %s",
		occupation, status.StartTime, status.SessionTime)
	systray.SetTooltip(message)
	showMessageBox("Work Tracker Status", message)
}

func showMessageBox(title, message string) {
	titlePtr, _ := syscall.UTF16PtrFromString(title)
	messagePtr, _ := syscall.UTF16PtrFromString(message)
	messageBoxW.Call(
		0,
		uintptr(unsafe.Pointer(messagePtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		uintptr(MB_OK|MB_ICONINFORMATION),
	)
}
