package util

import (
	"github.com/coreos/go-systemd/daemon"
)

// Notifications to the service manager are best-effort: outside of a systemd
// unit (no NOTIFY_SOCKET) SdNotify is a no-op, and a failed notification never
// affects the collection cycle itself.

func NotifyReady(logger *Logger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		logger.PrintVerbose("Could not notify service manager of readiness: %s", err)
		return
	}
	if sent {
		logger.PrintVerbose("Notified service manager of readiness")
	}
}

func NotifyWatchdog(logger *Logger) {
	_, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog)
	if err != nil {
		logger.PrintVerbose("Could not send watchdog keep-alive: %s", err)
	}
}

func NotifyStopping(logger *Logger) {
	_, err := daemon.SdNotify(false, daemon.SdNotifyStopping)
	if err != nil {
		logger.PrintVerbose("Could not notify service manager of shutdown: %s", err)
	}
}
