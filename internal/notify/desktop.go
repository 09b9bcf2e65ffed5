package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// DesktopNotifier sends native desktop notifications where a backend
// exists (osascript on macOS, notify-send on Linux); elsewhere it is a
// silent no-op.
type DesktopNotifier struct {
	enabled bool
}

// NewDesktopNotifier creates a new desktop notifier
func NewDesktopNotifier() (*DesktopNotifier, error) {
	switch runtime.GOOS {
	case "darwin":
		return &DesktopNotifier{enabled: true}, nil
	case "linux":
		_, err := exec.LookPath("notify-send")
		return &DesktopNotifier{enabled: err == nil}, nil
	default:
		return &DesktopNotifier{enabled: false}, nil
	}
}

// Notify sends a desktop notification
func (d *DesktopNotifier) Notify(notification Notification) error {
	if !d.enabled {
		return nil
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "darwin" {
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(notification.Message), escapeAppleScript(notification.Title))
		cmd = exec.Command("osascript", "-e", script)
	} else {
		cmd = exec.Command("notify-send", notification.Title, notification.Message)
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to send desktop notification: %w", err)
	}
	return nil
}

// Close cleans up resources (no-op for desktop notifier)
func (d *DesktopNotifier) Close() error {
	return nil
}

// escapeAppleScript escapes quotes and backslashes for AppleScript
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
