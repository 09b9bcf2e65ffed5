// Package notify announces terminal pipeline states (analysis done or
// failed) outside the TUI, so a run left in the background is not
// missed.
package notify

import (
	"fmt"
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeComplete NotificationType = "analysis_complete"
	NotificationTypeError    NotificationType = "analysis_error"
)

// Notification represents a notification to be sent
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string
	Timestamp time.Time
}

// Notifier is the interface for notification backends
type Notifier interface {
	// Notify sends a notification
	Notify(notification Notification) error
	// Close cleans up resources
	Close() error
}

// Manager fans a notification out to all registered backends
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new notification manager
func NewManager(notifiers ...Notifier) *Manager {
	return &Manager{
		notifiers: notifiers,
	}
}

// Notify sends a notification to all registered backends
func (m *Manager) Notify(notification Notification) error {
	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now()
	}

	var lastErr error
	for _, notifier := range m.notifiers {
		if err := notifier.Notify(notification); err != nil {
			lastErr = err
			// Continue to other notifiers even if one fails
		}
	}
	return lastErr
}

// Close closes all notifiers
func (m *Manager) Close() error {
	var lastErr error
	for _, notifier := range m.notifiers {
		if err := notifier.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// NotifyAnalysisComplete announces a finished pipeline run
func (m *Manager) NotifyAnalysisComplete(ticker string, scoredMoves int) error {
	return m.Notify(Notification{
		Type:    NotificationTypeComplete,
		Title:   "Analysis Complete",
		Message: fmt.Sprintf("%s: %d moves scored", ticker, scoredMoves),
	})
}

// NotifyAnalysisError announces a failed pipeline run
func (m *Manager) NotifyAnalysisError(ticker, reason string) error {
	return m.Notify(Notification{
		Type:    NotificationTypeError,
		Title:   "Analysis Failed",
		Message: fmt.Sprintf("%s: %s", ticker, reason),
	})
}
