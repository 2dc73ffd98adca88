//go:build !windows

package main

// NotificationManager is a no-op outside Windows; desktop notifications are
// only wired up for the toast API.
type NotificationManager struct{}

func NewNotificationManager(enabled bool) *NotificationManager {
	return &NotificationManager{}
}

func (nm *NotificationManager) ShowProfileApplied(profileNumber int) {}

func (nm *NotificationManager) ShowError(message string) {}
