package main

import (
	"fmt"

	"github.com/go-toast/toast"
)

// NotificationManager shows Windows toast notifications for profile
// operations.
type NotificationManager struct {
	appID   string
	enabled bool
}

func NewNotificationManager(enabled bool) *NotificationManager {
	return &NotificationManager{
		appID:   "LAMZU.Configurator",
		enabled: enabled,
	}
}

// ShowProfileApplied notifies that a profile write reached the mouse.
// A profileNumber of 0 means all profiles were written.
func (nm *NotificationManager) ShowProfileApplied(profileNumber int) {
	if !nm.enabled {
		return
	}
	message := "All profiles applied"
	if profileNumber > 0 {
		message = fmt.Sprintf("Profile %d applied", profileNumber)
	}
	notification := toast.Notification{
		AppID:   nm.appID,
		Title:   "LAMZU Configurator",
		Message: message,
	}
	if err := notification.Push(); err != nil && verbose {
		fmt.Printf("failed to show notification: %v\n", err)
	}
}

// ShowError notifies that a profile operation failed.
func (nm *NotificationManager) ShowError(message string) {
	if !nm.enabled {
		return
	}
	notification := toast.Notification{
		AppID:   nm.appID,
		Title:   "LAMZU Configurator",
		Message: message,
	}
	if err := notification.Push(); err != nil && verbose {
		fmt.Printf("failed to show notification: %v\n", err)
	}
}
