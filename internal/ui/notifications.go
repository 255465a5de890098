// Package ui surfaces hotkey registration outcomes to the user as desktop
// notifications. Nothing here is consulted by the registration logic.
package ui

import (
	"fmt"
	"strings"

	"github.com/deskshell/hotkeys/internal/hotkey"
)

// NotificationManager handles showing notifications across platforms.
type NotificationManager struct {
	useNotifications bool
	appName          string
}

// NewNotificationManager creates a new notification manager.
func NewNotificationManager(useNotifications bool, appName string) *NotificationManager {
	return &NotificationManager{
		useNotifications: useNotifications,
		appName:          appName,
	}
}

// ShowNotification displays a desktop notification if enabled.
func (n *NotificationManager) ShowNotification(title, message string) {
	if !n.useNotifications {
		return
	}
	n.pushNative(title, message)
}

// ShowRegistrationFailures condenses failed registration results into one
// notification. Nothing is shown when everything succeeded.
func (n *NotificationManager) ShowRegistrationFailures(results []hotkey.RegistrationResult) {
	var lines []string
	for _, result := range results {
		if result.Success {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", result.HotkeyID, result.Error))
	}
	if len(lines) == 0 {
		return
	}
	n.ShowNotification("Hotkey registration issue", strings.Join(lines, "\n"))
}
