//go:build windows

package ui

import (
	"log"

	"github.com/go-toast/toast"
)

// pushNative displays a toast notification on Windows.
func (n *NotificationManager) pushNative(title, message string) {
	notification := toast.Notification{
		AppID:   n.appName,
		Title:   title,
		Message: message,
	}
	if err := notification.Push(); err != nil {
		log.Printf("Error showing toast notification: %v", err)
	}
}
