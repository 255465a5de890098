//go:build !windows

package ui

import (
	"log"

	"github.com/gen2brain/beeep"
)

// pushNative displays a desktop notification via the freedesktop
// notification service (or the macOS notification center).
func (n *NotificationManager) pushNative(title, message string) {
	if err := beeep.Notify(title, message, ""); err != nil {
		log.Printf("Error showing notification: %v", err)
	}
}
