package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/deskshell/hotkeys/internal/config"
	"github.com/deskshell/hotkeys/internal/hotkey"
	"github.com/deskshell/hotkeys/internal/ui"
)

const version = "v0.3.0"

func main() {
	log.Printf("hotkeyctl %s starting...", version)

	cfg, err := config.Load("hotkeys.json")
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	notifications := ui.NewNotificationManager(cfg.UseNotifications, "Deskshell Hotkeys")

	plan := hotkey.CurrentPlan()
	backend := hotkey.BackendForPlan(plan, func(id string) {
		log.Printf("Triggered: %s", id)
	})
	manager := hotkey.NewManager(plan, backend, cfg.Hotkeys)

	results := manager.RegisterShortcuts()
	notifications.ShowRegistrationFailures(results)

	diagnostics, err := json.MarshalIndent(manager.Diagnostics(), "", "  ")
	if err != nil {
		log.Fatalf("Error encoding diagnostics: %v", err)
	}
	fmt.Println(string(diagnostics))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down, releasing hotkeys...")
	manager.UnregisterAll()

	cfg.Hotkeys = manager.FullSettings()
	if err := cfg.Save(); err != nil {
		log.Printf("Warning: failed to save settings: %v", err)
	}
}
