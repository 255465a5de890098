package hotkey

import "errors"

// ErrBackendNotAvailable is returned when a backend cannot be used on the current system.
var ErrBackendNotAvailable = errors.New("backend not available on this system")

// ErrUnknownHotkey is returned when an operation names a hotkey id outside the
// fixed definition set.
var ErrUnknownHotkey = errors.New("unknown hotkey id")

// Backend is an interface that abstracts different hotkey registration
// mechanisms. This allows us to support Windows/macOS native registration and
// the Wayland portal without the manager knowing which one is active.
type Backend interface {
	// Register registers a single hotkey under its stable id with the given
	// accelerator string. The description is shown by backends that surface
	// shortcuts to the user (the portal permission dialog).
	Register(id, accelerator, description string) error

	// Unregister removes a previously registered hotkey by id.
	Unregister(id string) error

	// UnregisterAll removes all hotkeys registered by this backend.
	UnregisterAll() error

	// Name returns a human-readable name for this backend (for logging).
	Name() string

	// IsAvailable returns true if this backend can be used on the current system.
	IsAvailable() bool
}

// TriggerFunc is invoked when a registered hotkey fires. Backends call it
// from their own event goroutine with the hotkey id.
type TriggerFunc func(id string)

// RegistrationResult reports the outcome of one registration attempt for one
// hotkey. Every attempt produces a result regardless of the mechanism, so the
// caller can surface per-hotkey outcomes uniformly.
type RegistrationResult struct {
	HotkeyID string `json:"hotkeyId"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}
