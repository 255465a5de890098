package hotkey

import (
	"errors"
	"log"
)

// ErrNotSupported is the graceful failure every registration attempt gets
// when no global hotkey mechanism exists for the current session. It is never
// raised as a crash; callers surface the message in diagnostics.
var ErrNotSupported = errors.New("global hotkeys are not supported on this platform")

// DisabledBackend is the mechanism of last resort: it accepts every call and
// reports registration as a clean failure without touching any transport.
// Selected on Linux/X11 and on Wayland sessions without a reachable portal.
type DisabledBackend struct{}

// NewDisabledBackend creates the no-op backend.
func NewDisabledBackend() *DisabledBackend {
	return &DisabledBackend{}
}

// Name returns the name of this backend.
func (b *DisabledBackend) Name() string {
	return "Disabled (no global hotkey mechanism)"
}

// IsAvailable always reports true; being unavailable is this backend's job.
func (b *DisabledBackend) IsAvailable() bool {
	return true
}

// Register always fails with ErrNotSupported.
func (b *DisabledBackend) Register(id, accelerator, description string) error {
	log.Printf("Disabled backend: refusing to register %q (%s)", id, accelerator)
	return ErrNotSupported
}

// Unregister is a no-op.
func (b *DisabledBackend) Unregister(id string) error {
	return nil
}

// UnregisterAll is a no-op.
func (b *DisabledBackend) UnregisterAll() error {
	return nil
}
