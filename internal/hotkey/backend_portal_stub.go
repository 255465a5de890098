//go:build !linux

package hotkey

// PortalBackend stub for non-Linux platforms. The portal mechanism is never
// selected by the capability resolver outside Linux, so this only exists to
// keep the package compiling everywhere.
type PortalBackend struct{}

// NewPortalBackend creates a stub that is never used on non-Linux platforms.
func NewPortalBackend(onTrigger TriggerFunc) *PortalBackend {
	return &PortalBackend{}
}

// Name returns the name of this backend.
func (b *PortalBackend) Name() string {
	return "XDG Desktop Portal (Linux only)"
}

// IsAvailable always reports false on non-Linux platforms.
func (b *PortalBackend) IsAvailable() bool {
	return false
}

// Register always fails on non-Linux platforms.
func (b *PortalBackend) Register(id, accelerator, description string) error {
	return ErrBackendNotAvailable
}

// Unregister is a no-op on non-Linux platforms.
func (b *PortalBackend) Unregister(id string) error {
	return nil
}

// UnregisterAll is a no-op on non-Linux platforms.
func (b *PortalBackend) UnregisterAll() error {
	return nil
}
