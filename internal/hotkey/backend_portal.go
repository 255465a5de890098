//go:build linux

package hotkey

import (
	"fmt"
	"log"
	"sync"
)

// PortalBackend registers hotkeys through the XDG Desktop Portal
// GlobalShortcuts interface, the only mechanism that works on Wayland
// compositors. The portal binds shortcuts as one atomic batch per session, so
// every mutation here re-binds the full desired set through the session
// client.
type PortalBackend struct {
	mu        sync.Mutex
	client    *PortalSessionClient
	shortcuts map[string]ShortcutSpec
	order     []string
}

// NewPortalBackend creates a portal backend dialing the session bus. onTrigger
// receives the hotkey id whenever the compositor reports an activation.
func NewPortalBackend(onTrigger TriggerFunc) *PortalBackend {
	return newPortalBackend(NewPortalSessionClient(DialSessionBus), onTrigger)
}

func newPortalBackend(client *PortalSessionClient, onTrigger TriggerFunc) *PortalBackend {
	b := &PortalBackend{
		client:    client,
		shortcuts: make(map[string]ShortcutSpec),
	}
	client.SetActivationHandlers(func(id string) {
		log.Printf("Portal backend: shortcut %q activated", id)
		if onTrigger != nil {
			onTrigger(id)
		}
	}, nil)
	return b
}

// Name returns the name of this backend.
func (b *PortalBackend) Name() string {
	return "XDG Desktop Portal (Wayland)"
}

// IsAvailable probes the live bus for the GlobalShortcuts interface.
func (b *PortalBackend) IsAvailable() bool {
	return b.client.IsPortalAvailable()
}

// Register adds the hotkey to the desired set and re-binds the whole batch.
func (b *PortalBackend) Register(id, accelerator, description string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.shortcuts[id]; !exists {
		b.order = append(b.order, id)
	}
	b.shortcuts[id] = ShortcutSpec{ID: id, Description: description, Accelerator: accelerator}
	return b.rebindLocked(id)
}

// Unregister drops the hotkey from the desired set. The remaining set is
// re-bound in a fresh session; an empty set just tears the session down.
func (b *PortalBackend) Unregister(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.shortcuts[id]; !exists {
		return nil
	}
	delete(b.shortcuts, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}

	if len(b.shortcuts) == 0 {
		b.client.DestroySession()
		return nil
	}
	return b.rebindLocked("")
}

// UnregisterAll clears the desired set and destroys the portal session.
func (b *PortalBackend) UnregisterAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.shortcuts = make(map[string]ShortcutSpec)
	b.order = nil
	b.client.DestroySession()
	return nil
}

// rebindLocked binds the current desired set as one batch. When forID is
// non-empty, the error (if any) reported for that shortcut is returned.
func (b *PortalBackend) rebindLocked(forID string) error {
	batch := make([]ShortcutSpec, 0, len(b.shortcuts))
	for _, id := range b.order {
		batch = append(batch, b.shortcuts[id])
	}

	results := b.client.BindShortcuts(batch)
	for _, result := range results {
		if result.Success {
			continue
		}
		if forID == "" || result.HotkeyID == forID {
			return fmt.Errorf("portal bind failed for %q: %s", result.HotkeyID, result.Error)
		}
	}
	return nil
}
