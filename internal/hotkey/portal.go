package hotkey

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Well-known names of the XDG Desktop Portal. These must match the portal
// specification exactly for interoperability.
const (
	portalBusName                  = "org.freedesktop.portal.Desktop"
	portalObjectPath               = "/org/freedesktop/portal/desktop"
	portalGlobalShortcutsInterface = "org.freedesktop.portal.GlobalShortcuts"
	portalPropertiesInterface      = "org.freedesktop.DBus.Properties"
)

// ShortcutSpec describes one shortcut in a BindShortcuts batch.
type ShortcutSpec struct {
	ID          string
	Description string
	Accelerator string
}

// Transport is one connection to the session message bus, scoped to the
// GlobalShortcuts portal. The production implementation sits on
// github.com/godbus/dbus/v5; tests substitute stubs. A Transport is used for
// exactly one portal session (or one availability probe) and then closed.
type Transport interface {
	// CreateSession negotiates a portal session using the given session
	// token and returns the session handle path.
	CreateSession(token string) (sessionPath string, err error)

	// Subscribe attaches listeners for the portal's Activated/Deactivated
	// signals. Must be called after CreateSession and before BindShortcuts
	// so no activation between bind and listener-attach is lost.
	Subscribe(onActivated, onDeactivated func(shortcutID string)) error

	// BindShortcuts binds the whole batch in one request against the session.
	BindShortcuts(sessionPath string, shortcuts []ShortcutSpec) error

	// Interfaces lists the interfaces the portal object advertises.
	Interfaces() ([]string, error)

	// Close tears down the portal session (if one was created) and the bus
	// connection. Safe to call more than once.
	Close() error
}

// TransportFactory opens a fresh message-bus connection. The factory is only
// ever invoked when the registration plan selected the portal mechanism, so
// no transport is initialized eagerly on other platforms.
type TransportFactory func() (Transport, error)

// PortalSessionClient owns at most one live portal session at a time. Every
// BindShortcuts call tears down any prior session and negotiates a fresh one;
// re-binding unchanged shortcuts costs a connection round trip but can never
// bind against a stale session handle. No method panics or returns an error
// across the public boundary: failures come back as per-shortcut results.
type PortalSessionClient struct {
	mu   sync.Mutex
	dial TransportFactory

	transport   Transport
	sessionPath string

	// Activation dispatch hook. The portal delivers Activated/Deactivated
	// per shortcut id; consumers install a handler via SetActivationHandlers.
	onActivated   func(id string)
	onDeactivated func(id string)
}

// NewPortalSessionClient creates a client that opens connections through dial.
func NewPortalSessionClient(dial TransportFactory) *PortalSessionClient {
	return &PortalSessionClient{dial: dial}
}

// SetActivationHandlers installs the callbacks invoked when the compositor
// reports a shortcut activation or deactivation. With no handler installed
// the signals are logged and dropped.
func (c *PortalSessionClient) SetActivationHandlers(onActivated, onDeactivated func(id string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onActivated = onActivated
	c.onDeactivated = onDeactivated
}

// BindShortcuts binds the entire shortcut set in one batch against a freshly
// created portal session. An empty batch returns an empty result list with no
// side effects. On any failure the whole batch is reported failed with the
// same error message and no half-open connection is left behind.
func (c *PortalSessionClient) BindShortcuts(shortcuts []ShortcutSpec) []RegistrationResult {
	results := make([]RegistrationResult, 0, len(shortcuts))
	if len(shortcuts) == 0 {
		return results
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Never reuse a session: a stale handle is worse than a reconnect.
	c.destroyLocked()

	transport, err := c.dial()
	if err != nil {
		return failAll(shortcuts, fmt.Errorf("connect session bus: %w", err))
	}
	c.transport = transport

	token := fmt.Sprintf("hotkeys_session_%d", time.Now().UnixNano())
	sessionPath, err := transport.CreateSession(token)
	if err != nil {
		c.destroyLocked()
		return failAll(shortcuts, fmt.Errorf("portal CreateSession failed: %w", err))
	}
	c.sessionPath = sessionPath

	// Listeners go on before the bind so an activation arriving right after
	// the portal accepts the batch cannot be lost.
	if err := transport.Subscribe(c.handleActivated, c.handleDeactivated); err != nil {
		c.destroyLocked()
		return failAll(shortcuts, fmt.Errorf("portal signal subscription failed: %w", err))
	}

	if err := transport.BindShortcuts(sessionPath, shortcuts); err != nil {
		c.destroyLocked()
		return failAll(shortcuts, fmt.Errorf("portal BindShortcuts failed: %w", err))
	}

	// Portal-level acceptance; the compositor grant only shows up later as
	// activation signals.
	log.Printf("Portal client: bound %d shortcut(s) in session %s", len(shortcuts), sessionPath)
	for _, s := range shortcuts {
		results = append(results, RegistrationResult{HotkeyID: s.ID, Success: true})
	}
	return results
}

// IsPortalAvailable probes whether the GlobalShortcuts interface is actually
// served on this bus. The probe connection is always closed before returning
// and any failure anywhere yields false, never an error.
func (c *PortalSessionClient) IsPortalAvailable() bool {
	transport, err := c.dial()
	if err != nil {
		log.Printf("Portal client: availability probe could not connect: %v", err)
		return false
	}
	defer func() {
		if err := transport.Close(); err != nil {
			log.Printf("Portal client: error closing probe connection: %v", err)
		}
	}()

	names, err := transport.Interfaces()
	if err != nil {
		log.Printf("Portal client: availability probe failed: %v", err)
		return false
	}
	for _, name := range names {
		if name == portalGlobalShortcutsInterface {
			return true
		}
	}
	return false
}

// DestroySession tears down the live session, if any. Idempotent and
// unconditional: state is cleared even when closing the connection fails.
func (c *PortalSessionClient) DestroySession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroyLocked()
}

// SessionPath returns the live session handle, or "" when no session exists.
func (c *PortalSessionClient) SessionPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionPath
}

func (c *PortalSessionClient) destroyLocked() {
	if c.transport != nil {
		if err := c.transport.Close(); err != nil {
			log.Printf("Portal client: error closing session transport: %v", err)
		}
	}
	c.transport = nil
	c.sessionPath = ""
}

func (c *PortalSessionClient) handleActivated(shortcutID string) {
	c.mu.Lock()
	handler := c.onActivated
	c.mu.Unlock()
	if handler == nil {
		log.Printf("Portal client: shortcut %q activated (no handler installed)", shortcutID)
		return
	}
	handler(shortcutID)
}

func (c *PortalSessionClient) handleDeactivated(shortcutID string) {
	c.mu.Lock()
	handler := c.onDeactivated
	c.mu.Unlock()
	if handler == nil {
		return
	}
	handler(shortcutID)
}

func failAll(shortcuts []ShortcutSpec, err error) []RegistrationResult {
	log.Printf("Portal client: %v", err)
	results := make([]RegistrationResult, 0, len(shortcuts))
	for _, s := range shortcuts {
		results = append(results, RegistrationResult{HotkeyID: s.ID, Success: false, Error: err.Error()})
	}
	return results
}
