//go:build linux

package hotkey

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	portalRequestInterface  = "org.freedesktop.portal.Request"
	portalSessionInterface  = "org.freedesktop.portal.Session"
	portalResponseSignal    = portalRequestInterface + ".Response"
	portalActivatedSignal   = portalGlobalShortcutsInterface + ".Activated"
	portalDeactivatedSignal = portalGlobalShortcutsInterface + ".Deactivated"
)

// portalShortcut is the wire shape of one BindShortcuts entry:
// (id, {description, preferred_trigger}).
type portalShortcut struct {
	ID      string
	Details map[string]dbus.Variant
}

// dbusTransport implements Transport on a godbus session-bus connection.
// One transport serves exactly one portal session or one availability probe.
type dbusTransport struct {
	conn        *dbus.Conn
	sessionPath dbus.ObjectPath

	closeOnce sync.Once
	closeErr  error
}

// DialSessionBus opens a fresh session-bus connection for portal use. It is
// the TransportFactory wired into the portal backend; nothing invokes it
// unless the registration plan selected the portal mechanism.
func DialSessionBus() (Transport, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &dbusTransport{conn: conn}, nil
}

// CreateSession performs GlobalShortcuts.CreateSession and waits for the
// Response signal carrying the session handle.
func (t *dbusTransport) CreateSession(token string) (string, error) {
	handleToken := token + "_req"
	waiter, err := t.subscribeResponse(portalRequestPath(t.conn.Names()[0], handleToken))
	if err != nil {
		return "", err
	}
	defer waiter.close()

	options := map[string]dbus.Variant{
		"handle_token":         dbus.MakeVariant(handleToken),
		"session_handle_token": dbus.MakeVariant(token),
	}
	var requestPath dbus.ObjectPath
	call := t.conn.Object(portalBusName, dbus.ObjectPath(portalObjectPath)).Call(
		portalGlobalShortcutsInterface+".CreateSession",
		0,
		options,
	)
	if call.Err != nil {
		return "", fmt.Errorf("CreateSession call failed: %w", call.Err)
	}
	if err := call.Store(&requestPath); err != nil {
		return "", fmt.Errorf("CreateSession decode failed: %w", err)
	}
	if err := waiter.retarget(requestPath); err != nil {
		return "", err
	}

	code, results, err := waiter.wait()
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", fmt.Errorf("CreateSession denied: response=%d", code)
	}

	raw, ok := results["session_handle"]
	if !ok {
		return "", fmt.Errorf("CreateSession response missing session_handle")
	}
	sessionPath, err := sessionHandlePath(raw)
	if err != nil {
		return "", err
	}
	t.sessionPath = sessionPath
	return string(sessionPath), nil
}

// Subscribe adds match rules for the Activated and Deactivated signals and
// starts a goroutine dispatching them to the handlers. Signals for other
// sessions are dropped. The goroutine exits when the connection closes.
func (t *dbusTransport) Subscribe(onActivated, onDeactivated func(shortcutID string)) error {
	for _, member := range []string{"Activated", "Deactivated"} {
		if err := t.conn.AddMatchSignal(
			dbus.WithMatchObjectPath(dbus.ObjectPath(portalObjectPath)),
			dbus.WithMatchInterface(portalGlobalShortcutsInterface),
			dbus.WithMatchMember(member),
		); err != nil {
			return fmt.Errorf("add %s match: %w", member, err)
		}
	}

	signals := make(chan *dbus.Signal, 32)
	t.conn.Signal(signals)
	// The dispatch goroutine must not read the struct field: Close clears it
	// from another goroutine. The session path is fixed for the life of this
	// transport, so a copy taken here stays correct.
	sessionPath := t.sessionPath
	go func() {
		for sig := range signals {
			dispatchShortcutSignal(sessionPath, sig, onActivated, onDeactivated)
		}
	}()
	return nil
}

// dispatchShortcutSignal routes one Activated/Deactivated signal to the
// matching handler, dropping signals for other sessions or with unexpected
// bodies.
func dispatchShortcutSignal(sessionPath dbus.ObjectPath, sig *dbus.Signal, onActivated, onDeactivated func(string)) {
	if sig == nil || (sig.Name != portalActivatedSignal && sig.Name != portalDeactivatedSignal) {
		return
	}
	if len(sig.Body) < 2 {
		return
	}
	session, ok := sig.Body[0].(dbus.ObjectPath)
	if !ok || session != sessionPath {
		return
	}
	shortcutID, ok := sig.Body[1].(string)
	if !ok {
		return
	}
	switch sig.Name {
	case portalActivatedSignal:
		if onActivated != nil {
			onActivated(shortcutID)
		}
	case portalDeactivatedSignal:
		if onDeactivated != nil {
			onDeactivated(shortcutID)
		}
	}
}

// BindShortcuts performs GlobalShortcuts.BindShortcuts with the whole batch
// and an empty parent window reference, then waits for the Response signal.
func (t *dbusTransport) BindShortcuts(sessionPath string, shortcuts []ShortcutSpec) error {
	handleToken := fmt.Sprintf("hotkeys_bind_%d", time.Now().UnixNano())
	waiter, err := t.subscribeResponse(portalRequestPath(t.conn.Names()[0], handleToken))
	if err != nil {
		return err
	}
	defer waiter.close()

	wire := make([]portalShortcut, 0, len(shortcuts))
	for _, s := range shortcuts {
		details := map[string]dbus.Variant{
			"description": dbus.MakeVariant(s.Description),
		}
		if trigger := portalTrigger(s.Accelerator); trigger != "" {
			details["preferred_trigger"] = dbus.MakeVariant(trigger)
		}
		wire = append(wire, portalShortcut{ID: s.ID, Details: details})
	}
	options := map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(handleToken),
	}

	var requestPath dbus.ObjectPath
	call := t.conn.Object(portalBusName, dbus.ObjectPath(portalObjectPath)).Call(
		portalGlobalShortcutsInterface+".BindShortcuts",
		0,
		dbus.ObjectPath(sessionPath),
		wire,
		"",
		options,
	)
	if call.Err != nil {
		return fmt.Errorf("BindShortcuts call failed: %w", call.Err)
	}
	if err := call.Store(&requestPath); err != nil {
		return fmt.Errorf("BindShortcuts decode failed: %w", err)
	}
	if err := waiter.retarget(requestPath); err != nil {
		return err
	}

	code, _, err := waiter.wait()
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("BindShortcuts denied: response=%d", code)
	}
	return nil
}

var interfaceNameRe = regexp.MustCompile(`interface name="([^"]+)"`)

// Interfaces introspects the portal object and returns the interface names it
// advertises.
func (t *dbusTransport) Interfaces() ([]string, error) {
	var xml string
	call := t.conn.Object(portalBusName, dbus.ObjectPath(portalObjectPath)).Call(
		"org.freedesktop.DBus.Introspectable.Introspect",
		0,
	)
	if call.Err != nil {
		return nil, fmt.Errorf("portal introspection failed: %w", call.Err)
	}
	if err := call.Store(&xml); err != nil {
		return nil, fmt.Errorf("portal introspection decode failed: %w", err)
	}

	var names []string
	for _, match := range interfaceNameRe.FindAllStringSubmatch(xml, -1) {
		names = append(names, match[1])
	}
	return names, nil
}

// Close ends the portal session (when one was created) and closes the bus
// connection. Errors from the session close are logged and swallowed; the
// connection is closed regardless.
func (t *dbusTransport) Close() error {
	t.closeOnce.Do(func() {
		if t.sessionPath != "" {
			call := t.conn.Object(portalBusName, t.sessionPath).Call(portalSessionInterface+".Close", 0)
			if call.Err != nil {
				log.Printf("Portal transport: session close failed: %v", call.Err)
			}
			t.sessionPath = ""
		}
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}

// responseWaiter listens for a Request object's Response signal. It must be
// created before the method call that produces the Request: the portal emits
// Response right after replying, and a channel registered only after the
// reply can miss it, blocking the caller forever since no timeout is imposed
// on portal calls.
type responseWaiter struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal
	paths   []dbus.ObjectPath
}

// subscribeResponse registers a signal channel and a match rule for the
// predicted request path before any method call goes out.
func (t *dbusTransport) subscribeResponse(expected dbus.ObjectPath) (*responseWaiter, error) {
	w := &responseWaiter{conn: t.conn, signals: make(chan *dbus.Signal, 8)}
	t.conn.Signal(w.signals)
	if err := w.match(expected); err != nil {
		t.conn.RemoveSignal(w.signals)
		return nil, err
	}
	return w, nil
}

func (w *responseWaiter) match(path dbus.ObjectPath) error {
	if err := w.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(portalRequestInterface),
		dbus.WithMatchMember("Response"),
	); err != nil {
		return fmt.Errorf("add response match: %w", err)
	}
	w.paths = append(w.paths, path)
	return nil
}

// retarget also accepts the request path the portal actually returned when it
// differs from the predicted one (portal versions predating predictable
// handles ignore handle_token).
func (w *responseWaiter) retarget(path dbus.ObjectPath) error {
	for _, existing := range w.paths {
		if existing == path {
			return nil
		}
	}
	return w.match(path)
}

// wait blocks until a Response signal for one of the accepted request paths
// arrives and returns its response code and results vardict.
func (w *responseWaiter) wait() (uint32, map[string]dbus.Variant, error) {
	for sig := range w.signals {
		code, results, matched, err := decodeResponse(w.paths, sig)
		if err != nil {
			return 0, nil, err
		}
		if !matched {
			continue
		}
		return code, results, nil
	}
	return 0, nil, fmt.Errorf("connection closed while waiting for portal response")
}

func (w *responseWaiter) close() {
	for _, path := range w.paths {
		_ = w.conn.RemoveMatchSignal(
			dbus.WithMatchObjectPath(path),
			dbus.WithMatchInterface(portalRequestInterface),
			dbus.WithMatchMember("Response"),
		)
	}
	w.conn.RemoveSignal(w.signals)
}

// decodeResponse checks one signal against the accepted request paths and,
// when it matches, decodes the (code, results) response body.
func decodeResponse(paths []dbus.ObjectPath, sig *dbus.Signal) (uint32, map[string]dbus.Variant, bool, error) {
	if sig == nil || sig.Name != portalResponseSignal {
		return 0, nil, false, nil
	}
	matched := false
	for _, path := range paths {
		if sig.Path == path {
			matched = true
			break
		}
	}
	if !matched {
		return 0, nil, false, nil
	}
	if len(sig.Body) < 2 {
		return 0, nil, false, fmt.Errorf("portal response malformed")
	}
	code, ok := sig.Body[0].(uint32)
	if !ok {
		return 0, nil, false, fmt.Errorf("portal response code has type %T", sig.Body[0])
	}
	results, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		results = map[string]dbus.Variant{}
	}
	return code, results, true, nil
}

// portalRequestPath predicts the Request object path the portal allocates for
// a call: the caller's unique bus name with the leading colon stripped and
// dots replaced by underscores, followed by the handle token.
func portalRequestPath(sender, handleToken string) dbus.ObjectPath {
	sender = strings.TrimPrefix(sender, ":")
	sender = strings.ReplaceAll(sender, ".", "_")
	return dbus.ObjectPath(portalObjectPath + "/request/" + sender + "/" + handleToken)
}

// sessionHandlePath decodes the session_handle variant, which some portal
// implementations send as an object path and others as a plain string.
func sessionHandlePath(raw dbus.Variant) (dbus.ObjectPath, error) {
	switch value := raw.Value().(type) {
	case dbus.ObjectPath:
		if !value.IsValid() {
			return "", fmt.Errorf("session_handle is not a valid object path: %q", string(value))
		}
		return value, nil
	case string:
		path := dbus.ObjectPath(value)
		if !path.IsValid() {
			return "", fmt.Errorf("session_handle string is not a valid object path: %q", value)
		}
		return path, nil
	default:
		return "", fmt.Errorf("session_handle has unexpected type %T", raw.Value())
	}
}
