package hotkey

import (
	"fmt"
	"log"
	"sync"

	"golang.design/x/hotkey"
)

// NativeBackend registers hotkeys through the OS global-shortcut table via
// golang.design/x/hotkey. It works on Windows, macOS and X11; it does NOT
// work on Wayland.
type NativeBackend struct {
	mu         sync.Mutex
	registered map[string]*nativeHotkey
	onTrigger  TriggerFunc
}

// NewNativeBackend creates a native backend. onTrigger is invoked with the
// hotkey id every time a registered combination fires; it may be nil.
func NewNativeBackend(onTrigger TriggerFunc) *NativeBackend {
	return &NativeBackend{
		registered: make(map[string]*nativeHotkey),
		onTrigger:  onTrigger,
	}
}

// Name returns the name of this backend.
func (b *NativeBackend) Name() string {
	return "Native (golang.design/x/hotkey)"
}

// IsAvailable reports whether the OS shortcut table is usable here.
func (b *NativeBackend) IsAvailable() bool {
	return true
}

// Register grabs the accelerator in the OS shortcut table under the given id.
// Registering an id that is already registered is a no-op.
func (b *NativeBackend) Register(id, accelerator, description string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.registered[id]; exists {
		log.Printf("Native backend: hotkey %q already registered, skipping", id)
		return nil
	}

	modifiers, key, err := parseAccelerator(accelerator)
	if err != nil {
		return fmt.Errorf("failed to parse accelerator %q: %w", accelerator, err)
	}

	// Grab one table entry per lock-mask variant so the combination still
	// fires with NumLock/CapsLock held (X11 only; one entry elsewhere).
	nh := &nativeHotkey{
		id:          id,
		accelerator: accelerator,
		stopCh:      make(chan struct{}),
	}
	for _, combo := range expandModifiers(modifiers) {
		hk := hotkey.New(combo, key)
		if err := hk.Register(); err != nil {
			nh.unregisterGrabs()
			return fmt.Errorf("failed to register hotkey %q (%s): %w", id, accelerator, err)
		}
		nh.grabs = append(nh.grabs, hk)
	}

	nh.startEventConverter(b.onTrigger)
	b.registered[id] = nh
	log.Printf("Native backend: registered hotkey %q as %q", id, accelerator)
	return nil
}

// Unregister releases a hotkey by id. Unknown ids are a no-op.
func (b *NativeBackend) Unregister(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	nh, exists := b.registered[id]
	if !exists {
		log.Printf("Native backend: hotkey %q not found for unregister", id)
		return nil
	}

	if err := nh.Close(); err != nil {
		log.Printf("Native backend: error unregistering %q: %v", id, err)
		return err
	}
	delete(b.registered, id)
	log.Printf("Native backend: unregistered hotkey %q", id)
	return nil
}

// UnregisterAll releases every hotkey this backend registered.
func (b *NativeBackend) UnregisterAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	log.Printf("Native backend: unregistering all %d hotkeys", len(b.registered))
	for id, nh := range b.registered {
		if err := nh.Close(); err != nil {
			log.Printf("Native backend: error unregistering %q: %v", id, err)
		}
	}
	b.registered = make(map[string]*nativeHotkey)
	return nil
}

// nativeHotkey is one registered combination, possibly grabbed multiple times
// for lock-mask variants, with a goroutine funneling keydown events into the
// trigger callback.
type nativeHotkey struct {
	id          string
	accelerator string
	grabs       []*hotkey.Hotkey
	stopCh      chan struct{}
}

// startEventConverter fans the keydown channels of all grabs into onTrigger.
func (nh *nativeHotkey) startEventConverter(onTrigger TriggerFunc) {
	for _, hk := range nh.grabs {
		go func(hk *hotkey.Hotkey) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Recovered from panic in hotkey event converter (%s): %v", nh.id, r)
				}
			}()
			for {
				select {
				case <-nh.stopCh:
					return
				case _, ok := <-hk.Keydown():
					if !ok {
						return
					}
					log.Printf("Hotkey %q pressed (%s)", nh.id, nh.accelerator)
					if onTrigger != nil {
						onTrigger(nh.id)
					}
				}
			}
		}(hk)
	}
}

func (nh *nativeHotkey) unregisterGrabs() {
	for _, hk := range nh.grabs {
		if err := hk.Unregister(); err != nil {
			log.Printf("Native backend: error releasing grab for %q: %v", nh.id, err)
		}
	}
	nh.grabs = nil
}

// Close stops the event converter and releases all grabs.
func (nh *nativeHotkey) Close() error {
	select {
	case <-nh.stopCh:
	default:
		close(nh.stopCh)
	}
	nh.unregisterGrabs()
	return nil
}
