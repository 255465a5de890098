package hotkey

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// Manager is the single entry point the rest of the application uses for
// global hotkeys. It owns the canonical per-hotkey state (enabled flag plus
// accelerator), routes registration to whichever backend the registration
// plan selected, and keeps registration idempotent: repeated enables,
// identical accelerator updates and duplicate register calls never reach the
// backend twice.
type Manager struct {
	mu      sync.Mutex
	plan    RegistrationPlan
	backend Backend
	states  map[string]*hotkeyState
	order   []string
	results map[string]RegistrationResult
}

// hotkeyState tracks one hotkey. enabled is intent; registered is whether the
// last backend register call for the current accelerator succeeded. The two
// can diverge: a failed registration leaves enabled=true so a later re-bind
// can recover without the caller re-toggling.
type hotkeyState struct {
	def         Definition
	enabled     bool
	accelerator string
	registered  bool
}

// BackendForPlan constructs the backend matching the plan's mechanism.
// onTrigger receives hotkey ids from whichever backend ends up active.
func BackendForPlan(plan RegistrationPlan, onTrigger TriggerFunc) Backend {
	switch plan.Mechanism {
	case MechanismNative:
		return NewNativeBackend(onTrigger)
	case MechanismPortal:
		return NewPortalBackend(onTrigger)
	default:
		return NewDisabledBackend()
	}
}

// NewManager builds a manager over the fixed definition table, overlaying the
// persisted settings. Settings for unknown ids are dropped with a log line;
// an empty persisted accelerator falls back to the definition default so the
// non-empty invariant always holds.
func NewManager(plan RegistrationPlan, backend Backend, settings map[string]Setting) *Manager {
	m := &Manager{
		plan:    plan,
		backend: backend,
		states:  make(map[string]*hotkeyState, len(Definitions)),
		results: make(map[string]RegistrationResult),
	}
	for _, def := range Definitions {
		state := &hotkeyState{def: def, enabled: true, accelerator: def.Default}
		if setting, ok := settings[def.ID]; ok {
			state.enabled = setting.Enabled
			if strings.TrimSpace(setting.Accelerator) != "" {
				state.accelerator = setting.Accelerator
			}
		}
		m.states[def.ID] = state
		m.order = append(m.order, def.ID)
	}
	for id := range settings {
		if _, ok := m.states[id]; !ok {
			log.Printf("Hotkey manager: ignoring persisted setting for unknown id %q", id)
		}
	}
	return m
}

// GetAccelerator returns the current accelerator for a hotkey, or "" for an
// unknown id.
func (m *Manager) GetAccelerator(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.states[id]; ok {
		return s.accelerator
	}
	return ""
}

// Accelerators returns a copy of the id → accelerator map.
func (m *Manager) Accelerators() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.states))
	for id, s := range m.states {
		out[id] = s.accelerator
	}
	return out
}

// IndividualSettings returns a copy of the id → enabled map.
func (m *Manager) IndividualSettings() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]bool, len(m.states))
	for id, s := range m.states {
		out[id] = s.enabled
	}
	return out
}

// FullSettings returns the persistable settings map in the shape the
// surrounding application writes to disk.
func (m *Manager) FullSettings() map[string]Setting {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Setting, len(m.states))
	for id, s := range m.states {
		out[id] = Setting{Enabled: s.enabled, Accelerator: s.accelerator}
	}
	return out
}

// SetAccelerator updates a hotkey's accelerator. Setting the current value is
// a no-op. When the hotkey is live on the backend the old combination is
// unregistered and the new one registered, in that order; backend failures
// are recorded as results, never returned as errors.
func (m *Manager) SetAccelerator(id, accelerator string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setAcceleratorLocked(id, accelerator)
}

func (m *Manager) setAcceleratorLocked(id, accelerator string) error {
	s, ok := m.states[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownHotkey, id)
	}
	if strings.TrimSpace(accelerator) == "" {
		return fmt.Errorf("accelerator for %q must not be empty", id)
	}
	if accelerator == s.accelerator {
		return nil
	}

	s.accelerator = accelerator
	if !s.registered {
		return nil
	}

	if err := m.backend.Unregister(id); err != nil {
		log.Printf("Hotkey manager: error unregistering %q for re-bind: %v", id, err)
	}
	s.registered = false
	m.recordResult(m.registerLocked(s))
	return nil
}

// SetIndividualEnabled flips one hotkey's enabled state. Repeating the
// current state is a no-op with zero backend calls. Enabling records intent
// even when backend registration fails, so a later re-bind can recover.
func (m *Manager) SetIndividualEnabled(id string, enabled bool) RegistrationResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setIndividualEnabledLocked(id, enabled)
}

func (m *Manager) setIndividualEnabledLocked(id string, enabled bool) RegistrationResult {
	s, ok := m.states[id]
	if !ok {
		return RegistrationResult{HotkeyID: id, Success: false, Error: ErrUnknownHotkey.Error()}
	}
	if s.enabled == enabled {
		return RegistrationResult{HotkeyID: id, Success: true}
	}

	if enabled {
		s.enabled = true
		result := m.registerLocked(s)
		m.recordResult(result)
		return result
	}

	if s.registered {
		if err := m.backend.Unregister(id); err != nil {
			log.Printf("Hotkey manager: error unregistering %q: %v", id, err)
		}
		s.registered = false
	}
	s.enabled = false
	result := RegistrationResult{HotkeyID: id, Success: true}
	m.recordResult(result)
	return result
}

// RegisterShortcuts registers every enabled, not-yet-registered hotkey
// against the active backend and returns the per-hotkey outcomes of this
// pass. Already-registered hotkeys are skipped, so repeated calls never
// duplicate backend entries.
func (m *Manager) RegisterShortcuts() []RegistrationResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	var results []RegistrationResult
	for _, id := range m.order {
		s := m.states[id]
		if !s.enabled || s.registered || s.def.Scope != ScopeGlobal {
			continue
		}
		result := m.registerLocked(s)
		m.recordResult(result)
		results = append(results, result)
	}
	return results
}

// UnregisterAll releases every registered hotkey in one backend call and
// clears the registration bookkeeping, so a later RegisterShortcuts starts
// clean.
func (m *Manager) UnregisterAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.backend.UnregisterAll(); err != nil {
		log.Printf("Hotkey manager: error unregistering all hotkeys: %v", err)
	}
	for _, s := range m.states {
		s.registered = false
	}
}

// UpdateAllAccelerators applies a bulk accelerator update. One hotkey's
// failure does not stop the rest of the batch.
func (m *Manager) UpdateAllAccelerators(accelerators map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		accelerator, ok := accelerators[id]
		if !ok {
			continue
		}
		if err := m.setAcceleratorLocked(id, accelerator); err != nil {
			log.Printf("Hotkey manager: bulk accelerator update for %q failed: %v", id, err)
		}
	}
}

// UpdateAllSettings applies a bulk settings update, accelerator first so an
// enable transition registers the new combination.
func (m *Manager) UpdateAllSettings(settings map[string]Setting) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		setting, ok := settings[id]
		if !ok {
			continue
		}
		if err := m.setAcceleratorLocked(id, setting.Accelerator); err != nil {
			log.Printf("Hotkey manager: bulk settings update for %q failed: %v", id, err)
		}
		m.setIndividualEnabledLocked(id, setting.Enabled)
	}
}

// DiagnosticStatus is the read-only snapshot shown on the settings screen.
type DiagnosticStatus struct {
	WaylandStatus        SessionStatus        `json:"waylandStatus"`
	RegistrationResults  []RegistrationResult `json:"registrationResults"`
	GlobalHotkeysEnabled bool                 `json:"globalHotkeysEnabled"`
}

// Diagnostics reports the session classification behind the active plan and
// the latest per-hotkey registration outcomes, in definition order.
func (m *Manager) Diagnostics() DiagnosticStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := DiagnosticStatus{
		WaylandStatus:        m.plan.Status,
		GlobalHotkeysEnabled: m.plan.Mechanism != MechanismDisabled,
	}
	for _, id := range m.order {
		if result, ok := m.results[id]; ok {
			status.RegistrationResults = append(status.RegistrationResults, result)
		}
	}
	return status
}

// registerLocked attempts one backend registration and reflects the outcome
// in the hotkey's registered flag.
func (m *Manager) registerLocked(s *hotkeyState) RegistrationResult {
	if s.def.Scope != ScopeGlobal {
		// In-app accelerators are handled by the window layer, not here.
		return RegistrationResult{HotkeyID: s.def.ID, Success: true}
	}

	err := m.backend.Register(s.def.ID, s.accelerator, s.def.Description)
	if err != nil {
		log.Printf("Hotkey manager: registering %q (%s) failed: %v", s.def.ID, s.accelerator, err)
		s.registered = false
		// A failed portal bind tears down the whole session, so shortcuts
		// bound through it earlier are gone too. Clear their flags so the
		// next registration pass re-attempts them.
		if m.plan.Mechanism == MechanismPortal {
			for _, other := range m.states {
				other.registered = false
			}
		}
		return RegistrationResult{HotkeyID: s.def.ID, Success: false, Error: err.Error()}
	}
	s.registered = true
	return RegistrationResult{HotkeyID: s.def.ID, Success: true}
}

func (m *Manager) recordResult(result RegistrationResult) {
	m.results[result.HotkeyID] = result
}
