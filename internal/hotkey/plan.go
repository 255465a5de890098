package hotkey

import (
	"log"
	"runtime"
	"sync"
)

// Mechanism identifies which registration mechanism a plan selected.
type Mechanism string

const (
	// MechanismNative uses the OS global-shortcut table (Windows, macOS).
	MechanismNative Mechanism = "native"
	// MechanismPortal uses the XDG Desktop Portal GlobalShortcuts interface
	// over the session D-Bus (Linux/Wayland).
	MechanismPortal Mechanism = "portal-dbus"
	// MechanismDisabled means no global hotkey mechanism is usable in this
	// session. Registration attempts fail gracefully.
	MechanismDisabled Mechanism = "disabled"
)

// SessionStatus is a diagnostic snapshot of the session classification that
// produced a plan. It is carried for the settings UI only and never consulted
// by registration logic after the plan is chosen.
type SessionStatus struct {
	Wayland bool          `json:"isWayland"`
	Family  DesktopFamily `json:"desktopFamily"`
	Version string        `json:"desktopVersion,omitempty"`
	Portal  bool          `json:"portalCandidate"`
	Method  string        `json:"method,omitempty"`
}

// RegistrationPlan pairs the selected mechanism with the session diagnostics
// behind the selection.
type RegistrationPlan struct {
	Mechanism Mechanism     `json:"mechanism"`
	Status    SessionStatus `json:"sessionStatus"`
}

// noSessionStatus is the all-negative default used whenever the session
// environment plays no part in the decision (native platforms, non-Wayland
// Linux).
var noSessionStatus = SessionStatus{
	Wayland: false,
	Family:  FamilyUnknown,
	Version: "",
	Portal:  false,
}

// ResolvePlan decides which registration mechanism applies for the given host
// and session classification. It is deterministic and total: every input
// combination yields exactly one plan, and no probing happens here. Live
// portal availability is only discovered at bind time and never changes the
// plan retroactively.
func ResolvePlan(goos, sessionType string, family DesktopFamily, version string, busReachable bool) RegistrationPlan {
	switch goos {
	case "windows", "darwin":
		return RegistrationPlan{Mechanism: MechanismNative, Status: noSessionStatus}
	case "linux":
		// Without a compositor portal the only Linux-native mechanism is
		// X11 key grabbing, which is unreliable across window managers, so
		// non-Wayland sessions never attempt native registration.
		if sessionType != "wayland" {
			return RegistrationPlan{Mechanism: MechanismDisabled, Status: noSessionStatus}
		}
		status := SessionStatus{
			Wayland: true,
			Family:  family,
			Version: version,
			Portal:  FamilySupportsPortal(family) && busReachable,
		}
		if !status.Portal {
			return RegistrationPlan{Mechanism: MechanismDisabled, Status: status}
		}
		status.Method = "globalshortcuts-portal"
		return RegistrationPlan{Mechanism: MechanismPortal, Status: status}
	default:
		return RegistrationPlan{Mechanism: MechanismDisabled, Status: noSessionStatus}
	}
}

var (
	planMu     sync.Mutex
	cachedPlan *RegistrationPlan
)

// CurrentPlan classifies the live session environment once and caches the
// result for the life of the process. The plan does not change even if the
// environment does; a restart (or ResetPlan) is the only way to re-evaluate.
func CurrentPlan() RegistrationPlan {
	planMu.Lock()
	defer planMu.Unlock()
	if cachedPlan != nil {
		return *cachedPlan
	}

	sessionType := "x11"
	if IsGraphicalSessionType("wayland") {
		sessionType = "wayland"
	}
	family := DetectDesktopFamily()
	plan := ResolvePlan(runtime.GOOS, sessionType, family, DesktopVersion(family), MessageBusReachable())
	log.Printf("Resolved hotkey registration plan: mechanism=%s wayland=%t family=%s",
		plan.Mechanism, plan.Status.Wayland, plan.Status.Family)

	cachedPlan = &plan
	return plan
}

// ResetPlan discards the cached plan so the next CurrentPlan call re-reads
// the environment. Intended for tests.
func ResetPlan() {
	planMu.Lock()
	defer planMu.Unlock()
	cachedPlan = nil
}
