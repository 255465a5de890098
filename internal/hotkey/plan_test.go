package hotkey

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePlan(t *testing.T) {
	testCases := []struct {
		name         string
		goos         string
		sessionType  string
		family       DesktopFamily
		version      string
		busReachable bool
		expected     Mechanism
	}{
		{name: "windows is native", goos: "windows", sessionType: "", family: FamilyUnknown, expected: MechanismNative},
		{name: "darwin is native", goos: "darwin", sessionType: "", family: FamilyUnknown, expected: MechanismNative},
		{name: "linux x11 is disabled", goos: "linux", sessionType: "x11", family: FamilyKDE, busReachable: true, expected: MechanismDisabled},
		{name: "linux without session type is disabled", goos: "linux", sessionType: "", family: FamilyKDE, busReachable: true, expected: MechanismDisabled},
		{name: "wayland kde with bus uses portal", goos: "linux", sessionType: "wayland", family: FamilyKDE, version: "6", busReachable: true, expected: MechanismPortal},
		{name: "wayland gnome with bus uses portal", goos: "linux", sessionType: "wayland", family: FamilyGNOME, busReachable: true, expected: MechanismPortal},
		{name: "wayland unknown family is disabled", goos: "linux", sessionType: "wayland", family: FamilyUnknown, busReachable: true, expected: MechanismDisabled},
		{name: "wayland without bus is disabled", goos: "linux", sessionType: "wayland", family: FamilyKDE, busReachable: false, expected: MechanismDisabled},
		{name: "unrecognized OS is disabled", goos: "plan9", sessionType: "", family: FamilyUnknown, expected: MechanismDisabled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			plan := ResolvePlan(tc.goos, tc.sessionType, tc.family, tc.version, tc.busReachable)
			assert.Equal(t, tc.expected, plan.Mechanism)

			// Pure function: identical inputs yield structurally equal plans.
			again := ResolvePlan(tc.goos, tc.sessionType, tc.family, tc.version, tc.busReachable)
			assert.Equal(t, plan, again)

			assert.Contains(t, []Mechanism{MechanismNative, MechanismPortal, MechanismDisabled}, plan.Mechanism)
		})
	}
}

func TestResolvePlanNativeStatusIsAllNegative(t *testing.T) {
	plan := ResolvePlan("windows", "wayland", FamilyKDE, "6", true)
	assert.Equal(t, MechanismNative, plan.Mechanism)
	assert.Equal(t, noSessionStatus, plan.Status)
}

func TestResolvePlanPortalStatusReflectsDetection(t *testing.T) {
	plan := ResolvePlan("linux", "wayland", FamilyKDE, "6", true)
	require.Equal(t, MechanismPortal, plan.Mechanism)
	assert.True(t, plan.Status.Wayland)
	assert.Equal(t, FamilyKDE, plan.Status.Family)
	assert.Equal(t, "6", plan.Status.Version)
	assert.True(t, plan.Status.Portal)
	assert.Equal(t, "globalshortcuts-portal", plan.Status.Method)
}

func TestCurrentPlanIsCached(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("plan caching test depends on the linux decision table")
	}

	t.Setenv("XDG_SESSION_TYPE", "wayland")
	t.Setenv("XDG_CURRENT_DESKTOP", "KDE")
	t.Setenv("KDE_SESSION_VERSION", "6")
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "unix:path=/run/user/1000/bus")
	ResetPlan()
	t.Cleanup(ResetPlan)

	first := CurrentPlan()
	require.Equal(t, MechanismPortal, first.Mechanism)

	// The environment changing mid-run must not change the cached plan.
	t.Setenv("XDG_SESSION_TYPE", "x11")
	assert.Equal(t, first, CurrentPlan())

	ResetPlan()
	assert.Equal(t, MechanismDisabled, CurrentPlan().Mechanism)
}
