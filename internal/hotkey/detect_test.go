package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGraphicalSessionType(t *testing.T) {
	testCases := []struct {
		name        string
		sessionType string
		kind        string
		expected    bool
	}{
		{name: "exact match", sessionType: "wayland", kind: "wayland", expected: true},
		{name: "case-insensitive match", sessionType: "Wayland", kind: "wayland", expected: true},
		{name: "different kind", sessionType: "x11", kind: "wayland", expected: false},
		{name: "empty variable", sessionType: "", kind: "wayland", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tc.sessionType)
			assert.Equal(t, tc.expected, IsGraphicalSessionType(tc.kind))
		})
	}
}

func TestDetectDesktopFamily(t *testing.T) {
	testCases := []struct {
		name     string
		current  string
		expected DesktopFamily
	}{
		{name: "plain KDE", current: "KDE", expected: FamilyKDE},
		{name: "ubuntu-prefixed GNOME", current: "ubuntu:GNOME", expected: FamilyGNOME},
		{name: "hyprland", current: "Hyprland", expected: FamilyHyprland},
		{name: "sway", current: "sway", expected: FamilySway},
		{name: "cosmic", current: "COSMIC", expected: FamilyCosmic},
		{name: "deepin", current: "Deepin", expected: FamilyDeepin},
		{name: "first recognized token wins", current: "Unity:GNOME:KDE", expected: FamilyGNOME},
		{name: "unrecognized", current: "Enlightenment", expected: FamilyUnknown},
		{name: "empty", current: "", expected: FamilyUnknown},
		{name: "garbage separators", current: ":::", expected: FamilyUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("XDG_CURRENT_DESKTOP", tc.current)
			assert.Equal(t, tc.expected, DetectDesktopFamily())
		})
	}
}

func TestDesktopVersion(t *testing.T) {
	t.Setenv("KDE_SESSION_VERSION", "6")
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "abc123")

	assert.Equal(t, "6", DesktopVersion(FamilyKDE))
	assert.Equal(t, "abc123", DesktopVersion(FamilyHyprland))
	assert.Equal(t, "", DesktopVersion(FamilyGNOME))
	assert.Equal(t, "", DesktopVersion(FamilyUnknown))
}

func TestDesktopVersionAbsent(t *testing.T) {
	t.Setenv("KDE_SESSION_VERSION", "")
	assert.Equal(t, "", DesktopVersion(FamilyKDE))
}

func TestFamilySupportsPortal(t *testing.T) {
	for _, family := range knownFamilies {
		assert.True(t, FamilySupportsPortal(family), "family %s should be a portal candidate", family)
	}
	assert.False(t, FamilySupportsPortal(FamilyUnknown))
}

func TestMessageBusReachable(t *testing.T) {
	testCases := []struct {
		name       string
		busAddress string
		runtimeDir string
		expected   bool
	}{
		{name: "bus address set", busAddress: "unix:path=/run/user/1000/bus", runtimeDir: "", expected: true},
		{name: "runtime dir set", busAddress: "", runtimeDir: "/run/user/1000", expected: true},
		{name: "both set", busAddress: "unix:path=/run/user/1000/bus", runtimeDir: "/run/user/1000", expected: true},
		{name: "neither set", busAddress: "", runtimeDir: "", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DBUS_SESSION_BUS_ADDRESS", tc.busAddress)
			t.Setenv("XDG_RUNTIME_DIR", tc.runtimeDir)
			assert.Equal(t, tc.expected, MessageBusReachable())
		})
	}
}
