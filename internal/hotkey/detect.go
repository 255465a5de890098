package hotkey

import (
	"os"
	"strings"
)

// DesktopFamily identifies the desktop environment family of the current
// graphical session, as advertised by XDG_CURRENT_DESKTOP.
type DesktopFamily string

const (
	FamilyKDE      DesktopFamily = "kde"
	FamilyGNOME    DesktopFamily = "gnome"
	FamilyHyprland DesktopFamily = "hyprland"
	FamilySway     DesktopFamily = "sway"
	FamilyCosmic   DesktopFamily = "cosmic"
	FamilyDeepin   DesktopFamily = "deepin"
	FamilyUnknown  DesktopFamily = "unknown"
)

// knownFamilies is the closed set of recognized desktop identifier tokens.
var knownFamilies = []DesktopFamily{
	FamilyKDE,
	FamilyGNOME,
	FamilyHyprland,
	FamilySway,
	FamilyCosmic,
	FamilyDeepin,
}

// IsGraphicalSessionType reports whether the current graphical session is of
// the given kind ("wayland", "x11", ...). The comparison is case-insensitive;
// an absent or empty XDG_SESSION_TYPE reports false for every kind.
func IsGraphicalSessionType(kind string) bool {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	if sessionType == "" {
		return false
	}
	return strings.EqualFold(sessionType, kind)
}

// DetectDesktopFamily parses the colon-delimited XDG_CURRENT_DESKTOP value
// and returns the first recognized family token, or FamilyUnknown when
// nothing matches. Unparseable input never fails, it degrades to unknown.
func DetectDesktopFamily() DesktopFamily {
	current := os.Getenv("XDG_CURRENT_DESKTOP")
	if current == "" {
		return FamilyUnknown
	}
	for _, token := range strings.Split(current, ":") {
		token = strings.ToLower(strings.TrimSpace(token))
		for _, family := range knownFamilies {
			if token == string(family) {
				return family
			}
		}
	}
	return FamilyUnknown
}

// DesktopVersion returns the advertised version string for the given family,
// or "" when the family does not publish one. Only KDE and Hyprland expose a
// usable version/instance variable.
func DesktopVersion(family DesktopFamily) string {
	switch family {
	case FamilyKDE:
		return os.Getenv("KDE_SESSION_VERSION")
	case FamilyHyprland:
		return os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	default:
		return ""
	}
}

// FamilySupportsPortal reports whether the family is a candidate for the
// GlobalShortcuts portal. Every recognized family qualifies; the live
// capability check happens later, at bind time. This only prunes sessions we
// cannot classify at all.
func FamilySupportsPortal(family DesktopFamily) bool {
	return family != FamilyUnknown
}

// MessageBusReachable reports whether a session message bus looks reachable.
// This is a cheap environment heuristic, not a live connection test.
func MessageBusReachable() bool {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") != "" {
		return true
	}
	return os.Getenv("XDG_RUNTIME_DIR") != ""
}
