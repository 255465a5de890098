package hotkey

import (
	"fmt"
	"strings"
)

// Canonical modifier tokens after synonym folding.
const (
	modPrimary = "primary"
	modCtrl    = "ctrl"
	modAlt     = "alt"
	modShift   = "shift"
	modSuper   = "super"
)

// splitAccelerator tokenizes an accelerator string such as "Primary+Alt+H"
// into canonical modifier tokens and a lowercase key token. Accelerators are
// case-insensitive. The Primary token is kept distinct so platform parsers
// can resolve it (Ctrl everywhere except macOS, where it means Cmd).
func splitAccelerator(accel string) (mods []string, key string, err error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(accel)), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return nil, "", fmt.Errorf("empty accelerator %q", accel)
	}

	key = strings.TrimSpace(parts[len(parts)-1])
	for _, part := range parts[:len(parts)-1] {
		switch strings.TrimSpace(part) {
		case "primary", "commandorcontrol", "cmdorctrl":
			mods = append(mods, modPrimary)
		case "ctrl", "control":
			mods = append(mods, modCtrl)
		case "alt", "option":
			mods = append(mods, modAlt)
		case "shift":
			mods = append(mods, modShift)
		case "super", "cmd", "command", "win", "meta":
			mods = append(mods, modSuper)
		default:
			return nil, "", fmt.Errorf("unsupported modifier %q in accelerator %q", part, accel)
		}
	}
	return mods, key, nil
}

// portalTriggerNames maps canonical modifier tokens to the XDG shortcut
// trigger syntax understood by BindShortcuts' preferred_trigger option.
// The portal only exists on Linux, so Primary always means Ctrl here.
var portalTriggerNames = map[string]string{
	modPrimary: "<Ctrl>",
	modCtrl:    "<Ctrl>",
	modAlt:     "<Alt>",
	modShift:   "<Shift>",
	modSuper:   "<Super>",
}

// portalTrigger converts an accelerator string to a preferred_trigger value
// such as "<Ctrl><Shift>space". An accelerator the converter cannot express
// yields "", which tells the portal to let the user pick a trigger in the
// permission dialog.
func portalTrigger(accel string) string {
	mods, key, err := splitAccelerator(accel)
	if err != nil || key == "" {
		return ""
	}
	var b strings.Builder
	for _, mod := range mods {
		b.WriteString(portalTriggerNames[mod])
	}
	b.WriteString(key)
	return b.String()
}
