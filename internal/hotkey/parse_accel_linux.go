//go:build linux

package hotkey

import (
	"fmt"

	"golang.design/x/hotkey"
)

// parseAccelerator converts an accelerator string such as "Primary+Alt+H"
// into golang.design/x/hotkey modifiers and key.
//
// Linux (X11) notes: Alt is Mod1, Super is Mod4, and Primary means Ctrl.
func parseAccelerator(accel string) ([]hotkey.Modifier, hotkey.Key, error) {
	tokens, keyStr, err := splitAccelerator(accel)
	if err != nil {
		return nil, 0, err
	}

	key, exists := keyMap[keyStr]
	if !exists {
		return nil, 0, fmt.Errorf("unsupported key: %s", keyStr)
	}

	var modifiers []hotkey.Modifier
	for _, token := range tokens {
		switch token {
		case modPrimary, modCtrl:
			modifiers = append(modifiers, hotkey.ModCtrl)
		case modAlt:
			modifiers = append(modifiers, hotkey.Mod1)
		case modShift:
			modifiers = append(modifiers, hotkey.ModShift)
		case modSuper:
			modifiers = append(modifiers, hotkey.Mod4)
		}
	}
	return modifiers, key, nil
}
