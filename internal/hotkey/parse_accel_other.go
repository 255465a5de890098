//go:build !linux && !windows

package hotkey

import (
	"fmt"

	"golang.design/x/hotkey"
)

// parseAccelerator converts an accelerator string such as "Primary+Alt+H"
// into golang.design/x/hotkey modifiers and key. Primary means Cmd on macOS.
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
		case modPrimary, modSuper:
			modifiers = append(modifiers, hotkey.ModCmd)
		case modCtrl:
			modifiers = append(modifiers, hotkey.ModCtrl)
		case modAlt:
			modifiers = append(modifiers, hotkey.ModOption)
		case modShift:
			modifiers = append(modifiers, hotkey.ModShift)
		}
	}
	return modifiers, key, nil
}

// expandModifiers is a no-op on macOS; Carbon hotkeys ignore lock-key state.
func expandModifiers(modifiers []hotkey.Modifier) [][]hotkey.Modifier {
	return [][]hotkey.Modifier{modifiers}
}
