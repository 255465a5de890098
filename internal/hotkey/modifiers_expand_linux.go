//go:build linux

package hotkey

import "golang.design/x/hotkey"

// X11 lock masks that commonly interfere with XGrabKey.
// CapsLock is LockMask (1<<1) and NumLock is usually Mod2.
const linuxCapsLockMask hotkey.Modifier = 1 << 1

// expandModifiers returns the modifier combinations to grab so the hotkey
// still triggers while NumLock or CapsLock are enabled.
func expandModifiers(modifiers []hotkey.Modifier) [][]hotkey.Modifier {
	base := append([]hotkey.Modifier(nil), modifiers...)
	withNum := append(append([]hotkey.Modifier(nil), modifiers...), hotkey.Mod2)
	withCaps := append(append([]hotkey.Modifier(nil), modifiers...), linuxCapsLockMask)
	withBoth := append(append([]hotkey.Modifier(nil), modifiers...), hotkey.Mod2, linuxCapsLockMask)

	return [][]hotkey.Modifier{base, withNum, withCaps, withBoth}
}
