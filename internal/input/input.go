// Package input turns keyboard devices into a single stream of press and
// release events, keyed by Linux event codes.
package input

// Key is a Linux input event code.
// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
type Key uint16

const (
	KeyEsc   Key = 1
	KeyQ     Key = 16
	KeyA     Key = 30
	KeyS     Key = 31
	KeyD     Key = 32
	KeyF     Key = 33
	KeyG     Key = 34
	KeyH     Key = 35
	KeyJ     Key = 36
	KeyK     Key = 37
	KeyL     Key = 38
	KeySpace Key = 57
	KeyUp    Key = 103
	KeyLeft  Key = 105
	KeyRight Key = 106
	KeyDown  Key = 108
)

type Event struct {
	Key     Key
	Pressed bool
}

// Middle-row letters are the play keys.
var runeKeys = map[rune]Key{
	'a': KeyA, 's': KeyS, 'd': KeyD, 'f': KeyF, 'g': KeyG,
	'h': KeyH, 'j': KeyJ, 'k': KeyK, 'l': KeyL,
	'q': KeyQ,
}

// KeyFromRune maps a typed character to its event code.
func KeyFromRune(r rune) (Key, bool) {
	k, ok := runeKeys[r]
	return k, ok
}

// IsPlayKey reports whether the key counts as a hit press rather than a
// control key.
func (k Key) IsPlayKey() bool {
	return k >= KeyA && k <= KeyL
}
