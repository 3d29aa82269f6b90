package input

import (
	"github.com/eiannone/keyboard"
)

// ReadTerminal streams key events from the controlling terminal.
// Terminals report no key releases, so everything arrives as a press;
// held sliders then release themselves at the end of their path.
// The caller owns keyboard.Close.
func ReadTerminal(events chan<- Event) error {
	keys, err := keyboard.GetKeys(128)
	if err != nil {
		return err
	}
	go func() {
		for ev := range keys {
			if k, ok := translate(ev); ok {
				events <- Event{Key: k, Pressed: true}
			}
		}
	}()
	return nil
}

// CloseTerminal restores the terminal keyboard state.
func CloseTerminal() error {
	return keyboard.Close()
}

func translate(ev keyboard.KeyEvent) (Key, bool) {
	switch ev.Key {
	case keyboard.KeyEsc:
		return KeyEsc, true
	case keyboard.KeySpace:
		return KeySpace, true
	case keyboard.KeyArrowLeft:
		return KeyLeft, true
	case keyboard.KeyArrowRight:
		return KeyRight, true
	case keyboard.KeyArrowUp:
		return KeyUp, true
	case keyboard.KeyArrowDown:
		return KeyDown, true
	}
	return KeyFromRune(ev.Rune)
}
