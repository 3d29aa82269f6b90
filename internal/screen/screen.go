// Package screen sequences the phases of a session: playing, paused, and
// the final score.
package screen

import (
	"git.lost.host/meutraa/circles/internal/input"
	"git.lost.host/meutraa/circles/internal/render"
)

// Screen is one phase of the session. OnEvent and Update return the
// screen for the next frame; returning nil ends the session.
type Screen interface {
	OnEvent(ev input.Event) Screen
	Update(wall float64) Screen
	Draw(v *render.View)
}
