package game

import (
	"math"

	"git.lost.host/meutraa/circles/internal/beatmap"
	"git.lost.host/meutraa/circles/internal/geom"
)

// AssistPointer aims at whatever should be hit next, for frontends with
// no pointing device of their own. The player only supplies timing.
type AssistPointer struct {
	Game *Game
}

func (a *AssistPointer) Position() geom.Point {
	g := a.Game
	if o, ok := g.Mode.(*Osu); ok && o.held != nil {
		s := o.held.Slider
		t := (g.Clock.Now - o.held.Time) / s.Duration
		return s.Path.At(t)
	}
	for hit := g.Cursor; !math.IsInf(hit.Time, 1); hit = hit.Next {
		if hit.State == beatmap.StateInitial {
			return hit.P
		}
	}
	return geom.P(256, 192)
}
