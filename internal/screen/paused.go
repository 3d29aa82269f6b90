package screen

import (
	"git.lost.host/meutraa/circles/internal/game"
	"git.lost.host/meutraa/circles/internal/input"
	"git.lost.host/meutraa/circles/internal/render"
)

// resumeRewind gives the player a second to reacquire the rhythm.
const resumeRewind = 1.0

type Paused struct {
	Game *game.Game
}

func (s *Paused) OnEvent(ev input.Event) Screen {
	if !ev.Pressed {
		return s
	}
	switch ev.Key {
	case input.KeyQ:
		return nil
	case input.KeyEsc, input.KeySpace:
		if s.Game.Clock.Now > 0 {
			s.Game.Rewind(resumeRewind)
		}
		s.Game.Unpause()
		return &Playing{Game: s.Game}
	}
	return s
}

func (s *Paused) Update(wall float64) Screen {
	// Keep feeding the clock so the wall delta stays sane on resume.
	s.Game.Update(wall)
	return s
}

func (s *Paused) Draw(v *render.View) {
	v.Renderer.Clear()
	v.DrawGame(s.Game)
	rows, cols := v.Renderer.Size()
	v.Renderer.Fill(rows/2, cols/2-4, " paused ")
}
