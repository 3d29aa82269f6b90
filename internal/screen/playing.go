package screen

import (
	"git.lost.host/meutraa/circles/internal/game"
	"git.lost.host/meutraa/circles/internal/input"
	"git.lost.host/meutraa/circles/internal/render"
)

const (
	rewindStep  = 5.0
	forwardStep = 10.0
)

type Playing struct {
	Game *game.Game
}

func (s *Playing) OnEvent(ev input.Event) Screen {
	switch {
	case ev.Key == input.KeyEsc && ev.Pressed:
		s.Game.Pause()
		return &Paused{Game: s.Game}
	case ev.Key == input.KeyLeft && ev.Pressed:
		s.Game.Rewind(rewindStep)
	case ev.Key == input.KeyRight && ev.Pressed:
		s.Game.Forward(forwardStep)
	case ev.Key.IsPlayKey() && !s.Game.Autoplay:
		if ev.Pressed {
			s.Game.Press(ev.Key)
		} else {
			s.Game.Release(ev.Key)
		}
	}
	return s
}

func (s *Playing) Update(wall float64) Screen {
	s.Game.Update(wall)
	if s.Game.Over() {
		return newScore(s.Game)
	}
	return s
}

func (s *Playing) Draw(v *render.View) {
	v.Renderer.Clear()
	v.DrawGame(s.Game)
}
