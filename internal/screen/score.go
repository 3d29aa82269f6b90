package screen

import (
	"fmt"
	"math"

	"git.lost.host/meutraa/circles/internal/beatmap"
	"git.lost.host/meutraa/circles/internal/game"
	"git.lost.host/meutraa/circles/internal/input"
	"git.lost.host/meutraa/circles/internal/render"
)

type Score struct {
	Game *game.Game

	Good, Missed, Skipped int
	// MeanOffset is the average lateness of good hits, in seconds.
	MeanOffset float64
}

func newScore(g *game.Game) *Score {
	s := &Score{Game: g}
	sum := 0.0
	for hit := g.Beatmap.FirstHit(); !math.IsInf(hit.Time, 1); hit = hit.Next {
		switch hit.State {
		case beatmap.StateGood:
			s.Good++
			sum += hit.Offset
		case beatmap.StateMissed:
			s.Missed++
		case beatmap.StateSkipped:
			s.Skipped++
		}
	}
	if s.Good > 0 {
		s.MeanOffset = sum / float64(s.Good)
	}
	return s
}

func (s *Score) OnEvent(ev input.Event) Screen {
	if ev.Pressed && (ev.Key == input.KeyEsc || ev.Key == input.KeyQ) {
		return nil
	}
	return s
}

func (s *Score) Update(wall float64) Screen {
	return s
}

func (s *Score) Draw(v *render.View) {
	v.Renderer.Clear()
	rows, cols := v.Renderer.Size()
	col := cols/2 - 12
	m := s.Game.Beatmap.Metadata
	v.Renderer.Fill(rows/2-3, col, fmt.Sprintf("%s - %s [%s]", m.Artist, m.Title, m.Version))
	v.Renderer.Fill(rows/2-1, col, fmt.Sprintf("   good:  %6d", s.Good))
	v.Renderer.Fill(rows/2, col, fmt.Sprintf(" missed:  %6d", s.Missed))
	if s.Skipped > 0 {
		v.Renderer.Fill(rows/2+1, col, fmt.Sprintf("skipped:  %6d", s.Skipped))
	}
	v.Renderer.Fill(rows/2+2, col, fmt.Sprintf("   mean: %+5.0f ms", s.MeanOffset*1000))
}
