package game

import (
	"math"

	"git.lost.host/meutraa/circles/internal/beatmap"
	"git.lost.host/meutraa/circles/internal/geom"
	"git.lost.host/meutraa/circles/internal/input"
)

// Osu judges circles and sliders. It carries the one slider the player may
// be holding and the key holding it.
type Osu struct {
	held    *beatmap.Hit
	heldKey input.Key
}

func (o *Osu) Check(g *Game) {
	o.trackSlider(g)
	o.sweep(g)
}

// trackSlider runs the held slider: edge sounds when a repeat boundary is
// crossed, a follow check against the ball, and the final release when
// the slider ends.
func (o *Osu) trackSlider(g *Game) {
	hit := o.held
	if hit == nil {
		return
	}
	if g.Clock.Now >= hit.EndTime() {
		o.release(g, hit)
		return
	}
	s := hit.Slider
	if s.Duration <= 0 {
		return
	}
	t := (g.Clock.Now - hit.Time) / s.Duration
	prev := (g.Clock.Before - hit.Time) / s.Duration
	if prev >= 0 {
		if edge := int(math.Floor(t)); edge > int(math.Floor(prev)) && edge <= s.Repeat {
			g.Sounds.PlayHitSound(s.Sounds[edge])
		}
	}
	if pointer, ok := g.PointerPosition(); ok {
		ball := s.Path.At(t)
		if ball.Distance(pointer) > g.Beatmap.Difficulty.SliderTolerance {
			hit.State = beatmap.StateMissed
			g.Sounds.StopLoop()
			o.held = nil
		}
	}
}

// sweep settles everything too old to still be clicked and moves the
// cursor past it.
func (o *Osu) sweep(g *Game) {
	horizon := g.Clock.Now - g.Beatmap.Difficulty.Leniency
	for g.Cursor.Time < horizon {
		hit := g.Cursor
		if hit.Type&(beatmap.TypeCircle|beatmap.TypeSlider) == 0 {
			hit.State = beatmap.StateUnknown
		} else if hit.State == beatmap.StateInitial {
			hit.State = beatmap.StateMissed
		}
		g.Cursor = hit.Next
	}
}

// findClickable walks from the cursor to the first initial hit under the
// pointer within the approach window.
func (o *Osu) findClickable(g *Game, pointer geom.Point) *beatmap.Hit {
	d := g.Beatmap.Difficulty
	now := g.Clock.Now
	for hit := g.Cursor; hit.Time <= now+d.ApproachTime; hit = hit.Next {
		if hit.State != beatmap.StateInitial {
			continue
		}
		if hit.Time < now-d.ApproachTime {
			continue
		}
		if hit.P.Distance(pointer) > d.CircleRadius {
			continue
		}
		return hit
	}
	return nil
}

func (o *Osu) Press(g *Game, key input.Key) {
	pointer, ok := g.PointerPosition()
	if !ok {
		return
	}
	hit := o.findClickable(g, pointer)
	if hit == nil {
		return
	}
	now := g.Clock.Now
	if math.Abs(hit.Time-now) >= g.Beatmap.Difficulty.Leniency {
		hit.State = beatmap.StateMissed
		return
	}
	hit.Offset = now - hit.Time
	o.start(g, hit, key)
}

// start transitions a hit within the leniency window.
func (o *Osu) start(g *Game, hit *beatmap.Hit, key input.Key) {
	switch {
	case hit.Type&beatmap.TypeSlider != 0:
		if o.held != nil {
			o.release(g, o.held)
		}
		hit.State = beatmap.StateSliding
		o.held = hit
		o.heldKey = key
		g.Sounds.PlayHitSound(hit.Sound)
		g.Sounds.PlayHitSound(hit.Slider.Sounds[0])
	case hit.Type&beatmap.TypeCircle != 0:
		hit.State = beatmap.StateGood
		g.Sounds.PlayHitSound(hit.Sound)
	default:
		hit.State = beatmap.StateUnknown
	}
}

func (o *Osu) Release(g *Game, key input.Key) {
	if o.held != nil && key == o.heldKey {
		o.release(g, o.held)
	}
}

// release judges a held slider: letting go before the end window is a
// miss, otherwise the final edge sound plays and the slider is good.
func (o *Osu) release(g *Game, hit *beatmap.Hit) {
	if g.Clock.Now < hit.EndTime()-g.Beatmap.Difficulty.Leniency {
		hit.State = beatmap.StateMissed
	} else {
		hit.State = beatmap.StateGood
		g.Sounds.PlayHitSound(hit.Slider.Sounds[hit.Slider.Repeat])
	}
	g.Sounds.StopLoop()
	o.held = nil
}

// Autoplay plays every hit exactly on time, with no pointer involved.
func (o *Osu) Autoplay(g *Game) {
	o.trackSlider(g)
	for g.Cursor.Time <= g.Clock.Now {
		hit := g.Cursor
		g.Cursor = hit.Next
		if hit.State != beatmap.StateInitial {
			continue
		}
		hit.Offset = 0
		o.start(g, hit, 0)
	}
}

// Relinquish puts a held slider back to initial so a later press can
// retake it.
func (o *Osu) Relinquish(g *Game) {
	if o.held == nil {
		return
	}
	o.held.State = beatmap.StateInitial
	o.held = nil
	g.Sounds.StopLoop()
}
