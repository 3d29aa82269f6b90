// Package game drives hit evaluation: it consumes player input and the
// game clock and transitions hit objects between their states.
package game

import (
	"log"
	"math"

	"git.lost.host/meutraa/circles/internal/beatmap"
	"git.lost.host/meutraa/circles/internal/clock"
	"git.lost.host/meutraa/circles/internal/geom"
	"git.lost.host/meutraa/circles/internal/input"
)

// Audio is the slice of the player the evaluator needs: a playback
// timestamp, seeking, and pause control for the lead-in.
type Audio interface {
	Timestamp() float64
	Seek(target float64) error
	Pause()
	Resume()
	Finished() bool
}

// Sounds plays resolved hit sounds; the sound library routes
// slider-targeted sounds to the loop track.
type Sounds interface {
	PlayHitSound(s beatmap.HitSound)
	StopLoop()
}

// Pointer reports the player's aiming position in playfield coordinates.
type Pointer interface {
	Position() geom.Point
}

// Game owns the shared state of one play session. All mutation happens on
// the main thread.
type Game struct {
	Beatmap *beatmap.Beatmap
	Audio   Audio
	Sounds  Sounds
	Clock   *clock.Clock
	Mode    Mode
	Pointer Pointer

	// Cursor points at the oldest hit still in the initial state.
	// Everything strictly before it is settled; the +Inf sentinel
	// keeps it non-nil.
	Cursor *beatmap.Hit

	Autoplay bool
	Paused   bool

	// audible tracks whether the device is consuming music, which only
	// starts once the clock reaches zero.
	audible bool
}

func New(b *beatmap.Beatmap, a Audio, s Sounds) *Game {
	g := &Game{
		Beatmap: b,
		Audio:   a,
		Sounds:  s,
		Clock:   clock.New(b.AudioLeadIn, b.FirstHit().Time),
		Cursor:  b.FirstHit(),
		Mode:    &Osu{},
	}
	return g
}

// PointerPosition returns the aiming position, if any device provides
// one.
func (g *Game) PointerPosition() (geom.Point, bool) {
	if g.Pointer == nil {
		return geom.P(0, 0), false
	}
	return g.Pointer.Position(), true
}

// Update advances the clock by one frame and runs the evaluator. wall is
// the wall-clock time in seconds since the session started.
func (g *Game) Update(wall float64) {
	g.Clock.Update(wall, g.Audio.Timestamp(), g.Paused)
	if !g.Paused && !g.audible && g.Clock.Now >= 0 {
		g.Audio.Resume()
		g.audible = true
	}
	if g.Autoplay {
		g.Mode.Autoplay(g)
	} else {
		g.Mode.Check(g)
	}
}

// Pause freezes the clock and the music and lets go of any held slider.
func (g *Game) Pause() {
	g.Mode.Relinquish(g)
	g.Audio.Pause()
	g.audible = false
	g.Paused = true
}

// Unpause resumes play; the music restarts only once the clock reaches
// zero again.
func (g *Game) Unpause() {
	g.Paused = false
}

// Rewind seeks backward by offset seconds, restoring passed hits to the
// initial state. Hits within a second ahead of the target keep their
// verdict, so a short rewind does not re-judge what was just played.
func (g *Game) Rewind(offset float64) {
	now, ok := g.seek(g.Clock.Now - offset)
	if !ok {
		return
	}
	for g.Cursor.Previous != nil && g.Cursor.Previous.Time > now+1 {
		g.Cursor = g.Cursor.Previous
		g.Cursor.State = beatmap.StateInitial
	}
}

// Forward seeks ahead by offset seconds, marking skipped-over hits.
func (g *Game) Forward(offset float64) {
	now, ok := g.seek(g.Clock.Now + offset)
	if !ok {
		return
	}
	for g.Cursor.Time < now {
		if g.Cursor.State == beatmap.StateInitial {
			g.Cursor.State = beatmap.StateSkipped
		}
		g.Cursor = g.Cursor.Next
	}
}

// seek moves the music and the clock. On error (typically seeking past
// the end) neither is mutated.
func (g *Game) seek(target float64) (float64, bool) {
	g.Mode.Relinquish(g)
	g.Sounds.StopLoop()
	if err := g.Audio.Seek(target); err != nil {
		log.Println("seek failed:", err)
		return 0, false
	}
	now := g.Audio.Timestamp()
	g.Clock.Reset(now)
	return now, true
}

// Over reports the end of the session: the last hit has been settled for
// long enough that nothing remains clickable or visible.
func (g *Game) Over() bool {
	d := g.Beatmap.Difficulty
	last := g.Beatmap.LastHit()
	if math.IsInf(last.Time, -1) {
		return true
	}
	return g.Clock.Now > last.EndTime()+d.Leniency+d.ApproachTime
}

// Press forwards a key press to the mode.
func (g *Game) Press(key input.Key) {
	g.Mode.Press(g, key)
}

// Release forwards a key release to the mode.
func (g *Game) Release(key input.Key) {
	g.Mode.Release(g, key)
}
