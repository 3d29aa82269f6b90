// Package clock fuses the audio playback timestamp with the wall clock
// into a single monotonic game time.
package clock

import "math"

// Clock is the authoritative game time, in seconds. Now never moves
// backward; Before is Now from the previous frame.
type Clock struct {
	Now    float64
	Before float64

	audio  float64
	system float64
}

// New initializes the clock ahead of the first hit: at −leadIn when the
// beatmap declares one, otherwise far enough before the first hit to give
// the player a second of margin.
func New(leadIn, firstHitTime float64) *Clock {
	c := &Clock{}
	if leadIn > 0 {
		c.Now = -leadIn
	} else {
		c.Now = math.Min(0, firstHitTime-1)
	}
	c.Before = c.Now
	return c
}

// Update advances the clock for one frame. system is the wall time in
// seconds, audio the current playback timestamp. While the audio position
// is stalled (paused device, buffer underrun, lead-in) the wall clock
// carries the time forward; otherwise the audio timestamp is
// authoritative.
func (c *Clock) Update(system, audio float64, paused bool) {
	delta := system - c.system
	c.system = system
	c.Before = c.Now
	switch {
	case paused:
		// Frozen.
	case c.Before < 0:
		c.Now = c.Before + delta
	case audio == c.audio:
		c.Now = c.Before + delta
	default:
		c.Now = audio
	}
	c.audio = audio
	c.Now = math.Max(c.Now, c.Before)
}

// Reset forces the clock to a new position after a seek. Monotonicity is
// suspended for explicit seeks only.
func (c *Clock) Reset(now float64) {
	c.Now = now
	c.Before = now
}
