package clock

import (
	"math"
	"testing"
)

func TestNewLeadIn(t *testing.T) {
	if c := New(2, 5); c.Now != -2 {
		t.Log("lead-in start", c.Now)
		t.Fail()
	}
	// No lead-in: one second of margin before the first hit.
	if c := New(0, 0.4); c.Now != -0.6 {
		t.Log("margin start", c.Now)
		t.Fail()
	}
	// A late first hit needs no negative start.
	if c := New(0, 30); c.Now != 0 {
		t.Log("late first hit start", c.Now)
		t.Fail()
	}
}

func TestUpdateFollowsAudio(t *testing.T) {
	c := New(0, 30)
	c.Update(0.5, 0.05, false)
	c.Update(0.6, 0.1, false)
	if c.Now != 0.1 {
		t.Log("audio timestamp should be authoritative, got", c.Now)
		t.Fail()
	}
	if c.Before != 0.05 {
		t.Log("before", c.Before)
		t.Fail()
	}
}

// A stalled audio timestamp must not freeze the game.
func TestUpdateStalledAudio(t *testing.T) {
	c := New(0, 30)
	c.Update(1.0, 10.0, false)
	c.Update(1.1, 10.0, false)
	delta := c.Now - 10.1
	if math.Abs(delta) > 1e-9 {
		t.Log("stalled frame should advance by the wall delta, now", c.Now)
		t.Fail()
	}
	if c.Now < c.Before {
		t.Log("monotonicity broken")
		t.Fail()
	}
}

func TestUpdateLeadIn(t *testing.T) {
	c := New(1, 5)
	c.Update(0.0, 0, false)
	c.Update(0.25, 0, false)
	c.Update(0.50, 0, false)
	if math.Abs(c.Now - -0.5) > 1e-9 {
		t.Log("lead-in should advance on the wall clock, now", c.Now)
		t.Fail()
	}
}

func TestUpdatePaused(t *testing.T) {
	c := New(0, 30)
	c.Update(1.0, 4.0, false)
	c.Update(2.0, 4.0, true)
	if c.Now != 4.0 {
		t.Log("paused clock moved to", c.Now)
		t.Fail()
	}
}

// Clock.Now must never go backward even when the audio timestamp does.
func TestUpdateMonotone(t *testing.T) {
	c := New(0, 30)
	times := [][2]float64{
		{1.0, 5.0}, {1.1, 5.1}, {1.2, 4.9}, {1.3, 5.2},
	}
	last := math.Inf(-1)
	for _, pair := range times {
		c.Update(pair[0], pair[1], false)
		if c.Now < last {
			t.Log("clock went backward at", pair, "now", c.Now)
			t.Fail()
		}
		if c.Now < c.Before {
			t.Log("now below before at", pair)
			t.Fail()
		}
		last = c.Now
	}
}
