package game

import (
	"errors"
	"math"
	"testing"

	"git.lost.host/meutraa/circles/internal/beatmap"
	"git.lost.host/meutraa/circles/internal/geom"
	"git.lost.host/meutraa/circles/internal/input"
)

type stubAudio struct {
	timestamp float64
	duration  float64
	playing   bool
}

func (a *stubAudio) Timestamp() float64 { return a.timestamp }
func (a *stubAudio) Pause()             { a.playing = false }
func (a *stubAudio) Resume()            { a.playing = true }
func (a *stubAudio) Finished() bool     { return false }

func (a *stubAudio) Seek(target float64) error {
	if target < 0 {
		target = 0
	}
	if a.duration > 0 && target > a.duration {
		return errors.New("seek past end")
	}
	a.timestamp = target
	return nil
}

type recorder struct {
	played []beatmap.HitSound
	stops  int
}

func (r *recorder) PlayHitSound(s beatmap.HitSound) { r.played = append(r.played, s) }
func (r *recorder) StopLoop()                       { r.stops++ }

type fixedPointer struct{ p geom.Point }

func (f *fixedPointer) Position() geom.Point { return f.p }

func testMap(hits ...*beatmap.Hit) *beatmap.Beatmap {
	head := &beatmap.Hit{Time: math.Inf(-1), State: beatmap.StateUnknown}
	tail := &beatmap.Hit{Time: math.Inf(1), State: beatmap.StateUnknown}
	prev := head
	for _, h := range hits {
		prev.Next = h
		h.Previous = prev
		prev = h
	}
	prev.Next = tail
	tail.Previous = prev
	return &beatmap.Beatmap{
		Hits: head,
		Difficulty: beatmap.Difficulty{
			CircleRadius:    32,
			Leniency:        0.1,
			ApproachTime:    0.8,
			SliderTolerance: 64,
		},
	}
}

func circle(t float64, p geom.Point) *beatmap.Hit {
	return &beatmap.Hit{
		P:     p,
		Time:  t,
		Type:  beatmap.TypeCircle,
		Sound: beatmap.HitSound{SampleSet: beatmap.SampleSetSoft, Additions: beatmap.SoundNormal, Volume: 1},
	}
}

func slider(t float64, p geom.Point, duration float64, repeat int) *beatmap.Hit {
	sounds := make([]beatmap.HitSound, repeat+1)
	for i := range sounds {
		sounds[i] = beatmap.HitSound{
			SampleSet: beatmap.SampleSetNormal,
			Additions: beatmap.SoundNormal,
			Index:     i + 1,
			Volume:    1,
		}
	}
	return &beatmap.Hit{
		P:    p,
		Time: t,
		Type: beatmap.TypeSlider,
		Sound: beatmap.HitSound{
			SampleSet: beatmap.SampleSetNormal,
			Additions: beatmap.SoundNormal | beatmap.SoundTarget,
			Volume:    1,
		},
		Slider: &beatmap.Slider{
			Path:     &geom.Line{Points: []geom.Point{p, p.Add(geom.P(40, 0))}},
			Repeat:   repeat,
			Duration: duration,
			Sounds:   sounds,
		},
	}
}

func session(b *beatmap.Beatmap) (*Game, *stubAudio, *recorder) {
	a := &stubAudio{duration: 300}
	r := &recorder{}
	g := New(b, a, r)
	return g, a, r
}

func at(g *Game, before, now float64) {
	g.Clock.Before = before
	g.Clock.Now = now
}

func TestPressPerfectCircle(t *testing.T) {
	hit := circle(1, geom.P(100, 100))
	g, _, r := session(testMap(hit))
	g.Pointer = &fixedPointer{geom.P(100, 100)}

	at(g, 1, 1)
	g.Press(input.KeyF)

	if hit.State != beatmap.StateGood {
		t.Log("state", hit.State)
		t.Fail()
	}
	if hit.Offset != 0 {
		t.Log("offset", hit.Offset)
		t.Fail()
	}
	if len(r.played) != 1 || r.played[0] != hit.Sound {
		t.Log("played", r.played)
		t.Fail()
	}
}

func TestPressOutsideLeniency(t *testing.T) {
	hit := circle(1, geom.P(100, 100))
	g, _, _ := session(testMap(hit))
	g.Pointer = &fixedPointer{geom.P(100, 100)}

	// Inside the approach window, outside the leniency window.
	at(g, 0.5, 0.5)
	g.Press(input.KeyF)

	if hit.State != beatmap.StateMissed {
		t.Log("an early press should burn the hit, state", hit.State)
		t.Fail()
	}
}

func TestPressAwayFromCircle(t *testing.T) {
	hit := circle(1, geom.P(100, 100))
	g, _, r := session(testMap(hit))
	g.Pointer = &fixedPointer{geom.P(300, 300)}

	at(g, 1, 1)
	g.Press(input.KeyF)

	if hit.State != beatmap.StateInitial || len(r.played) != 0 {
		t.Log("a press far from any circle must be ignored")
		t.Fail()
	}
}

func TestCheckMissesUnpressedCircle(t *testing.T) {
	hit := circle(1, geom.P(100, 100))
	g, _, _ := session(testMap(hit))

	at(g, 1.0, 1.05)
	g.Mode.Check(g)
	if hit.State != beatmap.StateInitial {
		t.Log("still within leniency, state", hit.State)
		t.Fail()
	}

	at(g, 1.05, 1.11)
	g.Mode.Check(g)
	if hit.State != beatmap.StateMissed {
		t.Log("state", hit.State)
		t.Fail()
	}
	if g.Cursor != hit.Next {
		t.Log("cursor should move past the settled hit")
		t.Fail()
	}
}

func TestSliderEarlyRelease(t *testing.T) {
	hit := slider(1, geom.P(100, 100), 1, 1)
	g, _, r := session(testMap(hit))
	g.Pointer = &fixedPointer{geom.P(100, 100)}

	at(g, 1, 1)
	g.Press(input.KeyF)
	if hit.State != beatmap.StateSliding {
		t.Fatal("press should start the slider, state", hit.State)
	}
	if len(r.played) != 2 {
		t.Log("head press should sound the body loop and the head edge")
		t.Fail()
	}

	// End is at t=2; let go a full half second early.
	at(g, 1.4, 1.5)
	g.Release(input.KeyF)

	if hit.State != beatmap.StateMissed {
		t.Log("state", hit.State)
		t.Fail()
	}
	if r.stops != 1 {
		t.Log("loop track should stop on release, stops", r.stops)
		t.Fail()
	}
	if len(r.played) != 2 {
		t.Log("no tail sound on a miss, played", r.played)
		t.Fail()
	}
}

func TestSliderHeldToEnd(t *testing.T) {
	hit := slider(1, geom.P(100, 100), 0.5, 2)
	g, _, r := session(testMap(hit))
	g.Pointer = &fixedPointer{geom.P(100, 100)}

	at(g, 1, 1)
	g.Press(input.KeyF)

	// Crossing the repeat boundary at t=1.5 sounds the middle edge.
	at(g, 1.4, 1.6)
	g.Mode.Check(g)
	if len(r.played) != 3 || r.played[2] != hit.Slider.Sounds[1] {
		t.Log("repeat edge sound missing, played", r.played)
		t.Fail()
	}

	// End at t=2; no release event, the frame check settles it.
	at(g, 1.9, 2.01)
	g.Mode.Check(g)
	if hit.State != beatmap.StateGood {
		t.Log("state", hit.State)
		t.Fail()
	}
	if r.played[len(r.played)-1] != hit.Slider.Sounds[2] {
		t.Log("tail edge sound missing")
		t.Fail()
	}
	if r.stops != 1 {
		t.Log("loop should stop at the end, stops", r.stops)
		t.Fail()
	}
}

func TestSliderFollowFailure(t *testing.T) {
	hit := slider(1, geom.P(100, 100), 1, 1)
	g, _, r := session(testMap(hit))
	pointer := &fixedPointer{geom.P(100, 100)}
	g.Pointer = pointer

	at(g, 1, 1)
	g.Press(input.KeyF)

	pointer.p = geom.P(400, 400)
	at(g, 1.2, 1.3)
	g.Mode.Check(g)

	if hit.State != beatmap.StateMissed {
		t.Log("drifting off the ball should miss, state", hit.State)
		t.Fail()
	}
	if r.stops != 1 {
		t.Log("stops", r.stops)
		t.Fail()
	}
}

func TestReleaseOtherKeyKeepsSlider(t *testing.T) {
	hit := slider(1, geom.P(100, 100), 1, 1)
	g, _, _ := session(testMap(hit))
	g.Pointer = &fixedPointer{geom.P(100, 100)}

	at(g, 1, 1)
	g.Press(input.KeyF)
	g.Release(input.KeyD)

	if hit.State != beatmap.StateSliding {
		t.Log("a different key must not release the slider, state", hit.State)
		t.Fail()
	}
}

func TestAutoplaySpinnerIsUnknown(t *testing.T) {
	spin := &beatmap.Hit{Time: 1, Type: beatmap.TypeSpinner, End: 2}
	g, _, r := session(testMap(spin))
	g.Autoplay = true

	at(g, 0.9, 1.0)
	g.Mode.Autoplay(g)

	if spin.State != beatmap.StateUnknown {
		t.Log("state", spin.State)
		t.Fail()
	}
	if len(r.played) != 0 {
		t.Log("spinners are silent, played", r.played)
		t.Fail()
	}
}

func TestAutoplayPlaysOnTime(t *testing.T) {
	first := circle(1, geom.P(100, 100))
	second := circle(2, geom.P(200, 100))
	g, _, r := session(testMap(first, second))
	g.Autoplay = true

	at(g, 0.9, 1.0)
	g.Mode.Autoplay(g)
	if first.State != beatmap.StateGood || second.State != beatmap.StateInitial {
		t.Log("states", first.State, second.State)
		t.Fail()
	}
	if first.Offset != 0 || len(r.played) != 1 {
		t.Log("autoplay hits exactly on time")
		t.Fail()
	}
}

func TestForwardSkips(t *testing.T) {
	first := circle(1, geom.P(100, 100))
	second := circle(2, geom.P(200, 100))
	third := circle(3, geom.P(300, 100))
	g, a, _ := session(testMap(first, second, third))

	a.timestamp = 0.5
	g.Clock.Reset(0.5)
	g.Forward(2)

	if first.State != beatmap.StateSkipped || second.State != beatmap.StateSkipped {
		t.Log("states", first.State, second.State)
		t.Fail()
	}
	if third.State != beatmap.StateInitial || g.Cursor != third {
		t.Log("cursor should land on the first hit past the target")
		t.Fail()
	}
	if g.Clock.Now != 2.5 {
		t.Log("clock", g.Clock.Now)
		t.Fail()
	}
}

func TestForwardPastEndIsIgnored(t *testing.T) {
	hit := circle(1, geom.P(100, 100))
	g, a, _ := session(testMap(hit))
	a.duration = 3

	g.Clock.Reset(2)
	g.Forward(5)

	if g.Clock.Now != 2 || hit.State != beatmap.StateInitial {
		t.Log("a failed seek must not move anything")
		t.Fail()
	}
}

func TestRewindRestores(t *testing.T) {
	first := circle(1, geom.P(100, 100))
	second := circle(2, geom.P(200, 100))
	g, a, _ := session(testMap(first, second))

	first.State = beatmap.StateMissed
	second.State = beatmap.StateGood
	g.Cursor = second.Next
	a.timestamp = 2.5
	g.Clock.Reset(2.5)

	g.Rewind(2)

	if g.Clock.Now != 0.5 {
		t.Log("clock", g.Clock.Now)
		t.Fail()
	}
	if second.State != beatmap.StateInitial {
		t.Log("hit well past the target should replay, state", second.State)
		t.Fail()
	}
	// Less than a second ahead of the target: verdict stands.
	if first.State != beatmap.StateMissed {
		t.Log("state", first.State)
		t.Fail()
	}
	if g.Cursor != second {
		t.Log("cursor should return to the first restored hit")
		t.Fail()
	}
}

func TestRewindKeepsRecentGoodHit(t *testing.T) {
	hit := circle(9, geom.P(100, 100))
	g, a, _ := session(testMap(hit))

	hit.State = beatmap.StateGood
	g.Cursor = hit.Next
	a.timestamp = 10.5
	g.Clock.Reset(10.5)

	// The pause-resume buffer rewind must not re-judge the hit.
	g.Rewind(1)

	if hit.State != beatmap.StateGood {
		t.Log("state", hit.State)
		t.Fail()
	}
	if g.Cursor != hit.Next {
		t.Log("cursor must stay past the settled hit")
		t.Fail()
	}
	g.Mode.Check(g)
	if hit.State != beatmap.StateGood {
		t.Log("sweep re-judged the hit to", hit.State)
		t.Fail()
	}
}

func TestPauseRelinquishesSlider(t *testing.T) {
	hit := slider(1, geom.P(100, 100), 1, 1)
	g, a, r := session(testMap(hit))
	g.Pointer = &fixedPointer{geom.P(100, 100)}

	at(g, 1, 1)
	g.Press(input.KeyF)
	g.Pause()

	if hit.State != beatmap.StateInitial {
		t.Log("a held slider goes back to initial on pause, state", hit.State)
		t.Fail()
	}
	if r.stops != 1 || a.playing {
		t.Log("pause must silence everything")
		t.Fail()
	}
}

func TestUpdateResumesMusicAtZero(t *testing.T) {
	hit := circle(0.5, geom.P(100, 100))
	g, a, _ := session(testMap(hit))

	// Lead-in: clock starts at -0.5.
	if g.Clock.Now != -0.5 {
		t.Fatal("lead-in start", g.Clock.Now)
	}
	g.Update(0.25)
	if a.playing {
		t.Log("music must stay paused during the lead-in")
		t.Fail()
	}
	g.Update(0.80)
	if !a.playing {
		t.Log("music should start once the clock reaches zero")
		t.Fail()
	}
}

func TestCursorNeverMovesBackward(t *testing.T) {
	first := circle(1, geom.P(100, 100))
	second := circle(2, geom.P(200, 100))
	g, _, _ := session(testMap(first, second))

	at(g, 1.2, 1.2)
	g.Mode.Check(g)
	was := g.Cursor

	at(g, 1.2, 1.2)
	g.Mode.Check(g)
	if g.Cursor != was {
		t.Log("check must be idempotent at a fixed time")
		t.Fail()
	}
}

func TestAssistPointer(t *testing.T) {
	first := circle(1, geom.P(100, 100))
	hold := slider(2, geom.P(200, 100), 1, 1)
	g, _, _ := session(testMap(first, hold))
	g.Pointer = &AssistPointer{Game: g}

	at(g, 1, 1)
	if p, _ := g.PointerPosition(); p != first.P {
		t.Log("assist should aim at the next clickable hit, got", p)
		t.Fail()
	}

	g.Press(input.KeyF)
	if first.State != beatmap.StateGood {
		t.Fatal("assisted press should land, state", first.State)
	}

	// While holding, the assist follows the slider ball.
	at(g, 2, 2)
	g.Press(input.KeyF)
	at(g, 2.4, 2.5)
	if p, _ := g.PointerPosition(); p != hold.Slider.Path.At(0.5) {
		t.Log("assist should follow the ball, got", p)
		t.Fail()
	}
}

func TestOver(t *testing.T) {
	hit := circle(1, geom.P(100, 100))
	g, _, _ := session(testMap(hit))

	g.Clock.Reset(1.5)
	if g.Over() {
		t.Log("still inside the post-map margin")
		t.Fail()
	}
	g.Clock.Reset(2.0)
	if !g.Over() {
		t.Log("session should end after the margin")
		t.Fail()
	}
}
