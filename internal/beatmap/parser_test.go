package beatmap

import (
	"errors"
	"image/color"
	"math"
	"strings"
	"testing"
)

const fixture = `osu file format v14

[General]
AudioFilename: audio.mp3
AudioLeadIn: 2000
SampleSet: Soft
Mode: 0

[Metadata]
Title:Test Song
Artist:Test Artist
Creator:someone
Version:Hard
BeatmapID:12345

[Difficulty]
CircleSize:4
OverallDifficulty:7
ApproachRate:9
SliderMultiplier:1.6
SliderTickRate:2

[Events]
// background
0,0,"bg.jpg",0,0

[TimingPoints]
1000,500,4,2,1,80,1,0
2000,-50,4,1,0,60,0,1

[Colours]
Combo1 : 255,0,0
Combo2 : 0,255,0
Combo3 : 0,0,255

[HitObjects]
64,96,2000,1,0,0:0:0:0:
128,96,2500,1,8,0:0:0:0:
192,192,3000,6,0,L|292:192,2,100,2|0|8,0:0|0:0|0:0,0:0:0:0:
256,192,4000,12,0,5000,0:0:0:0:
100,100,5500,5,2,0:0:0:0:
`

func parseFixture(t *testing.T) *Beatmap {
	t.Helper()
	b, err := Parse(strings.NewReader(fixture))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func hits(b *Beatmap) []*Hit {
	var out []*Hit
	for h := b.FirstHit(); !math.IsInf(h.Time, 1); h = h.Next {
		out = append(out, h)
	}
	return out
}

func TestParseGeneral(t *testing.T) {
	b := parseFixture(t)
	if b.Version != 14 {
		t.Log("version", b.Version)
		t.Fail()
	}
	if b.AudioFilename != "audio.mp3" || b.AudioLeadIn != 2 {
		t.Log("general", b.AudioFilename, b.AudioLeadIn)
		t.Fail()
	}
	if b.SampleSet != SampleSetSoft || b.Mode != ModeOsu {
		t.Log("sample set", b.SampleSet, "mode", b.Mode)
		t.Fail()
	}
	if b.BackgroundFilename != "bg.jpg" {
		t.Log("background", b.BackgroundFilename)
		t.Fail()
	}
	if err := b.Validate(); err != nil {
		t.Log("validate", err)
		t.Fail()
	}
}

func TestParseDifficultyTransforms(t *testing.T) {
	d := parseFixture(t).Difficulty
	cases := []struct {
		name     string
		got, exp float64
	}{
		{"circle radius", d.CircleRadius, 54.4 - 4.48*4},
		{"approach size", d.ApproachSize, 3 * (54.4 - 4.48*4)},
		{"slider tolerance", d.SliderTolerance, 2 * (54.4 - 4.48*4)},
		{"leniency", d.Leniency, 0.1 + 0.04*(5-7)/5},
		{"approach time", d.ApproachTime, -0.12*9 + 1.5},
		{"slider multiplier", d.SliderMultiplier, 1.6},
	}
	for _, c := range cases {
		if math.Abs(c.got-c.exp) > 1e-9 {
			t.Log(c.name, "got", c.got, "expected", c.exp)
			t.Fail()
		}
	}
}

func TestParseTimingPoints(t *testing.T) {
	b := parseFixture(t)
	if len(b.TimingPoints) != 2 {
		t.Fatal("timing points", len(b.TimingPoints))
	}
	first, second := b.TimingPoints[0], b.TimingPoints[1]
	if first.Offset != 1 || first.BeatDuration != 0.5 || first.SampleSet != SampleSetSoft ||
		first.SampleIndex != 1 || first.Volume != 0.8 || first.Kiai {
		t.Log("first timing point", first)
		t.Fail()
	}
	// -50 is a 0.5× speed multiplier on the 0.5s base.
	if second.BeatDuration != 0.25 || !second.Kiai || second.Volume != 0.6 {
		t.Log("second timing point", second)
		t.Fail()
	}
}

func TestParseHitListInvariants(t *testing.T) {
	b := parseFixture(t)
	all := hits(b)
	if len(all) != 5 {
		t.Fatal("hit count", len(all))
	}
	if !math.IsInf(b.Hits.Time, -1) || !math.IsInf(b.LastHit().Next.Time, 1) {
		t.Log("sentinels missing")
		t.Fail()
	}
	lastTime := math.Inf(-1)
	lastCombo := 0
	for _, h := range all {
		if h.Time < lastTime {
			t.Log("hit out of order at", h.Time)
			t.Fail()
		}
		if h.Combo < lastCombo {
			t.Log("combo went backward at", h.Time)
			t.Fail()
		}
		if h.State != StateInitial {
			t.Log("hit not initial at", h.Time)
			t.Fail()
		}
		if h.Timing == nil {
			t.Log("hit without timing point at", h.Time)
			t.Fail()
		}
		lastTime, lastCombo = h.Time, h.Combo
	}
}

func TestParseComboColors(t *testing.T) {
	b := parseFixture(t)
	all := hits(b)
	combos := []int{1, 1, 2, 3, 4}
	seqs := []int{1, 2, 1, 1, 1}
	colors := []int{0, 0, 1, 2, 0} // ring of 3, wraps on the last hit
	for i, h := range all {
		if h.Combo != combos[i] || h.ComboSeq != seqs[i] || h.Color != colors[i] {
			t.Log("hit", i, "combo", h.Combo, h.ComboSeq, h.Color)
			t.Fail()
		}
	}
}

func TestParseSlider(t *testing.T) {
	b := parseFixture(t)
	slider := hits(b)[2]
	if slider.Type&TypeSlider == 0 || slider.Slider == nil {
		t.Fatal("third hit is not a slider")
	}
	s := slider.Slider
	if s.Repeat != 2 || s.Length != 100 {
		t.Log("slider", s.Repeat, s.Length)
		t.Fail()
	}
	// 100px at multiplier 1.6 under the inherited 0.25s beat.
	expected := 100 / (100 * 1.6) * 0.25
	if math.Abs(s.Duration-expected) > 1e-9 {
		t.Log("duration", s.Duration, "expected", expected)
		t.Fail()
	}
	end := slider.Time + s.Duration*2
	if math.Abs(slider.EndTime()-end) > 1e-9 {
		t.Log("end time", slider.EndTime(), "expected", end)
		t.Fail()
	}
	if d := s.Path.At(0).Distance(slider.P); d > 1e-6 {
		t.Log("path start", s.Path.At(0))
		t.Fail()
	}
	if s.Path.Length() != 100 {
		t.Log("path length", s.Path.Length())
		t.Fail()
	}
}

func TestParseSliderSounds(t *testing.T) {
	b := parseFixture(t)
	slider := hits(b)[2].Slider
	if len(slider.Sounds) != slider.Repeat+1 {
		t.Fatal("edge sounds", len(slider.Sounds))
	}
	expected := []Additions{
		SoundNormal | SoundWhistle,
		SoundNormal,
		SoundNormal | SoundClap,
	}
	for i, sound := range slider.Sounds {
		if sound.Additions != expected[i] {
			t.Log("edge", i, "additions", sound.Additions, "expected", expected[i])
			t.Fail()
		}
		if sound.Additions&SoundNormal == 0 {
			t.Log("edge", i, "misses the forced normal bit")
			t.Fail()
		}
		// Inherited from the governing timing point.
		if sound.Volume != 0.6 || sound.SampleSet != SampleSetNormal {
			t.Log("edge", i, "inheritance", sound.Volume, sound.SampleSet)
			t.Fail()
		}
	}
}

func TestParseSliderBodyTargetsLoop(t *testing.T) {
	b := parseFixture(t)
	slider := hits(b)[2]
	if slider.Sound.Additions&SoundTarget == 0 {
		t.Log("slider body sound should carry the loop target flag")
		t.Fail()
	}
	circle := hits(b)[0]
	if circle.Sound.Additions&SoundTarget != 0 {
		t.Log("circle sound should not target the loop track")
		t.Fail()
	}
}

func TestParseHitSoundResolution(t *testing.T) {
	b := parseFixture(t)
	all := hits(b)
	second := all[1]
	if second.Sound.Additions != SoundNormal|SoundClap {
		t.Log("second hit additions", second.Sound.Additions)
		t.Fail()
	}
	// The second timing point is in force: normal set, 60% volume.
	if second.Sound.SampleSet != SampleSetNormal || second.Sound.Volume != 0.6 {
		t.Log("second hit sound", second.Sound)
		t.Fail()
	}
	spinner := all[3]
	if spinner.Type&TypeSpinner == 0 || spinner.End != 5 {
		t.Log("spinner", spinner.Type, spinner.End)
		t.Fail()
	}
}

func TestParseInvalidHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("this is not a beatmap\n"))
	if !errors.Is(err, ErrInvalidHeader) {
		t.Log("expected ErrInvalidHeader, got", err)
		t.Fail()
	}
	_, err = Parse(strings.NewReader(""))
	if !errors.Is(err, ErrInvalidHeader) {
		t.Log("expected ErrInvalidHeader on empty input, got", err)
		t.Fail()
	}
}

func TestParseByteOrderMark(t *testing.T) {
	b, err := Parse(strings.NewReader("\uFEFF" + fixture))
	if err != nil {
		t.Fatal("a leading byte order mark should be stripped:", err)
	}
	if b.Version != 14 {
		t.Log("version", b.Version)
		t.Fail()
	}
}

func TestParseMisordered(t *testing.T) {
	misorderedHits := `osu file format v14

[HitObjects]
64,96,2000,1,0
64,96,1000,1,0
`
	if _, err := Parse(strings.NewReader(misorderedHits)); err == nil {
		t.Log("expected failure on misordered hits")
		t.Fail()
	}

	misorderedTiming := `osu file format v14

[TimingPoints]
2000,500,4,1,0,100,1,0
1000,500,4,1,0,100,1,0
`
	if _, err := Parse(strings.NewReader(misorderedTiming)); err == nil {
		t.Log("expected failure on misordered timing points")
		t.Fail()
	}
}

func TestParseDefaults(t *testing.T) {
	minimal := `osu file format v7

[HitObjects]
64,96,1000,1,0
`
	b, err := Parse(strings.NewReader(minimal))
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Colors) != 1 || b.Colors[0] != (color.RGBA{R: 128, G: 128, B: 128, A: 255}) {
		t.Log("default color", b.Colors)
		t.Fail()
	}
	if len(b.TimingPoints) != 1 || b.TimingPoints[0].BeatDuration != 0.5 {
		t.Log("default timing", b.TimingPoints)
		t.Fail()
	}
	if err := b.Validate(); err == nil {
		t.Log("expected validation failure on missing metadata")
		t.Fail()
	}
}

func TestParseMalformedLinesAreSkipped(t *testing.T) {
	noisy := `osu file format v14

[Metadata]
Title:Ok

[WeirdSection]
what:ever

[HitObjects]
garbage line
64,96,1000,1,0
`
	b, err := Parse(strings.NewReader(noisy))
	if err != nil {
		t.Fatal(err)
	}
	if len(hits(b)) != 1 {
		t.Log("hits", len(hits(b)))
		t.Fail()
	}
}
