package beatmap

import (
	"errors"
	"image/color"
	"math"
)

// Mode is the game mode a beatmap was made for. Only osu!standard is
// interpreted by the evaluator; the other modes parse fine but their hits
// end up in the unknown state.
type Mode int

const (
	ModeOsu Mode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

// SampleSet selects one of the three sample families, or Auto to inherit
// from the timing point in force.
type SampleSet int

const (
	SampleSetAuto SampleSet = iota
	SampleSetNormal
	SampleSetSoft
	SampleSetDrum
)

// TimingPoint gives the beat duration and default sound attributes in
// force from Offset forward. BeatDuration is always the effective value in
// seconds; inherited points are resolved by the parser.
type TimingPoint struct {
	Offset       float64
	BeatDuration float64
	Meter        int
	SampleSet    SampleSet
	SampleIndex  int
	Volume       float64
	Kiai         bool
}

type Metadata struct {
	Title, TitleUnicode   string
	Artist, ArtistUnicode string
	Creator               string
	Version               string
	Source                string
	Tags                  string
	BeatmapID             int
	BeatmapSetID          int
}

// Difficulty holds the derived difficulty parameters, already converted
// from the raw 0..10 beatmap scales.
type Difficulty struct {
	CircleRadius      float64
	OverallDifficulty float64
	Leniency          float64
	ApproachTime      float64
	ApproachSize      float64
	SliderMultiplier  float64
	SliderTickRate    float64
	SliderTolerance   float64
}

type Beatmap struct {
	Version       int
	AudioFilename string
	AudioLeadIn   float64
	PreviewTime   float64
	SampleSet     SampleSet
	Mode          Mode

	Metadata   Metadata
	Difficulty Difficulty

	BackgroundFilename string

	TimingPoints []TimingPoint
	// Colors is a ring; combo color selection walks it with modular
	// arithmetic.
	Colors []color.RGBA

	// Hits points at the leading sentinel of the doubly linked hit
	// list. The trailing sentinel sits at time +Inf so cursor traversal
	// never runs off the end.
	Hits *Hit
}

// FirstHit returns the first real hit, or the trailing sentinel when the
// map is empty.
func (b *Beatmap) FirstHit() *Hit {
	return b.Hits.Next
}

// LastHit returns the last real hit, or the leading sentinel when the map
// is empty.
func (b *Beatmap) LastHit() *Hit {
	h := b.Hits
	for h.Next != nil && !math.IsInf(h.Next.Time, 1) {
		h = h.Next
	}
	return h
}

// Validate checks the fields the game cannot run without.
func (b *Beatmap) Validate() error {
	if b.Metadata.Title == "" && b.Metadata.TitleUnicode == "" {
		return errors.New("missing title")
	}
	if b.Metadata.Artist == "" && b.Metadata.ArtistUnicode == "" {
		return errors.New("missing artist")
	}
	if b.Metadata.Version == "" {
		return errors.New("missing difficulty version")
	}
	if b.AudioFilename == "" {
		return errors.New("missing audio filename")
	}
	return nil
}
