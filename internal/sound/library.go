// Package sound maps (sample set, index, sound type) tuples to preloaded
// sample buffers, driven by beatmap annotations. Missing samples are
// silent, never fatal.
package sound

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"

	"github.com/faiface/beep"

	"git.lost.host/meutraa/circles/internal/audio"
	"git.lost.host/meutraa/circles/internal/beatmap"
)

// Type is one of the six sample slots of a shelf.
type Type int

const (
	HitNormal Type = iota
	HitWhistle
	HitFinish
	HitClap
	SliderSlide
	SliderWhistle
	typeCount
)

var typeNames = [typeCount]string{
	"hitnormal", "hitwhistle", "hitfinish", "hitclap",
	"sliderslide", "sliderwhistle",
}

var setNames = map[beatmap.SampleSet]string{
	beatmap.SampleSetNormal: "normal",
	beatmap.SampleSetSoft:   "soft",
	beatmap.SampleSetDrum:   "drum",
}

// filename is the skin file a slot loads from, e.g. "soft-hitclap2.wav".
// Index 0 and 1 both name the default file.
func filename(set beatmap.SampleSet, index int, t Type) string {
	suffix := ""
	if index > 1 {
		suffix = strconv.Itoa(index)
	}
	return fmt.Sprintf("%s-%s%s.wav", setNames[set], typeNames[t], suffix)
}

// shelf holds the samples of one (set, index) pair. Slots left nil fall
// back to the default shelf at lookup.
type shelf struct {
	index int
	slots [typeCount]*audio.Sample
}

// room is the dynamic shelf array of one sample family, scanned linearly;
// beatmaps rarely use more than a handful of custom indexes.
type room struct {
	shelves []shelf
}

func (r *room) shelfAt(index int, create bool) *shelf {
	for i := range r.shelves {
		if r.shelves[i].index == index {
			return &r.shelves[i]
		}
	}
	if !create {
		return nil
	}
	r.shelves = append(r.shelves, shelf{index: index})
	return &r.shelves[len(r.shelves)-1]
}

// Library preloads the samples a beatmap references and resolves lookups
// with fallback to the default shelf.
type Library struct {
	rate  beep.SampleRate
	skin  string
	rooms [3]room // normal, soft, drum
}

// NewLibrary resolves the skin directory and prepares empty rooms. rate
// is the output device rate samples are converted to at load.
func NewLibrary(rate beep.SampleRate) *Library {
	return &Library{rate: rate, skin: ResolveSkin()}
}

func (l *Library) roomFor(set beatmap.SampleSet) *room {
	switch set {
	case beatmap.SampleSetSoft:
		return &l.rooms[1]
	case beatmap.SampleSetDrum:
		return &l.rooms[2]
	default:
		return &l.rooms[0]
	}
}

// Register loads the sample for (set, index, t) if its slot is still
// empty. A file that cannot be read leaves the slot empty; later lookups
// fall back to the default shelf.
func (l *Library) Register(set beatmap.SampleSet, index int, t Type) {
	if set == beatmap.SampleSetAuto {
		set = beatmap.SampleSetNormal
	}
	s := l.roomFor(set).shelfAt(index, true)
	if s.slots[t] != nil {
		return
	}
	sample, err := audio.LoadSample(filepath.Join(l.skin, filename(set, index, t)), l.rate)
	if err != nil {
		return
	}
	s.slots[t] = sample
}

// Find resolves (set, index, t) to a sample: the exact shelf first, then
// the default shelf of the same set, then nil.
func (l *Library) Find(set beatmap.SampleSet, index int, t Type) *audio.Sample {
	r := l.roomFor(set)
	if s := r.shelfAt(index, false); s != nil && s.slots[t] != nil {
		return s.slots[t]
	}
	if s := r.shelfAt(0, false); s != nil {
		return s.slots[t]
	}
	return nil
}

// typeFor maps one addition bit to the slot it plays from. Slider targets
// only have slide and whistle files; the rest has no slot and stays
// silent.
func typeFor(bit beatmap.Additions, slider bool) (Type, bool) {
	if slider {
		switch bit {
		case beatmap.SoundNormal:
			return SliderSlide, true
		case beatmap.SoundWhistle:
			return SliderWhistle, true
		}
		return 0, false
	}
	switch bit {
	case beatmap.SoundNormal:
		return HitNormal, true
	case beatmap.SoundWhistle:
		return HitWhistle, true
	case beatmap.SoundFinish:
		return HitFinish, true
	case beatmap.SoundClap:
		return HitClap, true
	}
	return 0, false
}

// LoadBeatmap preloads the default shelves of the three families, then
// registers every sample the hit list references.
func (l *Library) LoadBeatmap(b *beatmap.Beatmap) {
	for _, set := range []beatmap.SampleSet{
		beatmap.SampleSetNormal, beatmap.SampleSetSoft, beatmap.SampleSetDrum,
	} {
		for t := Type(0); t < typeCount; t++ {
			l.Register(set, 0, t)
		}
	}
	for hit := b.FirstHit(); !math.IsInf(hit.Time, 1); hit = hit.Next {
		l.registerSound(hit.Sound)
		if hit.Slider != nil {
			for _, sound := range hit.Slider.Sounds {
				l.registerSound(sound)
			}
		}
	}
}

func (l *Library) registerSound(s beatmap.HitSound) {
	slider := s.Additions&beatmap.SoundTarget != 0
	for _, bit := range []beatmap.Additions{
		beatmap.SoundNormal, beatmap.SoundWhistle, beatmap.SoundFinish, beatmap.SoundClap,
	} {
		if s.Additions&bit == 0 {
			continue
		}
		t, ok := typeFor(bit, slider)
		if !ok {
			continue
		}
		set := s.SampleSet
		if bit != beatmap.SoundNormal {
			set = s.AdditionsSet
		}
		l.Register(set, s.Index, t)
	}
}

// PlayHitSound spawns one track per set addition bit. Slider-targeted
// bits go to the loop track, the rest to effects tracks.
func (l *Library) PlayHitSound(p *audio.Player, s beatmap.HitSound) {
	slider := s.Additions&beatmap.SoundTarget != 0
	for _, bit := range []beatmap.Additions{
		beatmap.SoundNormal, beatmap.SoundWhistle, beatmap.SoundFinish, beatmap.SoundClap,
	} {
		if s.Additions&bit == 0 {
			continue
		}
		t, ok := typeFor(bit, slider)
		if !ok {
			continue
		}
		set := s.SampleSet
		if bit != beatmap.SoundNormal {
			set = s.AdditionsSet
		}
		sample := l.Find(set, s.Index, t)
		if sample == nil {
			continue
		}
		if slider {
			p.PlayLoop(sample, s.Volume)
		} else {
			p.PlayEffect(sample, s.Volume)
		}
	}
}
