package beatmap

import (
	"math"

	"git.lost.host/meutraa/circles/internal/geom"
)

// HitType is the raw type bitmask of a hit object row.
type HitType int

const (
	TypeCircle HitType = 1 << iota
	TypeSlider
	TypeNewCombo
	TypeSpinner
	typeComboSkip1 // 3-bit combo skip
	typeComboSkip2
	typeComboSkip3
	TypeHold HitType = 1 << 7
)

const comboSkipShift = 4

// ComboSkip extracts the 3-bit combo skip count of a new-combo hit.
func (t HitType) ComboSkip() int {
	return int(t>>comboSkipShift) & 0x7
}

// HitState tracks a hit through its life. Initial is the only clickable
// state; Unknown marks hits the current mode cannot interpret.
type HitState int

const (
	StateInitial HitState = iota
	StateSliding
	StateGood
	StateMissed
	StateSkipped
	StateUnknown
)

// Additions is the hit sound bitmask, OR'd with a target flag selecting
// the effect tracks or the loop track.
type Additions uint8

const (
	SoundNormal Additions = 1 << iota
	SoundWhistle
	SoundFinish
	SoundClap
)

// SoundTarget routes playback to the loop track instead of an effects
// track when set.
const SoundTarget Additions = 0x80

// AdditionsMask isolates the four sound bits from the target flag.
const AdditionsMask = SoundNormal | SoundWhistle | SoundFinish | SoundClap

// HitSound is the fully resolved sound annotation of a hit or slider edge.
// The normal bit is always set.
type HitSound struct {
	SampleSet    SampleSet
	Additions    Additions
	AdditionsSet SampleSet
	Index        int
	Volume       float64
}

// Slider is the type-specific payload of a slider hit.
type Slider struct {
	Path   geom.Path
	Repeat int
	// Length is the declared pixel length of one pass.
	Length float64
	// Duration is the time of one pass, in seconds.
	Duration float64
	// Sounds has Repeat+1 entries, one per edge: head, each repeat,
	// tail.
	Sounds []HitSound
}

// Hit is one hit object, linked to its neighbors. The list is bracketed by
// sentinels at times ±Inf.
type Hit struct {
	P     geom.Point
	Time  float64
	Type  HitType
	Sound HitSound

	// Slider is nil unless Type has TypeSlider set.
	Slider *Slider
	// End is the declared end time of a spinner or hold.
	End float64

	Timing *TimingPoint

	// Combo is the combo index, ComboSeq the number shown on the
	// circle, Color the index into the beatmap color ring.
	Combo    int
	ComboSeq int
	Color    int

	State HitState
	// Offset is how late the press was, recorded on a good hit.
	Offset float64

	Previous, Next *Hit
}

// EndTime is when the hit stops being active: the tail time for sliders,
// the declared end for spinners and holds, the nominal time otherwise.
func (h *Hit) EndTime() float64 {
	switch {
	case h.Type&TypeSlider != 0 && h.Slider != nil:
		return h.Time + h.Slider.Duration*float64(h.Slider.Repeat)
	case h.Type&(TypeSpinner|TypeHold) != 0:
		return h.End
	default:
		return h.Time
	}
}

// newSentinels returns a linked pair of hits at times −Inf and +Inf.
func newSentinels() (head, tail *Hit) {
	head = &Hit{Time: math.Inf(-1), State: StateUnknown}
	tail = &Hit{Time: math.Inf(1), State: StateUnknown}
	head.Next = tail
	tail.Previous = head
	return head, tail
}
