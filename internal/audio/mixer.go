package audio

// Effect tracks available for concurrent short samples. One extra track
// is reserved for the slider-slide loop.
const effectTrackCount = 8

// Mixer is the streamer handed to the speaker; its Stream method is the
// audio callback. Music comes first, zero-padded on a short read, then
// the effect tracks and the loop track are added on top.
//
// The callback is allocation-free. Anything that mutates tracks or seeks
// the music from the main thread must hold the device lock.
type Mixer struct {
	music   *Stream
	effects [effectTrackCount]Track
	loop    Track

	// silent holds the music cursor in place while still producing
	// output, for lead-ins and pauses. Effects keep playing.
	silent bool
}

func NewMixer(music *Stream) *Mixer {
	return &Mixer{music: music, silent: true}
}

func (m *Mixer) Stream(buf [][2]float64) (int, bool) {
	for i := range buf {
		buf[i] = [2]float64{}
	}
	if !m.silent && m.music != nil {
		m.music.Read(buf)
	}
	for i := range m.effects {
		m.effects[i].Mix(buf)
	}
	m.loop.Mix(buf)
	return len(buf), true
}

func (m *Mixer) Err() error {
	return nil
}

// PlayEffect starts the sample on the first inactive effects track. When
// every track is busy, the one closest to finishing is evicted.
func (m *Mixer) PlayEffect(sample *Sample, volume float64) {
	track := &m.effects[0]
	for i := range m.effects {
		t := &m.effects[i]
		if !t.Active() {
			track = t
			break
		}
		if t.cursor > track.cursor {
			track = t
		}
	}
	track.Start(sample, volume, false)
}

// PlayLoop starts the looping sample, displacing any previous loop.
func (m *Mixer) PlayLoop(sample *Sample, volume float64) {
	m.loop.Start(sample, volume, true)
}

func (m *Mixer) StopLoop() {
	m.loop.Stop()
}

func (m *Mixer) SetSilent(silent bool) {
	m.silent = silent
}
