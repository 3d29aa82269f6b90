package audio

// Track mixes one sample into the callback buffer. All methods run either
// on the speaker thread or under the device lock.
type Track struct {
	sample *Sample
	cursor int
	volume float64
	loop   bool
}

// Start schedules the sample from its beginning. A nil or empty sample
// clears the track instead.
func (t *Track) Start(sample *Sample, volume float64, loop bool) {
	if sample.Len() == 0 {
		t.sample = nil
		return
	}
	t.sample = sample
	t.cursor = 0
	t.volume = volume
	t.loop = loop
}

// Stop clears the sample reference; the next Mix produces nothing.
func (t *Track) Stop() {
	t.sample = nil
}

func (t *Track) Active() bool {
	return t.sample != nil
}

// Mix adds up to len(buf) frames of the sample into buf and returns how
// many it produced. A non-looping track clears itself the moment the
// cursor reaches the end of the sample; a looping one wraps to 0.
func (t *Track) Mix(buf [][2]float64) int {
	produced := 0
	for produced < len(buf) && t.sample != nil {
		frame := t.sample.Frames[t.cursor]
		buf[produced][0] += frame[0] * t.volume
		buf[produced][1] += frame[1] * t.volume
		produced++
		t.cursor++
		if t.cursor == len(t.sample.Frames) {
			if t.loop {
				t.cursor = 0
			} else {
				t.sample = nil
			}
		}
	}
	return produced
}
