package audio

import (
	"fmt"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Player owns the output device. It opens the music stream, registers the
// mixer as the speaker callback and exposes main-thread operations that
// take the device lock for the minimum critical section.
type Player struct {
	Music *Stream
	mixer *Mixer
}

// OpenPlayer decodes the music file and opens the output device with a
// buffer of bufferLen worth of frames. Playback starts silent; call
// Resume once the game clock reaches zero.
func OpenPlayer(path string, bufferLen time.Duration) (*Player, error) {
	music, err := OpenStream(path)
	if err != nil {
		return nil, err
	}
	mixer := NewMixer(music)
	if err := speaker.Init(music.SampleRate(), music.SampleRate().N(bufferLen)); err != nil {
		music.Close()
		return nil, fmt.Errorf("unable to open the audio device: %w", err)
	}
	speaker.Play(mixer)
	return &Player{Music: music, mixer: mixer}, nil
}

func (p *Player) SampleRate() beep.SampleRate {
	return p.Music.SampleRate()
}

// Timestamp reads the music position without the device lock; the clock
// layer absorbs the jitter.
func (p *Player) Timestamp() float64 {
	return p.Music.Timestamp()
}

func (p *Player) Finished() bool {
	return p.Music.Finished()
}

// Pause freezes the music without closing the device. Effects still mix.
func (p *Player) Pause() {
	speaker.Lock()
	p.mixer.SetSilent(true)
	speaker.Unlock()
}

func (p *Player) Resume() {
	speaker.Lock()
	p.mixer.SetSilent(false)
	speaker.Unlock()
}

// PlayEffect schedules a short sample on an effects track.
func (p *Player) PlayEffect(sample *Sample, volume float64) {
	speaker.Lock()
	p.mixer.PlayEffect(sample, volume)
	speaker.Unlock()
}

// PlayLoop replaces the looping sample, used for slider slides.
func (p *Player) PlayLoop(sample *Sample, volume float64) {
	speaker.Lock()
	p.mixer.PlayLoop(sample, volume)
	speaker.Unlock()
}

func (p *Player) StopLoop() {
	speaker.Lock()
	p.mixer.StopLoop()
	speaker.Unlock()
}

// Seek moves the music to target seconds. The clock must be updated by
// the caller only when no error is returned.
func (p *Player) Seek(target float64) error {
	speaker.Lock()
	defer speaker.Unlock()
	return p.Music.Seek(target)
}

// Close drains the callback and releases the stream.
func (p *Player) Close() {
	speaker.Clear()
	p.Music.Close()
}
