package audio

import (
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// Sample is a short sound effect, fully decoded and resampled to the
// output device rate at load time so the callback never converts.
type Sample struct {
	Frames [][2]float64
	Rate   beep.SampleRate
}

// Len is the number of stereo frames.
func (s *Sample) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// LoadSample reads a wav file and resamples it to rate.
func LoadSample(path string, rate beep.SampleRate) (*Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	var source beep.Streamer = streamer
	if format.SampleRate != rate {
		source = beep.Resample(4, format.SampleRate, rate, streamer)
	}

	sample := &Sample{Rate: rate}
	buf := make([][2]float64, 512)
	for {
		n, ok := source.Stream(buf)
		sample.Frames = append(sample.Frames, buf[:n]...)
		if !ok {
			break
		}
	}
	return sample, nil
}
