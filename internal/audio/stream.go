package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// ErrSeekPastEnd is returned when a seek target lies beyond the music.
// The stream is left untouched.
var ErrSeekPastEnd = errors.New("seek past the end of the stream")

// Stream decodes a music file into canonical stereo frames at the file's
// native sample rate. Reads happen on the speaker thread; Timestamp may be
// read from the main thread without the device lock, one buffer of
// staleness is fine.
type Stream struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format

	timestamp float64
	finished  bool
}

// OpenStream decodes the audio file behind path, picking the decoder from
// the extension.
func OpenStream(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported audio format %q", ext)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to decode %s: %w", path, err)
	}
	return &Stream{file: f, streamer: streamer, format: format}, nil
}

// SampleRate is the native rate of the decoded stream; it parameterizes
// the output device and sample preloading.
func (s *Stream) SampleRate() beep.SampleRate {
	return s.format.SampleRate
}

// Duration is the total stream length in seconds.
func (s *Stream) Duration() float64 {
	return s.format.SampleRate.D(s.streamer.Len()).Seconds()
}

// Timestamp is the last known playback position in seconds. Monotonic
// under normal playback, but callers must not assume so.
func (s *Stream) Timestamp() float64 {
	return s.timestamp
}

// Finished reports that the decoder ran dry. The mixer keeps producing
// silence afterwards.
func (s *Stream) Finished() bool {
	return s.finished
}

// Read fills buf with decoded frames, zero-padding on a short read. A
// short read marks the stream finished; subsequent calls return 0.
func (s *Stream) Read(buf [][2]float64) int {
	total := 0
	for total < len(buf) && !s.finished {
		n, ok := s.streamer.Stream(buf[total:])
		total += n
		if !ok {
			s.finished = true
		}
	}
	for i := total; i < len(buf); i++ {
		buf[i] = [2]float64{}
	}
	s.timestamp = s.format.SampleRate.D(s.streamer.Position()).Seconds()
	return total
}

// Seek moves playback to target seconds. Negative targets clamp to the
// start; targets past the end return ErrSeekPastEnd without touching the
// stream.
func (s *Stream) Seek(target float64) error {
	if target < 0 {
		target = 0
	}
	if target > s.Duration() {
		return ErrSeekPastEnd
	}
	pos := s.format.SampleRate.N(time.Duration(target * float64(time.Second)))
	if pos > s.streamer.Len() {
		pos = s.streamer.Len()
	}
	if err := s.streamer.Seek(pos); err != nil {
		return err
	}
	s.timestamp = target
	s.finished = false
	return nil
}

func (s *Stream) Close() error {
	if err := s.streamer.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
