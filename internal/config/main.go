package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	BeatmapPath = kingpin.Arg("beatmap", "Path to a .osu beatmap").ExistingFile()
	Autoplay    = kingpin.Flag("autoplay", "Watch a perfect play").Short('a').Bool()
	StartPaused = kingpin.Flag("pause", "Start the game paused").Bool()
	Verbose     = kingpin.Flag("verbose", "Log debug information").Short('v').Bool()
	Device      = kingpin.Flag("device", "Keyboard event device, e.g. /dev/input/event0").String()
	BuildIndex  = kingpin.Flag("build-index", "Reindex the beatmap library and exit").Bool()
	ListMaps    = kingpin.Flag("list", "List the indexed beatmaps and exit").Short('l').Bool()

	// FramePeriod follows OSHU_QUALITY: 30 fps on "low", 60 otherwise.
	FramePeriod time.Duration
)

// AudioBufferLength is the speaker buffer; small enough to keep the
// playback timestamp useful for timing.
const AudioBufferLength = 10 * time.Millisecond

func Parse() {
	kingpin.Version("0.1.0")
	kingpin.Parse()

	FramePeriod = time.Second / 60
	if os.Getenv("OSHU_QUALITY") == "low" {
		FramePeriod = time.Second / 30
	}
}

// WindowSize reads OSHU_WINDOW_SIZE as WIDTHxHEIGHT pixels, clamped to
// 320..3840 on both axes. Zeros mean no preference.
func WindowSize() (width, height int) {
	v := os.Getenv("OSHU_WINDOW_SIZE")
	parts := strings.SplitN(v, "x", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0
	}
	return clamp(w), clamp(h)
}

func clamp(v int) int {
	if v < 320 {
		return 320
	}
	if v > 3840 {
		return 3840
	}
	return v
}
