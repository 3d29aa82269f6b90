package config

import (
	"os"
	"testing"
)

func TestWindowSize(t *testing.T) {
	cases := map[string][2]int{
		"":          {0, 0},
		"640x480":   {640, 480},
		"100x100":   {320, 320},
		"9999x600":  {3840, 600},
		"banana":    {0, 0},
		"640x":      {0, 0},
		"640x480x2": {0, 0},
	}
	defer os.Unsetenv("OSHU_WINDOW_SIZE")
	for value, expected := range cases {
		os.Setenv("OSHU_WINDOW_SIZE", value)
		w, h := WindowSize()
		if w != expected[0] || h != expected[1] {
			t.Log(value, "parsed as", w, h)
			t.Fail()
		}
	}
}
