// Package render draws frames into the terminal with ANSI escapes.
package render

import (
	"image/color"
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (rows, columns int)
	AddDecoration(row, column int, content string, frames int)
	RenderLoop(render func(now time.Time, wall float64) bool)
	Fill(row, column int, message string)
	FillColor(row, column int, c color.RGBA, message string)
	Clear()
	MissedFrames() uint64
}
