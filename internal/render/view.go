package render

import (
	"fmt"
	"image/color"
	"math"

	"git.lost.host/meutraa/circles/internal/beatmap"
	"git.lost.host/meutraa/circles/internal/game"
	"git.lost.host/meutraa/circles/internal/geom"
)

// The playfield is a fixed 512x384 coordinate space; terminal cells are
// roughly twice as tall as wide, so columns are scaled by two.
const (
	fieldWidth  = 512
	fieldHeight = 384
)

var gray = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// View projects playfield coordinates onto terminal cells.
type View struct {
	Renderer Renderer

	top, left int
	scale     float64
	statusRow int
}

// NewView sizes the playfield to the terminal. maxWidth and maxHeight
// are a pixel hint from OSHU_WINDOW_SIZE, converted with the usual 8x16
// cell; zeros mean no preference.
func NewView(r Renderer, maxWidth, maxHeight int) *View {
	rows, cols := r.Size()
	if maxWidth > 0 && maxWidth/8 < cols {
		cols = maxWidth / 8
	}
	if maxHeight > 0 && maxHeight/16 < rows {
		rows = maxHeight / 16
	}
	usable := rows - 2 // one status row top and bottom
	scale := math.Min(float64(usable)/fieldHeight, float64(cols)/(2*fieldWidth))
	return &View{
		Renderer:  r,
		top:       2,
		left:      (cols - int(scale*2*fieldWidth)) / 2,
		scale:     scale,
		statusRow: rows,
	}
}

func (v *View) Cell(p geom.Point) (row, col int) {
	row = v.top + int(p.Y()*v.scale)
	col = v.left + int(p.X()*v.scale*2)
	return row, col
}

// DrawGame renders every hit still ahead of the player within the
// approach window, the slider ball, and the status rows.
func (v *View) DrawGame(g *game.Game) {
	now := g.Clock.Now
	horizon := now + g.Beatmap.Difficulty.ApproachTime
	for hit := g.Cursor; hit.Time <= horizon; hit = hit.Next {
		if math.IsInf(hit.Time, 1) {
			break
		}
		v.drawHit(g, hit, now)
	}
	v.drawHeader(g)
	v.drawFooter(g)
}

func (v *View) drawHit(g *game.Game, hit *beatmap.Hit, now float64) {
	switch {
	case hit.State == beatmap.StateSliding:
		v.drawSliderBody(g, hit)
		t := (now - hit.Time) / hit.Slider.Duration
		row, col := v.Cell(hit.Slider.Path.At(t))
		v.Renderer.FillColor(row, col, v.comboColor(g, hit), "●")
	case hit.State != beatmap.StateInitial:
	case hit.Type&beatmap.TypeSlider != 0:
		v.drawSliderBody(g, hit)
		v.drawCircle(g, hit, now)
	case hit.Type&beatmap.TypeCircle != 0:
		v.drawCircle(g, hit, now)
	case hit.Type&beatmap.TypeSpinner != 0:
		row, col := v.Cell(geom.P(fieldWidth/2, fieldHeight/2))
		v.Renderer.FillColor(row, col, gray, "◎")
	}
}

// approachGlyphs shrink as the hit time approaches.
var approachGlyphs = []string{"·", "○", "◎", "●"}

func (v *View) drawCircle(g *game.Game, hit *beatmap.Hit, now float64) {
	remaining := hit.Time - now
	idx := len(approachGlyphs) - 1
	if at := g.Beatmap.Difficulty.ApproachTime; at > 0 && remaining > 0 {
		idx -= int(remaining / at * float64(len(approachGlyphs)))
		if idx < 0 {
			idx = 0
		}
	}
	row, col := v.Cell(hit.P)
	c := v.comboColor(g, hit)
	v.Renderer.FillColor(row, col, c, approachGlyphs[idx])
	if hit.ComboSeq < 10 {
		v.Renderer.FillColor(row, col+1, c, fmt.Sprintf("%d", hit.ComboSeq))
	}
}

func (v *View) drawSliderBody(g *game.Game, hit *beatmap.Hit) {
	c := v.comboColor(g, hit)
	const steps = 24
	for i := 0; i <= steps; i++ {
		row, col := v.Cell(hit.Slider.Path.At(float64(i) / steps))
		v.Renderer.FillColor(row, col, c, "·")
	}
}

func (v *View) comboColor(g *game.Game, hit *beatmap.Hit) color.RGBA {
	colors := g.Beatmap.Colors
	if len(colors) == 0 {
		return gray
	}
	return colors[hit.Color%len(colors)]
}

func (v *View) drawHeader(g *game.Game) {
	m := g.Beatmap.Metadata
	v.Renderer.Fill(1, 2, fmt.Sprintf("%s - %s [%s]", m.Artist, m.Title, m.Version))
}

func (v *View) drawFooter(g *game.Game) {
	now := g.Clock.Now
	end := g.Beatmap.LastHit().EndTime()
	progress := 0.0
	if end > 0 && now > 0 {
		progress = math.Min(now/end, 1)
	}
	_, cols := v.Renderer.Size()
	if cols < 8 {
		return
	}
	filled := int(progress * float64(cols-4))
	bar := make([]byte, cols-4)
	for i := range bar {
		if i < filled {
			bar[i] = '='
		} else {
			bar[i] = ' '
		}
	}
	v.Renderer.Fill(v.statusRow, 2, fmt.Sprintf("[%s]", bar))
}
