package beatmap

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"git.lost.host/meutraa/circles/internal/geom"
)

// ErrInvalidHeader aborts parsing; every other malformed line is logged
// and skipped.
var ErrInvalidHeader = errors.New("not an osu beatmap")

type section int

const (
	secRoot section = iota
	secGeneral
	secEditor
	secMetadata
	secDifficulty
	secEvents
	secTimingPoints
	secColours
	secHitObjects
	secUnknown
)

var sectionNames = map[string]section{
	"[general]":      secGeneral,
	"[editor]":       secEditor,
	"[metadata]":     secMetadata,
	"[difficulty]":   secDifficulty,
	"[events]":       secEvents,
	"[timingpoints]": secTimingPoints,
	"[colours]":      secColours,
	"[hitobjects]":   secHitObjects,
}

// sampleSpec is the raw trailing sampleSet:additions:index:volume group of
// a hit object row, before inheritance is applied.
type sampleSpec struct {
	normalSet    SampleSet
	additionsSet SampleSet
	index        int
	volume       float64
}

// pendingHit carries a parsed hit plus the raw annotations that can only
// be resolved once every timing point is known.
type pendingHit struct {
	hit        *Hit
	raw        Additions
	sample     sampleSpec
	edgeSounds []Additions
	edgeSets   [][2]SampleSet
}

type parser struct {
	b   *Beatmap
	sec section

	overall float64 // raw OverallDifficulty 0..10
	seenAR  bool

	// lastBase is the beat duration of the last non-inherited timing
	// point, the base speed multipliers apply to.
	lastBase       float64
	lastOffset     float64
	lastHitTime    float64
	combo          int
	comboSeq       int
	colorAdvance   int
	warnedCatmull  bool
	warnedSections map[string]bool

	pending []pendingHit
}

// Load opens and parses a beatmap file.
func Load(path string) (*Beatmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse reads a whole .osu file. It fails only on an invalid header, on
// unreadable input, or on misordered timing points or hits; every other
// defect is logged and patched.
func Parse(r io.Reader) (*Beatmap, error) {
	p := &parser{
		b: &Beatmap{
			PreviewTime: -1,
			SampleSet:   SampleSetNormal,
		},
		lastHitTime:    math.Inf(-1),
		lastOffset:     math.Inf(-1),
		warnedSections: map[string]bool{},
	}
	p.setCircleSize(5)
	p.setOverallDifficulty(5)
	p.b.Difficulty.SliderMultiplier = 1.4
	p.b.Difficulty.SliderTickRate = 1

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	if err := p.readHeader(sc); err != nil {
		return nil, err
	}
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			p.changeSection(line)
			continue
		}
		if err := p.readLine(line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return p.finalize()
}

func (p *parser) readHeader(sc *bufio.Scanner) error {
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\uFEFF"))
		if line == "" {
			continue
		}
		const prefix = "osu file format v"
		if !strings.HasPrefix(line, prefix) {
			return fmt.Errorf("%w: bad header %q", ErrInvalidHeader, line)
		}
		version, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, prefix)))
		if err != nil {
			return fmt.Errorf("%w: bad version in %q", ErrInvalidHeader, line)
		}
		p.b.Version = version
		return nil
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%w: empty file", ErrInvalidHeader)
}

func (p *parser) changeSection(line string) {
	sec, ok := sectionNames[strings.ToLower(line)]
	if !ok {
		if !p.warnedSections[line] {
			p.warnedSections[line] = true
			log.Printf("unknown section %s, skipping", line)
		}
		sec = secUnknown
	}
	p.sec = sec
}

func (p *parser) readLine(line string) error {
	switch p.sec {
	case secGeneral:
		p.readGeneral(line)
	case secEditor, secUnknown, secRoot:
		// Nothing the game needs.
	case secMetadata:
		p.readMetadata(line)
	case secDifficulty:
		p.readDifficulty(line)
	case secEvents:
		p.readEvent(line)
	case secTimingPoints:
		return p.readTimingPoint(line)
	case secColours:
		p.readColor(line)
	case secHitObjects:
		return p.readHit(line)
	}
	return nil
}

func (p *parser) readGeneral(line string) {
	k, v := splitKeyValue(line)
	switch strings.ToLower(k) {
	case "audiofilename":
		p.b.AudioFilename = strings.ReplaceAll(strings.Trim(v, "\""), "\\", "/")
	case "audioleadin":
		p.b.AudioLeadIn = float64(parseInt(v, 0)) / 1000
	case "previewtime":
		p.b.PreviewTime = float64(parseInt(v, -1000)) / 1000
	case "sampleset":
		p.b.SampleSet = sampleSetByName(v)
	case "mode":
		p.b.Mode = Mode(parseInt(v, 0))
	}
}

func (p *parser) readMetadata(line string) {
	k, v := splitKeyValue(line)
	m := &p.b.Metadata
	switch strings.ToLower(k) {
	case "title":
		m.Title = v
	case "titleunicode":
		m.TitleUnicode = v
	case "artist":
		m.Artist = v
	case "artistunicode":
		m.ArtistUnicode = v
	case "creator":
		m.Creator = v
	case "version":
		m.Version = v
	case "source":
		m.Source = v
	case "tags":
		m.Tags = v
	case "beatmapid":
		m.BeatmapID = parseInt(v, 0)
	case "beatmapsetid":
		m.BeatmapSetID = parseInt(v, 0)
	}
}

func (p *parser) setCircleSize(value float64) {
	d := &p.b.Difficulty
	d.CircleRadius = 54.4 - 4.48*value
	d.ApproachSize = 3 * d.CircleRadius
	d.SliderTolerance = 2 * d.CircleRadius
}

func (p *parser) setOverallDifficulty(value float64) {
	d := &p.b.Difficulty
	p.overall = value
	d.OverallDifficulty = value
	d.Leniency = 0.1 + 0.04*(5-value)/5
	if !p.seenAR {
		p.setApproachRate(value)
	}
}

func (p *parser) setApproachRate(value float64) {
	p.b.Difficulty.ApproachTime = -0.12*value + 1.5
}

func (p *parser) readDifficulty(line string) {
	k, v := splitKeyValue(line)
	switch strings.ToLower(k) {
	case "circlesize":
		p.setCircleSize(clamp(parseFloat(v, 5), 0, 10))
	case "overalldifficulty":
		p.setOverallDifficulty(clamp(parseFloat(v, 5), 0, 10))
	case "approachrate":
		p.seenAR = true
		p.setApproachRate(clamp(parseFloat(v, 5), 0, 10))
	case "slidermultiplier":
		p.b.Difficulty.SliderMultiplier = parseFloat(v, 1.4)
	case "slidertickrate":
		p.b.Difficulty.SliderTickRate = parseFloat(v, 1)
	}
}

func (p *parser) readEvent(line string) {
	parts := strings.Split(line, ",")
	if len(parts) >= 3 && (parts[0] == "0" || strings.EqualFold(parts[0], "background")) {
		p.b.BackgroundFilename = strings.Trim(parts[2], "\"")
	}
}

func (p *parser) readTimingPoint(line string) error {
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		log.Printf("malformed timing point %q, skipping", line)
		return nil
	}
	offset := parseFloat(parts[0], 0) / 1000
	if offset < p.lastOffset {
		return fmt.Errorf("misordered timing point at %gs", offset)
	}
	p.lastOffset = offset

	raw := parseFloat(parts[1], 0)
	var beat float64
	if raw > 0 {
		beat = raw / 1000
		p.lastBase = beat
	} else if p.lastBase > 0 {
		// Negative raw values are speed multipliers on the last
		// non-inherited point.
		beat = -raw / 100 * p.lastBase
	} else {
		log.Printf("inherited timing point %q without a base, skipping", line)
		return nil
	}

	tp := TimingPoint{
		Offset:       offset,
		BeatDuration: beat,
		Meter:        4,
		SampleSet:    SampleSetAuto,
		Volume:       1,
	}
	if len(parts) >= 3 {
		if meter := parseInt(parts[2], 4); meter > 0 {
			tp.Meter = meter
		}
	}
	if len(parts) >= 4 {
		tp.SampleSet = SampleSet(parseInt(parts[3], 0))
		if tp.SampleSet < SampleSetAuto || tp.SampleSet > SampleSetDrum {
			tp.SampleSet = SampleSetAuto
		}
	}
	if len(parts) >= 5 {
		tp.SampleIndex = parseInt(parts[4], 0)
	}
	if len(parts) >= 6 {
		tp.Volume = float64(clamp(parseFloat(parts[5], 100), 0, 100)) / 100
	}
	if len(parts) >= 8 {
		tp.Kiai = parseInt(parts[7], 0)&1 != 0
	}
	p.b.TimingPoints = append(p.b.TimingPoints, tp)
	return nil
}

func (p *parser) readColor(line string) {
	k, v := splitKeyValue(line)
	if !strings.HasPrefix(strings.ToLower(k), "combo") {
		return
	}
	parts := strings.Split(v, ",")
	if len(parts) < 3 {
		log.Printf("malformed color %q, skipping", line)
		return
	}
	p.b.Colors = append(p.b.Colors, color.RGBA{
		R: uint8(clamp(parseFloat(parts[0], 128), 0, 255)),
		G: uint8(clamp(parseFloat(parts[1], 128), 0, 255)),
		B: uint8(clamp(parseFloat(parts[2], 128), 0, 255)),
		A: 255,
	})
}

func (p *parser) readHit(line string) error {
	parts := strings.Split(line, ",")
	if len(parts) < 5 {
		log.Printf("malformed hit object %q, skipping", line)
		return nil
	}
	hit := &Hit{
		P:    geom.P(parseFloat(parts[0], 0), parseFloat(parts[1], 0)),
		Time: float64(parseInt(parts[2], 0)) / 1000,
		Type: HitType(parseInt(parts[3], 0)),
	}
	if hit.Time < p.lastHitTime {
		return fmt.Errorf("misordered hit object at %gs", hit.Time)
	}
	p.lastHitTime = hit.Time

	pending := pendingHit{
		hit: hit,
		raw: Additions(parseInt(parts[4], 0)),
	}

	switch {
	case hit.Type&TypeSlider != 0:
		p.readSlider(&pending, parts)
	case hit.Type&TypeSpinner != 0:
		hit.End = float64(parseInt(atIndex(parts, 5), 0)) / 1000
		pending.sample = parseSampleSpec(atIndex(parts, 6))
	case hit.Type&TypeHold != 0:
		spec := atIndex(parts, 5)
		if i := strings.Index(spec, ":"); i >= 0 {
			hit.End = float64(parseInt(spec[:i], 0)) / 1000
			pending.sample = parseSampleSpec(spec[i+1:])
		} else {
			hit.End = float64(parseInt(spec, 0)) / 1000
		}
	default:
		pending.sample = parseSampleSpec(atIndex(parts, 5))
	}

	p.assignCombo(hit)
	p.pending = append(p.pending, pending)
	return nil
}

// assignCombo numbers the hit and advances the color cycle. The first hit
// of the map always opens a combo.
func (p *parser) assignCombo(hit *Hit) {
	if len(p.pending) == 0 || hit.Type&TypeNewCombo != 0 {
		step := 1 + hit.Type.ComboSkip()
		p.combo += step
		if len(p.pending) > 0 {
			p.colorAdvance += step
		}
		p.comboSeq = 0
	}
	p.comboSeq++
	hit.Combo = p.combo
	hit.ComboSeq = p.comboSeq
	hit.Color = p.colorAdvance
}

func (p *parser) readSlider(pending *pendingHit, parts []string) {
	hit := pending.hit
	slider := &Slider{Repeat: 1}
	if v := atIndex(parts, 6); v != "" {
		if r := parseInt(v, 1); r >= 1 {
			slider.Repeat = r
		}
	}
	slider.Length = parseFloat(atIndex(parts, 7), 0)
	slider.Path = p.buildPath(hit.P, atIndex(parts, 5), slider.Length)

	if v := atIndex(parts, 8); v != "" {
		for _, s := range strings.Split(v, "|") {
			pending.edgeSounds = append(pending.edgeSounds, Additions(parseInt(s, 0)))
		}
	}
	if v := atIndex(parts, 9); v != "" {
		for _, s := range strings.Split(v, "|") {
			pair := strings.SplitN(s, ":", 2)
			var e [2]SampleSet
			e[0] = SampleSet(parseInt(pair[0], 0))
			if len(pair) > 1 {
				e[1] = SampleSet(parseInt(pair[1], 0))
			}
			pending.edgeSets = append(pending.edgeSets, e)
		}
	}
	pending.sample = parseSampleSpec(atIndex(parts, 10))
	hit.Slider = slider
}

// buildPath parses "<kind>|x:y|x:y|…" and normalizes the result to the
// declared pixel length. Degenerate shapes fall back to simpler variants.
func (p *parser) buildPath(head geom.Point, spec string, length float64) geom.Path {
	kind := "B"
	points := []geom.Point{head}
	for i, tok := range strings.Split(spec, "|") {
		if i == 0 {
			if t := strings.TrimSpace(tok); t != "" {
				kind = strings.ToUpper(t)
			}
			continue
		}
		xy := strings.SplitN(tok, ":", 2)
		if len(xy) != 2 {
			log.Printf("malformed control point %q, skipping", tok)
			continue
		}
		points = append(points, geom.P(parseFloat(xy[0], head.X()), parseFloat(xy[1], head.Y())))
	}

	var path geom.Path
	switch {
	case kind == "L":
		path = makeLine(points)
	case kind == "P" && len(points) == 3:
		arc, err := geom.BuildArc(points[0], points[1], points[2])
		if err != nil {
			log.Printf("degenerate arc at %v, falling back to a line", head)
			path = makeLine([]geom.Point{points[0], points[2]})
		} else {
			path = arc
		}
	default:
		if kind == "C" && !p.warnedCatmull {
			p.warnedCatmull = true
			log.Printf("catmull path, evaluating as bezier")
		}
		path = geom.NewBezier(splitRedAnchors(points))
	}
	if length > 0 {
		path.Normalize(length)
	}
	return path
}

func makeLine(points []geom.Point) *geom.Line {
	if len(points) < 2 {
		points = append(points, points[0])
	}
	return &geom.Line{Points: points}
}

// splitRedAnchors cuts the control point list into Bézier segments at
// repeated points.
func splitRedAnchors(points []geom.Point) [][]geom.Point {
	var segments [][]geom.Point
	current := []geom.Point{points[0]}
	for _, pt := range points[1:] {
		if pt == current[len(current)-1] {
			if len(current) >= 2 {
				segments = append(segments, current)
			}
			current = []geom.Point{pt}
			continue
		}
		current = append(current, pt)
	}
	if len(current) >= 2 {
		segments = append(segments, current)
	}
	if len(segments) == 0 {
		segments = [][]geom.Point{{points[0], points[0]}}
	}
	return segments
}

// finalize links the hit list, resolves timing inheritance and sounds, and
// installs the sentinels.
func (p *parser) finalize() (*Beatmap, error) {
	b := p.b
	if len(b.TimingPoints) == 0 {
		log.Printf("no timing points, assuming 120 bpm")
		b.TimingPoints = []TimingPoint{{BeatDuration: 0.5, Meter: 4, Volume: 1}}
	}
	if len(b.Colors) == 0 {
		b.Colors = []color.RGBA{{R: 128, G: 128, B: 128, A: 255}}
	}

	head, tail := newSentinels()
	b.Hits = head
	last := head
	for i := range p.pending {
		pending := &p.pending[i]
		hit := pending.hit
		hit.Timing = p.timingAt(hit.Time)
		hit.Color %= len(b.Colors)
		p.resolveSounds(pending)
		hit.Previous = last
		last.Next = hit
		last = hit
	}
	last.Next = tail
	tail.Previous = last
	return b, nil
}

// timingAt returns the timing point in force at a given time.
func (p *parser) timingAt(time float64) *TimingPoint {
	points := p.b.TimingPoints
	current := &points[0]
	for i := range points {
		if points[i].Offset > time {
			break
		}
		current = &points[i]
	}
	return current
}

// resolveSounds applies the inheritance chain of §Sounds: the raw sample
// spec, then the timing point, then the beatmap default. Slider edges
// inherit from the hit's main sound.
func (p *parser) resolveSounds(pending *pendingHit) {
	hit := pending.hit
	tp := hit.Timing

	sound := HitSound{
		Additions: pending.raw&AdditionsMask | SoundNormal,
		SampleSet: firstSet(pending.sample.normalSet, tp.SampleSet, p.b.SampleSet, SampleSetNormal),
		Index:     pending.sample.index,
		Volume:    pending.sample.volume,
	}
	sound.AdditionsSet = firstSet(pending.sample.additionsSet, sound.SampleSet)
	if sound.Index == 0 {
		sound.Index = tp.SampleIndex
	}
	if sound.Volume == 0 {
		sound.Volume = tp.Volume
	}

	if hit.Slider == nil {
		hit.Sound = sound
		return
	}

	// The slider body sound drives the loop track while the ball
	// travels.
	hit.Sound = sound
	hit.Sound.Additions |= SoundTarget

	slider := hit.Slider
	slider.Duration = slider.Length / (100 * p.b.Difficulty.SliderMultiplier) * tp.BeatDuration
	slider.Sounds = make([]HitSound, slider.Repeat+1)
	for i := range slider.Sounds {
		edge := sound
		edge.Additions = sound.Additions & AdditionsMask
		if i < len(pending.edgeSounds) {
			edge.Additions = pending.edgeSounds[i] & AdditionsMask
		}
		edge.Additions |= SoundNormal
		if i < len(pending.edgeSets) {
			edge.SampleSet = firstSet(pending.edgeSets[i][0], sound.SampleSet)
			edge.AdditionsSet = firstSet(pending.edgeSets[i][1], edge.SampleSet)
		}
		slider.Sounds[i] = edge
	}
}

// firstSet picks the first sample set that is not Auto.
func firstSet(sets ...SampleSet) SampleSet {
	for _, s := range sets {
		if s != SampleSetAuto {
			return s
		}
	}
	return SampleSetNormal
}

func sampleSetByName(name string) SampleSet {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "normal":
		return SampleSetNormal
	case "soft":
		return SampleSetSoft
	case "drum":
		return SampleSetDrum
	default:
		return SampleSetAuto
	}
}

func parseSampleSpec(s string) sampleSpec {
	var spec sampleSpec
	if strings.TrimSpace(s) == "" {
		return spec
	}
	parts := strings.Split(s, ":")
	spec.normalSet = SampleSet(parseInt(atIndex(parts, 0), 0))
	spec.additionsSet = SampleSet(parseInt(atIndex(parts, 1), 0))
	spec.index = parseInt(atIndex(parts, 2), 0)
	spec.volume = clamp(parseFloat(atIndex(parts, 3), 0), 0, 100) / 100
	return spec
}

func splitKeyValue(line string) (key, value string) {
	i := strings.Index(line, ":")
	if i < 0 {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
}

func atIndex(parts []string, i int) string {
	if i < len(parts) {
		return strings.TrimSpace(parts[i])
	}
	return ""
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
