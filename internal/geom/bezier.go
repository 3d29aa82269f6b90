package geom

const (
	// Entries in the arc-length to t-parameter anchor table.
	anchorCount = 32
	// Samples used to integrate the curve length numerically.
	lengthSamples = 64
)

// Bezier is a piecewise Bernstein-basis Bézier curve. Segments are stored
// as one flat control point array plus boundary indices; segment k spans
// Control[Bounds[k]:Bounds[k+1]]. A segment may be degenerate with all its
// points equal.
type Bezier struct {
	Control []Point
	Bounds  []int

	// anchors maps uniformly spaced arc-length coordinates to t
	// coordinates once Normalize has run.
	anchors    [anchorCount]float64
	normalized bool
	length     float64
}

// NewBezier builds a curve from per-segment control points, as produced by
// red-anchor splitting in the beatmap parser.
func NewBezier(segments [][]Point) *Bezier {
	b := &Bezier{Bounds: []int{0}}
	for _, seg := range segments {
		b.Control = append(b.Control, seg...)
		b.Bounds = append(b.Bounds, len(b.Control))
	}
	return b
}

func (b *Bezier) segments() int {
	return len(b.Bounds) - 1
}

// rawAt evaluates in t-space, each segment owning an equal share of [0, 1].
// de Casteljau's algorithm keeps high-degree segments numerically stable.
func (b *Bezier) rawAt(t float64) Point {
	n := b.segments()
	if n == 0 {
		return P(0, 0)
	}
	f := t * float64(n)
	i := int(f)
	if i >= n {
		i = n - 1
	}
	local := f - float64(i)
	seg := b.Control[b.Bounds[i]:b.Bounds[i+1]]
	if len(seg) == 1 {
		return seg[0]
	}
	scratch := make([]Point, len(seg))
	copy(scratch, seg)
	for m := len(scratch) - 1; m > 0; m-- {
		for j := 0; j < m; j++ {
			scratch[j] = scratch[j].Add(scratch[j+1].Sub(scratch[j]).Scale(local))
		}
	}
	return scratch[0]
}

func (b *Bezier) At(t float64) Point {
	t = fold(t)
	if b.normalized {
		t = b.anchorAt(t)
	}
	return b.rawAt(t)
}

// anchorAt converts an arc-length coordinate in [0, 1] to a t coordinate by
// linear interpolation in the anchor table.
func (b *Bezier) anchorAt(l float64) float64 {
	f := l * (anchorCount - 1)
	i := int(f)
	if i >= anchorCount-1 {
		return b.anchors[anchorCount-1]
	}
	a, c := b.anchors[i], b.anchors[i+1]
	return a + (c-a)*(f-float64(i))
}

func (b *Bezier) Length() float64 {
	if b.normalized {
		return b.length
	}
	_, total := b.sampleLengths()
	return total
}

// sampleLengths integrates the curve length over a fine uniform sampling of
// t-space. cum[i] is the length up to t = i/lengthSamples.
func (b *Bezier) sampleLengths() (cum [lengthSamples + 1]float64, total float64) {
	prev := b.rawAt(0)
	for i := 1; i <= lengthSamples; i++ {
		p := b.rawAt(float64(i) / lengthSamples)
		total += prev.Distance(p)
		cum[i] = total
		prev = p
	}
	return cum, total
}

// Normalize fills the anchor table mapping arc length to t. When the curve
// is shorter than target by more than a small slack, it is extended with a
// straight tangent continuation at the endpoint.
func (b *Bezier) Normalize(target float64) {
	cum, total := b.sampleLengths()
	if total+epsilon < target {
		end := b.rawAt(1)
		dir := unit(end.Sub(b.tangentOrigin()))
		b.Control = append(b.Control, end, end.Add(dir.Scale(target-total)))
		b.Bounds = append(b.Bounds, len(b.Control))
		cum, total = b.sampleLengths()
	}
	for i := 0; i < anchorCount; i++ {
		l := target * float64(i) / (anchorCount - 1)
		b.anchors[i] = tForLength(cum[:], l)
	}
	b.normalized = true
	b.length = target
}

// tangentOrigin is the last control point distinct from the endpoint, used
// to compute the outgoing direction of the extension segment.
func (b *Bezier) tangentOrigin() Point {
	end := b.Control[len(b.Control)-1]
	for i := len(b.Control) - 2; i >= b.Bounds[len(b.Bounds)-2]; i-- {
		if b.Control[i].Distance(end) > epsilon {
			return b.Control[i]
		}
	}
	// Fully degenerate tail segment, any direction works.
	return end.Sub(P(1, 0))
}

// tForLength inverts the cumulative length table at l, interpolating
// linearly between samples.
func tForLength(cum []float64, l float64) float64 {
	total := cum[len(cum)-1]
	if l <= 0 || total == 0 {
		return 0
	}
	if l >= total {
		return 1
	}
	i := 1
	for i < len(cum)-1 && cum[i] < l {
		i++
	}
	span := cum[i] - cum[i-1]
	frac := 0.0
	if span > 0 {
		frac = (l - cum[i-1]) / span
	}
	return (float64(i-1) + frac) / float64(len(cum)-1)
}

// BoundingBox returns the control point hull; the curve is contained in it.
func (b *Bezier) BoundingBox() (min, max Point) {
	return pointsBox(b.Control)
}
