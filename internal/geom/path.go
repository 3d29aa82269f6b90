package geom

import (
	"errors"
	"math"
)

// epsilon below which arc construction is considered degenerate.
const epsilon = 0.001

// Path is a parametric curve over t ∈ [0, 1]. Evaluation outside that range
// is folded back so that At(t) == At(t+2) == At(-t), which makes slider
// repeats a plain multiplication on t.
//
// The concrete implementations form a closed set: Line, Arc and Bezier.
// Catmull paths from old beatmaps are evaluated as Bezier by the parser.
type Path interface {
	// At evaluates the path. Continuous over all of ℝ.
	At(t float64) Point
	// Length is the total arc length.
	Length() float64
	// Normalize rescales or extends the path so Length() == target.
	Normalize(target float64)
	// BoundingBox returns a box guaranteed to contain the whole path.
	BoundingBox() (min, max Point)
}

// fold maps any t to [0, 1], periodic with period 2 and symmetric around 0.
func fold(t float64) float64 {
	return math.Abs(math.Remainder(t, 2))
}

// Line is a polyline of at least 2 points. Parameterization assigns each
// sub-segment an equal share of t-space.
type Line struct {
	Points []Point
}

func (l *Line) At(t float64) Point {
	t = fold(t)
	n := len(l.Points) - 1
	if n < 1 {
		return l.Points[0]
	}
	f := t * float64(n)
	i := int(f)
	if i >= n {
		return l.Points[n]
	}
	a, b := l.Points[i], l.Points[i+1]
	return a.Add(b.Sub(a).Scale(f - float64(i)))
}

func (l *Line) Length() float64 {
	sum := 0.0
	for i := 1; i < len(l.Points); i++ {
		sum += l.Points[i-1].Distance(l.Points[i])
	}
	return sum
}

// Normalize scales the polyline about its first point so the total length
// matches target.
func (l *Line) Normalize(target float64) {
	length := l.Length()
	if length == 0 || target == length {
		return
	}
	f := target / length
	origin := l.Points[0]
	for i := range l.Points {
		l.Points[i] = origin.Add(l.Points[i].Sub(origin).Scale(f))
	}
}

func (l *Line) BoundingBox() (min, max Point) {
	return pointsBox(l.Points)
}

// Arc is a circle segment. Angles are normalized at construction so that
// (1−t)·Start + t·End traces the intended direction.
type Arc struct {
	Center     Point
	Radius     float64
	Start, End float64
}

// ErrDegenerateArc is returned by BuildArc when the three points are too
// close or collinear. Callers fall back to a line.
var ErrDegenerateArc = errors.New("degenerate arc")

// BuildArc fits a circle through a, b, c using the barycentric circumcenter
// formula. The sign of the cross product of (c−a) and (b−a) picks the side
// the arc bends to.
func BuildArc(a, b, c Point) (*Arc, error) {
	if a.Distance(b) < epsilon || b.Distance(c) < epsilon || a.Distance(c) < epsilon {
		return nil, ErrDegenerateArc
	}
	bc := (b - c).Abs()
	ac := (a - c).Abs()
	ab := (a - b).Abs()
	s := bc * bc * (ac*ac + ab*ab - bc*bc)
	t := ac * ac * (bc*bc + ab*ab - ac*ac)
	u := ab * ab * (bc*bc + ac*ac - ab*ab)
	den := s + t + u
	if math.Abs(den) < epsilon {
		return nil, ErrDegenerateArc
	}
	center := a.Scale(s / den).Add(b.Scale(t / den)).Add(c.Scale(u / den))
	arc := &Arc{
		Center: center,
		Radius: a.Distance(center),
		Start:  a.Sub(center).Arg(),
		End:    c.Sub(center).Arg(),
	}
	if Cross(c.Sub(a), b.Sub(a)) < 0 {
		for arc.End < arc.Start {
			arc.End += 2 * math.Pi
		}
	} else {
		for arc.End > arc.Start {
			arc.End -= 2 * math.Pi
		}
	}
	return arc, nil
}

func (a *Arc) At(t float64) Point {
	t = fold(t)
	angle := (1-t)*a.Start + t*a.End
	return a.Center.Add(P(math.Cos(angle), math.Sin(angle)).Scale(a.Radius))
}

func (a *Arc) Length() float64 {
	return a.Radius * math.Abs(a.End-a.Start)
}

// Normalize moves the end angle so the arc length matches target.
func (a *Arc) Normalize(target float64) {
	if a.Radius == 0 {
		return
	}
	sweep := target / a.Radius
	if a.End < a.Start {
		sweep = -sweep
	}
	a.End = a.Start + sweep
}

func (a *Arc) BoundingBox() (min, max Point) {
	points := []Point{a.At(0), a.At(1)}
	lo, hi := a.Start, a.End
	if hi < lo {
		lo, hi = hi, lo
	}
	// Every cardinal direction the arc crosses pushes the box out to the
	// full radius along that axis.
	for k := math.Ceil(lo / (math.Pi / 2)); k*(math.Pi/2) <= hi; k++ {
		angle := k * (math.Pi / 2)
		points = append(points, a.Center.Add(P(math.Cos(angle), math.Sin(angle)).Scale(a.Radius)))
	}
	return pointsBox(points)
}

func pointsBox(points []Point) (min, max Point) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X())
		minY = math.Min(minY, p.Y())
		maxX = math.Max(maxX, p.X())
		maxY = math.Max(maxY, p.Y())
	}
	return P(minX, minY), P(maxX, maxY)
}
