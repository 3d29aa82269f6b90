package geom

import "math/cmplx"

// Point is a position in the 512×384 playfield. It is backed by a complex
// number so that rotation and normalization stay algebraic.
type Point complex128

func P(x, y float64) Point {
	return Point(complex(x, y))
}

func (p Point) X() float64 { return real(complex128(p)) }
func (p Point) Y() float64 { return imag(complex128(p)) }

func (p Point) Add(q Point) Point { return p + q }
func (p Point) Sub(q Point) Point { return p - q }

// Scale multiplies both coordinates by f.
func (p Point) Scale(f float64) Point {
	return Point(complex128(p) * complex(f, 0))
}

// Abs is the Euclidean norm of the point seen as a vector.
func (p Point) Abs() float64 {
	return cmplx.Abs(complex128(p))
}

// Arg is the angle of the point seen as a vector, in radians.
func (p Point) Arg() float64 {
	return cmplx.Phase(complex128(p))
}

// Distance is the Euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	return (q - p).Abs()
}

// Cross is the z-component of the cross product of two vectors. Its sign
// tells on which side of p the vector q lies.
func Cross(p, q Point) float64 {
	return p.X()*q.Y() - p.Y()*q.X()
}

// unit returns the direction of p, or 1+0i when p is the origin.
func unit(p Point) Point {
	a := p.Abs()
	if a == 0 {
		return P(1, 0)
	}
	return p.Scale(1 / a)
}
