package weierstrass

import (
	"fmt"
	"math/big"
)

// Point is an affine curve point. A Point with nil coordinates is the point at infinity.
//
// Points returned by this package are never modified after they are returned, and callers must
// not modify them either.
type Point struct {
	X, Y *big.Int
}

// NewPoint returns the affine point (x, y). The coordinates are copied.
func NewPoint(x, y *big.Int) *Point {
	return &Point{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
}

// Infinity returns the point at infinity, the identity of the curve group.
func Infinity() *Point {
	return &Point{}
}

// IsInfinity reports whether the point is the point at infinity.
func (pt *Point) IsInfinity() bool {
	return pt == nil || pt.X == nil || pt.Y == nil
}

// Equal reports whether the two points are the same.
func (pt *Point) Equal(o *Point) bool {
	if pt.IsInfinity() || o.IsInfinity() {
		return pt.IsInfinity() == o.IsInfinity()
	}

	return pt.X.Cmp(o.X) == 0 && pt.Y.Cmp(o.Y) == 0
}

// String returns the point as hexadecimal coordinates.
func (pt *Point) String() string {
	if pt.IsInfinity() {
		return "(∞)"
	}

	return fmt.Sprintf("(%x, %x)", pt.X, pt.Y)
}

var _ fmt.Stringer = &Point{}
