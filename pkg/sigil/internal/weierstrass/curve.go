// Package weierstrass implements arithmetic on short-Weierstrass curves y² = x³ + ax + b over
// small, non-standard prime fields.
//
// Curves are described by caller-supplied parameters rather than a fixed standard, so everything
// is computed with math/big. Nothing here runs in constant time. Internally, point operations
// use Jacobian coordinates: for an affine point (x, y) the Jacobian coordinates are (X, Y, Z)
// where x = X/Z² and y = Y/Z³. Inputs and outputs are always affine.
package weierstrass

import (
	"fmt"
	"math/big"

	"github.com/codahale/sigil/pkg/sigil/internal"
)

// Params describes a curve y² = x³ + ax + b over the prime field of order P, with a generator
// (Gx, Gy) of order N and cofactor H.
type Params struct {
	Name   string
	P      *big.Int // the order of the underlying field
	A, B   *big.Int // the coefficients of the curve equation
	Gx, Gy *big.Int // (x,y) of the generator
	N      *big.Int // the order of the generator
	H      *big.Int // the cofactor; nil means 1
}

// Curve is an immutable short-Weierstrass curve. It is safe for concurrent use.
type Curve struct {
	name    string
	p, a, b *big.Int
	g       *Point
	n, h    *big.Int
	byteLen int
	sqrt    sqrtParams
}

// NewCurve returns a Curve for the given parameters. The parameters are copied.
//
// Only cheap structural checks are performed here, including that the generator lies on the
// curve. Use Check to vet the parameters fully.
func NewCurve(params *Params) (*Curve, error) {
	if params.P == nil || params.A == nil || params.B == nil ||
		params.Gx == nil || params.Gy == nil || params.N == nil {
		return nil, invalidCurve("missing curve parameter")
	}

	if params.P.Cmp(three) <= 0 || params.P.Bit(0) == 0 {
		return nil, invalidCurve(fmt.Sprintf("field prime %x must be odd and greater than 3", params.P))
	}

	for _, v := range []*big.Int{params.A, params.B, params.Gx, params.Gy} {
		if v.Sign() < 0 || v.Cmp(params.P) >= 0 {
			return nil, invalidCurve(fmt.Sprintf("parameter %x is not a field element", v))
		}
	}

	if params.N.Cmp(one) <= 0 {
		return nil, invalidCurve(fmt.Sprintf("order %x is too small", params.N))
	}

	h := one
	if params.H != nil {
		h = params.H
	}

	sp, err := newSqrtParams(params.P)
	if err != nil {
		return nil, err
	}

	c := &Curve{
		name:    params.Name,
		p:       new(big.Int).Set(params.P),
		a:       new(big.Int).Set(params.A),
		b:       new(big.Int).Set(params.B),
		g:       NewPoint(params.Gx, params.Gy),
		n:       new(big.Int).Set(params.N),
		h:       new(big.Int).Set(h),
		byteLen: (params.P.BitLen() + 7) / 8,
		sqrt:    sp,
	}

	if !c.IsOnCurve(c.g) {
		return nil, internal.MakeError(internal.ErrNotOnCurve,
			fmt.Sprintf("generator %s is not on the curve", c.g))
	}

	return c, nil
}

// Check performs the expensive validation NewCurve skips: the field prime and group order are
// probably prime, the curve is non-singular, and the generator has the stated order.
func (c *Curve) Check() error {
	if !c.p.ProbablyPrime(32) {
		return invalidCurve(fmt.Sprintf("field prime %x is composite", c.p))
	}

	// 4a³ + 27b² ≠ 0 (mod p)
	d := new(big.Int).Exp(c.a, three, c.p)
	d.Lsh(d, 2)
	b2 := new(big.Int).Mul(c.b, c.b)
	b2.Mul(b2, big.NewInt(27))
	d.Add(d, b2).Mod(d, c.p)

	if d.Sign() == 0 {
		return invalidCurve("curve is singular")
	}

	if !c.n.ProbablyPrime(32) {
		return invalidCurve(fmt.Sprintf("order %x is composite", c.n))
	}

	if !c.scalarMult(c.g, c.n).IsInfinity() {
		return invalidCurve(fmt.Sprintf("generator does not have order %x", c.n))
	}

	return nil
}

// Name returns the curve's name, if any.
func (c *Curve) Name() string {
	return c.name
}

// Params returns a copy of the curve's parameters.
func (c *Curve) Params() *Params {
	return &Params{
		Name: c.name,
		P:    new(big.Int).Set(c.p),
		A:    new(big.Int).Set(c.a),
		B:    new(big.Int).Set(c.b),
		Gx:   new(big.Int).Set(c.g.X),
		Gy:   new(big.Int).Set(c.g.Y),
		N:    new(big.Int).Set(c.n),
		H:    new(big.Int).Set(c.h),
	}
}

// P returns the field prime. The result must not be modified.
func (c *Curve) P() *big.Int {
	return c.p
}

// N returns the order of the generator. The result must not be modified.
func (c *Curve) N() *big.Int {
	return c.n
}

// Generator returns the curve's generator. The result must not be modified.
func (c *Curve) Generator() *Point {
	return c.g
}

// ByteLen returns ceil(ceil(log2 p)/8), the length of a fixed-width field element.
func (c *Curve) ByteLen() int {
	return c.byteLen
}

// FastSqrt returns true if the field prime is 3 mod 4, allowing square roots to be taken with a
// single exponentiation.
func (c *Curve) FastSqrt() bool {
	return c.sqrt.exp != nil
}

// Polynomial returns x³ + ax + b mod p.
func (c *Curve) Polynomial(x *big.Int) *big.Int {
	y2 := new(big.Int).Mul(x, x)
	y2.Add(y2, c.a) // x² + a
	y2.Mul(y2, x)   // x³ + ax
	y2.Add(y2, c.b) // x³ + ax + b

	return y2.Mod(y2, c.p)
}

// IsOnCurve reports whether the given point lies on the curve. The point at infinity is
// considered on the curve; affine coordinates must be reduced field elements.
func (c *Curve) IsOnCurve(pt *Point) bool {
	if pt.IsInfinity() {
		return true
	}

	if pt.X.Sign() < 0 || pt.X.Cmp(c.p) >= 0 || pt.Y.Sign() < 0 || pt.Y.Cmp(c.p) >= 0 {
		return false
	}

	// y² = x³ + ax + b
	y2 := new(big.Int).Mul(pt.Y, pt.Y)
	y2.Mod(y2, c.p)

	return c.Polynomial(pt.X).Cmp(y2) == 0
}

// Sqrt returns a square root of a mod p, or false if a is not a quadratic residue.
func (c *Curve) Sqrt(a *big.Int) (*big.Int, bool) {
	return c.sqrt.root(a)
}

func invalidCurve(desc string) error {
	return internal.MakeError(internal.ErrInvalidCurve, desc)
}

//nolint:gochecknoglobals // reusable constants
var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)
