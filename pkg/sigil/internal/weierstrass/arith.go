package weierstrass

import "math/big"

// jacobian is a point in Jacobian coordinates. Z = 0 is the point at infinity.
type jacobian struct {
	x, y, z *big.Int
}

// Neg returns -pt.
func (c *Curve) Neg(pt *Point) *Point {
	if pt.IsInfinity() {
		return Infinity()
	}

	y := new(big.Int).Sub(c.p, pt.Y)

	return &Point{X: new(big.Int).Set(pt.X), Y: y.Mod(y, c.p)}
}

// Add returns p1 + p2.
func (c *Curve) Add(p1, p2 *Point) *Point {
	return c.toAffine(c.addJacobian(toJacobian(p1), toJacobian(p2)))
}

// Double returns 2·pt.
func (c *Curve) Double(pt *Point) *Point {
	return c.toAffine(c.doubleJacobian(toJacobian(pt)))
}

// ScalarMult returns k·pt. The scalar is first reduced modulo the group order.
func (c *Curve) ScalarMult(pt *Point, k *big.Int) *Point {
	return c.scalarMult(pt, new(big.Int).Mod(k, c.n))
}

// ScalarBaseMult returns k·G. The scalar is first reduced modulo the group order.
func (c *Curve) ScalarBaseMult(k *big.Int) *Point {
	return c.ScalarMult(c.g, k)
}

// scalarMult returns k·pt for a non-negative k using left-to-right double-and-add.
func (c *Curve) scalarMult(pt *Point, k *big.Int) *Point {
	if pt.IsInfinity() || k.Sign() == 0 {
		return Infinity()
	}

	base := toJacobian(pt)
	r := toJacobian(nil)

	for i := k.BitLen() - 1; i >= 0; i-- {
		r = c.doubleJacobian(r)

		if k.Bit(i) == 1 {
			r = c.addJacobian(r, base)
		}
	}

	return c.toAffine(r)
}

// toJacobian returns the Jacobian form of an affine point.
func toJacobian(pt *Point) jacobian {
	if pt.IsInfinity() {
		return jacobian{x: big.NewInt(1), y: big.NewInt(1), z: new(big.Int)}
	}

	return jacobian{x: pt.X, y: pt.Y, z: big.NewInt(1)}
}

// toAffine reverses the Jacobian transform.
func (c *Curve) toAffine(j jacobian) *Point {
	if j.z.Sign() == 0 {
		return Infinity()
	}

	zInv := new(big.Int).ModInverse(j.z, c.p)
	zInv2 := new(big.Int).Mul(zInv, zInv)
	zInv2.Mod(zInv2, c.p)

	x := new(big.Int).Mul(j.x, zInv2)
	x.Mod(x, c.p)

	zInv2.Mul(zInv2, zInv)
	y := new(big.Int).Mul(j.y, zInv2)
	y.Mod(y, c.p)

	return &Point{X: x, Y: y}
}

// addJacobian returns j1 + j2.
//
// See https://hyperelliptic.org/EFD/g1p/auto-shortw-jacobian.html#addition-add-2007-bl
func (c *Curve) addJacobian(j1, j2 jacobian) jacobian {
	if j1.z.Sign() == 0 {
		return j2
	}

	if j2.z.Sign() == 0 {
		return j1
	}

	z1z1 := c.mul(j1.z, j1.z)
	z2z2 := c.mul(j2.z, j2.z)

	u1 := c.mul(j1.x, z2z2)
	u2 := c.mul(j2.x, z1z1)
	s1 := c.mul(j1.y, c.mul(j2.z, z2z2))
	s2 := c.mul(j2.y, c.mul(j1.z, z1z1))

	h := c.sub(u2, u1)
	r := c.sub(s2, s1)

	if h.Sign() == 0 {
		if r.Sign() == 0 {
			return c.doubleJacobian(j1)
		}

		// j1 = -j2
		return toJacobian(nil)
	}

	r.Lsh(r, 1)

	// I = (2H)², J = H·I, V = U1·I
	i := new(big.Int).Lsh(h, 1)
	i = c.mul(i, i)
	j := c.mul(h, i)
	v := c.mul(u1, i)

	// X3 = r² - J - 2V
	x3 := c.mul(r, r)
	x3 = c.sub(x3, j)
	x3 = c.sub(x3, v)
	x3 = c.sub(x3, v)

	// Y3 = r·(V - X3) - 2·S1·J
	y3 := c.mul(r, c.sub(v, x3))
	s1j := c.mul(s1, j)
	s1j.Lsh(s1j, 1)
	y3 = c.sub(y3, s1j)

	// Z3 = ((Z1 + Z2)² - Z1Z1 - Z2Z2)·H
	z3 := new(big.Int).Add(j1.z, j2.z)
	z3 = c.mul(z3, z3)
	z3 = c.sub(z3, z1z1)
	z3 = c.sub(z3, z2z2)
	z3 = c.mul(z3, h)

	return jacobian{x: x3, y: y3, z: z3}
}

// doubleJacobian returns 2·j.
//
// See https://hyperelliptic.org/EFD/g1p/auto-shortw-jacobian.html#doubling-dbl-2007-bl
func (c *Curve) doubleJacobian(j jacobian) jacobian {
	if j.z.Sign() == 0 || j.y.Sign() == 0 {
		return toJacobian(nil)
	}

	xx := c.mul(j.x, j.x)
	yy := c.mul(j.y, j.y)
	yyyy := c.mul(yy, yy)
	zz := c.mul(j.z, j.z)

	// S = 2·((X1 + YY)² - XX - YYYY)
	s := new(big.Int).Add(j.x, yy)
	s = c.mul(s, s)
	s = c.sub(s, xx)
	s = c.sub(s, yyyy)
	s.Lsh(s, 1)
	s.Mod(s, c.p)

	// M = 3·XX + a·ZZ²
	m := new(big.Int).Mul(xx, three)
	if c.a.Sign() != 0 {
		m.Add(m, c.mul(c.a, c.mul(zz, zz)))
	}

	m.Mod(m, c.p)

	// X3 = M² - 2S
	x3 := c.mul(m, m)
	x3 = c.sub(x3, s)
	x3 = c.sub(x3, s)

	// Y3 = M·(S - X3) - 8·YYYY
	y3 := c.mul(m, c.sub(s, x3))
	yyyy.Lsh(yyyy, 3)
	y3 = c.sub(y3, yyyy)

	// Z3 = (Y1 + Z1)² - YY - ZZ
	z3 := new(big.Int).Add(j.y, j.z)
	z3 = c.mul(z3, z3)
	z3 = c.sub(z3, yy)
	z3 = c.sub(z3, zz)

	return jacobian{x: x3, y: y3, z: z3}
}

// mul returns a·b mod p in a new value.
func (c *Curve) mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)

	return r.Mod(r, c.p)
}

// sub returns a - b mod p in a new value.
func (c *Curve) sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)

	return r.Mod(r, c.p)
}
