package weierstrass

import (
	"fmt"
	"math/big"
)

// maxNonResidueSearch bounds the search for a quadratic non-residue. For a prime field, the
// smallest non-residue is tiny; failing to find one means the modulus is not prime.
const maxNonResidueSearch = 1 << 10

// sqrtParams holds the precomputed values needed to take square roots modulo an odd prime p.
//
// If p ≡ 3 (mod 4), exp is (p+1)/4 and a root of a is a^exp. Otherwise the general Tonelli-Shanks
// algorithm is used with p - 1 = q·2^s, qHalf = (q+1)/2 and c0 = z^q for a non-residue z.
type sqrtParams struct {
	p     *big.Int
	exp   *big.Int
	q     *big.Int
	qHalf *big.Int
	c0    *big.Int
	s     int
}

func newSqrtParams(p *big.Int) (sqrtParams, error) {
	sp := sqrtParams{p: new(big.Int).Set(p)}

	if p.Bit(1) == 1 {
		sp.exp = new(big.Int).Add(p, one)
		sp.exp.Rsh(sp.exp, 2)

		return sp, nil
	}

	// p - 1 = q·2^s
	sp.q = new(big.Int).Sub(p, one)
	for sp.q.Bit(0) == 0 {
		sp.q.Rsh(sp.q, 1)
		sp.s++
	}

	sp.qHalf = new(big.Int).Add(sp.q, one)
	sp.qHalf.Rsh(sp.qHalf, 1)

	z := big.NewInt(2)
	for ; big.Jacobi(z, p) != -1; z.Add(z, one) {
		if z.Int64() > maxNonResidueSearch {
			return sqrtParams{}, invalidCurve(fmt.Sprintf("no quadratic non-residue mod %x", p))
		}
	}

	sp.c0 = new(big.Int).Exp(z, sp.q, p)

	return sp, nil
}

// ModSqrt returns a square root of a modulo the odd prime p, or false if a is not a quadratic
// residue. Unlike big.Int.ModSqrt, it reports non-residues without panicking on bad moduli.
func ModSqrt(a, p *big.Int) (*big.Int, bool) {
	sp, err := newSqrtParams(p)
	if err != nil {
		return nil, false
	}

	return sp.root(a)
}

// root returns a square root of a mod p, or false if there is none.
func (sp *sqrtParams) root(a *big.Int) (*big.Int, bool) {
	x := new(big.Int).Mod(a, sp.p)
	if x.Sign() == 0 {
		return x, true
	}

	// Reject non-residues with a single Jacobi symbol before doing any exponentiation.
	if big.Jacobi(x, sp.p) != 1 {
		return nil, false
	}

	var r *big.Int
	if sp.exp != nil {
		r = new(big.Int).Exp(x, sp.exp, sp.p)
	} else {
		r = sp.tonelliShanks(x)
	}

	// Check the root, since a composite modulus can fool the Jacobi symbol.
	if r == nil || new(big.Int).Exp(r, two, sp.p).Cmp(x) != 0 {
		return nil, false
	}

	return r, true
}

// tonelliShanks returns a square root of the quadratic residue a, or nil if the iteration fails
// to converge.
func (sp *sqrtParams) tonelliShanks(a *big.Int) *big.Int {
	m := sp.s
	c := new(big.Int).Set(sp.c0)
	t := new(big.Int).Exp(a, sp.q, sp.p)
	r := new(big.Int).Exp(a, sp.qHalf, sp.p)

	for t.Cmp(one) != 0 {
		// Find the least i, 0 < i < m, such that t^(2^i) = 1.
		i := 0
		for t2 := new(big.Int).Set(t); t2.Cmp(one) != 0; i++ {
			if i == m-1 {
				return nil
			}

			t2.Mul(t2, t2).Mod(t2, sp.p)
		}

		// b = c^(2^(m-i-1))
		b := new(big.Int).Set(c)
		for j := 0; j < m-i-1; j++ {
			b.Mul(b, b).Mod(b, sp.p)
		}

		m = i
		c.Mul(b, b).Mod(c, sp.p)
		t.Mul(t, c).Mod(t, sp.p)
		r.Mul(r, b).Mod(r, sp.p)
	}

	return r
}
