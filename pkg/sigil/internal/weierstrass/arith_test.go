package weierstrass_test

import (
	"math/big"
	"testing"

	"github.com/codahale/gubbins/assert"
	"github.com/codahale/sigil/pkg/sigil/internal/weierstrass"
	"github.com/codahale/sigil/pkg/sigil/internal/weierstrass/weierstrasstest"
	"github.com/google/go-cmp/cmp"
)

//nolint:gochecknoglobals // test fixture
var pointComparer = cmp.Comparer(func(a, b *weierstrass.Point) bool {
	return a.Equal(b)
})

func TestScalarBaseMultVectors(t *testing.T) {
	t.Parallel()

	h := weierstrasstest.Hex

	tests := []struct {
		curve *weierstrass.Curve
		k     *big.Int
		x, y  string
	}{
		{weierstrasstest.Toy120(), big.NewInt(2), "c7754d4da7490e29a5a06645d87715", "98413fe5d699abcfc21f4bdbba1a04"},
		{weierstrasstest.Toy120(), big.NewInt(3), "34b940f76b2973f22154f0fd50da93", "5104efb9653b7ea0cf373e1cc9ea5e"},
		{weierstrasstest.Toy120(), h("1d2c3b4a5968778695a4b3c2d1e14"), "c654f7308732ff8ac1fb9a61204ede", "51b1d29b697b1dc38764d1036db8de"},
		{weierstrasstest.Toy120(), h("f0e0d0c0b0a09080706050403024"), "33f72d5bb39d31def76846b5b65ad5", "16d57e6b9a4580b3dd7e99f13dd070"},
		{weierstrasstest.Small3Mod4(), big.NewInt(2), "8f66cdfc3db3", "5f7e78650c8"},
		{weierstrasstest.Small3Mod4(), big.NewInt(3), "9c195b89d2c2", "4bf20557f15d"},
		{weierstrasstest.Small3Mod4(), h("deadbeef"), "61335b62c355", "44080af4d5a1"},
		{weierstrasstest.Small1Mod8(), big.NewInt(2), "20c5370841bd", "5ee7ad5963da"},
		{weierstrasstest.Small1Mod8(), big.NewInt(3), "3ebb8cd48380", "3f25ae0f4020"},
		{weierstrasstest.Small1Mod8(), h("deadbeef"), "86f5e640f562", "adc0e44361f2"},
	}

	for _, test := range tests {
		want := weierstrass.NewPoint(h(test.x), h(test.y))
		got := test.curve.ScalarBaseMult(test.k)

		if diff := cmp.Diff(want, got, pointComparer); diff != "" {
			t.Errorf("%s: %x·G mismatch (-want +got):\n%s", test.curve.Name(), test.k, diff)
		}
	}
}

func TestGroupLaws(t *testing.T) {
	t.Parallel()

	for _, c := range weierstrasstest.All() {
		c := c

		t.Run(c.Name(), func(t *testing.T) {
			t.Parallel()

			g := c.Generator()
			inf := weierstrass.Infinity()

			g2 := c.Double(g)
			g3 := c.Add(g2, g)

			assert.Equal(t, "G+G", true, c.Add(g, g).Equal(g2))
			assert.Equal(t, "2G+G", true, c.ScalarBaseMult(big.NewInt(3)).Equal(g3))
			assert.Equal(t, "G+∞", true, c.Add(g, inf).Equal(g))
			assert.Equal(t, "∞+G", true, c.Add(inf, g).Equal(g))
			assert.Equal(t, "G+(-G)", true, c.Add(g, c.Neg(g)).IsInfinity())
			assert.Equal(t, "2∞", true, c.Double(inf).IsInfinity())
			assert.Equal(t, "2G on curve", true, c.IsOnCurve(g2))
			assert.Equal(t, "-G on curve", true, c.IsOnCurve(c.Neg(g)))
			assert.Equal(t, "G+2G = 2G+G", true, c.Add(g, g2).Equal(c.Add(g2, g)))
		})
	}
}

func TestScalarMultReducesModN(t *testing.T) {
	t.Parallel()

	c := weierstrasstest.Toy120()
	k := big.NewInt(12345)
	kn := new(big.Int).Add(k, c.N())

	assert.Equal(t, "k+n", c.ScalarBaseMult(k).String(), c.ScalarBaseMult(kn).String())
	assert.Equal(t, "n", true, c.ScalarBaseMult(c.N()).IsInfinity())
	assert.Equal(t, "0", true, c.ScalarBaseMult(new(big.Int)).IsInfinity())
	assert.Equal(t, "-1", c.Neg(c.Generator()).String(), c.ScalarBaseMult(big.NewInt(-1)).String())
	assert.Equal(t, "k·∞", true, c.ScalarMult(weierstrass.Infinity(), k).IsInfinity())
}

func TestNegVector(t *testing.T) {
	t.Parallel()

	c := weierstrasstest.Toy120()
	nMinus1 := new(big.Int).Sub(c.N(), big.NewInt(1))

	assert.Equal(t, "(n-1)G y", "ad8672b8b99190e4f7ecca3b775b0b", c.ScalarBaseMult(nMinus1).Y.Text(16))
}

func TestScalarMultDistributes(t *testing.T) {
	t.Parallel()

	for _, c := range weierstrasstest.All() {
		a := big.NewInt(0x1337)
		b := big.NewInt(0xbeef)
		ab := new(big.Int).Mul(a, b)

		got := c.ScalarMult(c.ScalarBaseMult(a), b)
		want := c.ScalarBaseMult(ab)

		if diff := cmp.Diff(want, got, pointComparer); diff != "" {
			t.Errorf("%s: a·(b·G) mismatch (-want +got):\n%s", c.Name(), diff)
		}
	}
}

func TestIsOnCurve(t *testing.T) {
	t.Parallel()

	c := weierstrasstest.Toy120()
	g := c.Generator()

	assert.Equal(t, "generator", true, c.IsOnCurve(g))
	assert.Equal(t, "infinity", true, c.IsOnCurve(weierstrass.Infinity()))
	assert.Equal(t, "off curve", false, c.IsOnCurve(weierstrass.NewPoint(g.X, big.NewInt(2))))
	assert.Equal(t, "unreduced", false,
		c.IsOnCurve(weierstrass.NewPoint(new(big.Int).Add(g.X, c.P()), g.Y)))
}

func BenchmarkScalarBaseMult(b *testing.B) {
	c := weierstrasstest.Toy120()
	k := weierstrasstest.Hex("1d2c3b4a5968778695a4b3c2d1e14")

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = c.ScalarBaseMult(k)
	}
}
