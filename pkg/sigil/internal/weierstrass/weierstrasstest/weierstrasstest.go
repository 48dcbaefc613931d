// Package weierstrasstest provides small, vetted curves for tests.
package weierstrasstest

import (
	"math/big"

	"github.com/codahale/sigil/pkg/sigil/internal/weierstrass"
)

// Toy120 returns a prime-order curve y² = x³ + 5 over a 120-bit field with p ≡ 3 (mod 4).
func Toy120() *weierstrass.Curve {
	return mustCurve(&weierstrass.Params{
		Name: "toy120",
		P:    Hex("e3f3c60f9a9ca278bd499974651a63"),
		A:    big.NewInt(0),
		B:    big.NewInt(5),
		Gx:   big.NewInt(1),
		Gy:   Hex("366d5356e10b1193c55ccf38edbf58"),
		N:    Hex("e3f3c60f9a9ca265eb7be6bda851b9"),
	})
}

// Small3Mod4 returns a prime-order curve over a 48-bit field with p ≡ 3 (mod 4) and a ≠ 0.
func Small3Mod4() *weierstrass.Curve {
	return mustCurve(&weierstrass.Params{
		Name: "small-3mod4",
		P:    Hex("ca0b0f796507"),
		A:    Hex("2c8d2e1504b1"),
		B:    Hex("90724a6f69f2"),
		Gx:   big.NewInt(1),
		Gy:   Hex("6ffd50c062de"),
		N:    Hex("ca0b0e7c18e5"),
	})
}

// Small1Mod8 returns a prime-order curve over a 48-bit field with p ≡ 1 (mod 8), which requires
// the general Tonelli-Shanks square root.
func Small1Mod8() *weierstrass.Curve {
	return mustCurve(&weierstrass.Params{
		Name: "small-1mod8",
		P:    Hex("c5d6380ad729"),
		A:    Hex("293cba112cf7"),
		B:    Hex("5650b4bc1912"),
		Gx:   big.NewInt(1),
		Gy:   Hex("359e7322ef1a"),
		N:    Hex("c5d639bd369b"),
	})
}

// All returns every test curve.
func All() []*weierstrass.Curve {
	return []*weierstrass.Curve{Toy120(), Small3Mod4(), Small1Mod8()}
}

// Hex parses a big-endian hexadecimal integer, panicking on malformed input.
func Hex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid hex integer: " + s)
	}

	return n
}

func mustCurve(params *weierstrass.Params) *weierstrass.Curve {
	c, err := weierstrass.NewCurve(params)
	if err != nil {
		panic(err)
	}

	return c
}
