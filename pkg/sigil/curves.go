package sigil

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/codahale/sigil/pkg/sigil/internal"
	"github.com/codahale/sigil/pkg/sigil/internal/weierstrass"
)

// Curve is an immutable short-Weierstrass curve y² = x³ + ax + b over a prime field.
type Curve = weierstrass.Curve

// CurveSpec is a curve record as it appears in configuration: every value is a big-endian hex
// integer, with or without a 0x prefix. An empty H means a cofactor of 1.
type CurveSpec struct {
	Name                  string
	P, A, B, Gx, Gy, N, H string
}

// Curve parses the record and returns the corresponding Curve.
func (cs *CurveSpec) Curve() (*Curve, error) {
	params := weierstrass.Params{Name: cs.Name}

	for _, f := range []struct {
		name string
		s    string
		dst  **big.Int
	}{
		{"p", cs.P, &params.P},
		{"a", cs.A, &params.A},
		{"b", cs.B, &params.B},
		{"gx", cs.Gx, &params.Gx},
		{"gy", cs.Gy, &params.Gy},
		{"n", cs.N, &params.N},
		{"h", cs.H, &params.H},
	} {
		if f.s == "" && f.name == "h" {
			continue
		}

		v, err := parseHex(f.s)
		if err != nil {
			return nil, internal.MakeError(internal.ErrInvalidCurve,
				fmt.Sprintf("curve parameter %s: %v", f.name, err))
		}

		*f.dst = v
	}

	return weierstrass.NewCurve(&params)
}

// Toy120 is a prime-order curve y² = x³ + 5 over a 120-bit field with p ≡ 3 (mod 4). Compressed
// points are 15 bytes long, leaving 5 bytes of tag in a 20-byte identifier.
//
//nolint:gochecknoglobals // preset
var Toy120 = CurveSpec{
	Name: "toy120",
	P:    "e3f3c60f9a9ca278bd499974651a63",
	A:    "0",
	B:    "5",
	Gx:   "1",
	Gy:   "366d5356e10b1193c55ccf38edbf58",
	N:    "e3f3c60f9a9ca265eb7be6bda851b9",
	H:    "1",
}

//nolint:gochecknoglobals // presets
var presets = map[string]CurveSpec{
	Toy120.Name: Toy120,
}

// Preset returns the curve record with the given name.
func Preset(name string) (CurveSpec, error) {
	cs, ok := presets[name]
	if !ok {
		return CurveSpec{}, internal.MakeError(internal.ErrInvalidCurve,
			fmt.Sprintf("unknown curve preset %q", name))
	}

	return cs, nil
}

// PresetNames returns the names of all preset curves, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}

	sort.Strings(names)

	return names
}

func parseHex(s string) (*big.Int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if s == "" {
		return nil, fmt.Errorf("empty value")
	}

	v, ok := new(big.Int).SetString(s, 16)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid hex integer %q", s)
	}

	return v, nil
}
