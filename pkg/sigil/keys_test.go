package sigil

import (
	"errors"
	"io"
	"math/big"
	"math/rand"
	"testing"

	"github.com/codahale/gubbins/assert"
	"github.com/codahale/sigil/pkg/sigil/internal/weierstrass/weierstrasstest"
)

func TestGenerateKeyEvenY(t *testing.T) {
	t.Parallel()

	s := toy120(t)

	for i := 0; i < 50; i++ {
		sk := generateKey(t, s)

		if sk.PublicKey().q.Y.Bit(0) != 0 {
			t.Fatalf("%s has an odd y-coordinate", sk)
		}

		if sk.d.Sign() <= 0 || sk.d.Cmp(s.Curve().N()) >= 0 {
			t.Fatalf("scalar %x is out of range", sk.d)
		}

		// Compressing a generated key never needs a parity marker and always round-trips.
		pk, err := s.ParsePublicKey(pub(t, sk))
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, "round trip", true, pk.Equal(sk.PublicKey()))
	}
}

func TestGenerateKeyDeterministic(t *testing.T) {
	t.Parallel()

	a := generateKey(t, toy120(t, WithRandom(rand.New(rand.NewSource(1)))))
	b := generateKey(t, toy120(t, WithRandom(rand.New(rand.NewSource(1)))))

	assert.Equal(t, "public key", a.PublicKey().String(), b.PublicKey().String())
}

// repeatReader fills every read with the same bytes.
type repeatReader []byte

func (r repeatReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r[i%len(r)]
	}

	return len(p), nil
}

func TestGenerateKeyGivesUp(t *testing.T) {
	t.Parallel()

	// Always draws d = n-1, for which Q = -G has an odd y-coordinate.
	r := repeatReader(weierstrasstest.Hex("e3f3c60f9a9ca265eb7be6bda851b7").Bytes())

	if _, err := toy120(t, WithRandom(r)).GenerateKey(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState but was %v", err)
	}

	// Tagged mode takes whatever it gets.
	sk, err := toy120(t, WithMode(Tagged), WithRandom(r)).GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "scalar", "e3f3c60f9a9ca265eb7be6bda851b8", sk.d.Text(16))
}

func TestGenerateKeyMisstatedOrder(t *testing.T) {
	t.Parallel()

	// G = (6, 0) on y² = x³ + 1 over F₇ has order 2, not 3, so d = 2 gives the point at infinity.
	cs := CurveSpec{Name: "wrong-order", P: "7", A: "0", B: "1", Gx: "6", Gy: "0", N: "3"}

	c, err := cs.Curve()
	if err != nil {
		t.Fatal(err)
	}

	// Every draw from [1, 3) is d = 2.
	r := repeatReader{0x01}

	for _, mode := range []Mode{ImplicitEven, Tagged} {
		s, err := NewScheme(c, WithMode(mode), WithLength(4), WithRandom(r))
		if err != nil {
			t.Fatal(err)
		}

		if _, err := s.GenerateKey(); !errors.Is(err, ErrInvalidState) {
			t.Errorf("%s: expected ErrInvalidState but was %v", mode, err)
		}

		if _, err := s.NewPrivateKey(big.NewInt(2)); !errors.Is(err, ErrInvalidState) {
			t.Errorf("%s: expected ErrInvalidState but was %v", mode, err)
		}
	}

	// Draws of d = 1 give G itself, which has an even y-coordinate.
	s, err := NewScheme(c, WithLength(4), WithRandom(repeatReader{0x00}))
	if err != nil {
		t.Fatal(err)
	}

	sk, err := s.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "scalar", int64(1), sk.d.Int64())
}

func TestGenerateKeyRandomFailure(t *testing.T) {
	t.Parallel()

	r := io.LimitReader(repeatReader{1}, 0)

	if _, err := toy120(t, WithRandom(r)).GenerateKey(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF but was %v", err)
	}
}

func TestNewPrivateKey(t *testing.T) {
	t.Parallel()

	s := toy120(t)
	sk := mustKey(t, s, dA)

	assert.Equal(t, "public key", "c654f7308732ff8ac1fb9a61204ede", hexString(t, pub(t, sk)))

	n := s.Curve().N()

	for _, d := range []*big.Int{big.NewInt(0), big.NewInt(-1), n, new(big.Int).Add(n, big.NewInt(1))} {
		if _, err := s.NewPrivateKey(d); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%x: expected ErrOutOfRange but was %v", d, err)
		}
	}

	// n-1 gives -G, which has an odd y-coordinate.
	if _, err := s.NewPrivateKey(new(big.Int).Sub(n, big.NewInt(1))); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState but was %v", err)
	}
}

func TestPublicKeyText(t *testing.T) {
	t.Parallel()

	for _, mode := range []Mode{ImplicitEven, Tagged} {
		s := toy120(t, WithMode(mode))
		sk := generateKey(t, s)

		pk, err := s.DecodePublicKey(sk.PublicKey().String())
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, mode.String(), true, pk.Equal(sk.PublicKey()))
	}

	if _, err := toy120(t).DecodePublicKey("0OIl"); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput but was %v", err)
	}
}

func TestPrivateKeyString(t *testing.T) {
	t.Parallel()

	sk := mustKey(t, toy120(t), dA)

	assert.Equal(t, "string", "PrivateKey("+sk.PublicKey().String()+")", sk.String())
}

func hexString(t testing.TB, b []byte) string {
	t.Helper()

	return Identifier(b).String()
}
