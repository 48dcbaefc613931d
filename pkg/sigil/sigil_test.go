package sigil

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/codahale/gubbins/assert"
	"github.com/codahale/sigil/pkg/sigil/internal/weierstrass/weierstrasstest"
)

const (
	dA = "1d2c3b4a5968778695a4b3c2d1e14"
	dB = "f0e0d0c0b0a09080706050403024"
)

func toy120(t testing.TB, opts ...Option) *Scheme {
	t.Helper()

	c, err := Toy120.Curve()
	if err != nil {
		t.Fatal(err)
	}

	s, err := NewScheme(c, append([]Option{WithInfo([]byte("sigil test"))}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}

	return s
}

func mustKey(t testing.TB, s *Scheme, d string) *PrivateKey {
	t.Helper()

	sk, err := s.NewPrivateKey(weierstrasstest.Hex(d))
	if err != nil {
		t.Fatal(err)
	}

	return sk
}

func generateKey(t testing.TB, s *Scheme) *PrivateKey {
	t.Helper()

	sk, err := s.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	return sk
}

func pub(t testing.TB, sk *PrivateKey) []byte {
	t.Helper()

	b, err := sk.PublicKey().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	return b
}

func TestGenerateVectors(t *testing.T) {
	t.Parallel()

	s := toy120(t)
	a, b := mustKey(t, s, dA), mustKey(t, s, dB)

	idAB, err := s.Generate(a, pub(t, b))
	if err != nil {
		t.Fatal(err)
	}

	idBA, err := s.Generate(b, pub(t, a))
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "A→B", "c654f7308732ff8ac1fb9a61204ededc36e3de89", idAB.String())
	assert.Equal(t, "B→A", "33f72d5bb39d31def76846b5b65ad5dc36e3de89", idBA.String())
}

func TestScenario(t *testing.T) {
	t.Parallel()

	s := toy120(t, WithLength(20))
	a, b, c := generateKey(t, s), generateKey(t, s), generateKey(t, s)

	assert.Equal(t, "key size", 15, s.KeySize())
	assert.Equal(t, "tag size", 5, s.TagSize())

	id, err := s.Generate(a, pub(t, b))
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "identifier length", 20, len(id))
	assert.Equal(t, "B verifies", true, s.Verify(b, id))
	assert.Equal(t, "C verifies", false, s.Verify(c, id))
	assert.Equal(t, "A verifies", false, s.Verify(a, id))
}

func TestMutualVerification(t *testing.T) {
	t.Parallel()

	for _, mode := range []Mode{ImplicitEven, Tagged} {
		s := toy120(t, WithMode(mode))

		for i := 0; i < 10; i++ {
			a, b := generateKey(t, s), generateKey(t, s)

			idAB, err := s.Generate(a, pub(t, b))
			if err != nil {
				t.Fatal(err)
			}

			idBA, err := s.Generate(b, pub(t, a))
			if err != nil {
				t.Fatal(err)
			}

			if !s.Verify(b, idAB) || !s.Verify(a, idBA) {
				t.Fatalf("%s: mutual verification failed for %s and %s", mode, a, b)
			}

			assert.Equal(t, mode.String()+" length", s.Length(), len(idAB))
		}
	}
}

func TestCrossPeerRejection(t *testing.T) {
	t.Parallel()

	s := toy120(t)

	for i := 0; i < 20; i++ {
		a, b, c := generateKey(t, s), generateKey(t, s), generateKey(t, s)

		id, err := s.Generate(b, pub(t, c))
		if err != nil {
			t.Fatal(err)
		}

		if err := s.Check(a, id); !errors.Is(err, ErrTagMismatch) {
			t.Fatalf("expected ErrTagMismatch but was %v", err)
		}
	}
}

func TestDomainSeparation(t *testing.T) {
	t.Parallel()

	s1 := toy120(t)
	s2 := toy120(t, WithInfo([]byte("another deployment")))
	a, b := mustKey(t, s1, dA), mustKey(t, s1, dB)

	id, err := s1.Generate(a, pub(t, b))
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "same info", true, s1.Verify(b, id))
	assert.Equal(t, "different info", false, s2.Verify(b, id))
}

func TestKDFs(t *testing.T) {
	t.Parallel()

	for _, kdf := range []string{"hkdf-sha256", "hkdf-sha512", "hkdf-sha3-256", "hkdf-blake2b-256", "strobe"} {
		s := toy120(t, WithKDF(kdf))
		a, b := generateKey(t, s), generateKey(t, s)

		id, err := s.Generate(a, pub(t, b))
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, kdf, true, s.Verify(b, id))
	}
}

func TestCheckErrors(t *testing.T) {
	t.Parallel()

	s := toy120(t)
	sk := mustKey(t, s, dA)

	nonResidue, _ := hex.DecodeString("0000000000000000000000000000020102030405")
	outOfRange, _ := hex.DecodeString("ffffffffffffffffffffffffffffff0102030405")

	tests := []struct {
		name string
		id   Identifier
		want error
	}{
		{"empty", Identifier{}, ErrMalformedInput},
		{"key only", make(Identifier, 15), ErrMalformedInput},
		{"too long", make(Identifier, 21), ErrMalformedInput},
		{"non-residue", nonResidue, ErrNotAQuadraticResidue},
		{"out of range", outOfRange, ErrOutOfRange},
	}

	for _, test := range tests {
		if err := s.Check(sk, test.id); !errors.Is(err, test.want) {
			t.Errorf("%s: expected %v but was %v", test.name, test.want, err)
		}

		if s.Verify(sk, test.id) {
			t.Errorf("%s: verified", test.name)
		}
	}
}

func TestVerifyWrongLength(t *testing.T) {
	t.Parallel()

	s := toy120(t)
	a, b := mustKey(t, s, dA), mustKey(t, s, dB)

	id, err := s.Generate(a, pub(t, b))
	if err != nil {
		t.Fatal(err)
	}

	// A truncated identifier carries a prefix of the real tag.
	for _, n := range []int{16, 19} {
		if err := s.Check(b, id[:n]); !errors.Is(err, ErrMalformedInput) {
			t.Errorf("%d bytes: expected ErrMalformedInput but was %v", n, err)
		}

		assert.Equal(t, "truncated", false, s.Verify(b, id[:n]))
	}

	long := append(append(Identifier{}, id...), 0)
	if err := s.Check(b, long); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput but was %v", err)
	}

	assert.Equal(t, "full", true, s.Verify(b, id))
}

func TestGenerateBadPeer(t *testing.T) {
	t.Parallel()

	s := toy120(t)
	sk := mustKey(t, s, dA)

	if _, err := s.Generate(sk, []byte{1, 2, 3}); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput but was %v", err)
	}
}

func TestSender(t *testing.T) {
	t.Parallel()

	s := toy120(t)
	a, b := generateKey(t, s), generateKey(t, s)

	id, err := s.GenerateFor(a, b.PublicKey())
	if err != nil {
		t.Fatal(err)
	}

	sender, err := s.Sender(b, id)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "sender", a.PublicKey().String(), sender.String())
}

func TestNewSchemeLength(t *testing.T) {
	t.Parallel()

	c, err := Toy120.Curve()
	if err != nil {
		t.Fatal(err)
	}

	for _, test := range []struct {
		mode   Mode
		length int
	}{
		{ImplicitEven, 15},
		{ImplicitEven, 10},
		{Tagged, 16},
	} {
		if _, err := NewScheme(c, WithMode(test.mode), WithLength(test.length)); !errors.Is(err, ErrInvalidState) {
			t.Errorf("%s/%d: expected ErrInvalidState but was %v", test.mode, test.length, err)
		}
	}

	s, err := NewScheme(c, WithMode(Tagged), WithLength(17))
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "tag size", 1, s.TagSize())
}

func TestNewSchemeUnknownKDF(t *testing.T) {
	t.Parallel()

	c, err := Toy120.Curve()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewScheme(c, WithKDF("rot13")); err == nil {
		t.Error("expected an error")
	}
}

func TestSchemeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "string", "toy120/implicit-even/hkdf-sha256/20", toy120(t).String())
}

func TestIdentifierText(t *testing.T) {
	t.Parallel()

	var id Identifier
	if err := id.UnmarshalText([]byte("c654f7308732ff8ac1fb9a61204ededc36e3de89")); err != nil {
		t.Fatal(err)
	}

	text, err := id.MarshalText()
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "round trip", "c654f7308732ff8ac1fb9a61204ededc36e3de89", string(text))

	if err := id.UnmarshalText([]byte("nope")); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput but was %v", err)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	m, err := ParseMode("tagged")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "mode", Tagged, m)
}

func BenchmarkGenerate(b *testing.B) {
	s := toy120(b)
	a, peer := mustKey(b, s, dA), pub(b, mustKey(b, s, dB))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = s.Generate(a, peer)
	}
}

func BenchmarkVerify(b *testing.B) {
	s := toy120(b)
	sk := mustKey(b, s, dB)
	id, _ := hex.DecodeString("c654f7308732ff8ac1fb9a61204ededc36e3de89")

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = s.Verify(sk, id)
	}
}

