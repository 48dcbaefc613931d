package sigil

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/codahale/gubbins/assert"
)

func TestScanner(t *testing.T) {
	t.Parallel()

	s := toy120(t)
	a, b, c := generateKey(t, s), generateKey(t, s), generateKey(t, s)
	sender := generateKey(t, s)

	sc, err := NewScanner(s, []*PrivateKey{a, b}, WithWorkers(4))
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	idA, err := s.Generate(sender, pub(t, a))
	if err != nil {
		t.Fatal(err)
	}

	idB, err := s.Generate(sender, pub(t, b))
	if err != nil {
		t.Fatal(err)
	}

	other, err := s.Generate(sender, pub(t, c))
	if err != nil {
		t.Fatal(err)
	}

	in := make(chan Identifier)

	go func() {
		defer close(in)

		for i := 0; i < 100; i++ {
			// Random noise.
			noise := make(Identifier, s.Length())
			if _, err := rand.Read(noise); err != nil {
				panic(err)
			}

			in <- noise

			// An identifier for someone else.
			in <- other
		}

		in <- idA
		in <- idB
	}()

	want := map[string]int{idA.String(): 0, idB.String(): 1}
	got := make(map[string]int)

	for m := range sc.Scan(context.Background(), in) {
		got[m.Identifier.String()] = m.KeyIndex

		assert.Equal(t, "sender", sender.PublicKey().String(), m.Sender.String())
	}

	assert.Equal(t, "matches", want, got)

	stats := sc.Stats()

	assert.Equal(t, "scanned", int64(202), stats.Scanned)
	assert.Equal(t, "matched", int64(2), stats.Matched)

	// Roughly half of the noise fails to decode; none of the identifiers do.
	if stats.Rejected < 20 || stats.Rejected > 100 {
		t.Errorf("rejected %d of 100 random identifiers", stats.Rejected)
	}
}

func TestScannerCancel(t *testing.T) {
	t.Parallel()

	s := toy120(t)

	sc, err := NewScanner(s, []*PrivateKey{generateKey(t, s)})
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan Identifier)
	out := sc.Scan(ctx, in)

	in <- make(Identifier, s.Length())

	cancel()

	for range out {
		t.Error("unexpected match")
	}
}

func TestScannerNoKeys(t *testing.T) {
	t.Parallel()

	if _, err := NewScanner(toy120(t), nil); err == nil {
		t.Error("expected an error")
	}
}
