// Package rng provides sigil's random number generator.
//
// At startup, a STROBE protocol is initialized:
//
//     INIT('sigil.rng', level=256)
//
// When a block of random data is required, a block B of equivalent size is read from the host
// machine's RNG, and the following operations performed:
//
//     AD(BE_U32(LEN(B)), meta=true)
//     KEY(B)
//     PRF(LEN(B)) -> B
//     RATCHET(32)
//
// This insulates sigil somewhat against compromised RNGs, but at the end of the day this is still
// a deterministic process.
package rng

import (
	"crypto/rand"
	"io"
	"math/big"
	"sync"

	"github.com/codahale/sigil/pkg/sigil/internal"
	"github.com/sammyne/strobe"
)

//nolint:gochecknoglobals // need a singleton
// Reader is a global, shared instance of a cryptographically secure random number generator.
var Reader io.Reader = New(rand.Reader)

// New returns a STROBE-hardened reader which draws its entropy from src.
func New(src io.Reader) io.Reader {
	return &reader{src: src, rng: internal.Strobe("sigil.rng")}
}

type reader struct {
	m   sync.Mutex
	src io.Reader
	rng *strobe.Strobe
}

func (r *reader) Read(p []byte) (n int, err error) {
	r.m.Lock()
	defer r.m.Unlock()

	// Include length of PRF request as associated data.
	internal.Must(r.rng.AD(internal.BigEndianU32(len(p)), &strobe.Options{Meta: true}))

	// Read a new block of data from the underlying RNG.
	if _, err := io.ReadFull(r.src, p); err != nil {
		return 0, err
	}

	// Re-key the protocol with the block.
	internal.Must(r.rng.KEY(internal.Copy(p), false))

	// Return the results of the PRF.
	internal.Must(r.rng.PRF(p, false))

	// Ratchet the state of the RNG to prevent rollback.
	internal.Must(r.rng.RATCHET(internal.RatchetSize))

	return len(p), nil
}

// Int returns a uniform random value in [1, max), drawn from src by rejection sampling. The
// number of bytes read per attempt is the length of max-2, so a fixed src gives a fixed result.
func Int(src io.Reader, max *big.Int) (*big.Int, error) {
	if max.Cmp(one) <= 0 {
		return nil, internal.MakeError(internal.ErrInvalidState, "range [1, max) is empty")
	}

	// Sample k from [0, max-1), then shift it up by one.
	bound := new(big.Int).Sub(max, one)
	bitLen := new(big.Int).Sub(bound, one).BitLen()

	if bitLen == 0 {
		return big.NewInt(1), nil
	}

	buf := make([]byte, (bitLen+7)/8)

	// Mask off any excess bits in the most significant byte.
	b := uint(bitLen % 8)
	if b == 0 {
		b = 8
	}

	k := new(big.Int)

	for {
		if _, err := io.ReadFull(src, buf); err != nil {
			return nil, err
		}

		buf[0] &= uint8(int(1<<b) - 1)

		if k.SetBytes(buf).Cmp(bound) < 0 {
			return k.Add(k, one), nil
		}
	}
}

//nolint:gochecknoglobals // reusable constant
var one = big.NewInt(1)
