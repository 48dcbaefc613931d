// Package tagkdf derives identifier tags from an ECDH shared secret.
//
// The shared secret is the point S = d·Q. Only its x-coordinate, encoded big-endian at the curve's
// fixed width, is handed to the KDF. The KDF is keyed with no salt and an application-wide info
// string, and its output is truncated to the requested tag length.
//
// Besides HKDF over a handful of hash functions, a STROBE-based KDF is available:
//
//     INIT('sigil.tag', level=256)
//     AD(info, meta=true)
//     AD(BE_U32(ℓ), meta=true)
//     KEY(x)
//     PRF(ℓ) -> tag
package tagkdf

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"math/big"
	"sort"

	"github.com/codahale/sigil/pkg/sigil/internal"
	"github.com/codahale/sigil/pkg/sigil/internal/pointcodec"
	"github.com/codahale/sigil/pkg/sigil/internal/weierstrass"
	"github.com/sammyne/strobe"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// Default is the name of the KDF used when none is configured.
const Default = "hkdf-sha256"

// Func derives n bytes of key material from a shared secret and an info string.
type Func func(secret, info []byte, n int) ([]byte, error)

// SharedSecret returns the fixed-width x-coordinate of d·peer.
func SharedSecret(c *weierstrass.Curve, d *big.Int, peer *weierstrass.Point) ([]byte, error) {
	s := c.ScalarMult(peer, d)
	if s.IsInfinity() {
		return nil, internal.MakeError(internal.ErrInvalidState, "shared secret is the point at infinity")
	}

	return pointcodec.XBytes(c, s), nil
}

// Tag derives an n-byte tag from the ECDH shared secret of d and peer.
func Tag(c *weierstrass.Curve, kdf Func, d *big.Int, peer *weierstrass.Point, info []byte, n int,
) ([]byte, error) {
	secret, err := SharedSecret(c, d, peer)
	if err != nil {
		return nil, err
	}

	return kdf(secret, info, n)
}

// HKDF returns a Func which runs HKDF with the given hash, an empty salt, and the given info.
func HKDF(h func() hash.Hash) Func {
	return func(secret, info []byte, n int) ([]byte, error) {
		out := make([]byte, n)
		if _, err := io.ReadFull(hkdf.New(h, secret, nil, info), out); err != nil {
			return nil, internal.MakeError(internal.ErrInvalidState,
				fmt.Sprintf("cannot derive %d bytes: %v", n, err))
		}

		return out, nil
	}
}

// STROBE derives the tag with a STROBE PRF keyed with the shared secret.
func STROBE(secret, info []byte, n int) ([]byte, error) {
	kdf := internal.Strobe("sigil.tag")

	internal.Must(kdf.AD(internal.Copy(info), &strobe.Options{Meta: true}))
	internal.Must(kdf.AD(internal.BigEndianU32(n), &strobe.Options{Meta: true}))
	internal.Must(kdf.KEY(internal.Copy(secret), false))

	out := make([]byte, n)
	internal.Must(kdf.PRF(out, false))

	return out, nil
}

//nolint:gochecknoglobals // registry of KDFs
var kdfs = map[string]Func{
	"hkdf-sha256":      HKDF(sha256.New),
	"hkdf-sha512":      HKDF(sha512.New),
	"hkdf-sha3-256":    HKDF(sha3.New256),
	"hkdf-blake2b-256": HKDF(newBlake2b256),
	"strobe":           STROBE,
}

// ByName returns the KDF with the given name. An empty name selects Default.
func ByName(name string) (Func, error) {
	if name == "" {
		name = Default
	}

	f, ok := kdfs[name]
	if !ok {
		return nil, fmt.Errorf("unknown KDF %q", name)
	}

	return f, nil
}

// Names returns the names of all available KDFs, sorted.
func Names() []string {
	names := make([]string, 0, len(kdfs))
	for k := range kdfs {
		names = append(names, k)
	}

	sort.Strings(names)

	return names
}

func newBlake2b256() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}

	return h
}
