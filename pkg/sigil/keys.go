package sigil

import (
	"encoding"
	"fmt"
	"math/big"

	"github.com/codahale/sigil/pkg/sigil/internal"
	"github.com/codahale/sigil/pkg/sigil/internal/pointcodec"
	"github.com/codahale/sigil/pkg/sigil/internal/rng"
	"github.com/codahale/sigil/pkg/sigil/internal/weierstrass"
	"github.com/mr-tron/base58"
)

// maxKeyTries bounds the rejection sampling in GenerateKey. Each try succeeds with probability
// 1/2 in ImplicitEven mode, so hitting the bound means the curve is broken.
const maxKeyTries = 128

// PrivateKey is a scalar d in [1, n) and its public point Q = d·G. It is only meaningful with the
// Scheme which created it.
type PrivateKey struct {
	d   *big.Int
	pub *PublicKey
}

// PublicKey is a point on a Scheme's curve, encoded with the Scheme's compression mode.
//
// It can be marshalled as the compressed point or as base58 text for human consumption.
type PublicKey struct {
	q *weierstrass.Point
	b []byte
}

// GenerateKey returns a new random PrivateKey. Scalars are resampled until the public point is
// encodable: not the point at infinity and, in ImplicitEven mode, with an even y-coordinate.
func (s *Scheme) GenerateKey() (*PrivateKey, error) {
	for i := 0; i < maxKeyTries; i++ {
		d, err := rng.Int(s.rand, s.curve.N())
		if err != nil {
			return nil, err
		}

		// A curve whose stated order is wrong can map d to the point at infinity.
		q := s.curve.ScalarBaseMult(d)
		if q.IsInfinity() || (s.mode == ImplicitEven && q.Y.Bit(0) == 1) {
			continue
		}

		return s.privateKey(d, q)
	}

	return nil, internal.MakeError(internal.ErrInvalidState,
		fmt.Sprintf("no usable key pair after %d tries", maxKeyTries))
}

// NewPrivateKey returns the PrivateKey for the given scalar. It returns an error if the scalar is
// outside [1, n) or its public point cannot be encoded in the scheme's mode.
func (s *Scheme) NewPrivateKey(d *big.Int) (*PrivateKey, error) {
	if d.Sign() <= 0 || d.Cmp(s.curve.N()) >= 0 {
		return nil, internal.MakeError(internal.ErrOutOfRange, "private scalar is out of range")
	}

	d = new(big.Int).Set(d)

	return s.privateKey(d, s.curve.ScalarBaseMult(d))
}

func (s *Scheme) privateKey(d *big.Int, q *weierstrass.Point) (*PrivateKey, error) {
	b, err := pointcodec.Compress(s.curve, q, s.mode)
	if err != nil {
		return nil, err
	}

	return &PrivateKey{d: d, pub: &PublicKey{q: q, b: b}}, nil
}

// ParsePublicKey decodes a public key from its compressed form.
func (s *Scheme) ParsePublicKey(data []byte) (*PublicKey, error) {
	q, err := pointcodec.Decompress(s.curve, data, s.mode)
	if err != nil {
		return nil, err
	}

	return &PublicKey{q: q, b: internal.Copy(data)}, nil
}

// DecodePublicKey decodes a public key from base58 text.
func (s *Scheme) DecodePublicKey(text string) (*PublicKey, error) {
	data, err := base58.Decode(text)
	if err != nil {
		return nil, internal.MakeError(internal.ErrMalformedInput,
			fmt.Sprintf("invalid public key: %v", err))
	}

	return s.ParsePublicKey(data)
}

// PublicKey returns the corresponding PublicKey for the receiver.
func (pk *PrivateKey) PublicKey() *PublicKey {
	return pk.pub
}

// bytes returns the private scalar as a big-endian byte string as wide as the curve order.
func (pk *PrivateKey) bytes(c *Curve) []byte {
	return pk.d.FillBytes(make([]byte, scalarSize(c)))
}

// String returns the public key as base58 text, so a private key never prints its scalar.
func (pk *PrivateKey) String() string {
	return "PrivateKey(" + pk.pub.String() + ")"
}

// Equal returns true if both public keys are the same point.
func (pk *PublicKey) Equal(o *PublicKey) bool {
	return pk.q.Equal(o.q)
}

// String returns the public key as base58 text.
func (pk *PublicKey) String() string {
	text, err := pk.MarshalText()
	if err != nil {
		panic(err)
	}

	return string(text)
}

// MarshalBinary returns the compressed public key, as it appears at the start of an identifier.
func (pk *PublicKey) MarshalBinary() (data []byte, err error) {
	return internal.Copy(pk.b), nil
}

// MarshalText encodes the public key into base58 text and returns the result.
func (pk *PublicKey) MarshalText() (text []byte, err error) {
	return []byte(base58.Encode(pk.b)), nil
}

func scalarSize(c *Curve) int {
	return (c.N().BitLen() + 7) / 8
}

var (
	_ encoding.BinaryMarshaler = &PublicKey{}
	_ encoding.TextMarshaler   = &PublicKey{}
	_ fmt.Stringer             = &PublicKey{}
	_ fmt.Stringer             = &PrivateKey{}
)
