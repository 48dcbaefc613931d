package sigil

import (
	"fmt"
	"io"

	"github.com/codahale/sigil/pkg/sigil/internal"
	"github.com/codahale/sigil/pkg/sigil/internal/pointcodec"
	"github.com/codahale/sigil/pkg/sigil/internal/rng"
	"github.com/codahale/sigil/pkg/sigil/internal/tagkdf"
)

// DefaultLength is the default identifier length in bytes, the size of a Kademlia node ID.
const DefaultLength = 20

// Scheme binds a curve to the settings both sides of an identifier must agree on: the point
// compression mode, the identifier length, the KDF, and the KDF's info string. A Scheme is
// immutable and safe for concurrent use.
type Scheme struct {
	curve   *Curve
	mode    Mode
	length  int
	info    []byte
	kdfName string
	kdf     tagkdf.Func
	rand    io.Reader
}

// Option configures a Scheme.
type Option func(*Scheme)

// WithMode sets the point compression mode. The default is ImplicitEven.
func WithMode(m Mode) Option {
	return func(s *Scheme) {
		s.mode = m
	}
}

// WithLength sets the total identifier length in bytes. The default is DefaultLength.
func WithLength(n int) Option {
	return func(s *Scheme) {
		s.length = n
	}
}

// WithInfo sets the KDF info string used for domain separation. The default is empty.
func WithInfo(info []byte) Option {
	return func(s *Scheme) {
		s.info = internal.Copy(info)
	}
}

// WithKDF selects the tag KDF by name. The default is "hkdf-sha256".
func WithKDF(name string) Option {
	return func(s *Scheme) {
		s.kdfName = name
	}
}

// WithRandom sets the source of randomness for key generation and private key encryption. The
// default is a STROBE-hardened wrapper around crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(s *Scheme) {
		s.rand = r
	}
}

// NewScheme returns a Scheme for the given curve and options. It returns an error if the KDF is
// unknown or the identifier length leaves no room for a tag.
func NewScheme(c *Curve, opts ...Option) (*Scheme, error) {
	s := &Scheme{
		curve:   c,
		mode:    ImplicitEven,
		length:  DefaultLength,
		kdfName: tagkdf.Default,
		rand:    rng.Reader,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.mode != ImplicitEven && s.mode != Tagged {
		return nil, internal.MakeError(internal.ErrInvalidState, fmt.Sprintf("unknown mode %s", s.mode))
	}

	kdf, err := tagkdf.ByName(s.kdfName)
	if err != nil {
		return nil, err
	}

	s.kdf = kdf

	if s.TagSize() < 1 {
		return nil, internal.MakeError(internal.ErrInvalidState,
			fmt.Sprintf("identifier length %d leaves no room for a tag after a %d-byte key",
				s.length, s.KeySize()))
	}

	return s, nil
}

// Curve returns the scheme's curve.
func (s *Scheme) Curve() *Curve {
	return s.curve
}

// Mode returns the scheme's point compression mode.
func (s *Scheme) Mode() Mode {
	return s.mode
}

// Length returns the length of an identifier in bytes.
func (s *Scheme) Length() int {
	return s.length
}

// KeySize returns the length of an encoded public key in bytes.
func (s *Scheme) KeySize() int {
	return pointcodec.Size(s.curve, s.mode)
}

// TagSize returns the length of an identifier's tag in bytes.
func (s *Scheme) TagSize() int {
	return s.length - s.KeySize()
}

// KDF returns the name of the scheme's tag KDF.
func (s *Scheme) KDF() string {
	return s.kdfName
}

// Info returns a copy of the scheme's KDF info string.
func (s *Scheme) Info() []byte {
	return internal.Copy(s.info)
}

// String returns a summary of the scheme's settings.
func (s *Scheme) String() string {
	return fmt.Sprintf("%s/%s/%s/%d", s.curve.Name(), s.mode, s.kdfName, s.length)
}

var _ fmt.Stringer = &Scheme{}
