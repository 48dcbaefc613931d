package sigil

import (
	"crypto/subtle"
	"encoding"
	"encoding/hex"
	"fmt"

	"github.com/codahale/sigil/pkg/sigil/internal"
	"github.com/codahale/sigil/pkg/sigil/internal/pointcodec"
	"github.com/codahale/sigil/pkg/sigil/internal/tagkdf"
)

// Identifier is a sender's compressed public key followed by a tag derived from the ECDH shared
// secret of the sender and the intended recipient.
//
// It can be marshalled and unmarshalled as lowercase hex text.
type Identifier []byte

// Generate mints an identifier which the holder of the private key for the compressed public key
// peer will recognize as coming from sk. It returns an error if peer cannot be decoded.
func (s *Scheme) Generate(sk *PrivateKey, peer []byte) (Identifier, error) {
	q, err := pointcodec.Decompress(s.curve, peer, s.mode)
	if err != nil {
		return nil, err
	}

	local := sk.pub.b
	if len(local) != s.KeySize() {
		return nil, internal.MakeError(internal.ErrInvalidState,
			fmt.Sprintf("private key encodes to %d bytes, expected %d", len(local), s.KeySize()))
	}

	n := s.length - len(local)
	if n < 1 {
		return nil, internal.MakeError(internal.ErrInvalidState,
			fmt.Sprintf("identifier length %d leaves no room for a tag", s.length))
	}

	tag, err := tagkdf.Tag(s.curve, s.kdf, sk.d, q, s.info, n)
	if err != nil {
		return nil, err
	}

	id := make(Identifier, 0, s.length)
	id = append(id, local...)
	id = append(id, tag...)

	return id, nil
}

// GenerateFor is Generate with a decoded public key.
func (s *Scheme) GenerateFor(sk *PrivateKey, peer *PublicKey) (Identifier, error) {
	return s.Generate(sk, peer.b)
}

// Verify returns true if id was minted for sk. Any failure to decode id is treated as a
// non-match, so Verify can be run over arbitrary data. Identifiers must be exactly the scheme's
// length, so a truncated identifier never matches.
func (s *Scheme) Verify(sk *PrivateKey, id Identifier) bool {
	return s.Check(sk, id) == nil
}

// Check is Verify with a reason. It returns nil if id was minted for sk, ErrMalformedInput if id
// is not the scheme's length, ErrTagMismatch if id is well-formed but was not minted for sk, or
// the error encountered decoding id.
func (s *Scheme) Check(sk *PrivateKey, id Identifier) error {
	_, err := s.open(sk, id)

	return err
}

// Sender returns the public key of the sender of id if id was minted for sk.
func (s *Scheme) Sender(sk *PrivateKey, id Identifier) (*PublicKey, error) {
	return s.open(sk, id)
}

func (s *Scheme) open(sk *PrivateKey, id Identifier) (*PublicKey, error) {
	sender, tag, err := s.split(id)
	if err != nil {
		return nil, err
	}

	if err := s.match(sk, sender, tag); err != nil {
		return nil, err
	}

	return sender, nil
}

// split decodes the sender's public key from id and returns it with the tag.
func (s *Scheme) split(id Identifier) (*PublicKey, []byte, error) {
	if len(id) != s.length {
		return nil, nil, internal.MakeError(internal.ErrMalformedInput,
			fmt.Sprintf("identifier is %d bytes, expected %d", len(id), s.length))
	}

	keySize := s.KeySize()

	sender, err := s.ParsePublicKey(id[:keySize])
	if err != nil {
		return nil, nil, err
	}

	return sender, id[keySize:], nil
}

// match re-derives the tag from sk's end of the shared secret and compares it to tag.
func (s *Scheme) match(sk *PrivateKey, sender *PublicKey, tag []byte) error {
	tagP, err := tagkdf.Tag(s.curve, s.kdf, sk.d, sender.q, s.info, len(tag))
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare(tag, tagP) != 1 {
		return internal.MakeError(internal.ErrTagMismatch, "identifier was not minted for this key")
	}

	return nil
}

// String returns the identifier as hex text.
func (id Identifier) String() string {
	return hex.EncodeToString(id)
}

// MarshalText encodes the identifier as hex text.
func (id Identifier) MarshalText() (text []byte, err error) {
	text = make([]byte, hex.EncodedLen(len(id)))
	hex.Encode(text, id)

	return text, nil
}

// UnmarshalText decodes hex text and updates the receiver to contain the decoded identifier.
func (id *Identifier) UnmarshalText(text []byte) error {
	b := make([]byte, hex.DecodedLen(len(text)))
	if _, err := hex.Decode(b, text); err != nil {
		return internal.MakeError(internal.ErrMalformedInput, fmt.Sprintf("invalid identifier: %v", err))
	}

	*id = b

	return nil
}

var (
	_ encoding.TextMarshaler   = Identifier{}
	_ encoding.TextUnmarshaler = &Identifier{}
	_ fmt.Stringer             = Identifier{}
)
