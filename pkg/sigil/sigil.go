// Package sigil implements covertly watermarked fixed-size identifiers.
//
// A sigil identifier is a compressed elliptic curve public key followed by a short tag:
//
//     ID = Compress(Q_S) || KDF(x(d_S·Q_R), info)[:N-len(Compress(Q_S))]
//
// Anyone holding a recipient's public key Q_R can mint an identifier which only the holder of the
// recipient's private key d_R can recognize, because d_R·Q_S = d_S·Q_R. To everyone else the
// identifier looks like the compressed public key of a stranger followed by random bytes. The
// intended carrier is a DHT node ID, which is why identifiers are small and fixed in size.
//
// Tags are short, so a recipient scanning random identifiers will see false positives at a rate
// of 2^-(8·ℓ) for a tag of ℓ bytes. The tag length is a function of the identifier length and the
// curve, and it's up to the deployment to pick a trade-off.
//
// You should not use this.
package sigil

import (
	"github.com/codahale/sigil/pkg/sigil/internal"
	"github.com/codahale/sigil/pkg/sigil/internal/pointcodec"
	"github.com/codahale/sigil/pkg/sigil/internal/tagkdf"
)

// Mode selects how a public key's y-coordinate parity is encoded.
type Mode = pointcodec.Mode

const (
	// ImplicitEven encodes only the x-coordinate. Key pairs are generated with an even
	// y-coordinate, so no marker byte is needed.
	ImplicitEven = pointcodec.ImplicitEven

	// Tagged prefixes the x-coordinate with a byte recording the parity of y.
	Tagged = pointcodec.Tagged
)

// ParseMode returns the Mode with the given name ("implicit-even" or "tagged").
func ParseMode(s string) (Mode, error) {
	return pointcodec.ParseMode(s)
}

// KDFNames returns the names accepted by WithKDF, sorted.
func KDFNames() []string {
	return tagkdf.Names()
}

//nolint:gochecknoglobals // error kinds
var (
	// ErrMalformedInput is returned when a byte string has the wrong length or structure.
	ErrMalformedInput = internal.ErrMalformedInput

	// ErrOutOfRange is returned when a compressed point's x-coordinate is too large.
	ErrOutOfRange = internal.ErrOutOfRange

	// ErrNotAQuadraticResidue is returned when a compressed point's x-coordinate has no
	// corresponding point on the curve.
	ErrNotAQuadraticResidue = internal.ErrNotAQuadraticResidue

	// ErrNotOnCurve is returned when a decoded point does not satisfy the curve equation.
	ErrNotOnCurve = internal.ErrNotOnCurve

	// ErrInvalidState is returned when an operation's preconditions are violated.
	ErrInvalidState = internal.ErrInvalidState

	// ErrInvalidCurve is returned when curve parameters are unusable.
	ErrInvalidCurve = internal.ErrInvalidCurve

	// ErrTagMismatch is returned by Check when an identifier was not minted for the given key.
	ErrTagMismatch = internal.ErrTagMismatch
)
