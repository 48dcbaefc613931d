package internal

// ErrorKind identifies a kind of error. It has full support for errors.Is and errors.As, so the
// caller can directly check against an error kind when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrMalformedInput is returned when a byte string has the wrong length or is structurally
	// invalid, e.g. an unrecognized point marker byte or an identifier that is too short.
	ErrMalformedInput = ErrorKind("ErrMalformedInput")

	// ErrOutOfRange is returned when a decoded x-coordinate is greater than or equal to p-1.
	ErrOutOfRange = ErrorKind("ErrOutOfRange")

	// ErrNotAQuadraticResidue is returned when an x-coordinate does not correspond to any point
	// on the curve. When scanning random data this is the expected outcome about half the time.
	ErrNotAQuadraticResidue = ErrorKind("ErrNotAQuadraticResidue")

	// ErrNotOnCurve is returned when a reconstructed point fails the curve equation.
	ErrNotOnCurve = ErrorKind("ErrNotOnCurve")

	// ErrInvalidState is returned when an internal precondition is violated, e.g. compressing a
	// point with an odd y-coordinate in implicit-even mode.
	ErrInvalidState = ErrorKind("ErrInvalidState")

	// ErrInvalidCurve is returned when curve parameters are unusable.
	ErrInvalidCurve = ErrorKind("ErrInvalidCurve")

	// ErrTagMismatch is returned when an identifier is well-formed but its tag was not derived
	// for the local key pair.
	ErrTagMismatch = ErrorKind("ErrTagMismatch")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to curve points, keys, or identifiers. It has full support
// for errors.Is and errors.As, so the caller can ascertain the specific reason for the error by
// checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// MakeError creates an Error given a set of arguments.
func MakeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
