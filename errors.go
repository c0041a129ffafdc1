package s256k1

// ErrorKind identifies a kind of error. It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrSecKeyInvalidLen is returned when a secret key is not exactly
	// SecretKeySize bytes.
	ErrSecKeyInvalidLen = ErrorKind("ErrSecKeyInvalidLen")

	// ErrMsgHashInvalidLen is returned when a message hash is not exactly
	// MessageHashSize bytes.
	ErrMsgHashInvalidLen = ErrorKind("ErrMsgHashInvalidLen")

	// ErrPubKeyInvalidFormat is returned when a serialized public key has a
	// prefix or length combination other than 0x02/0x03 with 33 bytes or 0x04
	// with 65 bytes.
	ErrPubKeyInvalidFormat = ErrorKind("ErrPubKeyInvalidFormat")

	// ErrSigTooShort is returned when a DER signature is too short.
	ErrSigTooShort = ErrorKind("ErrSigTooShort")

	// ErrSigTooLong is returned when a DER signature is too long.
	ErrSigTooLong = ErrorKind("ErrSigTooLong")

	// ErrSigInvalidSeqID is returned when a DER signature does not start with
	// the ASN.1 sequence identifier.
	ErrSigInvalidSeqID = ErrorKind("ErrSigInvalidSeqID")

	// ErrSigInvalidDataLen is returned when a DER signature does not specify
	// the correct number of remaining bytes for the R and S portions.
	ErrSigInvalidDataLen = ErrorKind("ErrSigInvalidDataLen")

	// ErrSigMissingSTypeID is returned when a DER signature does not provide
	// the ASN.1 type ID for S.
	ErrSigMissingSTypeID = ErrorKind("ErrSigMissingSTypeID")

	// ErrSigMissingSLen is returned when a DER signature does not provide the
	// length of S.
	ErrSigMissingSLen = ErrorKind("ErrSigMissingSLen")

	// ErrSigInvalidSLen is returned when a DER signature does not specify the
	// correct number of bytes for the S portion.
	ErrSigInvalidSLen = ErrorKind("ErrSigInvalidSLen")

	// ErrSigInvalidRIntID is returned when a DER signature does not have the
	// ASN.1 integer ID for R.
	ErrSigInvalidRIntID = ErrorKind("ErrSigInvalidRIntID")

	// ErrSigZeroRLen is returned when a DER signature has an R length of zero.
	ErrSigZeroRLen = ErrorKind("ErrSigZeroRLen")

	// ErrSigNegativeR is returned when a DER signature has a negative R.
	ErrSigNegativeR = ErrorKind("ErrSigNegativeR")

	// ErrSigTooMuchRPadding is returned when a DER signature has too much
	// padding for R.
	ErrSigTooMuchRPadding = ErrorKind("ErrSigTooMuchRPadding")

	// ErrSigRIsZero is returned when a signature has R set to zero.
	ErrSigRIsZero = ErrorKind("ErrSigRIsZero")

	// ErrSigRTooBig is returned when a signature has R greater than or equal
	// to the group order.
	ErrSigRTooBig = ErrorKind("ErrSigRTooBig")

	// ErrSigInvalidSIntID is returned when a DER signature does not have the
	// ASN.1 integer ID for S.
	ErrSigInvalidSIntID = ErrorKind("ErrSigInvalidSIntID")

	// ErrSigZeroSLen is returned when a DER signature has an S length of zero.
	ErrSigZeroSLen = ErrorKind("ErrSigZeroSLen")

	// ErrSigNegativeS is returned when a DER signature has a negative S.
	ErrSigNegativeS = ErrorKind("ErrSigNegativeS")

	// ErrSigTooMuchSPadding is returned when a DER signature has too much
	// padding for S.
	ErrSigTooMuchSPadding = ErrorKind("ErrSigTooMuchSPadding")

	// ErrSigSIsZero is returned when a signature has S set to zero.
	ErrSigSIsZero = ErrorKind("ErrSigSIsZero")

	// ErrSigSTooBig is returned when a signature has S greater than or equal
	// to the group order.
	ErrSigSTooBig = ErrorKind("ErrSigSTooBig")

	// ErrInvalidFlags is returned by ContextCreate for unknown flag bits.
	ErrInvalidFlags = ErrorKind("ErrInvalidFlags")

	// ErrInvalidSeed is returned when a randomization seed is not 32 bytes.
	ErrInvalidSeed = ErrorKind("ErrInvalidSeed")

	// ErrSelfTest is returned when the context self test fails.
	ErrSelfTest = ErrorKind("ErrSelfTest")

	// ErrStaticContext is returned when an operation that needs a private
	// context is attempted on ContextStatic.
	ErrStaticContext = ErrorKind("ErrStaticContext")

	// ErrContextDestroyed is the panic value raised when a context is
	// destroyed twice or used after it was destroyed.
	ErrContextDestroyed = ErrorKind("ErrContextDestroyed")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to secp256k1 operations. It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
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

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
