package chain

import "github.com/pkg/errors"

// Struct encoding errors
var (
	ErrSchemaMismatch  = errors.New("schema mismatch")
	ErrUnsupportedType = errors.New("unsupported type")
)

// Ring combination and fee selection errors
var (
	ErrEmptyRing      = errors.New("empty ring")
	ErrLengthMismatch = errors.New("length mismatch")
	ErrFlagOutOfRange = errors.New("fee selection flag out of range")
	ErrOverflow       = errors.New("fee selection overflow")
)

// Signing and recovery errors
var (
	ErrInvalidKey       = errors.New("invalid private key")
	ErrInvalidSignature = errors.New("invalid signature")
)
