package sigma

import (
	"errors"
	"fmt"

	"github.com/extfg/sigma/wire"
)

// Recoverable codec errors. Every malformed-input condition surfaces as
// one of these sentinels wrapped in a DecodeError or EncodeError;
// defective schema tables are programming errors and panic at init
// instead.
var (
	ErrNilMessage       = errors.New("sigma: nil message")
	ErrUnexpectedEnd    = errors.New("sigma: unexpected end of input")
	ErrInvalidEncoding  = errors.New("sigma: invalid encoding")
	ErrLengthMismatch   = errors.New("sigma: length mismatch")
	ErrChecksumMismatch = errors.New("sigma: checksum mismatch")
	ErrValueOutOfRange  = errors.New("sigma: value out of range")
)

// DecodeError reports where in the message malformed bytes were found.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("sigma: decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError reports the field whose value has no wire representation.
type EncodeError struct {
	Field string
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("sigma: encode %s: %v", e.Field, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// classifyWire maps the wire package's sentinels into the codec's error
// taxonomy. The mapping is total over wire's vocabulary so no failure
// domain is silently conflated with another.
func classifyWire(err error) error {
	switch {
	case errors.Is(err, wire.ErrShortBuffer):
		return ErrUnexpectedEnd
	case errors.Is(err, wire.ErrNonDigit),
		errors.Is(err, wire.ErrBadDigit),
		errors.Is(err, wire.ErrBadTagKind):
		return ErrInvalidEncoding
	case errors.Is(err, wire.ErrRange):
		return ErrValueOutOfRange
	case errors.Is(err, wire.ErrValueTooLong):
		return ErrLengthMismatch
	default:
		return err
	}
}
