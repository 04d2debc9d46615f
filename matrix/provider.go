// Package matrix turns payload text into QR module grids.
//
// The symbol encoding itself (segment modes, error-correction codewords,
// masking, module placement) is delegated to third-party encoders. This
// package adapts them to a single Provider contract: a pure, synchronous
// function from (text, level) to an immutable Grid or an *EncodingError.
//
// Providers:
//   - RSC wraps rsc.io/qr (default; accepts empty text)
//   - Skip2 wraps github.com/skip2/go-qrcode (penalty-based mask selection)
//
// Wrappers:
//   - Transcode re-encodes the payload into another character set first
//   - Cached memoises grids by (text, level)
package matrix

import (
	"errors"
	"fmt"
)

// Errors returned by providers and grid constructors.
var (
	// ErrEncoding is matched by every *EncodingError.
	ErrEncoding = errors.New("matrix: encoding failed")

	// ErrInvalidLevel is returned for levels outside Low..High.
	ErrInvalidLevel = errors.New("matrix: invalid error-correction level")

	// ErrInvalidGrid is returned when grid input is not a non-empty square.
	ErrInvalidGrid = errors.New("matrix: invalid grid")
)

// Provider encodes text into a module grid.
//
// Implementations must be pure with respect to their callers: no shared
// mutable state is observable, and equal inputs give equal grids.
type Provider interface {
	Encode(text string, level Level) (*Grid, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(text string, level Level) (*Grid, error)

// Encode calls f(text, level).
func (f ProviderFunc) Encode(text string, level Level) (*Grid, error) {
	return f(text, level)
}

// EncodingError reports that a payload could not be represented as a QR
// symbol at the requested level, typically because it is too long.
type EncodingError struct {
	Level  Level // requested error-correction level
	Length int   // payload length in bytes
	Err    error // encoder-specific cause
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("matrix: cannot encode %d bytes at level %s: %v", e.Length, e.Level, e.Err)
}

// Unwrap returns the encoder-specific cause.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrEncoding) true for every EncodingError.
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

func encodingError(text string, level Level, err error) *EncodingError {
	return &EncodingError{Level: level, Length: len(text), Err: err}
}
