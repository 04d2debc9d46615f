package qrtexture

import (
	"errors"

	intImage "github.com/gogpu/qrtexture/internal/image"
	"github.com/gogpu/qrtexture/matrix"
)

var (
	// ErrClosed is returned by Update on a closed Texture.
	ErrClosed = errors.New("qrtexture: texture closed")

	// ErrUnknownProperty is returned by Get and Set for names Properties
	// does not list.
	ErrUnknownProperty = errors.New("qrtexture: unknown property")

	// ErrInvalidValue is returned by Set when the value has the wrong type
	// or cannot be parsed.
	ErrInvalidValue = errors.New("qrtexture: invalid property value")

	// ErrInvalidColor is returned by ParseColor.
	ErrInvalidColor = errors.New("qrtexture: invalid color")

	// ErrTooLarge is reported by Err when the border makes the buffer wider
	// than MaxSide pixels.
	ErrTooLarge = intImage.ErrTooLarge
)

// MaxSide is the largest width or height of a published buffer.
const MaxSide = intImage.MaxDimension

// IsEncodingError reports whether err came from the module matrix provider
// rejecting the payload.
func IsEncodingError(err error) bool {
	return errors.Is(err, matrix.ErrEncoding)
}
