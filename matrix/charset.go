package matrix

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// ErrUnknownCharset is returned by LookupCharset for unsupported names.
var ErrUnknownCharset = errors.New("matrix: unknown charset")

// Transcode re-encodes the payload from UTF-8 into Charset before handing it
// to the wrapped Provider. QR byte mode defaults to ISO-8859-1 in many
// scanners, so Latin-1 payloads read more reliably when transcoded.
//
// If the text contains runes the charset cannot represent, the UTF-8 bytes
// are passed through unchanged unless Strict is set, in which case Encode
// fails with an *EncodingError.
type Transcode struct {
	Provider Provider
	Charset  encoding.Encoding
	Strict   bool
}

// Latin1 wraps p so payloads are sent as ISO-8859-1 where possible.
func Latin1(p Provider) Transcode {
	return Transcode{Provider: p, Charset: charmap.ISO8859_1}
}

// Encode implements Provider.
func (t Transcode) Encode(text string, level Level) (*Grid, error) {
	if t.Charset == nil {
		return t.Provider.Encode(text, level)
	}
	out, err := t.Charset.NewEncoder().String(text)
	if err != nil {
		if t.Strict {
			return nil, encodingError(text, level, err)
		}
		out = text
	}
	return t.Provider.Encode(out, level)
}

// LookupCharset resolves an IANA charset name such as "ISO-8859-1" or
// "Shift_JIS". "UTF-8" and the empty string resolve to nil, meaning no
// transcoding.
func LookupCharset(name string) (encoding.Encoding, error) {
	if name == "" {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: %q is not supported", ErrUnknownCharset, name)
	}
	if canonical, _ := ianaindex.IANA.Name(enc); canonical == "UTF-8" {
		return nil, nil
	}
	return enc, nil
}
