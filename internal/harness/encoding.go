package harness

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is used for stdin and expected strings unless configured.
const DefaultEncoding = "utf-8"

// ErrUnknownEncoding indicates an encoding name that can't be resolved.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// LookupEncoding resolves a WHATWG encoding label such as "utf-8",
// "latin1" or "shift_jis". An empty name selects UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

// encodeText converts fixture text into the bytes the program sees.
func encodeText(enc encoding.Encoding, s string) ([]byte, error) {
	if enc == nil {
		enc = unicode.UTF8
	}
	return enc.NewEncoder().Bytes([]byte(s))
}
