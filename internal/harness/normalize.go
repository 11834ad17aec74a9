package harness

import "bytes"

var space = []byte(" ")

// Normalize collapses every run of ASCII whitespace to a single space and
// drops leading and trailing whitespace. Non-ASCII bytes are left alone,
// including Unicode spaces such as U+00A0.
func Normalize(b []byte) []byte {
	return bytes.Join(bytes.FieldsFunc(b, isASCIISpace), space)
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
