package harness

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"

	"github.com/roach88/runtest/internal/fixture"
)

// Comparator checks an Invocation against a Fixture.
type Comparator struct {
	// Encoding converts expected strings to bytes before normalization.
	Encoding encoding.Encoding
}

// Compare returns the mismatches between f and inv, ordered returncode,
// stdout, stderr. Fields absent from f are skipped.
// The error is non-nil only when an expected string can't be encoded.
func (c *Comparator) Compare(f *fixture.Fixture, inv *Invocation) ([]Mismatch, error) {
	mismatches := []Mismatch{}

	if m := compareInt(FieldReturnCode, f.ReturnCode, inv.ExitCode); m != nil {
		mismatches = append(mismatches, *m)
	}

	streams := []struct {
		field    string
		expected *string
		found    []byte
	}{
		{FieldStdout, f.Stdout, inv.Stdout},
		{FieldStderr, f.Stderr, inv.Stderr},
	}
	for _, s := range streams {
		m, err := c.compareString(s.field, s.expected, s.found)
		if err != nil {
			return nil, err
		}
		if m != nil {
			mismatches = append(mismatches, *m)
		}
	}

	return mismatches, nil
}

func compareInt(field string, expected *int, found int) *Mismatch {
	if expected == nil || *expected == found {
		return nil
	}
	return &Mismatch{Field: field, Expected: *expected, Found: found}
}

func (c *Comparator) compareString(field string, expected *string, found []byte) (*Mismatch, error) {
	if expected == nil {
		return nil, nil
	}

	raw, err := encodeText(c.Encoding, *expected)
	if err != nil {
		return nil, fmt.Errorf("encoding expected %s: %w", field, err)
	}

	want := Normalize(raw)
	got := Normalize(found)
	if bytes.Equal(want, got) {
		return nil, nil
	}
	return &Mismatch{Field: field, Expected: want, Found: got}, nil
}
