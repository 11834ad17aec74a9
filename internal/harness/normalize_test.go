package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only_whitespace", " \t\r\n\v\f ", ""},
		{"single_token", "HELLO", "HELLO"},
		{"trailing_newline", "HELLO\n", "HELLO"},
		{"leading_and_trailing", "  a b  ", "a b"},
		{"internal_runs", "a  b\t\tc\n\nd", "a b c d"},
		{"crlf", "line one\r\nline two\r\n", "line one line two"},
		{"blank_lines", "foo\n\nbar  \n", "foo bar"},
		{"vertical_tab_and_form_feed", "a\vb\fc", "a b c"},
		{"nbsp_is_not_whitespace", "a\u00a0b", "a\u00a0b"},
		{"invalid_utf8_kept", "\xff \xfe", "\xff \xfe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Normalize([]byte(tt.in))))
		})
	}
}

func TestNormalize_EquivalentStrings(t *testing.T) {
	pairs := [][2]string{
		{"a  b\n", "a b"},
		{"foo\n\nbar  \n", "foo bar"},
		{"\tx\ty\t", "x y"},
		{"1\r\n2\r\n3", "1\n2\n3\n"},
	}

	for _, p := range pairs {
		assert.Equal(t, Normalize([]byte(p[0])), Normalize([]byte(p[1])), "%q vs %q", p[0], p[1])
	}
}

func TestNormalize_TokenDifferencesSurvive(t *testing.T) {
	assert.NotEqual(t, Normalize([]byte("foo bar")), Normalize([]byte("foobar")))
	assert.NotEqual(t, Normalize([]byte("a b")), Normalize([]byte("b a")))
	assert.NotEqual(t, Normalize([]byte("HELLO")), Normalize([]byte("hello")))
}
