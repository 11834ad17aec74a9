package harness

import (
	"fmt"
	"strconv"
	"time"
)

// Checked field names, in report order.
const (
	FieldReturnCode = "returncode"
	FieldStdout     = "stdout"
	FieldStderr     = "stderr"
)

// Invocation is the observed outcome of running the program once.
type Invocation struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte

	// Duration is wall-clock time from start to exit. Reported, never compared.
	Duration time.Duration
}

// Mismatch records one checked field whose observed value differs from the
// fixture. Expected and Found hold an int for returncode and the normalized
// []byte for stdout/stderr.
type Mismatch struct {
	Field    string
	Expected any
	Found    any
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: expected %s, found %s", m.Field, Repr(m.Expected), Repr(m.Found))
}

// Repr renders a mismatch value so embedded whitespace and control
// characters stay visible.
func Repr(v any) string {
	switch val := v.(type) {
	case int:
		return strconv.Itoa(val)
	case []byte:
		return strconv.Quote(string(val))
	case string:
		return strconv.Quote(val)
	default:
		return fmt.Sprintf("%#v", val)
	}
}

// Report is the outcome of one fixture run.
type Report struct {
	// Program and Fixture are the paths that were run.
	Program string
	Fixture string

	Invocation *Invocation

	// Mismatches is ordered returncode, stdout, stderr. Empty on pass.
	Mismatches []Mismatch
}

// Pass reports whether every checked field matched.
func (r *Report) Pass() bool {
	return len(r.Mismatches) == 0
}
