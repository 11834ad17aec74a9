package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/runtest/internal/harness"
	"github.com/roach88/runtest/internal/testutil"
)

func fixedRunID() string { return "00000000-0000-0000-0000-000000000001" }

func passingReport() *harness.Report {
	return &harness.Report{
		Program:    "/opt/bin/prog",
		Fixture:    "/tests/upper.yaml",
		Invocation: &harness.Invocation{ExitCode: 0, Stdout: []byte("HELLO\n")},
		Mismatches: []harness.Mismatch{},
	}
}

func failingReport() *harness.Report {
	return &harness.Report{
		Program:    "/opt/bin/prog",
		Fixture:    "/tests/upper.yaml",
		Invocation: &harness.Invocation{ExitCode: 1, Duration: 1500 * time.Millisecond},
		Mismatches: []harness.Mismatch{
			{Field: harness.FieldReturnCode, Expected: 0, Found: 1},
			{Field: harness.FieldStdout, Expected: []byte("foo bar"), Found: []byte("foo baz")},
		},
	}
}

func TestOutputFormatter_TextPass_Golden(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Report(passingReport()))
	testutil.AssertGolden(t, "text_pass", buf.Bytes())
}

func TestOutputFormatter_TextFail_Golden(t *testing.T) {
	report := failingReport()
	report.Mismatches = append(report.Mismatches, harness.Mismatch{
		Field:    harness.FieldStderr,
		Expected: []byte{},
		Found:    []byte("warning: \x1b"),
	})

	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Report(report))
	testutil.AssertGolden(t, "text_fail", buf.Bytes())
}

func TestOutputFormatter_JSONFail_Golden(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf, NewRunID: fixedRunID}

	require.NoError(t, formatter.Report(failingReport()))
	testutil.AssertGolden(t, "json_fail", buf.Bytes())
}

func TestOutputFormatter_JSONPass(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Report(passingReport()))

	var resp struct {
		Status string     `json:"status"`
		Data   ReportData `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.True(t, resp.Data.Pass)
	assert.NotNil(t, resp.Data.Mismatches)
	assert.Empty(t, resp.Data.Mismatches)

	id, err := uuid.Parse(resp.Data.RunID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestOutputFormatter_Color(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Color: true}

	require.NoError(t, formatter.Report(passingReport()))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), " PASS ")
	assert.Contains(t, buf.String(), "] prog upper.yaml\n")
}

func TestOutputFormatter_MaxWidth(t *testing.T) {
	report := &harness.Report{
		Program: "/opt/bin/prog",
		Fixture: "/tests/long.yaml",
		Mismatches: []harness.Mismatch{
			{Field: harness.FieldStdout, Expected: []byte("abcdefghijklmnop"), Found: []byte("x")},
		},
	}

	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, MaxWidth: 10}

	require.NoError(t, formatter.Report(report))
	assert.Contains(t, buf.String(), `expected "abcdef..., found "x"`)
	assert.NotContains(t, buf.String(), "klm")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "mismatch")))
	assert.Equal(t, ExitCommandError, GetExitCode(errors.New("accepts 2 arg(s), received 0")))

	wrapped := WrapExitError(ExitCommandError, "harness fault", errors.New("boom"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
	assert.Equal(t, "harness fault: boom", wrapped.Error())
}

func TestUseColor(t *testing.T) {
	buf := &bytes.Buffer{}
	assert.True(t, useColor("always", buf))
	assert.False(t, useColor("never", buf))
	assert.False(t, useColor("auto", buf))
}
