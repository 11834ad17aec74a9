package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	jsoncanonicalizer "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/roach88/runtest/internal/harness"
)

// Exit codes for runtest.
const (
	ExitSuccess      = 0 // Every checked field matched
	ExitFailure      = 1 // At least one field mismatched
	ExitCommandError = 2 // Harness fault (bad fixture, program not runnable, timeout, bad flags)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Anything that is not an ExitError is a harness fault, so it maps to
// ExitCommandError; only a mismatch report exits with ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // report payload
	Error  *CLIError   `json:"error,omitempty"` // failure summary
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`    // "E_MISMATCH"
	Message string `json:"message"` // human-readable message
}

// ReportData is the JSON payload for one run.
type ReportData struct {
	RunID      string         `json:"run_id"`
	Program    string         `json:"program"`
	Test       string         `json:"test"`
	Pass       bool           `json:"pass"`
	ReturnCode int            `json:"returncode"`
	DurationMS int64          `json:"duration_ms"`
	Mismatches []MismatchData `json:"mismatches"`
}

// MismatchData is one mismatch in JSON form. Byte values become strings.
type MismatchData struct {
	Field    string      `json:"field"`
	Expected interface{} `json:"expected"`
	Found    interface{} `json:"found"`
}

// OutputFormatter renders reports as colored text or canonical JSON.
type OutputFormatter struct {
	Format string
	Writer io.Writer

	// Color enables ANSI color on the PASS/FAIL tag.
	Color bool

	// MaxWidth truncates rendered mismatch values to this many display
	// cells. Zero disables truncation.
	MaxWidth int

	// NewRunID generates the JSON run_id. Defaults to a UUIDv7.
	NewRunID func() string
}

// Report writes the report in the configured format.
func (f *OutputFormatter) Report(report *harness.Report) error {
	if f.Format == "json" {
		return f.reportJSON(report)
	}
	return f.reportText(report)
}

func (f *OutputFormatter) reportText(report *harness.Report) error {
	tag := f.tag(report.Pass())

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[%s] %s %s\n", tag, filepath.Base(report.Program), filepath.Base(report.Fixture))
	for _, m := range report.Mismatches {
		fmt.Fprintf(&buf, "\t%s: expected %s, found %s\n",
			m.Field, f.truncate(harness.Repr(m.Expected)), f.truncate(harness.Repr(m.Found)))
	}

	_, err := f.Writer.Write(buf.Bytes())
	return err
}

func (f *OutputFormatter) tag(pass bool) string {
	attr, text := color.FgRed, " FAIL "
	if pass {
		attr, text = color.FgGreen, " PASS "
	}
	if !f.Color {
		return text
	}
	c := color.New(attr, color.Bold)
	c.EnableColor()
	return c.Sprint(text)
}

func (f *OutputFormatter) truncate(s string) string {
	if f.MaxWidth <= 0 {
		return s
	}
	return runewidth.Truncate(s, f.MaxWidth, "...")
}

func (f *OutputFormatter) reportJSON(report *harness.Report) error {
	newRunID := f.NewRunID
	if newRunID == nil {
		newRunID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}

	data := ReportData{
		RunID:      newRunID(),
		Program:    report.Program,
		Test:       report.Fixture,
		Pass:       report.Pass(),
		Mismatches: make([]MismatchData, 0, len(report.Mismatches)),
	}
	if inv := report.Invocation; inv != nil {
		data.ReturnCode = inv.ExitCode
		data.DurationMS = inv.Duration.Milliseconds()
	}
	for _, m := range report.Mismatches {
		data.Mismatches = append(data.Mismatches, MismatchData{
			Field:    m.Field,
			Expected: jsonValue(m.Expected),
			Found:    jsonValue(m.Found),
		})
	}

	response := CLIResponse{Status: "ok", Data: data}
	if !report.Pass() {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_MISMATCH",
			Message: fmt.Sprintf("%d field(s) mismatched", len(report.Mismatches)),
		}
	}

	raw, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return fmt.Errorf("failed to canonicalize report: %w", err)
	}

	_, err = fmt.Fprintf(f.Writer, "%s\n", canonical)
	return err
}

func jsonValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// writerIsTerminal reports whether w is a terminal.
func writerIsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
