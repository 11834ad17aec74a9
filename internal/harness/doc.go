// Package harness runs a program under test once and checks its outcome
// against a fixture.
//
// # Execution
//
// The command line is the program path followed by the fixture's arguments,
// passed verbatim with no shell in between. The fixture's stdin text is
// encoded (UTF-8 unless configured otherwise) and written to the child's
// standard input. Standard output and standard error are captured as raw
// bytes. The child is always waited on before comparison begins.
//
// # Comparison
//
// Three fields are checked, always in this order:
//
//   - returncode: exact integer equality
//   - stdout: equality after whitespace normalization
//   - stderr: equality after whitespace normalization
//
// Normalization splits on runs of ASCII whitespace and rejoins the tokens
// with single spaces, so line endings, indentation and trailing newlines
// never cause a mismatch; only the sequence of tokens matters.
//
// A field absent from the fixture is never compared. Every field is checked
// even when an earlier one mismatched, so a Report is always complete.
//
// # Faults
//
// A Report describes what the program did. Problems with the test setup
// itself (an unreadable fixture, a program that cannot be started, a run
// that exceeds the timeout) are returned as errors instead, and never as
// mismatches.
//
// # Usage
//
//	runner, err := harness.NewRunner(harness.Options{Timeout: 10 * time.Second})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := runner.Run(ctx, "/usr/local/bin/prog", "testdata/version.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !report.Pass() {
//	    for _, m := range report.Mismatches {
//	        log.Println(m)
//	    }
//	}
package harness
