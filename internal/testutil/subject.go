package testutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"testing"
	"time"
)

// SubjectEnv switches a test binary into subject mode.
const SubjectEnv = "RUNTEST_SUBJECT"

// RunSubjectIfRequested turns the current test binary into a scriptable
// program under test when SubjectEnv is set. Call it first thing in TestMain:
//
//	func TestMain(m *testing.M) {
//	    testutil.RunSubjectIfRequested()
//	    os.Exit(m.Run())
//	}
//
// In subject mode the process never returns from this call.
func RunSubjectIfRequested() {
	if os.Getenv(SubjectEnv) != "1" {
		return
	}
	os.Exit(Subject(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// SubjectProgram returns the path of the running test binary and arranges
// for children it spawns to run in subject mode.
func SubjectProgram(t *testing.T) string {
	t.Helper()
	t.Setenv(SubjectEnv, "1")

	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("locate test binary: %v", err)
	}
	return exe
}

// Subject interprets args as a sequence of steps and returns the exit code.
//
//	version        print "subject 1.0.0\n"
//	upper          copy stdin to stdout, upper-cased
//	cat            copy stdin to stdout
//	print <text>   write text to stdout
//	warn <text>    write text to stderr
//	sleep <dur>    sleep for a Go duration
//	exit <code>    stop with the given exit code
//
// Unknown steps write a diagnostic and exit 127.
func Subject(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	for i := 0; i < len(args); i++ {
		step := args[i]
		operand := func() (string, bool) {
			if i+1 >= len(args) {
				fmt.Fprintf(stderr, "subject: %s needs an operand\n", step)
				return "", false
			}
			i++
			return args[i], true
		}

		switch step {
		case "version":
			fmt.Fprintln(stdout, "subject 1.0.0")
		case "upper":
			data, err := io.ReadAll(stdin)
			if err != nil {
				fmt.Fprintf(stderr, "subject: %v\n", err)
				return 126
			}
			stdout.Write(bytes.ToUpper(data))
		case "cat":
			if _, err := io.Copy(stdout, stdin); err != nil {
				fmt.Fprintf(stderr, "subject: %v\n", err)
				return 126
			}
		case "print", "warn":
			text, ok := operand()
			if !ok {
				return 127
			}
			w := stdout
			if step == "warn" {
				w = stderr
			}
			io.WriteString(w, text)
		case "sleep":
			raw, ok := operand()
			if !ok {
				return 127
			}
			d, err := time.ParseDuration(raw)
			if err != nil {
				fmt.Fprintf(stderr, "subject: %v\n", err)
				return 127
			}
			time.Sleep(d)
		case "exit":
			raw, ok := operand()
			if !ok {
				return 127
			}
			code, err := strconv.Atoi(raw)
			if err != nil {
				fmt.Fprintf(stderr, "subject: %v\n", err)
				return 127
			}
			return code
		default:
			fmt.Fprintf(stderr, "subject: unknown step %q\n", step)
			return 127
		}
	}
	return 0
}
