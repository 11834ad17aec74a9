package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/runtest/internal/fixture"
)

// Options configures a Runner.
type Options struct {
	// Timeout bounds each program run. Zero waits indefinitely.
	Timeout time.Duration

	// Encoding is the label of the text encoding for stdin and expected
	// output. Empty selects UTF-8.
	Encoding string

	// Logger receives debug events. Nil discards them.
	Logger *slog.Logger
}

// Runner loads fixtures, runs the program under test and compares results.
type Runner struct {
	executor   *Executor
	comparator *Comparator
	logger     *slog.Logger
}

// NewRunner builds a Runner. Fails only on an unknown encoding.
func NewRunner(opts Options) (*Runner, error) {
	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Runner{
		executor:   &Executor{Timeout: opts.Timeout},
		comparator: &Comparator{Encoding: enc},
		logger:     logger,
	}, nil
}

// Run loads the fixture at fixturePath, runs program once and returns the
// report. Errors are harness faults; mismatches are carried in the Report.
func (r *Runner) Run(ctx context.Context, program, fixturePath string) (*Report, error) {
	f, err := fixture.Load(fixturePath)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("fixture loaded", "path", fixturePath, "arguments", len(f.Arguments))

	return r.RunFixture(ctx, program, fixturePath, f)
}

// RunFixture is Run for a fixture that is already in memory. fixturePath is
// only recorded in the report.
func (r *Runner) RunFixture(ctx context.Context, program, fixturePath string, f *fixture.Fixture) (*Report, error) {
	input, err := encodeText(r.comparator.Encoding, f.Input())
	if err != nil {
		return nil, fmt.Errorf("encoding stdin: %w", err)
	}

	argv := Command(program, f)
	r.logger.Debug("running program", "argv", argv, "stdin_bytes", len(input))

	inv, err := r.executor.Execute(ctx, argv, input)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("program exited",
		"exit_code", inv.ExitCode,
		"stdout_bytes", len(inv.Stdout),
		"stderr_bytes", len(inv.Stderr),
		"duration", inv.Duration,
	)

	mismatches, err := r.comparator.Compare(f, inv)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("comparison finished", "mismatches", len(mismatches))

	return &Report{
		Program:    program,
		Fixture:    fixturePath,
		Invocation: inv,
		Mismatches: mismatches,
	}, nil
}

// Command builds the argv for one run: the program followed by the
// fixture's arguments, unmodified.
func Command(program string, f *fixture.Fixture) []string {
	argv := make([]string, 0, 1+len(f.Arguments))
	argv = append(argv, program)
	return append(argv, f.Arguments...)
}
