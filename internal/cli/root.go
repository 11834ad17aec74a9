package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/runtest/internal/config"
	"github.com/roach88/runtest/internal/harness"
)

// RootOptions holds the flags for runtest.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Color      string // "auto" | "always" | "never"
	Encoding   string
	Timeout    time.Duration
	MaxWidth   int
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidColors defines the allowed color modes.
var ValidColors = []string{"auto", "always", "never"}

// Execute runs runtest with os.Args and returns the process exit code.
// Harness faults are printed to stderr; mismatches have already been
// reported on stdout.
func Execute(ctx context.Context) int {
	cmd := NewRootCommand()
	err := cmd.ExecuteContext(ctx)
	code := GetExitCode(err)
	if code == ExitCommandError {
		fmt.Fprintf(cmd.ErrOrStderr(), "runtest: %v\n", err)
	}
	return code
}

// NewRootCommand creates the runtest command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "runtest <program> <test>",
		Short: "Run a program against a YAML fixture",
		Long: `Run a program once and compare its exit code, stdout and stderr
against the expectations in a YAML fixture.

The fixture may set arguments, stdin, returncode, stdout and stderr; every key
is optional and absent keys are not checked. stdout and stderr are compared
after collapsing whitespace runs, so line endings and trailing newlines do not
matter.

Exit codes:
  0 - All checked fields matched
  1 - At least one field mismatched
  2 - Harness fault (unreadable fixture, program not runnable, timeout)

Examples:
  runtest ./build/prog tests/version.yaml
  runtest --timeout 10s ./build/prog tests/hang.yaml
  runtest --format json ./build/prog tests/upper.yaml`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, opts); err != nil {
				return err
			}
			return runTest(cmd, opts, resolvePath(args[0]), resolvePath(args[1]))
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "log debug events to stderr")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.Color, "color", "auto", "color the PASS/FAIL tag (auto|always|never)")
	flags.StringVar(&opts.Encoding, "encoding", harness.DefaultEncoding, "text encoding for stdin and expected output")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "kill the program after this long (0 waits forever)")
	flags.IntVar(&opts.MaxWidth, "max-width", 0, "truncate mismatch values to this many columns (0 disables)")
	flags.StringVar(&opts.ConfigPath, "config", "", "TOML config file (default $"+config.EnvVar+")")

	return cmd
}

// applyConfig fills every flag the user did not set from the config file.
func applyConfig(cmd *cobra.Command, opts *RootOptions) error {
	path := opts.ConfigPath
	if path == "" {
		path = os.Getenv(config.EnvVar)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("format") {
		opts.Format = cfg.Format
	}
	if !flags.Changed("color") {
		opts.Color = cfg.Color
	}
	if !flags.Changed("encoding") {
		opts.Encoding = cfg.Encoding
	}
	if !flags.Changed("max-width") {
		opts.MaxWidth = cfg.MaxWidth
	}
	if !flags.Changed("timeout") {
		// Validated by config.Load.
		opts.Timeout, _ = cfg.TimeoutDuration()
	}

	if !isOneOf(opts.Format, ValidFormats) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
	}
	if !isOneOf(opts.Color, ValidColors) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid color %q: must be one of %v", opts.Color, ValidColors))
	}
	if opts.Timeout < 0 {
		return NewExitError(ExitCommandError, "timeout must not be negative")
	}
	if opts.MaxWidth < 0 {
		return NewExitError(ExitCommandError, "max-width must not be negative")
	}
	return nil
}

func runTest(cmd *cobra.Command, opts *RootOptions, program, test string) error {
	w := cmd.OutOrStdout()

	runner, err := harness.NewRunner(harness.Options{
		Timeout:  opts.Timeout,
		Encoding: opts.Encoding,
		Logger:   newLogger(cmd.ErrOrStderr(), opts.Verbose),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}

	report, err := runner.Run(cmd.Context(), program, test)
	if err != nil {
		return WrapExitError(ExitCommandError, "harness fault", err)
	}

	formatter := &OutputFormatter{
		Format:   opts.Format,
		Writer:   w,
		Color:    useColor(opts.Color, w),
		MaxWidth: opts.MaxWidth,
	}
	if err := formatter.Report(report); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}

	if !report.Pass() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d field(s) mismatched", len(report.Mismatches)))
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return os.Getenv("NO_COLOR") == "" && writerIsTerminal(w)
	}
}

// resolvePath makes p absolute and resolves symlinks. When the target does
// not exist the absolute path is kept so the later open or exec reports it.
func resolvePath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

func isOneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
