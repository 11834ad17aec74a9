// Package fixture loads the YAML documents that describe one runtest case.
//
// # Fixture Format
//
// A fixture is a single YAML mapping. Every key is optional:
//
//	arguments: ["--version"]   # appended after the program path
//	stdin: "hello"             # fed to the program's standard input
//	returncode: 0              # expected exit code
//	stdout: "HELLO"            # expected standard output
//	stderr: ""                 # expected standard error
//
// A key that is absent is never checked. An empty stdout/stderr string is
// different from an absent one: it asserts that the stream contains nothing
// but whitespace. Keys the harness does not know about are ignored so
// fixtures can carry comments or metadata for other tools.
//
// # Validation
//
// Fixtures are checked against a CUE schema before decoding, so a typed
// mistake such as "stdout: 42" or "arguments: [1, 2]" is reported as a
// harness fault instead of being silently coerced to a string.
package fixture
