package fixture

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmpty indicates the fixture file holds no YAML document.
	ErrEmpty = errors.New("fixture is empty")
	// ErrNotMapping indicates the top-level document is not a mapping.
	ErrNotMapping = errors.New("fixture must be a YAML mapping")
)

// Fixture describes one invocation of the program under test and the
// outcome it is expected to produce.
//
// Optional scalars are pointers: nil means "don't care", which is distinct
// from expecting a zero value.
type Fixture struct {
	// Arguments are passed to the program verbatim, in order.
	Arguments []string `yaml:"arguments"`

	// Stdin is written to the program's standard input. Nil means no input.
	Stdin *string `yaml:"stdin"`

	// ReturnCode is the expected exit code.
	ReturnCode *int `yaml:"returncode"`

	// Stdout is the expected standard output, compared after whitespace
	// normalization.
	Stdout *string `yaml:"stdout"`

	// Stderr is the expected standard error, compared after whitespace
	// normalization.
	Stderr *string `yaml:"stderr"`
}

// Input returns the stdin text, or "" when the fixture has none.
func (f *Fixture) Input() string {
	if f.Stdin == nil {
		return ""
	}
	return *f.Stdin
}

// Load reads and parses a fixture file.
// Returns an error if the file can't be read, is not valid YAML,
// is not a mapping, or fails schema validation.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	f, err := Parse(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes fixture YAML. The name is only used in diagnostics.
func Parse(name string, data []byte) (*Fixture, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, ErrEmpty
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w (line %d)", ErrNotMapping, root.Line)
	}

	if err := Validate(name, data); err != nil {
		return nil, err
	}

	// Unknown keys are allowed, so no KnownFields here.
	var f Fixture
	if err := root.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return &f, nil
}
