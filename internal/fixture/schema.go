package fixture

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// ErrSchema indicates a fixture key holds a value of the wrong type.
var ErrSchema = errors.New("fixture does not match schema")

// schemaSource types the keys the harness reads. The struct stays open so
// unknown keys pass through.
const schemaSource = `
#Fixture: {
	arguments?:  [...string]
	stdin?:      string
	returncode?: int
	stdout?:     string
	stderr?:     string
	...
}
`

// Validate checks raw fixture YAML against the fixture schema.
func Validate(name string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource).LookupPath(cue.ParsePath("#Fixture"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling fixture schema: %w", err)
	}

	file, err := cueyaml.Extract(name, data)
	if err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return fmt.Errorf("building fixture value: %w", err)
	}

	if err := schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrSchema, cueerrors.Details(err, nil))
	}
	return nil
}
