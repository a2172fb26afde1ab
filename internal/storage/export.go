package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/existflow/paperclip/internal/workspace"
)

//go:embed schema/snapshot.schema.json
var snapshotSchema []byte

const schemaURL = "snapshot.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(snapshotSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

// SchemaError lists every schema violation found in an import
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "import does not match schema: " + strings.Join(e.Problems, "; ")
}

func (e *SchemaError) Unwrap() error { return ErrInvalidData }

// Export writes snap as indented JSON
func Export(w io.Writer, snap *workspace.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	return nil
}

// Import reads an exported document, validates it against the embedded JSON
// schema and decodes it. Structural checks on the trees happen later in
// workspace.Store.Restore.
func Import(r io.Reader) (*workspace.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import: %w", err)
	}
	if err := Validate(data); err != nil {
		return nil, err
	}

	var snap workspace.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return &snap, nil
}

// Validate checks a JSON document against the snapshot schema
func Validate(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("failed to compile snapshot schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if err := schema.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		se := &SchemaError{}
		collectSchemaErrors(se, ve)
		return se
	}
	return nil
}

func collectSchemaErrors(se *SchemaError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		se.Problems = append(se.Problems, fmt.Sprintf("%s: %s", loc, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(se, cause)
	}
}
