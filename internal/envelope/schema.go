package envelope

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaBytes []byte

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// envelopeSchema compiles the embedded schema once. The schema is static,
// so a compile failure is a build defect, not a runtime condition — it is
// still surfaced as an error so validation can report it.
func envelopeSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var doc any
		if err := json.Unmarshal(schemaBytes, &doc); err != nil {
			compileErr = fmt.Errorf("unmarshal envelope schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("envelope.json", doc); err != nil {
			compileErr = fmt.Errorf("add envelope schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("envelope.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compile envelope schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// validateSchema checks the marshaled envelope against the embedded JSON
// schema. Failures are reported as *ValidationError so both validation
// layers surface the same typed error.
func validateSchema(e *ResponseEnvelope) error {
	schema, err := envelopeSchema()
	if err != nil {
		return &ValidationError{Field: "schema", Reason: err.Error()}
	}

	data, err := json.Marshal(e)
	if err != nil {
		return &ValidationError{Field: "envelope", Reason: fmt.Sprintf("marshal: %v", err)}
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return &ValidationError{Field: "envelope", Reason: fmt.Sprintf("decode: %v", err)}
	}

	if err := schema.Validate(decoded); err != nil {
		return &ValidationError{Field: "envelope", Reason: err.Error()}
	}
	return nil
}
