package space

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	sx "github.com/branched-services/go-sx"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RecordSchemaURL identifies the JSON schema of deployment records.
const RecordSchemaURL = "https://github.com/branched-services/go-sx/schema/deployment-record.schema.json"

//go:embed schema/deployment-record.schema.json
var recordSchemaJSON []byte

var (
	recordSchemaOnce sync.Once
	recordSchema     *jsonschema.Schema
	recordSchemaErr  error
)

// RecordSchema returns the embedded JSON schema document.
func RecordSchema() []byte {
	return bytes.Clone(recordSchemaJSON)
}

func compiledRecordSchema() (*jsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(RecordSchemaURL, bytes.NewReader(recordSchemaJSON)); err != nil {
			recordSchemaErr = err
			return
		}
		recordSchema, recordSchemaErr = compiler.Compile(RecordSchemaURL)
	})
	return recordSchema, recordSchemaErr
}

// ValidateRecord checks a serialized DeploymentRecord against the record
// schema. Consumers of the deployment files rely on this shape.
func ValidateRecord(data []byte) error {
	schema, err := compiledRecordSchema()
	if err != nil {
		return fmt.Errorf("space: compile record schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &sx.SchemaMismatchError{Field: "record", Err: err}
	}
	if err := schema.Validate(doc); err != nil {
		return &sx.SchemaMismatchError{Field: "record", Err: err}
	}
	return nil
}
