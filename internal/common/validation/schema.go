package validation

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/claim_record.schema.json
var claimRecordSchema []byte

var (
	compileOnce    sync.Once
	compiledSchema *gojsonschema.Schema
	compileErr     error
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func claimSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(claimRecordSchema))
	})
	return compiledSchema, compileErr
}

// ValidateClaimRecord checks the outgoing payload against the ClaimRecord
// contract. doc is anything that marshals to JSON.
func ValidateClaimRecord(doc interface{}) (*ValidationResult, error) {
	schema, err := claimSchema()
	if err != nil {
		return nil, fmt.Errorf("compile claim schema: %w", err)
	}
	return validateWith(schema, gojsonschema.NewGoLoader(doc))
}

// ValidateClaimRecordJSON is ValidateClaimRecord for raw JSON input.
func ValidateClaimRecordJSON(data []byte) (*ValidationResult, error) {
	schema, err := claimSchema()
	if err != nil {
		return nil, fmt.Errorf("compile claim schema: %w", err)
	}
	return validateWith(schema, gojsonschema.NewBytesLoader(data))
}

func validateWith(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader) (*ValidationResult, error) {
	result, err := schema.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		// gojsonschema reports a missing property against its parent.
		if prop, ok := desc.Details()["property"].(string); ok && desc.Type() == "required" {
			if field == "(root)" {
				field = prop
			} else {
				field = field + "." + prop
			}
		}
		errs = append(errs, ValidationError{
			Field:   field,
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}

	return &ValidationResult{Valid: result.Valid(), Errors: errs}, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// Fields lists the failing field paths once each, in report order.
func (vr *ValidationResult) Fields() []string {
	seen := make(map[string]bool, len(vr.Errors))
	fields := make([]string, 0, len(vr.Errors))
	for _, err := range vr.Errors {
		if !seen[err.Field] {
			seen[err.Field] = true
			fields = append(fields, err.Field)
		}
	}
	return fields
}
