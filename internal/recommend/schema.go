package recommend

import (
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

func str() *jsonschema.Schema { return &jsonschema.Schema{Type: "string"} }

// ResponseSchema describes the only accepted response shape. The same
// schema is sent to the model and used to validate what comes back.
func ResponseSchema() *jsonschema.Schema {
	scheme := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":          str(),
			"name":        str(),
			"department":  str(),
			"description": str(),
			"eligibilityCriteria": {
				Type:  "array",
				Items: str(),
			},
			"benefits":           str(),
			"applicationProcess": str(),
			"link":               str(),
		},
		Required: []string{"id", "name", "description", "benefits", "applicationProcess"},
	}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"schemes": {
				Type:  "array",
				Items: scheme,
			},
			"summary": str(),
		},
		Required: []string{"schemes", "summary"},
	}
}

var (
	resolveOnce sync.Once
	resolved    *jsonschema.Resolved
	resolveErr  error
)

// resolvedSchema returns the validator for ResponseSchema.
func resolvedSchema() (*jsonschema.Resolved, error) {
	resolveOnce.Do(func() {
		resolved, resolveErr = ResponseSchema().Resolve(nil)
	})
	return resolved, resolveErr
}
