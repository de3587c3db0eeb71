package gemini

import (
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"
)

// convSchema converts a JSON Schema into the Gemini response-schema form.
// Property ordering is pinned so the model emits keys deterministically.
func convSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}

	enums := make([]string, 0, len(schema.Enum))
	for _, v := range schema.Enum {
		enums = append(enums, fmt.Sprintf("%v", v))
	}

	gs := genai.Schema{
		Format:      schema.Format,
		Description: schema.Description,
		Enum:        enums,
		Items:       convSchema(schema.Items),
		Required:    schema.Required,
	}

	if n := len(schema.Properties); n > 0 {
		gs.Properties = make(map[string]*genai.Schema, n)
		order := make([]string, 0, n)
		for k, prop := range schema.Properties {
			gs.Properties[k] = convSchema(prop)
			order = append(order, k)
		}
		sort.Strings(order)
		gs.PropertyOrdering = orderRequiredFirst(order, schema.Required)
	}

	switch schema.Type {
	case "object":
		gs.Type = genai.TypeObject
	case "array":
		gs.Type = genai.TypeArray
	case "string":
		gs.Type = genai.TypeString
	case "number":
		gs.Type = genai.TypeNumber
	case "integer":
		gs.Type = genai.TypeInteger
	case "boolean":
		gs.Type = genai.TypeBoolean
	}
	return &gs
}

// orderRequiredFirst moves required keys to the front, keeping their
// declared order, then the rest alphabetically.
func orderRequiredFirst(sorted, required []string) []string {
	seen := make(map[string]bool, len(required))
	out := make([]string, 0, len(sorted))
	for _, r := range required {
		for _, k := range sorted {
			if k == r && !seen[k] {
				out = append(out, k)
				seen[k] = true
			}
		}
	}
	for _, k := range sorted {
		if !seen[k] {
			out = append(out, k)
		}
	}
	return out
}
