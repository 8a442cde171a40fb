package identify

import "github.com/JaimeStill/forecourt/pkg/openapi"

// Schemas returns the OpenAPI component schemas for the identification types.
func Schemas() map[string]*openapi.Schema {
	text := func(desc string) *openapi.Schema {
		return &openapi.Schema{Type: "string", Description: desc}
	}

	return map[string]*openapi.Schema{
		"Descriptor": {
			Type:        "object",
			Description: "Vehicle mention extracted from one chat message",
			Properties: map[string]*openapi.Schema{
				"make":                text("Manufacturer"),
				"model":               text("Model name"),
				"badge":               text("Trim badge"),
				"rego":                text("Registration plate, any punctuation"),
				"description":         text("Free text such as colour or body style"),
				"location":            text("Where the car was seen"),
				"rego_low_confidence": {Type: "boolean", Description: "Rego came from an unreliable source such as photo text"},
			},
		},
		"Record": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"make":        {Type: "string"},
				"model":       {Type: "string"},
				"badge":       {Type: "string"},
				"rego":        {Type: "string"},
				"description": {Type: "string"},
				"location":    {Type: "string"},
			},
		},
		"Criteria": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"all": {Type: "array", Items: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"field": {Type: "string"},
						"value": {Type: "string"},
					},
				}},
				"words": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"Step": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"stage":    {Type: "string"},
				"criteria": openapi.SchemaRef("Criteria"),
				"matches":  {Type: "integer"},
				"decision": {Type: "string"},
			},
		},
		"Outcome": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status": {Type: "string", Enum: []any{"not_found", "found", "multiple_found"}},
				"record": openapi.SchemaRef("Record"),
				"stage":  {Type: "string", Description: "Stage that decided the outcome"},
				"trace":  openapi.ArrayOf("Step"),
			},
		},
	}
}
