package openapi

import "maps"

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}

// NewComponents creates Components with shared schemas and error responses.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
			"PageResult": {
				Type: "object",
				Properties: map[string]*Schema{
					"data":        {Type: "array", Items: &Schema{Type: "object"}},
					"total":       {Type: "integer", Description: "Total matching rows"},
					"page":        {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size":   {Type: "integer", Description: "Results per page", Example: 20},
					"total_pages": {Type: "integer"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":         errorResponse("Invalid request"),
			"NotFound":           errorResponse("Resource not found"),
			"Conflict":           errorResponse("Request conflicts with the resource state"),
			"PayloadTooLarge":    errorResponse("Request body exceeds the configured limit"),
			"ServiceUnavailable": errorResponse("Dependency disabled or shutting down"),
		},
	}
}

// PageParams returns the shared page, page_size, search, and sort query parameters.
func PageParams() []*Parameter {
	return []*Parameter{
		QueryParam("page", "integer", "Page number (1-indexed)", false),
		QueryParam("page_size", "integer", "Results per page", false),
		QueryParam("search", "string", "Search query", false),
		QueryParam("sort", "string", "Comma-separated sort fields. Prefix with - for descending. Example: make,-created_at", false),
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
