package prompts

import (
	"net/http"

	"github.com/JaimeStill/forecourt/pkg/openapi"
)

type docs struct {
	List         *openapi.Operation
	Create       *openapi.Operation
	Search       *openapi.Operation
	Instructions *openapi.Operation
	Contract     *openapi.Operation
	Find         *openapi.Operation
	Update       *openapi.Operation
	Delete       *openapi.Operation
	Activate     *openapi.Operation
	Deactivate   *openapi.Operation
}

var idParam = []*openapi.Parameter{openapi.PathParam("id", "Prompt ID")}

var apiDocs = docs{
	List: &openapi.Operation{
		Summary: "List extraction prompts",
		Parameters: append(openapi.PageParams(),
			openapi.QueryParam("name", "string", "Filter by name (contains)", false),
			openapi.QueryParam("active", "boolean", "Filter by active flag", false),
		),
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Page of prompts", "PageResult"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create an inactive prompt",
		RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
		Responses: map[int]*openapi.Response{
			http.StatusCreated:    openapi.ResponseJSON("Created prompt", "Prompt"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			http.StatusConflict:   openapi.ResponseRef("Conflict"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search prompts with a JSON body",
		Description: "Accepts the page request fields and the list filters in one body.",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{Type: "object"}},
			},
		},
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Page of prompts", "PageResult"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
		},
	},
	Instructions: &openapi.Operation{
		Summary:     "Get the instructions extraction currently uses",
		Description: "The active prompt's instructions, or the configured defaults when none is active.",
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Effective instructions", "PromptContent"),
		},
	},
	Contract: &openapi.Operation{
		Summary: "Get the fixed response format appended to every prompt",
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Response contract", "PromptContent"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get a prompt",
		Parameters: idParam,
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Prompt", "Prompt"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			http.StatusNotFound:   openapi.ResponseRef("NotFound"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Replace a prompt",
		Parameters:  idParam,
		RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Updated prompt", "Prompt"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			http.StatusNotFound:   openapi.ResponseRef("NotFound"),
			http.StatusConflict:   openapi.ResponseRef("Conflict"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete a prompt",
		Parameters: idParam,
		Responses: map[int]*openapi.Response{
			http.StatusNoContent: {Description: "Deleted"},
			http.StatusNotFound:  openapi.ResponseRef("NotFound"),
		},
	},
	Activate: &openapi.Operation{
		Summary:     "Make a prompt the active override",
		Description: "Any previously active prompt is deactivated in the same transaction.",
		Parameters:  idParam,
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Activated prompt", "Prompt"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			http.StatusNotFound:   openapi.ResponseRef("NotFound"),
		},
	},
	Deactivate: &openapi.Operation{
		Summary:    "Clear a prompt's active flag",
		Parameters: idParam,
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Deactivated prompt", "Prompt"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			http.StatusNotFound:   openapi.ResponseRef("NotFound"),
		},
	},
}

func schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
				"active":       {Type: "boolean"},
				"created_at":   {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"PromptCommand": {
			Type:     "object",
			Required: []string{"name", "instructions"},
			Properties: map[string]*openapi.Schema{
				"name":         {Type: "string"},
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
			},
		},
		"PromptContent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"content": {Type: "string"},
			},
		},
	}
}
