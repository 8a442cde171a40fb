package intake

import (
	"net/http"

	"github.com/JaimeStill/forecourt/pkg/openapi"
)

type docs struct {
	Identify           *openapi.Operation
	Submit             *openapi.Operation
	ProcessDescriptors *openapi.Operation
}

var apiDocs = docs{
	Identify: &openapi.Operation{
		Summary:     "Dry-run identification of one descriptor",
		Description: "Returns the outcome with its trace. Nothing is recorded or changed.",
		RequestBody: openapi.RequestBodyJSON("Descriptor", true),
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Outcome and rendered trace", "IdentifyResponse"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
		},
	},
	Submit: &openapi.Operation{
		Summary:     "Queue a chat message",
		Description: "Messages of one source are combined over the debounce window, extracted, and processed.",
		RequestBody: openapi.RequestBodyJSON("Message", true),
		Responses: map[int]*openapi.Response{
			http.StatusAccepted:           openapi.ResponseJSON("Message queued", "Queued"),
			http.StatusBadRequest:         openapi.ResponseRef("BadRequest"),
			http.StatusServiceUnavailable: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	ProcessDescriptors: &openapi.Operation{
		Summary:     "Process pre-extracted descriptors",
		Description: "Identifies, records, and applies each descriptor. Results keep the request order.",
		RequestBody: openapi.RequestBodyJSON("DescriptorsRequest", true),
		Responses: map[int]*openapi.Response{
			http.StatusOK: {
				Description: "One result per descriptor",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: openapi.ArrayOf("Result")},
				},
			},
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
		},
	},
}

func schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Message": {
			Type:     "object",
			Required: []string{"source"},
			Properties: map[string]*openapi.Schema{
				"source":     {Type: "string", Description: "Chat the message arrived on"},
				"text":       {Type: "string"},
				"photo_text": {Type: "array", Items: &openapi.Schema{Type: "string"}, Description: "Text read from attached photos"},
			},
		},
		"Queued": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status": {Type: "string", Example: "queued"},
				"source": {Type: "string"},
			},
		},
		"DescriptorsRequest": {
			Type:     "object",
			Required: []string{"source", "descriptors"},
			Properties: map[string]*openapi.Schema{
				"source":      {Type: "string"},
				"descriptors": openapi.ArrayOf("Descriptor"),
			},
		},
		"Result": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"source":          {Type: "string"},
				"descriptor":      openapi.SchemaRef("Descriptor"),
				"outcome":         openapi.SchemaRef("Outcome"),
				"action":          {Type: "string", Enum: []any{ActionSighting, ActionCreated, ActionQueued}},
				"car_id":          {Type: "string", Format: "uuid"},
				"verification_id": {Type: "string", Format: "uuid"},
			},
		},
		"IdentifyResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status":      {Type: "string", Enum: []any{"not_found", "found", "multiple_found"}},
				"record":      openapi.SchemaRef("Record"),
				"stage":       {Type: "string"},
				"trace":       openapi.ArrayOf("Step"),
				"explanation": {Type: "string", Description: "Trace rendered one step per line"},
			},
		},
	}
}
