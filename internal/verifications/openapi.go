package verifications

import (
	"net/http"

	"github.com/JaimeStill/forecourt/pkg/openapi"
)

type docs struct {
	List    *openapi.Operation
	Find    *openapi.Operation
	Resolve *openapi.Operation
	Dismiss *openapi.Operation
}

var idParam = []*openapi.Parameter{openapi.PathParam("id", "Verification ID")}

var apiDocs = docs{
	List: &openapi.Operation{
		Summary: "List queued verifications, oldest first",
		Parameters: append(openapi.PageParams(),
			openapi.QueryParam("status", "string", "pending, resolved, or dismissed", false),
			openapi.QueryParam("reason", "string", "not_found or multiple_found", false),
			openapi.QueryParam("source", "string", "Chat the descriptor came from", false),
		),
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Page of verifications", "PageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get a verification",
		Parameters: idParam,
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Verification", "Verification"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			http.StatusNotFound:   openapi.ResponseRef("NotFound"),
		},
	},
	Resolve: &openapi.Operation{
		Summary:     "Link a pending verification to a car",
		Description: "The authenticated principal, when present, is recorded as the reviewer.",
		Parameters:  idParam,
		RequestBody: openapi.RequestBodyJSON("ResolveCommand", true),
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Resolved verification", "Verification"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			http.StatusNotFound:   openapi.ResponseRef("NotFound"),
			http.StatusConflict:   openapi.ResponseRef("Conflict"),
		},
	},
	Dismiss: &openapi.Operation{
		Summary:     "Close a pending verification without a car",
		Parameters:  idParam,
		RequestBody: openapi.RequestBodyJSON("DismissCommand", false),
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Dismissed verification", "Verification"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			http.StatusNotFound:   openapi.ResponseRef("NotFound"),
			http.StatusConflict:   openapi.ResponseRef("Conflict"),
		},
	},
}

func schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Verification": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"source":      {Type: "string"},
				"descriptor":  openapi.SchemaRef("Descriptor"),
				"reason":      {Type: "string", Enum: []any{ReasonNotFound, ReasonMultipleFound}},
				"stage":       {Type: "string"},
				"trace":       openapi.ArrayOf("Step"),
				"status":      {Type: "string", Enum: []any{StatusPending, StatusResolved, StatusDismissed}},
				"car_id":      {Type: "string", Format: "uuid"},
				"resolved_by": {Type: "string"},
				"created_at":  {Type: "string", Format: "date-time"},
				"resolved_at": {Type: "string", Format: "date-time"},
			},
		},
		"ResolveCommand": {
			Type:     "object",
			Required: []string{"car_id"},
			Properties: map[string]*openapi.Schema{
				"car_id": {Type: "string", Format: "uuid"},
				"by":     {Type: "string", Description: "Reviewer, used when the request is unauthenticated"},
			},
		},
		"DismissCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"by": {Type: "string", Description: "Reviewer, used when the request is unauthenticated"},
			},
		},
	}
}
