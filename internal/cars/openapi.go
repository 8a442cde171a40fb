package cars

import (
	"net/http"

	"github.com/JaimeStill/forecourt/pkg/openapi"
)

type docs struct {
	List        *openapi.Operation
	Create      *openapi.Operation
	Search      *openapi.Operation
	Find        *openapi.Operation
	Update      *openapi.Operation
	Delete      *openapi.Operation
	UploadPhoto *openapi.Operation
}

var apiDocs = docs{
	List: &openapi.Operation{
		Summary: "List cars",
		Parameters: append(openapi.PageParams(),
			openapi.QueryParam("make", "string", "Filter by make (contains)", false),
			openapi.QueryParam("model", "string", "Filter by model (contains)", false),
			openapi.QueryParam("rego", "string", "Filter by rego, ignoring case and punctuation", false),
			openapi.QueryParam("location", "string", "Filter by location (contains)", false),
			openapi.QueryParam("status", "string", "Filter by status", false),
		),
		Responses: map[int]*openapi.Response{
			http.StatusOK: openapi.ResponseJSON("Page of cars", "PageResult"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Add a car to the inventory",
		RequestBody: openapi.RequestBodyJSON("CarCommand", true),
		Responses: map[int]*openapi.Response{
			http.StatusCreated:    openapi.ResponseJSON("Created car", "Car"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search cars with a JSON body",
		Description: "Accepts the page request fields and the list filters in one body.",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{Type: "object"}},
			},
		},
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Page of cars", "PageResult"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get a car",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Car ID")},
		Responses: map[int]*openapi.Response{
			http.StatusOK:       openapi.ResponseJSON("Car", "Car"),
			http.StatusNotFound: openapi.ResponseRef("NotFound"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Replace the editable fields of a car",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Car ID")},
		RequestBody: openapi.RequestBodyJSON("CarCommand", true),
		Responses: map[int]*openapi.Response{
			http.StatusOK:         openapi.ResponseJSON("Updated car", "Car"),
			http.StatusBadRequest: openapi.ResponseRef("BadRequest"),
			http.StatusNotFound:   openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete a car and its photos",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Car ID")},
		Responses: map[int]*openapi.Response{
			http.StatusNoContent: {Description: "Deleted"},
			http.StatusNotFound:  openapi.ResponseRef("NotFound"),
		},
	},
	UploadPhoto: &openapi.Operation{
		Summary:    "Attach a photo to a car",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Car ID")},
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {Schema: &openapi.Schema{
					Type:     "object",
					Required: []string{"photo"},
					Properties: map[string]*openapi.Schema{
						"photo": {Type: "string", Format: "binary"},
					},
				}},
			},
		},
		Responses: map[int]*openapi.Response{
			http.StatusCreated:               openapi.ResponseJSON("Car with the new photo key", "Car"),
			http.StatusBadRequest:            openapi.ResponseRef("BadRequest"),
			http.StatusNotFound:              openapi.ResponseRef("NotFound"),
			http.StatusRequestEntityTooLarge: openapi.ResponseRef("PayloadTooLarge"),
		},
	},
}

func schemas() map[string]*openapi.Schema {
	list := &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}
	status := &openapi.Schema{Type: "string", Enum: []any{StatusInStock, StatusSold, StatusInTransit, StatusWorkshop}}

	return map[string]*openapi.Schema{
		"Car": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             {Type: "string", Format: "uuid"},
				"make":           {Type: "string"},
				"model":          {Type: "string"},
				"badge":          {Type: "string"},
				"rego":           {Type: "string"},
				"description":    {Type: "string"},
				"location":       {Type: "string"},
				"status":         status,
				"stage":          {Type: "string"},
				"checklist":      list,
				"next_locations": list,
				"photos":         {Type: "array", Items: &openapi.Schema{Type: "string"}, Description: "Storage keys, served under /photos"},
				"created_at":     {Type: "string", Format: "date-time"},
				"updated_at":     {Type: "string", Format: "date-time"},
			},
		},
		"CarCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"make":           {Type: "string"},
				"model":          {Type: "string"},
				"badge":          {Type: "string"},
				"rego":           {Type: "string", Description: "Up to six letters or digits once spaces are removed", Pattern: "^[A-Za-z0-9 ]*$"},
				"description":    {Type: "string"},
				"location":       {Type: "string"},
				"status":         status,
				"stage":          {Type: "string"},
				"checklist":      list,
				"next_locations": list,
			},
		},
	}
}
