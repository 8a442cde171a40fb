package routes

import (
	"strings"

	"github.com/JaimeStill/forecourt/pkg/openapi"
)

// Describe adds every documented route of groups to spec, along with the groups'
// component schemas. Routes without an OpenAPI operation are left out.
func Describe(spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		describeGroup(spec, "", nil, group)
	}
}

func describeGroup(spec *openapi.Spec, parentPrefix string, parentTags []string, group Group) {
	prefix := parentPrefix + group.Prefix
	tags := group.Tags
	if len(tags) == 0 {
		tags = parentTags
	}

	if group.Schemas != nil {
		spec.Components.AddSchemas(group.Schemas)
	}

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}

		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}
		spec.AddOperation(route.Method, specPath(prefix+route.Pattern), &op)
	}

	for _, child := range group.Children {
		describeGroup(spec, prefix, tags, child)
	}
}

// specPath converts a ServeMux path pattern to an OpenAPI path template.
func specPath(pattern string) string {
	pattern = strings.TrimSuffix(pattern, "{$}")
	pattern = strings.ReplaceAll(pattern, "...}", "}")
	if pattern == "" {
		return "/"
	}
	return pattern
}
