package schema

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/restmcp/restmcp/internal/registry"
	"github.com/restmcp/restmcp/internal/resource"
)

// ToolInputSchema builds the inputSchema advertised for one tool.
//
// The schema separates path-like parameters from the request payload so
// callers can address a specific instance and supply data independently:
// the resource schema is wrapped under "body" and the lookup parameters
// under "kwargs". Detail actions mark kwargs required; partial_update keeps
// its body properties but drops their required set, since a partial update
// may send any subset of fields.
func ToolInputSchema(tool *registry.Tool) (*jsonschema.Schema, error) {
	properties := make(map[string]*jsonschema.Schema, 2)
	required := []string{}

	if kwargs := kwargsSchema(tool); kwargs != nil {
		properties["kwargs"] = kwargs
		if len(kwargs.Required) > 0 {
			required = append(required, "kwargs")
		}
	}

	body, bodyRequired, err := bodySchema(tool)
	if err != nil {
		return nil, err
	}
	if body != nil {
		properties["body"] = body
		if bodyRequired {
			required = append(required, "body")
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}, nil
}

// kwargsSchema describes the lookup parameters of a detail action, or nil
// when the action addresses the whole collection.
func kwargsSchema(tool *registry.Tool) *jsonschema.Schema {
	if !tool.Detail {
		return nil
	}

	field, kwarg := tool.Resource.Lookup()
	resourceName := tool.Resource.Name
	if resourceName == "" {
		resourceName = "resource"
	}

	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			kwarg: {
				Type:        "string",
				Description: fmt.Sprintf("The %s of the %s", field, resourceName),
			},
		},
		Required: []string{kwarg},
	}
}

// bodySchema resolves the descriptor set for the tool's body and builds its
// input schema. The second return reports whether the body is required.
func bodySchema(tool *registry.Tool) (*jsonschema.Schema, bool, error) {
	descriptor, err := bodyDescriptor(tool)
	if err != nil || descriptor == nil {
		return nil, false, err
	}

	s, err := BuildSchema(descriptor, Input)
	if err != nil {
		return nil, false, fmt.Errorf("tool %q: %w", tool.Name, err)
	}

	if tool.Action == resource.ActionPartialUpdate {
		s.Required = []string{}
		return s, false, nil
	}
	return s, len(s.Required) > 0, nil
}

// bodyDescriptor picks the descriptor set governing the body: the explicit
// configuration when one was declared, otherwise the action's default
// descriptor for the actions that take input.
func bodyDescriptor(tool *registry.Tool) (*resource.Descriptor, error) {
	if tool.InputSet {
		// Explicitly configured; nil means the action takes no input.
		return tool.Input, nil
	}

	switch tool.Action {
	case resource.ActionList, resource.ActionRetrieve, resource.ActionDestroy:
		// No implicit body for read/delete actions.
		return nil, nil
	}

	handler := tool.Provider()
	if handler == nil {
		return nil, fmt.Errorf("tool %q: provider returned nil handler", tool.Name)
	}
	return handler.Serializer(tool.Action), nil
}
