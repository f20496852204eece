package schema

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/restmcp/restmcp/internal/resource"
)

// BuildSchema composes MapField over every field of a descriptor set.
//
// Input schemas skip read-only fields; output schemas skip write-only
// fields. A field is required iff the direction is Input and the field is
// required, not read-only, and declares no default. List-shaped descriptor
// sets yield an array of the singular object schema. An empty descriptor
// set is a valid empty object schema, not an error.
func BuildSchema(d *resource.Descriptor, dir Direction) (*jsonschema.Schema, error) {
	if d.Many {
		child, err := BuildSchema(d.Singular(), dir)
		if err != nil {
			return nil, err
		}
		s := &jsonschema.Schema{Type: "array", Items: child}
		if child.Description != "" {
			s.Description = "Array of " + lowerFirst(child.Description)
		}
		return s, nil
	}

	properties := make(map[string]*jsonschema.Schema, len(d.Fields))
	required := []string{}

	for i := range d.Fields {
		f := &d.Fields[i]
		if dir == Input && f.ReadOnly {
			continue
		}
		if dir == Output && f.WriteOnly {
			continue
		}

		fs, err := MapField(f, dir)
		if err != nil {
			return nil, fmt.Errorf("descriptor %q: %w", d.Name, err)
		}
		properties[f.Name] = fs

		if dir == Input && f.Required && !f.ReadOnly && !f.HasDefault() {
			required = append(required, f.Name)
		}
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}, nil
}
