// Package schema converts field descriptors into JSON-Schema fragments for
// tool discovery.
//
// The mapping follows the MCP dialect of JSON Schema: enum values are always
// strings, and types the dialect does not support natively (UUID, time,
// decimal, duration) carry a human-readable explanation in the description
// instead of a fabricated format tag.
//
// Schema generation is pure and uncached: fragments are recomputed on every
// request, which keeps the mapping correct when descriptors carry computed
// defaults and costs little because discovery is rare next to invocation.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/restmcp/restmcp/internal/resource"
)

// Direction selects which side of a descriptor set a schema describes.
type Direction int

const (
	// Input schemas omit read-only fields and carry the required set.
	Input Direction = iota
	// Output schemas omit write-only fields and have no required set.
	Output
)

// MapField converts one field descriptor into a JSON-Schema fragment.
//
// The fragment always carries a type. Constraint keys (maximum, maxLength,
// pattern, ...) are present exactly when the corresponding constraint is
// declared on the descriptor. An unrecognized kind is a configuration error
// and fails fast; silently defaulting to string would hide integration bugs.
func MapField(f *resource.Field, dir Direction) (*jsonschema.Schema, error) {
	s, err := baseSchema(f, dir)
	if err != nil {
		return nil, err
	}
	applyConstraints(f, s)
	return s, nil
}

// baseSchema builds the kind-specific fragment before the generic
// constraint overlay.
func baseSchema(f *resource.Field, dir Direction) (*jsonschema.Schema, error) {
	switch f.Kind {
	case resource.KindBoolean:
		return &jsonschema.Schema{Type: "boolean"}, nil

	case resource.KindInteger:
		return &jsonschema.Schema{Type: "integer"}, nil

	case resource.KindFloat:
		return &jsonschema.Schema{Type: "number"}, nil

	case resource.KindDecimal:
		return decimalSchema(f), nil

	case resource.KindString:
		return &jsonschema.Schema{Type: "string"}, nil

	case resource.KindEmail:
		return &jsonschema.Schema{
			Type:        "string",
			Format:      "email",
			Description: `Valid email address (e.g., "user@example.com")`,
		}, nil

	case resource.KindURL:
		return &jsonschema.Schema{
			Type:        "string",
			Format:      "uri",
			Description: `Valid URL (e.g., "https://example.com")`,
		}, nil

	case resource.KindUUID:
		return &jsonschema.Schema{
			Type:        "string",
			Description: `UUID format (e.g., "123e4567-e89b-12d3-a456-426614174000")`,
		}, nil

	case resource.KindIPAddress:
		return ipAddressSchema(f), nil

	case resource.KindDateTime:
		return &jsonschema.Schema{
			Type:        "string",
			Format:      "date-time",
			Description: "DateTime in format: ISO-8601",
		}, nil

	case resource.KindDate:
		return &jsonschema.Schema{
			Type:        "string",
			Format:      "date",
			Description: "Date in format: ISO-8601",
		}, nil

	case resource.KindTime:
		return &jsonschema.Schema{
			Type:        "string",
			Description: "Time in format: ISO-8601",
		}, nil

	case resource.KindDuration:
		return &jsonschema.Schema{
			Type:        "string",
			Description: `Duration string (e.g., "1h30m")`,
		}, nil

	case resource.KindChoice:
		return choiceSchema(f), nil

	case resource.KindMultiChoice:
		return multiChoiceSchema(f), nil

	case resource.KindPrimaryKeyRelated:
		return relatedSchema(f, fmt.Sprintf("Primary key (%s) of %s object", refName(f, "id"), refResource(f)))

	case resource.KindSlugRelated:
		return relatedSchema(f, fmt.Sprintf("%s field of related %s object", refName(f, "slug"), refResource(f)))

	case resource.KindHyperlinkRelated:
		return hyperlinkSchema(f), nil

	case resource.KindList:
		return listSchema(f, dir)

	case resource.KindMap:
		return mapSchema(f, dir)

	case resource.KindJSON:
		// Free-form payload: minimally constrained, no items or
		// additionalProperties.
		return &jsonschema.Schema{
			Type:        "object",
			Description: "Arbitrary JSON payload",
		}, nil

	case resource.KindNested:
		if f.Nested == nil {
			return nil, fmt.Errorf("nested field %q has no descriptor set", f.Name)
		}
		return BuildSchema(f.Nested, dir)
	}

	return nil, fmt.Errorf("unsupported field type: %s (field %q)", f.Kind, f.Name)
}

func decimalSchema(f *resource.Field) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "string"}
	var parts []string
	if f.MaxDigits != nil {
		parts = append(parts, fmt.Sprintf("max %d digits", *f.MaxDigits))
	}
	if f.DecimalPlaces != nil {
		parts = append(parts, fmt.Sprintf("%d decimal places", *f.DecimalPlaces))
	}
	if len(parts) > 0 {
		s.Description = fmt.Sprintf("Decimal in format: (%s)", strings.Join(parts, ", "))
	}
	return s
}

func ipAddressSchema(f *resource.Field) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "string"}
	switch f.Protocol {
	case resource.IPv4:
		s.Description = "Valid IPv4 address (e.g., 192.168.1.1)"
	case resource.IPv6:
		s.Description = "Valid IPv6 address (e.g., 2001:db8::1)"
	default:
		s.Description = "Valid IPv4 or IPv6 address"
	}
	return s
}

// choiceSchema emits a string enum regardless of the declared value types:
// the protocol dialect requires string enums, and the handler converts the
// strings back on input.
func choiceSchema(f *resource.Field) *jsonschema.Schema {
	values := make([]any, 0, len(f.Choices)+1)
	var mappings []string
	for _, c := range f.Choices {
		v := fmt.Sprint(c.Value)
		values = append(values, v)
		if c.Display != "" && c.Display != v {
			mappings = append(mappings, fmt.Sprintf("%q = %s", v, c.Display))
		}
	}
	if f.AllowBlank {
		values = append(values, "")
	}

	s := &jsonschema.Schema{Type: "string", Enum: values}
	if len(mappings) > 0 {
		s.Description = "Valid choices: " + strings.Join(mappings, ", ")
	}
	return s
}

func multiChoiceSchema(f *resource.Field) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: "array", Items: choiceSchema(f)}
	if f.DisallowEmpty {
		s.MinItems = intPtr(1)
	}
	return s
}

// relatedSchema maps a reference-by-identifier field. Many-valued references
// wrap the identifier schema in an array.
func relatedSchema(f *resource.Field, description string) (*jsonschema.Schema, error) {
	idKind := f.RefKind
	if idKind == resource.KindInvalid {
		idKind = resource.KindInteger
	}
	id, err := baseSchema(&resource.Field{Name: f.Name, Kind: idKind}, Input)
	if err != nil {
		return nil, fmt.Errorf("mapping identifier of related field %q: %w", f.Name, err)
	}

	single := &jsonschema.Schema{Type: id.Type, Description: description}
	if !f.Many {
		return single, nil
	}
	return &jsonschema.Schema{
		Type:        "array",
		Items:       single,
		Description: "Array of " + lowerFirst(description),
	}, nil
}

func hyperlinkSchema(f *resource.Field) *jsonschema.Schema {
	parts := []string{"URL reference"}
	if f.RefResource != "" {
		parts = append(parts, "for "+f.RefResource)
	}
	if f.ViewName != "" {
		parts = append(parts, "to "+f.ViewName)
	}
	return &jsonschema.Schema{
		Type:        "string",
		Format:      "uri",
		Description: strings.Join(parts, " "),
	}
}

func listSchema(f *resource.Field, dir Direction) (*jsonschema.Schema, error) {
	if f.Child == nil {
		return nil, fmt.Errorf("list field %q has no child descriptor", f.Name)
	}
	child, err := MapField(f.Child, dir)
	if err != nil {
		return nil, err
	}
	s := &jsonschema.Schema{Type: "array", Items: child}
	if f.MinLength != nil {
		s.MinItems = intPtr(*f.MinLength)
	}
	if f.MaxLength != nil {
		s.MaxItems = intPtr(*f.MaxLength)
	}
	return s, nil
}

func mapSchema(f *resource.Field, dir Direction) (*jsonschema.Schema, error) {
	if f.Child == nil {
		return nil, fmt.Errorf("map field %q has no value descriptor", f.Name)
	}
	child, err := MapField(f.Child, dir)
	if err != nil {
		return nil, err
	}
	s := &jsonschema.Schema{Type: "object", AdditionalProperties: child}
	if f.DisallowEmpty {
		s.MinProperties = intPtr(1)
	}
	return s, nil
}

// applyConstraints overlays the generic constraint attributes onto the
// kind-specific fragment: numeric bounds, string lengths, the blank rule,
// pattern, default, title, help text, and the null variant.
func applyConstraints(f *resource.Field, s *jsonschema.Schema) {
	if f.MaxValue != nil {
		s.Maximum = floatPtr(*f.MaxValue)
	}
	if f.MinValue != nil {
		s.Minimum = floatPtr(*f.MinValue)
	}

	if f.Kind.IsStringLike() {
		if f.MaxLength != nil {
			s.MaxLength = intPtr(*f.MaxLength)
		}
		if f.MinLength != nil {
			s.MinLength = intPtr(*f.MinLength)
		}
		// Blank is rejected by default; an explicit min length wins.
		if !f.AllowBlank && (f.MinLength == nil || *f.MinLength < 1) {
			s.MinLength = intPtr(1)
		}
	}

	if f.Pattern != "" && f.Kind.IsStringLike() {
		s.Pattern = f.Pattern
	}

	if def, ok := f.DefaultValue(); ok && def != nil {
		if raw, err := json.Marshal(def); err == nil {
			s.Default = raw
		}
	}

	if f.Label != "" {
		s.Title = f.Label
	}

	if f.HelpText != "" {
		if s.Description != "" {
			// Keep the format explanation generated by the kind mapping.
			s.Description = f.HelpText + ". " + s.Description
		} else {
			s.Description = f.HelpText
		}
	}

	if f.AllowNull && s.Type != "" {
		s.Types = []string{s.Type, "null"}
		s.Type = ""
	}
}

func refName(f *resource.Field, fallback string) string {
	if f.RefName != "" {
		return f.RefName
	}
	return fallback
}

func refResource(f *resource.Field) string {
	if f.RefResource != "" {
		return f.RefResource
	}
	return "related"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
