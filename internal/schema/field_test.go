package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restmcp/restmcp/internal/resource"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestMapFieldBasicKinds(t *testing.T) {
	tests := []struct {
		name       string
		field      resource.Field
		wantType   string
		wantFormat string
	}{
		{"boolean", resource.Field{Kind: resource.KindBoolean}, "boolean", ""},
		{"integer", resource.Field{Kind: resource.KindInteger}, "integer", ""},
		{"float", resource.Field{Kind: resource.KindFloat}, "number", ""},
		{"string", resource.Field{Kind: resource.KindString}, "string", ""},
		{"email", resource.Field{Kind: resource.KindEmail}, "string", "email"},
		{"url", resource.Field{Kind: resource.KindURL}, "string", "uri"},
		{"uuid", resource.Field{Kind: resource.KindUUID}, "string", ""},
		{"datetime", resource.Field{Kind: resource.KindDateTime}, "string", "date-time"},
		{"date", resource.Field{Kind: resource.KindDate}, "string", "date"},
		{"time", resource.Field{Kind: resource.KindTime}, "string", ""},
		{"duration", resource.Field{Kind: resource.KindDuration}, "string", ""},
		{"decimal", resource.Field{Kind: resource.KindDecimal}, "string", ""},
		{"ip", resource.Field{Kind: resource.KindIPAddress}, "string", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := MapField(&tt.field, Input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, s.Type)
			assert.Equal(t, tt.wantFormat, s.Format)
		})
	}
}

func TestMapFieldUnsupportedKind(t *testing.T) {
	_, err := MapField(&resource.Field{Name: "x", Kind: resource.KindInvalid}, Input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported field type")
	assert.Contains(t, err.Error(), `"x"`)
}

func TestMapFieldChoice(t *testing.T) {
	f := resource.Field{
		Kind: resource.KindChoice,
		Choices: []resource.Choice{
			{Value: 1, Display: "Low"},
			{Value: 2, Display: "High"},
			{Value: "other", Display: "other"},
		},
	}
	s, err := MapField(&f, Input)
	require.NoError(t, err)

	// Enum values are stringified for the protocol dialect.
	assert.Equal(t, "string", s.Type)
	assert.Equal(t, []any{"1", "2", "other"}, s.Enum)
	// Mappings are listed only where display differs from value.
	assert.Contains(t, s.Description, `"1" = Low`)
	assert.Contains(t, s.Description, `"2" = High`)
	assert.NotContains(t, s.Description, "other =")
}

func TestMapFieldChoiceAllowBlank(t *testing.T) {
	f := resource.Field{
		Kind:       resource.KindChoice,
		AllowBlank: true,
		Choices:    []resource.Choice{{Value: "a"}},
	}
	s, err := MapField(&f, Input)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", ""}, s.Enum)
}

func TestMapFieldMultiChoice(t *testing.T) {
	f := resource.Field{
		Kind:          resource.KindMultiChoice,
		DisallowEmpty: true,
		Choices:       []resource.Choice{{Value: "x"}, {Value: "y"}},
	}
	s, err := MapField(&f, Input)
	require.NoError(t, err)
	assert.Equal(t, "array", s.Type)
	require.NotNil(t, s.Items)
	assert.Equal(t, []any{"x", "y"}, s.Items.Enum)
	require.NotNil(t, s.MinItems)
	assert.Equal(t, 1, *s.MinItems)
}

func TestMapFieldRelated(t *testing.T) {
	t.Run("primary key", func(t *testing.T) {
		f := resource.Field{Kind: resource.KindPrimaryKeyRelated, RefResource: "customer"}
		s, err := MapField(&f, Input)
		require.NoError(t, err)
		assert.Equal(t, "integer", s.Type)
		assert.Equal(t, "Primary key (id) of customer object", s.Description)
	})

	t.Run("many-valued", func(t *testing.T) {
		f := resource.Field{Kind: resource.KindPrimaryKeyRelated, RefResource: "tag", Many: true}
		s, err := MapField(&f, Input)
		require.NoError(t, err)
		assert.Equal(t, "array", s.Type)
		require.NotNil(t, s.Items)
		assert.Equal(t, "integer", s.Items.Type)
		assert.Equal(t, "Array of primary key (id) of tag object", s.Description)
	})

	t.Run("slug", func(t *testing.T) {
		f := resource.Field{
			Kind: resource.KindSlugRelated, RefName: "username",
			RefResource: "user", RefKind: resource.KindString,
		}
		s, err := MapField(&f, Input)
		require.NoError(t, err)
		assert.Equal(t, "string", s.Type)
		assert.Equal(t, "username field of related user object", s.Description)
	})

	t.Run("hyperlink", func(t *testing.T) {
		f := resource.Field{Kind: resource.KindHyperlinkRelated, RefResource: "post", ViewName: "post-detail"}
		s, err := MapField(&f, Input)
		require.NoError(t, err)
		assert.Equal(t, "string", s.Type)
		assert.Equal(t, "uri", s.Format)
		assert.Equal(t, "URL reference for post to post-detail", s.Description)
	})
}

func TestMapFieldList(t *testing.T) {
	f := resource.Field{
		Kind:      resource.KindList,
		MinLength: intp(1),
		MaxLength: intp(5),
		Child:     &resource.Field{Kind: resource.KindString},
	}
	s, err := MapField(&f, Input)
	require.NoError(t, err)
	assert.Equal(t, "array", s.Type)
	require.NotNil(t, s.Items)
	assert.Equal(t, "string", s.Items.Type)
	assert.Equal(t, 1, *s.MinItems)
	assert.Equal(t, 5, *s.MaxItems)
	// Item-count bounds never leak into string-length keys.
	assert.Nil(t, s.MinLength)
	assert.Nil(t, s.MaxLength)
}

func TestMapFieldListWithoutChild(t *testing.T) {
	_, err := MapField(&resource.Field{Name: "xs", Kind: resource.KindList}, Input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no child descriptor")
}

func TestMapFieldMap(t *testing.T) {
	f := resource.Field{
		Kind:          resource.KindMap,
		DisallowEmpty: true,
		Child:         &resource.Field{Kind: resource.KindInteger},
	}
	s, err := MapField(&f, Input)
	require.NoError(t, err)
	assert.Equal(t, "object", s.Type)
	require.NotNil(t, s.AdditionalProperties)
	assert.Equal(t, "integer", s.AdditionalProperties.Type)
	require.NotNil(t, s.MinProperties)
	assert.Equal(t, 1, *s.MinProperties)
}

func TestMapFieldNested(t *testing.T) {
	f := resource.Field{
		Kind: resource.KindNested,
		Nested: &resource.Descriptor{
			Name:   "address",
			Fields: []resource.Field{{Name: "city", Kind: resource.KindString, Required: true}},
		},
	}
	s, err := MapField(&f, Input)
	require.NoError(t, err)
	assert.Equal(t, "object", s.Type)
	require.Contains(t, s.Properties, "city")
	assert.Equal(t, []string{"city"}, s.Required)
}

func TestApplyConstraints(t *testing.T) {
	t.Run("numeric bounds", func(t *testing.T) {
		f := resource.Field{Kind: resource.KindInteger, MinValue: floatp(0), MaxValue: floatp(150)}
		s, err := MapField(&f, Input)
		require.NoError(t, err)
		assert.Equal(t, 0.0, *s.Minimum)
		assert.Equal(t, 150.0, *s.Maximum)
	})

	t.Run("string lengths imply blank rule", func(t *testing.T) {
		f := resource.Field{Kind: resource.KindString, MaxLength: intp(50)}
		s, err := MapField(&f, Input)
		require.NoError(t, err)
		assert.Equal(t, 50, *s.MaxLength)
		// Blank rejected by default.
		require.NotNil(t, s.MinLength)
		assert.Equal(t, 1, *s.MinLength)
	})

	t.Run("allow blank drops the implicit min length", func(t *testing.T) {
		f := resource.Field{Kind: resource.KindString, AllowBlank: true}
		s, err := MapField(&f, Input)
		require.NoError(t, err)
		assert.Nil(t, s.MinLength)
	})

	t.Run("explicit min length wins over blank rule", func(t *testing.T) {
		f := resource.Field{Kind: resource.KindString, MinLength: intp(3)}
		s, err := MapField(&f, Input)
		require.NoError(t, err)
		assert.Equal(t, 3, *s.MinLength)
	})

	t.Run("pattern only on string-like kinds", func(t *testing.T) {
		str := resource.Field{Kind: resource.KindString, Pattern: "^[a-z]+$"}
		s, err := MapField(&str, Input)
		require.NoError(t, err)
		assert.Equal(t, "^[a-z]+$", s.Pattern)

		num := resource.Field{Kind: resource.KindInteger, Pattern: "^[0-9]+$"}
		s, err = MapField(&num, Input)
		require.NoError(t, err)
		assert.Empty(t, s.Pattern)
	})

	t.Run("default", func(t *testing.T) {
		f := resource.Field{Kind: resource.KindString, Default: "free"}
		s, err := MapField(&f, Input)
		require.NoError(t, err)
		assert.Equal(t, json.RawMessage(`"free"`), s.Default)
	})

	t.Run("computed default", func(t *testing.T) {
		f := resource.Field{Kind: resource.KindInteger, DefaultFunc: func() any { return 7 }}
		s, err := MapField(&f, Input)
		require.NoError(t, err)
		assert.Equal(t, json.RawMessage(`7`), s.Default)
	})

	t.Run("label and help text", func(t *testing.T) {
		f := resource.Field{
			Kind: resource.KindEmail, Label: "Email address",
			HelpText: "Primary contact address",
		}
		s, err := MapField(&f, Input)
		require.NoError(t, err)
		assert.Equal(t, "Email address", s.Title)
		// Help text is prepended to the kind's format explanation.
		assert.Equal(t, `Primary contact address. Valid email address (e.g., "user@example.com")`, s.Description)
	})

	t.Run("allow null moves type into a union", func(t *testing.T) {
		f := resource.Field{Kind: resource.KindInteger, AllowNull: true}
		s, err := MapField(&f, Input)
		require.NoError(t, err)
		assert.Empty(t, s.Type)
		assert.Equal(t, []string{"integer", "null"}, s.Types)
	})
}

func TestIPAddressDescriptions(t *testing.T) {
	v4, err := MapField(&resource.Field{Kind: resource.KindIPAddress, Protocol: resource.IPv4}, Input)
	require.NoError(t, err)
	assert.Contains(t, v4.Description, "IPv4")

	v6, err := MapField(&resource.Field{Kind: resource.KindIPAddress, Protocol: resource.IPv6}, Input)
	require.NoError(t, err)
	assert.Contains(t, v6.Description, "IPv6")

	both, err := MapField(&resource.Field{Kind: resource.KindIPAddress}, Input)
	require.NoError(t, err)
	assert.Contains(t, both.Description, "IPv4 or IPv6")
}

func TestDecimalDescription(t *testing.T) {
	f := resource.Field{Kind: resource.KindDecimal, MaxDigits: intp(10), DecimalPlaces: intp(2)}
	s, err := MapField(&f, Input)
	require.NoError(t, err)
	assert.Equal(t, "Decimal in format: (max 10 digits, 2 decimal places)", s.Description)
}
