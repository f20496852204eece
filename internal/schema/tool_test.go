package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restmcp/restmcp/internal/registry"
	"github.com/restmcp/restmcp/internal/resource"
)

// schemaHandler is a fixture handler whose serializer is the customer
// descriptor above.
type schemaHandler struct{}

func (schemaHandler) Meta() resource.Meta         { return resource.Meta{Name: "customer"} }
func (schemaHandler) Supports(action string) bool { return resource.IsStandardAction(action) }

func (schemaHandler) Serializer(action string) *resource.Descriptor {
	d := testDescriptor()
	if action == resource.ActionList {
		return resource.ManyOf(d)
	}
	return d
}

func (schemaHandler) Invoke(ctx context.Context, action string, req *resource.Request) (*resource.Response, error) {
	return resource.OK(nil), nil
}

func fixtureTool(action string, detail bool) *registry.Tool {
	return &registry.Tool{
		Name:     action + "_customers",
		Action:   action,
		Detail:   detail,
		Provider: func() resource.Handler { return schemaHandler{} },
		Resource: resource.Meta{Name: "customer"},
	}
}

func TestToolInputSchemaList(t *testing.T) {
	s, err := ToolInputSchema(fixtureTool(resource.ActionList, false))
	require.NoError(t, err)

	// Collection read: no kwargs, no body.
	assert.Equal(t, "object", s.Type)
	assert.Empty(t, s.Properties)
	assert.Empty(t, s.Required)
}

func TestToolInputSchemaRetrieve(t *testing.T) {
	s, err := ToolInputSchema(fixtureTool(resource.ActionRetrieve, true))
	require.NoError(t, err)

	require.Contains(t, s.Properties, "kwargs")
	assert.NotContains(t, s.Properties, "body")
	assert.Equal(t, []string{"kwargs"}, s.Required)

	kwargs := s.Properties["kwargs"]
	require.Contains(t, kwargs.Properties, "pk")
	assert.Equal(t, []string{"pk"}, kwargs.Required)
	assert.Equal(t, "The pk of the customer", kwargs.Properties["pk"].Description)
}

func TestToolInputSchemaCreate(t *testing.T) {
	s, err := ToolInputSchema(fixtureTool(resource.ActionCreate, false))
	require.NoError(t, err)

	require.Contains(t, s.Properties, "body")
	assert.NotContains(t, s.Properties, "kwargs")
	// The body carries required fields, so it is itself required.
	assert.Equal(t, []string{"body"}, s.Required)

	body := s.Properties["body"]
	assert.Contains(t, body.Properties, "name")
	assert.Equal(t, []string{"name", "email"}, body.Required)
}

func TestToolInputSchemaUpdate(t *testing.T) {
	s, err := ToolInputSchema(fixtureTool(resource.ActionUpdate, true))
	require.NoError(t, err)

	require.Contains(t, s.Properties, "kwargs")
	require.Contains(t, s.Properties, "body")
	assert.Equal(t, []string{"kwargs", "body"}, s.Required)
}

func TestToolInputSchemaPartialUpdate(t *testing.T) {
	s, err := ToolInputSchema(fixtureTool(resource.ActionPartialUpdate, true))
	require.NoError(t, err)

	require.Contains(t, s.Properties, "body")
	body := s.Properties["body"]
	// A partial update may send any subset: properties stay, required is
	// emptied and the body itself becomes optional.
	assert.Contains(t, body.Properties, "name")
	assert.Empty(t, body.Required)
	assert.Equal(t, []string{"kwargs"}, s.Required)
}

func TestToolInputSchemaDestroy(t *testing.T) {
	s, err := ToolInputSchema(fixtureTool(resource.ActionDestroy, true))
	require.NoError(t, err)
	assert.NotContains(t, s.Properties, "body")
	assert.Contains(t, s.Properties, "kwargs")
}

func TestToolInputSchemaExplicitInput(t *testing.T) {
	tool := fixtureTool("publish", true)
	tool.InputSet = true
	tool.Input = &resource.Descriptor{
		Name:   "publish",
		Fields: []resource.Field{{Name: "note", Kind: resource.KindString}},
	}
	s, err := ToolInputSchema(tool)
	require.NoError(t, err)
	require.Contains(t, s.Properties, "body")
	assert.Contains(t, s.Properties["body"].Properties, "note")
	// No required fields, so the body stays optional.
	assert.Equal(t, []string{"kwargs"}, s.Required)
}

func TestToolInputSchemaNoInput(t *testing.T) {
	tool := fixtureTool("publish", true)
	tool.InputSet = true // Input nil: the action takes no body at all
	s, err := ToolInputSchema(tool)
	require.NoError(t, err)
	assert.NotContains(t, s.Properties, "body")
	assert.Contains(t, s.Properties, "kwargs")
}

func TestToolInputSchemaCustomLookup(t *testing.T) {
	tool := fixtureTool(resource.ActionRetrieve, true)
	tool.Resource = resource.Meta{Name: "user", LookupField: "username", LookupURLKwarg: "name"}
	s, err := ToolInputSchema(tool)
	require.NoError(t, err)

	kwargs := s.Properties["kwargs"]
	require.Contains(t, kwargs.Properties, "name")
	assert.Equal(t, "The username of the user", kwargs.Properties["name"].Description)
}
