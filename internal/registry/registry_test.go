package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restmcp/restmcp/internal/resource"
)

// crudHandler supports all six standard actions for the "customer"
// resource.
type crudHandler struct{}

func (crudHandler) Meta() resource.Meta         { return resource.Meta{Name: "customer"} }
func (crudHandler) Supports(action string) bool { return resource.IsStandardAction(action) }

func (crudHandler) Serializer(action string) *resource.Descriptor {
	return &resource.Descriptor{Name: "customer"}
}

func (crudHandler) Invoke(ctx context.Context, action string, req *resource.Request) (*resource.Response, error) {
	return resource.OK(nil), nil
}

func crudProvider() resource.Handler { return crudHandler{} }

// publishHandler adds a configured custom action on top of the CRUD set.
type publishHandler struct {
	crudHandler
	configs map[string]ToolConfig
}

func (publishHandler) Meta() resource.Meta { return resource.Meta{Name: "post"} }

func (publishHandler) Supports(action string) bool {
	return resource.IsStandardAction(action) || action == "publish"
}

func (h publishHandler) ToolConfigs() map[string]ToolConfig { return h.configs }

func TestRegisterCRUDHandler(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(crudProvider))

	tools := reg.GetAll()
	require.Len(t, tools, 6)

	byName := map[string]*Tool{}
	for _, tool := range tools {
		byName[tool.Name] = tool
	}

	tests := []struct {
		name   string
		title  string
		detail bool
	}{
		{"list_customers", "List Customers", false},
		{"create_customers", "Create Customer", false},
		{"retrieve_customers", "Get Customer", true},
		{"update_customers", "Update Customer", true},
		{"partial_update_customers", "Partially Update Customer", true},
		{"destroy_customers", "Delete Customer", true},
	}
	for _, tt := range tests {
		tool, ok := byName[tt.name]
		require.True(t, ok, "missing tool %s", tt.name)
		assert.Equal(t, tt.title, tool.Title, tt.name)
		assert.Equal(t, tt.detail, tool.Detail, tt.name)
	}

	// Registration order follows the canonical action order.
	assert.Equal(t, "list_customers", tools[0].Name)
	assert.Equal(t, "destroy_customers", tools[5].Name)

	// Generated descriptions name the action and the base name.
	assert.Equal(t, "List customers", byName["list_customers"].Description)
	assert.Equal(t, "Partial_update customers", byName["partial_update_customers"].Description)
}

func TestRegisterCustomAction(t *testing.T) {
	reg := New()
	provider := func() resource.Handler {
		return publishHandler{configs: map[string]ToolConfig{
			"publish": {Detail: true, NoInput: true, Description: "Publish the post"},
		}}
	}
	require.NoError(t, reg.Register(provider))

	tool, ok := reg.GetByName("publish_posts")
	require.True(t, ok)
	assert.Equal(t, "Publish Posts", tool.Title)
	assert.Equal(t, "Publish the post", tool.Description)
	assert.True(t, tool.Detail)
	assert.True(t, tool.InputSet)
	assert.Nil(t, tool.Input)
}

func TestRegisterCustomActionWithoutInputDeclaration(t *testing.T) {
	reg := New()
	provider := func() resource.Handler {
		return publishHandler{configs: map[string]ToolConfig{
			"publish": {Detail: true}, // neither Input nor NoInput
		}}
	}
	err := reg.Register(provider)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `custom action "publish"`)
	assert.Contains(t, err.Error(), "explicit input declaration")
}

func TestRegisterUnsupportedConfiguredActionIgnored(t *testing.T) {
	reg := New()
	provider := func() resource.Handler {
		// "archive" is configured but the handler does not support it.
		return publishHandler{configs: map[string]ToolConfig{
			"archive": {NoInput: true},
		}}
	}
	require.NoError(t, reg.Register(provider))
	_, ok := reg.GetByName("archive_posts")
	assert.False(t, ok)
}

func TestRegisterNameOverride(t *testing.T) {
	reg := New()
	provider := func() resource.Handler {
		return publishHandler{configs: map[string]ToolConfig{
			"retrieve": {Name: "get_post", Title: "Fetch Post"},
		}}
	}
	require.NoError(t, reg.Register(provider))

	tool, ok := reg.GetByName("get_post")
	require.True(t, ok)
	assert.Equal(t, "Fetch Post", tool.Title)
	_, ok = reg.GetByName("retrieve_posts")
	assert.False(t, ok)
}

func TestRegisterLastWins(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(crudProvider))
	first := reg.GetAll()
	require.Len(t, first, 6)

	// Re-registering the same handler replaces each tool in place.
	require.NoError(t, reg.Register(crudProvider, WithBaseName("customers")))
	assert.Equal(t, 6, reg.Len())

	tools := reg.GetAll()
	assert.Equal(t, first[0].Name, tools[0].Name)
}

func TestRegisterWithActions(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(crudProvider, WithActions("list", "retrieve")))
	assert.Equal(t, 2, reg.Len())
	_, ok := reg.GetByName("create_customers")
	assert.False(t, ok)
}

func TestRegisterTwiceWithDifferentBaseNames(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(crudProvider, WithBaseName("customers")))
	require.NoError(t, reg.Register(crudProvider, WithBaseName("clients")))

	// Two independent, non-interfering tool sets.
	assert.Equal(t, 12, reg.Len())
	_, ok := reg.GetByName("list_customers")
	assert.True(t, ok)
	_, ok = reg.GetByName("list_clients")
	assert.True(t, ok)
}

func TestRegisterWithBaseName(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(crudProvider, WithBaseName("clients")))
	tool, ok := reg.GetByName("list_clients")
	require.True(t, ok)
	assert.Equal(t, "List Clients", tool.Title)
}

func TestRegisterNilProvider(t *testing.T) {
	reg := New()
	err := reg.Register(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider is nil")

	err = reg.Register(func() resource.Handler { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned nil")
}

func TestGetByNameMissing(t *testing.T) {
	reg := New()
	_, ok := reg.GetByName("nope")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(crudProvider))
	require.NotZero(t, reg.Len())
	reg.Clear()
	assert.Zero(t, reg.Len())
	assert.Empty(t, reg.GetAll())
}

func TestSingularize(t *testing.T) {
	assert.Equal(t, "customer", singularize("customers"))
	assert.Equal(t, "boss", singularize("boss"))
	assert.Equal(t, "s", singularize("s"))
}
