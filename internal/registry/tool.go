package registry

import (
	"errors"

	"github.com/restmcp/restmcp/internal/resource"
)

// Tool binds one handler action to a named, independently invocable tool.
// Tools are immutable once registered; re-registering a name replaces the
// whole descriptor, never merges into it.
type Tool struct {
	// Name is the globally unique tool name.
	Name string

	// Title and Description are human-readable metadata surfaced through
	// tools/list.
	Title       string
	Description string

	// Action is the handler action the tool invokes.
	Action string

	// Detail marks actions that address a single resource instance and
	// therefore require a lookup kwarg.
	Detail bool

	// Provider constructs a fresh handler for every invocation.
	Provider resource.Provider

	// Resource is the handler's resource description, snapshotted at
	// registration time.
	Resource resource.Meta

	// Input is the explicitly configured input descriptor set. Consulted
	// only when InputSet is true; nil then means "no input at all".
	// When InputSet is false the action's default descriptor applies.
	Input    *resource.Descriptor
	InputSet bool
}

// validate enforces the minimal structural invariants of a descriptor.
func (t *Tool) validate() error {
	if t.Name == "" {
		return errors.New("tool name cannot be empty")
	}
	if t.Action == "" {
		return errors.New("tool action cannot be empty")
	}
	if t.Provider == nil {
		return errors.New("tool provider is required")
	}
	return nil
}

// ToolConfig customizes how one handler action is exposed as a tool. It is
// attached to a handler declaration (via the ToolConfigured interface) and
// consumed once, at registration time.
//
// Custom (non-CRUD) actions are registered only when a config exists for
// them, and must declare their input shape: either Input or NoInput. CRUD
// actions may use a config purely to override name, title, description, or
// input.
type ToolConfig struct {
	// Name overrides the generated "{action}_{basename}" tool name.
	Name string

	// Title and Description override the generated metadata.
	Title       string
	Description string

	// Input is the explicit input descriptor set for the action's body.
	Input *resource.Descriptor

	// NoInput declares that the action takes no body at all. Mutually
	// exclusive with Input.
	NoInput bool

	// Detail marks a custom action as addressing a single instance, which
	// adds the required lookup kwarg to its schema. Ignored for CRUD
	// actions, whose detail-ness is fixed.
	Detail bool
}

// inputConfigured reports whether the config pins the input shape.
func (c ToolConfig) inputConfigured() bool {
	return c.Input != nil || c.NoInput
}

// ToolConfigured is implemented by handlers that attach per-action tool
// configuration. The map is keyed by action name.
type ToolConfigured interface {
	ToolConfigs() map[string]ToolConfig
}
