// Package registry tracks the tools derived from registered resource
// handlers.
//
// The registry is a process-wide table keyed by tool name. It is mutated at
// startup (handler registration) and in test teardown (Clear); every
// operation takes the registry lock so concurrent readers observe each
// mutation as a single atomic replacement.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/restmcp/restmcp/internal/resource"
)

// Registry is a named table of tools. Most programs use the package-level
// Default instance; tests may construct their own with New.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
	order []string // registration order of tool names
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Default is the shared process-wide registry. Handler packages register
// into it from init functions; tests must Clear it between cases.
var Default = New()

// Option customizes one Register call.
type Option func(*registerOptions)

type registerOptions struct {
	baseName string
	actions  []string
}

// WithBaseName overrides the base name derived from the handler's resource
// name. The base name is the plural, lower-case suffix of generated tool
// names ("list_customers").
func WithBaseName(name string) Option {
	return func(o *registerOptions) { o.baseName = name }
}

// WithActions restricts registration to the named actions. Actions the
// handler does not expose are ignored, not errors.
func WithActions(actions ...string) Option {
	return func(o *registerOptions) { o.actions = slices.Clone(actions) }
}

// Register derives tools from a handler and inserts them into the registry.
//
// The registerable actions are the standard CRUD actions the handler
// supports plus every custom action that carries a ToolConfig, intersected
// with the WithActions filter when one is given. Each action yields one
// Tool named "{action}_{basename}" unless its config overrides the name.
//
// A provider that does not yield a resource.Handler fails fast: this is a
// registration-time configuration error, never deferred to invocation. So
// is a custom action without an explicit input declaration.
func (r *Registry) Register(provider resource.Provider, opts ...Option) error {
	if provider == nil {
		return fmt.Errorf("registry: provider is nil; register a func() resource.Handler for a handler type")
	}
	prototype := provider()
	if prototype == nil {
		return fmt.Errorf("registry: provider returned nil; the handler type must implement resource.Handler")
	}

	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}

	meta := prototype.Meta()
	baseName := o.baseName
	if baseName == "" {
		baseName = deriveBaseName(prototype, meta)
	}

	configs := map[string]ToolConfig{}
	if tc, ok := prototype.(ToolConfigured); ok {
		configs = tc.ToolConfigs()
	}

	for _, action := range registerableActions(prototype, configs) {
		if o.actions != nil && !slices.Contains(o.actions, action) {
			continue
		}

		cfg := configs[action]
		custom := !resource.IsStandardAction(action)
		if custom && !cfg.inputConfigured() {
			return fmt.Errorf(
				"registry: custom action %q on %T requires an explicit input declaration in its ToolConfig (set Input, or NoInput when no input is needed)",
				action, prototype)
		}

		tool := &Tool{
			Name:        cfg.Name,
			Title:       cfg.Title,
			Description: cfg.Description,
			Action:      action,
			Detail:      actionDetail(action, cfg),
			Provider:    provider,
			Resource:    meta,
			Input:       cfg.Input,
			InputSet:    cfg.inputConfigured(),
		}
		if tool.Name == "" {
			tool.Name = action + "_" + baseName
		}
		if tool.Title == "" {
			tool.Title = toolTitle(action, baseName)
		}
		if tool.Description == "" {
			tool.Description = capitalize(action) + " " + baseName
		}
		if err := tool.validate(); err != nil {
			return fmt.Errorf("registry: action %q on %T: %w", action, prototype, err)
		}

		r.insert(tool)
	}

	return nil
}

// MustRegister is Register for init-time wiring; it panics on error.
func (r *Registry) MustRegister(provider resource.Provider, opts ...Option) {
	if err := r.Register(provider, opts...); err != nil {
		panic(err)
	}
}

// insert adds or replaces a tool under its name. Last registration wins.
func (r *Registry) insert(tool *Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = tool
}

// GetAll returns every registered tool in registration order.
func (r *Registry) GetAll() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// GetByName looks up a tool; the second return reports whether it exists.
// Absence is an expected condition (callers surface it as a tool-level
// error), so no error is returned.
func (r *Registry) GetByName(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Clear resets the registry to empty. It is the only deletion primitive and
// exists for test isolation.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools = make(map[string]*Tool)
	r.order = nil
}

// Package-level helpers operating on Default.

// Register registers a handler's tools into the Default registry.
func Register(provider resource.Provider, opts ...Option) error {
	return Default.Register(provider, opts...)
}

// MustRegister registers into the Default registry and panics on error.
func MustRegister(provider resource.Provider, opts ...Option) {
	Default.MustRegister(provider, opts...)
}

// registerableActions returns the actions to expose: supported CRUD actions
// automatically, custom actions only when configured.
func registerableActions(h resource.Handler, configs map[string]ToolConfig) []string {
	var actions []string
	for _, action := range resource.StandardActions {
		if h.Supports(action) {
			actions = append(actions, action)
		}
	}
	customs := make([]string, 0, len(configs))
	for action := range configs {
		if !resource.IsStandardAction(action) && h.Supports(action) {
			customs = append(customs, action)
		}
	}
	slices.Sort(customs)
	return append(actions, customs...)
}

// deriveBaseName pluralizes the handler's resource name, falling back to
// the lower-cased handler type name.
func deriveBaseName(h resource.Handler, meta resource.Meta) string {
	name := meta.Name
	if name == "" {
		name = strings.ToLower(fmt.Sprintf("%T", h))
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
		name = strings.TrimSuffix(name, "handler")
	}
	if !strings.HasSuffix(name, "s") {
		name += "s"
	}
	return name
}

// actionDetail reports whether the action addresses a single instance.
func actionDetail(action string, cfg ToolConfig) bool {
	switch action {
	case resource.ActionRetrieve, resource.ActionUpdate,
		resource.ActionPartialUpdate, resource.ActionDestroy:
		return true
	case resource.ActionList, resource.ActionCreate:
		return false
	}
	return cfg.Detail
}

// toolTitle generates the per-action human-readable title. Per-item actions
// use the singular form of the base name.
func toolTitle(action, baseName string) string {
	plural := titleCase(baseName)
	singular := titleCase(singularize(baseName))
	switch action {
	case resource.ActionList:
		return "List " + plural
	case resource.ActionRetrieve:
		return "Get " + singular
	case resource.ActionCreate:
		return "Create " + singular
	case resource.ActionUpdate:
		return "Update " + singular
	case resource.ActionPartialUpdate:
		return "Partially Update " + singular
	case resource.ActionDestroy:
		return "Delete " + singular
	}
	return titleCase(action) + " " + plural
}

// singularize collapses a plural base name for per-item titles. Trimming a
// single trailing "s" covers the regular plurals base names are expected to
// use; names like "boss" are left alone rather than mangled.
func singularize(name string) string {
	if len(name) > 1 && strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss") {
		return name[:len(name)-1]
	}
	return name
}

// titleCase turns "partial_update" into "Partial Update".
func titleCase(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
