// Package resource defines the contract between the MCP bridge and the
// resource handlers it exposes as tools.
//
// A handler implements a set of named actions (the six standard CRUD actions
// plus any custom actions) against one resource. The bridge never routes to
// handlers through HTTP method semantics; it asks a handler whether it
// supports an action and then invokes that action with a synthesized Request.
//
// Optional capabilities (authentication, permissions, throttling, API
// versioning) are expressed as small interfaces that a handler may choose to
// implement. The invocation pipeline discovers them with type assertions.
package resource

import "context"

// Standard CRUD action names. Handlers that support any of these are
// registered for them automatically; all other actions are custom and must
// be configured explicitly.
const (
	ActionList          = "list"
	ActionCreate        = "create"
	ActionRetrieve      = "retrieve"
	ActionUpdate        = "update"
	ActionPartialUpdate = "partial_update"
	ActionDestroy       = "destroy"
)

// StandardActions lists the CRUD actions in their canonical order.
var StandardActions = []string{
	ActionList, ActionCreate, ActionRetrieve,
	ActionUpdate, ActionPartialUpdate, ActionDestroy,
}

// IsStandardAction reports whether name is one of the six CRUD actions.
func IsStandardAction(name string) bool {
	switch name {
	case ActionList, ActionCreate, ActionRetrieve,
		ActionUpdate, ActionPartialUpdate, ActionDestroy:
		return true
	}
	return false
}

// Meta describes the resource a handler serves.
type Meta struct {
	// Name is the singular, lower-case resource name (e.g. "customer").
	Name string

	// LookupField is the field used to address a single instance.
	// Empty means "pk".
	LookupField string

	// LookupURLKwarg overrides the kwargs key carrying the lookup value.
	// Empty means LookupField.
	LookupURLKwarg string
}

// Lookup returns the effective lookup field and kwargs key.
func (m Meta) Lookup() (field, kwarg string) {
	field = m.LookupField
	if field == "" {
		field = "pk"
	}
	kwarg = m.LookupURLKwarg
	if kwarg == "" {
		kwarg = field
	}
	return field, kwarg
}

// Handler is the minimum structural contract a resource handler must satisfy
// to be registered as a set of tools.
//
// Handlers are stateless between calls: the invocation pipeline obtains a
// fresh instance from a Provider for every tool call and discards it
// afterwards.
type Handler interface {
	// Meta returns the resource description used for tool naming and
	// instance lookup.
	Meta() Meta

	// Supports reports whether the handler implements the named action.
	Supports(action string) bool

	// Serializer returns the field-descriptor set describing the action's
	// input/output shape, or nil when the action has none.
	Serializer(action string) *Descriptor

	// Invoke runs the named action against the synthesized request.
	// The request carries the caller identity established by the pipeline
	// and the structured kwargs/body supplied by the tool caller.
	Invoke(ctx context.Context, action string, req *Request) (*Response, error)
}

// Provider constructs a fresh Handler instance. One instance is created per
// tool invocation; instances are never pooled or reused.
type Provider func() Handler

// Authenticated is implemented by handlers that declare authenticators.
// The pipeline runs them against the synthesized request unless
// authentication bypass is configured.
type Authenticated interface {
	Authenticators() []Authenticator
}

// Permissioned is implemented by handlers that declare permission checks.
type Permissioned interface {
	Permissions() []Permission
}

// Throttling is implemented by handlers that declare throttles.
type Throttling interface {
	Throttles() []Throttle
}

// Versioned is implemented by handlers that declare an API versioning
// scheme. Handlers without one see an empty version on the request.
type Versioned interface {
	Versioning() VersionScheme
}
