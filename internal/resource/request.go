package resource

import (
	"maps"
	"net/http"
)

// Identity is the authenticated principal attached to a request.
// The zero value is the anonymous identity.
type Identity struct {
	// Subject is a stable identifier for the principal (empty = anonymous).
	Subject string

	// Auth carries the credential record established by the authenticator
	// (a token, a session, ...). Opaque to the bridge.
	Auth any
}

// Anonymous is the unauthenticated identity.
var Anonymous = Identity{}

// IsAnonymous reports whether the identity names no principal.
func (id Identity) IsAnonymous() bool { return id.Subject == "" }

// Request is the synthesized in-process request handed to a handler action.
//
// It is constructed in one step and treated as immutable: the pipeline
// derives updated copies with WithIdentity/WithVersion instead of mutating
// a request mid-flight. A Request is owned by a single invocation and must
// not be retained after the call completes.
type Request struct {
	// Action is the handler action being invoked.
	Action string

	// Body is the structured payload supplied by the caller: a
	// map[string]any for object bodies or a []any for array bodies.
	// Nil when the call carried no body.
	Body any

	// Kwargs are the path-like parameters addressing a specific instance
	// (e.g. {"pk": "42"}).
	Kwargs map[string]any

	// Identity is the caller identity. Before handler authentication runs
	// this is the ambient identity established at the protocol boundary.
	Identity Identity

	// Header carries selected headers from the protocol-level HTTP request
	// so handler authenticators can inspect credentials.
	Header http.Header

	// FromMCP marks the request as originating from the tool-invocation
	// pathway rather than the host framework's normal routing. Handlers
	// may branch on it.
	FromMCP bool

	// Version is the resolved API version, empty when the handler declares
	// no versioning scheme.
	Version string
}

// NewRequest builds a synthetic request for one tool invocation.
// The kwargs map is copied; the body is referenced as-is.
func NewRequest(action string, body any, kwargs map[string]any, identity Identity, header http.Header) *Request {
	return &Request{
		Action:   action,
		Body:     body,
		Kwargs:   maps.Clone(kwargs),
		Identity: identity,
		Header:   header,
		FromMCP:  true,
	}
}

// WithIdentity returns a copy of the request carrying the given identity.
func (r *Request) WithIdentity(id Identity) *Request {
	out := *r
	out.Identity = id
	return &out
}

// WithVersion returns a copy of the request carrying the resolved version.
func (r *Request) WithVersion(v string) *Request {
	out := *r
	out.Version = v
	return &out
}

// BodyObject returns the body as an object, or an empty map when the body is
// absent or not an object.
func (r *Request) BodyObject() map[string]any {
	if m, ok := r.Body.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
