package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// DeniedError is an authentication, permission, or throttling failure with
// an HTTP-equivalent status. The protocol handler maps the status onto the
// wire; everything else treats it as a regular error.
type DeniedError struct {
	// Status is the HTTP-equivalent status code (401, 403, 429).
	Status int

	// Message is the human-readable denial reason.
	Message string

	// Header is the WWW-Authenticate challenge to attach to 401-equivalent
	// responses, when one is known.
	Header string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s: %s", http.StatusText(e.Status), e.Message)
}

// NotAuthenticated is a 401 denial for requests with no valid credentials.
func NotAuthenticated(message string) *DeniedError {
	if message == "" {
		message = "authentication credentials were not provided"
	}
	return &DeniedError{Status: http.StatusUnauthorized, Message: message}
}

// AuthenticationFailed is a 401 denial for requests with bad credentials.
func AuthenticationFailed(message string) *DeniedError {
	if message == "" {
		message = "incorrect authentication credentials"
	}
	return &DeniedError{Status: http.StatusUnauthorized, Message: message}
}

// PermissionDenied is a 403 denial.
func PermissionDenied(message string) *DeniedError {
	if message == "" {
		message = "you do not have permission to perform this action"
	}
	return &DeniedError{Status: http.StatusForbidden, Message: message}
}

// Throttled is a 429 denial.
func Throttled(message string) *DeniedError {
	if message == "" {
		message = "request was throttled"
	}
	return &DeniedError{Status: http.StatusTooManyRequests, Message: message}
}

// AsDenied extracts a DeniedError from an error chain.
func AsDenied(err error) (*DeniedError, bool) {
	var denied *DeniedError
	if errors.As(err, &denied) {
		return denied, true
	}
	return nil, false
}

// Authenticator establishes a caller identity from a request.
type Authenticator interface {
	// Authenticate returns the identity for the request. A nil identity
	// with a nil error means the authenticator does not apply (the next
	// one is tried); a non-nil error aborts the call with a 401.
	Authenticate(ctx context.Context, req *Request) (*Identity, error)

	// Challenge returns the WWW-Authenticate header value advertised on
	// 401 responses, or empty when none applies.
	Challenge() string
}

// Permission is the coarse, pre-dispatch permission check run by the
// invocation pipeline before the action body executes.
type Permission interface {
	// HasPermission reports whether the identity on the request may
	// perform the request's action. A false return is converted into a
	// 401 or 403 denial depending on whether the caller is authenticated.
	HasPermission(ctx context.Context, req *Request) bool
}

// ObjectPermission is the fine-grained check run against a specific
// instance. Handlers call CheckObjectPermissions from inside action bodies
// after retrieving the instance; the pipeline never elides these, even when
// action-level permission bypass is configured.
type ObjectPermission interface {
	HasObjectPermission(ctx context.Context, req *Request, obj any) bool
}

// CheckObjectPermissions runs every ObjectPermission in perms against obj.
// Permissions that do not implement ObjectPermission are skipped. Returns a
// DeniedError on the first failing check.
func CheckObjectPermissions(ctx context.Context, req *Request, perms []Permission, obj any) error {
	for _, p := range perms {
		op, ok := p.(ObjectPermission)
		if !ok {
			continue
		}
		if !op.HasObjectPermission(ctx, req, obj) {
			if req.Identity.IsAnonymous() {
				return NotAuthenticated("")
			}
			return PermissionDenied("")
		}
	}
	return nil
}

// Throttle limits how often an action may be invoked.
type Throttle interface {
	// Allow returns a 429 DeniedError when the request exceeds the limit.
	Allow(ctx context.Context, req *Request) error
}

// VersionScheme resolves the API version for a request.
type VersionScheme interface {
	Determine(ctx context.Context, req *Request) (string, error)
}
